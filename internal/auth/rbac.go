package auth

import "net/http"

const (
	RoleAdmin    = "admin"
	RoleEngineer = "engineer"
)

// RequireRole gates a route on the caller's role. Admins pass every check.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeError(w, http.StatusForbidden, "no user in context")
				return
			}
			if user.Role != role && user.Role != RoleAdmin {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
