package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticatePutsUserInContext(t *testing.T) {
	var got *User
	handler := NewJWTMiddleware(testSecret).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	}))

	token := signToken(t, Claims{Sub: "u-1", Name: "Мария", Role: RoleEngineer})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "u-1", got.Sub)
	assert.Equal(t, "Мария", got.Name)
	assert.Equal(t, RoleEngineer, got.Role)
}

func TestAuthenticateMissingToken(t *testing.T) {
	handler := NewJWTMiddleware(testSecret).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	handler := NewJWTMiddleware("other-secret").Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	token := signToken(t, Claims{Sub: "u-1", Role: RoleAdmin})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	handler := NewJWTMiddleware(testSecret).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	token := signToken(t, Claims{
		Sub:  "u-1",
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name     string
		userRole string
		required string
		want     int
	}{
		{"exact match", RoleEngineer, RoleEngineer, http.StatusNoContent},
		{"admin passes everything", RoleAdmin, RoleEngineer, http.StatusNoContent},
		{"engineer denied admin route", RoleEngineer, RoleAdmin, http.StatusForbidden},
		{"unknown role denied", "viewer", RoleEngineer, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireRole(tc.required)(ok)
			req := authedRequest("")
			req = req.WithContext(WithUser(req.Context(), &User{Sub: "u-1", Role: tc.userRole}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRequireRoleNoUser(t *testing.T) {
	handler := RequireRole(RoleEngineer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(""))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
