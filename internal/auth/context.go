package auth

import "context"

// User is the authenticated caller as carried in the token claims. The add-on
// trusts the admin panel's identity provider; there is no local user table.
type User struct {
	Sub  string
	Name string
	Role string
}

type ctxKey string

const userKey ctxKey = "user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey).(*User)
	return u
}
