package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/crucial707/todoapp/internal/auth"
)

type key string

const userKey key = "session_user"

// RequireAuth gates protected page groups on a valid session cookie.
// No cookie redirects straight to the login page; an expired or invalid
// token additionally clears the cookie so the browser stops sending it.
func RequireAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := svc.CurrentUser(r)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					auth.ClearSessionCookie(w)
				}
				http.Redirect(w, r, "/auth", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims)))
		})
	}
}

// WithUser returns a context carrying the verified session claims.
func WithUser(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, userKey, claims)
}

// GetUser returns the session claims stored by RequireAuth, if any.
func GetUser(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(userKey).(*auth.Claims)
	return claims, ok
}
