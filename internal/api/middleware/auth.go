package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mcoot/crackthecode/internal/api/apierr"
	"github.com/mcoot/crackthecode/internal/middleware"
)

type contextKey string

const usernameContextKey contextKey = "username"

// TokenVerifier resolves a bearer token to a username
type TokenVerifier interface {
	Authenticate(token string) (string, error)
}

// Auth creates authentication middleware
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			username, err := verifier.Authenticate(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			middleware.AddLogAttrs(r.Context(), slog.String("username", username))
			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}

// extractToken reads the bearer token from the Authorization header
func extractToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithUsername returns ctx carrying the authenticated username
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey, username)
}

// GetUsername returns the authenticated username from the request context
func GetUsername(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameContextKey).(string)
	return username, ok && username != ""
}

// MustGetUsername returns the authenticated username or panics
func MustGetUsername(ctx context.Context) string {
	username, ok := GetUsername(ctx)
	if !ok {
		panic("no username in context - auth middleware not applied?")
	}
	return username
}
