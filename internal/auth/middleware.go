package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AccessCookie is the cookie the login endpoint sets for browser clients.
const AccessCookie = "talentboard_access"

type contextKeyClaims struct{}

// ClaimsFromContext returns the claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(contextKeyClaims{}).(*Claims)
	return c, ok
}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, contextKeyClaims{}, c)
}

// Username returns the authenticated username, or "" when there is none.
func Username(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.Username
	}
	return ""
}

func tokenFromRequest(r *http.Request) string {
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth rejects requests without a valid access token, taken from the
// Authorization header or, failing that, the access cookie.
func RequireAuth(svc *Service, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				logger.Warn("unauthorized access - missing token", zap.String("path", r.URL.Path))
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}
			claims, err := svc.ValidateAccess(token)
			if err != nil {
				logger.Warn("unauthorized access - invalid token", zap.String("path", r.URL.Path), zap.Error(err))
				writeUnauthorized(w, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
