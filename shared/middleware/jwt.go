package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vasapolrittideah/account-api/shared/utilities"
)

type contextKey struct{}

var claimsKey = contextKey{}

// NewJWTMiddleware rejects requests without a valid bearer token with 401 and
// stores the verified claims in the request context otherwise.
func NewJWTMiddleware[C any](verify func(token string) (C, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utilities.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := verify(token)
			if err != nil {
				utilities.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims stored by NewJWTMiddleware.
func ClaimsFromContext[C any](ctx context.Context) (C, bool) {
	claims, ok := ctx.Value(claimsKey).(C)
	return claims, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
