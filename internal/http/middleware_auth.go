package http

import (
	"net/http"
	"strings"

	"bookify/internal/auth"
	"bookify/internal/httpx"
)

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, ok := emailFromBearer(secret, r)
			if !ok {
				JSONError(w, http.StatusUnauthorized, "unauthorized", "login required", nil)
				return
			}
			next.ServeHTTP(w, r.WithContext(httpx.ContextWithUser(r.Context(), email)))
		})
	}
}

// OptionalAuthMiddleware attaches the user when a valid token is
// present and lets anonymous requests through untouched. Catalog pages
// are public but blend in the viewer's own rating when known.
func OptionalAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if email, ok := emailFromBearer(secret, r); ok {
				r = r.WithContext(httpx.ContextWithUser(r.Context(), email))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func emailFromBearer(secret string, r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	claims, err := auth.ParseToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return "", false
	}
	return claims.Email, true
}
