package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/prepdeck/brief/internal/api"
	"github.com/prepdeck/brief/internal/domain"
)

// APIKeyAuth guards routes behind a single static bearer token. An empty
// key disables authentication entirely (local development).
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				api.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				api.Error(w, http.StatusUnauthorized, "invalid authorization format")
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				api.HandleError(w, domain.ErrInvalidAPIKey)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
