package middleware

import (
	"net/http"
	"strings"

	"study-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminToken checks the bearer token against a bcrypt hash. With an empty
// hash every request is refused.
func AdminToken(tokenHash string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			if tokenHash == "" {
				logger.Warn("Admin route called but no admin token is configured",
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Admin access disabled")
				return
			}

			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				logger.Warn("Admin check: invalid token",
					zap.String("path", r.URL.Path),
					zap.String("ip", r.RemoteAddr))
				utils.ResponseUnauthorized(w, "Invalid admin token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
