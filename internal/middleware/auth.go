package middleware

import (
	"net/http"
	"strings"

	"github.com/vikasavnish/hunterbot/internal/models"
	"github.com/vikasavnish/hunterbot/internal/utils"
)

// TokenParser validates a bearer token and returns its claims
type TokenParser interface {
	ParseToken(tokenString string) (*models.Claims, error)
}

// AuthMiddleware checks for valid JWT token and adds the user to the context
func AuthMiddleware(parser TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorizationHeader := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(authorizationHeader, "Bearer ")
			if !ok || tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := parser.ParseToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetUserToContext(r.Context(), claims.Username, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
