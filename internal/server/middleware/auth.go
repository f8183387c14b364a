package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/corkboard/corkboard/internal/auth"
)

// Auth validates the request's access token and stores the user id in the
// request context. The token comes from the Authorization header, or from a
// token query parameter for websocket handshakes where browsers cannot set
// headers.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				http.Error(w, "missing credentials", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(jwtSecret, token)
			if err != nil || claims.TokenType != "access" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
