package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"destek-backend/pkg/common"

	"github.com/golang-jwt/jwt/v5"
)

// AuthenticateAdmin validates the HS256 bearer token on admin routes
func AuthenticateAdmin(secret, issuer string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin access is not configured")
				return
			}

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or malformed authorization header")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			},
				jwt.WithIssuer(issuer),
				jwt.WithValidMethods([]string{"HS256"}),
			)
			if err != nil || !token.Valid {
				common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
