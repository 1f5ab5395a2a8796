package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/openhaus/listing-service/internal/platform/logger"
)

// UserIDKeyType is a dedicated context-key type to avoid collisions.
type UserIDKeyType string

// UserIDKey holds the authenticated user's ID in the request context.
const UserIDKey UserIDKeyType = "authenticatedUserID"

// Claims is the token payload this service issues and expects back.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// UserIDFromContext extracts the ID set by JWTAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// JWTAuth rejects requests without a valid bearer token and stores the
// authenticated user ID in the context. The client treats the 401 as its
// redirect-to-login signal.
func JWTAuth(jwtSecret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("JWTAuth: missing Authorization header", "path", r.URL.Path)
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("JWTAuth: invalid Authorization header format, expected 'Bearer <token>'", "path", r.URL.Path)
				http.Error(w, "authorization token format is invalid, expected 'Bearer <token>'", http.StatusUnauthorized)
				return
			}
			tokenString := parts[1]

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				log.Warn("JWTAuth: token parsing or validation failed", "path", r.URL.Path, "error", err.Error())
				if errors.Is(err, jwt.ErrTokenExpired) {
					http.Error(w, "token has expired", http.StatusUnauthorized)
					return
				}
				http.Error(w, "token is invalid", http.StatusUnauthorized)
				return
			}
			if !token.Valid || claims.UserID == "" {
				log.Warn("JWTAuth: token is not valid or carries no user ID", "path", r.URL.Path)
				http.Error(w, "token is not valid", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
