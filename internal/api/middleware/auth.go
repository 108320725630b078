package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/galactus-p2p/galactus/internal/auth"
	"github.com/galactus-p2p/galactus/internal/utils"
)

type contextKey string

const UsernameKey contextKey = "username"

// StatusInvalidToken distinguishes a present-but-invalid credential (bad
// signature, malformed, expired) from a missing one, which stays 401.
const StatusInvalidToken = 498

// AuthMiddleware guards protected routes with a bearer token check. It only
// answers "is this token valid"; per-resource authorization stays in the
// handlers.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
					Success: false,
					Message: "Missing bearer token",
				})
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
					Success: false,
					Message: "Authorization header format must be Bearer {token}",
				})
				return
			}

			claims, err := auth.VerifyToken(parts[1], []byte(secret))
			if err != nil {
				utils.JSONResponse(w, StatusInvalidToken, utils.Payload{
					Success: false,
					Message: "Invalid token",
				})
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the identity the auth middleware attached.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok && username != ""
}
