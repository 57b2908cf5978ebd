package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/BereketMelese/Bloom/internal/models"
	jwtutil "github.com/BereketMelese/Bloom/pkg/jwt"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "jwt"

// UserFetcher loads the user a token refers to. *services.UserService
// satisfies it.
type UserFetcher interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// reject writes the same {success,message} envelope the handlers use, so
// middleware failures look no different to clients.
func reject(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// ExtractToken pulls the session token from the jwt cookie or, failing
// that, the Authorization bearer header. Returns "" when neither is set.
func ExtractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// AuthMiddleware verifies the session token, loads the user behind it and
// rejects tokens issued before the user's most recent password change.
// Password changes therefore revoke every previously issued session
// without a server-side revocation list.
func AuthMiddleware(secret string, users UserFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				reject(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			claims, err := jwtutil.ValidateToken(token, secret)
			if err != nil {
				logrus.WithError(err).Warn("Rejected invalid session token")
				reject(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			user, err := users.GetUser(r.Context(), claims.UserID)
			if err != nil {
				logrus.WithField("userID", claims.UserID).Warn("Session token for unknown user")
				reject(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			if !user.PasswordChangedAt.IsZero() && claims.IssuedAt != nil &&
				claims.IssuedAt.Time.Before(user.PasswordChangedAt) {
				logrus.WithField("userID", claims.UserID).Warn("Rejected session token issued before password change")
				reject(w, http.StatusUnauthorized, "Not authorized")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the session claims stored by AuthMiddleware,
// or nil when the request is unauthenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(userContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}

// RequireRole guards a subrouter with a role check. Must run after
// AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil || claims.Role != role {
				reject(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
