package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jkubik/user-admin-api/internal/httputil"
	"github.com/jkubik/user-admin-api/internal/logging"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	UserIDContextKey ContextKey = "user_id"
)

// RevocationChecker reports whether a user's sessions have been invalidated.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
	revocations  RevocationChecker
	logger       *logging.Logger
}

func NewMiddleware(tokenService TokenService, revocations RevocationChecker, logger *logging.Logger) *Middleware {
	return &Middleware{
		tokenService: tokenService,
		revocations:  revocations,
		logger:       logger,
	}
}

// RequireAuth is a middleware that validates the bearer token
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.RespondErrorWithCode(w, "missing authentication", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondErrorWithCode(w, "invalid authorization header format", httputil.CodeInvalidAuthHeader, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				httputil.RespondErrorWithCode(w, "token has expired", httputil.CodeTokenExpired, http.StatusUnauthorized)
				return
			}
			httputil.RespondErrorWithCode(w, "invalid token", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "invalid user ID in token", httputil.CodeInvalidTokenUserID, http.StatusUnauthorized)
			return
		}

		// Blocked or deleted users keep a technically valid token until
		// expiry; the revocation marker closes that window. Fail open if
		// the store is unreachable so auth stays available.
		revoked, err := m.revocations.IsRevoked(r.Context(), userID)
		if err != nil {
			m.logger.Warn("failed to check session revocation", "user_id", userID, "error", err)
		} else if revoked {
			httputil.RespondErrorWithCode(w, "User blocked or not found", httputil.CodeUserBlocked, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext extracts the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDContextKey).(uuid.UUID)
	return userID, ok
}
