package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkubik/user-admin-api/internal/logging"
)

type stubTokenService struct {
	claims *TokenClaims
	err    error
}

func (s *stubTokenService) CreateToken(uuid.UUID, time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubTokenService) VerifyToken(string) (*TokenClaims, error) {
	return s.claims, s.err
}

type stubRevocations struct {
	revoked bool
	err     error
}

func (s *stubRevocations) IsRevoked(context.Context, uuid.UUID) (bool, error) {
	return s.revoked, s.err
}

func validClaims(userID uuid.UUID) *TokenClaims {
	now := time.Now()
	return &TokenClaims{
		UserID:    userID.String(),
		IssuedAt:  now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestMiddleware_RequireAuth(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name        string
		authHeader  string
		tokens      *stubTokenService
		revocations *stubRevocations
		wantStatus  int
		wantNext    bool
	}{
		{
			name:        "missing header",
			authHeader:  "",
			tokens:      &stubTokenService{},
			revocations: &stubRevocations{},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "malformed header",
			authHeader:  "Token abc",
			tokens:      &stubTokenService{},
			revocations: &stubRevocations{},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "invalid token",
			authHeader:  "Bearer bad",
			tokens:      &stubTokenService{err: ErrInvalidToken},
			revocations: &stubRevocations{},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer old",
			tokens:      &stubTokenService{err: ErrExpiredToken},
			revocations: &stubRevocations{},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "non-uuid subject",
			authHeader:  "Bearer ok",
			tokens:      &stubTokenService{claims: &TokenClaims{UserID: "42"}},
			revocations: &stubRevocations{},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "revoked user",
			authHeader:  "Bearer ok",
			tokens:      &stubTokenService{claims: validClaims(userID)},
			revocations: &stubRevocations{revoked: true},
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "revocation store down fails open",
			authHeader:  "Bearer ok",
			tokens:      &stubTokenService{claims: validClaims(userID)},
			revocations: &stubRevocations{err: errors.New("redis down")},
			wantStatus:  http.StatusOK,
			wantNext:    true,
		},
		{
			name:        "valid token",
			authHeader:  "Bearer ok",
			tokens:      &stubTokenService{claims: validClaims(userID)},
			revocations: &stubRevocations{},
			wantStatus:  http.StatusOK,
			wantNext:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMiddleware(tt.tokens, tt.revocations, logging.NewLogger(true))

			nextCalled := false
			var ctxUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				ctxUserID, _ = GetUserIDFromContext(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			rec := httptest.NewRecorder()
			m.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
			if tt.wantNext {
				assert.Equal(t, userID, ctxUserID)
			}
		})
	}
}

func TestMiddleware_RevokedResponseCode(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	m := NewMiddleware(
		&stubTokenService{claims: validClaims(userID)},
		&stubRevocations{revoked: true},
		logging.NewLogger(true),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer ok")

	rec := httptest.NewRecorder()
	m.RequireAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("next handler must not run for a revoked user")
	})).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "USER_BLOCKED")
	assert.Contains(t, rec.Body.String(), "User blocked or not found")
}
