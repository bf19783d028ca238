package user

import (
	"bytes"
	"context"
	"encoding/json"
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

type stubAdminService struct {
	projections []Projection
	err         error

	blockedIDs []uuid.UUID
	blockedVal bool
	deletedIDs []uuid.UUID
}

func (s *stubAdminService) ListUsers(context.Context, uuid.UUID) ([]Projection, error) {
	return s.projections, s.err
}

func (s *stubAdminService) SetBlocked(_ context.Context, ids []uuid.UUID, blocked bool) error {
	if s.err != nil {
		return s.err
	}
	s.blockedIDs = ids
	s.blockedVal = blocked
	return nil
}

func (s *stubAdminService) DeleteUsers(_ context.Context, ids []uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deletedIDs = ids
	return nil
}

func TestHandler_List(t *testing.T) {
	t.Parallel()

	lastLogin := time.Now().Add(-time.Minute)
	projections := []Projection{
		{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", LastLogin: &lastLogin, CreatedAt: time.Now()},
		{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", IsBlocked: true, CreatedAt: time.Now()},
	}

	t.Run("returns projections", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&stubAdminService{projections: projections}, logging.NewLogger(true))

		req := httptest.NewRequest(http.MethodGet, "/api/users?id="+uuid.New().String(), nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got []Projection
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
		assert.Equal(t, "Alice", got[0].Name)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("missing id param", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&stubAdminService{}, logging.NewLogger(true))

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "INVALID_USER_ID")
	})

	t.Run("non-uuid id param", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&stubAdminService{}, logging.NewLogger(true))

		req := httptest.NewRequest(http.MethodGet, "/api/users?id=42", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&stubAdminService{err: errors.New("db down")}, logging.NewLogger(true))

		req := httptest.NewRequest(http.MethodGet, "/api/users?id="+uuid.New().String(), nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_Block(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New()}

	t.Run("blocks given ids", func(t *testing.T) {
		t.Parallel()

		svc := &stubAdminService{}
		h := NewHandler(svc, logging.NewLogger(true))

		body, err := json.Marshal(BlockRequest{UserIDs: ids, IsBlocked: true})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/users/block", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Block(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ids, svc.blockedIDs)
		assert.True(t, svc.blockedVal)
		assert.Contains(t, rec.Body.String(), "Users updated successfully")
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&stubAdminService{}, logging.NewLogger(true))

		req := httptest.NewRequest(http.MethodPut, "/api/users/block", bytes.NewReader([]byte(`{"userIds":["nope"]}`)))
		rec := httptest.NewRecorder()
		h.Block(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		t.Parallel()

		h := NewHandler(&stubAdminService{err: errors.New("db down")}, logging.NewLogger(true))

		body, err := json.Marshal(BlockRequest{UserIDs: ids, IsBlocked: false})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPut, "/api/users/block", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Block(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New()}

	t.Run("deletes given ids", func(t *testing.T) {
		t.Parallel()

		svc := &stubAdminService{}
		h := NewHandler(svc, logging.NewLogger(true))

		body, err := json.Marshal(DeleteRequest{UserIDs: ids})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/users", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, ids, svc.deletedIDs)
		assert.Contains(t, rec.Body.String(), "Users deleted successfully")
	})

	t.Run("empty set succeeds", func(t *testing.T) {
		t.Parallel()

		svc := &stubAdminService{}
		h := NewHandler(svc, logging.NewLogger(true))

		req := httptest.NewRequest(http.MethodDelete, "/api/users", bytes.NewReader([]byte(`{"userIds":[]}`)))
		rec := httptest.NewRecorder()
		h.Delete(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, svc.deletedIDs)
	})
}
