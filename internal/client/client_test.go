package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkubik/user-admin-api/internal/auth"
	"github.com/jkubik/user-admin-api/internal/httputil"
	"github.com/jkubik/user-admin-api/internal/user"
)

func TestClient_Login(t *testing.T) {
	t.Parallel()

	identity := auth.SanitizedUser{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice@example.com", body["email"])

		httputil.RespondJSON(w, auth.LoginResult{Token: "issued-token", User: identity}, http.StatusOK)
	}))
	defer srv.Close()

	cli := New(srv.URL)

	result, err := cli.Login(context.Background(), "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", result.Token)
	assert.Equal(t, identity, result.User)
}

func TestClient_Users_AttachesBearerToken(t *testing.T) {
	t.Parallel()

	caller := uuid.New()
	lastLogin := time.Now().UTC().Truncate(time.Second)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
		assert.Equal(t, caller.String(), r.URL.Query().Get("id"))

		httputil.RespondJSON(w, []user.Projection{
			{ID: uuid.New(), Name: "Bob", Email: "bob@example.com", LastLogin: &lastLogin},
		}, http.StatusOK)
	}))
	defer srv.Close()

	cli := New(srv.URL)
	cli.SetToken("issued-token")

	users, err := cli.Users(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
}

func TestClient_BulkOperations(t *testing.T) {
	t.Parallel()

	ids := []uuid.UUID{uuid.New(), uuid.New()}

	var gotMethod, gotPath string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		httputil.RespondJSON(w, map[string]string{"message": "ok"}, http.StatusOK)
	}))
	defer srv.Close()

	cli := New(srv.URL)
	cli.SetToken("issued-token")

	require.NoError(t, cli.SetBlocked(context.Background(), ids, true))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/users/block", gotPath)
	assert.Equal(t, true, gotBody["isBlocked"])
	assert.Len(t, gotBody["userIds"], 2)

	require.NoError(t, cli.Delete(context.Background(), ids[:1]))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/users", gotPath)
	assert.Len(t, gotBody["userIds"], 1)
}

func TestClient_ErrorDecoding(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondErrorWithCode(w, "User blocked or not found", httputil.CodeUserBlocked, http.StatusUnauthorized)
	}))
	defer srv.Close()

	cli := New(srv.URL)
	cli.SetToken("stale-token")

	_, err := cli.Users(context.Background(), uuid.New())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, httputil.CodeUserBlocked, apiErr.Code)
	assert.Equal(t, "User blocked or not found", apiErr.Message)
	assert.True(t, IsSessionInvalid(err))
}

func TestIsSessionInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"blocked", &APIError{Code: httputil.CodeUserBlocked}, true},
		{"expired", &APIError{Code: httputil.CodeTokenExpired}, true},
		{"invalid token", &APIError{Code: httputil.CodeInvalidToken}, true},
		{"missing auth", &APIError{Code: httputil.CodeMissingAuth}, true},
		{"server error", &APIError{Code: httputil.CodeInternalError}, false},
		{"plain error", context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsSessionInvalid(tt.err))
		})
	}
}

func TestSessionStore(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)

	t.Run("missing file yields empty session", func(t *testing.T) {
		session, err := store.Load()
		require.NoError(t, err)
		assert.False(t, session.LoggedIn())
		assert.False(t, session.DarkMode)
	})

	t.Run("round trip", func(t *testing.T) {
		identity := &auth.SanitizedUser{ID: uuid.New(), Name: "Alice", Email: "alice@example.com"}
		require.NoError(t, store.Save(&Session{Token: "issued-token", User: identity, DarkMode: true}))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.True(t, loaded.LoggedIn())
		assert.Equal(t, "issued-token", loaded.Token)
		assert.Equal(t, identity.ID, loaded.User.ID)
		assert.True(t, loaded.DarkMode)
	})

	t.Run("clear drops identity but keeps theme", func(t *testing.T) {
		require.NoError(t, store.Clear())

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.False(t, loaded.LoggedIn())
		assert.Empty(t, loaded.Token)
		assert.True(t, loaded.DarkMode)
	})
}
