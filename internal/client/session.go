package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jkubik/user-admin-api/internal/auth"
)

// Session is the client-held state persisted across invocations: the
// bearer token, the identity it was issued for, and the theme preference.
type Session struct {
	Token    string             `json:"token,omitempty"`
	User     *auth.SanitizedUser `json:"user,omitempty"`
	DarkMode bool               `json:"dark_mode"`
}

// LoggedIn reports whether a usable session is stored.
func (s *Session) LoggedIn() bool {
	return s.Token != "" && s.User != nil
}

// SessionStore persists the session as JSON in the user config dir.
type SessionStore struct {
	path string
}

// NewSessionStore returns a store rooted at the user config dir, or at
// the given override path if non-empty.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		path = filepath.Join(configDir, "adminctl", "session.json")
	}

	return &SessionStore{path: path}, nil
}

// Load reads the persisted session. A missing file yields an empty
// session, not an error.
func (s *SessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	return &session, nil
}

// Save writes the session to disk, creating the directory if needed.
func (s *SessionStore) Save(session *Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// Clear drops the token and identity on logout but keeps the theme
// preference.
func (s *SessionStore) Clear() error {
	session, err := s.Load()
	if err != nil {
		session = &Session{}
	}

	return s.Save(&Session{DarkMode: session.DarkMode})
}
