package client

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// sessionRecord is the single unit persisted to disk. Token and user are
// written and removed together, never one without the other.
type sessionRecord struct {
	Token   string `json:"token"`
	Usuario User   `json:"usuario"`
}

// SessionStore owns the persisted session and the in-memory copy of it.
type SessionStore struct {
	gateway *Gateway
	path    string

	mu      sync.Mutex
	token   string
	user    User
	authed  bool
	booting bool
}

// NewSessionStore builds a store persisting to the given file path.
func NewSessionStore(gateway *Gateway, path string) *SessionStore {
	return &SessionStore{gateway: gateway, path: path, booting: true}
}

// Booting reports whether Restore has not yet run.
func (s *SessionStore) Booting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.booting
}

// IsAuthenticated reports whether a session is loaded.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authed
}

// Current returns the logged-in user, false when unauthenticated.
func (s *SessionStore) Current() (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.authed
}

// Token returns the bearer credential, empty when unauthenticated.
func (s *SessionStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Restore loads the persisted session, if any. The booting flag clears
// on every path out of here, including a corrupt or missing file.
func (s *SessionStore) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.booting = false

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var record sessionRecord
	if err := json.Unmarshal(raw, &record); err != nil || record.Token == "" {
		_ = os.Remove(s.path)
		return nil
	}
	s.token = record.Token
	s.user = record.Usuario
	s.authed = true
	return nil
}

// Login authenticates and persists the session. A rejected login leaves
// both the in-memory state and the file untouched.
func (s *SessionStore) Login(ctx context.Context, creds Credentials) (User, error) {
	token, user, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return User{}, err
	}
	if err := s.persist(sessionRecord{Token: token, Usuario: user}); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.authed = true
	s.booting = false
	s.mu.Unlock()
	return user, nil
}

// Logout revokes the token and clears the stored session. Revocation is
// best effort: the local session and the file clear no matter what the
// server answered. Calling it while unauthenticated is a no-op.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	authed := s.authed
	s.mu.Unlock()
	if !authed {
		return nil
	}

	err := s.gateway.Logout(ctx, token)
	s.Clear()
	if err != nil && !errors.Is(err, ErrUnavailable) {
		return err
	}
	return nil
}

// Clear drops the in-memory session and the persisted record without
// talking to the server. Used for the forced logout on a dead token.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = User{}
	s.authed = false
	s.mu.Unlock()
	_ = os.Remove(s.path)
}

// persist writes the record atomically: temp file in the same directory,
// then rename over the target.
func (s *SessionStore) persist(record sessionRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".sessao-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.path)
}
