package client

import (
	"context"
	"errors"
	"sync"

	"github.com/msousapenha/clinica-crm/internal/modules"
)

// State enumerates the shell lifecycle.
type State string

const (
	// StateBooting holds until the persisted session has been restored.
	StateBooting State = "booting"
	// StateUnauthenticated shows the login screen.
	StateUnauthenticated State = "unauthenticated"
	// StateAuthenticated shows the permission-gated navigation.
	StateAuthenticated State = "authenticated"
)

// Shell drives the application frame: session lifecycle plus the active
// navigation section.
type Shell struct {
	store *SessionStore

	mu     sync.Mutex
	state  State
	active modules.ID
}

// NewShell builds a Shell over the session store.
func NewShell(store *SessionStore) *Shell {
	return &Shell{store: store, state: StateBooting}
}

// State returns the current lifecycle state.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveSection returns the selected navigation section, empty while
// unauthenticated.
func (s *Shell) ActiveSection() modules.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Sections returns the user's granted sections in canonical order.
func (s *Shell) Sections() []modules.ID {
	user, ok := s.store.Current()
	if !ok {
		return nil
	}
	return modules.Allowed(user.Permissoes)
}

// Boot restores the persisted session and leaves StateBooting exactly
// once, whatever the restore outcome.
func (s *Shell) Boot() error {
	err := s.store.Restore()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.IsAuthenticated() {
		s.state = StateAuthenticated
		s.active = s.defaultSection()
	} else {
		s.state = StateUnauthenticated
		s.active = ""
	}
	return err
}

// Login authenticates and enters the authenticated state with the
// default section selected.
func (s *Shell) Login(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.store.Login(ctx, creds)
	if err != nil {
		return User{}, err
	}
	s.mu.Lock()
	s.state = StateAuthenticated
	s.active = s.defaultSection()
	s.mu.Unlock()
	return user, nil
}

// Logout revokes the session and discards the active section.
func (s *Shell) Logout(ctx context.Context) error {
	err := s.store.Logout(ctx)
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.active = ""
	s.mu.Unlock()
	return err
}

// SelectSection activates the section when the user holds its
// permission. A denied id leaves the active section unchanged.
func (s *Shell) SelectSection(id modules.ID) bool {
	user, ok := s.store.Current()
	if !ok {
		return false
	}
	if !modules.Contains(user.Permissoes, id) {
		return false
	}
	s.mu.Lock()
	s.active = id
	s.mu.Unlock()
	return true
}

// ObserveError watches for a dead token on any authenticated call. A 401
// clears the stored session and forces the shell back to the login
// screen; every other error passes through untouched.
func (s *Shell) ObserveError(err error) error {
	if err == nil || !errors.Is(err, ErrUnauthorized) {
		return err
	}
	s.store.Clear()
	s.mu.Lock()
	s.state = StateUnauthenticated
	s.active = ""
	s.mu.Unlock()
	return err
}

// defaultSection picks dashboard when granted, else the first granted
// section in canonical order.
func (s *Shell) defaultSection() modules.ID {
	user, ok := s.store.Current()
	if !ok {
		return ""
	}
	allowed := modules.Allowed(user.Permissoes)
	if len(allowed) == 0 {
		return ""
	}
	for _, id := range allowed {
		if id == modules.Dashboard {
			return id
		}
	}
	return allowed[0]
}
