package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	slogctx "github.com/veqryn/slog-context"

	"github.com/bloodlink/dashboard/core"
	"github.com/bloodlink/dashboard/ports"
)

// Persisted entry names
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// SessionStore owns the dashboard session and keeps it in step with persistence.
// Mutations hold the lock across persistence I/O, so memory and storage never diverge.
type SessionStore struct {
	store  ports.Store
	events ports.EventPublisher

	mu      sync.RWMutex
	session core.Session
}

// NewSessionStore creates an empty session store. Call Restore to load a persisted session.
func NewSessionStore(store ports.Store, events ports.EventPublisher) *SessionStore {
	if events == nil {
		events = ports.NoopPublisher
	}
	return &SessionStore{
		store:  store,
		events: events,
	}
}

// Restore loads the persisted session into memory.
// Only a complete and valid pair is restored; anything else leaves the session empty.
func (s *SessionStore) Restore(ctx context.Context) core.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = s.load(ctx)
	return s.session
}

func (s *SessionStore) load(ctx context.Context) core.Session {
	token, tokenErr := s.store.Get(ctx, KeyToken)
	rawRole, roleErr := s.store.Get(ctx, KeyRole)

	for _, err := range []error{tokenErr, roleErr} {
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			slogctx.Warn(ctx, "Could not read persisted session", "error", err)
			return core.Session{}
		}
	}

	tokenFound, roleFound := tokenErr == nil, roleErr == nil
	switch {
	case !tokenFound && !roleFound:
		slogctx.Debug(ctx, "No persisted session")
		return core.Session{}
	case tokenFound != roleFound:
		slogctx.Warn(ctx, "Ignoring partial persisted session", "has_token", tokenFound, "has_role", roleFound)
		return core.Session{}
	case token == "":
		slogctx.Warn(ctx, "Ignoring persisted session with empty token")
		return core.Session{}
	}

	role, err := core.ParseRole(rawRole)
	if err != nil {
		slogctx.Warn(ctx, "Ignoring persisted session with invalid role", "error", err)
		return core.Session{}
	}

	slogctx.Debug(ctx, "Restored persisted session", "role", role)
	return core.Session{Token: token, Role: role}
}

// Login validates and persists the pair, then makes it the current session.
// On error neither memory nor persistence is changed by this call.
func (s *SessionStore) Login(ctx context.Context, token string, role core.Role) error {
	if token == "" {
		return core.ErrEmptyToken
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidRole, role)
	}

	if err := s.login(ctx, token, role); err != nil {
		return err
	}

	if err := s.events.PublishLogin(ctx, role); err != nil {
		slogctx.Warn(ctx, "Failed to publish login event", "error", err)
	}
	return nil
}

func (s *SessionStore) login(ctx context.Context, token string, role core.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Set(ctx, map[string]string{
		KeyToken: token,
		KeyRole:  role.String(),
	})
	if err != nil {
		return storeError("persisting session", err)
	}

	s.session = core.Session{Token: token, Role: role}
	return nil
}

// Logout clears the current session and its persisted entries.
// Logging out without a session succeeds. When the entries cannot be removed
// the session stays in memory, so memory never claims a logout that a restart would undo.
func (s *SessionStore) Logout(ctx context.Context) error {
	previous, err := s.logout(ctx)
	if err != nil {
		return err
	}

	if previous.Authenticated() {
		if err := s.events.PublishLogout(ctx, previous.Role); err != nil {
			slogctx.Warn(ctx, "Failed to publish logout event", "error", err)
		}
	}
	return nil
}

func (s *SessionStore) logout(ctx context.Context) (core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, KeyToken, KeyRole); err != nil {
		return core.Session{}, storeError("removing session", err)
	}

	previous := s.session
	s.session = core.Session{}
	return previous, nil
}

// CurrentToken returns the token of the current session, or an empty string
func (s *SessionStore) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// CurrentRole returns the role of the current session, or an empty role
func (s *SessionStore) CurrentRole() core.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Role
}

// Current returns a copy of the current session
func (s *SessionStore) Current() core.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func storeError(action string, err error) error {
	if errors.Is(err, core.ErrStoreOperationFailed) {
		return fmt.Errorf("%s: %w", action, err)
	}
	return fmt.Errorf("%s: %w", action, errors.Join(err, core.ErrStoreOperationFailed))
}
