package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnauthorized is returned when the gate denies an operation. No
// network call is made on this path.
var ErrUnauthorized = errors.New("not authorized for this operation")

// Manager owns the process's single Session value with an explicit
// lifecycle: it starts anonymous, Establish moves it to authenticated, and
// Clear reverts it. It doubles as the api client's token source.
//
// The persistence store is optional; with a nil store the session simply
// does not survive the process.
type Manager struct {
	mu      sync.Mutex
	current Session
	store   *Store
	slot    string
}

// NewManager creates a Manager persisting to store (which may be nil).
func NewManager(store *Store) *Manager {
	return &Manager{
		store: store,
		slot:  DefaultSlot,
	}
}

// Restore loads a previously persisted credential, if any, and rebuilds
// the authenticated session from it. Called once at startup.
func (m *Manager) Restore() error {
	if m.store == nil {
		return nil
	}

	cred, err := m.store.LoadCredential(m.slot)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if cred == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{
		Status:   true,
		Role:     cred.Role,
		UserID:   cred.UserID,
		Username: cred.Username,
		Token:    cred.Token,
	}
	return nil
}

// Establish moves the session to authenticated and persists the
// credential. Called after a confirmed login.
func (m *Manager) Establish(token string, userID int, username string, role Role) error {
	m.mu.Lock()
	m.current = Session{
		Status:   true,
		Role:     role,
		UserID:   userID,
		Username: username,
		Token:    token,
	}
	m.mu.Unlock()

	if m.store == nil {
		return nil
	}
	err := m.store.SaveCredential(m.slot, Credential{
		Token:    token,
		Username: username,
		Role:     role,
		UserID:   userID,
	})
	if err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	if _, err := m.store.RecordLogin(username, role); err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

// Clear reverts the session to anonymous and wipes the persisted
// credential. Used on logout and on remote auth rejection.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.current = Session{}
	m.mu.Unlock()

	if m.store != nil {
		_ = m.store.ClearCredential(m.slot)
	}
}

// Current returns a copy of the session as of this instant.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CanLoad reports whether a page may load data: the session must be
// authenticated, and when required names a role, match it. Evaluated
// fresh on every call, never cached.
func (m *Manager) CanLoad(required Role) bool {
	sess := m.Current()
	if !sess.Status {
		return false
	}
	return required == RoleAny || sess.Role == required
}

// Authorize is the mutation-side gate: same check as CanLoad, evaluated
// again immediately before each mutation, surfacing ErrUnauthorized
// without contacting the remote side.
func (m *Manager) Authorize(required Role) error {
	if !m.CanLoad(required) {
		return ErrUnauthorized
	}
	return nil
}

// Token implements api.TokenSource.
func (m *Manager) Token() string {
	return m.Current().Token
}

// Invalidate implements api.TokenSource: the server rejected the
// credential, so the session reverts to anonymous.
func (m *Manager) Invalidate() {
	m.Clear()
}
