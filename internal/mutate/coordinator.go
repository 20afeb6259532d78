// Package mutate orchestrates optimistic mutations of a server-owned
// collection: apply the change locally first, then reconcile it against
// the remote outcome or roll it back exactly.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fruitstand-dev/fruitstand/internal/store"
)

// ErrPending is returned when a mutation for the same (target, kind) key
// is already in flight. The caller must wait for the first to settle.
var ErrPending = errors.New("mutation already pending for this entity")

// Kind identifies the operation a mutation performs.
type Kind string

const (
	KindCreate    Kind = "create"
	KindAmend     Kind = "amend"
	KindDelete    Kind = "delete"
	KindFulfill   Kind = "fulfill"
	KindUnfulfill Kind = "unfulfill"
)

// Reconcile replaces the provisional local state with the server's
// canonical representation after a successful remote command. A nil
// Reconcile confirms the optimistic state as-is.
type Reconcile[T store.Entity] func(s *store.Store[T])

// Mutation describes one user-initiated change.
type Mutation[T store.Entity] struct {
	// TargetID is the id of the affected entity. Creates use a
	// provisional id from NextProvisionalID.
	TargetID int
	Kind     Kind

	// Apply is the optimistic patch, run synchronously before the
	// remote call so the change is visible immediately.
	Apply func(s *store.Store[T])

	// Call issues the remote command. It is the one blocking point in
	// Perform. On success it may return a Reconcile carrying
	// server-assigned fields.
	Call func(ctx context.Context) (Reconcile[T], error)
}

// pendingKey serializes mutations per entity and operation.
type pendingKey struct {
	id   int
	kind Kind
}

// rollbackPoint captures the affected entity before the optimistic patch:
// its value, whether it existed, and where it sat in the collection.
type rollbackPoint[T store.Entity] struct {
	value   T
	present bool
	pos     int
}

// Coordinator performs optimistic mutations against one store, guaranteeing
// the store never diverges permanently from the server's truth.
type Coordinator[T store.Entity] struct {
	store *store.Store[T]

	mu          sync.Mutex
	pending     map[pendingKey]struct{}
	provisional int
}

// NewCoordinator creates a Coordinator bound to s.
func NewCoordinator[T store.Entity](s *store.Store[T]) *Coordinator[T] {
	return &Coordinator[T]{
		store:   s,
		pending: make(map[pendingKey]struct{}),
	}
}

// NextProvisionalID returns a fresh negative id for an optimistic create.
// Negative ids cannot collide with server-assigned rows; the id doubles as
// the create's pending key until reconciliation replaces it.
func (c *Coordinator[T]) NextProvisionalID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.provisional--
	return c.provisional
}

// Pending reports whether a mutation for (id, kind) is currently in flight.
// Views use it to render the affected row as busy.
func (c *Coordinator[T]) Pending(id int, kind Kind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[pendingKey{id: id, kind: kind}]
	return ok
}

// Perform runs one optimistic mutation to completion:
// capture rollback state, apply the patch, issue the remote command, then
// reconcile on success or restore the exact prior state on failure.
// The error from the remote command is returned unchanged so callers can
// classify it.
func (c *Coordinator[T]) Perform(ctx context.Context, m Mutation[T]) error {
	key := pendingKey{id: m.TargetID, kind: m.Kind}

	c.mu.Lock()
	if _, busy := c.pending[key]; busy {
		c.mu.Unlock()
		return fmt.Errorf("%s %d: %w", m.Kind, m.TargetID, ErrPending)
	}
	c.pending[key] = struct{}{}
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
	}()

	var before rollbackPoint[T]
	before.value, before.pos, before.present = c.store.Get(m.TargetID)

	if m.Apply != nil {
		m.Apply(c.store)
	}

	reconcile, err := m.Call(ctx)
	if err != nil {
		c.rollback(m.TargetID, before)
		return err
	}

	if reconcile != nil {
		reconcile(c.store)
	}
	return nil
}

// rollback restores the affected entity to its pre-mutation state.
func (c *Coordinator[T]) rollback(id int, before rollbackPoint[T]) {
	if before.present {
		c.store.RestoreAt(before.value, before.pos)
		return
	}
	// The entity did not exist before the patch (a create); remove the
	// provisional row.
	c.store.RemoveByID(id)
}
