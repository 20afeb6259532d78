// Package store holds the client's current belief about a server-owned
// collection, keyed by entity id and kept in insertion order.
package store

import "sync"

// Entity is any row type the store can hold.
type Entity interface {
	EntityID() int
}

// Store is an in-memory, id-keyed, ordered collection of one entity type.
// All mutation goes through the methods below; callers never hold a
// reference into live internal state.
type Store[T Entity] struct {
	mu      sync.Mutex
	items   []T
	byID    map[int]int // id -> position in items
	version uint64
}

// New creates an empty Store.
func New[T Entity]() *Store[T] {
	return &Store[T]{
		byID: make(map[int]int),
	}
}

// ReplaceAll discards prior contents and installs items, in order.
// Used after a full reload.
func (s *Store[T]) ReplaceAll(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]T, len(items))
	copy(s.items, items)
	s.byID = make(map[int]int, len(items))
	for i, item := range s.items {
		s.byID[item.EntityID()] = i
	}
	s.version++
}

// UpsertOne inserts item if its id is absent, otherwise replaces the
// existing entry in place, preserving its position.
func (s *Store[T]) UpsertOne(item T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pos, ok := s.byID[item.EntityID()]; ok {
		s.items[pos] = item
	} else {
		s.byID[item.EntityID()] = len(s.items)
		s.items = append(s.items, item)
	}
	s.version++
}

// PatchByID applies patch to the single entity with the given id.
// Returns false (and changes nothing) when the id is absent; the caller
// decides whether that is worth a warning.
func (s *Store[T]) PatchByID(id int, patch func(T) T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.byID[id]
	if !ok {
		return false
	}
	s.items[pos] = patch(s.items[pos])
	s.version++
	return true
}

// RemoveByID deletes the entity with the given id if present. Idempotent.
func (s *Store[T]) RemoveByID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.byID[id]
	if !ok {
		return
	}
	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.byID, id)
	for i := pos; i < len(s.items); i++ {
		s.byID[s.items[i].EntityID()] = i
	}
	s.version++
}

// RestoreAt reinserts item at the given position, clamped to the current
// bounds. Used by rollback to undo a removal without losing row order.
func (s *Store[T]) RestoreAt(item T, pos int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byID[item.EntityID()]; ok {
		s.items[existing] = item
		s.version++
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.items) {
		pos = len(s.items)
	}
	s.items = append(s.items, item)
	copy(s.items[pos+1:], s.items[pos:])
	s.items[pos] = item
	for i := pos; i < len(s.items); i++ {
		s.byID[s.items[i].EntityID()] = i
	}
	s.version++
}

// Get returns the entity with the given id and whether it was present,
// along with its current position.
func (s *Store[T]) Get(id int) (item T, pos int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok = s.byID[id]
	if !ok {
		return item, -1, false
	}
	return s.items[pos], pos, true
}

// Snapshot returns a copy of the collection in order. The returned slice
// shares no backing storage with live state, and because patches always
// replace whole values rather than mutating in place, snapshots are safe
// to hold across mutations and to use for rollback capture.
func (s *Store[T]) Snapshot() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of entities currently held.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Version returns a counter that increments on every change. Views use it
// to detect that a re-render is due.
func (s *Store[T]) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}
