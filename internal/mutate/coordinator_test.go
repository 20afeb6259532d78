package mutate

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/fruitstand-dev/fruitstand/internal/store"
)

type item struct {
	ID    int
	Name  string
	Stock int
}

func (i item) EntityID() int { return i.ID }

func seeded(items ...item) *store.Store[item] {
	s := store.New[item]()
	s.ReplaceAll(items)
	return s
}

func amendStock(id, stock int, call func(ctx context.Context) error) Mutation[item] {
	return Mutation[item]{
		TargetID: id,
		Kind:     KindAmend,
		Apply: func(s *store.Store[item]) {
			s.PatchByID(id, func(it item) item {
				it.Stock = stock
				return it
			})
		},
		Call: func(ctx context.Context) (Reconcile[item], error) {
			return nil, call(ctx)
		},
	}
}

func TestPerformAppliesOptimisticallyAndConfirms(t *testing.T) {
	s := seeded(item{ID: 7, Name: "mango", Stock: 3})
	co := NewCoordinator(s)

	var stockDuringCall int
	err := co.Perform(context.Background(), amendStock(7, 5, func(ctx context.Context) error {
		got, _, _ := s.Get(7)
		stockDuringCall = got.Stock
		return nil
	}))
	if err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	if stockDuringCall != 5 {
		t.Errorf("stock during remote call = %d, want 5 (optimistic patch applied first)", stockDuringCall)
	}
	got, _, _ := s.Get(7)
	if got.Stock != 5 {
		t.Errorf("stock after settle = %d, want 5", got.Stock)
	}
}

func TestPerformRollbackIsExact(t *testing.T) {
	s := seeded(
		item{ID: 1, Name: "apple", Stock: 2},
		item{ID: 7, Name: "mango", Stock: 3},
	)
	co := NewCoordinator(s)
	before := s.Snapshot()

	remoteErr := errors.New("server said no")
	err := co.Perform(context.Background(), amendStock(7, 99, func(ctx context.Context) error {
		return remoteErr
	}))
	if !errors.Is(err, remoteErr) {
		t.Fatalf("Perform error = %v, want the remote error", err)
	}

	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("store diverged after rollback:\n before %+v\n after  %+v", before, after)
	}
}

func TestPerformCreateReconciliationSupersedesProvisional(t *testing.T) {
	s := seeded()
	co := NewCoordinator(s)

	provisional := co.NextProvisionalID()
	if provisional >= 0 {
		t.Fatalf("provisional id = %d, want negative", provisional)
	}

	m := Mutation[item]{
		TargetID: provisional,
		Kind:     KindCreate,
		Apply: func(st *store.Store[item]) {
			st.UpsertOne(item{ID: provisional, Name: "Mango", Stock: 10})
		},
		Call: func(ctx context.Context) (Reconcile[item], error) {
			return func(st *store.Store[item]) {
				st.RemoveByID(provisional)
				st.UpsertOne(item{ID: 42, Name: "Mango", Stock: 10})
			}, nil
		},
	}
	if err := co.Perform(context.Background(), m); err != nil {
		t.Fatalf("Perform failed: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want exactly one entity for the creation", s.Len())
	}
	if _, _, ok := s.Get(provisional); ok {
		t.Error("provisional id still present after reconciliation")
	}
	got, _, ok := s.Get(42)
	if !ok {
		t.Fatal("server id 42 missing after reconciliation")
	}
	if got.Name != "Mango" || got.Stock != 10 {
		t.Errorf("reconciled entity = %+v", got)
	}
}

func TestPerformCreateRollbackRemovesProvisional(t *testing.T) {
	s := seeded()
	co := NewCoordinator(s)

	provisional := co.NextProvisionalID()
	m := Mutation[item]{
		TargetID: provisional,
		Kind:     KindCreate,
		Apply: func(st *store.Store[item]) {
			st.UpsertOne(item{ID: provisional, Name: "Mango", Stock: 10})
		},
		Call: func(ctx context.Context) (Reconcile[item], error) {
			return nil, errors.New("network down")
		},
	}
	if err := co.Perform(context.Background(), m); err == nil {
		t.Fatal("Perform should fail")
	}

	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 after create rollback", s.Len())
	}
}

func TestPerformRejectsSecondMutationOnSameKey(t *testing.T) {
	s := seeded(item{ID: 7, Name: "mango", Stock: 3})
	co := NewCoordinator(s)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- co.Perform(context.Background(), amendStock(7, 5, func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		}))
	}()

	<-entered
	err := co.Perform(context.Background(), amendStock(7, 9, func(ctx context.Context) error {
		t.Error("second mutation must not reach the remote side")
		return nil
	}))
	if !errors.Is(err, ErrPending) {
		t.Errorf("second Perform error = %v, want ErrPending", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Perform failed: %v", err)
	}

	got, _, _ := s.Get(7)
	if got.Stock != 5 {
		t.Errorf("final stock = %d, want 5 (second call rejected, not raced)", got.Stock)
	}
	if co.Pending(7, KindAmend) {
		t.Error("key still pending after settle")
	}
}

func TestPerformAllowsDifferentKindsOnSameEntity(t *testing.T) {
	s := seeded(item{ID: 7, Name: "mango", Stock: 3})
	co := NewCoordinator(s)

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- co.Perform(context.Background(), amendStock(7, 5, func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		}))
	}()
	<-entered

	// A delete on the same entity is a different pending key.
	m := Mutation[item]{
		TargetID: 7,
		Kind:     KindDelete,
		Apply:    func(st *store.Store[item]) { st.RemoveByID(7) },
		Call: func(ctx context.Context) (Reconcile[item], error) {
			return nil, errors.New("refused")
		},
	}
	if err := co.Perform(context.Background(), m); errors.Is(err, ErrPending) {
		t.Errorf("delete rejected as pending, want it keyed independently: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("amend failed: %v", err)
	}
}

func TestPerformDeleteRollbackRestoresPosition(t *testing.T) {
	s := seeded(
		item{ID: 1, Name: "apple", Stock: 2},
		item{ID: 3, Name: "pear", Stock: 4},
		item{ID: 5, Name: "mango", Stock: 6},
	)
	co := NewCoordinator(s)
	before := s.Snapshot()

	m := Mutation[item]{
		TargetID: 3,
		Kind:     KindDelete,
		Apply:    func(st *store.Store[item]) { st.RemoveByID(3) },
		Call: func(ctx context.Context) (Reconcile[item], error) {
			if st, _, ok := s.Get(3); ok {
				return nil, fmt.Errorf("entity %d still present during call", st.ID)
			}
			return nil, errors.New("connection refused")
		},
	}
	if err := co.Perform(context.Background(), m); err == nil {
		t.Fatal("Perform should fail")
	}

	after := s.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("delete rollback inexact:\n before %+v\n after  %+v", before, after)
	}
}

func TestRollbackOnOneKeyDoesNotClobberAnotherSettledMutation(t *testing.T) {
	s := seeded(
		item{ID: 1, Name: "apple", Stock: 2},
		item{ID: 2, Name: "pear", Stock: 4},
	)
	co := NewCoordinator(s)

	entered := make(chan struct{})
	release := make(chan struct{})
	failDone := make(chan error, 1)

	// The failing mutation on id 1 is still in flight while the
	// mutation on id 2 settles successfully.
	go func() {
		failDone <- co.Perform(context.Background(), amendStock(1, 50, func(ctx context.Context) error {
			close(entered)
			<-release
			return errors.New("rejected")
		}))
	}()
	<-entered

	if err := co.Perform(context.Background(), amendStock(2, 9, func(ctx context.Context) error {
		return nil
	})); err != nil {
		t.Fatalf("mutation on id 2 failed: %v", err)
	}

	close(release)
	if err := <-failDone; err == nil {
		t.Fatal("mutation on id 1 should fail")
	}

	one, _, _ := s.Get(1)
	two, _, _ := s.Get(2)
	if one.Stock != 2 {
		t.Errorf("id 1 stock = %d, want 2 (rolled back)", one.Stock)
	}
	if two.Stock != 9 {
		t.Errorf("id 2 stock = %d, want 9 (settled change must survive the other rollback)", two.Stock)
	}
}
