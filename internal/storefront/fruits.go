package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/log"
	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/session"
	"github.com/fruitstand-dev/fruitstand/internal/store"
)

// FruitService manages the fruit inventory page: loading the collection
// and the three admin-gated optimistic mutations (add, amend stock,
// delete).
type FruitService struct {
	client   API
	sessions *session.Manager
	fruits   *store.Store[api.Fruit]
	co       *mutate.Coordinator[api.Fruit]
	events   *log.Logger
}

// NewFruitService creates a FruitService with an empty inventory store.
// events may be nil.
func NewFruitService(client API, sessions *session.Manager, events *log.Logger) *FruitService {
	fruits := store.New[api.Fruit]()
	return &FruitService{
		client:   client,
		sessions: sessions,
		fruits:   fruits,
		co:       mutate.NewCoordinator(fruits),
		events:   events,
	}
}

// Store exposes the inventory collection for rendering.
func (f *FruitService) Store() *store.Store[api.Fruit] {
	return f.fruits
}

// Pending reports whether a mutation of the given kind is in flight for
// the fruit.
func (f *FruitService) Pending(fruitID int, kind mutate.Kind) bool {
	return f.co.Pending(fruitID, kind)
}

// Load replaces the inventory with the server's current collection.
// Listing the store is public; only mutations are gated.
func (f *FruitService) Load(ctx context.Context) error {
	fruits, err := f.client.ListFruits(ctx)
	if err != nil {
		return fmt.Errorf("load inventory: %w", err)
	}
	f.fruits.ReplaceAll(fruits)
	f.log(log.LogEvent{Event: log.EventLoadComplete, Page: "inventory", Count: len(fruits)})
	return nil
}

// Add creates an inventory row. The duplicate-name check is
// case-insensitive and gates the remote call: a duplicate never reaches
// the network. The optimistic row carries a provisional negative id that
// reconciliation replaces with the server-assigned one.
func (f *FruitService) Add(ctx context.Context, name string, priceCents, stock int) error {
	if err := f.authorize(mutate.KindCreate, 0); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	var errs ValidationErrors
	if name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "Please input a fruit name."})
	}
	if priceCents < 0 {
		errs = append(errs, ValidationError{Field: "price", Message: "Price cannot be negative."})
	}
	if stock < 0 {
		errs = append(errs, ValidationError{Field: "stock", Message: "Stock cannot be negative."})
	}
	if len(errs) > 0 {
		return errs
	}
	for _, existing := range f.fruits.Snapshot() {
		if strings.EqualFold(existing.Name, name) {
			return ValidationErrors{{Field: "name", Message: fmt.Sprintf("%s already exists.", name)}}
		}
	}

	provisionalID := f.co.NextProvisionalID()
	m := mutate.Mutation[api.Fruit]{
		TargetID: provisionalID,
		Kind:     mutate.KindCreate,
		Apply: func(s *store.Store[api.Fruit]) {
			s.UpsertOne(api.Fruit{ID: provisionalID, Name: name, PriceCents: priceCents, Stock: stock})
		},
		Call: func(ctx context.Context) (mutate.Reconcile[api.Fruit], error) {
			serverID, err := f.client.AddFruit(ctx, name, priceCents, stock)
			if err != nil {
				return nil, err
			}
			return func(s *store.Store[api.Fruit]) {
				s.RemoveByID(provisionalID)
				s.UpsertOne(api.Fruit{ID: serverID, Name: name, PriceCents: priceCents, Stock: stock})
			}, nil
		},
	}
	return f.perform(ctx, m)
}

// AmendStock sets the stock of one fruit, optimistically.
func (f *FruitService) AmendStock(ctx context.Context, fruitID, stock int) error {
	if err := f.authorize(mutate.KindAmend, fruitID); err != nil {
		return err
	}
	if stock < 0 {
		return ValidationErrors{{Field: "stock", Message: "Stock cannot be negative."}}
	}

	m := mutate.Mutation[api.Fruit]{
		TargetID: fruitID,
		Kind:     mutate.KindAmend,
		Apply: func(s *store.Store[api.Fruit]) {
			if !s.PatchByID(fruitID, func(fr api.Fruit) api.Fruit {
				fr.Stock = stock
				return fr
			}) {
				f.log(log.LogEvent{
					Event:    log.EventMutationApplied,
					Page:     "inventory",
					Kind:     string(mutate.KindAmend),
					EntityID: fruitID,
					Reason:   "patch target not loaded",
				})
			}
		},
		Call: func(ctx context.Context) (mutate.Reconcile[api.Fruit], error) {
			return nil, f.client.UpdateFruitStock(ctx, fruitID, stock)
		},
	}
	return f.perform(ctx, m)
}

// Delete removes one fruit, optimistically; on failure the row comes back
// at its original position.
func (f *FruitService) Delete(ctx context.Context, fruitID int) error {
	if err := f.authorize(mutate.KindDelete, fruitID); err != nil {
		return err
	}

	m := mutate.Mutation[api.Fruit]{
		TargetID: fruitID,
		Kind:     mutate.KindDelete,
		Apply: func(s *store.Store[api.Fruit]) {
			s.RemoveByID(fruitID)
		},
		Call: func(ctx context.Context) (mutate.Reconcile[api.Fruit], error) {
			return nil, f.client.DeleteFruit(ctx, fruitID)
		},
	}
	return f.perform(ctx, m)
}

// authorize re-checks the admin gate immediately before each mutation.
func (f *FruitService) authorize(kind mutate.Kind, id int) error {
	if err := f.sessions.Authorize(session.RoleAdmin); err != nil {
		f.log(log.LogEvent{
			Event:    log.EventGateDenied,
			Page:     "inventory",
			Kind:     string(kind),
			EntityID: id,
		})
		return err
	}
	return nil
}

func (f *FruitService) perform(ctx context.Context, m mutate.Mutation[api.Fruit]) error {
	if err := f.co.Perform(ctx, m); err != nil {
		// A pending rejection never applied anything, so there is
		// nothing to record as rolled back.
		if !errors.Is(err, mutate.ErrPending) {
			f.log(log.LogEvent{
				Event:    log.EventMutationRolledBack,
				Page:     "inventory",
				Kind:     string(m.Kind),
				EntityID: m.TargetID,
				Error:    err.Error(),
			})
		}
		return err
	}
	f.log(log.LogEvent{
		Event:    log.EventMutationReconciled,
		Page:     "inventory",
		Kind:     string(m.Kind),
		EntityID: m.TargetID,
	})
	return nil
}

func (f *FruitService) log(event log.LogEvent) {
	if f.events != nil {
		_ = f.events.Append(event)
	}
}
