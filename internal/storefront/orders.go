package storefront

import (
	"context"
	"errors"
	"fmt"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/log"
	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/session"
	"github.com/fruitstand-dev/fruitstand/internal/store"
)

// OrderService manages the order history page (read-only, any
// authenticated user) and the fulfillment page (admin; the fulfilled flag
// is the one client-mutable field, toggled optimistically and
// reversibly).
type OrderService struct {
	client   API
	sessions *session.Manager
	history  *store.Store[api.Order]
	queue    *store.Store[api.Order]
	co       *mutate.Coordinator[api.Order]
	events   *log.Logger
}

// NewOrderService creates an OrderService with empty history and queue
// stores. events may be nil.
func NewOrderService(client API, sessions *session.Manager, events *log.Logger) *OrderService {
	queue := store.New[api.Order]()
	return &OrderService{
		client:   client,
		sessions: sessions,
		history:  store.New[api.Order](),
		queue:    queue,
		co:       mutate.NewCoordinator(queue),
		events:   events,
	}
}

// History exposes the order history collection for rendering.
func (o *OrderService) History() *store.Store[api.Order] {
	return o.history
}

// Queue exposes the fulfillment queue collection for rendering.
func (o *OrderService) Queue() *store.Store[api.Order] {
	return o.queue
}

// Pending reports whether a fulfillment toggle is in flight for the order.
func (o *OrderService) Pending(orderID int, kind mutate.Kind) bool {
	return o.co.Pending(orderID, kind)
}

// LoadHistory replaces the history store with the current user's orders.
// Requires an authenticated session; the remote side is never contacted
// when the gate denies.
func (o *OrderService) LoadHistory(ctx context.Context) error {
	if !o.sessions.CanLoad(session.RoleAny) {
		o.log(log.LogEvent{Event: log.EventGateDenied, Page: "history"})
		return session.ErrUnauthorized
	}

	orders, err := o.client.ListOrderHistory(ctx)
	if err != nil {
		return fmt.Errorf("load order history: %w", err)
	}
	o.history.ReplaceAll(orders)
	o.log(log.LogEvent{Event: log.EventLoadComplete, Page: "history", Count: len(orders)})
	return nil
}

// LoadQueue replaces the fulfillment queue with every order. Admin only.
func (o *OrderService) LoadQueue(ctx context.Context) error {
	if !o.sessions.CanLoad(session.RoleAdmin) {
		o.log(log.LogEvent{Event: log.EventGateDenied, Page: "fulfillment"})
		return session.ErrUnauthorized
	}

	orders, err := o.client.ListFulfillmentQueue(ctx)
	if err != nil {
		return fmt.Errorf("load fulfillment queue: %w", err)
	}
	o.queue.ReplaceAll(orders)
	o.log(log.LogEvent{Event: log.EventLoadComplete, Page: "fulfillment", Count: len(orders)})
	return nil
}

// Fulfill marks an order fulfilled, optimistically.
func (o *OrderService) Fulfill(ctx context.Context, orderID int) error {
	return o.toggle(ctx, orderID, mutate.KindFulfill, true, o.client.FulfillOrder)
}

// Unfulfill reverts an order to unfulfilled, optimistically.
func (o *OrderService) Unfulfill(ctx context.Context, orderID int) error {
	return o.toggle(ctx, orderID, mutate.KindUnfulfill, false, o.client.UnfulfillOrder)
}

func (o *OrderService) toggle(ctx context.Context, orderID int, kind mutate.Kind, fulfilled bool, call func(context.Context, int) error) error {
	if err := o.sessions.Authorize(session.RoleAdmin); err != nil {
		o.log(log.LogEvent{
			Event:    log.EventGateDenied,
			Page:     "fulfillment",
			Kind:     string(kind),
			EntityID: orderID,
		})
		return err
	}

	m := mutate.Mutation[api.Order]{
		TargetID: orderID,
		Kind:     kind,
		Apply: func(s *store.Store[api.Order]) {
			s.PatchByID(orderID, func(ord api.Order) api.Order {
				ord.Fulfilled = fulfilled
				return ord
			})
		},
		Call: func(ctx context.Context) (mutate.Reconcile[api.Order], error) {
			return nil, call(ctx, orderID)
		},
	}

	if err := o.co.Perform(ctx, m); err != nil {
		if !errors.Is(err, mutate.ErrPending) {
			o.log(log.LogEvent{
				Event:    log.EventMutationRolledBack,
				Page:     "fulfillment",
				Kind:     string(kind),
				EntityID: orderID,
				Error:    err.Error(),
			})
		}
		return err
	}
	o.log(log.LogEvent{
		Event:    log.EventMutationReconciled,
		Page:     "fulfillment",
		Kind:     string(kind),
		EntityID: orderID,
	})
	return nil
}

func (o *OrderService) log(event log.LogEvent) {
	if o.events != nil {
		_ = o.events.Append(event)
	}
}
