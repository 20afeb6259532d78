// Package storefront provides the page-level services behind the four
// views: login, fruit inventory, order history, and order fulfillment.
// Each service wires the access gate, local validation, the entity store,
// and the mutation coordinator around the remote API.
package storefront

import (
	"context"

	"github.com/fruitstand-dev/fruitstand/internal/api"
)

// API is the remote surface the services consume. *api.Client satisfies
// it; tests substitute call-counting fakes.
type API interface {
	Login(ctx context.Context, username, password string) (*api.LoginResult, error)
	ListFruits(ctx context.Context) ([]api.Fruit, error)
	AddFruit(ctx context.Context, name string, priceCents, stock int) (int, error)
	UpdateFruitStock(ctx context.Context, fruitID, stock int) error
	DeleteFruit(ctx context.Context, fruitID int) error
	ListOrderHistory(ctx context.Context) ([]api.Order, error)
	ListFulfillmentQueue(ctx context.Context) ([]api.Order, error)
	FulfillOrder(ctx context.Context, orderID int) error
	UnfulfillOrder(ctx context.Context, orderID int) error
}
