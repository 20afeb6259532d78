// Package api implements the HTTP client for the storefront backend.
// This file declares the wire types the client exchanges with the server.
package api

import "time"

// Fruit is one inventory row.
type Fruit struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	Stock      int    `json:"stock"`
}

// EntityID implements store.Entity.
func (f Fruit) EntityID() int { return f.ID }

// OrderDetail is one line item of an order. FruitName and PriceCents are a
// read-only join against the fruit the server resolved at checkout time.
type OrderDetail struct {
	ID         int
	FruitID    int
	FruitName  string
	PriceCents int
	Quantity   int
}

// Order is one customer order. TotalPriceCents is computed server-side and
// never written by this client; Fulfilled is the only client-mutable field.
type Order struct {
	ID              int
	CreatedAt       time.Time
	UsersID         int
	Username        string
	TotalPriceCents int
	Fulfilled       bool
	Details         []OrderDetail
}

// EntityID implements store.Entity.
func (o Order) EntityID() int { return o.ID }

// LoginResult is the server's response to a successful login.
type LoginResult struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	ID       int    `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Wire shapes for the orders endpoints. The server nests the joined fruit
// and user rows; the client flattens them into Order/OrderDetail.

type orderWire struct {
	ID              int               `json:"id"`
	CreatedAt       time.Time         `json:"createdAt"`
	UsersID         int               `json:"usersId"`
	TotalPriceCents int               `json:"total_price_cents"`
	Fulfilled       bool              `json:"fulfilled"`
	OrderDetails    []orderDetailWire `json:"orderDetails"`
	Users           *orderUserWire    `json:"users"`
}

type orderDetailWire struct {
	ID       int           `json:"id"`
	FruitsID int           `json:"fruitsId"`
	Quantity int           `json:"quantity"`
	Fruits   fruitJoinWire `json:"fruits"`
}

type fruitJoinWire struct {
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
}

type orderUserWire struct {
	Username string `json:"username"`
}

// flatten converts a wire order into the client-facing Order.
func (w orderWire) flatten() Order {
	o := Order{
		ID:              w.ID,
		CreatedAt:       w.CreatedAt,
		UsersID:         w.UsersID,
		TotalPriceCents: w.TotalPriceCents,
		Fulfilled:       w.Fulfilled,
		Details:         make([]OrderDetail, 0, len(w.OrderDetails)),
	}
	if w.Users != nil {
		o.Username = w.Users.Username
	}
	for _, d := range w.OrderDetails {
		o.Details = append(o.Details, OrderDetail{
			ID:         d.ID,
			FruitID:    d.FruitsID,
			FruitName:  d.Fruits.Name,
			PriceCents: d.Fruits.PriceCents,
			Quantity:   d.Quantity,
		})
	}
	return o
}
