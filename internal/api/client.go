// Package api implements the HTTP client for the storefront backend.
// This file provides the client itself, with bearer credential attachment
// and error classification.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer credential for authenticated calls and
// is told to discard it when the server rejects it.
type TokenSource interface {
	// Token returns the stored credential, or "" when anonymous.
	Token() string
	// Invalidate discards the credential after an auth-rejected response.
	Invalidate()
}

// Client calls the storefront backend. Authenticated calls attach the
// stored credential as the accessToken header; an absent credential means
// the call goes out unauthenticated and the server's rejection is
// classified as unauthorized rather than crashing the client.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates a Client for the API at baseURL. timeout bounds each
// request end to end.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// errorBody is the server's structured error payload.
type errorBody struct {
	Message string `json:"message"`
}

// call performs one HTTP exchange: marshal payload (if any), attach the
// credential when authed, send, classify failures, unmarshal the response
// into out (if non-nil).
func (c *Client) call(ctx context.Context, method, path string, payload, out any, authed bool) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: marshalling %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: building %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if authed {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("accessToken", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: NetworkErrMessage}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Message: NetworkErrMessage}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: unmarshalling %s response: %w", path, err)
		}
	}
	return nil
}

// classify turns a non-2xx response into a typed Error. Auth rejections
// also invalidate the stored credential so the session reverts to
// anonymous.
func (c *Client) classify(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		c.tokens.Invalidate()
		return &Error{Kind: KindUnauthorized, Status: status, Message: message}
	}
	return &Error{Kind: KindRemote, Status: status, Message: message}
}

// Login exchanges credentials for a session and token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	var result LoginResult
	if err := c.call(ctx, http.MethodPost, "/users/login", payload, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFruits loads the full inventory.
func (c *Client) ListFruits(ctx context.Context) ([]Fruit, error) {
	var fruits []Fruit
	err := c.call(ctx, http.MethodGet, "/store", nil, &fruits, false)
	return fruits, err
}

// AddFruit creates an inventory row and returns the server-assigned id.
// The endpoint takes a batch; this client always sends a single row.
func (c *Client) AddFruit(ctx context.Context, name string, priceCents, stock int) (int, error) {
	payload := []Fruit{{Name: name, PriceCents: priceCents, Stock: stock}}
	var created []struct {
		ID int `json:"id"`
	}
	if err := c.call(ctx, http.MethodPost, "/store/addFruit", payload, &created, true); err != nil {
		return 0, err
	}
	if len(created) == 0 {
		return 0, fmt.Errorf("api: addFruit response carried no created row")
	}
	return created[0].ID, nil
}

// UpdateFruitStock amends the stock of one fruit.
func (c *Client) UpdateFruitStock(ctx context.Context, fruitID, stock int) error {
	payload := map[string]int{
		"fruitId":       fruitID,
		"stockQuantity": stock,
	}
	return c.call(ctx, http.MethodPost, "/store/updateQuantity", payload, nil, true)
}

// DeleteFruit removes one inventory row.
func (c *Client) DeleteFruit(ctx context.Context, fruitID int) error {
	payload := map[string]int{"fruitId": fruitID}
	return c.call(ctx, http.MethodPost, "/store/deleteFruit", payload, nil, true)
}

// ListOrderHistory loads the current user's orders (all orders for admin).
func (c *Client) ListOrderHistory(ctx context.Context) ([]Order, error) {
	return c.listOrders(ctx, "/orders/orderHistory")
}

// ListFulfillmentQueue loads every order for the admin fulfillment view.
func (c *Client) ListFulfillmentQueue(ctx context.Context) ([]Order, error) {
	return c.listOrders(ctx, "/orders/orderFulfillmentList")
}

func (c *Client) listOrders(ctx context.Context, path string) ([]Order, error) {
	var wires []orderWire
	if err := c.call(ctx, http.MethodGet, path, nil, &wires, true); err != nil {
		return nil, err
	}
	orders := make([]Order, 0, len(wires))
	for _, w := range wires {
		orders = append(orders, w.flatten())
	}
	return orders, nil
}

// FulfillOrder marks an order fulfilled.
func (c *Client) FulfillOrder(ctx context.Context, orderID int) error {
	payload := map[string]int{"ordersId": orderID}
	return c.call(ctx, http.MethodPost, "/orders/fulfilOrder", payload, nil, true)
}

// UnfulfillOrder reverts an order to unfulfilled.
func (c *Client) UnfulfillOrder(ctx context.Context, orderID int) error {
	payload := map[string]int{"ordersId": orderID}
	return c.call(ctx, http.MethodPost, "/orders/undoFulfilOrder", payload, nil, true)
}
