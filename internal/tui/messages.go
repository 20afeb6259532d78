// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
)

// ============================================================================
// Login Messages
// ============================================================================

// LoginRequestMsg asks the app to submit the login form.
type LoginRequestMsg struct {
	Username string
	Password string
}

// LoginSettledMsg reports the outcome of a login attempt. Exactly one of
// Result, FieldErrors, or Err is set.
type LoginSettledMsg struct {
	Result      *api.LoginResult
	FieldErrors storefront.ValidationErrors
	Err         error
}

// LogoutMsg asks the app to clear the session and return to the login
// view.
type LogoutMsg struct{}

// ============================================================================
// Load Messages
// ============================================================================

// FruitsLoadedMsg signals that the inventory finished (re)loading.
type FruitsLoadedMsg struct {
	Err error
}

// HistoryLoadedMsg signals that the order history finished (re)loading.
type HistoryLoadedMsg struct {
	Err error
}

// QueueLoadedMsg signals that the fulfillment queue finished (re)loading.
type QueueLoadedMsg struct {
	Err error
}

// ReloadRequestMsg asks the app to reload the active page from the remote.
type ReloadRequestMsg struct{}

// ============================================================================
// Mutation Messages
// ============================================================================

// AddFruitRequestMsg asks the app to create an inventory row.
type AddFruitRequestMsg struct {
	Name       string
	PriceCents int
	Stock      int
}

// AmendStockRequestMsg asks the app to amend one fruit's stock.
type AmendStockRequestMsg struct {
	FruitID int
	Stock   int
}

// DeleteFruitRequestMsg asks the app to delete one fruit.
type DeleteFruitRequestMsg struct {
	FruitID int
}

// ToggleFulfilledRequestMsg asks the app to fulfill or unfulfill an order.
type ToggleFulfilledRequestMsg struct {
	OrderID   int
	Fulfilled bool // desired state
}

// MutationSettledMsg reports that an optimistic mutation settled. On
// failure the store has already been rolled back; the view only needs to
// re-render and surface the message.
type MutationSettledMsg struct {
	Kind        mutate.Kind
	TargetID    int
	FieldErrors storefront.ValidationErrors
	Err         error
}

// ============================================================================
// Utility Messages
// ============================================================================

// CtrlCResetMsg clears the quit confirmation after its timeout.
type CtrlCResetMsg struct{}

// ErrorMsg is a generic error message for unrecoverable errors.
type ErrorMsg struct {
	Err error
}
