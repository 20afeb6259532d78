// Package tui implements the terminal user interface using Bubble Tea.
package tui

// ViewState represents the current state of the TUI.
type ViewState int

const (
	StateLogin ViewState = iota
	StateInventory
	StateHistory
	StateFulfillment
)

// Tab represents the active page tab once authenticated.
type Tab int

const (
	TabInventory Tab = iota
	TabHistory
	TabFulfillment
)

// TabState returns the view state a tab maps to.
func (t Tab) TabState() ViewState {
	switch t {
	case TabHistory:
		return StateHistory
	case TabFulfillment:
		return StateFulfillment
	default:
		return StateInventory
	}
}

// TabLabel returns the label rendered in the tab bar.
func (t Tab) TabLabel() string {
	switch t {
	case TabHistory:
		return "Order History"
	case TabFulfillment:
		return "Fulfillment"
	default:
		return "Inventory"
	}
}
