package commands

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// LoadHistoryCmd reloads the order history collection.
func LoadHistoryCmd(orders *storefront.OrderService) tea.Cmd {
	return func() tea.Msg {
		return tui.HistoryLoadedMsg{Err: orders.LoadHistory(context.Background())}
	}
}

// LoadQueueCmd reloads the fulfillment queue collection.
func LoadQueueCmd(orders *storefront.OrderService) tea.Cmd {
	return func() tea.Msg {
		return tui.QueueLoadedMsg{Err: orders.LoadQueue(context.Background())}
	}
}

// ToggleFulfilledCmd performs the optimistic fulfillment toggle.
func ToggleFulfilledCmd(orders *storefront.OrderService, orderID int, fulfilled bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		kind := mutate.KindFulfill
		if fulfilled {
			err = orders.Fulfill(context.Background(), orderID)
		} else {
			kind = mutate.KindUnfulfill
			err = orders.Unfulfill(context.Background(), orderID)
		}
		return settled(kind, orderID, err)
	}
}
