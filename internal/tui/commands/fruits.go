package commands

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// LoadFruitsCmd reloads the inventory collection.
func LoadFruitsCmd(fruits *storefront.FruitService) tea.Cmd {
	return func() tea.Msg {
		return tui.FruitsLoadedMsg{Err: fruits.Load(context.Background())}
	}
}

// AddFruitCmd performs the optimistic add mutation.
func AddFruitCmd(fruits *storefront.FruitService, name string, priceCents, stock int) tea.Cmd {
	return func() tea.Msg {
		err := fruits.Add(context.Background(), name, priceCents, stock)
		return settled(mutate.KindCreate, 0, err)
	}
}

// AmendStockCmd performs the optimistic stock amendment.
func AmendStockCmd(fruits *storefront.FruitService, fruitID, stock int) tea.Cmd {
	return func() tea.Msg {
		err := fruits.AmendStock(context.Background(), fruitID, stock)
		return settled(mutate.KindAmend, fruitID, err)
	}
}

// DeleteFruitCmd performs the optimistic delete.
func DeleteFruitCmd(fruits *storefront.FruitService, fruitID int) tea.Cmd {
	return func() tea.Msg {
		err := fruits.Delete(context.Background(), fruitID)
		return settled(mutate.KindDelete, fruitID, err)
	}
}

// settled wraps a mutation outcome, splitting out field-level validation
// messages for the view.
func settled(kind mutate.Kind, targetID int, err error) tui.MutationSettledMsg {
	msg := tui.MutationSettledMsg{Kind: kind, TargetID: targetID}
	if err == nil {
		return msg
	}
	var verrs storefront.ValidationErrors
	if errors.As(err, &verrs) {
		msg.FieldErrors = verrs
		return msg
	}
	msg.Err = err
	return msg
}
