package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// HistoryModel is the read-only view of the current user's order history.
type HistoryModel struct {
	orders *storefront.OrderService

	table  table.Model
	status string
}

// NewHistoryModel creates the order history view bound to the order service.
func NewHistoryModel(orders *storefront.OrderService) HistoryModel {
	columns := []table.Column{
		{Title: "Order #", Width: 7},
		{Title: "Placed", Width: 16},
		{Title: "Items", Width: 30},
		{Title: "Total", Width: 10},
		{Title: "", Width: 2},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	m := HistoryModel{orders: orders, table: t}
	m.Refresh()
	return m
}

// Refresh rebuilds the table rows from the history store snapshot.
func (m *HistoryModel) Refresh() {
	snap := m.orders.History().Snapshot()
	rows := make([]table.Row, 0, len(snap))
	for _, ord := range snap {
		marker := ""
		if ord.Fulfilled {
			marker = tui.RowFulfilled
		}
		rows = append(rows, table.Row{
			strconv.Itoa(ord.ID),
			ord.CreatedAt.Format("2006-01-02 15:04"),
			itemSummary(ord),
			dollars(ord.TotalPriceCents),
			marker,
		})
	}
	m.table.SetRows(rows)
}

// itemSummary renders an order's line items as "3x Apple, 1x Mango".
func itemSummary(ord api.Order) string {
	parts := make([]string, 0, len(ord.Details))
	for _, d := range ord.Details {
		parts = append(parts, strconv.Itoa(d.Quantity)+"x "+d.FruitName)
	}
	return strings.Join(parts, ", ")
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "r" {
			return m, func() tea.Msg { return tui.ReloadRequestMsg{} }
		}

	case tui.HistoryLoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
		} else {
			m.status = ""
		}
		m.Refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history view.
func (m HistoryModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Order History"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(tui.ErrorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(tui.DimStyle.Render("r: Reload · Tab: Switch page"))
	return b.String()
}
