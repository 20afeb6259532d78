package views

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// FulfillmentModel is the admin view of the fulfillment queue. Enter
// toggles the selected order's fulfilled flag.
type FulfillmentModel struct {
	orders *storefront.OrderService

	table  table.Model
	rowIDs []int // table row index -> order id
	status string
}

// NewFulfillmentModel creates the fulfillment view bound to the order
// service.
func NewFulfillmentModel(orders *storefront.OrderService) FulfillmentModel {
	columns := []table.Column{
		{Title: "Order #", Width: 7},
		{Title: "Customer", Width: 14},
		{Title: "Placed", Width: 16},
		{Title: "Total", Width: 10},
		{Title: "Done", Width: 4},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	m := FulfillmentModel{orders: orders, table: t}
	m.Refresh()
	return m
}

// Refresh rebuilds the table rows from the queue store snapshot.
func (m *FulfillmentModel) Refresh() {
	snap := m.orders.Queue().Snapshot()
	rows := make([]table.Row, 0, len(snap))
	m.rowIDs = m.rowIDs[:0]
	for _, ord := range snap {
		marker := ""
		switch {
		case m.orders.Pending(ord.ID, mutate.KindFulfill) || m.orders.Pending(ord.ID, mutate.KindUnfulfill):
			marker = tui.RowBusy
		case ord.Fulfilled:
			marker = tui.RowFulfilled
		}
		rows = append(rows, table.Row{
			strconv.Itoa(ord.ID),
			ord.Username,
			ord.CreatedAt.Format("2006-01-02 15:04"),
			dollars(ord.TotalPriceCents),
			marker,
		})
		m.rowIDs = append(m.rowIDs, ord.ID)
	}
	m.table.SetRows(rows)
}

// selected returns the order under the cursor.
func (m *FulfillmentModel) selected() (id int, fulfilled bool, ok bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rowIDs) {
		return 0, false, false
	}
	ord, _, found := m.orders.Queue().Get(m.rowIDs[cursor])
	if !found {
		return 0, false, false
	}
	return ord.ID, ord.Fulfilled, true
}

// Update handles messages for the fulfillment view.
func (m FulfillmentModel) Update(msg tea.Msg) (FulfillmentModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, func() tea.Msg { return tui.ReloadRequestMsg{} }
		case tui.KeyEnter:
			if id, fulfilled, ok := m.selected(); ok {
				return m, func() tea.Msg {
					return tui.ToggleFulfilledRequestMsg{OrderID: id, Fulfilled: !fulfilled}
				}
			}
			return m, nil
		}

	case tui.QueueLoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
		} else {
			m.status = ""
		}
		m.Refresh()
		return m, nil

	case tui.MutationSettledMsg:
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

// View renders the fulfillment view.
func (m FulfillmentModel) View() string {
	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render("Order Fulfillment"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(tui.ErrorStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(tui.DimStyle.Render("Enter: Toggle fulfilled · r: Reload · Tab: Switch page"))
	return b.String()
}
