package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/mutate"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// inventoryMode is the current interaction mode of the inventory view.
type inventoryMode int

const (
	inventoryBrowsing inventoryMode = iota
	inventoryAdding
	inventoryAmending
	inventoryConfirmingDelete
)

// InventoryModel is the view model for the fruit inventory page.
type InventoryModel struct {
	fruits *storefront.FruitService

	table  table.Model
	rowIDs []int // table row index -> fruit id
	mode   inventoryMode

	// Add form
	addInputs [3]textinput.Model // name, price cents, stock
	addFocus  int
	addErrors storefront.ValidationErrors

	// Amend form
	amendInput textinput.Model
	amendID    int

	// Delete confirmation
	deleteID   int
	deleteName string

	status string
	width  int
	height int
}

// NewInventoryModel creates the inventory view bound to the fruit service.
func NewInventoryModel(fruits *storefront.FruitService, width, height int) InventoryModel {
	columns := []table.Column{
		{Title: "Fruit #", Width: 7},
		{Title: "Name", Width: 18},
		{Title: "Price", Width: 10},
		{Title: "Stock", Width: 7},
		{Title: "", Width: 2},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 64
	price := textinput.New()
	price.Placeholder = "Price in cents"
	price.CharLimit = 9
	stock := textinput.New()
	stock.Placeholder = "Stock"
	stock.CharLimit = 9

	amend := textinput.New()
	amend.Placeholder = "New stock"
	amend.CharLimit = 9

	m := InventoryModel{
		fruits:     fruits,
		table:      t,
		addInputs:  [3]textinput.Model{name, price, stock},
		amendInput: amend,
		width:      width,
		height:     height,
	}
	m.Refresh()
	return m
}

// Refresh rebuilds the table rows from the store snapshot.
func (m *InventoryModel) Refresh() {
	snap := m.fruits.Store().Snapshot()
	rows := make([]table.Row, 0, len(snap))
	m.rowIDs = m.rowIDs[:0]
	for _, fr := range snap {
		marker := ""
		if m.fruits.Pending(fr.ID, mutate.KindAmend) || m.fruits.Pending(fr.ID, mutate.KindDelete) {
			marker = tui.RowBusy
		}
		rows = append(rows, table.Row{
			strconv.Itoa(fr.ID),
			fr.Name,
			dollars(fr.PriceCents),
			strconv.Itoa(fr.Stock),
			marker,
		})
		m.rowIDs = append(m.rowIDs, fr.ID)
	}
	m.table.SetRows(rows)
}

// Capturing reports whether the view is in a text entry mode, so the app
// leaves tab alone as a focus key.
func (m *InventoryModel) Capturing() bool {
	return m.mode == inventoryAdding || m.mode == inventoryAmending
}

// selectedID returns the fruit id under the cursor.
func (m *InventoryModel) selectedID() (int, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.rowIDs) {
		return 0, false
	}
	return m.rowIDs[cursor], true
}

// Update handles messages for the inventory view.
func (m InventoryModel) Update(msg tea.Msg) (InventoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case inventoryAdding:
			return m.updateAdding(msg)
		case inventoryAmending:
			return m.updateAmending(msg)
		case inventoryConfirmingDelete:
			return m.updateConfirmingDelete(msg)
		}
		return m.updateBrowsing(msg)

	case tui.FruitsLoadedMsg:
		if msg.Err != nil {
			m.status = msg.Err.Error()
		} else {
			m.status = ""
		}
		m.Refresh()
		return m, nil

	case tui.MutationSettledMsg:
		switch {
		case msg.FieldErrors != nil && msg.Kind == mutate.KindCreate:
			// Reopen the form with the messages attached.
			m.mode = inventoryAdding
			m.addErrors = msg.FieldErrors
		case msg.FieldErrors != nil:
			m.status = msg.FieldErrors.Error()
		case msg.Err != nil:
			m.status = msg.Err.Error()
		default:
			m.status = ""
		}
		m.Refresh()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InventoryModel) updateBrowsing(msg tea.KeyMsg) (InventoryModel, tea.Cmd) {
	switch msg.String() {
	case "r":
		return m, func() tea.Msg { return tui.ReloadRequestMsg{} }
	case "a":
		m.mode = inventoryAdding
		m.addFocus = 0
		m.addErrors = nil
		for i := range m.addInputs {
			m.addInputs[i].SetValue("")
			m.addInputs[i].Blur()
		}
		m.addInputs[0].Focus()
		return m, textinput.Blink
	case "e":
		if id, ok := m.selectedID(); ok {
			m.mode = inventoryAmending
			m.amendID = id
			m.amendInput.SetValue("")
			m.amendInput.Focus()
			return m, textinput.Blink
		}
	case "d":
		if id, ok := m.selectedID(); ok {
			m.mode = inventoryConfirmingDelete
			m.deleteID = id
			if fr, _, found := m.fruits.Store().Get(id); found {
				m.deleteName = fr.Name
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InventoryModel) updateAdding(msg tea.KeyMsg) (InventoryModel, tea.Cmd) {
	switch msg.String() {
	case tui.KeyEsc:
		m.mode = inventoryBrowsing
		return m, nil

	case tui.KeyTab, tui.KeyDown:
		m.addInputs[m.addFocus].Blur()
		m.addFocus = (m.addFocus + 1) % len(m.addInputs)
		m.addInputs[m.addFocus].Focus()
		return m, nil

	case tui.KeyUp:
		m.addInputs[m.addFocus].Blur()
		m.addFocus = (m.addFocus + len(m.addInputs) - 1) % len(m.addInputs)
		m.addInputs[m.addFocus].Focus()
		return m, nil

	case tui.KeyEnter:
		name := strings.TrimSpace(m.addInputs[0].Value())
		priceCents, priceErr := strconv.Atoi(strings.TrimSpace(m.addInputs[1].Value()))
		stock, stockErr := strconv.Atoi(strings.TrimSpace(m.addInputs[2].Value()))

		var errs storefront.ValidationErrors
		if priceErr != nil {
			errs = append(errs, storefront.ValidationError{Field: "price", Message: "Price must be a whole cent amount."})
		}
		if stockErr != nil {
			errs = append(errs, storefront.ValidationError{Field: "stock", Message: "Stock must be a whole number."})
		}
		if errs != nil {
			m.addErrors = errs
			return m, nil
		}

		m.mode = inventoryBrowsing
		m.addErrors = nil
		return m, func() tea.Msg {
			return tui.AddFruitRequestMsg{Name: name, PriceCents: priceCents, Stock: stock}
		}
	}

	var cmd tea.Cmd
	m.addInputs[m.addFocus], cmd = m.addInputs[m.addFocus].Update(msg)
	return m, cmd
}

func (m InventoryModel) updateAmending(msg tea.KeyMsg) (InventoryModel, tea.Cmd) {
	switch msg.String() {
	case tui.KeyEsc:
		m.mode = inventoryBrowsing
		return m, nil

	case tui.KeyEnter:
		stock, err := strconv.Atoi(strings.TrimSpace(m.amendInput.Value()))
		if err != nil {
			m.status = "Stock must be a whole number."
			return m, nil
		}
		m.mode = inventoryBrowsing
		fruitID := m.amendID
		return m, func() tea.Msg {
			return tui.AmendStockRequestMsg{FruitID: fruitID, Stock: stock}
		}
	}

	var cmd tea.Cmd
	m.amendInput, cmd = m.amendInput.Update(msg)
	return m, cmd
}

func (m InventoryModel) updateConfirmingDelete(msg tea.KeyMsg) (InventoryModel, tea.Cmd) {
	switch msg.String() {
	case "y", tui.KeyEnter:
		m.mode = inventoryBrowsing
		fruitID := m.deleteID
		return m, func() tea.Msg {
			return tui.DeleteFruitRequestMsg{FruitID: fruitID}
		}
	case "n", tui.KeyEsc:
		m.mode = inventoryBrowsing
		return m, nil
	}
	return m, nil
}

// View renders the inventory view.
func (m InventoryModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Fruit Inventory"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	switch m.mode {
	case inventoryAdding:
		b.WriteString("\n")
		b.WriteString(tui.SelectedStyle.Render("Add Fruit"))
		b.WriteString("\n")
		labels := [3]string{"Name", "Price in cents", "Stock"}
		fields := [3]string{"name", "price", "stock"}
		for i := range m.addInputs {
			b.WriteString(fmt.Sprintf("%s: %s\n", labels[i], m.addInputs[i].View()))
			if msg := m.addErrors.Field(fields[i]); msg != "" {
				b.WriteString(tui.ErrorStyle.Render(msg))
				b.WriteString("\n")
			}
		}
		b.WriteString(tui.DimStyle.Render("Enter: Add · Esc: Cancel"))

	case inventoryAmending:
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Amend stock for fruit #%d: %s\n", m.amendID, m.amendInput.View()))
		b.WriteString(tui.DimStyle.Render("Enter: Amend · Esc: Cancel"))

	case inventoryConfirmingDelete:
		b.WriteString("\n")
		b.WriteString(tui.WarningStyle.Render(fmt.Sprintf("Confirm Delete %s, Fruit #%d? (y/n)", m.deleteName, m.deleteID)))

	default:
		if m.status != "" {
			b.WriteString(tui.ErrorStyle.Render(m.status))
			b.WriteString("\n")
		}
		b.WriteString(tui.DimStyle.Render("a: Add · e: Amend stock · d: Delete · r: Reload · Tab: Switch page"))
	}

	return b.String()
}

// dollars renders a cent amount the way the storefront displays prices.
func dollars(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
