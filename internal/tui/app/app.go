// Package app wires the TUI views, services, and session into one Bubble
// Tea model.
package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/session"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
	"github.com/fruitstand-dev/fruitstand/internal/tui/commands"
	"github.com/fruitstand-dev/fruitstand/internal/tui/views"
)

// refreshTickMsg redraws the active table shortly after a mutation is
// dispatched, so the optimistic patch and busy marker are visible while
// the remote call is still in flight.
type refreshTickMsg struct{}

func refreshSoon() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// App is the root Bubble Tea model for the interactive console.
type App struct {
	auth     *storefront.AuthService
	fruits   *storefront.FruitService
	orders   *storefront.OrderService
	sessions *session.Manager

	state tui.ViewState
	tab   tui.Tab

	login       views.LoginModel
	inventory   views.InventoryModel
	history     views.HistoryModel
	fulfillment views.FulfillmentModel

	quitArmed bool
	width     int
	height    int
}

// New creates the root model. The session may already be authenticated
// from a restored credential, in which case the app starts on a page
// instead of the login form.
func New(auth *storefront.AuthService, fruits *storefront.FruitService, orders *storefront.OrderService, sessions *session.Manager) App {
	a := App{
		auth:        auth,
		fruits:      fruits,
		orders:      orders,
		sessions:    sessions,
		state:       tui.StateLogin,
		login:       views.NewLoginModel(80, 24),
		inventory:   views.NewInventoryModel(fruits, 80, 24),
		history:     views.NewHistoryModel(orders),
		fulfillment: views.NewFulfillmentModel(orders),
		width:       80,
		height:      24,
	}
	if sessions.Current().Status {
		a.tab = a.firstTab()
		a.state = a.tab.TabState()
	}
	return a
}

// Init starts the blink cursor on the login form, or loads the restored
// session's pages.
func (a App) Init() tea.Cmd {
	if a.state == tui.StateLogin {
		return a.login.Init()
	}
	return a.loadAll()
}

// tabs returns the pages the current role may visit.
func (a App) tabs() []tui.Tab {
	if a.sessions.Current().Role == session.RoleAdmin {
		return []tui.Tab{tui.TabInventory, tui.TabHistory, tui.TabFulfillment}
	}
	return []tui.Tab{tui.TabHistory}
}

func (a App) firstTab() tui.Tab {
	return a.tabs()[0]
}

func (a App) nextTab() tui.Tab {
	tabs := a.tabs()
	for i, t := range tabs {
		if t == a.tab {
			return tabs[(i+1)%len(tabs)]
		}
	}
	return tabs[0]
}

// loadCmd returns the load command for one tab.
func (a App) loadCmd(tab tui.Tab) tea.Cmd {
	switch tab {
	case tui.TabHistory:
		return commands.LoadHistoryCmd(a.orders)
	case tui.TabFulfillment:
		return commands.LoadQueueCmd(a.orders)
	default:
		return commands.LoadFruitsCmd(a.fruits)
	}
}

// loadAll reloads every page the current role may visit.
func (a App) loadAll() tea.Cmd {
	tabs := a.tabs()
	cmds := make([]tea.Cmd, 0, len(tabs))
	for _, t := range tabs {
		cmds = append(cmds, a.loadCmd(t))
	}
	return tea.Batch(cmds...)
}

// authLost reports whether err means the session is gone and the app
// should fall back to the login form.
func (a App) authLost(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, session.ErrUnauthorized) || api.IsUnauthorized(err)
}

// Update is the top-level message router.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.login, _ = a.login.Update(msg)
		a.inventory, _ = a.inventory.Update(msg)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case tui.KeyCtrlC:
			if a.quitArmed {
				return a, tea.Quit
			}
			a.quitArmed = true
			return a, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
				return tui.CtrlCResetMsg{}
			})

		case "ctrl+l":
			if a.state != tui.StateLogin {
				return a, func() tea.Msg { return tui.LogoutMsg{} }
			}

		case tui.KeyTab:
			// Tab cycles pages once authenticated; inside the login
			// form it stays a focus key.
			if a.state != tui.StateLogin && !a.inventoryCapturing() {
				a.tab = a.nextTab()
				a.state = a.tab.TabState()
				return a, a.loadCmd(a.tab)
			}
		}
		a.quitArmed = false
		return a.routeToView(msg)

	case tui.CtrlCResetMsg:
		a.quitArmed = false
		return a, nil

	case tui.LoginRequestMsg:
		return a, commands.LoginCmd(a.auth, msg.Username, msg.Password)

	case tui.LoginSettledMsg:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		if msg.Result != nil {
			a.tab = a.firstTab()
			a.state = a.tab.TabState()
			return a, a.loadAll()
		}
		return a, cmd

	case tui.LogoutMsg:
		a.auth.Logout()
		a.state = tui.StateLogin
		a.login = views.NewLoginModel(a.width, a.height)
		return a, a.login.Init()

	case tui.ReloadRequestMsg:
		return a, a.loadCmd(a.tab)

	case tui.AddFruitRequestMsg:
		return a, tea.Batch(
			commands.AddFruitCmd(a.fruits, msg.Name, msg.PriceCents, msg.Stock),
			refreshSoon(),
		)

	case tui.AmendStockRequestMsg:
		return a, tea.Batch(
			commands.AmendStockCmd(a.fruits, msg.FruitID, msg.Stock),
			refreshSoon(),
		)

	case tui.DeleteFruitRequestMsg:
		return a, tea.Batch(
			commands.DeleteFruitCmd(a.fruits, msg.FruitID),
			refreshSoon(),
		)

	case tui.ToggleFulfilledRequestMsg:
		return a, tea.Batch(
			commands.ToggleFulfilledCmd(a.orders, msg.OrderID, msg.Fulfilled),
			refreshSoon(),
		)

	case refreshTickMsg:
		a.inventory.Refresh()
		a.fulfillment.Refresh()
		return a, nil

	case tui.FruitsLoadedMsg:
		if a.authLost(msg.Err) && !a.sessions.Current().Status {
			return a.dropToLogin()
		}
		var cmd tea.Cmd
		a.inventory, cmd = a.inventory.Update(msg)
		return a, cmd

	case tui.HistoryLoadedMsg:
		if a.authLost(msg.Err) && !a.sessions.Current().Status {
			return a.dropToLogin()
		}
		var cmd tea.Cmd
		a.history, cmd = a.history.Update(msg)
		return a, cmd

	case tui.QueueLoadedMsg:
		if a.authLost(msg.Err) && !a.sessions.Current().Status {
			return a.dropToLogin()
		}
		var cmd tea.Cmd
		a.fulfillment, cmd = a.fulfillment.Update(msg)
		return a, cmd

	case tui.MutationSettledMsg:
		if a.authLost(msg.Err) && !a.sessions.Current().Status {
			return a.dropToLogin()
		}
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.inventory, cmd = a.inventory.Update(msg)
		cmds = append(cmds, cmd)
		a.fulfillment, cmd = a.fulfillment.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}

	return a.routeToView(msg)
}

// inventoryCapturing reports whether the inventory view is in a text
// entry mode where tab must stay a focus key.
func (a App) inventoryCapturing() bool {
	return a.state == tui.StateInventory && a.inventory.Capturing()
}

// dropToLogin reverts to the login form after the remote side rejected
// the credential.
func (a App) dropToLogin() (tea.Model, tea.Cmd) {
	a.state = tui.StateLogin
	a.login = views.NewLoginModel(a.width, a.height)
	return a, a.login.Init()
}

// routeToView forwards a message to the active view only.
func (a App) routeToView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case tui.StateLogin:
		a.login, cmd = a.login.Update(msg)
	case tui.StateHistory:
		a.history, cmd = a.history.Update(msg)
	case tui.StateFulfillment:
		a.fulfillment, cmd = a.fulfillment.Update(msg)
	default:
		a.inventory, cmd = a.inventory.Update(msg)
	}
	return a, cmd
}

// View renders the full screen: tab bar, active page, status bar.
func (a App) View() string {
	if a.state == tui.StateLogin {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.login.View())
	}

	var body string
	switch a.state {
	case tui.StateHistory:
		body = a.history.View()
	case tui.StateFulfillment:
		body = a.fulfillment.View()
	default:
		body = a.inventory.View()
	}

	tabs := a.tabs()
	labels := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t == a.tab {
			labels = append(labels, tui.ActiveTabStyle.Render(t.TabLabel()))
		} else {
			labels = append(labels, tui.InactiveTabStyle.Render(t.TabLabel()))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, labels...)

	sess := a.sessions.Current()
	status := sess.Username + " (" + string(sess.Role) + ") · Ctrl+L: Log out · Ctrl+C twice: Exit"
	if a.quitArmed {
		status = "Press Ctrl+C again to exit"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		tabBar,
		"",
		body,
		"",
		tui.StatusBarStyle.Render(status),
	)
}
