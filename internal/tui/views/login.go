// Package views provides TUI view components for the fruitstand
// application.
package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// LoginModel is the view model for the login form.
type LoginModel struct {
	username textinput.Model
	password textinput.Model
	focus    int // 0 = username, 1 = password

	usernameError string
	passwordError string
	remoteError   string
	submitting    bool

	width  int
	height int
}

// NewLoginModel creates a new LoginModel with the username field focused.
func NewLoginModel(width, height int) LoginModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		username: username,
		password: password,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the login view.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the login view.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case tui.KeyTab, tui.KeyDown, tui.KeyUp:
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.password.Focus()
				m.username.Blur()
			}
			return m, nil

		case tui.KeyEnter:
			// Validate locally first; empty fields never reach the
			// network.
			m.usernameError = ""
			m.passwordError = ""
			m.remoteError = ""
			username := strings.TrimSpace(m.username.Value())
			password := m.password.Value()
			if username == "" {
				m.usernameError = "Please input a username."
			}
			if strings.TrimSpace(password) == "" {
				m.passwordError = "Please input a password."
			}
			if m.usernameError != "" || m.passwordError != "" {
				return m, nil
			}

			m.submitting = true
			return m, func() tea.Msg {
				return tui.LoginRequestMsg{Username: username, Password: password}
			}
		}

	case tui.LoginSettledMsg:
		m.submitting = false
		if msg.FieldErrors != nil {
			m.usernameError = msg.FieldErrors.Field("username")
			m.passwordError = msg.FieldErrors.Field("password")
			return m, nil
		}
		if msg.Err != nil {
			m.remoteError = msg.Err.Error()
			m.password.SetValue("")
			return m, nil
		}
		// Success: the app transitions away from this view.
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

// View renders the login view.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(tui.TitleStyle.Render("Fruitstand Login"))
	b.WriteString("\n\n")

	b.WriteString("Username:\n")
	b.WriteString(m.username.View())
	b.WriteString("\n")
	if m.usernameError != "" {
		b.WriteString(tui.ErrorStyle.Render(m.usernameError))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Password:\n")
	b.WriteString(m.password.View())
	b.WriteString("\n")
	if m.passwordError != "" {
		b.WriteString(tui.ErrorStyle.Render(m.passwordError))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(tui.DimStyle.Render("Logging in..."))
	case m.remoteError != "":
		b.WriteString(tui.ErrorStyle.Render(m.remoteError))
	default:
		b.WriteString(tui.DimStyle.Render("Tab: Switch field · Enter: Login · Ctrl+C: Exit"))
	}

	const maxLoginBoxWidth = 48
	boxWidth := maxLoginBoxWidth
	if m.width-4 < boxWidth {
		boxWidth = m.width - 4
	}

	return tui.BoxStyle.Width(boxWidth).Render(b.String())
}
