// Package commands provides Bubble Tea commands for TUI operations.
package commands

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitstand-dev/fruitstand/internal/storefront"
	"github.com/fruitstand-dev/fruitstand/internal/tui"
)

// LoginCmd submits the login form against the remote side.
func LoginCmd(auth *storefront.AuthService, username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := auth.Login(context.Background(), username, password)
		if err != nil {
			var verrs storefront.ValidationErrors
			if errors.As(err, &verrs) {
				return tui.LoginSettledMsg{FieldErrors: verrs}
			}
			return tui.LoginSettledMsg{Err: err}
		}
		return tui.LoginSettledMsg{Result: result}
	}
}
