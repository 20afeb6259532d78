package storefront

import (
	"context"
	"fmt"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/log"
	"github.com/fruitstand-dev/fruitstand/internal/session"
)

// AuthService drives the login flow: local validation, the remote login
// exchange, and session establishment.
type AuthService struct {
	client   API
	sessions *session.Manager
	events   *log.Logger
}

// NewAuthService creates an AuthService. events may be nil.
func NewAuthService(client API, sessions *session.Manager, events *log.Logger) *AuthService {
	return &AuthService{
		client:   client,
		sessions: sessions,
		events:   events,
	}
}

// Login validates the form, exchanges credentials for a session, and
// establishes it. Empty fields return ValidationErrors without touching
// the network; a server denial or network failure leaves the session
// anonymous and is returned classified for the caller to surface.
func (a *AuthService) Login(ctx context.Context, username, password string) (*api.LoginResult, error) {
	if errs := ValidateLogin(username, password); len(errs) > 0 {
		return nil, errs
	}

	result, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.log(log.LogEvent{
			Event:    log.EventLoginFailed,
			Username: username,
			Error:    err.Error(),
		})
		return nil, fmt.Errorf("login: %w", err)
	}

	role := session.Role(result.Role)
	if err := a.sessions.Establish(result.Token, result.ID, result.Username, role); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	a.log(log.LogEvent{
		Event:    log.EventLoginSucceeded,
		Username: result.Username,
		Role:     result.Role,
	})
	return result, nil
}

// Logout reverts the session to anonymous and clears the credential.
func (a *AuthService) Logout() {
	a.log(log.LogEvent{
		Event:    log.EventLogout,
		Username: a.sessions.Current().Username,
	})
	a.sessions.Clear()
}

func (a *AuthService) log(event log.LogEvent) {
	if a.events != nil {
		_ = a.events.Append(event)
	}
}
