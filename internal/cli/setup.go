// setup.go wires the shared services every command needs: config,
// credential store, session manager, API client, and the page services.
package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fruitstand-dev/fruitstand/internal/api"
	"github.com/fruitstand-dev/fruitstand/internal/config"
	"github.com/fruitstand-dev/fruitstand/internal/log"
	"github.com/fruitstand-dev/fruitstand/internal/session"
	"github.com/fruitstand-dev/fruitstand/internal/storefront"
)

// env bundles everything a command needs to talk to the storefront.
type env struct {
	Cfg      *config.Config
	Dir      string
	Store    *session.Store
	Sessions *session.Manager
	Client   *api.Client
	Events   *log.Logger
	Auth     *storefront.AuthService
	Fruits   *storefront.FruitService
	Orders   *storefront.OrderService
}

// newEnv loads config (falling back to defaults when uninitialized),
// opens the credential store, restores any persisted session, and builds
// the services.
func newEnv() (*env, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.ReadConfig(dir)
	if err != nil {
		// Config not found or invalid, use defaults and write them so
		// the operator has a file to edit.
		cfg = config.DefaultConfig()
		_ = config.WriteConfig(dir, cfg)
	}

	credStore, err := session.NewStore(filepath.Join(dir, "fruitstand.db"))
	if err != nil {
		return nil, fmt.Errorf("opening credential store: %w", err)
	}

	sessions := session.NewManager(credStore)
	if err := sessions.Restore(); err != nil {
		_ = credStore.Close()
		return nil, err
	}

	var events *log.Logger
	if cfg.Log.Enabled {
		events, err = log.NewLogger(dir)
		if err != nil {
			_ = credStore.Close()
			return nil, err
		}
	}

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutMS)*time.Millisecond, sessions)

	return &env{
		Cfg:      cfg,
		Dir:      dir,
		Store:    credStore,
		Sessions: sessions,
		Client:   client,
		Events:   events,
		Auth:     storefront.NewAuthService(client, sessions, events),
		Fruits:   storefront.NewFruitService(client, sessions, events),
		Orders:   storefront.NewOrderService(client, sessions, events),
	}, nil
}

// Close releases the credential store.
func (e *env) Close() {
	_ = e.Store.Close()
}

// dollars renders a cent amount the way the storefront displays prices.
func dollars(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
