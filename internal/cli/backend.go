package cli

import (
	"context"
	"fmt"

	"github.com/Makepad-fr/tada-remote/internal/auth"
	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/controller"
	"github.com/Makepad-fr/tada-remote/internal/store/jsonstore"
	"github.com/Makepad-fr/tada-remote/internal/store/remote"
	"github.com/Makepad-fr/tada-remote/internal/store/sqlite"
)

// openStore builds the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (controller.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendRemote:
		c := remote.NewClient(cfg.Remote.URL, remote.Options{
			Timeout:    cfg.Remote.Timeout,
			RatePerSec: cfg.Remote.RatePerSec,
			Burst:      cfg.Remote.Burst,
			Token:      bearerToken,
		})
		return c, func() {}, nil
	case config.BackendSQLite:
		st, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", cfg.Store.SQLitePath, err)
		}
		return st, func() { _ = st.Close() }, nil
	default:
		return jsonstore.New(cfg.Store.FileDir), func() {}, nil
	}
}

// bearerToken is read per request so `tada auth login` in another shell takes
// effect without a restart.
func bearerToken() string {
	ti, err := auth.GetToken()
	if err != nil || ti == nil {
		return ""
	}
	return ti.Token
}
