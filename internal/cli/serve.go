package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-remote/internal/server"
	"github.com/Makepad-fr/tada-remote/internal/store/sqlite"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve collections over HTTP from a SQLite database",
		Long: `Serve exposes every collection in the SQLite database at
store.sqlite_path under /api/v1/<collection>. Point a client at it with
--url http://host:port/api/v1.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.cfg

			st, err := sqlite.Open(ctx, cfg.Store.SQLitePath)
			if err != nil {
				return fmt.Errorf("open %s: %w", cfg.Store.SQLitePath, err)
			}
			defer st.Close()

			srv, err := server.New(app.log, server.Config{
				Store:           st,
				Port:            cfg.Server.Port,
				Mode:            cfg.Server.Mode,
				Token:           cfg.Server.Token,
				RateLimitPerMin: cfg.Server.RateLimitPerMin,
			})
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.Int("port", 0, "listen port (default 8080)")
	f.String("db", "", "SQLite database path (default tada.db)")
	f.String("token", "", "require this bearer token on /api routes")
	_ = app.v.BindPFlag("server.port", f.Lookup("port"))
	_ = app.v.BindPFlag("store.sqlite_path", f.Lookup("db"))
	_ = app.v.BindPFlag("server.token", f.Lookup("token"))
	return cmd
}
