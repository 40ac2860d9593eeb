// Package cli wires the tada command line: the interactive list when run
// bare, scriptable subcommands, token management and the collection server.
package cli

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Makepad-fr/tada-remote/internal/auth"
	"github.com/Makepad-fr/tada-remote/internal/config"
	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/tui"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

type App struct {
	v       *viper.Viper
	cfgFile string
	noColor bool
	in      io.Reader

	cfg *config.Config
	log logging.Logger
}

func NewRootCmd(stdin io.Reader) *cobra.Command {
	if stdin == nil {
		stdin = os.Stdin
	}
	app := &App{v: config.New(), in: stdin}

	cmd := &cobra.Command{
		Use:           "tada",
		Short:         "A todo list backed by a remote collection, a JSON file or SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          usageArgs(cobra.NoArgs),
		Example: strings.TrimSpace(`
  # Start the interactive list
  tada

  # Scriptable commands
  tada add "Buy milk"
  tada ls --group
  tada done 1
  tada rm 1 --yes

  # Serve collections over HTTP and point a client at it
  tada serve --port 8080
  tada --url http://localhost:8080/api/v1
`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.log != nil {
				_ = app.log.Sync()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTUI(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.cfgFile, "config", "", "config file (default: ./config.yaml, ~/.tada/config.yaml)")
	pf.String("url", "", "collection API base URL (selects the remote backend)")
	pf.String("collection", "", "collection name (default: todos)")
	pf.String("backend", "", "store backend: remote, file or sqlite")
	pf.String("dir", "", "directory for the file backend")
	pf.String("theme", "", "color theme: classic, neon or mono")
	pf.BoolVar(&app.noColor, "no-color", false, "disable colors")

	bind := map[string]string{
		"remote.url":       "url",
		"store.collection": "collection",
		"store.backend":    "backend",
		"store.file_dir":   "dir",
		"ui.theme":         "theme",
	}
	for key, flag := range bind {
		_ = app.v.BindPFlag(key, pf.Lookup(flag))
	}

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newServeCmd(app))

	return cmd
}

func (app *App) setup(cmd *cobra.Command) error {
	if app.cfgFile != "" {
		app.v.SetConfigFile(app.cfgFile)
	}
	cfg, err := config.Load(app.v)
	if err != nil {
		return usageError{err}
	}
	if err := store.ValidateCollection(cfg.Store.Collection); err != nil {
		return usageError{err}
	}
	app.cfg = cfg

	ui.SetTheme(cfg.UI.Theme)
	if app.noColor {
		ui.SetColorForcing(false, true)
	}

	lc := logging.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	}
	switch {
	case !cmd.HasParent():
		// the interactive list owns the terminal
		lc.File = cfg.Logger.File
	case cmd.Name() == "serve":
	default:
		lc.Level = "warn"
	}
	log, err := logging.Init(lc)
	if err != nil {
		ui.Warn(cmd.ErrOrStderr(), err.Error()+", logging is off for this session")
	}
	if !cmd.HasParent() && lc.File == "" {
		log = logging.NewNop()
	}
	app.log = log.With("collection", cfg.Store.Collection)

	if cfg.Store.Backend == config.BackendRemote {
		if ti, _ := auth.GetToken(); ti.Expired(time.Now()) {
			ui.Warn(cmd.ErrOrStderr(), "saved token has expired, run `tada auth login`")
		}
	}
	return nil
}

func (app *App) runTUI(cmd *cobra.Command) error {
	st, closeStore, err := openStore(cmd.Context(), app.cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	return tui.Run(cmd.Context(), tui.Options{
		Store:            st,
		Collection:       app.cfg.Store.Collection,
		Logger:           app.log,
		ToastTimeout:     app.cfg.UI.ToastTimeout,
		ClearConcurrency: app.cfg.UI.ClearConcurrency,
	})
}
