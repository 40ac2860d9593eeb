package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-remote/internal/auth"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the token sent to the collection API",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newAuthLoginCmd(app))
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthWhoAmICmd())
	return cmd
}

func newAuthLoginCmd(app *App) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a token to ~/.tada/credentials.json",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
				line, err := bufio.NewReader(app.in).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read token: %w", err)
				}
				token = strings.TrimSpace(line)
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if err := auth.SetToken(token, nil); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged in")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token to save instead of reading it from stdin")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, _ := auth.GetToken()
			if ti != nil && ti.Source == "env" {
				ui.Warn(cmd.OutOrStdout(), "token is provided by the "+auth.EnvToken+" env var (nothing to delete)")
				return nil
			}
			if err := auth.DeleteToken(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(out, "Run: tada auth login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", ti.Source)
			switch {
			case ti.ExpiresAt == nil:
				fmt.Fprintln(out, "expires: (unknown)")
			case ti.Expired(time.Now()):
				fmt.Fprintf(out, "expires: %s (expired)\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
			default:
				fmt.Fprintf(out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
			}
			fmt.Fprintf(out, "env override: %s\n", auth.EnvToken)
			return nil
		},
	}
}

// whoami decodes a JWT locally (unverified); opaque tokens print basic info.
func newAuthWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims of the saved token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				return usagef("not logged in, run: tada auth login")
			}
			claims, err := auth.Claims(ti.Token)
			if err != nil {
				fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(out, "source:", ti.Source)
				return nil
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return fmt.Errorf("encode claims: %w", err)
			}
			fmt.Fprintln(out, "JWT payload:")
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
}
