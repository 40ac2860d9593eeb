package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

func newListCmd(app *App) *cobra.Command {
	var group, markdown, raw bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			items := s.ctrl.Items()
			coll := s.ctrl.Collection()
			out := cmd.OutOrStdout()
			switch {
			case raw:
				md := listMarkdown(coll, items)
				fmt.Fprint(out, md)
			case markdown:
				rendered, err := renderMarkdown(listMarkdown(coll, items), 80)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, rendered)
			default:
				fmt.Fprintln(out, listPanel(coll, items, group))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "render as a markdown task list")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the markdown source instead of rendering it")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <label...>",
		Short: "Add a new item (the label can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			req := s.ctrl.Submit(strings.Join(args, " "))
			if req == nil {
				// empty label, already warned
				return usageError{errReported}
			}
			s.run(req)
			return s.err()
		},
	}
}

func newDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the item at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			items := s.ctrl.Items()
			idx, err := model.Index(items, args[0])
			if err != nil {
				return usagef("done: %v (run `tada ls` to see valid indexes)", err)
			}
			id := items[idx].ID
			s.run(s.ctrl.Toggle(id))
			if err := s.err(); err != nil {
				return err
			}

			now := s.ctrl.Items()
			if i := model.Find(now, id); i >= 0 {
				state := "reopened"
				if now[i].Checked {
					state = "done"
				}
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%q %s", now[i].Label, state))
			}
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove the item at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			items := s.ctrl.Items()
			idx, err := model.Index(items, args[0])
			if err != nil {
				return usagef("rm: %v (run `tada ls` to see valid indexes)", err)
			}

			s.ctrl.RequestDelete(items[idx].ID)
			ok := yes
			if !ok {
				ok, err = confirm(app.in, cmd.OutOrStdout(), s.dialog.Text())
				if err != nil {
					s.ctrl.CancelDelete()
					return err
				}
			}
			if !ok {
				s.ctrl.CancelDelete()
				ui.Warn(cmd.OutOrStdout(), "cancelled")
				return nil
			}
			s.run(s.ctrl.ConfirmDelete())
			return s.err()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every item in the collection",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			s.run(s.ctrl.ClearAll())
			return s.err()
		},
	}
}
