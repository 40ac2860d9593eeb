package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada-remote/internal/controller"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

// session drives the list controller without a terminal UI: every command
// is run to completion and its result applied before the next gesture.
type session struct {
	ctrl   *controller.Controller
	notes  *consoleNotifier
	dialog *lineDialog
	close  func()
}

func (app *App) openSession(cmd *cobra.Command) (*session, error) {
	st, closeStore, err := openStore(cmd.Context(), app.cfg)
	if err != nil {
		return nil, err
	}
	s := &session{
		notes:  &consoleNotifier{out: cmd.OutOrStdout(), errOut: cmd.ErrOrStderr()},
		dialog: &lineDialog{},
		close:  closeStore,
	}
	s.ctrl = controller.New(controller.Options{
		Store:            st,
		Collection:       app.cfg.Store.Collection,
		Notifier:         s.notes,
		Dialog:           s.dialog,
		Logger:           app.log,
		Context:          cmd.Context(),
		ClearConcurrency: app.cfg.UI.ClearConcurrency,
	})

	s.run(s.ctrl.Start())
	if err := s.err(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	s.ctrl.Update(cmd())
}

func (s *session) err() error {
	if s.notes.failed {
		return errReported
	}
	return nil
}

// consoleNotifier prints notifications as status lines.
type consoleNotifier struct {
	out, errOut io.Writer
	failed      bool
}

func (n *consoleNotifier) Success(msg string) { ui.OK(n.out, msg) }
func (n *consoleNotifier) Warning(msg string) { ui.Warn(n.out, msg) }

func (n *consoleNotifier) Error(msg string) {
	n.failed = true
	ui.Fail(n.errOut, msg)
}

// lineDialog holds the delete target's label while the user is asked on the
// terminal.
type lineDialog struct {
	open bool
	text string
}

func (d *lineDialog) Show()               { d.open = true }
func (d *lineDialog) Close()              { d.open = false }
func (d *lineDialog) SetText(text string) { d.text = text }
func (d *lineDialog) Text() string        { return d.text }

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, text string) (bool, error) {
	fmt.Fprintf(out, "%s\n  %s\n[y/N] ", controller.ConfirmDeleteTitle, text)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
