package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// loadingModal covers the screen until the first load settles.
type loadingModal struct {
	active bool
	spin   spinner.Model
}

func newLoadingModal() *loadingModal {
	return &loadingModal{spin: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

func (l *loadingModal) Show()  { l.active = true }
func (l *loadingModal) Close() { l.active = false }

func (l *loadingModal) update(msg spinner.TickMsg) tea.Cmd {
	if !l.active {
		return nil
	}
	var cmd tea.Cmd
	l.spin, cmd = l.spin.Update(msg)
	return cmd
}

func (l *loadingModal) view() string {
	return modalBox(l.spin.View() + " Please wait a bit ...")
}
