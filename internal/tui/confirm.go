package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-remote/internal/controller"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

type confirmFocus int

const (
	focusDelete confirmFocus = iota
	focusCancel
)

// confirmModal asks before a single item is deleted.
type confirmModal struct {
	open  bool
	text  string
	focus confirmFocus
}

func (d *confirmModal) Show() {
	d.open = true
	d.focus = focusCancel
}

func (d *confirmModal) Close()              { d.open = false }
func (d *confirmModal) SetText(text string) { d.text = text }
func (d *confirmModal) Text() string        { return d.text }

func (d *confirmModal) toggleFocus() {
	if d.focus == focusDelete {
		d.focus = focusCancel
	} else {
		d.focus = focusDelete
	}
}

func (d *confirmModal) view(width int) string {
	th := ui.Current()
	btn := lipgloss.NewStyle().Padding(0, 1)
	active := th.Selected.Padding(0, 1)

	del, cancel := btn.Render("DELETE"), btn.Render("CANCEL")
	if d.focus == focusDelete {
		del = active.Render("DELETE")
	} else {
		cancel = active.Render("CANCEL")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, del, " ", cancel)

	bodyW := modalBodyWidth(width)
	content := strings.Join([]string{
		th.Title.Render(controller.ConfirmDeleteTitle),
		"",
		lipgloss.NewStyle().Width(bodyW).Render(d.text),
		"",
		controls,
		"",
		th.Muted.Render("tab: focus   enter: select   y/n   esc: cancel"),
	}, "\n")
	return modalBox(content)
}

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func modalBox(content string) string {
	return lipgloss.NewStyle().
		Border(ui.Current().Border).
		BorderForeground(lipgloss.Color("9")).
		Padding(1, 2).
		Render(content)
}
