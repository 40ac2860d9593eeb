package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada-remote/internal/ui"
)

type toastLevel int

const (
	toastSuccess toastLevel = iota
	toastWarning
	toastError
)

type toast struct {
	id    int
	level toastLevel
	text  string
}

type toastExpiredMsg struct{ id int }

// toaster is the TUI's notifier: newest toast last, oldest dropped beyond max.
type toaster struct {
	items   []toast
	fresh   []int
	nextID  int
	max     int
	timeout time.Duration
}

func newToaster(timeout time.Duration) *toaster {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &toaster{max: 3, timeout: timeout}
}

func (t *toaster) push(level toastLevel, text string) {
	t.nextID++
	t.items = append(t.items, toast{id: t.nextID, level: level, text: text})
	if len(t.items) > t.max {
		t.items = t.items[len(t.items)-t.max:]
	}
	t.fresh = append(t.fresh, t.nextID)
}

func (t *toaster) Success(msg string) { t.push(toastSuccess, msg) }
func (t *toaster) Warning(msg string) { t.push(toastWarning, msg) }
func (t *toaster) Error(msg string)   { t.push(toastError, msg) }

// expiries returns one timer per toast pushed since the last call.
func (t *toaster) expiries() []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(t.fresh))
	for _, id := range t.fresh {
		cmds = append(cmds, tea.Tick(t.timeout, func(time.Time) tea.Msg {
			return toastExpiredMsg{id: id}
		}))
	}
	t.fresh = t.fresh[:0]
	return cmds
}

func (t *toaster) expire(id int) {
	for i, it := range t.items {
		if it.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

func (t *toaster) view() string {
	th := ui.Current()
	out := ""
	for i, it := range t.items {
		if i > 0 {
			out += "\n"
		}
		switch it.level {
		case toastSuccess:
			out += th.Success.Render(th.SymDone + " " + it.text)
		case toastWarning:
			out += th.Warning.Render("! " + it.text)
		default:
			out += th.Error.Render("✖ " + it.text)
		}
	}
	return out
}
