// Package tui is the interactive host for the list controller.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-remote/internal/controller"
	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/ui"
	"github.com/Makepad-fr/tada-remote/internal/view"
)

const (
	// header + progress + blank line
	listTop = 3
	// "> " in front of every row
	cursorWidth = 2
	// blank + input + toasts + help
	footerLines = 6
)

type Options struct {
	Store            controller.Store
	Collection       string
	Logger           logging.Logger
	Context          context.Context
	ToastTimeout     time.Duration
	ClearConcurrency int
}

type Model struct {
	ctrl    *controller.Controller
	keys    keyMap
	help    help.Model
	vp      viewport.Model
	input   *labelInput
	toasts  *toaster
	dialog  *confirmModal
	loading *loadingModal

	cursor        int
	width, height int
}

func New(opt Options) Model {
	m := Model{
		keys:    defaultKeys(),
		help:    help.New(),
		vp:      viewport.New(80, 24-listTop-footerLines),
		input:   newLabelInput(),
		toasts:  newToaster(opt.ToastTimeout),
		dialog:  &confirmModal{},
		loading: newLoadingModal(),
		width:   80,
		height:  24,
	}
	m.ctrl = controller.New(controller.Options{
		Store:            opt.Store,
		Collection:       opt.Collection,
		Notifier:         m.toasts,
		Dialog:           m.dialog,
		Loading:          m.loading,
		Input:            m.input,
		Logger:           opt.Logger,
		Context:          opt.Context,
		ClearConcurrency: opt.ClearConcurrency,
	})
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, opt Options) error {
	if opt.Context == nil {
		opt.Context = ctx
	}
	p := tea.NewProgram(New(opt),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ctrl.Start(), m.loading.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
	case spinner.TickMsg:
		cmds = append(cmds, m.loading.update(msg))
	case toastExpiredMsg:
		m.toasts.expire(msg.id)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))
	default:
		if !m.ctrl.Update(msg) && m.input.focused() {
			cmds = append(cmds, m.input.update(msg))
		}
	}

	m.clampCursor()
	m.syncViewport()
	cmds = append(cmds, m.toasts.expiries()...)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.loading.active || !m.ctrl.Ready() {
		if key.Matches(msg, m.keys.Quit) {
			return tea.Quit
		}
		return nil
	}

	if m.dialog.open {
		switch msg.String() {
		case "tab", "shift+tab", "left", "right", "h", "l":
			m.dialog.toggleFocus()
		case "y":
			return m.ctrl.ConfirmDelete()
		case "n", "esc":
			m.ctrl.CancelDelete()
		case "enter":
			if m.dialog.focus == focusDelete {
				return m.ctrl.ConfirmDelete()
			}
			m.ctrl.CancelDelete()
		}
		return nil
	}

	if m.input.focused() {
		switch msg.String() {
		case "enter":
			return m.ctrl.Submit(m.input.value())
		case "esc":
			m.input.blur()
			return nil
		}
		return m.input.update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Toggle):
		return m.ctrl.Click(view.Target{Role: view.RoleCheckbox, ID: m.selectedID()})
	case key.Matches(msg, m.keys.Delete):
		return m.ctrl.Click(view.Target{Role: view.RoleDelete, ID: m.selectedID()})
	case key.Matches(msg, m.keys.Add):
		return m.input.focus()
	case key.Matches(msg, m.keys.Clear):
		return m.ctrl.ClearAll()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// handleMouse resolves a click to a row element and hands it to the
// controller's single click entry point.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !m.ctrl.Ready() || m.dialog.open {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.cursor--
		return nil
	case tea.MouseButtonWheelDown:
		m.cursor++
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if msg.Y < listTop || msg.Y >= listTop+m.vp.Height {
		return nil
	}
	row := msg.Y - listTop + m.vp.YOffset
	target := view.HitTest(m.ctrl.Items(), ui.Current(), row, msg.X-cursorWidth)
	if target.ID != "" {
		m.cursor = row
	}
	return m.ctrl.Click(target)
}

func (m *Model) selectedID() model.ID {
	items := m.ctrl.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return ""
	}
	return items[m.cursor].ID
}

func (m *Model) clampCursor() {
	n := len(m.ctrl.Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) syncViewport() {
	h := m.height - listTop - footerLines
	if h < 1 {
		h = 1
	}
	m.vp.Width = m.width
	m.vp.Height = h
	m.vp.SetContent(m.listBody())
	switch {
	case m.cursor < m.vp.YOffset:
		m.vp.SetYOffset(m.cursor)
	case m.cursor >= m.vp.YOffset+h:
		m.vp.SetYOffset(m.cursor - h + 1)
	}
}

func (m Model) listBody() string {
	th := ui.Current()
	out := m.ctrl.Output()
	if out == "" {
		return th.Muted.Render("  no items, press a to add one")
	}
	lines := strings.Split(out, "\n")
	for i, ln := range lines {
		prefix := "  "
		if i == m.cursor && !m.input.focused() {
			prefix = th.Selected.Render(">") + " "
		}
		lines[i] = prefix + ln
	}
	return strings.Join(lines, "\n")
}

func (m Model) header() string {
	th := ui.Current()
	items := m.ctrl.Items()
	done, pending := model.Stats(items)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d   %s",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), done,
		th.Pending.Render(th.SymPending), pending,
		th.Accent.Render("Total"), len(items),
		th.Muted.Render(m.ctrl.Collection()),
	)
}

func (m Model) View() string {
	if m.loading.active {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.loading.view())
	}
	if m.dialog.open {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.dialog.view(m.width))
	}

	th := ui.Current()
	done, _ := model.Stats(m.ctrl.Items())
	total := len(m.ctrl.Items())

	inputLine := m.input.ti.View()
	if !m.input.focused() && m.input.value() == "" {
		inputLine = th.Muted.Render("  press a to add an item")
	}

	return strings.Join([]string{
		m.header(),
		th.Muted.Render(ui.ProgressBar(done, total, 28)),
		"",
		m.vp.View(),
		"",
		inputLine,
		m.toasts.view(),
		m.help.View(m.keys),
	}, "\n")
}
