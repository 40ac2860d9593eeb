package tui

import (
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/controller"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store/jsonstore"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

const coll = "todos"

// execCmd runs cmd like the runtime would. Timers that would not fire
// promptly (cursor blink, toast expiry) are dropped.
func execCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, execCmd(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(150 * time.Millisecond):
		return nil
	}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	return settleModel(t, m, msg, 0)
}

func settleModel(t *testing.T, m Model, msg tea.Msg, depth int) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if depth > 4 {
		return m
	}
	for _, out := range execCmd(cmd) {
		if _, ok := out.(spinner.TickMsg); ok {
			continue
		}
		m = settleModel(t, m, out, depth+1)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func newTestModel(t *testing.T, seed ...string) (Model, *jsonstore.Store) {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	st := jsonstore.New(t.TempDir())
	for _, label := range seed {
		_, err := st.Create(context.Background(), coll, model.Item{Label: label})
		require.NoError(t, err)
	}
	m := New(Options{Store: st, Collection: coll, ToastTimeout: time.Hour})
	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, st
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	for _, msg := range execCmd(m.Init()) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		m = step(t, m, msg)
	}
	require.True(t, m.ctrl.Ready())
	return m
}

func storedLabels(t *testing.T, st *jsonstore.Store) []string {
	t.Helper()
	items, err := st.List(context.Background(), coll)
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

func TestInitShowsLoadingThenRows(t *testing.T) {
	m, _ := newTestModel(t, "Buy milk")
	m.ctrl.Start()
	assert.Contains(t, m.View(), "Please wait a bit ...")

	m, _ = newTestModel(t, "Buy milk")
	m = start(t, m)
	assert.False(t, m.loading.active)
	assert.Contains(t, m.View(), "[ ] Buy milk  x")
}

func TestEmptyCollectionLoads(t *testing.T) {
	m, _ := newTestModel(t)
	m = start(t, m)
	assert.Contains(t, m.View(), "no items")
	assert.Empty(t, m.toasts.items)
}

func TestKeysIgnoredBeforeLoad(t *testing.T) {
	m, _ := newTestModel(t)
	m.ctrl.Start()
	m = step(t, m, keyRunes("a"))
	assert.False(t, m.input.focused())
}

func TestAddThroughInput(t *testing.T) {
	m, st := newTestModel(t)
	m = start(t, m)

	m = step(t, m, keyRunes("a"))
	require.True(t, m.input.focused())
	m = step(t, m, keyRunes("Call mom"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"Call mom"}, storedLabels(t, st))
	assert.Equal(t, "", m.input.value())
	assert.Contains(t, m.View(), "[ ] Call mom  x")
	assert.Contains(t, m.toasts.view(), controller.MsgCreated)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.input.focused())
}

func TestEmptySubmitWarns(t *testing.T) {
	m, st := newTestModel(t)
	m = start(t, m)
	m = step(t, m, keyRunes("a"))
	m = step(t, m, keyRunes("   "))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, storedLabels(t, st))
	assert.Contains(t, m.toasts.view(), controller.MsgEmptyLabel)
}

func TestQuitIsTypedWhileEditing(t *testing.T) {
	m, _ := newTestModel(t)
	m = start(t, m)
	m = step(t, m, keyRunes("a"))
	m = step(t, m, keyRunes("q"))
	assert.Equal(t, "q", m.input.value())
}

func TestToggleSelectedRow(t *testing.T) {
	m, st := newTestModel(t, "one", "two")
	m = start(t, m)

	m = step(t, m, keyRunes("j"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	items, err := st.List(context.Background(), coll)
	require.NoError(t, err)
	assert.False(t, items[0].Checked)
	assert.True(t, items[1].Checked)
	assert.Contains(t, m.View(), "[x] two  x")
}

func TestDeleteConfirmAndCancel(t *testing.T) {
	m, st := newTestModel(t, "one", "two")
	m = start(t, m)

	m = step(t, m, keyRunes("x"))
	require.True(t, m.dialog.open)
	assert.Contains(t, m.View(), "Do you really want to delete this TODO?")
	assert.Contains(t, m.View(), "one")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.dialog.open)
	_, pending := m.ctrl.Pending()
	assert.False(t, pending)
	assert.Equal(t, []string{"one", "two"}, storedLabels(t, st))

	m = step(t, m, keyRunes("x"))
	m = step(t, m, keyRunes("y"))
	assert.False(t, m.dialog.open)
	assert.Equal(t, []string{"two"}, storedLabels(t, st))
	assert.Contains(t, m.toasts.view(), controller.MsgDeleted)
}

func TestDialogEnterFollowsFocus(t *testing.T) {
	m, st := newTestModel(t, "one")
	m = start(t, m)

	m = step(t, m, keyRunes("x"))
	// focus starts on CANCEL
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"one"}, storedLabels(t, st))

	m = step(t, m, keyRunes("x"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, storedLabels(t, st))
	assert.False(t, m.dialog.open)
}

func TestMouseClicks(t *testing.T) {
	m, st := newTestModel(t, "Buy milk")
	m = start(t, m)

	// "> [ ] Buy milk  x" starting at column 0 of the first list row
	click := func(x int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: listTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	}

	m = step(t, m, click(cursorWidth+1))
	items, err := st.List(context.Background(), coll)
	require.NoError(t, err)
	assert.True(t, items[0].Checked)

	m = step(t, m, click(cursorWidth+13))
	assert.False(t, m.dialog.open, "gap between text and close is inert")

	m = step(t, m, click(cursorWidth+14))
	assert.True(t, m.dialog.open)

	// clicks under an open dialog do nothing
	m = step(t, m, click(cursorWidth+1))
	items, err = st.List(context.Background(), coll)
	require.NoError(t, err)
	assert.True(t, items[0].Checked)
}

func TestClearAllKey(t *testing.T) {
	m, st := newTestModel(t, "a", "b", "c")
	m = start(t, m)

	m = step(t, m, keyRunes("C"))
	assert.Empty(t, storedLabels(t, st))
	assert.Empty(t, m.ctrl.Items())
	assert.Contains(t, m.toasts.view(), controller.MsgCleared)
	assert.Equal(t, 0, m.cursor)
}

func TestCursorClampsAfterDelete(t *testing.T) {
	m, _ := newTestModel(t, "a", "b")
	m = start(t, m)
	m = step(t, m, keyRunes("j"))
	m = step(t, m, keyRunes("j"))
	assert.Equal(t, 1, m.cursor)

	m = step(t, m, keyRunes("x"))
	m = step(t, m, keyRunes("y"))
	assert.Equal(t, 0, m.cursor)
}

func TestToastExpiry(t *testing.T) {
	m, _ := newTestModel(t)
	m = start(t, m)
	m.toasts.Success("hi")
	id := m.toasts.items[0].id

	m = step(t, m, toastExpiredMsg{id: id})
	assert.Empty(t, m.toasts.items)
}

func TestToasterKeepsNewest(t *testing.T) {
	tt := newToaster(time.Second)
	for _, s := range []string{"1", "2", "3", "4"} {
		tt.Warning(s)
	}
	require.Len(t, tt.items, 3)
	assert.Equal(t, "2", tt.items[0].text)
	assert.Len(t, tt.expiries(), 4)
	assert.Empty(t, tt.expiries())
}
