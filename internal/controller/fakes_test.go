package controller

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

var errBoom = errors.New("boom")

type fakeStore struct {
	mu        sync.Mutex
	items     []model.Item
	nextID    int
	listErr   error
	createErr error
	updateErr error
	removeErr map[model.ID]error
	calls     []string
}

func newFakeStore(items ...model.Item) *fakeStore {
	return &fakeStore{items: items, nextID: 1, removeErr: map[model.ID]error{}}
}

func (s *fakeStore) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *fakeStore) List(ctx context.Context, collection string) ([]model.Item, error) {
	s.record("list " + collection)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *fakeStore) Create(ctx context.Context, collection string, in model.Item) (model.Item, error) {
	s.record("create " + in.Label)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return model.Item{}, s.createErr
	}
	in.ID = model.ID(strconv.Itoa(s.nextID))
	s.nextID++
	s.items = append(s.items, in)
	return in, nil
}

func (s *fakeStore) Update(ctx context.Context, collection string, id model.ID, in model.Item) (model.Item, error) {
	s.record("update " + string(id))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return model.Item{}, s.updateErr
	}
	idx := model.Find(s.items, id)
	if idx < 0 {
		return model.Item{}, store.ErrNotFound
	}
	in.ID = id
	s.items[idx] = in
	return in, nil
}

func (s *fakeStore) Remove(ctx context.Context, collection string, id model.ID) error {
	s.record("remove " + string(id))
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.removeErr[id]; err != nil {
		return err
	}
	idx := model.Find(s.items, id)
	if idx < 0 {
		return store.ErrNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

type note struct {
	level string
	msg   string
}

type fakeNotifier struct{ notes []note }

func (n *fakeNotifier) Success(msg string) { n.notes = append(n.notes, note{"success", msg}) }
func (n *fakeNotifier) Warning(msg string) { n.notes = append(n.notes, note{"warning", msg}) }
func (n *fakeNotifier) Error(msg string)   { n.notes = append(n.notes, note{"error", msg}) }

func (n *fakeNotifier) last() note {
	if len(n.notes) == 0 {
		return note{}
	}
	return n.notes[len(n.notes)-1]
}

type fakeDialog struct {
	open   bool
	text   string
	closes int
}

func (d *fakeDialog) Show()            { d.open = true }
func (d *fakeDialog) SetText(s string) { d.text = s }
func (d *fakeDialog) Text() string     { return d.text }

func (d *fakeDialog) Close() {
	d.open = false
	d.closes++
}

type fakeIndicator struct{ events []string }

func (f *fakeIndicator) Show()  { f.events = append(f.events, "show") }
func (f *fakeIndicator) Close() { f.events = append(f.events, "close") }

type fakeInput struct{ resets int }

func (f *fakeInput) Reset() { f.resets++ }

type harness struct {
	c       *Controller
	store   *fakeStore
	notify  *fakeNotifier
	dialog  *fakeDialog
	loading *fakeIndicator
	input   *fakeInput
}

func newHarness(t *testing.T, st *fakeStore) *harness {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	h := &harness{
		store:   st,
		notify:  &fakeNotifier{},
		dialog:  &fakeDialog{},
		loading: &fakeIndicator{},
		input:   &fakeInput{},
	}
	h.c = New(Options{
		Store:      st,
		Collection: "todos",
		Notifier:   h.notify,
		Dialog:     h.dialog,
		Loading:    h.loading,
		Input:      h.input,
	})
	return h
}

// started returns a harness whose initial load has settled.
func started(t *testing.T, items ...model.Item) *harness {
	t.Helper()
	h := newHarness(t, newFakeStore(items...))
	settle(t, h.c, h.c.Start())
	return h
}

// settle runs cmd the way the Bubble Tea runtime would and applies its result.
func settle(t *testing.T, c *Controller, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	require.True(t, c.Update(cmd()), "message not handled by controller")
}
