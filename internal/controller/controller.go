// Package controller keeps an in-memory item list in step with a Store.
//
// Every operation that talks to the store returns a tea.Cmd. Running the
// command performs the request; the message it returns must be passed to
// Update, which applies the result on the caller's goroutine. Under Bubble
// Tea this is automatic; other hosts run the command and call Update
// themselves. State is never touched from inside a command.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/tada-remote/internal/logging"
	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
	"github.com/Makepad-fr/tada-remote/internal/ui"
	"github.com/Makepad-fr/tada-remote/internal/view"
)

// Notification texts.
const (
	MsgNoEntries  = "You have no saved entries"
	MsgEmptyLabel = "Enter details about your plans"
	MsgCreated    = "Your TODO is created successfully"
	MsgDeleted    = "Your TODO is deleted now!"
	MsgCleared    = "Your todos are deleted!"

	ConfirmDeleteTitle = "Do you really want to delete this TODO?"
)

// Options wires a Controller to its collaborators.
type Options struct {
	Store      Store
	Collection string
	Notifier   Notifier
	Dialog     ConfirmDialog
	Loading    Indicator
	Input      Input
	Logger     logging.Logger
	// Context is the parent of every store call. Defaults to Background.
	Context context.Context
	// ClearConcurrency bounds parallel deletes in ClearAll.
	ClearConcurrency int
	// Theme is consulted on every render. Defaults to ui.Current.
	Theme func() ui.Theme
}

// Controller owns the in-memory list and the pending delete target.
type Controller struct {
	store      Store
	collection string
	notify     Notifier
	dialog     ConfirmDialog
	loading    Indicator
	input      Input
	l          logging.Logger
	ctx        context.Context
	clearLimit int
	theme      func() ui.Theme

	items      []model.Item
	pending    model.ID
	hasPending bool
	started    bool
	ready      bool
	output     string
}

// New returns a Controller with defaults filled in for unset options.
func New(opt Options) *Controller {
	c := &Controller{
		store:      opt.Store,
		collection: opt.Collection,
		notify:     opt.Notifier,
		dialog:     opt.Dialog,
		loading:    opt.Loading,
		input:      opt.Input,
		l:          opt.Logger,
		ctx:        opt.Context,
		clearLimit: opt.ClearConcurrency,
		theme:      opt.Theme,
	}
	if c.collection == "" {
		c.collection = "todos"
	}
	if c.loading == nil {
		c.loading = nopIndicator{}
	}
	if c.input == nil {
		c.input = nopInput{}
	}
	if c.l == nil {
		c.l = logging.NewNop()
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	if c.clearLimit <= 0 {
		c.clearLimit = 8
	}
	if c.theme == nil {
		c.theme = ui.Current
	}
	return c
}

// Items returns a copy of the in-memory list.
func (c *Controller) Items() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Pending returns the id awaiting delete confirmation, if any.
func (c *Controller) Pending() (model.ID, bool) { return c.pending, c.hasPending }

// Ready reports whether the initial load has settled and gestures are accepted.
func (c *Controller) Ready() bool { return c.ready }

// Output is the list body as of the last render.
func (c *Controller) Output() string { return c.output }

// Collection is the name of the collection being edited.
func (c *Controller) Collection() string { return c.collection }

// Render projects the current list into Output.
func (c *Controller) Render() {
	c.output = view.Render(c.items, c.theme())
}

// Start shows the loading indicator and requests the full collection. Gestures
// are ignored until the result has been applied.
func (c *Controller) Start() tea.Cmd {
	if c.started {
		return nil
	}
	c.started = true
	c.loading.Show()

	ctx, st, coll := c.ctx, c.store, c.collection
	return func() tea.Msg {
		items, err := st.List(ctx, coll)
		return loadedMsg{items: items, err: err}
	}
}

// Submit creates an item from label.
func (c *Controller) Submit(label string) tea.Cmd {
	if !c.ready {
		return nil
	}
	label = strings.TrimSpace(label)
	if label == "" {
		c.notify.Warning(MsgEmptyLabel)
		return nil
	}

	ctx, st, coll := c.ctx, c.store, c.collection
	return func() tea.Msg {
		item, err := st.Create(ctx, coll, model.Item{Label: label, Checked: false})
		return createdMsg{label: label, item: item, err: err}
	}
}

// Click routes a gesture by the role of the element it hit.
func (c *Controller) Click(t view.Target) tea.Cmd {
	if !c.ready || t.ID == "" {
		return nil
	}
	switch t.Role {
	case view.RoleDelete:
		c.RequestDelete(t.ID)
		return nil
	case view.RoleCheckbox, view.RoleLabel, view.RoleText:
		return c.Toggle(t.ID)
	default:
		return nil
	}
}

// Toggle flips the checked flag of the item with the given id.
func (c *Controller) Toggle(id model.ID) tea.Cmd {
	if !c.ready {
		return nil
	}
	idx := model.Find(c.items, id)
	if idx < 0 {
		return nil
	}
	payload := c.items[idx].Toggled()

	ctx, st, coll := c.ctx, c.store, c.collection
	return func() tea.Msg {
		item, err := st.Update(ctx, coll, id, payload)
		return toggledMsg{id: id, item: item, err: err}
	}
}

// RequestDelete opens the confirmation dialog for id.
func (c *Controller) RequestDelete(id model.ID) {
	if !c.ready {
		return
	}
	idx := model.Find(c.items, id)
	if idx < 0 {
		return
	}
	c.pending, c.hasPending = id, true
	c.dialog.SetText(c.items[idx].Label)
	c.dialog.Show()
}

// ConfirmDelete deletes the pending target. The dialog stays open until the
// request settles.
func (c *Controller) ConfirmDelete() tea.Cmd {
	if !c.hasPending {
		return nil
	}
	id := c.pending
	label := c.dialog.Text()
	c.pending, c.hasPending = "", false

	ctx, st, coll := c.ctx, c.store, c.collection
	return func() tea.Msg {
		return deletedMsg{id: id, label: label, err: st.Remove(ctx, coll, id)}
	}
}

// CancelDelete closes the dialog and forgets the pending target.
func (c *Controller) CancelDelete() {
	c.pending, c.hasPending = "", false
	c.dialog.Close()
}

// ClearAll deletes every item currently in the list.
func (c *Controller) ClearAll() tea.Cmd {
	if !c.ready {
		return nil
	}
	ids := make([]model.ID, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}

	ctx, st, coll, limit := c.ctx, c.store, c.collection, c.clearLimit
	return func() tea.Msg {
		errs := make([]error, len(ids))
		var g errgroup.Group
		g.SetLimit(limit)
		for i, id := range ids {
			g.Go(func() error {
				errs[i] = st.Remove(ctx, coll, id)
				return nil
			})
		}
		_ = g.Wait()
		return clearedMsg{ids: ids, errs: errs}
	}
}

// Update applies a settlement message. It reports whether msg belonged to
// the controller.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case loadedMsg:
		c.onLoaded(msg)
	case createdMsg:
		c.onCreated(msg)
	case toggledMsg:
		c.onToggled(msg)
	case deletedMsg:
		c.onDeleted(msg)
	case clearedMsg:
		c.onCleared(msg)
	default:
		return false
	}
	return true
}

func (c *Controller) onLoaded(msg loadedMsg) {
	if msg.err != nil {
		c.l.Warnf(c.ctx, "load %s: %v", c.collection, msg.err)
		c.items = nil
		c.notify.Error(MsgNoEntries)
	} else {
		c.items = dedupe(msg.items)
		c.l.Infof(c.ctx, "loaded %d items from %s", len(c.items), c.collection)
	}
	c.Render()
	c.ready = true
	c.loading.Close()
}

func (c *Controller) onCreated(msg createdMsg) {
	if msg.err != nil {
		c.l.Errorf(c.ctx, "create %q: %v", msg.label, msg.err)
		c.notify.Error(fmt.Sprintf("Could not create %q", msg.label))
		return
	}
	if model.Find(c.items, msg.item.ID) < 0 {
		c.items = append(c.items, msg.item)
	}
	c.input.Reset()
	c.Render()
	c.notify.Success(MsgCreated)
}

func (c *Controller) onToggled(msg toggledMsg) {
	if msg.err != nil {
		c.l.Errorf(c.ctx, "update %s: %v", msg.id, msg.err)
		label := string(msg.id)
		if idx := model.Find(c.items, msg.id); idx >= 0 {
			label = c.items[idx].Label
		}
		c.notify.Error(fmt.Sprintf("Could not update %q", label))
	} else if idx := model.Find(c.items, msg.id); idx >= 0 {
		item := msg.item
		if item.ID == "" {
			item.ID = msg.id
		}
		c.items[idx] = item
	}
	c.Render()
}

func (c *Controller) onDeleted(msg deletedMsg) {
	// a dialog opened for another item while this request was in flight stays up
	defer func() {
		if !c.hasPending {
			c.dialog.Close()
		}
	}()
	if msg.err != nil && !errors.Is(msg.err, store.ErrNotFound) {
		c.l.Errorf(c.ctx, "remove %s: %v", msg.id, msg.err)
		c.notify.Error(fmt.Sprintf("Could not delete %q", msg.label))
		c.Render()
		return
	}
	c.items = without(c.items, map[model.ID]bool{msg.id: true})
	c.Render()
	c.notify.Warning(MsgDeleted)
}

func (c *Controller) onCleared(msg clearedMsg) {
	removed := make(map[model.ID]bool, len(msg.ids))
	var failed int
	for i, id := range msg.ids {
		err := msg.errs[i]
		if err == nil || errors.Is(err, store.ErrNotFound) {
			removed[id] = true
			continue
		}
		failed++
		c.l.Errorf(c.ctx, "clear: remove %s: %v", id, err)
	}

	if failed == 0 && len(c.items) == len(removed) {
		c.items = []model.Item{}
	} else {
		// items created while the clear was in flight survive it
		c.items = without(c.items, removed)
	}
	c.Render()

	if failed > 0 {
		c.notify.Error(fmt.Sprintf("Could not delete %d of %d todos", failed, len(msg.ids)))
		return
	}
	c.notify.Success(MsgCleared)
}

func without(items []model.Item, ids map[model.ID]bool) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if !ids[it.ID] {
			out = append(out, it)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each id.
func dedupe(items []model.Item) []model.Item {
	seen := make(map[model.ID]bool, len(items))
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}
