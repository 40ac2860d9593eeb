package controller

import (
	"context"

	"github.com/Makepad-fr/tada-remote/internal/model"
)

// Store persists a collection of items. Implementations must be safe for
// concurrent use: clear-all removes items in parallel.
type Store interface {
	List(ctx context.Context, collection string) ([]model.Item, error)
	Create(ctx context.Context, collection string, item model.Item) (model.Item, error)
	Update(ctx context.Context, collection string, id model.ID, item model.Item) (model.Item, error)
	Remove(ctx context.Context, collection string, id model.ID) error
}

// Notifier shows short-lived, non-blocking messages.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

// ConfirmDialog gates single-item deletion.
type ConfirmDialog interface {
	Show()
	Close()
	SetText(text string)
	Text() string
}

// Indicator blocks interaction while the initial load runs.
type Indicator interface {
	Show()
	Close()
}

// Input is the text field new labels are typed into.
type Input interface {
	Reset()
}

type nopIndicator struct{}

func (nopIndicator) Show()  {}
func (nopIndicator) Close() {}

type nopInput struct{}

func (nopInput) Reset() {}
