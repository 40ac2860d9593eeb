package controller

import "github.com/Makepad-fr/tada-remote/internal/model"

// Settlement messages. Each one is produced by exactly one tea.Cmd returned
// from a controller operation and must be fed back through Update.

type loadedMsg struct {
	items []model.Item
	err   error
}

type createdMsg struct {
	label string
	item  model.Item
	err   error
}

type toggledMsg struct {
	id   model.ID
	item model.Item
	err  error
}

type deletedMsg struct {
	id    model.ID
	label string
	err   error
}

type clearedMsg struct {
	ids  []model.ID
	errs []error // errs[i] belongs to ids[i]
}
