// Package view projects items into terminal rows and maps screen positions
// back onto the element of a row they hit.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

// Role classifies what part of a row a gesture landed on.
type Role int

const (
	RoleNone Role = iota
	RoleCheckbox
	RoleLabel
	RoleText
	RoleDelete
)

func (r Role) String() string {
	switch r {
	case RoleCheckbox:
		return "checkbox"
	case RoleLabel:
		return "label"
	case RoleText:
		return "text"
	case RoleDelete:
		return "delete"
	default:
		return "none"
	}
}

// Target is a gesture resolved to an element and the row's item id.
type Target struct {
	Role Role
	ID   model.ID
}

// Row is one rendered item. ID plays the part of the row's data attribute.
type Row struct {
	ID   model.ID
	Line string
}

// Rows renders items in order, one line each:
//
//	☐ Buy milk  ✕
func Rows(items []model.Item, t ui.Theme) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		box := t.Muted.Render(t.BoxUnchecked)
		text := flatten(it.Label)
		if it.Checked {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		line := box + " " + text + "  " + t.Error.Render(t.Close)
		rows = append(rows, Row{ID: it.ID, Line: line})
	}
	return rows
}

// Render joins Rows into the list body. It depends only on its arguments.
func Render(items []model.Item, t ui.Theme) string {
	rows := Rows(items, t)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.Line
	}
	return strings.Join(lines, "\n")
}

// HitTest resolves a column within the row at index row. Columns count
// terminal cells from the start of the row as laid out by Rows.
func HitTest(items []model.Item, t ui.Theme, row, col int) Target {
	if row < 0 || row >= len(items) || col < 0 {
		return Target{}
	}
	it := items[row]
	box := lipgloss.Width(t.BoxUnchecked)
	if it.Checked {
		box = lipgloss.Width(t.BoxChecked)
	}
	textStart := box + 1
	textEnd := textStart + lipgloss.Width(flatten(it.Label))
	closeStart := textEnd + 2
	closeEnd := closeStart + lipgloss.Width(t.Close)

	var role Role
	switch {
	case col < box:
		role = RoleCheckbox
	case col < textStart:
		role = RoleLabel
	case col < textEnd:
		role = RoleText
	case col < closeStart:
		return Target{}
	case col < closeEnd:
		role = RoleDelete
	default:
		return Target{}
	}
	return Target{Role: role, ID: it.ID}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// flatten keeps a label on a single row.
func flatten(label string) string { return lineBreaks.Replace(label) }
