package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// labelInput is the "new item" form.
type labelInput struct {
	ti textinput.Model
}

func newLabelInput() *labelInput {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	return &labelInput{ti: ti}
}

// Reset clears the field after a successful create.
func (in *labelInput) Reset() { in.ti.SetValue("") }

func (in *labelInput) focused() bool  { return in.ti.Focused() }
func (in *labelInput) focus() tea.Cmd { return in.ti.Focus() }
func (in *labelInput) blur()          { in.ti.Blur() }
func (in *labelInput) value() string  { return in.ti.Value() }

func (in *labelInput) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	in.ti, cmd = in.ti.Update(msg)
	return cmd
}
