package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles palette + symbols + border.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Warning, Error, Pending lipgloss.Style
	Selected, Done                                         lipgloss.Style

	BoxUnchecked, BoxChecked string
	Close                    string
	SymDone, SymPending      string
	Border                   lipgloss.Border
}

var current = classic()

// SetTheme switches the palette. Unknown names fall back to classic.
func SetTheme(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		current = Theme{
			Name:     "neon",
			Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),

			BoxUnchecked: "◻",
			BoxChecked:   "◼",
			Close:        "✕",
			SymDone:      "✔",
			SymPending:   "•",
			Border:       lipgloss.RoundedBorder(),
		}
	case "mono":
		SetColorForcing(false, true)
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:     "mono",
			Title:    plain,
			Muted:    plain,
			Accent:   plain,
			Success:  plain,
			Warning:  plain,
			Error:    plain,
			Pending:  plain,
			Selected: plain.Reverse(true),
			Done:     plain,

			BoxUnchecked: "[ ]",
			BoxChecked:   "[x]",
			Close:        "x",
			SymDone:      "x",
			SymPending:   "-",
			Border:       lipgloss.NormalBorder(),
		}
	default:
		current = classic()
	}
}

func classic() Theme {
	return Theme{
		Name:     "classic",
		Title:    lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),

		BoxUnchecked: "☐",
		BoxChecked:   "☑",
		Close:        "✕",
		SymDone:      "✔",
		SymPending:   "•",
		Border:       lipgloss.RoundedBorder(),
	}
}

// Expose what renderers need
func Current() Theme { return current }

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}
