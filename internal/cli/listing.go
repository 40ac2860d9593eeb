package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/ui"
)

func listPanel(collection string, items []model.Item, group bool) string {
	th := ui.Current()

	d, p := model.Stats(items)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d   %s",
		th.Title.Render("Todos"),
		th.Success.Render(th.SymDone), d,
		th.Pending.Render(th.SymPending), p,
		th.Accent.Render("Total"), len(items),
		th.Muted.Render(collection),
	)

	lines := []string{
		header,
		th.Muted.Render(ui.ProgressBar(d, d+p, 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items, 1)...)
	}
	lines = append(lines, "", th.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	return ui.Panel(lines)
}

// flatLines numbers rows from start so grouped output keeps the indexes
// `done` and `rm` expect.
func flatLines(items []model.Item, start int) []string {
	th := ui.Current()
	if len(items) == 0 {
		return []string{th.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for i, it := range items {
		box, style := th.Pending.Render(th.BoxUnchecked), th.Title.UnsetBold()
		if it.Checked {
			box, style = th.Success.Render(th.BoxChecked), th.Done
		}
		label := strings.Join(strings.Fields(it.Label), " ")
		if len([]rune(label)) > 80 {
			label = string([]rune(label)[:77]) + "..."
		}
		out = append(out, fmt.Sprintf("%s %s %s",
			th.Muted.Render(fmt.Sprintf("%2d.", start+i)), box, style.Render(label)))
	}
	return out
}

func groupLines(items []model.Item) []string {
	th := ui.Current()
	var lines []string
	section := func(title string, checked bool) {
		lines = append(lines, th.Accent.Render(title))
		n := 0
		for i, it := range items {
			if it.Checked == checked {
				lines = append(lines, flatLines([]model.Item{it}, i+1)...)
				n++
			}
		}
		if n == 0 {
			lines = append(lines, th.Muted.Render("(none)"))
		}
	}
	section("Pending", false)
	lines = append(lines, "")
	section("Done", true)
	return lines
}

// listMarkdown renders the collection as a markdown task list.
func listMarkdown(collection string, items []model.Item) string {
	var b strings.Builder
	d, _ := model.Stats(items)
	fmt.Fprintf(&b, "# %s\n\n%d of %d done\n\n", collection, d, len(items))
	for _, it := range items {
		mark := " "
		if it.Checked {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, strings.Join(strings.Fields(it.Label), " "))
	}
	return b.String()
}

func renderMarkdown(md string, width int) (string, error) {
	style := "dark"
	if ui.Current().Name == "mono" {
		style = "ascii"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}
