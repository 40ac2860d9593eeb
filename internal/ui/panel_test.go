package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░   0%", ProgressBar(0, 0, 5))
	assert.Equal(t, "█████░░░░░  50%", ProgressBar(1, 2, 10))
	assert.Equal(t, "█████ 100%", ProgressBar(3, 3, 1))
}

func TestPanelFramesEveryLine(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	out := Panel([]string{"Todos", "[ ] Buy milk"})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.Contains(t, lines[2], "[ ] Buy milk")
}

func TestMessages(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "added")
	Warn(&buf, "careful")
	Fail(&buf, "broken")
	assert.Equal(t, "x added\n! careful\n✖ broken\n", buf.String())
}

func TestUnknownThemeFallsBackToClassic(t *testing.T) {
	SetTheme("solarized")
	assert.Equal(t, "classic", Current().Name)
	assert.Equal(t, "☐", Current().BoxUnchecked)
}
