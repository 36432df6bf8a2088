package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/TimelordUK/jumplist/internal/host"
)

func TestListWindowAppliesHighlightsOnView(t *testing.T) {
	styles := map[string]lipgloss.Style{
		"A": lipgloss.NewStyle().SetString("<"),
		"B": lipgloss.NewStyle().SetString("["),
	}
	w := newListWindow(host.ViewSpec{Title: "Jumplist", Height: 2}, styles, lipgloss.NewStyle(), lipgloss.NewStyle())
	w.SetLines([]string{"one", "two"})

	w.AddHighlight(2, host.Highlight{Line: 2, Group: "B", Start: 0, End: -1})
	w.AddHighlight(1, host.Highlight{Line: 2, Group: "A", Start: 0, End: -1})
	assert.True(t, w.dirty)

	out := w.View(20)
	assert.False(t, w.dirty)
	assert.Contains(t, out, "[ two", "higher scopes are applied last")
	assert.NotContains(t, out, "<")

	w.ClearHighlights(2)
	out = w.View(20)
	assert.Contains(t, out, "< two")

	w.ClearHighlights(1)
	out = w.View(20)
	assert.NotContains(t, out, "<")
	assert.Contains(t, out, "two")
}
