package view

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/TimelordUK/jumplist/internal/source"
)

func plainStyles() Styles {
	return Styles{LineNumber: lipgloss.NewStyle(), CursorLine: lipgloss.NewStyle(), Flash: lipgloss.NewStyle()}
}

func newTestViewport(lines, height int) *Viewport {
	text := make([]string, lines)
	for i := range text {
		text[i] = fmt.Sprintf("row %d", i+1)
	}
	v := NewViewport(40, height)
	v.SetStyles(plainStyles())
	v.SetProvider(source.NewMemorySource(text))
	return v
}

func TestCursorFollowsScroll(t *testing.T) {
	v := newTestViewport(20, 5)

	v.SetCursor(7)
	assert.Equal(t, 7, v.Cursor())
	assert.Equal(t, 3, v.ScrollOffset())

	v.SetCursor(1)
	assert.Equal(t, 1, v.ScrollOffset())

	v.SetCursor(99)
	assert.Equal(t, 19, v.Cursor())
	assert.Equal(t, 15, v.ScrollOffset())

	v.SetCursor(-4)
	assert.Zero(t, v.Cursor())
}

func TestScrollDragsCursor(t *testing.T) {
	v := newTestViewport(20, 5)
	v.PageDown()
	assert.Equal(t, 4, v.ScrollOffset())
	assert.Equal(t, 4, v.Cursor())

	v.SetCursor(19)
	v.ScrollUp(10)
	assert.Equal(t, 5, v.ScrollOffset())
	assert.Equal(t, 9, v.Cursor())
}

func TestRender(t *testing.T) {
	v := newTestViewport(3, 5)
	v.SetCursor(1)

	got := strings.Split(v.Render(), "\n")
	assert.Equal(t, []string{"1 row 1", "2 row 2", "3 row 3", "~", "~"}, got)

	v.SetShowLineNumbers(false)
	v.SetFlash(true)
	assert.True(t, v.Flashing())
	assert.Equal(t, "row 2", strings.Split(v.Render(), "\n")[1])
}

func TestPercentScrolled(t *testing.T) {
	v := newTestViewport(3, 5)
	assert.Equal(t, float64(100), v.PercentScrolled())

	v = newTestViewport(11, 1)
	v.SetCursor(5)
	assert.InDelta(t, 50, v.PercentScrolled(), 0.01)

	empty := NewViewport(10, 2)
	assert.Zero(t, empty.PercentScrolled())
	assert.Equal(t, "", empty.Render())
}
