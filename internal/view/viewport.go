package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/jumplist/internal/render"
	"github.com/TimelordUK/jumplist/internal/source"
)

// Styles of the viewport decorations
type Styles struct {
	LineNumber lipgloss.Style
	CursorLine lipgloss.Style
	Flash      lipgloss.Style
}

// DefaultStyles returns uncolored-theme fallbacks
func DefaultStyles() Styles {
	return Styles{
		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		CursorLine: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Flash:      lipgloss.NewStyle().Background(lipgloss.Color("58")),
	}
}

// Viewport manages the visible portion of a LineProvider and a cursor
// line inside it. It knows nothing about buffers or jumps.
type Viewport struct {
	provider source.LineProvider
	renderer render.Renderer

	width  int
	height int

	scrollOffset int
	// cursor is a 0-based line index
	cursor int

	styles          Styles
	showLineNumbers bool
	showCursor      bool
	flash           bool
}

// NewViewport creates a new viewport
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:           width,
		height:          height,
		showLineNumbers: true,
		showCursor:      true,
		styles:          DefaultStyles(),
		renderer:        render.NewPlainRenderer(0),
	}
}

// SetStyles replaces the decoration styles
func (v *Viewport) SetStyles(s Styles) {
	v.styles = s
}

// SetRenderer sets the line renderer
func (v *Viewport) SetRenderer(r render.Renderer) {
	v.renderer = r
	v.resizeRenderer()
}

// SetProvider sets the line provider and resets scroll and cursor
func (v *Viewport) SetProvider(provider source.LineProvider) {
	v.provider = provider
	v.scrollOffset = 0
	v.cursor = 0
}

// Provider returns the line provider
func (v *Viewport) Provider() source.LineProvider {
	return v.provider
}

// SetSize updates viewport dimensions
func (v *Viewport) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.resizeRenderer()
	v.follow()
}

// Height returns the number of visible lines
func (v *Viewport) Height() int {
	return v.height
}

func (v *Viewport) resizeRenderer() {
	w, ok := v.renderer.(render.Width)
	if !ok {
		return
	}
	avail := v.width
	if v.showLineNumbers {
		avail -= v.gutterWidth()
	}
	w.SetWidth(max(avail, 1))
}

func (v *Viewport) lineCount() int {
	if v.provider == nil {
		return 0
	}
	return v.provider.LineCount()
}

// Cursor returns the 0-based cursor line
func (v *Viewport) Cursor() int {
	return v.cursor
}

// SetCursor moves the cursor to a 0-based line, clamped, and scrolls it into view
func (v *Viewport) SetCursor(line int) {
	v.cursor = min(max(line, 0), max(v.lineCount()-1, 0))
	v.follow()
}

// MoveCursor moves the cursor by delta lines
func (v *Viewport) MoveCursor(delta int) {
	v.SetCursor(v.cursor + delta)
}

// SetShowCursor toggles the cursor decoration
func (v *Viewport) SetShowCursor(show bool) {
	v.showCursor = show
}

// SetFlash toggles the flash highlight of the cursor line
func (v *Viewport) SetFlash(on bool) {
	v.flash = on
}

// Flashing reports whether the cursor line is flashed
func (v *Viewport) Flashing() bool {
	return v.flash
}

// follow scrolls the minimum needed to keep the cursor visible
func (v *Viewport) follow() {
	if v.height > 0 {
		if v.cursor < v.scrollOffset {
			v.scrollOffset = v.cursor
		} else if v.cursor >= v.scrollOffset+v.height {
			v.scrollOffset = v.cursor - v.height + 1
		}
	}
	v.clampScroll()
}

// ScrollDown scrolls down by n lines, dragging the cursor along
func (v *Viewport) ScrollDown(n int) {
	v.scrollOffset += n
	v.clampScroll()
	v.cursor = max(v.cursor, v.scrollOffset)
}

// ScrollUp scrolls up by n lines, dragging the cursor along
func (v *Viewport) ScrollUp(n int) {
	v.scrollOffset -= n
	v.clampScroll()
	if v.height > 0 {
		v.cursor = min(v.cursor, v.scrollOffset+v.height-1)
	}
}

// PageDown scrolls down by one page
func (v *Viewport) PageDown() {
	v.ScrollDown(v.height - 1)
}

// PageUp scrolls up by one page
func (v *Viewport) PageUp() {
	v.ScrollUp(v.height - 1)
}

// ScrollOffset returns the 0-based top line
func (v *Viewport) ScrollOffset() int {
	return v.scrollOffset
}

// clampScroll ensures scroll offset is within valid bounds
func (v *Viewport) clampScroll() {
	maxScroll := max(v.lineCount()-v.height, 0)
	v.scrollOffset = min(max(v.scrollOffset, 0), maxScroll)
}

func (v *Viewport) gutterWidth() int {
	return len(fmt.Sprintf("%d", max(v.lineCount(), 1))) + 1
}

// Render returns the viewport content as a string
func (v *Viewport) Render() string {
	if v.provider == nil {
		return ""
	}

	lines, err := v.provider.GetLines(v.scrollOffset, v.height)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}

	var builder strings.Builder
	numWidth := v.gutterWidth() - 1

	for i, line := range lines {
		if i > 0 {
			builder.WriteString("\n")
		}
		isCursor := v.showCursor && line.Index == v.cursor

		if v.showLineNumbers {
			numStr := fmt.Sprintf("%*d ", numWidth, line.Index+1)
			if isCursor {
				builder.WriteString(v.styles.CursorLine.Render(numStr))
			} else {
				builder.WriteString(v.styles.LineNumber.Render(numStr))
			}
		}

		if isCursor && v.flash {
			// styled content would reset the background midway
			plain := render.NewPlainRenderer(0)
			builder.WriteString(v.styles.Flash.Render(plain.Render(line)))
			continue
		}
		builder.WriteString(v.renderer.Render(line))
	}

	for i := len(lines); i < v.height; i++ {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("~")
	}

	return builder.String()
}

// PercentScrolled returns how far through the content we are
func (v *Viewport) PercentScrolled() float64 {
	total := v.lineCount()
	if total == 0 {
		return 0
	}
	if total <= v.height {
		return 100
	}
	return float64(v.scrollOffset) / float64(total-v.height) * 100
}

// SetShowLineNumbers toggles line numbers
func (v *Viewport) SetShowLineNumbers(show bool) {
	v.showLineNumbers = show
	v.resizeRenderer()
}
