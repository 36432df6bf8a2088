package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/render"
	"github.com/TimelordUK/jumplist/internal/source"
	"github.com/TimelordUK/jumplist/internal/view"
)

// listWindow is the floating window the jump list draws into
type listWindow struct {
	title      string
	height     int
	lines      []string
	highlights map[host.Scope][]host.Highlight
	// dirty is set when highlights changed since they were last applied
	dirty    bool
	spans    *render.SpanRenderer
	viewport *view.Viewport
	border   lipgloss.Style
}

func newListWindow(spec host.ViewSpec, styles map[string]lipgloss.Style, border lipgloss.Style, cursor lipgloss.Style) *listWindow {
	spans := render.NewSpanRenderer(styles)
	vp := view.NewViewport(40, spec.Height)
	vp.SetShowLineNumbers(false)
	vp.SetRenderer(spans)
	vp.SetStyles(view.Styles{CursorLine: cursor, Flash: cursor})

	w := &listWindow{
		title:      spec.Title,
		height:     max(spec.Height, 1),
		highlights: make(map[host.Scope][]host.Highlight),
		spans:      spans,
		viewport:   vp,
		border:     border,
	}
	w.SetLines(nil)
	return w
}

func (w *listWindow) SetLines(lines []string) {
	w.lines = lines
	w.viewport.SetProvider(source.NewMemorySource(lines))
}

func (w *listWindow) LineCount() int {
	return len(w.lines)
}

func (w *listWindow) ClearHighlights(scope host.Scope) {
	delete(w.highlights, scope)
	w.dirty = true
}

func (w *listWindow) AddHighlight(scope host.Scope, hl host.Highlight) {
	w.highlights[scope] = append(w.highlights[scope], hl)
	w.dirty = true
}

// applyHighlights hands the highlights of every scope to the renderer,
// lower scopes first
func (w *listWindow) applyHighlights() {
	if !w.dirty {
		return
	}
	w.dirty = false

	scopes := make([]host.Scope, 0, len(w.highlights))
	for s := range w.highlights {
		scopes = append(scopes, s)
	}
	sort.Slice(scopes, func(a, b int) bool { return scopes[a] < scopes[b] })

	var all []host.Highlight
	for _, s := range scopes {
		all = append(all, w.highlights[s]...)
	}
	w.spans.SetHighlights(all)
}

func (w *listWindow) Cursor() int {
	return w.viewport.Cursor() + 1
}

func (w *listWindow) SetCursor(line int) {
	w.viewport.SetCursor(line - 1)
}

// Move moves the cursor by delta lines
func (w *listWindow) Move(delta int) {
	w.viewport.MoveCursor(delta)
}

// Height is the number of rows the window takes, title and border included
func (w *listWindow) Height() int {
	return w.height + 3
}

// View draws the window width cells wide
func (w *listWindow) View(width int) string {
	w.applyHighlights()
	w.viewport.SetSize(max(width-2, 1), w.height)
	title := w.border.UnsetBorderStyle().Bold(true).Render(" " + w.title + " ")
	box := w.border.Width(max(width-2, 1)).Render(w.viewport.Render())
	return lipgloss.JoinVertical(lipgloss.Left, title, box)
}

var _ host.Surface = (*listWindow)(nil)
