package ui

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/editor"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/render"
	"github.com/TimelordUK/jumplist/internal/source"
	"github.com/TimelordUK/jumplist/internal/view"
)

// Pane shows one editor window. The editor owns the cursor; the pane
// mirrors it into its viewport.
type Pane struct {
	ed       *editor.Editor
	win      host.WindowID
	config   *config.Config
	viewport *view.Viewport

	buf       host.BufferID
	renderers map[host.BufferID]render.Renderer
}

// NewPane creates a pane for win
func NewPane(ed *editor.Editor, win host.WindowID, cfg *config.Config) *Pane {
	viewport := view.NewViewport(80, 24)
	viewport.SetShowLineNumbers(cfg.Display.ShowLineNumbers)
	viewport.SetStyles(view.Styles{
		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.LineNumbers)),
		CursorLine: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.List.Current)).Bold(true),
		Flash:      lipgloss.NewStyle().Background(lipgloss.Color(cfg.Theme.FlashLine)),
	})

	p := &Pane{
		ed:        ed,
		win:       win,
		config:    cfg,
		viewport:  viewport,
		renderers: make(map[host.BufferID]render.Renderer),
	}
	p.Sync()
	return p
}

// Window returns the editor window shown
func (p *Pane) Window() host.WindowID {
	return p.win
}

// SetWindow switches the pane to another editor window
func (p *Pane) SetWindow(win host.WindowID) {
	p.win = win
	p.buf = 0
	p.Sync()
}

// Sync pulls buffer and cursor from the editor
func (p *Pane) Sync() {
	buf := p.ed.WindowBuffer(p.win)
	if buf != p.buf || p.viewport.Provider() == nil {
		p.buf = buf
		p.viewport.SetProvider(p.provider(buf))
		p.viewport.SetRenderer(p.renderer(buf))
	}
	line, _ := p.ed.Cursor(p.win)
	p.viewport.SetCursor(line - 1)
}

func (p *Pane) provider(buf host.BufferID) source.LineProvider {
	if b := p.ed.Buffer(buf); b != nil {
		return b.Lines()
	}
	return source.NewMemorySource(nil)
}

func (p *Pane) renderer(buf host.BufferID) render.Renderer {
	if r, ok := p.renderers[buf]; ok {
		return r
	}
	d := p.config.Display
	r := render.ForFile(p.ed.BufferPath(buf), d.SyntaxHighlight, p.config.Theme.Syntax, d.TabWidth)
	p.renderers[buf] = r
	return r
}

// MoveCursor moves the cursor by delta lines without recording a jump
func (p *Pane) MoveCursor(delta int) {
	p.viewport.MoveCursor(delta)
	p.ed.SetCursor(p.win, p.viewport.Cursor()+1, 0)
}

// JumpToLine is a jump command to a 1-based line of the current buffer
func (p *Pane) JumpToLine(line int) error {
	if err := p.ed.JumpTo(p.win, p.buf, line, 0); err != nil {
		return err
	}
	p.Sync()
	return nil
}

// LineCount returns the number of lines of the shown buffer
func (p *Pane) LineCount() int {
	if b := p.ed.Buffer(p.buf); b != nil {
		return b.LineCount()
	}
	return 1
}

// NextBuffer jumps to line 1 of the buffer after the current one
func (p *Pane) NextBuffer() error {
	ids := p.ed.BufferIDs()
	if len(ids) == 0 {
		return nil
	}
	next := ids[0]
	for i, id := range ids {
		if id == p.buf && i+1 < len(ids) {
			next = ids[i+1]
		}
	}
	if err := p.ed.JumpTo(p.win, next, 1, 0); err != nil {
		return err
	}
	p.Sync()
	return nil
}

// SetSize sets the viewport size
func (p *Pane) SetSize(width, height int) {
	p.viewport.SetSize(width, height)
}

// Render returns the rendered viewport content
func (p *Pane) Render() string {
	return p.viewport.Render()
}

// Viewport returns the pane's viewport
func (p *Pane) Viewport() *view.Viewport {
	return p.viewport
}

// Filename returns the display filename
func (p *Pane) Filename() string {
	path := p.ed.BufferPath(p.buf)
	if path == "" {
		return "[No Name]"
	}
	if rel, err := filepath.Rel(p.ed.Cwd(), path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return filepath.Base(path)
}
