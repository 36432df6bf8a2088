package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/jump"
	"github.com/TimelordUK/jumplist/internal/source"
)

// Renderer applies styling to lines
type Renderer interface {
	Render(line *source.Line) string
}

// Width is implemented by renderers that clip their output
type Width interface {
	SetWidth(cells int)
}

// PlainRenderer renders without styling
type PlainRenderer struct {
	tabWidth int
	width    int
}

// NewPlainRenderer creates a plain renderer expanding tabs to tabWidth cells
func NewPlainRenderer(tabWidth int) *PlainRenderer {
	return &PlainRenderer{tabWidth: tabWidth}
}

func (r *PlainRenderer) SetWidth(cells int) { r.width = cells }

// Render returns the line content with tabs expanded
func (r *PlainRenderer) Render(line *source.Line) string {
	return clip(ExpandTabs(string(line.Content), r.tabWidth), r.width)
}

// ExpandTabs replaces tabs with spaces up to the next tab stop
func ExpandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return b.String()
}

func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

// GroupStyles maps the jump list highlight groups to theme colors
func GroupStyles(c config.ListColors) map[string]lipgloss.Style {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return map[string]lipgloss.Style{
		jump.GroupCurrent:  fg(c.Current).Bold(true),
		jump.GroupRelative: fg(c.Relative),
		jump.GroupPath:     fg(c.Path),
		jump.GroupLocation: fg(c.Location),
		jump.GroupKeyword:  fg(c.Keyword),
		jump.GroupString:   fg(c.String),
		jump.GroupComment:  fg(c.Comment).Italic(true),
		jump.GroupNumber:   fg(c.Number),
		jump.GroupEmpty:    fg(c.Empty).Italic(true),
	}
}

// SpanRenderer colors byte ranges of lines by highlight group
type SpanRenderer struct {
	styles map[string]lipgloss.Style
	spans  map[int][]host.Highlight
	width  int
}

// NewSpanRenderer creates a renderer using styles per group
func NewSpanRenderer(styles map[string]lipgloss.Style) *SpanRenderer {
	return &SpanRenderer{styles: styles, spans: map[int][]host.Highlight{}}
}

// SetHighlights replaces the highlights, keyed by their 1-based line
func (r *SpanRenderer) SetHighlights(hls []host.Highlight) {
	r.spans = make(map[int][]host.Highlight)
	for _, hl := range hls {
		r.spans[hl.Line] = append(r.spans[hl.Line], hl)
	}
}

func (r *SpanRenderer) SetWidth(cells int) { r.width = cells }

// Render applies the highlights of the line
func (r *SpanRenderer) Render(line *source.Line) string {
	return Spans(clip(string(line.Content), r.width), r.spans[line.Index+1], r.styles)
}

// Spans styles text by highlight ranges. Later highlights win where they
// overlap. Groups without a style are left plain.
func Spans(text string, hls []host.Highlight, styles map[string]lipgloss.Style) string {
	if len(hls) == 0 || text == "" {
		return text
	}

	groups := make([]string, len(text))
	for _, hl := range hls {
		end := hl.End
		if end < 0 || end > len(text) {
			end = len(text)
		}
		for i := max(hl.Start, 0); i < end; i++ {
			groups[i] = hl.Group
		}
	}

	var b strings.Builder
	start := 0
	for i := 1; i <= len(text); i++ {
		if i < len(text) && groups[i] == groups[start] {
			continue
		}
		seg := text[start:i]
		if style, ok := styles[groups[start]]; ok {
			seg = style.Render(seg)
		}
		b.WriteString(seg)
		start = i
	}
	return b.String()
}
