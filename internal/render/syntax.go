package render

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/TimelordUK/jumplist/internal/source"
)

// SyntaxRenderer applies syntax highlighting based on file type
type SyntaxRenderer struct {
	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
	tabWidth  int
	width     int
}

// NewSyntaxRenderer creates a syntax highlighting renderer for the given filename.
// Returns nil when chroma has no lexer for it.
func NewSyntaxRenderer(filename, theme string, tabWidth int) *SyntaxRenderer {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return nil
	}
	return &SyntaxRenderer{
		lexer:     chroma.Coalesce(lexer),
		style:     styles.Get(theme),
		formatter: formatters.Get("terminal256"),
		tabWidth:  tabWidth,
	}
}

func (r *SyntaxRenderer) SetWidth(cells int) { r.width = cells }

// Render highlights a single line. Lines are tokenised on their own, so
// constructs spanning lines (block comments, raw strings) are approximate.
func (r *SyntaxRenderer) Render(line *source.Line) string {
	content := clip(ExpandTabs(string(line.Content), r.tabWidth), r.width)
	if strings.TrimSpace(content) == "" {
		return content
	}

	it, err := r.lexer.Tokenise(nil, content)
	if err != nil {
		return content
	}

	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, it); err != nil {
		return content
	}

	// the lexer terminates input with a newline
	return strings.TrimRight(buf.String(), "\r\n")
}

// ForFile picks the renderer for a buffer: syntax highlighting when
// enabled and the file type is known, plain otherwise
func ForFile(path string, syntax bool, theme string, tabWidth int) Renderer {
	if syntax && IsSyntaxHighlightable(path) {
		if r := NewSyntaxRenderer(path, theme, tabWidth); r != nil {
			return r
		}
	}
	return NewPlainRenderer(tabWidth)
}

// IsSyntaxHighlightable returns true if the file type supports syntax highlighting
func IsSyntaxHighlightable(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))

	syntaxExts := map[string]bool{
		".go": true, ".rs": true, ".py": true, ".js": true, ".ts": true,
		".jsx": true, ".tsx": true, ".c": true, ".cpp": true, ".h": true,
		".hpp": true, ".java": true, ".rb": true, ".lua": true, ".zig": true,
		".sh": true, ".bash": true, ".vim": true, ".sql": true,
		".yaml": true, ".yml": true, ".json": true, ".toml": true,
		".html": true, ".css": true, ".md": true,
	}
	if syntaxExts[ext] {
		return true
	}

	switch strings.ToLower(filepath.Base(filename)) {
	case "makefile", "dockerfile", "go.mod":
		return true
	}
	return false
}
