package jump

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/mattn/go-runewidth"

	"github.com/TimelordUK/jumplist/internal/config"
)

// Highlight groups emitted by DefaultFormatter
const (
	GroupCurrent  = "JumplistCurrent"
	GroupRelative = "JumplistRelative"
	GroupPath     = "JumplistPath"
	GroupLocation = "JumplistLocation"
	GroupKeyword  = "JumplistKeyword"
	GroupString   = "JumplistString"
	GroupComment  = "JumplistComment"
	GroupNumber   = "JumplistNumber"
	GroupEmpty    = "JumplistEmpty"
)

// Span highlights byte columns [Start, End) of a formatted line
type Span struct {
	Group string
	Start int
	End   int
}

// Line is one formatted display line
type Line struct {
	Text  string
	Spans []Span
}

// Formatter turns an entry into a display line.
// A nil line with a nil error hides the entry.
type Formatter interface {
	Format(j Jump, st *Stats, ctx Context, cfg *config.Jumplist) (*Line, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc func(j Jump, st *Stats, ctx Context, cfg *config.Jumplist) (*Line, error)

// Format implements Formatter
func (f FormatterFunc) Format(j Jump, st *Stats, ctx Context, cfg *config.Jumplist) (*Line, error) {
	return f(j, st, ctx, cfg)
}

// DefaultFormatter lays entries out as
//
//	> 3  path/to/file.go  12:4  source text
//
// The count is the distance from the current entry: the real traversal
// count when cfg.RealPositions is set, otherwise the distance in the list.
type DefaultFormatter struct {
	mu     sync.Mutex
	lexers map[string]chroma.Lexer
}

// NewDefaultFormatter creates the builtin formatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{lexers: make(map[string]chroma.Lexer)}
}

// Format implements Formatter
func (f *DefaultFormatter) Format(j Jump, st *Stats, _ Context, cfg *config.Jumplist) (*Line, error) {
	var b strings.Builder
	var spans []Span

	mark := func(group string, text string) {
		start := b.Len()
		b.WriteString(text)
		if group != "" {
			spans = append(spans, Span{Group: group, Start: start, End: b.Len()})
		}
	}

	if j.Current {
		mark(GroupCurrent, ">")
	} else {
		b.WriteString(" ")
	}
	b.WriteString(" ")

	count := st.Distance(j)
	if cfg.RealPositions {
		count = abs(j.Rel)
	}
	width := Digits(st.MaxRel)
	if !cfg.RealPositions {
		width = Digits(max(len(st.Index), 1))
	}
	group := GroupRelative
	if j.Current {
		group = GroupCurrent
	}
	mark(group, fmt.Sprintf("%*d", width, count))
	b.WriteString("  ")

	path := j.Path
	pathWidth := st.MaxBase
	if cfg.Formatter.UniquePaths {
		if u, ok := st.Unique[j.Path]; ok {
			path = u
		}
		pathWidth = st.MaxUnique
	} else {
		path = basename(j.Path)
	}
	mark(GroupPath, path)
	b.WriteString(strings.Repeat(" ", max(pathWidth-runewidth.StringWidth(path), 0)))
	b.WriteString("  ")

	mark(GroupLocation, fmt.Sprintf("%*d:%-*d", Digits(st.MaxLine), j.Line, Digits(st.MaxCol), j.Col))

	if cfg.Formatter.ShowSource {
		text := strings.TrimSpace(strings.ReplaceAll(j.Text, "\t", " "))
		if text != "" {
			b.WriteString("  ")
			offset := b.Len()
			b.WriteString(text)
			if cfg.Formatter.SyntaxSpans {
				spans = append(spans, f.syntaxSpans(j.Path, text, offset)...)
			}
		}
	}

	return &Line{Text: b.String(), Spans: spans}, nil
}

func (f *DefaultFormatter) lexerFor(path string) chroma.Lexer {
	name := basename(path)
	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.lexers[name]; ok {
		return l
	}
	l := lexers.Match(name)
	if l != nil {
		l = chroma.Coalesce(l)
	}
	f.lexers[name] = l
	return l
}

// syntaxSpans tokenises a single source line. Multi-line constructs
// start mid-state, so results are best effort.
func (f *DefaultFormatter) syntaxSpans(path, text string, offset int) []Span {
	lexer := f.lexerFor(path)
	if lexer == nil {
		return nil
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil
	}

	var spans []Span
	pos, limit := offset, offset+len(text)
	for tok := it(); tok != chroma.EOF && pos < limit; tok = it() {
		end := min(pos+len(tok.Value), limit)
		if group := tokenGroup(tok.Type); group != "" && end > pos {
			spans = append(spans, Span{Group: group, Start: pos, End: end})
		}
		pos = end
	}
	return spans
}

func tokenGroup(t chroma.TokenType) string {
	switch {
	case t.InCategory(chroma.Keyword):
		return GroupKeyword
	case t.InCategory(chroma.Comment):
		return GroupComment
	case t.InSubCategory(chroma.LiteralString):
		return GroupString
	case t.InSubCategory(chroma.LiteralNumber):
		return GroupNumber
	}
	return ""
}
