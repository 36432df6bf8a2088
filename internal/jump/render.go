package jump

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/host"
)

// LineMap maps a 1-based physical line of the list surface to the entry
// rendered there. Valid for exactly one render.
type LineMap map[int]Jump

// Lookup returns the entry on line
func (m LineMap) Lookup(line int) (Jump, bool) {
	j, ok := m[line]
	return j, ok
}

// Ordered returns the entries in line order
func (m LineMap) Ordered() []Jump {
	out := make([]Jump, 0, len(m))
	for line := 1; line <= len(m); line++ {
		j, ok := m[line]
		if !ok {
			break
		}
		out = append(out, j)
	}
	return out
}

// Rendering is the output of one render
type Rendering struct {
	Lines      []string
	Highlights []host.Highlight
	Map        LineMap
	// CurrentLine holds the current entry, 0 when it is not displayed
	CurrentLine int
	Stats       *Stats
}

// Empty reports whether the rendering is the empty-list message
func (r *Rendering) Empty() bool {
	return len(r.Map) == 0
}

// FormatError is a formatter failure. The render it happened in is void.
type FormatError struct {
	Entry Jump
	Msg   string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format %s:%d: %s", basename(e.Entry.Path), e.Entry.Line, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// "file.go:12: " style location prefixes carry no meaning for users
var locationPrefix = regexp.MustCompile(`^(?:\S+\.go:\d+:\s*)+`)

func cleanMessage(err error) string {
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return strings.TrimSpace(locationPrefix.ReplaceAllString(msg, ""))
}

// Render formats entries into display lines and builds the line map.
// Entries the formatter hides take no line. A formatter error or panic
// aborts the whole render.
func Render(entries []Jump, f Formatter, ctx Context, cfg *config.Jumplist) (*Rendering, error) {
	if len(entries) == 0 {
		msg := cfg.EmptyMessage
		return &Rendering{
			Lines:      []string{msg},
			Highlights: []host.Highlight{{Line: 1, Group: GroupEmpty, Start: 0, End: len(msg)}},
			Map:        LineMap{},
		}, nil
	}

	st := ComputeStats(entries)
	r := &Rendering{
		Lines: make([]string, 0, len(entries)),
		Map:   make(LineMap, len(entries)),
		Stats: st,
	}

	for _, j := range entries {
		line, err := formatEntry(f, j, st, ctx, cfg)
		if err != nil {
			return nil, &FormatError{Entry: j, Msg: cleanMessage(err), Err: err}
		}
		if line == nil {
			continue
		}

		n := len(r.Lines) + 1
		r.Lines = append(r.Lines, line.Text)
		r.Map[n] = j
		for _, s := range line.Spans {
			r.Highlights = append(r.Highlights, host.Highlight{Line: n, Group: s.Group, Start: s.Start, End: s.End})
		}
	}

	// taken from the emitted set, so hidden entries cannot shift it
	for n, j := range r.Map {
		if j.Current {
			r.CurrentLine = n
		}
	}

	if len(r.Lines) == 0 {
		// everything hidden: behave like an empty list
		return Render(nil, f, ctx, cfg)
	}
	return r, nil
}

func formatEntry(f Formatter, j Jump, st *Stats, ctx Context, cfg *config.Jumplist) (line *Line, err error) {
	defer func() {
		if p := recover(); p != nil {
			line, err = nil, fmt.Errorf("formatter panic: %v", p)
		}
	}()
	return f.Format(j, st, ctx, cfg)
}
