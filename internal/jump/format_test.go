package jump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/jumplist/internal/config"
)

func spanText(l *Line, group string) []string {
	var out []string
	for _, s := range l.Spans {
		if s.Group == group {
			out = append(out, l.Text[s.Start:s.End])
		}
	}
	return out
}

func TestDefaultFormatterLayout(t *testing.T) {
	entries := []Jump{
		{Current: true, Pos: 1, Rel: -1, Path: "/src/a/main.go", Line: 7, Col: 3, Text: "\treturn nil"},
		{Pos: 2, Rel: -2, Path: "/src/b/main.go", Line: 120, Col: 12, Text: "x := 1"},
	}
	st := ComputeStats(entries)
	cfg := config.DefaultJumplist()
	cfg.Formatter.SyntaxSpans = false
	f := NewDefaultFormatter()

	first, err := f.Format(entries[0], st, Context{}, &cfg)
	require.NoError(t, err)
	second, err := f.Format(entries[1], st, Context{}, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "> 0  a/main.go    7:3   return nil", first.Text)
	assert.Equal(t, "  1  b/main.go  120:12  x := 1", second.Text)

	assert.Equal(t, []string{">", "0"}, spanText(first, GroupCurrent))
	assert.Equal(t, []string{"1"}, spanText(second, GroupRelative))
	assert.Equal(t, []string{"b/main.go"}, spanText(second, GroupPath))
	assert.Equal(t, []string{"120:12"}, spanText(second, GroupLocation))
}

func TestDefaultFormatterRealPositions(t *testing.T) {
	entries := []Jump{
		{Current: true, Pos: 1, Rel: -1, Path: "/src/main.go", Line: 1},
		{Pos: 4, Rel: -4, Path: "/src/main.go", Line: 2},
	}
	st := ComputeStats(entries)
	cfg := config.DefaultJumplist()
	cfg.RealPositions = true
	cfg.Formatter.ShowSource = false

	l, err := NewDefaultFormatter().Format(entries[1], st, Context{}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"4"}, spanText(l, GroupRelative))

	cfg.RealPositions = false
	l, err = NewDefaultFormatter().Format(entries[1], st, Context{}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, spanText(l, GroupRelative), "list distance skips hidden entries")
}

func TestDefaultFormatterBasenames(t *testing.T) {
	entries := []Jump{{Current: true, Pos: 1, Path: "/src/deep/dir/file.go", Line: 1}}
	cfg := config.DefaultJumplist()
	cfg.Formatter.UniquePaths = false
	cfg.Formatter.ShowSource = false

	l, err := NewDefaultFormatter().Format(entries[0], ComputeStats(entries), Context{}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"file.go"}, spanText(l, GroupPath))
}

func TestDefaultFormatterSyntaxSpans(t *testing.T) {
	entries := []Jump{{Current: true, Pos: 1, Path: "/src/main.go", Line: 1, Text: `return "hello" // done`}}
	cfg := config.DefaultJumplist()

	l, err := NewDefaultFormatter().Format(entries[0], ComputeStats(entries), Context{}, &cfg)
	require.NoError(t, err)

	assert.Contains(t, spanText(l, GroupKeyword), "return")
	assert.Contains(t, strings.Join(spanText(l, GroupString), ""), "hello")
	assert.Contains(t, spanText(l, GroupComment), "// done")
	for _, s := range l.Spans {
		assert.LessOrEqual(t, s.End, len(l.Text))
		assert.Less(t, s.Start, s.End)
	}
}

func TestDefaultFormatterUnknownLanguage(t *testing.T) {
	entries := []Jump{{Current: true, Pos: 1, Path: "/src/notes.unknownext", Line: 1, Text: "return"}}
	cfg := config.DefaultJumplist()

	l, err := NewDefaultFormatter().Format(entries[0], ComputeStats(entries), Context{}, &cfg)
	require.NoError(t, err)
	assert.Empty(t, spanText(l, GroupKeyword))
}
