package jump

import (
	"errors"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/logger"
)

type recorded struct {
	warnings []string
	errors   []string
}

func (r *recorded) logger() logr.Logger {
	return logger.StatusSink(func(isError bool, msg string) {
		if isError {
			r.errors = append(r.errors, msg)
			return
		}
		r.warnings = append(r.warnings, msg)
	})
}

func setup(t *testing.T, opts ...Option) (*Jumplist, *fakeHost, *fakeApp, *config.Jumplist) {
	t.Helper()
	h := newFakeHost()
	stack(h, rj(1, 10, 0), rj(2, 20, 0), rj(1, 30, 4))
	app := &fakeApp{}
	cfg := config.DefaultJumplist()
	return New(h, app, &cfg, opts...), h, app, &cfg
}

func TestOpen(t *testing.T) {
	l, _, app, _ := setup(t, WithScope(7))

	require.True(t, l.Open())
	assert.True(t, l.IsOpen())
	assert.Equal(t, host.WindowID(1000), l.Origin())
	assert.Equal(t, 1, app.opened)
	assert.Equal(t, host.ViewSpec{Title: "Jumplist", Height: 3}, app.specs[0])

	s := app.surface
	assert.Len(t, s.lines, 3)
	assert.Equal(t, 1, s.cursor, "cursor starts on the current entry")
	assert.NotEmpty(t, s.highlights[7])
	assert.Len(t, l.LineMap(), 3)
}

func TestOpenRefused(t *testing.T) {
	var rec recorded
	l, _, app, _ := setup(t, WithLogger(rec.logger()))
	app.refuse = true

	assert.False(t, l.Open())
	assert.False(t, l.IsOpen())
	assert.Len(t, rec.warnings, 1)
}

func TestOpenFormatterFailureClosesWindow(t *testing.T) {
	var rec recorded
	bad := FormatterFunc(func(Jump, *Stats, Context, *config.Jumplist) (*Line, error) {
		return nil, errors.New("nope")
	})
	l, _, app, _ := setup(t, WithFormatter(bad), WithLogger(rec.logger()))

	assert.False(t, l.Open())
	assert.False(t, l.IsOpen())
	assert.Equal(t, 1, app.closed)
	assert.Nil(t, l.LineMap())
	require.Len(t, rec.errors, 1)
	assert.Contains(t, rec.errors[0], "nope")
}

func TestOpenEmptyList(t *testing.T) {
	h := newFakeHost()
	app := &fakeApp{}
	cfg := config.DefaultJumplist()
	l := New(h, app, &cfg)

	require.True(t, l.Open())
	assert.Equal(t, []string{"No jumps"}, app.surface.lines)
	assert.Equal(t, 1, app.surface.cursor)

	// jump on the message line is a no-op
	require.NoError(t, l.Dispatch(ActionJump, 0))
	assert.True(t, l.IsOpen())
	assert.Empty(t, h.travels)
	assert.Empty(t, h.gotos)
}

func TestInitDoesNotDisplay(t *testing.T) {
	l, _, app, _ := setup(t)
	got := l.Init()
	assert.Len(t, got, 3)
	assert.Zero(t, app.opened)
	assert.False(t, l.IsOpen())
}

func TestGetCount(t *testing.T) {
	l, h, _, cfg := setup(t)
	l.Init()
	visible, pages := l.GetCount()
	assert.Equal(t, 3, visible)
	assert.Equal(t, 1, pages)

	cfg.MaxHeight = 2
	_, pages = l.GetCount()
	assert.Equal(t, 2, pages)

	cfg.MaxHeight = 0
	_, pages = l.GetCount()
	assert.Equal(t, 1, pages)

	h.jumps = nil
	h.pos = 0
	l.Init()
	visible, pages = l.GetCount()
	assert.Zero(t, visible)
	assert.Zero(t, pages)
}

func TestClose(t *testing.T) {
	l, _, app, _ := setup(t)
	require.True(t, l.Open())

	handled, err := l.HandleKey("q", 0)
	require.NoError(t, err)
	assert.True(t, handled)
	assert.False(t, l.IsOpen())
	assert.Equal(t, 1, app.closed)
	assert.Nil(t, l.LineMap())

	// closing twice is harmless
	require.NoError(t, l.Dispatch(ActionClose, 0))
	assert.Equal(t, 1, app.closed)
}

func TestJumpTraversesByRelativeOffset(t *testing.T) {
	var jumped []Jump
	l, h, app, _ := setup(t, WithOnJump(func(j Jump) { jumped = append(jumped, j) }))
	require.True(t, l.Open())
	app.surface.SetCursor(3) // buf1:10, rel -3

	handled, err := l.HandleKey("enter", 0)
	require.NoError(t, err)
	assert.True(t, handled)

	assert.False(t, l.IsOpen())
	assert.Equal(t, []traversal{{win: 1000, dir: host.Back, count: 3}}, h.travels)
	require.Len(t, jumped, 1)
	assert.Equal(t, 10, jumped[0].Line)
	assert.Equal(t, []time.Duration{300 * time.Millisecond}, h.flashes)
}

func TestJumpForward(t *testing.T) {
	l, h, app, _ := setup(t)
	h.pos = 0 // sitting on the oldest entry
	require.True(t, l.Open())
	app.surface.SetCursor(1) // newest, two steps forward

	require.NoError(t, l.Dispatch(ActionJump, 0))
	assert.Equal(t, []traversal{{win: 1000, dir: host.Forward, count: 2}}, h.travels)
}

func TestJumpToCurrentUsesGoto(t *testing.T) {
	l, h, app, cfg := setup(t)
	cfg.HighlightOnJump = false
	h.pos = 0
	require.True(t, l.Open())
	assert.Equal(t, 3, app.surface.cursor, "oldest entry is current")

	require.NoError(t, l.Dispatch(ActionJump, 0))
	assert.Empty(t, h.travels)
	assert.Equal(t, []gotoCall{{win: 1000, buf: 1, line: 10, col: 0}}, h.gotos)
	assert.Empty(t, h.flashes)
}

func TestJumpNavigationError(t *testing.T) {
	called := false
	l, h, _, _ := setup(t, WithOnJump(func(Jump) { called = true }))
	h.failNav = true
	require.True(t, l.Open())

	err := l.Dispatch(ActionJump, 0)
	assert.ErrorIs(t, err, errNav)
	assert.False(t, called)
}

func fiveEntryHost() *fakeHost {
	h := newFakeHost()
	stack(h, rj(1, 1, 0), rj(1, 2, 0), rj(1, 3, 0), rj(1, 4, 0), rj(1, 5, 0))
	return h
}

func TestClearRefreshesAndKeepsCursorLine(t *testing.T) {
	h := fiveEntryHost()
	app := &fakeApp{}
	cfg := config.DefaultJumplist()
	l := New(h, app, &cfg)
	require.True(t, l.Open())
	oldMap := l.LineMap()
	require.Len(t, oldMap, 5)

	app.surface.SetCursor(3)
	handled, err := l.HandleKey("C", 0)
	require.NoError(t, err)
	assert.True(t, handled)

	assert.Equal(t, []host.WindowID{1000}, h.cleared)
	assert.True(t, l.IsOpen(), "clear keeps the window")
	assert.Equal(t, 1, app.opened, "refresh reuses the surface")
	assert.Empty(t, l.LineMap())
	assert.Equal(t, []string{"No jumps"}, app.surface.lines)
	assert.Equal(t, 1, app.surface.cursor)
}

// clearToTwo leaves two jumps behind, as an editor that re-records the
// cursor position would
type clearToTwo struct{ *fakeHost }

func (h clearToTwo) ClearJumps(win host.WindowID) error {
	h.cleared = append(h.cleared, win)
	h.jumps = []host.RawJump{rj(1, 7, 0), rj(1, 8, 0)}
	h.pos = 2
	return nil
}

func TestClearClampsCursor(t *testing.T) {
	base := fiveEntryHost()
	h := clearToTwo{base}
	app := &fakeApp{}
	cfg := config.DefaultJumplist()
	l := New(h, app, &cfg)
	require.True(t, l.Open())

	app.surface.SetCursor(2)
	require.NoError(t, l.Dispatch(ActionClear, 0))
	assert.Equal(t, 2, app.surface.cursor)
	assert.Len(t, l.LineMap(), 2)
	assert.Equal(t, 7, l.LineMap()[2].Line)

	app.surface.SetCursor(2)
	base.jumps = []host.RawJump{rj(1, 1, 0), rj(1, 2, 0), rj(1, 3, 0), rj(1, 4, 0), rj(1, 5, 0)}
	base.pos = 5
	require.NoError(t, l.refresh(2))
	app.surface.SetCursor(5)
	require.NoError(t, l.Dispatch(ActionClear, 0))
	assert.Equal(t, 2, app.surface.cursor, "clamped to the last line")
}

func TestClearOnMessageLineIsNoop(t *testing.T) {
	h := newFakeHost()
	app := &fakeApp{}
	cfg := config.DefaultJumplist()
	l := New(h, app, &cfg)
	require.True(t, l.Open())

	require.NoError(t, l.Dispatch(ActionClear, 0))
	assert.Empty(t, h.cleared)
}

func TestPassthroughTranslatesCount(t *testing.T) {
	l, h, app, _ := setup(t)
	require.True(t, l.Open())

	handled, err := l.HandleKey("ctrl+o", 1)
	require.NoError(t, err)
	assert.True(t, handled)

	assert.False(t, l.IsOpen())
	assert.Equal(t, 1, app.closed)
	// past the end: one line down the list is the second newest, two raw steps
	assert.Equal(t, []traversal{{win: 1000, dir: host.Back, count: 2}}, h.travels)
}

func TestPassthroughDefaultsCountToOne(t *testing.T) {
	l, h, _, _ := setup(t)
	require.True(t, l.Open())
	require.NoError(t, l.Dispatch(ActionBack, 0))
	assert.Equal(t, 2, h.travels[0].count)
}

func TestPassthroughOutOfBound(t *testing.T) {
	var rec recorded
	l, h, app, _ := setup(t, WithLogger(rec.logger()))
	require.True(t, l.Open())

	require.NoError(t, l.Dispatch(ActionForward, 1))
	assert.True(t, l.IsOpen(), "display left intact")
	assert.Zero(t, app.closed)
	assert.Empty(t, h.travels)
	require.Len(t, rec.warnings, 1)
	assert.Contains(t, rec.warnings[0], "Out of bound")
}

func TestPassthroughRealPositions(t *testing.T) {
	l, h, _, cfg := setup(t)
	cfg.RealPositions = true
	require.True(t, l.Open())

	require.NoError(t, l.Dispatch(ActionBack, 5))
	assert.Equal(t, []traversal{{win: 1000, dir: host.Back, count: 5}}, h.travels)
}

func TestPassthroughUsesOriginWindow(t *testing.T) {
	l, h, _, _ := setup(t)
	require.True(t, l.Open())
	h.win = 2000 // focus moved to the list window

	require.NoError(t, l.Dispatch(ActionBack, 1))
	assert.Equal(t, host.WindowID(1000), h.travels[0].win)
}

func TestActionsIgnoredWhenClosed(t *testing.T) {
	l, h, _, _ := setup(t)
	require.NoError(t, l.Dispatch(ActionJump, 0))
	require.NoError(t, l.Dispatch(ActionBack, 1))
	assert.Empty(t, h.travels)

	handled, err := l.HandleKey("x", 0)
	assert.False(t, handled)
	assert.NoError(t, err)
}

func TestKeymap(t *testing.T) {
	l, _, _, _ := setup(t)
	km := l.Keymap()
	assert.Equal(t, ActionClose, km["esc"])
	assert.Equal(t, ActionJump, km["o"])
	assert.Equal(t, ActionForward, km["tab"])
	assert.Equal(t, ActionClear, km["C"])
}
