package jump

import (
	"errors"
	"time"

	"github.com/TimelordUK/jumplist/internal/host"
)

type traversal struct {
	win   host.WindowID
	dir   host.Direction
	count int
}

type gotoCall struct {
	win       host.WindowID
	buf       host.BufferID
	line, col int
}

// fakeHost is an in-memory editor with one focused window
type fakeHost struct {
	win     host.WindowID
	winBuf  host.BufferID
	cwd     string
	paths   map[host.BufferID]string
	text    map[host.BufferID][]string
	jumps   []host.RawJump
	pos     int
	cleared []host.WindowID
	travels []traversal
	gotos   []gotoCall
	flashes []time.Duration
	failNav bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		win:    1000,
		winBuf: 1,
		cwd:    "/src",
		paths:  map[host.BufferID]string{},
		text:   map[host.BufferID][]string{},
	}
}

func (h *fakeHost) addBuffer(id host.BufferID, path string, lines int) {
	h.paths[id] = path
	text := make([]string, lines)
	for i := range text {
		text[i] = path + " line"
	}
	h.text[id] = text
}

func (h *fakeHost) JumpList(host.WindowID) ([]host.RawJump, int) { return h.jumps, h.pos }

func (h *fakeHost) BufferPath(buf host.BufferID) string { return h.paths[buf] }

func (h *fakeHost) BufferLine(buf host.BufferID, line int) (string, bool) {
	lines, ok := h.text[buf]
	if !ok || line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}

var errNav = errors.New("navigation failed")

func (h *fakeHost) Goto(win host.WindowID, buf host.BufferID, line, col int) error {
	if h.failNav {
		return errNav
	}
	h.gotos = append(h.gotos, gotoCall{win, buf, line, col})
	return nil
}

func (h *fakeHost) Traverse(win host.WindowID, dir host.Direction, count int) error {
	if h.failNav {
		return errNav
	}
	h.travels = append(h.travels, traversal{win, dir, count})
	return nil
}

func (h *fakeHost) ClearJumps(win host.WindowID) error {
	h.cleared = append(h.cleared, win)
	h.jumps = nil
	h.pos = 0
	return nil
}

func (h *fakeHost) FlashCursorLine(_ host.WindowID, d time.Duration) {
	h.flashes = append(h.flashes, d)
}

func (h *fakeHost) CurrentWindow() host.WindowID             { return h.win }
func (h *fakeHost) WindowBuffer(host.WindowID) host.BufferID { return h.winBuf }
func (h *fakeHost) Cwd() string                              { return h.cwd }

// fakeSurface records what the list draws
type fakeSurface struct {
	lines      []string
	highlights map[host.Scope][]host.Highlight
	cursor     int
}

func (s *fakeSurface) SetLines(lines []string) { s.lines = append([]string(nil), lines...) }
func (s *fakeSurface) LineCount() int          { return len(s.lines) }
func (s *fakeSurface) ClearHighlights(scope host.Scope) {
	delete(s.highlights, scope)
}
func (s *fakeSurface) AddHighlight(scope host.Scope, hl host.Highlight) {
	s.highlights[scope] = append(s.highlights[scope], hl)
}
func (s *fakeSurface) Cursor() int        { return s.cursor }
func (s *fakeSurface) SetCursor(line int) { s.cursor = line }

type fakeApp struct {
	surface *fakeSurface
	refuse  bool
	opened  int
	closed  int
	specs   []host.ViewSpec
}

func (a *fakeApp) OpenWindow(spec host.ViewSpec) (host.Surface, bool) {
	if a.refuse {
		return nil, false
	}
	a.opened++
	a.specs = append(a.specs, spec)
	a.surface = &fakeSurface{highlights: map[host.Scope][]host.Highlight{}}
	return a.surface, true
}

func (a *fakeApp) CloseWindow() {
	a.closed++
	a.surface = nil
}

// stack builds raw jumps where every item is in a buffer with enough lines
func stack(h *fakeHost, items ...host.RawJump) {
	for _, it := range items {
		if _, ok := h.paths[it.Buf]; !ok {
			h.addBuffer(it.Buf, "/src/buf"+string(rune('0'+it.Buf))+".go", 100)
		}
	}
	h.jumps = items
	h.pos = len(items)
}

func rj(buf host.BufferID, line, col int) host.RawJump {
	return host.RawJump{Buf: buf, Line: line, Col: col}
}
