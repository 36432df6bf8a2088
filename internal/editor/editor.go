// Package editor is a small in-process editor: buffers backed by line
// providers, windows with a cursor, and a per-window jump stack that
// follows vim's traversal rules. It implements host.Host.
package editor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"

	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/logger"
	"github.com/TimelordUK/jumplist/internal/source"
)

// MaxJumps is the jump stack capacity of a window
const MaxJumps = 100

// FirstWindowID matches the first window handle vim hands out
const FirstWindowID host.WindowID = 1000

var (
	ErrNoWindow  = errors.New("no such window")
	ErrNoBuffer  = errors.New("no such buffer")
	ErrJumpRange = errors.New("jump stack exhausted")
)

// Buffer is an open buffer
type Buffer struct {
	ID   host.BufferID
	Path string
	src  source.LineProvider
}

// Lines returns the buffer text provider
func (b *Buffer) Lines() source.LineProvider {
	return b.src
}

// LineCount returns the number of lines, at least 1
func (b *Buffer) LineCount() int {
	return max(b.src.LineCount(), 1)
}

type window struct {
	id    host.WindowID
	buf   host.BufferID
	line  int
	col   int
	jumps []host.RawJump
	idx   int
	flash time.Duration
}

func (w *window) here() host.RawJump {
	return host.RawJump{Buf: w.buf, Line: w.line, Col: w.col}
}

// record pushes j on the stack, dropping older items on the same line,
// and moves the index past the end
func (w *window) record(j host.RawJump) {
	kept := make([]host.RawJump, 0, len(w.jumps)+1)
	for _, old := range w.jumps {
		if old.Buf == j.Buf && old.Line == j.Line {
			continue
		}
		kept = append(kept, old)
	}
	kept = append(kept, j)
	if len(kept) > MaxJumps {
		kept = kept[len(kept)-MaxJumps:]
	}
	w.jumps = kept
	w.idx = len(kept)
}

// push appends j without dropping items on the same line, so indexes
// computed against the stack stay valid, and leaves the index on it
func (w *window) push(j host.RawJump) {
	jumps := append(w.jumps[:len(w.jumps):len(w.jumps)], j)
	if len(jumps) > MaxJumps {
		jumps = jumps[len(jumps)-MaxJumps:]
	}
	w.jumps = jumps
	w.idx = len(jumps) - 1
}

// Editor holds buffers and windows. It is not safe for concurrent use;
// the UI drives it from a single goroutine.
type Editor struct {
	buffers map[host.BufferID]*Buffer
	windows map[host.WindowID]*window
	nextBuf host.BufferID
	nextWin host.WindowID
	focus   host.WindowID
	cwd     string
	log     logr.Logger
}

// Option configures an Editor
type Option func(*Editor)

// WithLogger sets the editor logger
func WithLogger(log logr.Logger) Option {
	return func(e *Editor) { e.log = log }
}

// New creates an empty editor rooted at cwd
func New(cwd string, opts ...Option) *Editor {
	e := &Editor{
		buffers: make(map[host.BufferID]*Buffer),
		windows: make(map[host.WindowID]*window),
		nextBuf: 1,
		nextWin: FirstWindowID,
		cwd:     cwd,
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddBuffer registers a buffer over src
func (e *Editor) AddBuffer(path string, src source.LineProvider) host.BufferID {
	id := e.nextBuf
	e.nextBuf++
	e.buffers[id] = &Buffer{ID: id, Path: path, src: src}
	return id
}

// OpenFile maps the file at path into a new buffer
func (e *Editor) OpenFile(path string) (host.BufferID, error) {
	src, err := source.NewFileSource(path)
	if err != nil {
		return 0, fmt.Errorf("open buffer %s: %w", path, err)
	}
	return e.AddBuffer(path, src), nil
}

// AddScratch creates an in-memory buffer
func (e *Editor) AddScratch(name string, lines []string) host.BufferID {
	return e.AddBuffer(name, source.NewMemorySource(lines))
}

// Buffer returns a buffer, nil when it does not exist
func (e *Editor) Buffer(id host.BufferID) *Buffer {
	return e.buffers[id]
}

// BufferIDs returns the open buffers in creation order
func (e *Editor) BufferIDs() []host.BufferID {
	ids := make([]host.BufferID, 0, len(e.buffers))
	for id := range e.buffers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// WipeBuffer removes a buffer. Jump stack items pointing at it stay,
// like they do in vim, and are skipped by the list.
func (e *Editor) WipeBuffer(id host.BufferID) error {
	b, ok := e.buffers[id]
	if !ok {
		return fmt.Errorf("wipe %d: %w", id, ErrNoBuffer)
	}
	delete(e.buffers, id)
	if c, ok := b.src.(source.Closer); ok {
		return c.Close()
	}
	return nil
}

// NewWindow opens a window on buf with the cursor on line 1 and focuses it
func (e *Editor) NewWindow(buf host.BufferID) (host.WindowID, error) {
	if _, ok := e.buffers[buf]; !ok {
		return 0, fmt.Errorf("new window: %w", ErrNoBuffer)
	}
	id := e.nextWin
	e.nextWin++
	e.windows[id] = &window{id: id, buf: buf, line: 1}
	e.focus = id
	return id, nil
}

// Focus makes win the current window
func (e *Editor) Focus(win host.WindowID) error {
	if _, ok := e.windows[win]; !ok {
		return fmt.Errorf("focus %d: %w", win, ErrNoWindow)
	}
	e.focus = win
	return nil
}

// WindowIDs returns the open windows in creation order
func (e *Editor) WindowIDs() []host.WindowID {
	ids := make([]host.WindowID, 0, len(e.windows))
	for id := range e.windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids
}

// Cursor returns the 1-based line and 0-based column of win
func (e *Editor) Cursor(win host.WindowID) (line, col int) {
	w, ok := e.windows[win]
	if !ok {
		return 0, 0
	}
	return w.line, w.col
}

// SetCursor moves the cursor without recording a jump
func (e *Editor) SetCursor(win host.WindowID, line, col int) error {
	w, ok := e.windows[win]
	if !ok {
		return fmt.Errorf("set cursor: %w", ErrNoWindow)
	}
	e.place(w, line, col)
	return nil
}

func (e *Editor) place(w *window, line, col int) {
	n := 1
	if b, ok := e.buffers[w.buf]; ok {
		n = b.LineCount()
	}
	w.line = min(max(line, 1), n)
	w.col = max(col, 0)
}

// JumpTo is a jump command: the current position is recorded, then the
// cursor moves to buf at (line, col)
func (e *Editor) JumpTo(win host.WindowID, buf host.BufferID, line, col int) error {
	w, ok := e.windows[win]
	if !ok {
		return fmt.Errorf("jump: %w", ErrNoWindow)
	}
	if _, ok := e.buffers[buf]; !ok {
		return fmt.Errorf("jump: %w", ErrNoBuffer)
	}
	w.record(w.here())
	w.buf = buf
	e.place(w, line, col)
	return nil
}

// SetJumps replaces the jump stack of win. pos is clamped to [0, len(jumps)].
func (e *Editor) SetJumps(win host.WindowID, jumps []host.RawJump, pos int) error {
	w, ok := e.windows[win]
	if !ok {
		return fmt.Errorf("set jumps: %w", ErrNoWindow)
	}
	if len(jumps) > MaxJumps {
		drop := len(jumps) - MaxJumps
		jumps = jumps[drop:]
		pos -= drop
	}
	w.jumps = append([]host.RawJump(nil), jumps...)
	w.idx = min(max(pos, 0), len(w.jumps))
	return nil
}

// Reload re-indexes file buffers changed on disk and returns how many were
func (e *Editor) Reload() (int, error) {
	n := 0
	for _, id := range e.BufferIDs() {
		fs, ok := e.buffers[id].src.(*source.FileSource)
		if !ok {
			continue
		}
		changed, err := fs.Reload()
		if err != nil {
			return n, fmt.Errorf("reload %s: %w", fs.Path(), err)
		}
		if changed {
			n++
		}
	}
	return n, nil
}

// Close releases every buffer
func (e *Editor) Close() error {
	var errs []error
	for _, id := range e.BufferIDs() {
		if c, ok := e.buffers[id].src.(source.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// TakeFlash returns and resets the pending flash request of win
func (e *Editor) TakeFlash(win host.WindowID) time.Duration {
	w, ok := e.windows[win]
	if !ok {
		return 0
	}
	d := w.flash
	w.flash = 0
	return d
}

// host.Host

func (e *Editor) CurrentWindow() host.WindowID {
	return e.focus
}

func (e *Editor) WindowBuffer(win host.WindowID) host.BufferID {
	if w, ok := e.windows[win]; ok {
		return w.buf
	}
	return 0
}

func (e *Editor) Cwd() string {
	return e.cwd
}

func (e *Editor) JumpList(win host.WindowID) ([]host.RawJump, int) {
	w, ok := e.windows[win]
	if !ok {
		return nil, 0
	}
	return append([]host.RawJump(nil), w.jumps...), w.idx
}

func (e *Editor) BufferPath(buf host.BufferID) string {
	if b, ok := e.buffers[buf]; ok {
		return b.Path
	}
	return ""
}

func (e *Editor) BufferLine(buf host.BufferID, line int) (string, bool) {
	b, ok := e.buffers[buf]
	if !ok || line < 1 {
		return "", false
	}
	l, err := b.src.GetLine(line - 1)
	if err != nil || l == nil {
		return "", false
	}
	return string(l.Content), true
}

func (e *Editor) Goto(win host.WindowID, buf host.BufferID, line, col int) error {
	w, ok := e.windows[win]
	if !ok {
		return fmt.Errorf("goto: %w", ErrNoWindow)
	}
	if _, ok := e.buffers[buf]; !ok {
		return fmt.Errorf("goto: %w", ErrNoBuffer)
	}
	w.buf = buf
	e.place(w, line, col)
	return nil
}

// Traverse moves count items along the stack. Going back from past the
// end first pushes the cursor position so forward can return to it.
// A traversal that leaves the stack changes nothing.
func (e *Editor) Traverse(win host.WindowID, dir host.Direction, count int) error {
	w, ok := e.windows[win]
	if !ok {
		return fmt.Errorf("traverse: %w", ErrNoWindow)
	}
	if count <= 0 {
		count = 1
	}

	saved, savedIdx := w.jumps, w.idx
	restore := func() { w.jumps, w.idx = saved, savedIdx }

	var target int
	if dir == host.Back {
		if w.idx >= len(w.jumps) {
			w.push(w.here())
		}
		target = w.idx - count
	} else {
		target = w.idx + count
	}

	if target < 0 || target >= len(w.jumps) {
		restore()
		return fmt.Errorf("%s %d: %w", dir, count, ErrJumpRange)
	}

	to := w.jumps[target]
	if _, ok := e.buffers[to.Buf]; !ok {
		restore()
		return fmt.Errorf("%s %d: buffer %d: %w", dir, count, to.Buf, ErrNoBuffer)
	}

	w.idx = target
	w.buf = to.Buf
	e.place(w, to.Line, to.Col)
	e.log.V(1).Info("traversed", "window", win, "direction", dir.String(), "count", count, "index", target)
	return nil
}

func (e *Editor) ClearJumps(win host.WindowID) error {
	w, ok := e.windows[win]
	if !ok {
		return fmt.Errorf("clear jumps: %w", ErrNoWindow)
	}
	w.jumps = nil
	w.idx = 0
	return nil
}

func (e *Editor) FlashCursorLine(win host.WindowID, d time.Duration) {
	if w, ok := e.windows[win]; ok {
		w.flash = d
	}
}

var _ host.Host = (*Editor)(nil)
