package jump

import (
	"github.com/go-logr/logr"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/logger"
)

// Action names a list window command
type Action string

const (
	ActionClose   Action = "close"
	ActionClear   Action = "clear"
	ActionJump    Action = "jump"
	ActionBack    Action = "back"
	ActionForward Action = "forward"
)

type actionFunc func(l *Jumplist, count int) error

// actions is the dispatch table. Every entry reads the live line map
// from the Jumplist at call time.
var actions = map[Action]actionFunc{
	ActionClose:   (*Jumplist).close,
	ActionClear:   (*Jumplist).clear,
	ActionJump:    (*Jumplist).jump,
	ActionBack:    func(l *Jumplist, count int) error { return l.passthrough(host.Back, count) },
	ActionForward: func(l *Jumplist, count int) error { return l.passthrough(host.Forward, count) },
}

// Jumplist is the jump list view of one editor window
type Jumplist struct {
	host      host.Host
	app       host.WindowController
	cfg       *config.Jumplist
	formatter Formatter
	filter    Filter
	log       logr.Logger
	onJump    func(Jump)
	scope     host.Scope

	origin  host.WindowID
	ctx     Context
	entries []Jump

	surface host.Surface
	lineMap LineMap
	keymap  map[string]Action
}

// Option configures a Jumplist
type Option func(*Jumplist)

// WithFormatter replaces the builtin formatter
func WithFormatter(f Formatter) Option {
	return func(l *Jumplist) { l.formatter = f }
}

// WithFilter sets the filter predicate
func WithFilter(f Filter) Option {
	return func(l *Jumplist) { l.filter = f }
}

// WithLogger sets where warnings and errors go
func WithLogger(log logr.Logger) Option {
	return func(l *Jumplist) { l.log = log }
}

// WithOnJump sets a callback run after a successful jump
func WithOnJump(fn func(Jump)) Option {
	return func(l *Jumplist) { l.onJump = fn }
}

// WithScope sets the highlight scope the list draws into
func WithScope(s host.Scope) Option {
	return func(l *Jumplist) { l.scope = s }
}

// New creates a jump list view. Nothing is collected until Init or Open.
func New(h host.Host, app host.WindowController, cfg *config.Jumplist, opts ...Option) *Jumplist {
	l := &Jumplist{
		host:      h,
		app:       app,
		cfg:       cfg,
		formatter: NewDefaultFormatter(),
		filter:    All,
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.keymap = buildKeymap(&cfg.Keys)
	return l
}

func buildKeymap(keys *config.JumplistKeys) map[string]Action {
	km := make(map[string]Action)
	bind := func(a Action, symbols []string) {
		for _, s := range symbols {
			km[s] = a
		}
	}
	bind(ActionBack, keys.Back)
	bind(ActionForward, keys.Forward)
	bind(ActionClear, keys.Clear)
	bind(ActionJump, keys.Jump)
	bind(ActionClose, keys.Close)
	return km
}

// Init collects entries for the focused window without displaying them
func (l *Jumplist) Init() []Jump {
	l.origin = l.host.CurrentWindow()
	buf := l.host.WindowBuffer(l.origin)
	l.ctx = Context{
		Win:  l.origin,
		Buf:  buf,
		Path: l.host.BufferPath(buf),
		Cwd:  l.host.Cwd(),
	}
	return l.collect()
}

func (l *Jumplist) collect() []Jump {
	raw, pos := l.host.JumpList(l.origin)
	l.entries = Collect(raw, pos, l.host, l.filter, l.ctx)
	return l.entries
}

// Open collects, opens the list window, renders and binds the actions.
// Returns false when the window could not be opened or rendering failed.
func (l *Jumplist) Open() bool {
	l.Init()

	surface, ok := l.app.OpenWindow(host.ViewSpec{Title: "Jumplist", Height: l.height()})
	if !ok {
		logger.Warn(l.log, "could not open jumplist window")
		return false
	}
	l.surface = surface

	r, ok := l.draw()
	if !ok {
		return false
	}

	cursor := r.CurrentLine
	if cursor == 0 {
		cursor = 1
	}
	l.surface.SetCursor(cursor)
	return true
}

func (l *Jumplist) height() int {
	n := max(len(l.entries), 1)
	if l.cfg.MaxHeight > 0 {
		n = min(n, l.cfg.MaxHeight)
	}
	return n
}

// draw renders the collected entries into the surface and swaps in the
// new line map. A failed render tears the window down.
func (l *Jumplist) draw() (*Rendering, bool) {
	r, err := l.Render()
	if err != nil {
		l.log.Error(err, "jumplist render failed")
		l.close(0)
		return nil, false
	}

	l.surface.ClearHighlights(l.scope)
	l.surface.SetLines(r.Lines)
	for _, hl := range r.Highlights {
		l.surface.AddHighlight(l.scope, hl)
	}
	l.lineMap = r.Map
	return r, true
}

// Render formats the collected entries without displaying them
func (l *Jumplist) Render() (*Rendering, error) {
	return Render(l.entries, l.formatter, l.ctx, l.cfg)
}

// GetCount returns the number of listed entries and how many pages of
// MaxHeight lines they fill
func (l *Jumplist) GetCount() (visible, pages int) {
	visible = len(l.entries)
	if visible == 0 {
		return 0, 0
	}
	if l.cfg.MaxHeight <= 0 {
		return visible, 1
	}
	return visible, (visible + l.cfg.MaxHeight - 1) / l.cfg.MaxHeight
}

// Entries returns the last collected entries
func (l *Jumplist) Entries() []Jump {
	return l.entries
}

// LineMap returns the map of the current render, nil when closed
func (l *Jumplist) LineMap() LineMap {
	return l.lineMap
}

// IsOpen reports whether the list window is shown
func (l *Jumplist) IsOpen() bool {
	return l.surface != nil
}

// Origin is the window the list was opened from
func (l *Jumplist) Origin() host.WindowID {
	return l.origin
}

// Keymap returns the key symbol to action table
func (l *Jumplist) Keymap() map[string]Action {
	return l.keymap
}

// HandleKey dispatches a key pressed in the list window. count is the
// pending repeat count, 0 when none was typed.
func (l *Jumplist) HandleKey(key string, count int) (bool, error) {
	a, ok := l.keymap[key]
	if !ok {
		return false, nil
	}
	return true, l.Dispatch(a, count)
}

// Dispatch runs a named action
func (l *Jumplist) Dispatch(a Action, count int) error {
	fn, ok := actions[a]
	if !ok {
		return nil
	}
	if !l.IsOpen() && a != ActionClose {
		return nil
	}
	return fn(l, count)
}

func (l *Jumplist) cursorEntry() (Jump, bool) {
	return l.lineMap.Lookup(l.surface.Cursor())
}

func (l *Jumplist) close(int) error {
	if l.surface == nil {
		return nil
	}
	l.app.CloseWindow()
	l.surface = nil
	l.lineMap = nil
	return nil
}

func (l *Jumplist) jump(int) error {
	j, ok := l.cursorEntry()
	if !ok {
		return nil
	}

	l.close(0)

	var err error
	if j.Rel == 0 {
		err = l.host.Goto(l.origin, j.Buf, j.Line, j.Col)
	} else {
		dir := host.Back
		if j.Rel > 0 {
			dir = host.Forward
		}
		err = l.host.Traverse(l.origin, dir, abs(j.Rel))
	}
	if err != nil {
		return err
	}

	if l.onJump != nil {
		l.onJump(j)
	}
	if l.cfg.HighlightOnJump {
		if d := l.cfg.FlashDuration(); d > 0 {
			l.host.FlashCursorLine(l.origin, d)
		}
	}
	return nil
}

func (l *Jumplist) clear(int) error {
	if _, ok := l.cursorEntry(); !ok {
		return nil
	}
	line := l.surface.Cursor()

	if err := l.host.ClearJumps(l.origin); err != nil {
		return err
	}
	return l.refresh(line)
}

// refresh re-collects and re-renders in place, keeping the cursor on the
// same line number (clamped to the new length)
func (l *Jumplist) refresh(line int) error {
	l.collect()
	r, ok := l.draw()
	if !ok {
		return nil
	}
	l.surface.SetCursor(min(max(line, 1), len(r.Lines)))
	return nil
}

func (l *Jumplist) passthrough(dir host.Direction, count int) error {
	if count <= 0 {
		count = 1
	}

	if !l.cfg.RealPositions {
		res := RealCount(l.lineMap.Ordered(), dir, count)
		if !res.OK() {
			logger.Warn(l.log, res.Err.Error())
			return nil
		}
		count = res.Count
	}

	l.close(0)
	// replayed against the origin: on the list surface it would record a jump
	return l.host.Traverse(l.origin, dir, count)
}
