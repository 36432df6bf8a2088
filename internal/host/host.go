// Package host describes what the jump list needs from the editor it is
// embedded in. Implementations live elsewhere (internal/editor, internal/ui).
package host

import "time"

// WindowID identifies an editor window
type WindowID int

// BufferID identifies an editor buffer
type BufferID int

// RawJump is one item of a window's jump stack as the editor stores it
type RawJump struct {
	Buf  BufferID
	Line int // 1-based
	Col  int // 0-based
}

// Direction of a raw traversal command
type Direction int

const (
	// Back moves toward older jumps (ctrl+o)
	Back Direction = iota
	// Forward moves toward newer jumps (tab)
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "back"
}

// JumpSource exposes a window's jump stack.
// Jumps are ordered oldest first; pos == len(jumps) means no traversal
// has happened and the window sits past the end of the stack.
type JumpSource interface {
	JumpList(win WindowID) (jumps []RawJump, pos int)
}

// BufferReader resolves buffer paths and text
type BufferReader interface {
	// BufferPath returns the buffer's path, "" when the buffer no longer exists
	BufferPath(buf BufferID) string
	// BufferLine returns the text of a 1-based line; ok is false when out of bounds
	BufferLine(buf BufferID, line int) (text string, ok bool)
}

// Navigator moves a window around
type Navigator interface {
	// Goto makes buf current in win and places the cursor at (line, col)
	Goto(win WindowID, buf BufferID, line, col int) error
	// Traverse replays count raw back/forward commands against win
	Traverse(win WindowID, dir Direction, count int) error
	// ClearJumps clears the whole jump stack of win
	ClearJumps(win WindowID) error
	// FlashCursorLine highlights the cursor line of win for d
	FlashCursorLine(win WindowID, d time.Duration)
}

// Host is everything the jump list consumes from the editor
type Host interface {
	JumpSource
	BufferReader
	Navigator
	// CurrentWindow is the window that has focus
	CurrentWindow() WindowID
	// WindowBuffer is the buffer shown in win
	WindowBuffer(win WindowID) BufferID
	// Cwd is the editor's working directory
	Cwd() string
}

// Scope is an opaque, caller-owned handle grouping highlights so a render
// can clear exactly what it added before
type Scope int

// Highlight colors byte columns [Start, End) of a 1-based line with Group.
// End < 0 means to the end of the line.
type Highlight struct {
	Line  int
	Group string
	Start int
	End   int
}

// Surface is a display area owned by a WindowController
type Surface interface {
	SetLines(lines []string)
	LineCount() int
	ClearHighlights(scope Scope)
	AddHighlight(scope Scope, hl Highlight)
	// Cursor returns the 1-based cursor line
	Cursor() int
	SetCursor(line int)
}

// ViewSpec describes the window a view wants
type ViewSpec struct {
	Title  string
	Height int
}

// WindowController owns the lifecycle of floating display surfaces
type WindowController interface {
	OpenWindow(spec ViewSpec) (Surface, bool)
	CloseWindow()
}
