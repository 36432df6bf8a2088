// Package jump rebuilds an editor window's jump stack into a filtered,
// most-recent-first list, renders it, and maps rendered lines back to entries.
package jump

import "github.com/TimelordUK/jumplist/internal/host"

// Jump is one navigation history entry with its computed position metadata
type Jump struct {
	Current bool
	// Pos is the 1-based distance from the most recent end of the stack.
	// It does not change when other entries are filtered out.
	Pos int
	// Rel is the signed step count from the window's present stack location:
	// negative is back, positive is forward.
	Rel  int
	Buf  host.BufferID
	Path string
	Line int
	Col  int
	Text string
}

// Context is ambient editor state handed to filters and formatters
type Context struct {
	Win  host.WindowID
	Buf  host.BufferID
	Path string
	Cwd  string
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
