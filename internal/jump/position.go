package jump

import (
	"fmt"

	"github.com/TimelordUK/jumplist/internal/host"
)

// Position is the translated place of one raw stack item
type Position struct {
	Pos     int
	Rel     int
	Current bool
}

// currentMarker is the Pos value considered current for a stack of
// total items with the editor's position index at pos
func currentMarker(total, pos int) int {
	return max(total-pos, 1)
}

// Translate converts raw index i (1-based, oldest first) of a stack of
// total items into its absolute position and relative offset.
// pos == total means the window has not traversed and sits past the end.
func Translate(i, total, pos int) Position {
	p := total - i + 1
	marker := currentMarker(total, pos)

	rel := marker - p
	if pos == total {
		rel = -p
	}

	return Position{Pos: p, Rel: rel, Current: p == marker}
}

// OutOfBoundError reports a traversal count that leaves the displayed list
type OutOfBoundError struct {
	Dir    host.Direction
	Count  int
	Target int
	Lines  int
}

func (e *OutOfBoundError) Error() string {
	if e.Lines == 0 {
		return "Out of bound: empty list"
	}
	return fmt.Sprintf("Out of bound: %s %d reaches line %d of %d", e.Dir, e.Count, e.Target, e.Lines)
}

// CountResult is the outcome of RealCount
type CountResult struct {
	Count int
	Err   *OutOfBoundError
}

// OK reports whether a count was resolved
func (r CountResult) OK() bool {
	return r.Err == nil
}

// RealCount translates a count of n displayed lines in direction dir into
// the raw traversal count the editor needs. lines is the displayed order,
// most recent first, so going back moves down the list.
func RealCount(lines []Jump, dir host.Direction, n int) CountResult {
	cur := 0
	for i, j := range lines {
		if j.Current {
			cur = i + 1
			break
		}
	}

	// host.Back walks toward older entries, which sit lower in the list;
	// host.Forward walks toward newer ones above the current line
	target := cur + n
	if dir == host.Forward {
		target = cur - n
	}

	if cur == 0 || target < 1 || target > len(lines) {
		return CountResult{Err: &OutOfBoundError{Dir: dir, Count: n, Target: target, Lines: len(lines)}}
	}
	return CountResult{Count: abs(lines[target-1].Rel)}
}
