package jump

import (
	"sort"

	"github.com/TimelordUK/jumplist/internal/host"
)

// Collect builds the entry set for a raw jump stack.
//
// Entries whose buffer is gone or whose line no longer exists are dropped,
// the current entry included. Entries failing filter are dropped unless
// they are current. The result is most recent first.
func Collect(raw []host.RawJump, pos int, buffers host.BufferReader, filter Filter, ctx Context) []Jump {
	total := len(raw)
	jumps := make([]Jump, 0, total)

	for i, r := range raw {
		p := Translate(i+1, total, pos)

		path := buffers.BufferPath(r.Buf)
		if path == "" {
			continue
		}

		text, ok := buffers.BufferLine(r.Buf, r.Line)
		if !ok {
			continue
		}

		j := Jump{
			Current: p.Current,
			Pos:     p.Pos,
			Rel:     p.Rel,
			Buf:     r.Buf,
			Path:    path,
			Line:    r.Line,
			Col:     r.Col,
			Text:    text,
		}

		if filter != nil && !j.Current && !filter.Keep(j, ctx) {
			continue
		}
		jumps = append(jumps, j)
	}

	sort.SliceStable(jumps, func(a, b int) bool {
		return jumps[a].Pos < jumps[b].Pos
	})
	return jumps
}
