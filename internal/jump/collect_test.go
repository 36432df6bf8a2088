package jump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TimelordUK/jumplist/internal/host"
)

func collectAll(h *fakeHost, f Filter) []Jump {
	ctx := Context{Win: h.win, Buf: h.winBuf, Path: h.paths[h.winBuf], Cwd: h.cwd}
	return Collect(h.jumps, h.pos, h, f, ctx)
}

func TestCollectScenario(t *testing.T) {
	h := newFakeHost()
	stack(h, rj(1, 10, 0), rj(2, 20, 0), rj(1, 30, 0))

	got := collectAll(h, All)
	require.Len(t, got, 3)

	assert.Equal(t, Jump{Current: true, Pos: 1, Rel: -1, Buf: 1, Path: "/src/buf1.go", Line: 30, Text: "/src/buf1.go line"}, got[0])
	assert.Equal(t, 2, got[1].Pos)
	assert.Equal(t, -2, got[1].Rel)
	assert.Equal(t, host.BufferID(2), got[1].Buf)
	assert.Equal(t, 20, got[1].Line)
	assert.Equal(t, 3, got[2].Pos)
	assert.Equal(t, -3, got[2].Rel)
	assert.Equal(t, 10, got[2].Line)
}

func TestCollectOrderingAndUniqueness(t *testing.T) {
	h := newFakeHost()
	stack(h, rj(1, 1, 0), rj(2, 2, 0), rj(3, 3, 0), rj(1, 4, 0), rj(2, 5, 0))
	h.pos = 2

	got := collectAll(h, All)
	require.Len(t, got, 5)
	current := 0
	for i := range got {
		if got[i].Current {
			current++
		}
		if i > 0 {
			assert.Less(t, got[i-1].Pos, got[i].Pos)
		}
	}
	assert.Equal(t, 1, current)
}

func TestCollectFilterKeepsCurrent(t *testing.T) {
	notBuf2 := FilterFunc(func(j Jump, _ Context) bool { return j.Buf != 2 })

	t.Run("buf2 not current is dropped", func(t *testing.T) {
		h := newFakeHost()
		stack(h, rj(1, 10, 0), rj(2, 20, 0), rj(1, 30, 0))

		got := collectAll(h, notBuf2)
		require.Len(t, got, 2)
		for _, j := range got {
			assert.NotEqual(t, host.BufferID(2), j.Buf)
		}
	})

	t.Run("buf2 current is kept", func(t *testing.T) {
		h := newFakeHost()
		stack(h, rj(1, 10, 0), rj(2, 20, 0), rj(1, 30, 0))
		h.pos = 1 // current is the buf2 entry

		got := collectAll(h, notBuf2)
		require.Len(t, got, 3)
		assert.True(t, got[1].Current)
		assert.Equal(t, host.BufferID(2), got[1].Buf)
		assert.Equal(t, 0, got[1].Rel)
	})
}

func TestCollectDropsUnresolvable(t *testing.T) {
	t.Run("wiped buffer", func(t *testing.T) {
		h := newFakeHost()
		stack(h, rj(1, 10, 0), rj(2, 20, 0))
		h.paths[2] = ""

		got := collectAll(h, All)
		require.Len(t, got, 1)
		assert.Equal(t, host.BufferID(1), got[0].Buf)
		assert.Equal(t, 2, got[0].Pos, "positions are not renumbered")
	})

	t.Run("line past end of buffer", func(t *testing.T) {
		h := newFakeHost()
		stack(h, rj(1, 10, 0), rj(1, 500, 0))

		got := collectAll(h, All)
		require.Len(t, got, 1)
		assert.Equal(t, 10, got[0].Line)
	})

	t.Run("current entry with missing line is dropped too", func(t *testing.T) {
		h := newFakeHost()
		stack(h, rj(1, 10, 0), rj(1, 500, 0))
		h.pos = 1

		got := collectAll(h, All)
		require.Len(t, got, 1)
		assert.False(t, got[0].Current)
	})
}

func TestCollectEmpty(t *testing.T) {
	h := newFakeHost()
	got := collectAll(h, All)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollectIdempotent(t *testing.T) {
	h := newFakeHost()
	stack(h, rj(1, 10, 2), rj(2, 20, 0), rj(3, 30, 1))
	assert.Equal(t, collectAll(h, All), collectAll(h, All))
}
