package jump

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Stats are column measurements over one render's entries.
// Built once per render and handed to the formatter.
type Stats struct {
	MaxPos  int
	MaxLine int
	MaxCol  int
	MaxRel  int // largest |Rel|
	// MaxBase is the widest basename in terminal cells
	MaxBase int
	// MaxUnique is the widest shortest-unique suffix in terminal cells
	MaxUnique int
	// Unique maps every path to its shortest unique trailing segment
	Unique map[string]string
	// Index maps Pos to the entry's place in the list (0-based)
	Index map[int]int
	// CurrentIndex is the place of the current entry, -1 when absent
	CurrentIndex int
}

// ComputeStats measures entries
func ComputeStats(entries []Jump) *Stats {
	st := &Stats{
		Index:        make(map[int]int, len(entries)),
		CurrentIndex: -1,
	}

	paths := make([]string, 0, len(entries))
	for i, j := range entries {
		st.MaxPos = max(st.MaxPos, j.Pos)
		st.MaxLine = max(st.MaxLine, j.Line)
		st.MaxCol = max(st.MaxCol, j.Col)
		st.MaxRel = max(st.MaxRel, abs(j.Rel))
		st.MaxBase = max(st.MaxBase, runewidth.StringWidth(basename(j.Path)))
		st.Index[j.Pos] = i
		if j.Current {
			st.CurrentIndex = i
		}
		paths = append(paths, j.Path)
	}

	st.Unique = UniqueSuffixes(paths)
	for _, s := range st.Unique {
		st.MaxUnique = max(st.MaxUnique, runewidth.StringWidth(s))
	}
	return st
}

// Distance is the number of list places between j and the current entry
func (st *Stats) Distance(j Jump) int {
	i, ok := st.Index[j.Pos]
	if !ok || st.CurrentIndex < 0 {
		return abs(j.Rel)
	}
	return abs(i - st.CurrentIndex)
}

// Digits is the printed width of n
func Digits(n int) int {
	return len(strconv.Itoa(n))
}

func basename(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func splitPath(path string) []string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func suffix(parts []string, n int) string {
	if n >= len(parts) {
		return strings.Join(parts, "/")
	}
	return strings.Join(parts[len(parts)-n:], "/")
}

// UniqueSuffixes finds, for each distinct path, the fewest trailing path
// components that no other path in the set ends with. A path that is
// itself a suffix of another keeps its full form.
func UniqueSuffixes(paths []string) map[string]string {
	seen := make(map[string]bool, len(paths))
	distinct := make([]string, 0, len(paths))
	for _, p := range paths {
		if !seen[p] {
			seen[p] = true
			distinct = append(distinct, p)
		}
	}

	split := make([][]string, len(distinct))
	for i, p := range distinct {
		split[i] = splitPath(p)
	}

	out := make(map[string]string, len(distinct))
	for i, p := range distinct {
		parts := split[i]
		short := p
		for n := 1; n <= len(parts); n++ {
			candidate := suffix(parts, n)
			clash := false
			for k := range distinct {
				if k != i && suffix(split[k], n) == candidate {
					clash = true
					break
				}
			}
			if !clash {
				short = candidate
				break
			}
		}
		out[p] = short
	}
	return out
}
