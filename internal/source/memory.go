package source

import "strings"

// MemorySource holds buffer text that has no backing file (scratch buffers, tests)
type MemorySource struct {
	lines [][]byte
}

// NewMemorySource creates a source from lines
func NewMemorySource(lines []string) *MemorySource {
	m := &MemorySource{lines: make([][]byte, len(lines))}
	for i, l := range lines {
		m.lines[i] = []byte(l)
	}
	if len(m.lines) == 0 {
		m.lines = [][]byte{{}}
	}
	return m
}

// NewMemorySourceFromText splits text on newlines
func NewMemorySourceFromText(text string) *MemorySource {
	text = strings.TrimSuffix(text, "\n")
	return NewMemorySource(strings.Split(text, "\n"))
}

// LineCount returns total number of lines
func (m *MemorySource) LineCount() int {
	return len(m.lines)
}

// GetLine returns line at index
func (m *MemorySource) GetLine(idx int) (*Line, error) {
	if idx < 0 || idx >= len(m.lines) {
		return nil, nil
	}
	return &Line{Content: m.lines[idx], Index: idx}, nil
}

// GetLines returns a range of lines
func (m *MemorySource) GetLines(start, count int) ([]*Line, error) {
	if start < 0 {
		start = 0
	}
	var lines []*Line
	for i := start; i < start+count && i < len(m.lines); i++ {
		lines = append(lines, &Line{Content: m.lines[i], Index: i})
	}
	return lines, nil
}
