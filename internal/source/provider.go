package source

// Line is one line of buffer text
type Line struct {
	Content []byte
	Index   int // 0-based line number in the buffer
}

// LineProvider is the core abstraction for reading buffer text.
// The editor and the viewport only interact with this interface.
type LineProvider interface {
	// LineCount returns total number of lines
	LineCount() int

	// GetLine returns line at index (0-based), nil when out of range
	GetLine(index int) (*Line, error)

	// GetLines returns a range of lines efficiently
	GetLines(start, count int) ([]*Line, error)
}

// Closer is implemented by providers that hold OS resources
type Closer interface {
	Close() error
}
