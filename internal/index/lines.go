package index

import (
	"bytes"

	jlio "github.com/TimelordUK/jumplist/internal/io"
)

const chunkSize = 64 * 1024

// LineIndex stores the byte offset of every line start in a mapped file
type LineIndex struct {
	offsets []int64
	file    *jlio.MappedFile
}

// BuildLineIndex scans the file once and records line starts
func BuildLineIndex(file *jlio.MappedFile) (*LineIndex, error) {
	idx := &LineIndex{file: file}
	if err := idx.Rebuild(); err != nil {
		return nil, err
	}
	return idx, nil
}

// Rebuild rescans the whole file, used after the mapping was reloaded
func (idx *LineIndex) Rebuild() error {
	size := idx.file.Size()
	if size == 0 {
		// an empty file still shows one empty line
		idx.offsets = []int64{0}
		return nil
	}

	// ~100 bytes per line is a reasonable guess for source files
	offsets := make([]int64, 0, int(size/100)+1)
	offsets = append(offsets, 0)

	buf := make([]byte, chunkSize)
	var pos int64
	for pos < size {
		n := chunkSize
		if pos+int64(n) > size {
			n = int(size - pos)
		}

		read, err := idx.file.ReadAt(buf[:n], pos)
		if err != nil {
			return err
		}

		chunk := buf[:read]
		for off := 0; ; {
			nl := bytes.IndexByte(chunk[off:], '\n')
			if nl == -1 {
				break
			}
			start := pos + int64(off+nl+1)
			if start < size {
				offsets = append(offsets, start)
			}
			off += nl + 1
		}

		pos += int64(read)
	}

	idx.offsets = offsets
	return nil
}

// LineCount returns the number of lines
func (idx *LineIndex) LineCount() int {
	return len(idx.offsets)
}

// GetLine returns line n (0-based) without its line terminator.
// Returns nil, nil when n is out of range.
func (idx *LineIndex) GetLine(n int) ([]byte, error) {
	if n < 0 || n >= len(idx.offsets) {
		return nil, nil
	}

	start := idx.offsets[n]
	end := idx.file.Size()
	if n+1 < len(idx.offsets) {
		end = idx.offsets[n+1]
	}

	content, err := idx.file.ReadRange(start, end)
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(content, "\r\n"), nil
}

// GetLines returns up to count lines starting at start
func (idx *LineIndex) GetLines(start, count int) ([][]byte, error) {
	if start < 0 {
		start = 0
	}
	if start >= len(idx.offsets) {
		return nil, nil
	}
	if start+count > len(idx.offsets) {
		count = len(idx.offsets) - start
	}

	lines := make([][]byte, count)
	for i := range lines {
		line, err := idx.GetLine(start + i)
		if err != nil {
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}
