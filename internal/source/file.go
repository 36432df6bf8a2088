package source

import (
	"github.com/TimelordUK/jumplist/internal/index"
	jlio "github.com/TimelordUK/jumplist/internal/io"
)

// FileSource provides lines from a file on disk
type FileSource struct {
	file      *jlio.MappedFile
	lineIndex *index.LineIndex
	path      string
}

// NewFileSource maps and indexes the file at path
func NewFileSource(path string) (*FileSource, error) {
	file, err := jlio.OpenMapped(path)
	if err != nil {
		return nil, err
	}

	lineIndex, err := index.BuildLineIndex(file)
	if err != nil {
		file.Close()
		return nil, err
	}

	return &FileSource{
		file:      file,
		lineIndex: lineIndex,
		path:      path,
	}, nil
}

// LineCount returns total number of lines
func (s *FileSource) LineCount() int {
	return s.lineIndex.LineCount()
}

// GetLine returns line at index
func (s *FileSource) GetLine(idx int) (*Line, error) {
	content, err := s.lineIndex.GetLine(idx)
	if err != nil || content == nil {
		return nil, err
	}
	return &Line{Content: content, Index: idx}, nil
}

// GetLines returns a range of lines
func (s *FileSource) GetLines(start, count int) ([]*Line, error) {
	raw, err := s.lineIndex.GetLines(start, count)
	if err != nil {
		return nil, err
	}

	lines := make([]*Line, len(raw))
	for i, content := range raw {
		lines[i] = &Line{Content: content, Index: start + i}
	}
	return lines, nil
}

// Path returns the file path
func (s *FileSource) Path() string {
	return s.path
}

// Close releases the mapping
func (s *FileSource) Close() error {
	return s.file.Close()
}

// Reload picks up on-disk changes. Returns true when the content was re-indexed.
func (s *FileSource) Reload() (bool, error) {
	changed, err := s.file.Reload()
	if err != nil || !changed {
		return false, err
	}
	if err := s.lineIndex.Rebuild(); err != nil {
		return false, err
	}
	return true, nil
}
