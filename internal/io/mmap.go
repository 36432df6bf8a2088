package io

import (
	"os"
	"time"

	"golang.org/x/exp/mmap"
)

// MappedFile gives read-only, memory-mapped access to a buffer's backing file
type MappedFile struct {
	reader  *mmap.ReaderAt
	size    int64
	modTime time.Time
	path    string
}

// OpenMapped maps the file at path
func OpenMapped(path string) (*MappedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	return &MappedFile{
		reader:  reader,
		size:    info.Size(),
		modTime: info.ModTime(),
		path:    path,
	}, nil
}

// ReadAt reads len(p) bytes at offset
func (m *MappedFile) ReadAt(p []byte, off int64) (int, error) {
	return m.reader.ReadAt(p, off)
}

// Size returns the mapped size
func (m *MappedFile) Size() int64 {
	return m.size
}

// Path returns the file path
func (m *MappedFile) Path() string {
	return m.path
}

// Close unmaps the file
func (m *MappedFile) Close() error {
	return m.reader.Close()
}

// Reload remaps the file when its size or modification time changed on disk.
// Returns true when the mapping was replaced.
func (m *MappedFile) Reload() (bool, error) {
	info, err := os.Stat(m.path)
	if err != nil {
		return false, err
	}

	if info.Size() == m.size && info.ModTime().Equal(m.modTime) {
		return false, nil
	}

	reader, err := mmap.Open(m.path)
	if err != nil {
		return false, err
	}

	m.reader.Close()
	m.reader = reader
	m.size = info.Size()
	m.modTime = info.ModTime()
	return true, nil
}

// ReadRange reads bytes in [start, end)
func (m *MappedFile) ReadRange(start, end int64) ([]byte, error) {
	if end > m.size {
		end = m.size
	}
	if start >= end {
		return nil, nil
	}

	buf := make([]byte, end-start)
	if _, err := m.reader.ReadAt(buf, start); err != nil {
		return nil, err
	}
	return buf, nil
}
