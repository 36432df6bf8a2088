// Package session loads an editor state (buffers, windows and their jump
// stacks) from a yaml file.
package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/TimelordUK/jumplist/internal/editor"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/source"
)

// Session is the yaml document
type Session struct {
	Cwd     string   `yaml:"cwd"`
	Buffers []Buffer `yaml:"buffers"`
	Windows []Window `yaml:"windows"`
	// Focus is the index of the focused window
	Focus int `yaml:"focus"`
}

// Buffer is either file backed (Path) or inline (Lines or Text)
type Buffer struct {
	Name  string   `yaml:"name"`
	Path  string   `yaml:"path"`
	Lines []string `yaml:"lines"`
	Text  string   `yaml:"text"`
	// Wiped buffers are created then removed, leaving dangling jumps
	Wiped bool `yaml:"wiped"`
}

// Window is one editor window
type Window struct {
	Buffer string `yaml:"buffer"`
	Line   int    `yaml:"line"`
	Col    int    `yaml:"col"`
	Jumps  []Jump `yaml:"jumps"`
	// Position is the stack index; omitted means past the end
	Position *int `yaml:"position"`
}

// Jump is one jump stack item
type Jump struct {
	Buffer string `yaml:"buffer"`
	Line   int    `yaml:"line"`
	Col    int    `yaml:"col"`
}

// Load reads and parses a session file
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Cwd == "" {
		if s.Cwd, err = filepath.Abs(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Parse decodes a session document and checks its references
func Parse(data []byte) (*Session, error) {
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Session) validate() error {
	names := make(map[string]bool, len(s.Buffers))
	for i, b := range s.Buffers {
		if b.Name == "" {
			return fmt.Errorf("buffers[%d]: missing name", i)
		}
		if names[b.Name] {
			return fmt.Errorf("buffers[%d]: duplicate name %q", i, b.Name)
		}
		names[b.Name] = true
	}

	if len(s.Windows) == 0 {
		return fmt.Errorf("no windows")
	}
	for i, w := range s.Windows {
		if !names[w.Buffer] {
			return fmt.Errorf("windows[%d]: unknown buffer %q", i, w.Buffer)
		}
		for k, j := range w.Jumps {
			if !names[j.Buffer] {
				return fmt.Errorf("windows[%d].jumps[%d]: unknown buffer %q", i, k, j.Buffer)
			}
		}
	}
	if s.Focus < 0 || s.Focus >= len(s.Windows) {
		return fmt.Errorf("focus %d: out of range", s.Focus)
	}
	return nil
}

// Build creates an editor holding the session. Relative buffer paths are
// resolved against Cwd.
func (s *Session) Build(opts ...editor.Option) (*editor.Editor, error) {
	ed := editor.New(s.Cwd, opts...)
	ids := make(map[string]host.BufferID, len(s.Buffers))

	for _, b := range s.Buffers {
		id, err := s.addBuffer(ed, b)
		if err != nil {
			ed.Close()
			return nil, err
		}
		ids[b.Name] = id
	}

	wins := make([]host.WindowID, len(s.Windows))
	for i, w := range s.Windows {
		win, err := ed.NewWindow(ids[w.Buffer])
		if err != nil {
			ed.Close()
			return nil, fmt.Errorf("windows[%d]: %w", i, err)
		}
		wins[i] = win
		if err := ed.SetCursor(win, max(w.Line, 1), w.Col); err != nil {
			ed.Close()
			return nil, err
		}

		jumps := make([]host.RawJump, len(w.Jumps))
		for k, j := range w.Jumps {
			jumps[k] = host.RawJump{Buf: ids[j.Buffer], Line: j.Line, Col: j.Col}
		}
		pos := len(jumps)
		if w.Position != nil {
			pos = *w.Position
		}
		if err := ed.SetJumps(win, jumps, pos); err != nil {
			ed.Close()
			return nil, err
		}
	}

	// wiped last so windows could be opened on them
	for _, b := range s.Buffers {
		if b.Wiped {
			if err := ed.WipeBuffer(ids[b.Name]); err != nil {
				ed.Close()
				return nil, err
			}
		}
	}

	if err := ed.Focus(wins[s.Focus]); err != nil {
		ed.Close()
		return nil, err
	}
	return ed, nil
}

func (s *Session) addBuffer(ed *editor.Editor, b Buffer) (host.BufferID, error) {
	switch {
	case b.Path != "":
		path := b.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.Cwd, path)
		}
		return ed.OpenFile(path)
	case b.Lines != nil:
		return ed.AddScratch(s.scratchPath(b.Name), b.Lines), nil
	default:
		return ed.AddBuffer(s.scratchPath(b.Name), source.NewMemorySourceFromText(b.Text)), nil
	}
}

// scratchPath gives inline buffers a path under cwd so path based
// filters treat them like files
func (s *Session) scratchPath(name string) string {
	if filepath.IsAbs(name) || s.Cwd == "" {
		return name
	}
	return filepath.Join(s.Cwd, name)
}
