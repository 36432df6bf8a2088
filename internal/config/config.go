package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Theme       ThemeConfig      `toml:"theme"`
	Keybindings KeybindingConfig `toml:"keybindings"`
	Display     DisplayConfig    `toml:"display"`
	Jumplist    Jumplist         `toml:"jumplist"`
	Log         LogConfig        `toml:"log"`
}

// ThemeConfig defines color schemes
type ThemeConfig struct {
	Name          string     `toml:"name"`
	Syntax        string     `toml:"syntax"`
	LineNumbers   string     `toml:"line_numbers"`
	CursorLine    string     `toml:"cursor_line"`
	StatusBar     string     `toml:"status_bar"`
	StatusBarText string     `toml:"status_bar_text"`
	FlashLine     string     `toml:"flash_line"`
	Border        string     `toml:"border"`
	List          ListColors `toml:"list"`
}

// ListColors are the colors of the jump list highlight groups
type ListColors struct {
	Current  string `toml:"current"`
	Relative string `toml:"relative"`
	Path     string `toml:"path"`
	Location string `toml:"location"`
	Keyword  string `toml:"keyword"`
	String   string `toml:"string"`
	Comment  string `toml:"comment"`
	Number   string `toml:"number"`
	Empty    string `toml:"empty"`
}

// KeybindingConfig allows customizing the editor pane keys
type KeybindingConfig struct {
	Quit       []string `toml:"quit"`
	Up         []string `toml:"up"`
	Down       []string `toml:"down"`
	Top        []string `toml:"top"`
	Bottom     []string `toml:"bottom"`
	NextBuffer []string `toml:"next_buffer"`
	JumpBack   []string `toml:"jump_back"`
	JumpFwd    []string `toml:"jump_forward"`
	OpenList   []string `toml:"open_list"`
	NextWindow []string `toml:"next_window"`
	Reload     []string `toml:"reload"`
}

// DisplayConfig holds editor pane display options
type DisplayConfig struct {
	ShowLineNumbers bool `toml:"show_line_numbers"`
	TabWidth        int  `toml:"tab_width"`
	SyntaxHighlight bool `toml:"syntax_highlight"`
}

// Jumplist configures the jump list view
type Jumplist struct {
	Keys              JumplistKeys `toml:"keys"`
	RealPositions     bool         `toml:"real_positions"`
	EmptyMessage      string       `toml:"empty_message"`
	HighlightOnJump   bool         `toml:"highlight_on_jump"`
	HighlightDuration string       `toml:"highlight_duration"`
	MaxHeight         int          `toml:"max_height"`
	Filter            string       `toml:"filter"`
	FilterExpr        string       `toml:"filter_expr"`
	Formatter         FormatConfig `toml:"formatter"`
}

// JumplistKeys are the key symbols bound inside the list window.
// Back and Forward double as the symbols whose direction they replay.
type JumplistKeys struct {
	Close   []string `toml:"close"`
	Clear   []string `toml:"clear"`
	Jump    []string `toml:"jump"`
	Back    []string `toml:"back"`
	Forward []string `toml:"forward"`
}

// FormatConfig tunes the builtin line formatter
type FormatConfig struct {
	ShowSource  bool `toml:"show_source"`
	SyntaxSpans bool `toml:"syntax_spans"`
	UniquePaths bool `toml:"unique_paths"`
}

// LogConfig controls where the TUI writes its log
type LogConfig struct {
	File  string `toml:"file"`
	Level int8   `toml:"level"`
}

// Builtin filter names
const (
	FilterAll    = "all"
	FilterBuffer = "buffer"
	FilterCwd    = "cwd"
)

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Name:          "subtle",
			Syntax:        "monokai",
			LineNumbers:   "240", // Dark gray
			CursorLine:    "237",
			StatusBar:     "236",
			StatusBarText: "252",
			FlashLine:     "58",
			Border:        "244",
			List: ListColors{
				Current:  "214", // Orange
				Relative: "110",
				Path:     "109",
				Location: "246",
				Keyword:  "175",
				String:   "150",
				Comment:  "242",
				Number:   "173",
				Empty:    "240",
			},
		},
		Keybindings: KeybindingConfig{
			Quit:       []string{"q", "ctrl+c"},
			Up:         []string{"k", "up"},
			Down:       []string{"j", "down"},
			Top:        []string{"g"},
			Bottom:     []string{"G"},
			NextBuffer: []string{"]"},
			JumpBack:   []string{"ctrl+o"},
			JumpFwd:    []string{"tab", "ctrl+i"},
			OpenList:   []string{"J"},
			NextWindow: []string{"ctrl+w"},
			Reload:     []string{"ctrl+l"},
		},
		Display: DisplayConfig{
			ShowLineNumbers: true,
			TabWidth:        4,
			SyntaxHighlight: true,
		},
		Jumplist: DefaultJumplist(),
	}
}

// DefaultJumplist returns the default list view settings
func DefaultJumplist() Jumplist {
	return Jumplist{
		Keys: JumplistKeys{
			Close:   []string{"q", "esc"},
			Clear:   []string{"C"},
			Jump:    []string{"enter", "o"},
			Back:    []string{"ctrl+o"},
			Forward: []string{"tab", "ctrl+i"},
		},
		RealPositions:     false,
		EmptyMessage:      "No jumps",
		HighlightOnJump:   true,
		HighlightDuration: "300ms",
		MaxHeight:         10,
		Filter:            FilterAll,
		Formatter: FormatConfig{
			ShowSource:  true,
			SyntaxSpans: true,
			UniquePaths: true,
		},
	}
}

// FlashDuration parses HighlightDuration. Zero disables the flash.
func (j *Jumplist) FlashDuration() time.Duration {
	d, err := time.ParseDuration(j.HighlightDuration)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// Validate reports settings that cannot be used
func (c *Config) Validate() error {
	j := &c.Jumplist
	if j.HighlightDuration != "" {
		if _, err := time.ParseDuration(j.HighlightDuration); err != nil {
			return fmt.Errorf("jumplist.highlight_duration: %w", err)
		}
	}
	switch j.Filter {
	case "", FilterAll, FilterBuffer, FilterCwd:
	default:
		return fmt.Errorf("jumplist.filter: unknown filter %q", j.Filter)
	}
	if j.MaxHeight < 0 {
		return fmt.Errorf("jumplist.max_height: must not be negative, got %d", j.MaxHeight)
	}
	return nil
}

// Load loads config from the default path, falling back to defaults
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads config from path over the defaults.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save saves config to the default path
func Save(cfg *Config) error {
	return SaveTo(cfg, getConfigPath())
}

// SaveTo writes cfg as toml to path
func SaveTo(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Marshal encodes cfg as toml
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jumplist", "config.toml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "jumplist", "config.toml")
}

// GetConfigPath exports the config path for user reference
func GetConfigPath() string {
	return getConfigPath()
}

// DefaultLogPath is where the TUI logs when no file is configured
func DefaultLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "jumplist", "jumplist.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "jumplist.log")
	}
	return filepath.Join(home, ".local", "state", "jumplist", "jumplist.log")
}
