package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/TimelordUK/jumplist/internal/config"
)

// KeyMap holds the editor pane bindings
type KeyMap struct {
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	NextBuffer key.Binding
	NextWindow key.Binding
	JumpBack   key.Binding
	JumpFwd    key.Binding
	OpenList   key.Binding
	Reload     key.Binding
}

func binding(keys []string, desc string) key.Binding {
	help := ""
	if len(keys) > 0 {
		help = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// NewKeyMap builds the bindings from config
func NewKeyMap(kb config.KeybindingConfig) KeyMap {
	return KeyMap{
		Quit:       binding(kb.Quit, "quit"),
		Up:         binding(kb.Up, "up"),
		Down:       binding(kb.Down, "down"),
		Top:        binding(kb.Top, "top"),
		Bottom:     binding(kb.Bottom, "bottom"),
		NextBuffer: binding(kb.NextBuffer, "next buffer"),
		NextWindow: binding(kb.NextWindow, "next window"),
		JumpBack:   binding(kb.JumpBack, "back"),
		JumpFwd:    binding(kb.JumpFwd, "forward"),
		OpenList:   binding(kb.OpenList, "jumps"),
		Reload:     binding(kb.Reload, "reload"),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Bottom, k.NextBuffer, k.JumpBack, k.JumpFwd, k.OpenList, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.NextBuffer, k.NextWindow, k.Reload},
		{k.JumpBack, k.JumpFwd, k.OpenList, k.Quit},
	}
}
