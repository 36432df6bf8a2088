package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/editor"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/jump"
	"github.com/TimelordUK/jumplist/internal/logger"
	"github.com/TimelordUK/jumplist/internal/render"
)

// listScope is the highlight scope the jump list draws into
const listScope host.Scope = 1

// flashDoneMsg ends the flash started with the same sequence number
type flashDoneMsg struct{ seq int }

// Model is the main application model
type Model struct {
	ed       *editor.Editor
	cfg      *config.Config
	keys     KeyMap
	help     help.Model
	pane     *Pane
	jumplist *jump.Jumplist
	list     *listWindow
	log      logr.Logger

	listStyles map[string]lipgloss.Style

	width  int
	height int

	// count typed before a command, 0 when none
	count int
	// pendingG is set after the first g of gg
	pendingG bool
	flashSeq int

	status      string
	statusIsErr bool
}

// ModelOptions configures NewModel
type ModelOptions struct {
	Editor *editor.Editor
	Config *config.Config
	// Log receives everything the UI logs, typically a file logger
	Log logr.Logger
	// Filter overrides the filter built from config
	Filter jump.Filter
}

// NewModel creates the application model over an editor
func NewModel(opts ModelOptions) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	base := opts.Log
	if base.GetSink() == nil {
		base = logger.Discard()
	}

	m := &Model{
		ed:         opts.Editor,
		cfg:        cfg,
		keys:       NewKeyMap(cfg.Keybindings),
		help:       help.New(),
		listStyles: render.GroupStyles(cfg.Theme.List),
	}
	m.log = logger.Tee(base, logger.StatusSink(m.setStatus))

	filter := opts.Filter
	if filter == nil {
		var err error
		if filter, err = jump.FilterFromConfig(&cfg.Jumplist, m.log); err != nil {
			return nil, err
		}
	}

	m.pane = NewPane(m.ed, m.ed.CurrentWindow(), cfg)
	m.jumplist = jump.New(m.ed, m, &cfg.Jumplist,
		jump.WithFilter(filter),
		jump.WithLogger(m.log),
		jump.WithScope(listScope),
		jump.WithOnJump(func(j jump.Jump) {
			m.log.V(1).Info("jumped", "path", j.Path, "line", j.Line, "rel", j.Rel)
		}),
	)
	return m, nil
}

func (m *Model) setStatus(isError bool, msg string) {
	m.status = msg
	m.statusIsErr = isError
}

// OpenWindow implements host.WindowController
func (m *Model) OpenWindow(spec host.ViewSpec) (host.Surface, bool) {
	if m.height > 0 && m.height < 6 {
		return nil, false
	}
	if m.height > 0 {
		spec.Height = min(spec.Height, m.height/2)
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.cfg.Theme.Border)).
		Foreground(lipgloss.Color(m.cfg.Theme.Border))
	cursor := lipgloss.NewStyle().Background(lipgloss.Color(m.cfg.Theme.CursorLine))

	m.list = newListWindow(spec, m.listStyles, border, cursor)
	m.layout()
	return m.list, true
}

// CloseWindow implements host.WindowController
func (m *Model) CloseWindow() {
	m.list = nil
	m.layout()
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.pane.Viewport().SetFlash(false)
		}
		return m, nil
	}

	return m, nil
}

// layout gives the pane what the list window, status and help leave
func (m *Model) layout() {
	h := m.height - 2
	if m.list != nil {
		h -= m.list.Height()
	}
	m.pane.SetSize(m.width, max(h, 1))
}

// takeCount returns the typed count and resets it
func (m *Model) takeCount() int {
	n := m.count
	m.count = 0
	return n
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()

	if len(s) == 1 && s[0] >= '0' && s[0] <= '9' && (s != "0" || m.count > 0) {
		m.count = min(m.count*10+int(s[0]-'0'), 9999)
		return m, nil
	}

	if m.list != nil {
		return m.handleListKey(msg)
	}

	m.status = ""
	if m.pendingG {
		m.pendingG = false
		if key.Matches(msg, m.keys.Top) {
			m.jumpLine(max(m.takeCount(), 1))
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.pane.MoveCursor(max(m.takeCount(), 1))
	case key.Matches(msg, m.keys.Up):
		m.pane.MoveCursor(-max(m.takeCount(), 1))

	case key.Matches(msg, m.keys.Top):
		m.pendingG = true
	case key.Matches(msg, m.keys.Bottom):
		line := m.takeCount()
		if line == 0 {
			line = m.pane.LineCount()
		}
		m.jumpLine(line)

	case key.Matches(msg, m.keys.NextBuffer):
		m.takeCount()
		if err := m.pane.NextBuffer(); err != nil {
			m.log.Error(err, "next buffer")
		}

	case key.Matches(msg, m.keys.NextWindow):
		m.takeCount()
		m.nextWindow()

	case key.Matches(msg, m.keys.JumpBack):
		return m, m.traverse(host.Back, max(m.takeCount(), 1))
	case key.Matches(msg, m.keys.JumpFwd):
		return m, m.traverse(host.Forward, max(m.takeCount(), 1))

	case key.Matches(msg, m.keys.OpenList):
		m.takeCount()
		m.openList()

	case key.Matches(msg, m.keys.Reload):
		m.takeCount()
		n, err := m.ed.Reload()
		if err != nil {
			m.log.Error(err, "reload")
		} else {
			m.setStatus(false, fmt.Sprintf("%d buffer(s) reloaded", n))
		}
		m.pane.Sync()

	default:
		m.takeCount()
	}

	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.list.Move(max(m.takeCount(), 1))
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.list.Move(-max(m.takeCount(), 1))
		return m, nil
	}

	handled, err := m.jumplist.HandleKey(msg.String(), m.takeCount())
	if err != nil {
		m.log.Error(err, "jumplist")
	}
	if !handled && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.pane.Sync()
	return m, m.flash()
}

func (m *Model) jumpLine(line int) {
	if err := m.pane.JumpToLine(line); err != nil {
		m.log.Error(err, "jump")
	}
}

func (m *Model) traverse(dir host.Direction, count int) tea.Cmd {
	if err := m.ed.Traverse(m.pane.Window(), dir, count); err != nil {
		logger.Warn(m.log, err.Error())
		return nil
	}
	m.pane.Sync()
	return nil
}

func (m *Model) nextWindow() {
	wins := m.ed.WindowIDs()
	cur := m.ed.CurrentWindow()
	next := wins[0]
	for i, w := range wins {
		if w == cur && i+1 < len(wins) {
			next = wins[i+1]
		}
	}
	if err := m.ed.Focus(next); err != nil {
		m.log.Error(err, "focus")
		return
	}
	m.pane.SetWindow(next)
}

func (m *Model) openList() {
	if !m.jumplist.Open() {
		return
	}
	visible, pages := m.jumplist.GetCount()
	m.log.V(1).Info("jumplist opened", "entries", visible, "pages", pages)
}

// flash starts the cursor line flash the editor asked for
func (m *Model) flash() tea.Cmd {
	d := m.ed.TakeFlash(m.pane.Window())
	if d <= 0 {
		return nil
	}
	m.flashSeq++
	seq := m.flashSeq
	m.pane.Viewport().SetFlash(true)
	return tea.Tick(d, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	builder.WriteString(m.pane.Render())
	builder.WriteString("\n")

	if m.list != nil {
		builder.WriteString(m.list.View(m.width))
		builder.WriteString("\n")
	}

	builder.WriteString(m.statusLine())
	builder.WriteString("\n")
	builder.WriteString(m.help.View(m.keys))

	return builder.String()
}

func (m *Model) statusLine() string {
	theme := m.cfg.Theme
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(theme.StatusBar)).
		Foreground(lipgloss.Color(theme.StatusBarText)).
		Width(m.width)

	if m.status != "" {
		if m.statusIsErr {
			style = style.Foreground(lipgloss.Color("196"))
		}
		return style.Render(" " + m.status)
	}

	line, _ := m.ed.Cursor(m.pane.Window())
	info := fmt.Sprintf(" %s  L%d/%d  %.0f%%", m.pane.Filename(), line, m.pane.LineCount(), m.pane.Viewport().PercentScrolled())

	if jumps, pos := m.ed.JumpList(m.pane.Window()); len(jumps) > 0 {
		info += fmt.Sprintf("  jumps %d/%d", pos, len(jumps))
	}
	if m.count > 0 {
		info += fmt.Sprintf("  %d", m.count)
	}
	return style.Render(info)
}
