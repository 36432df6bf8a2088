package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/editor"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/logger"
	"github.com/TimelordUK/jumplist/internal/session"
	"github.com/TimelordUK/jumplist/internal/ui"
)

// options are the flags shared by every command
type options struct {
	configFile    string
	window        int
	realPositions bool
	filter        string
	filterExpr    string
	debug         bool
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config", "", "path to a toml config file (default $XDG_CONFIG_HOME/jumplist/config.toml)")
	fs.IntVarP(&o.window, "window", "w", 0, "window id to list (default: the focused window)")
	fs.BoolVar(&o.realPositions, "real-positions", false, "show raw stack distances and pass counts through untranslated")
	fs.StringVar(&o.filter, "filter", "", "builtin filter: all|buffer|cwd")
	fs.StringVar(&o.filterExpr, "filter-expr", "", "CEL expression over 'jump' and 'ctx' an entry must satisfy")
	fs.BoolVar(&o.debug, "debug", false, "log at debug level")
}

func (o *options) level() int8 {
	if o.debug {
		return -1
	}
	return 0
}

// loadConfig reads the config file and applies flag overrides
func (o *options) loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	path := o.configFile
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if fs.Changed("real-positions") {
		cfg.Jumplist.RealPositions = o.realPositions
	}
	if fs.Changed("filter") {
		cfg.Jumplist.Filter = o.filter
	}
	if fs.Changed("filter-expr") {
		cfg.Jumplist.FilterExpr = o.filterExpr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEditor builds the editor from a session file and focuses --window.
// The editor logs to the logger carried by ctx.
func (o *options) loadEditor(ctx context.Context, path string) (*editor.Editor, error) {
	s, err := session.Load(path)
	if err != nil {
		return nil, err
	}
	ed, err := s.Build(editor.WithLogger(*logger.FromContext(ctx)))
	if err != nil {
		return nil, err
	}
	if o.window != 0 {
		if err := ed.Focus(host.WindowID(o.window)); err != nil {
			ed.Close()
			return nil, err
		}
	}
	return ed, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "jumplist <session.yaml>",
		Short: "Browse and replay editor jump stacks",
		Long: `jumplist loads an editor session (buffers, windows and their jump stacks)
and shows it in a small editor. Press J to open the jump list of the
focused window, move to an entry and press enter to jump to it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runTUI(cmd, opts, cfg, args[0])
		},
	}
	opts.bind(cmd.PersistentFlags())

	cmd.AddCommand(newPrintCmd(opts), newCountCmd(opts), newConfigCmd(opts))
	return cmd
}

func runTUI(cmd *cobra.Command, opts *options, cfg *config.Config, sessionPath string) error {
	// stderr belongs to the alt screen, so the log goes to a file
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = config.DefaultLogPath()
	}
	f, err := logger.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	level := cfg.Log.Level
	if opts.debug {
		level = opts.level()
	}
	lgr := logger.Setup(logger.Options{Level: level, Output: f})
	ctx := logger.WithLogger(cmd.Context(), lgr)
	log := *logger.FromContext(ctx)

	ed, err := opts.loadEditor(ctx, sessionPath)
	if err != nil {
		return err
	}
	defer ed.Close()

	model, err := ui.NewModel(ui.ModelOptions{Editor: ed, Config: cfg, Log: log})
	if err != nil {
		return err
	}

	log.Info("starting", "session", sessionPath, "windows", len(ed.WindowIDs()))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
