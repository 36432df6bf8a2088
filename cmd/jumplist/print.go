package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/TimelordUK/jumplist/internal/config"
	"github.com/TimelordUK/jumplist/internal/host"
	"github.com/TimelordUK/jumplist/internal/jump"
	"github.com/TimelordUK/jumplist/internal/logger"
	"github.com/TimelordUK/jumplist/internal/render"
)

// cliLogger writes readable lines to a terminal and JSON otherwise
func cliLogger(w io.Writer, level int8) logr.Logger {
	if isTerminal(w) {
		return logger.Text(w)
	}
	return *logger.Setup(logger.Options{Level: level, Output: w})
}

// openList loads config and session and collects the list of the chosen window
func openList(cmd *cobra.Command, opts *options, path string) (*jump.Jumplist, *config.Config, func(), error) {
	cfg, err := opts.loadConfig(cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	lgr := cliLogger(cmd.ErrOrStderr(), opts.level())
	ctx := logger.WithLogger(cmd.Context(), &lgr)
	log := *logger.FromContext(ctx)

	ed, err := opts.loadEditor(ctx, path)
	if err != nil {
		return nil, nil, nil, err
	}
	filter, err := jump.FilterFromConfig(&cfg.Jumplist, log)
	if err != nil {
		ed.Close()
		return nil, nil, nil, err
	}

	l := jump.New(ed, nil, &cfg.Jumplist, jump.WithFilter(filter), jump.WithLogger(log))
	l.Init()
	return l, cfg, func() { ed.Close() }, nil
}

func newPrintCmd(opts *options) *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "print <session.yaml>",
		Short: "Print the jump list of a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cfg, done, err := openList(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer done()

			r, err := l.Render()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var styles map[string]lipgloss.Style
			if color == "always" || (color == "auto" && isTerminal(out)) {
				styles = render.GroupStyles(cfg.Theme.List)
			}
			return writeRendering(out, r, styles)
		},
	}
	cmd.Flags().StringVar(&color, "color", "auto", "colorize output: auto|always|never")
	return cmd
}

// writeRendering prints the lines, styled when styles is non-nil
func writeRendering(w io.Writer, r *jump.Rendering, styles map[string]lipgloss.Style) error {
	byLine := make(map[int][]host.Highlight)
	for _, hl := range r.Highlights {
		byLine[hl.Line] = append(byLine[hl.Line], hl)
	}

	for i, line := range r.Lines {
		if styles != nil {
			line = render.Spans(line, byLine[i+1], styles)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func newCountCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "count <session.yaml>",
		Short: "Print the number of listed entries and pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, _, done, err := openList(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer done()

			visible, pages := l.GetCount()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", visible, pages)
			return err
		},
	}
}
