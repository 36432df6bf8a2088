package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimelordUK/jumplist/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, or write it with --write",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			if !write {
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if opts.configFile != "" {
				err = config.SaveTo(cfg, opts.configFile)
			} else {
				err = config.Save(cfg)
			}
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			path := opts.configFile
			if path == "" {
				path = config.GetConfigPath()
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "save the effective configuration to the config file")
	return cmd
}
