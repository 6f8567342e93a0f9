package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sakif/shader-playground/internal/config"
)

func newConfigCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration file management",
	}
	cmd.AddCommand(
		newConfigInitCommand(deps),
		newConfigShowCommand(deps),
	)
	return cmd
}

func newConfigInitCommand(deps commandDeps) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := deps.globals.ConfigPath
			if path == "" {
				path = config.DefaultPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				return usageErrorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return asExitError(ExitCodeIO, err)
			}

			cfg := config.Defaults()
			if deps.globals.DBPath != "" {
				cfg.Database.Path = deps.globals.DBPath
			}
			if err := config.Save(path, cfg); err != nil {
				return asExitError(ExitCodeIO, err)
			}

			if deps.globals.JSON {
				return printJSON(deps.out, map[string]string{"path": path})
			}
			_, err := fmt.Fprintf(deps.out, "wrote %s\n", path)
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.loadConfig()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(deps.out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
