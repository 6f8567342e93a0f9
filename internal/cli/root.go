// Package cli implements shaderctl, a maintenance tool that works on the
// shader library database directly, without a running server.
package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/sakif/shader-playground/internal/applog"
	"github.com/sakif/shader-playground/internal/config"
	sqliteRepo "github.com/sakif/shader-playground/internal/repository/sqlite"
	"github.com/sakif/shader-playground/internal/service"
)

type globalOptions struct {
	ConfigPath string
	DBPath     string
	JSON       bool
}

type commandDeps struct {
	out     io.Writer
	errOut  io.Writer
	globals *globalOptions
}

// NewRootCommand builds the command tree. Normal output goes to out; logs
// and errors go to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	globals := &globalOptions{}
	deps := commandDeps{out: out, errOut: errOut, globals: globals}

	cmd := &cobra.Command{
		Use:           "shaderctl",
		Short:         "Manage the shader preset and project library",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&globals.ConfigPath, "config", "", "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&globals.DBPath, "db", "", "Database file (overrides config)")
	cmd.PersistentFlags().BoolVar(&globals.JSON, "json", false, "Print results as JSON")

	cmd.AddCommand(
		newPresetsCommand(deps),
		newProjectsCommand(deps),
		newSeedCommand(deps),
		newServeCommand(deps),
		newConfigCommand(deps),
	)
	return cmd
}

func (d commandDeps) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(d.globals.ConfigPath)
	if err != nil {
		return nil, asExitError(ExitCodeUsage, err)
	}
	if d.globals.DBPath != "" {
		cfg.Database.Path = d.globals.DBPath
	}
	return cfg, nil
}

type services struct {
	presets  *service.PresetService
	projects *service.ProjectService
}

// withServices opens the store for the duration of fn.
func withServices(ctx context.Context, deps commandDeps, fn func(ctx context.Context, svc services) error) error {
	cfg, err := deps.loadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := applog.New(cfg.Logging, deps.errOut)
	if err != nil {
		return asExitError(ExitCodeUsage, err)
	}
	defer closer.Close()

	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return asExitError(ExitCodeIO, err)
	}
	defer db.Close()

	svc := services{
		presets:  service.NewPresetService(sqliteRepo.NewPresetRepository(db), logger),
		projects: service.NewProjectService(sqliteRepo.NewProjectRepository(db), logger),
	}
	return mapCommandError(fn(ctx, svc))
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
