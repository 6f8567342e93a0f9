package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/shader-playground/internal/applog"
	"github.com/sakif/shader-playground/internal/server"
)

func newSeedCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Add the built-in presets if the library has no presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				n, err := svc.presets.SeedDefaults(ctx)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, map[string]int{"seeded": n})
				}
				if n == 0 {
					_, err = fmt.Fprintln(deps.out, "library already has presets, nothing seeded")
					return err
				}
				_, err = fmt.Fprintf(deps.out, "seeded %d presets\n", n)
				return err
			})
		},
	}
}

func newServeCommand(deps commandDeps) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP command API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := deps.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			logger, closer, err := applog.New(cfg.Logging, deps.errOut)
			if err != nil {
				return asExitError(ExitCodeUsage, err)
			}
			defer closer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv, err := server.New(ctx, *cfg, logger)
			if err != nil {
				return asExitError(ExitCodeIO, err)
			}
			return mapCommandError(srv.Start(ctx))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
