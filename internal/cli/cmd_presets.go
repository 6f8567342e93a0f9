package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
)

func newPresetsCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "presets",
		Aliases: []string{"preset"},
		Short:   "Preset management",
	}
	cmd.AddCommand(
		newPresetsListCommand(deps),
		newPresetsGetCommand(deps),
		newPresetsSaveCommand(deps),
		newPresetsDeleteCommand(deps),
	)
	return cmd
}

func newPresetsListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List presets, most recently saved first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				presets, err := svc.presets.List(ctx)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, presets)
				}
				tw := tabwriter.NewWriter(deps.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tLANGUAGE\tUPDATED")
				for _, p := range presets {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, p.Language, p.UpdatedAt.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

func newPresetsGetCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Print one preset including its shader code",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				preset, err := svc.presets.Get(ctx, id)
				if err != nil {
					return err
				}
				if preset == nil {
					return apperror.NotFound("preset", id)
				}
				if deps.globals.JSON {
					return printJSON(deps.out, preset)
				}
				fmt.Fprintf(deps.out, "id:       %d\nname:     %s\nlanguage: %s\nupdated:  %s\n",
					preset.ID, preset.Name, preset.Language, preset.UpdatedAt.Local().Format(time.DateTime))
				if preset.Uniforms != nil {
					fmt.Fprintf(deps.out, "uniforms: %s\n", *preset.Uniforms)
				}
				_, err = fmt.Fprintf(deps.out, "\n%s\n", preset.ShaderCode)
				return err
			})
		},
	}
}

func newPresetsSaveCommand(deps commandDeps) *cobra.Command {
	var (
		id       int64
		name     string
		language string
		file     string
		uniforms string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a preset, or overwrite one with --id",
		Long: "Create a preset, or overwrite one with --id.\n\n" +
			"The shader source is read from --file; use \"-\" for stdin.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file == "" {
				return usageErrorf("presets save requires --file")
			}
			code, err := readSource(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			preset := model.Preset{
				ID:         id,
				Name:       name,
				ShaderCode: code,
				Language:   language,
			}
			if cmd.Flags().Changed("uniforms") {
				preset.Uniforms = &uniforms
			}

			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				id, err := svc.presets.Save(ctx, &preset)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, preset)
				}
				_, err = fmt.Fprintf(deps.out, "saved preset %d (%s)\n", id, preset.Name)
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Existing preset id to overwrite")
	cmd.Flags().StringVar(&name, "name", "", "Preset name")
	cmd.Flags().StringVar(&language, "language", model.LanguageGLSL, "Shader language (glsl or wgsl)")
	cmd.Flags().StringVar(&file, "file", "", "Shader source file, or - for stdin")
	cmd.Flags().StringVar(&uniforms, "uniforms", "", "Uniform values as JSON")
	return cmd
}

func newPresetsDeleteCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				return svc.presets.Delete(ctx, id)
			})
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, usageErrorf("invalid id %q", raw)
	}
	return id, nil
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", asExitError(ExitCodeIO, fmt.Errorf("reading %s: %w", path, err))
	}
	return string(data), nil
}
