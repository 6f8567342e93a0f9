package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sakif/shader-playground/internal/apperror"
	"github.com/sakif/shader-playground/internal/model"
)

func newProjectsCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project"},
		Short:   "Project management",
	}
	cmd.AddCommand(
		newProjectsListCommand(deps),
		newProjectsGetCommand(deps),
		newProjectsSaveCommand(deps),
		newProjectsDeleteCommand(deps),
	)
	return cmd
}

func newProjectsListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List projects, most recently saved first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				projects, err := svc.projects.List(ctx)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, projects)
				}
				tw := tabwriter.NewWriter(deps.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tUPDATED")
				for _, p := range projects {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.UpdatedAt.Local().Format(time.DateTime))
				}
				return tw.Flush()
			})
		},
	}
}

func newProjectsGetCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Print one project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				project, err := svc.projects.Get(ctx, id)
				if err != nil {
					return err
				}
				if project == nil {
					return apperror.NotFound("project", id)
				}
				if deps.globals.JSON {
					return printJSON(deps.out, project)
				}
				fmt.Fprintf(deps.out, "id:      %d\nname:    %s\nupdated: %s\nshaders: %s\n",
					project.ID, project.Name, project.UpdatedAt.Local().Format(time.DateTime), project.Shaders)
				if project.AudioSettings != nil {
					fmt.Fprintf(deps.out, "audio:   %s\n", *project.AudioSettings)
				}
				return nil
			})
		},
	}
}

func newProjectsSaveCommand(deps commandDeps) *cobra.Command {
	var (
		id            int64
		name          string
		shaders       string
		shadersFile   string
		audioSettings string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a project, or overwrite one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shadersFile != "" {
				if cmd.Flags().Changed("shaders") {
					return usageErrorf("--shaders and --shaders-file are mutually exclusive")
				}
				data, err := readSource(cmd.InOrStdin(), shadersFile)
				if err != nil {
					return err
				}
				shaders = data
			}

			project := model.Project{ID: id, Name: name, Shaders: shaders}
			if cmd.Flags().Changed("audio-settings") {
				project.AudioSettings = &audioSettings
			}

			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				id, err := svc.projects.Save(ctx, &project)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, project)
				}
				_, err = fmt.Fprintf(deps.out, "saved project %d (%s)\n", id, project.Name)
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "Existing project id to overwrite")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&shaders, "shaders", "[]", "Shader bundle as JSON")
	cmd.Flags().StringVar(&shadersFile, "shaders-file", "", "Read the shader bundle from a file, or - for stdin")
	cmd.Flags().StringVar(&audioSettings, "audio-settings", "", "Audio settings as JSON")
	return cmd
}

func newProjectsDeleteCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd.Context(), deps, func(ctx context.Context, svc services) error {
				return svc.projects.Delete(ctx, id)
			})
		},
	}
}
