package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newProjectCommand creates the project command.
func newProjectCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Manage projects",
		Long: `Manage projects.

A project is the root of the hierarchy: project > module > use case > task.
The creator of a project is its Owner.`,
	}

	cmd.AddCommand(
		newProjectCreateCommand(c, gopts),
		newProjectUpdateCommand(c, gopts),
		newProjectStatusCommand(c, gopts, false),
		newProjectStatusCommand(c, gopts, true),
		newProjectDeleteCommand(c, gopts),
		newProjectShowCommand(c, gopts),
		newProjectListCommand(c, gopts),
	)

	return cmd
}

func newProjectCreateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Description string
	}

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a project",
		Long: `Create a project. The acting user becomes its Owner.

Examples:
  te4it project create "Billing" --description "Invoices and payments"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}

			out, err := c.CreateProjectUseCase().Execute(cmd.Context(), usecase.CreateProjectInput{
				Actor:       actor,
				Title:       args[0],
				Description: opts.Description,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Project)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s\n", out.Project.ID, out.Project.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Project description")

	return cmd
}

func newProjectUpdateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "update <project-id>",
		Short: "Update a project's title or description",
		Long: `Update a project's title or description. Requires the Member role.

Only the given flags are changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}

			out, err := c.UpdateProjectUseCase().Execute(cmd.Context(), usecase.UpdateProjectInput{
				Actor:       actor,
				ProjectID:   projectID,
				Title:       optionalString(cmd, "title", opts.Title),
				Description: optionalString(cmd, "description", opts.Description),
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Project)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s: %s\n", out.Project.ID, out.Project.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")

	return cmd
}

// newProjectStatusCommand creates "project archive" or "project activate".
func newProjectStatusCommand(c *app.Container, gopts *globalOptions, active bool) *cobra.Command {
	verb, short, past := "archive", "Archive a project", "Archived"
	if active {
		verb, short, past = "activate", "Activate a project", "Activated"
	}

	return &cobra.Command{
		Use:   verb + " <project-id>",
		Short: short,
		Long: fmt.Sprintf(`%s a project. Requires the Owner role.

Archived projects stay readable but their content cannot be changed.`, past),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}

			out, err := c.ChangeProjectStatusUseCase().Execute(cmd.Context(), usecase.ChangeProjectStatusInput{
				Actor:     actor,
				ProjectID: projectID,
				Active:    active,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Project)
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Project %s is already %s\n", out.Project.ID, domain.StatusDisplay(out.Project.Active))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s project %s: %s\n", past, out.Project.ID, out.Project.Title)
			return nil
		},
	}
}

func newProjectDeleteCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <project-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an empty project",
		Long: `Delete a project. Requires the Owner role.

The project must not contain any modules.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}

			if _, err := c.DeleteProjectUseCase().Execute(cmd.Context(), usecase.DeleteProjectInput{
				Actor:     actor,
				ProjectID: projectID,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", projectID)
			return nil
		},
	}
}

func newProjectShowCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}

			out, err := c.GetProjectUseCase().Execute(cmd.Context(), usecase.GetProjectInput{
				Actor:     actor,
				ProjectID: projectID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Project)
			}
			printProjectDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printProjectDetails(w io.Writer, out *usecase.GetProjectOutput) {
	p := out.Project

	_, _ = fmt.Fprintln(w, headingStyle.Render("# Project: "+p.Title))
	_, _ = fmt.Fprintln(w)
	if p.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", p.Description)
	}
	_, _ = fmt.Fprintln(w, field("ID", p.ID.String()))
	_, _ = fmt.Fprintln(w, field("Status", activeStyle(p.Active).Render(domain.StatusDisplay(p.Active))))
	_, _ = fmt.Fprintln(w, field("Your role", out.Role.Display()))
	_, _ = fmt.Fprintln(w, field("Modules", fmt.Sprintf("%d", out.ModuleCount)))
	_, _ = fmt.Fprintln(w, field("Creator", p.CreatorID.String()))
	_, _ = fmt.Fprintln(w, field("Created", formatTime(p.Created)))
	_, _ = fmt.Fprintln(w, field("Updated", formatTime(p.Updated)))
}

func newProjectListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Page     domain.Page
		Active   bool
		Archived bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List accessible projects",
		Long: `List the projects the acting user can access, oldest first.

Administrators see every project.

Examples:
  te4it project list --active
  te4it project list --limit 10 --offset 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			active, err := statusFilter(opts.Active, opts.Archived)
			if err != nil {
				return err
			}

			out, err := c.ListProjectsUseCase().Execute(cmd.Context(), usecase.ListProjectsInput{
				Actor:  actor,
				Active: active,
				Page:   opts.Page,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Projects)
			}

			tw := newTable(cmd.OutOrStdout())
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tROLE\tTITLE")
			for _, s := range out.Projects {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.Project.ID, domain.StatusDisplay(s.Project.Active), s.Role, s.Project.Title)
			}
			return nil
		},
	}

	addStatusFlags(cmd, &opts.Active, &opts.Archived)
	addPageFlags(cmd, &opts.Page)

	return cmd
}
