package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newModuleCommand creates the module command.
func newModuleCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "module",
		Aliases: []string{"modules", "mod"},
		Short:   "Manage modules",
		Long: `Manage the modules of a project.

Creating and editing modules requires the Member role.
Archiving a module also archives its use cases.`,
	}

	cmd.AddCommand(
		newModuleCreateCommand(c, gopts),
		newModuleUpdateCommand(c, gopts),
		newModuleStatusCommand(c, gopts, false),
		newModuleStatusCommand(c, gopts, true),
		newModuleDeleteCommand(c, gopts),
		newModuleShowCommand(c, gopts),
		newModuleListCommand(c, gopts),
	)

	return cmd
}

func newModuleCreateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <project-id> <title>",
		Short: "Create a module in a project",
		Long: `Create a module in an active project.

Examples:
  te4it module create <project-id> "Accounts" -d "Sign-up and login"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}

			out, err := c.CreateModuleUseCase().Execute(cmd.Context(), usecase.CreateModuleInput{
				Actor:       actor,
				ProjectID:   projectID,
				Title:       args[1],
				Description: description,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Module)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created module %s: %s\n", out.Module.ID, out.Module.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Module description")

	return cmd
}

func newModuleUpdateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Title       string
		Description string
	}

	cmd := &cobra.Command{
		Use:   "update <module-id>",
		Short: "Update a module's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			moduleID, err := parseIDArg("module", args[0])
			if err != nil {
				return err
			}

			out, err := c.UpdateModuleUseCase().Execute(cmd.Context(), usecase.UpdateModuleInput{
				Actor:       actor,
				ModuleID:    moduleID,
				Title:       optionalString(cmd, "title", opts.Title),
				Description: optionalString(cmd, "description", opts.Description),
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Module)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated module %s: %s\n", out.Module.ID, out.Module.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")

	return cmd
}

// newModuleStatusCommand creates "module archive" or "module activate".
func newModuleStatusCommand(c *app.Container, gopts *globalOptions, active bool) *cobra.Command {
	verb, short, past := "archive", "Archive a module and its use cases", "Archived"
	if active {
		verb, short, past = "activate", "Activate a module", "Activated"
	}

	return &cobra.Command{
		Use:   verb + " <module-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			moduleID, err := parseIDArg("module", args[0])
			if err != nil {
				return err
			}

			out, err := c.ChangeModuleStatusUseCase().Execute(cmd.Context(), usecase.ChangeModuleStatusInput{
				Actor:    actor,
				ModuleID: moduleID,
				Active:   active,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Module)
			}
			w := cmd.OutOrStdout()
			if !out.Changed {
				_, _ = fmt.Fprintf(w, "Module %s is already %s\n", out.Module.ID, domain.StatusDisplay(out.Module.Active))
				return nil
			}
			_, _ = fmt.Fprintf(w, "%s module %s: %s\n", past, out.Module.ID, out.Module.Title)
			if len(out.Archived) > 0 {
				_, _ = fmt.Fprintf(w, "Archived %d use case(s)\n", len(out.Archived))
			}
			return nil
		},
	}
}

func newModuleDeleteCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <module-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an empty module",
		Long: `Delete a module. Requires the Member role.

The module must not contain any use cases.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			moduleID, err := parseIDArg("module", args[0])
			if err != nil {
				return err
			}

			if _, err := c.DeleteModuleUseCase().Execute(cmd.Context(), usecase.DeleteModuleInput{
				Actor:    actor,
				ModuleID: moduleID,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted module %s\n", moduleID)
			return nil
		},
	}
}

func newModuleShowCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <module-id>",
		Short: "Show module details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			moduleID, err := parseIDArg("module", args[0])
			if err != nil {
				return err
			}

			out, err := c.GetModuleUseCase().Execute(cmd.Context(), usecase.GetModuleInput{
				Actor:    actor,
				ModuleID: moduleID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Module)
			}
			printModuleDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printModuleDetails(w io.Writer, out *usecase.GetModuleOutput) {
	m := out.Module

	_, _ = fmt.Fprintln(w, headingStyle.Render("# Module: "+m.Title))
	_, _ = fmt.Fprintln(w)
	if m.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", m.Description)
	}
	_, _ = fmt.Fprintln(w, field("ID", m.ID.String()))
	_, _ = fmt.Fprintln(w, field("Project", fmt.Sprintf("%s (%s)", out.Project.Title, out.Project.ID)))
	_, _ = fmt.Fprintln(w, field("Status", activeStyle(m.Active).Render(domain.StatusDisplay(m.Active))))
	_, _ = fmt.Fprintln(w, field("Use cases", fmt.Sprintf("%d", out.UseCaseCount)))
	_, _ = fmt.Fprintln(w, field("Created", formatTime(m.Created)))
	_, _ = fmt.Fprintln(w, field("Updated", formatTime(m.Updated)))
}

func newModuleListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Page     domain.Page
		Active   bool
		Archived bool
	}

	cmd := &cobra.Command{
		Use:     "list <project-id>",
		Aliases: []string{"ls"},
		Short:   "List the modules of a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			projectID, err := parseIDArg("project", args[0])
			if err != nil {
				return err
			}
			active, err := statusFilter(opts.Active, opts.Archived)
			if err != nil {
				return err
			}

			out, err := c.ListModulesUseCase().Execute(cmd.Context(), usecase.ListModulesInput{
				Actor:     actor,
				ProjectID: projectID,
				Active:    active,
				Page:      opts.Page,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Modules)
			}

			tw := newTable(cmd.OutOrStdout())
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tTITLE")
			for _, m := range out.Modules {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, domain.StatusDisplay(m.Active), m.Title)
			}
			return nil
		},
	}

	addStatusFlags(cmd, &opts.Active, &opts.Archived)
	addPageFlags(cmd, &opts.Page)

	return cmd
}
