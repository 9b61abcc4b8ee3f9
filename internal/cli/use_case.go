package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newUseCaseCommand creates the usecase command.
func newUseCaseCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "usecase",
		Aliases: []string{"usecases", "uc"},
		Short:   "Manage use cases",
		Long: `Manage the use cases of a module.

Use cases group the tasks that deliver one piece of behavior.
Creating and editing use cases requires the Member role.`,
	}

	cmd.AddCommand(
		newUseCaseCreateCommand(c, gopts),
		newUseCaseUpdateCommand(c, gopts),
		newUseCaseStatusCommand(c, gopts, false),
		newUseCaseStatusCommand(c, gopts, true),
		newUseCaseDeleteCommand(c, gopts),
		newUseCaseShowCommand(c, gopts),
		newUseCaseListCommand(c, gopts),
	)

	return cmd
}

func newUseCaseCreateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Description string
		Notes       string
	}

	cmd := &cobra.Command{
		Use:   "create <module-id> <title>",
		Short: "Create a use case in a module",
		Long: `Create a use case in an active module.

Examples:
  te4it usecase create <module-id> "Reset password" --notes "Tokens expire after 1h"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			moduleID, err := parseIDArg("module", args[0])
			if err != nil {
				return err
			}

			out, err := c.CreateUseCaseUseCase().Execute(cmd.Context(), usecase.CreateUseCaseInput{
				Actor:          actor,
				ModuleID:       moduleID,
				Title:          args[1],
				Description:    opts.Description,
				ImportantNotes: opts.Notes,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.UseCase)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created use case %s: %s\n", out.UseCase.ID, out.UseCase.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Use case description")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "Important notes")

	return cmd
}

func newUseCaseUpdateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Notes       string
	}

	cmd := &cobra.Command{
		Use:   "update <usecase-id>",
		Short: "Update a use case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			useCaseID, err := parseIDArg("use case", args[0])
			if err != nil {
				return err
			}

			out, err := c.UpdateUseCaseUseCase().Execute(cmd.Context(), usecase.UpdateUseCaseInput{
				Actor:          actor,
				UseCaseID:      useCaseID,
				Title:          optionalString(cmd, "title", opts.Title),
				Description:    optionalString(cmd, "description", opts.Description),
				ImportantNotes: optionalString(cmd, "notes", opts.Notes),
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.UseCase)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated use case %s: %s\n", out.UseCase.ID, out.UseCase.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "New important notes")

	return cmd
}

// newUseCaseStatusCommand creates "usecase archive" or "usecase activate".
func newUseCaseStatusCommand(c *app.Container, gopts *globalOptions, active bool) *cobra.Command {
	verb, short, past := "archive", "Archive a use case", "Archived"
	if active {
		verb, short, past = "activate", "Activate a use case", "Activated"
	}

	return &cobra.Command{
		Use:   verb + " <usecase-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			useCaseID, err := parseIDArg("use case", args[0])
			if err != nil {
				return err
			}

			out, err := c.ChangeUseCaseStatusUseCase().Execute(cmd.Context(), usecase.ChangeUseCaseStatusInput{
				Actor:     actor,
				UseCaseID: useCaseID,
				Active:    active,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.UseCase)
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Use case %s is already %s\n", out.UseCase.ID, domain.StatusDisplay(out.UseCase.Active))
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s use case %s: %s\n", past, out.UseCase.ID, out.UseCase.Title)
			return nil
		},
	}
}

func newUseCaseDeleteCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <usecase-id>",
		Aliases: []string{"rm"},
		Short:   "Delete an empty use case",
		Long: `Delete a use case. Requires the Member role.

The use case must not contain any tasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			useCaseID, err := parseIDArg("use case", args[0])
			if err != nil {
				return err
			}

			if _, err := c.DeleteUseCaseUseCase().Execute(cmd.Context(), usecase.DeleteUseCaseInput{
				Actor:     actor,
				UseCaseID: useCaseID,
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted use case %s\n", useCaseID)
			return nil
		},
	}
}

func newUseCaseShowCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <usecase-id>",
		Short: "Show use case details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			useCaseID, err := parseIDArg("use case", args[0])
			if err != nil {
				return err
			}

			out, err := c.GetUseCaseUseCase().Execute(cmd.Context(), usecase.GetUseCaseInput{
				Actor:     actor,
				UseCaseID: useCaseID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.UseCase)
			}
			printUseCaseDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func printUseCaseDetails(w io.Writer, out *usecase.GetUseCaseOutput) {
	u := out.UseCase

	_, _ = fmt.Fprintln(w, headingStyle.Render("# Use case: "+u.Title))
	_, _ = fmt.Fprintln(w)
	if u.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", u.Description)
	}
	_, _ = fmt.Fprintln(w, field("ID", u.ID.String()))
	_, _ = fmt.Fprintln(w, field("Project", fmt.Sprintf("%s (%s)", out.Project.Title, out.Project.ID)))
	_, _ = fmt.Fprintln(w, field("Module", fmt.Sprintf("%s (%s)", out.Module.Title, out.Module.ID)))
	_, _ = fmt.Fprintln(w, field("Status", activeStyle(u.Active).Render(domain.StatusDisplay(u.Active))))
	_, _ = fmt.Fprintln(w, field("Tasks", fmt.Sprintf("%d", out.TaskCount)))
	_, _ = fmt.Fprintln(w, field("Created", formatTime(u.Created)))
	_, _ = fmt.Fprintln(w, field("Updated", formatTime(u.Updated)))

	if u.ImportantNotes != "" {
		_, _ = fmt.Fprintln(w, "\nImportant notes:")
		_, _ = fmt.Fprintln(w, indent(u.ImportantNotes))
	}
}

func newUseCaseListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Page     domain.Page
		Active   bool
		Archived bool
	}

	cmd := &cobra.Command{
		Use:     "list <module-id>",
		Aliases: []string{"ls"},
		Short:   "List the use cases of a module",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			moduleID, err := parseIDArg("module", args[0])
			if err != nil {
				return err
			}
			active, err := statusFilter(opts.Active, opts.Archived)
			if err != nil {
				return err
			}

			out, err := c.ListUseCasesUseCase().Execute(cmd.Context(), usecase.ListUseCasesInput{
				Actor:    actor,
				ModuleID: moduleID,
				Active:   active,
				Page:     opts.Page,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.UseCases)
			}

			tw := newTable(cmd.OutOrStdout())
			defer func() { _ = tw.Flush() }()
			_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tTITLE")
			for _, u := range out.UseCases {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", u.ID, domain.StatusDisplay(u.Active), u.Title)
			}
			return nil
		},
	}

	addStatusFlags(cmd, &opts.Active, &opts.Archived)
	addPageFlags(cmd, &opts.Page)

	return cmd
}
