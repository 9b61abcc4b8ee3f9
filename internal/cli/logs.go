package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newLogsCommand creates the logs command.
func newLogsCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Project string
		Lines   int
	}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show operation logs",
		Long: `Show operation logs.

With --project, shows the log of that project (any project role).
Without it, shows the global log, which requires the administrator role.

Examples:
  # Last 20 lines of a project log
  te4it logs --project <project-id> -n 20

  # Whole global log
  te4it logs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}

			var projectID domain.ID
			if opts.Project != "" {
				if projectID, err = parseIDArg("project", opts.Project); err != nil {
					return err
				}
			}

			out, err := c.ShowLogsUseCase().Execute(cmd.Context(), usecase.ShowLogsInput{
				Actor:     actor,
				ProjectID: projectID,
				Lines:     opts.Lines,
			})
			if err != nil {
				return err
			}

			if out.Content == "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "No log entries in %s\n", out.LogPath)
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Content)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "Project id")
	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 0, "Number of lines from the end (0 = all)")

	return cmd
}
