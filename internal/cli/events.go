package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newEventsCommand creates the events command.
func newEventsCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Project string
		After   int64
		Limit   int
	}

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List domain events",
		Long: `List domain events from the append-only event log.

Events are shown in commit order. Only events of projects the acting user
can access are listed; administrators see every event.

Use --after with the last printed sequence number to poll for new events.

Examples:
  # Every visible event
  te4it events

  # Events of one project after sequence 42
  te4it events --project <project-id> --after 42`,
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

			out, err := c.ListEventsUseCase().Execute(cmd.Context(), usecase.ListEventsInput{
				Actor:     actor,
				ProjectID: projectID,
				AfterSeq:  opts.After,
				Limit:     opts.Limit,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Events)
			}
			printEventList(cmd.OutOrStdout(), out.Events)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Project, "project", "p", "", "Only events of this project")
	cmd.Flags().Int64Var(&opts.After, "after", 0, "Only events after this sequence number")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of events (0 = all)")

	return cmd
}

// printEventList prints events in a table.
func printEventList(w io.Writer, events []domain.EventRecord) {
	tw := newTable(w)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "SEQ\tTIME\tTYPE\tAGGREGATE\tACTOR\tDETAILS")
	for _, e := range events {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.Seq, formatTime(e.OccurredAt), e.Type, e.AggregateID.Short(), e.ActorID.Short(), formatPayload(e.Payload))
	}
}

// formatPayload renders a payload as sorted key=value pairs.
func formatPayload(payload map[string]any) string {
	if len(payload) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}
