package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newRelationCommand creates the relation command.
func newRelationCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "relation",
		Aliases: []string{"relations", "rel"},
		Short:   "Manage relations between tasks",
		Long: `Manage directed relations between tasks of the same project.

Relation types:
  blocks      the source must be resolved before the target can complete
  relates_to  informational link
  fixes       the source fixes the target
  duplicates  the source duplicates the target

"blocks" relations may not form a cycle.`,
	}

	cmd.AddCommand(
		newRelationAddCommand(c, gopts),
		newRelationRemoveCommand(c, gopts),
		newRelationListCommand(c, gopts),
	)

	return cmd
}

func newRelationAddCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <source-task-id> <type> <target-task-id>",
		Short: "Add a relation from one task to another",
		Long: `Add a relation from the source task to the target task.

Examples:
  # Task A must be done before task B can complete
  te4it relation add <task-a> blocks <task-b>`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			sourceID, err := parseIDArg("source task", args[0])
			if err != nil {
				return err
			}
			typ, err := domain.ParseRelationType(args[1])
			if err != nil {
				return err
			}
			targetID, err := parseIDArg("target task", args[2])
			if err != nil {
				return err
			}

			out, err := c.AddTaskRelationUseCase().Execute(cmd.Context(), usecase.AddTaskRelationInput{
				Actor:    actor,
				SourceID: sourceID,
				TargetID: targetID,
				Type:     typ,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Relation)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added relation %s: %s %s %s\n",
				out.Relation.ID, out.Relation.SourceID, out.Relation.Type, out.Relation.TargetID)
			return nil
		},
	}
}

func newRelationRemoveCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <source-task-id> <relation-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a relation",
		Long: `Remove a relation, given its source task and its id.

Removing a relation that no longer exists is not an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}
			relationID, err := parseIDArg("relation", args[1])
			if err != nil {
				return err
			}

			out, err := c.RemoveTaskRelationUseCase().Execute(cmd.Context(), usecase.RemoveTaskRelationInput{
				Actor:      actor,
				TaskID:     taskID,
				RelationID: relationID,
			})
			if err != nil {
				return err
			}

			if !out.Removed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Relation %s does not exist\n", relationID)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed relation %s\n", relationID)
			return nil
		},
	}
}

func newRelationListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list <task-id>",
		Aliases: []string{"ls"},
		Short:   "List the relations of a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}

			out, err := c.ListTaskRelationsUseCase().Execute(cmd.Context(), usecase.ListTaskRelationsInput{
				Actor:  actor,
				TaskID: taskID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			printRelationList(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// printRelationList prints outgoing and incoming relations in one table.
func printRelationList(w io.Writer, out *usecase.ListTaskRelationsOutput) {
	tw := newTable(w)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tDIRECTION\tTYPE\tTASK\tSTATE\tTITLE")
	for _, v := range out.Outgoing {
		printRelationRow(tw, v, "outgoing", string(v.Relation.Type))
	}
	for _, v := range out.Incoming {
		printRelationRow(tw, v, "incoming", relationPassive(v.Relation.Type))
	}
}

func printRelationRow(w io.Writer, v usecase.RelationView, direction, label string) {
	other, state, title := "-", "-", "-"
	if v.Other != nil {
		other, state, title = v.Other.ID.String(), string(v.Other.State), v.Other.Title
	}
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", v.Relation.ID, direction, label, other, state, title)
}

// relationPassive names a relation as seen from its target task.
func relationPassive(t domain.RelationType) string {
	switch t {
	case domain.RelationBlocks:
		return "blocked_by"
	case domain.RelationFixes:
		return "fixed_by"
	case domain.RelationDuplicates:
		return "duplicated_by"
	default:
		return string(t)
	}
}
