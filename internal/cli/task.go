package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/te4it/te4it/internal/app"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase"
)

// newTaskCommand creates the task command.
func newTaskCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Manage tasks",
		Long: `Manage the tasks of a use case.

Workflow:
  not_started -> in_progress -> completed
  any unfinished state -> cancelled
  any state -> not_started (revert)

A task cannot be completed while a task that blocks it is unresolved.
Task types: feature, bug, test, documentation.`,
	}

	cmd.AddCommand(
		newTaskCreateCommand(c, gopts),
		newTaskUpdateCommand(c, gopts),
		newTaskStartCommand(c, gopts),
		newTaskCompleteCommand(c, gopts),
		newTaskStateCommand(c, gopts),
		newTaskDeleteCommand(c, gopts),
		newTaskShowCommand(c, gopts),
		newTaskListCommand(c, gopts),
	)

	return cmd
}

func newTaskCreateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Description string
		Type        string
		Due         string
	}

	cmd := &cobra.Command{
		Use:   "create <usecase-id> <title>",
		Short: "Create a task in a use case",
		Long: `Create a task in an active use case. Requires the Member role.

Examples:
  # Create a feature task
  te4it task create <usecase-id> "Send reset email"

  # Create a bug with a due date
  te4it task create <usecase-id> "Link expires too early" --type bug --due 2026-11-01`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			useCaseID, err := parseIDArg("use case", args[0])
			if err != nil {
				return err
			}
			typ, err := domain.ParseTaskType(opts.Type)
			if err != nil {
				return err
			}
			input := usecase.CreateTaskInput{
				Actor:       actor,
				UseCaseID:   useCaseID,
				Title:       args[1],
				Description: opts.Description,
				Type:        typ,
			}
			if opts.Due != "" {
				due, err := parseDue(opts.Due)
				if err != nil {
					return err
				}
				input.Due = &due
			}

			out, err := c.CreateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&opts.Type, "type", string(domain.TaskTypeFeature), "Task type: feature, bug, test, documentation")
	cmd.Flags().StringVar(&opts.Due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")

	return cmd
}

func newTaskUpdateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Notes       string
		Type        string
		Due         string
		ClearDue    bool
	}

	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Long: `Update a task's title, description, notes, type or due date.

Only the given flags are changed. Use --clear-due to remove the due date.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}
			if opts.ClearDue && opts.Due != "" {
				return errors.New("--due and --clear-due cannot be used together")
			}

			input := usecase.UpdateTaskInput{
				Actor:          actor,
				TaskID:         taskID,
				Title:          optionalString(cmd, "title", opts.Title),
				Description:    optionalString(cmd, "description", opts.Description),
				ImportantNotes: optionalString(cmd, "notes", opts.Notes),
				ClearDue:       opts.ClearDue,
			}
			if cmd.Flags().Changed("type") {
				typ, err := domain.ParseTaskType(opts.Type)
				if err != nil {
					return err
				}
				input.Type = &typ
			}
			if opts.Due != "" {
				due, err := parseDue(opts.Due)
				if err != nil {
					return err
				}
				input.Due = &due
			}

			out, err := c.UpdateTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "New important notes")
	cmd.Flags().StringVar(&opts.Type, "type", "", "New task type")
	cmd.Flags().StringVar(&opts.Due, "due", "", "New due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().BoolVar(&opts.ClearDue, "clear-due", false, "Remove the due date")

	return cmd
}

func newTaskStartCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var assignee string

	cmd := &cobra.Command{
		Use:   "start <task-id>",
		Short: "Assign a task and start it",
		Long: `Assign a not-started task and move it to in_progress.

The assignee defaults to the acting user and must be a Member or Owner
of the project.

Examples:
  te4it task start <task-id>
  te4it task start <task-id> --assignee bob@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}
			var assigneeID domain.ID
			if assignee != "" {
				if assigneeID, err = resolveUser(cmd.Context(), c, assignee); err != nil {
					return err
				}
			}

			out, err := c.AssignAndStartTaskUseCase().Execute(cmd.Context(), usecase.AssignAndStartTaskInput{
				Actor:      actor,
				TaskID:     taskID,
				AssigneeID: assigneeID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started task %s, assigned to %s\n", out.Task.ID, userLabel(out.Assignee))
			return nil
		},
	}

	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "Assignee id or email (default: acting user)")

	return cmd
}

func newTaskCompleteCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Complete an in-progress task",
		Long: `Complete an in-progress task.

Fails while any task that blocks this one is neither completed nor cancelled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}

			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{
				Actor:  actor,
				TaskID: taskID,
				Note:   note,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "m", "", "Completion note")

	return cmd
}

func newTaskStateCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "state <task-id> <state>",
		Short: "Move a task to another state",
		Long: `Move a task to another workflow state.

States: not_started, in_progress, completed, cancelled.
Moving to in_progress keeps the current assignee; use "task start" to assign.

Examples:
  te4it task state <task-id> cancelled
  te4it task state <task-id> not_started`,
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
			state, err := domain.ParseTaskState(args[1])
			if err != nil {
				return err
			}

			out, err := c.ChangeTaskStateUseCase().Execute(cmd.Context(), usecase.ChangeTaskStateInput{
				Actor:  actor,
				TaskID: taskID,
				State:  state,
				Note:   note,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			if !out.Changed {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already %s\n", out.Task.ID, out.Task.State.Display())
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s: %s -> %s\n", out.Task.ID, out.From.Display(), out.Task.State.Display())
			return nil
		},
	}

	cmd.Flags().StringVarP(&note, "note", "m", "", "Completion note (when moving to completed)")

	return cmd
}

func newTaskDeleteCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <task-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task and every relation that touches it.
Requires the Member role, or a Viewer who created the task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}

			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{
				Actor:  actor,
				TaskID: taskID,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", taskID)
			if out.RemovedRelations > 0 {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d relation(s)\n", out.RemovedRelations)
			}
			return nil
		},
	}
}

func newTaskShowCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, err := currentActor(cmd.Context(), c, gopts)
			if err != nil {
				return err
			}
			taskID, err := parseIDArg("task", args[0])
			if err != nil {
				return err
			}

			out, err := c.GetTaskUseCase().Execute(cmd.Context(), usecase.GetTaskInput{
				Actor:  actor,
				TaskID: taskID,
			})
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Task)
			}
			printTaskDetails(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// printTaskDetails prints a task with its ancestry and relations.
func printTaskDetails(w io.Writer, out *usecase.GetTaskOutput) {
	task := out.Task

	_, _ = fmt.Fprintln(w, headingStyle.Render("# Task: "+task.Title))
	_, _ = fmt.Fprintln(w)

	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "%s\n\n", task.Description)
	}

	_, _ = fmt.Fprintln(w, field("ID", task.ID.String()))
	_, _ = fmt.Fprintln(w, field("State", stateStyle(task.State).Render(task.State.Display())))
	_, _ = fmt.Fprintln(w, field("Type", string(task.Type)))
	_, _ = fmt.Fprintln(w, field("Project", fmt.Sprintf("%s (%s)", out.Project.Title, out.Project.ID)))
	_, _ = fmt.Fprintln(w, field("Module", fmt.Sprintf("%s (%s)", out.Module.Title, out.Module.ID)))
	_, _ = fmt.Fprintln(w, field("Use case", fmt.Sprintf("%s (%s)", out.UseCase.Title, out.UseCase.ID)))
	_, _ = fmt.Fprintln(w, field("Assignee", idOrDash(task.AssigneeID)))
	_, _ = fmt.Fprintln(w, field("Created", formatTime(task.Created)))
	if task.Started != nil {
		_, _ = fmt.Fprintln(w, field("Started", formatTime(*task.Started)))
	}
	if task.Due != nil {
		due := formatTime(*task.Due)
		if out.Overdue {
			due += " " + warningStyle.Render("(overdue)")
		}
		_, _ = fmt.Fprintln(w, field("Due", due))
	}

	if task.ImportantNotes != "" {
		_, _ = fmt.Fprintln(w, "\nImportant notes:")
		_, _ = fmt.Fprintln(w, indent(task.ImportantNotes))
	}
	if task.CompletionNote != "" {
		_, _ = fmt.Fprintln(w, "\nCompletion note:")
		_, _ = fmt.Fprintln(w, indent(task.CompletionNote))
	}

	if len(out.Outgoing) > 0 || len(out.Incoming) > 0 {
		_, _ = fmt.Fprintln(w, "\nRelations:")
		for _, r := range out.Outgoing {
			_, _ = fmt.Fprintf(w, "  %s %s\n", r.Type, r.TargetID)
		}
		for _, r := range out.Incoming {
			_, _ = fmt.Fprintf(w, "  %s by %s\n", relationPassive(r.Type), r.SourceID)
		}
	}

	if len(out.Blockers) > 0 {
		ids := make([]string, 0, len(out.Blockers))
		for _, id := range out.Blockers {
			ids = append(ids, id.String())
		}
		_, _ = fmt.Fprintln(w, "\n"+warningStyle.Render("Blocked by: "+strings.Join(ids, ", ")))
	}
}

func newTaskListCommand(c *app.Container, gopts *globalOptions) *cobra.Command {
	var opts struct {
		State    string
		Type     string
		Assignee string
		Page     domain.Page
		Overdue  bool
	}

	cmd := &cobra.Command{
		Use:     "list <usecase-id>",
		Aliases: []string{"ls"},
		Short:   "List the tasks of a use case",
		Long: `List the tasks of a use case, oldest first.

Examples:
  # Everything in progress
  te4it task list <usecase-id> --state in_progress

  # Overdue bugs assigned to Bob
  te4it task list <usecase-id> --type bug --assignee bob@example.com --overdue`,
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

			input := usecase.ListTasksInput{
				Actor:       actor,
				UseCaseID:   useCaseID,
				Page:        opts.Page,
				OverdueOnly: opts.Overdue,
			}
			if opts.State != "" {
				state, err := domain.ParseTaskState(opts.State)
				if err != nil {
					return err
				}
				input.State = &state
			}
			if opts.Type != "" {
				typ, err := domain.ParseTaskType(opts.Type)
				if err != nil {
					return err
				}
				input.Type = &typ
			}
			if opts.Assignee != "" {
				if input.AssigneeID, err = resolveUser(cmd.Context(), c, opts.Assignee); err != nil {
					return err
				}
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if gopts.JSON {
				return printJSON(cmd.OutOrStdout(), out.Tasks)
			}
			printTaskList(cmd.OutOrStdout(), out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.State, "state", "", "Filter by state")
	cmd.Flags().StringVar(&opts.Type, "type", "", "Filter by type")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Filter by assignee id or email")
	cmd.Flags().BoolVar(&opts.Overdue, "overdue", false, "Only overdue tasks")
	addPageFlags(cmd, &opts.Page)

	return cmd
}

// printTaskList prints tasks in a table.
func printTaskList(w io.Writer, tasks []usecase.TaskSummary) {
	tw := newTable(w)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATE\tTYPE\tASSIGNEE\tDUE\tTITLE")
	for _, s := range tasks {
		t := s.Task
		due := formatOptionalTime(t.Due)
		if s.Overdue {
			due += " (overdue)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.State, t.Type, assigneeShort(t.AssigneeID), due, t.Title)
	}
}

func assigneeShort(id domain.ID) string {
	if id.IsZero() {
		return "-"
	}
	return id.Short()
}
