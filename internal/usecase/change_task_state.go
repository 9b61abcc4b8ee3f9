package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ChangeTaskStateInput contains the parameters for a task state change.
type ChangeTaskStateInput struct {
	Actor  domain.Actor
	TaskID domain.ID
	State  domain.TaskState // Target state
	Note   string           // Completion note, used when State is completed
}

// ChangeTaskStateOutput contains the result of a state change.
type ChangeTaskStateOutput struct {
	Task    *domain.Task
	From    domain.TaskState
	Changed bool // false when a revert found the task already not started
}

// ChangeTaskState is the use case for moving a task through the workflow.
//
// Transitions:
//   - in_progress: starts the task for its current assignee
//   - completed: same rules as CompleteTask
//   - cancelled: from not_started or in_progress
//   - not_started: reverts from any other state
type ChangeTaskState struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewChangeTaskState creates a new ChangeTaskState use case.
func NewChangeTaskState(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *ChangeTaskState {
	return &ChangeTaskState{store: store, clock: clock, logger: logger}
}

// Execute applies the transition. Requires edit rights on the task.
func (uc *ChangeTaskState) Execute(ctx context.Context, in ChangeTaskStateInput) (*ChangeTaskStateOutput, error) {
	if !in.State.IsValid() {
		return nil, domain.Invalid("state", "unknown state %q", in.State)
	}

	out := &ChangeTaskStateOutput{}
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireTaskEdit(ctx, in.Actor, a.Project, a.Task); err != nil {
			return err
		}

		t := a.Task
		now := uc.clock.Now()
		out.Task, out.From, projectID = t, t.State, a.Project.ID
		switch in.State {
		case domain.StateInProgress:
			if !t.IsAssigned() {
				return domain.Violation(domain.ErrTaskUnassigned, "use assign-and-start")
			}
			err = t.AssignAndStart(t.AssigneeID, now)
		case domain.StateCompleted:
			if err := shared.CompleteTask(ctx, sess, t, in.Note, now); err != nil {
				return err
			}
			out.Changed = true
			return shared.CaptureEvents(ctx, sess, shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}, t)
		case domain.StateCancelled:
			err = t.Cancel(now)
		case domain.StateNotStarted:
			if !t.Revert(now) {
				return nil
			}
		}
		if err != nil {
			return err
		}
		out.Changed = true

		if err := sess.Tasks().Update(ctx, t); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, t)
	})
	if err != nil {
		return nil, err
	}

	if out.Changed && uc.logger != nil {
		uc.logger.Info(projectID, "task", fmt.Sprintf("%s: %s -> %s", out.Task.ID.Short(), out.From, out.Task.State))
	}

	return out, nil
}
