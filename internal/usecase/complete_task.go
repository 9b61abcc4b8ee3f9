package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	Actor  domain.Actor
	TaskID domain.ID
	Note   string // Completion note (optional)
}

// CompleteTaskOutput contains the completed task.
type CompleteTaskOutput struct {
	Task *domain.Task
}

// CompleteTask is the use case for marking a task as completed.
type CompleteTask struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *CompleteTask {
	return &CompleteTask{store: store, clock: clock, logger: logger}
}

// Execute completes the task. Requires edit rights on the task.
// A task without an assignee, or blocked by a task that is neither
// completed nor cancelled, cannot be completed.
func (uc *CompleteTask) Execute(ctx context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	var a *shared.Ancestry
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		var err error
		a, err = shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireTaskEdit(ctx, in.Actor, a.Project, a.Task); err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := shared.CompleteTask(ctx, sess, a.Task, in.Note, now); err != nil {
			return err
		}
		ec := shared.EventContext{Now: now, ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.Task)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(a.Project.ID, "task", fmt.Sprintf("%s completed", a.Task.ID.Short()))
	}

	return &CompleteTaskOutput{Task: a.Task}, nil
}
