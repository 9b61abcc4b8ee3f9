package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	Actor  domain.Actor
	TaskID domain.ID
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	RemovedRelations int
}

// DeleteTask is the use case for deleting a task.
type DeleteTask struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *DeleteTask {
	return &DeleteTask{store: store, clock: clock, logger: logger}
}

// Execute deletes the task and every relation that starts or ends at it.
// Requires at least the Member role, or being the task's creator.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	out := &DeleteTaskOutput{}
	var a *shared.Ancestry
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		var err error
		a, err = shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireTaskDelete(ctx, in.Actor, a.Project, a.Task); err != nil {
			return err
		}

		outgoing, err := sess.Relations().ListBySource(ctx, a.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		incoming, err := sess.Relations().ListByTarget(ctx, a.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		for _, r := range append(outgoing, incoming...) {
			if err := sess.Relations().Remove(ctx, r.ID); err != nil {
				return fmt.Errorf("remove relation: %w", err)
			}
			out.RemovedRelations++
		}
		if err := sess.Tasks().Remove(ctx, a.Task.ID); err != nil {
			return fmt.Errorf("remove task: %w", err)
		}

		a.Task.MarkDeleted()
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.Task)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(a.Project.ID, "task", fmt.Sprintf("deleted %s: %q", a.Task.ID.Short(), a.Task.Title))
	}

	return out, nil
}
