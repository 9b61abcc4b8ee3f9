package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// GetTaskInput contains the parameters for showing a task.
type GetTaskInput struct {
	Actor  domain.Actor
	TaskID domain.ID
}

// GetTaskOutput contains the task, its ancestry and its relations.
// Fields are ordered to minimize memory padding.
type GetTaskOutput struct {
	Task     *domain.Task
	UseCase  *domain.UseCase
	Module   *domain.Module
	Project  *domain.Project
	Outgoing []*domain.TaskRelation
	Incoming []*domain.TaskRelation
	Blockers []domain.ID // Unresolved tasks blocking completion
	Role     domain.Role // Actor's effective role in the project
	Overdue  bool
}

// GetTask is the use case for showing a task.
type GetTask struct {
	store domain.UnitOfWork
	clock domain.Clock
}

// NewGetTask creates a new GetTask use case.
func NewGetTask(store domain.UnitOfWork, clock domain.Clock) *GetTask {
	return &GetTask{store: store, clock: clock}
}

// Execute returns the task. Requires at least the Viewer role, or being
// the task's assignee.
func (uc *GetTask) Execute(ctx context.Context, in GetTaskInput) (*GetTaskOutput, error) {
	out := &GetTaskOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		out.Role, err = authz.NewResolver(sess.Members()).RequireTaskView(ctx, in.Actor, a.Project, a.Task)
		if err != nil {
			return err
		}

		out.Outgoing, err = sess.Relations().ListBySource(ctx, a.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		out.Incoming, err = sess.Relations().ListByTarget(ctx, a.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		out.Blockers, err = shared.Blockers(ctx, sess, a.Task)
		if err != nil {
			return err
		}

		out.Task, out.UseCase, out.Module, out.Project = a.Task, a.UseCase, a.Module, a.Project
		out.Overdue = a.Task.IsOverdue(uc.clock.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
