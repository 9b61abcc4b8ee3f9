package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// AssignAndStartTaskInput contains the parameters for assigning and starting a task.
type AssignAndStartTaskInput struct {
	Actor      domain.Actor
	TaskID     domain.ID
	AssigneeID domain.ID // empty = the actor
}

// AssignAndStartTaskOutput contains the started task.
type AssignAndStartTaskOutput struct {
	Task     *domain.Task
	Assignee *domain.User
}

// AssignAndStartTask is the use case for assigning a task and moving it to
// in_progress in one step.
type AssignAndStartTask struct {
	store  domain.UnitOfWork
	users  domain.UserDirectory
	clock  domain.Clock
	logger domain.Logger
}

// NewAssignAndStartTask creates a new AssignAndStartTask use case.
func NewAssignAndStartTask(store domain.UnitOfWork, users domain.UserDirectory, clock domain.Clock, logger domain.Logger) *AssignAndStartTask {
	return &AssignAndStartTask{store: store, users: users, clock: clock, logger: logger}
}

// Execute assigns and starts the task. Requires at least the Member role.
// The assignee must be a registered user with access to the project.
func (uc *AssignAndStartTask) Execute(ctx context.Context, in AssignAndStartTaskInput) (*AssignAndStartTaskOutput, error) {
	assigneeID := in.AssigneeID
	if assigneeID.IsZero() {
		assigneeID = in.Actor.ID
	}

	out := &AssignAndStartTaskOutput{}
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		resolver := authz.NewResolver(sess.Members())
		if _, err := resolver.RequireAssign(ctx, in.Actor, a.Project); err != nil {
			return err
		}

		assignee, err := shared.GetUser(ctx, uc.users, assigneeID)
		if err != nil {
			return err
		}
		role, err := resolver.Role(ctx, assignee.Actor(), a.Project)
		if err != nil {
			return err
		}
		if !authz.CanAccessProject(role) {
			return domain.Violation(domain.ErrAssigneeNoAccess, assignee.Email)
		}

		now := uc.clock.Now()
		if err := a.Task.AssignAndStart(assignee.ID, now); err != nil {
			return err
		}
		if err := sess.Tasks().Update(ctx, a.Task); err != nil {
			return fmt.Errorf("update task: %w", err)
		}

		out.Task, out.Assignee, projectID = a.Task, assignee, a.Project.ID
		ec := shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.Task)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(projectID, "task", fmt.Sprintf("%s started by %s", out.Task.ID.Short(), out.Assignee.Email))
	}

	return out, nil
}
