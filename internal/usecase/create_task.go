package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// CreateTaskInput contains the parameters for creating a task.
// Fields are ordered to minimize memory padding.
type CreateTaskInput struct {
	Due         *time.Time // Due date (optional)
	Actor       domain.Actor
	UseCaseID   domain.ID
	Title       string
	Description string
	Type        domain.TaskType
}

// CreateTaskOutput contains the created task.
type CreateTaskOutput struct {
	Task *domain.Task
}

// CreateTask is the use case for adding a task to a use case.
type CreateTask struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateTask creates a new CreateTask use case.
func NewCreateTask(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *CreateTask {
	return &CreateTask{store: store, clock: clock, logger: logger}
}

// Execute creates a not-started task. Requires at least the Member role and
// an active project, module and use case.
func (uc *CreateTask) Execute(ctx context.Context, in CreateTaskInput) (*CreateTaskOutput, error) {
	if in.Type == "" {
		in.Type = domain.TaskTypeFeature
	}

	var task *domain.Task
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveUseCase(ctx, sess, in.UseCaseID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireStructureEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		if !a.Module.Active {
			return domain.Violation(domain.ErrModuleInactive, a.Module.Title)
		}
		if !a.UseCase.Active {
			return domain.Violation(domain.ErrUseCaseInactive, a.UseCase.Title)
		}

		now := uc.clock.Now()
		task, err = domain.NewTask(domain.NewID(), a.UseCase.ID, in.Actor.ID, in.Type, in.Title, in.Description, now)
		if err != nil {
			return err
		}
		if in.Due != nil {
			if err := task.SetDueDate(in.Due, now); err != nil {
				return err
			}
		}
		if err := sess.Tasks().Add(ctx, task); err != nil {
			return fmt.Errorf("add task: %w", err)
		}
		projectID = a.Project.ID
		ec := shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, task)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(projectID, "task", fmt.Sprintf("created %s: %q", task.ID.Short(), task.Title))
	}

	return &CreateTaskOutput{Task: task}, nil
}
