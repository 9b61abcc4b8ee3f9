package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// UpdateTaskInput contains the parameters for editing a task.
// Nil fields are left unchanged.
// Fields are ordered to minimize memory padding.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	ImportantNotes *string
	Type           *domain.TaskType
	Due            *time.Time // New due date
	Actor          domain.Actor
	TaskID         domain.ID
	ClearDue       bool // Remove the due date
}

// UpdateTaskOutput contains the edited task.
type UpdateTaskOutput struct {
	Task *domain.Task
}

// UpdateTask is the use case for editing a task.
type UpdateTask struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *UpdateTask {
	return &UpdateTask{store: store, clock: clock, logger: logger}
}

// Execute edits the task. Requires edit rights on the task: at least the
// Member role, or being its assignee.
func (uc *UpdateTask) Execute(ctx context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	if in.Title == nil && in.Description == nil && in.ImportantNotes == nil && in.Type == nil && in.Due == nil && !in.ClearDue {
		return nil, domain.Invalid("task", "no fields to update")
	}
	if in.Due != nil && in.ClearDue {
		return nil, domain.Invalid("due date", "cannot set and clear the due date at once")
	}

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

		t := a.Task
		typ, title, description, notes := t.Type, t.Title, t.Description, t.ImportantNotes
		if in.Type != nil {
			typ = *in.Type
		}
		if in.Title != nil {
			title = *in.Title
		}
		if in.Description != nil {
			description = *in.Description
		}
		if in.ImportantNotes != nil {
			notes = *in.ImportantNotes
		}

		now := uc.clock.Now()
		if err := t.Update(typ, title, description, notes, now); err != nil {
			return err
		}
		switch {
		case in.ClearDue:
			err = t.SetDueDate(nil, now)
		case in.Due != nil:
			err = t.SetDueDate(in.Due, now)
		}
		if err != nil {
			return err
		}
		if err := sess.Tasks().Update(ctx, t); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, t)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(a.Project.ID, "task", fmt.Sprintf("updated %s: %q", a.Task.ID.Short(), a.Task.Title))
	}

	return &UpdateTaskOutput{Task: a.Task}, nil
}
