package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// UpdateProjectInput contains the parameters for editing a project.
// Nil fields are left unchanged.
type UpdateProjectInput struct {
	Title       *string
	Description *string
	Actor       domain.Actor
	ProjectID   domain.ID
}

// UpdateProjectOutput contains the result of editing a project.
type UpdateProjectOutput struct {
	Project *domain.Project
}

// UpdateProject is the use case for editing a project's title and description.
type UpdateProject struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateProject creates a new UpdateProject use case.
func NewUpdateProject(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *UpdateProject {
	return &UpdateProject{store: store, clock: clock, logger: logger}
}

// Execute updates the project. Requires at least the Member role.
func (uc *UpdateProject) Execute(ctx context.Context, in UpdateProjectInput) (*UpdateProjectOutput, error) {
	if in.Title == nil && in.Description == nil {
		return nil, domain.Invalid("project", "no fields to update")
	}

	var project *domain.Project
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		var err error
		project, err = shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireEdit(ctx, in.Actor, project); err != nil {
			return err
		}

		title, description := project.Title, project.Description
		if in.Title != nil {
			title = *in.Title
		}
		if in.Description != nil {
			description = *in.Description
		}
		now := uc.clock.Now()
		if err := project.Update(title, description, now); err != nil {
			return err
		}
		if err := sess.Projects().Update(ctx, project); err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, project)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(project.ID, "project", fmt.Sprintf("updated: %q", project.Title))
	}

	return &UpdateProjectOutput{Project: project}, nil
}
