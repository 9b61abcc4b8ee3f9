// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// CreateProjectInput contains the parameters for creating a project.
type CreateProjectInput struct {
	Actor       domain.Actor // Creating user, becomes the Owner
	Title       string       // Project title (required)
	Description string       // Project description (optional)
}

// CreateProjectOutput contains the result of creating a project.
type CreateProjectOutput struct {
	Project *domain.Project
}

// CreateProject is the use case for creating a project.
type CreateProject struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateProject creates a new CreateProject use case.
func NewCreateProject(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *CreateProject {
	return &CreateProject{store: store, clock: clock, logger: logger}
}

// Execute creates an active project and materializes the creator as its
// Owner member.
func (uc *CreateProject) Execute(ctx context.Context, in CreateProjectInput) (*CreateProjectOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	now := uc.clock.Now()
	project, err := domain.NewProject(domain.NewID(), in.Actor.ID, in.Title, in.Description, now)
	if err != nil {
		return nil, err
	}
	owner, err := domain.NewProjectMember(project.ID, in.Actor.ID, domain.RoleOwner, now)
	if err != nil {
		return nil, err
	}

	err = shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		if err := sess.Projects().Add(ctx, project); err != nil {
			return fmt.Errorf("add project: %w", err)
		}
		if err := sess.Members().Add(ctx, owner); err != nil {
			return fmt.Errorf("add owner: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, project, owner)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(project.ID, "project", fmt.Sprintf("created: %q", project.Title))
	}

	return &CreateProjectOutput{Project: project}, nil
}
