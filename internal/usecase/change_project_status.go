package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ChangeProjectStatusInput contains the parameters for archiving or
// activating a project.
type ChangeProjectStatusInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
	Active    bool // true = activate, false = archive
}

// ChangeProjectStatusOutput contains the result of a status change.
type ChangeProjectStatusOutput struct {
	Project *domain.Project
	Changed bool // false when the project was already in the requested state
}

// ChangeProjectStatus is the use case for archiving and activating projects.
// Archiving a project does not touch its modules; they become unusable
// because every structural change checks the project status.
type ChangeProjectStatus struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewChangeProjectStatus creates a new ChangeProjectStatus use case.
func NewChangeProjectStatus(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *ChangeProjectStatus {
	return &ChangeProjectStatus{store: store, clock: clock, logger: logger}
}

// Execute changes the project status. Requires the Owner role.
func (uc *ChangeProjectStatus) Execute(ctx context.Context, in ChangeProjectStatusInput) (*ChangeProjectStatusOutput, error) {
	var project *domain.Project
	var changed bool
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		var err error
		project, err = shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireOwner(ctx, in.Actor, project); err != nil {
			return err
		}

		now := uc.clock.Now()
		if changed = project.SetActive(in.Active, now); !changed {
			return nil
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

	if changed && uc.logger != nil {
		uc.logger.Info(project.ID, "project", fmt.Sprintf("status changed: %s", domain.StatusDisplay(project.Active)))
	}

	return &ChangeProjectStatusOutput{Project: project, Changed: changed}, nil
}
