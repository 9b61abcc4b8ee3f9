package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// DeleteProjectInput contains the parameters for deleting a project.
type DeleteProjectInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
}

// DeleteProjectOutput contains the result of deleting a project.
type DeleteProjectOutput struct{}

// DeleteProject is the use case for deleting an empty project.
type DeleteProject struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteProject creates a new DeleteProject use case.
func NewDeleteProject(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *DeleteProject {
	return &DeleteProject{store: store, clock: clock, logger: logger}
}

// Execute deletes the project together with its memberships and invitations.
// Requires the Owner role. A project that still has modules cannot be deleted.
func (uc *DeleteProject) Execute(ctx context.Context, in DeleteProjectInput) (*DeleteProjectOutput, error) {
	var title string
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireOwner(ctx, in.Actor, project); err != nil {
			return err
		}

		count, err := sess.Modules().CountByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("count modules: %w", err)
		}
		if count > 0 {
			return domain.Violation(domain.ErrProjectHasModules, fmt.Sprintf("%d module(s)", count))
		}

		members, err := sess.Members().ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		for _, m := range members {
			if err := sess.Members().Remove(ctx, m.ProjectID, m.UserID); err != nil {
				return fmt.Errorf("remove member: %w", err)
			}
		}
		if err := sess.Invitations().RemoveByProject(ctx, project.ID); err != nil {
			return fmt.Errorf("remove invitations: %w", err)
		}
		if err := sess.Projects().Remove(ctx, project.ID); err != nil {
			return fmt.Errorf("remove project: %w", err)
		}

		title = project.Title
		project.MarkDeleted()
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, project)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.ProjectID, "project", fmt.Sprintf("deleted: %q", title))
	}

	return &DeleteProjectOutput{}, nil
}
