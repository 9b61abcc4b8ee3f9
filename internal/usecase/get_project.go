package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// GetProjectInput contains the parameters for showing a project.
type GetProjectInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
}

// GetProjectOutput contains the project and the caller's view of it.
type GetProjectOutput struct {
	Project     *domain.Project
	Role        domain.Role // Actor's effective role
	ModuleCount int
}

// GetProject is the use case for showing a project.
type GetProject struct {
	store domain.UnitOfWork
}

// NewGetProject creates a new GetProject use case.
func NewGetProject(store domain.UnitOfWork) *GetProject {
	return &GetProject{store: store}
}

// Execute returns the project. Requires at least the Viewer role.
func (uc *GetProject) Execute(ctx context.Context, in GetProjectInput) (*GetProjectOutput, error) {
	out := &GetProjectOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		role, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, project)
		if err != nil {
			return err
		}
		count, err := sess.Modules().CountByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("count modules: %w", err)
		}
		out.Project = project
		out.Role = role
		out.ModuleCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
