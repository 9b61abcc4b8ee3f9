package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListModulesInput contains the parameters for listing a project's modules.
type ListModulesInput struct {
	Active    *bool // nil = any status
	Actor     domain.Actor
	ProjectID domain.ID
	Page      domain.Page
}

// ListModulesOutput contains the modules in creation order.
type ListModulesOutput struct {
	Modules []*domain.Module
}

// ListModules is the use case for listing modules.
type ListModules struct {
	store domain.UnitOfWork
}

// NewListModules creates a new ListModules use case.
func NewListModules(store domain.UnitOfWork) *ListModules {
	return &ListModules{store: store}
}

// Execute lists modules. Requires at least the Viewer role.
func (uc *ListModules) Execute(ctx context.Context, in ListModulesInput) (*ListModulesOutput, error) {
	out := &ListModulesOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, project); err != nil {
			return err
		}
		out.Modules, err = sess.Modules().ListByProject(ctx, project.ID, domain.StatusFilter{Active: in.Active, Page: in.Page})
		if err != nil {
			return fmt.Errorf("list modules: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
