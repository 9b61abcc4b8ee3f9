package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// GetModuleInput contains the parameters for showing a module.
type GetModuleInput struct {
	Actor    domain.Actor
	ModuleID domain.ID
}

// GetModuleOutput contains the module and its project.
type GetModuleOutput struct {
	Module       *domain.Module
	Project      *domain.Project
	UseCaseCount int
}

// GetModule is the use case for showing a module.
type GetModule struct {
	store domain.UnitOfWork
}

// NewGetModule creates a new GetModule use case.
func NewGetModule(store domain.UnitOfWork) *GetModule {
	return &GetModule{store: store}
}

// Execute returns the module. Requires at least the Viewer role.
func (uc *GetModule) Execute(ctx context.Context, in GetModuleInput) (*GetModuleOutput, error) {
	out := &GetModuleOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveModule(ctx, sess, in.ModuleID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		count, err := sess.UseCases().CountByModule(ctx, a.Module.ID)
		if err != nil {
			return fmt.Errorf("count use cases: %w", err)
		}
		out.Module, out.Project, out.UseCaseCount = a.Module, a.Project, count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
