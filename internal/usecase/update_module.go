package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// UpdateModuleInput contains the parameters for editing a module.
// Nil fields are left unchanged.
type UpdateModuleInput struct {
	Title       *string
	Description *string
	Actor       domain.Actor
	ModuleID    domain.ID
}

// UpdateModuleOutput contains the edited module.
type UpdateModuleOutput struct {
	Module *domain.Module
}

// UpdateModule is the use case for editing a module.
type UpdateModule struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateModule creates a new UpdateModule use case.
func NewUpdateModule(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *UpdateModule {
	return &UpdateModule{store: store, clock: clock, logger: logger}
}

// Execute edits the module. Requires at least the Member role and an
// active project.
func (uc *UpdateModule) Execute(ctx context.Context, in UpdateModuleInput) (*UpdateModuleOutput, error) {
	if in.Title == nil && in.Description == nil {
		return nil, domain.Invalid("module", "no fields to update")
	}

	var module *domain.Module
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveModule(ctx, sess, in.ModuleID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireStructureEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}

		module = a.Module
		title, description := module.Title, module.Description
		if in.Title != nil {
			title = *in.Title
		}
		if in.Description != nil {
			description = *in.Description
		}
		now := uc.clock.Now()
		if err := module.Update(title, description, now); err != nil {
			return err
		}
		if err := sess.Modules().Update(ctx, module); err != nil {
			return fmt.Errorf("update module: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, module)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(module.ProjectID, "module", fmt.Sprintf("updated: %q", module.Title))
	}

	return &UpdateModuleOutput{Module: module}, nil
}
