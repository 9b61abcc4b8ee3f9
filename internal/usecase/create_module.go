package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// CreateModuleInput contains the parameters for creating a module.
type CreateModuleInput struct {
	Actor       domain.Actor
	ProjectID   domain.ID
	Title       string
	Description string
}

// CreateModuleOutput contains the created module.
type CreateModuleOutput struct {
	Module *domain.Module
}

// CreateModule is the use case for adding a module to a project.
type CreateModule struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateModule creates a new CreateModule use case.
func NewCreateModule(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *CreateModule {
	return &CreateModule{store: store, clock: clock, logger: logger}
}

// Execute creates an active module. Requires at least the Member role and
// an active project.
func (uc *CreateModule) Execute(ctx context.Context, in CreateModuleInput) (*CreateModuleOutput, error) {
	var module *domain.Module
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireStructureEdit(ctx, in.Actor, project); err != nil {
			return err
		}

		now := uc.clock.Now()
		module, err = domain.NewModule(domain.NewID(), project.ID, in.Actor.ID, in.Title, in.Description, now)
		if err != nil {
			return err
		}
		if err := sess.Modules().Add(ctx, module); err != nil {
			return fmt.Errorf("add module: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, module)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(module.ProjectID, "module", fmt.Sprintf("created: %q", module.Title))
	}

	return &CreateModuleOutput{Module: module}, nil
}
