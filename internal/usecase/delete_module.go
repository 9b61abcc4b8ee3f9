package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// DeleteModuleInput contains the parameters for deleting a module.
type DeleteModuleInput struct {
	Actor    domain.Actor
	ModuleID domain.ID
}

// DeleteModuleOutput contains the result of deleting a module.
type DeleteModuleOutput struct{}

// DeleteModule is the use case for deleting an empty module.
type DeleteModule struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteModule creates a new DeleteModule use case.
func NewDeleteModule(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *DeleteModule {
	return &DeleteModule{store: store, clock: clock, logger: logger}
}

// Execute deletes the module. Requires at least the Member role.
// A module that still has use cases cannot be deleted.
func (uc *DeleteModule) Execute(ctx context.Context, in DeleteModuleInput) (*DeleteModuleOutput, error) {
	var projectID domain.ID
	var title string
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveModule(ctx, sess, in.ModuleID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}

		count, err := sess.UseCases().CountByModule(ctx, a.Module.ID)
		if err != nil {
			return fmt.Errorf("count use cases: %w", err)
		}
		if count > 0 {
			return domain.Violation(domain.ErrModuleHasUseCases, fmt.Sprintf("%d use case(s)", count))
		}
		if err := sess.Modules().Remove(ctx, a.Module.ID); err != nil {
			return fmt.Errorf("remove module: %w", err)
		}

		projectID, title = a.Project.ID, a.Module.Title
		a.Module.MarkDeleted()
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.Module)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(projectID, "module", fmt.Sprintf("deleted: %q", title))
	}

	return &DeleteModuleOutput{}, nil
}
