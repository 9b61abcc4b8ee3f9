package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// CreateUseCaseInput contains the parameters for creating a use case.
type CreateUseCaseInput struct {
	Actor          domain.Actor
	ModuleID       domain.ID
	Title          string
	Description    string
	ImportantNotes string
}

// CreateUseCaseOutput contains the created use case.
type CreateUseCaseOutput struct {
	UseCase *domain.UseCase
}

// CreateUseCase is the use case for adding a use case to a module.
type CreateUseCase struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewCreateUseCase creates a new CreateUseCase use case.
func NewCreateUseCase(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *CreateUseCase {
	return &CreateUseCase{store: store, clock: clock, logger: logger}
}

// Execute creates an active use case. Requires at least the Member role,
// an active project and an active module.
func (uc *CreateUseCase) Execute(ctx context.Context, in CreateUseCaseInput) (*CreateUseCaseOutput, error) {
	var useCase *domain.UseCase
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveModule(ctx, sess, in.ModuleID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireStructureEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		if !a.Module.Active {
			return domain.Violation(domain.ErrModuleInactive, a.Module.Title)
		}

		now := uc.clock.Now()
		useCase, err = domain.NewUseCase(domain.NewID(), a.Module.ID, in.Actor.ID, in.Title, in.Description, in.ImportantNotes, now)
		if err != nil {
			return err
		}
		if err := sess.UseCases().Add(ctx, useCase); err != nil {
			return fmt.Errorf("add use case: %w", err)
		}
		projectID = a.Project.ID
		ec := shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, useCase)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(projectID, "usecase", fmt.Sprintf("created: %q", useCase.Title))
	}

	return &CreateUseCaseOutput{UseCase: useCase}, nil
}
