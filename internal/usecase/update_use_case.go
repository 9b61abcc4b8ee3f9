package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// UpdateUseCaseInput contains the parameters for editing a use case.
// Nil fields are left unchanged.
type UpdateUseCaseInput struct {
	Title          *string
	Description    *string
	ImportantNotes *string
	Actor          domain.Actor
	UseCaseID      domain.ID
}

// UpdateUseCaseOutput contains the edited use case.
type UpdateUseCaseOutput struct {
	UseCase *domain.UseCase
}

// UpdateUseCase is the use case for editing a use case.
type UpdateUseCase struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateUseCase creates a new UpdateUseCase use case.
func NewUpdateUseCase(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *UpdateUseCase {
	return &UpdateUseCase{store: store, clock: clock, logger: logger}
}

// Execute edits the use case. Requires at least the Member role, an active
// project and an active module.
func (uc *UpdateUseCase) Execute(ctx context.Context, in UpdateUseCaseInput) (*UpdateUseCaseOutput, error) {
	if in.Title == nil && in.Description == nil && in.ImportantNotes == nil {
		return nil, domain.Invalid("use case", "no fields to update")
	}

	var a *shared.Ancestry
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		var err error
		a, err = shared.ResolveUseCase(ctx, sess, in.UseCaseID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireStructureEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		if !a.Module.Active {
			return domain.Violation(domain.ErrModuleInactive, a.Module.Title)
		}

		u := a.UseCase
		title, description, notes := u.Title, u.Description, u.ImportantNotes
		if in.Title != nil {
			title = *in.Title
		}
		if in.Description != nil {
			description = *in.Description
		}
		if in.ImportantNotes != nil {
			notes = *in.ImportantNotes
		}
		now := uc.clock.Now()
		if err := u.Update(title, description, notes, now); err != nil {
			return err
		}
		if err := sess.UseCases().Update(ctx, u); err != nil {
			return fmt.Errorf("update use case: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, u)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(a.Project.ID, "usecase", fmt.Sprintf("updated: %q", a.UseCase.Title))
	}

	return &UpdateUseCaseOutput{UseCase: a.UseCase}, nil
}
