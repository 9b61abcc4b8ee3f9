package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// DeleteUseCaseInput contains the parameters for deleting a use case.
type DeleteUseCaseInput struct {
	Actor     domain.Actor
	UseCaseID domain.ID
}

// DeleteUseCaseOutput contains the result of deleting a use case.
type DeleteUseCaseOutput struct{}

// DeleteUseCase is the use case for deleting an empty use case.
type DeleteUseCase struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewDeleteUseCase creates a new DeleteUseCase use case.
func NewDeleteUseCase(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *DeleteUseCase {
	return &DeleteUseCase{store: store, clock: clock, logger: logger}
}

// Execute deletes the use case. Requires at least the Member role.
// A use case that still has tasks cannot be deleted.
func (uc *DeleteUseCase) Execute(ctx context.Context, in DeleteUseCaseInput) (*DeleteUseCaseOutput, error) {
	var a *shared.Ancestry
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		var err error
		a, err = shared.ResolveUseCase(ctx, sess, in.UseCaseID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}

		count, err := sess.Tasks().CountByUseCase(ctx, a.UseCase.ID)
		if err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		if count > 0 {
			return domain.Violation(domain.ErrUseCaseHasTasks, fmt.Sprintf("%d task(s)", count))
		}
		if err := sess.UseCases().Remove(ctx, a.UseCase.ID); err != nil {
			return fmt.Errorf("remove use case: %w", err)
		}

		a.UseCase.MarkDeleted()
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.UseCase)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(a.Project.ID, "usecase", fmt.Sprintf("deleted: %q", a.UseCase.Title))
	}

	return &DeleteUseCaseOutput{}, nil
}
