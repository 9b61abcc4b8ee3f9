package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ChangeUseCaseStatusInput contains the parameters for archiving or
// activating a use case.
type ChangeUseCaseStatusInput struct {
	Actor     domain.Actor
	UseCaseID domain.ID
	Active    bool // true = activate, false = archive
}

// ChangeUseCaseStatusOutput contains the result of a status change.
type ChangeUseCaseStatusOutput struct {
	UseCase *domain.UseCase
	Changed bool
}

// ChangeUseCaseStatus is the use case for archiving and activating use cases.
type ChangeUseCaseStatus struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewChangeUseCaseStatus creates a new ChangeUseCaseStatus use case.
func NewChangeUseCaseStatus(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *ChangeUseCaseStatus {
	return &ChangeUseCaseStatus{store: store, clock: clock, logger: logger}
}

// Execute changes the use case status. Requires at least the Member role.
// Activation is rejected while the module or the project is archived.
func (uc *ChangeUseCaseStatus) Execute(ctx context.Context, in ChangeUseCaseStatusInput) (*ChangeUseCaseStatusOutput, error) {
	out := &ChangeUseCaseStatusOutput{}
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveUseCase(ctx, sess, in.UseCaseID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}

		now := uc.clock.Now()
		out.UseCase, projectID = a.UseCase, a.Project.ID
		if in.Active {
			if !a.Project.Active {
				return domain.Violation(domain.ErrProjectInactive, a.Project.Title)
			}
			out.Changed, err = shared.ActivateUseCase(ctx, sess, a.Module, a.UseCase, now)
		} else {
			out.Changed, err = shared.ArchiveUseCase(ctx, sess, a.UseCase, now)
		}
		if err != nil || !out.Changed {
			return err
		}
		ec := shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.UseCase)
	})
	if err != nil {
		return nil, err
	}

	if out.Changed && uc.logger != nil {
		uc.logger.Info(projectID, "usecase", fmt.Sprintf("status changed: %s", domain.StatusDisplay(out.UseCase.Active)))
	}

	return out, nil
}
