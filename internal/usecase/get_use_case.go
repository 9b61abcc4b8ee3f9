package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// GetUseCaseInput contains the parameters for showing a use case.
type GetUseCaseInput struct {
	Actor     domain.Actor
	UseCaseID domain.ID
}

// GetUseCaseOutput contains the use case and its ancestry.
type GetUseCaseOutput struct {
	UseCase   *domain.UseCase
	Module    *domain.Module
	Project   *domain.Project
	TaskCount int
}

// GetUseCase is the use case for showing a use case.
type GetUseCase struct {
	store domain.UnitOfWork
}

// NewGetUseCase creates a new GetUseCase use case.
func NewGetUseCase(store domain.UnitOfWork) *GetUseCase {
	return &GetUseCase{store: store}
}

// Execute returns the use case. Requires at least the Viewer role.
func (uc *GetUseCase) Execute(ctx context.Context, in GetUseCaseInput) (*GetUseCaseOutput, error) {
	out := &GetUseCaseOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveUseCase(ctx, sess, in.UseCaseID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		count, err := sess.Tasks().CountByUseCase(ctx, a.UseCase.ID)
		if err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		out.UseCase, out.Module, out.Project, out.TaskCount = a.UseCase, a.Module, a.Project, count
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
