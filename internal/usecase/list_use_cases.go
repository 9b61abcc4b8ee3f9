package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListUseCasesInput contains the parameters for listing a module's use cases.
type ListUseCasesInput struct {
	Active   *bool // nil = any status
	Actor    domain.Actor
	ModuleID domain.ID
	Page     domain.Page
}

// ListUseCasesOutput contains the use cases in creation order.
type ListUseCasesOutput struct {
	UseCases []*domain.UseCase
}

// ListUseCases is the use case for listing use cases.
type ListUseCases struct {
	store domain.UnitOfWork
}

// NewListUseCases creates a new ListUseCases use case.
func NewListUseCases(store domain.UnitOfWork) *ListUseCases {
	return &ListUseCases{store: store}
}

// Execute lists use cases. Requires at least the Viewer role.
func (uc *ListUseCases) Execute(ctx context.Context, in ListUseCasesInput) (*ListUseCasesOutput, error) {
	out := &ListUseCasesOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveModule(ctx, sess, in.ModuleID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		out.UseCases, err = sess.UseCases().ListByModule(ctx, a.Module.ID, domain.StatusFilter{Active: in.Active, Page: in.Page})
		if err != nil {
			return fmt.Errorf("list use cases: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
