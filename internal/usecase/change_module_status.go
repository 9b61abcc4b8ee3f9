package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ChangeModuleStatusInput contains the parameters for archiving or
// activating a module.
type ChangeModuleStatusInput struct {
	Actor    domain.Actor
	ModuleID domain.ID
	Active   bool // true = activate, false = archive
}

// ChangeModuleStatusOutput contains the result of a status change.
type ChangeModuleStatusOutput struct {
	Module   *domain.Module
	Archived []*domain.UseCase // Use cases archived along with the module
	Changed  bool
}

// ChangeModuleStatus is the use case for archiving and activating modules.
type ChangeModuleStatus struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewChangeModuleStatus creates a new ChangeModuleStatus use case.
func NewChangeModuleStatus(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *ChangeModuleStatus {
	return &ChangeModuleStatus{store: store, clock: clock, logger: logger}
}

// Execute changes the module status. Requires at least the Member role.
//
// Archiving also archives every active use case of the module in the same
// unit of work. Activation never touches use cases and is rejected while the
// project is archived.
func (uc *ChangeModuleStatus) Execute(ctx context.Context, in ChangeModuleStatusInput) (*ChangeModuleStatusOutput, error) {
	out := &ChangeModuleStatusOutput{}
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveModule(ctx, sess, in.ModuleID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireEdit(ctx, in.Actor, a.Project); err != nil {
			return err
		}

		now := uc.clock.Now()
		out.Module = a.Module
		aggregates := []domain.Aggregate{a.Module}
		if in.Active {
			out.Changed, err = shared.ActivateModule(ctx, sess, a.Project, a.Module, now)
			if err != nil {
				return err
			}
		} else {
			before := a.Module.Active
			out.Archived, err = shared.ArchiveModule(ctx, sess, a.Module, now)
			if err != nil {
				return err
			}
			out.Changed = before
			for _, u := range out.Archived {
				aggregates = append(aggregates, u)
			}
		}
		if !out.Changed {
			return nil
		}
		ec := shared.EventContext{Now: now, ProjectID: a.Project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, aggregates...)
	})
	if err != nil {
		return nil, err
	}

	if out.Changed && uc.logger != nil {
		msg := fmt.Sprintf("status changed: %s", domain.StatusDisplay(out.Module.Active))
		if len(out.Archived) > 0 {
			msg += fmt.Sprintf(" (%d use case(s) archived)", len(out.Archived))
		}
		uc.logger.Info(out.Module.ProjectID, "module", msg)
	}

	return out, nil
}
