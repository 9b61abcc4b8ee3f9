package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// CancelInvitationInput contains the parameters for withdrawing an invitation.
type CancelInvitationInput struct {
	Actor        domain.Actor
	ProjectID    domain.ID
	InvitationID domain.ID
}

// CancelInvitationOutput contains the cancelled invitation.
type CancelInvitationOutput struct {
	Invitation *domain.Invitation
}

// CancelInvitation is the use case for withdrawing a pending invitation.
type CancelInvitation struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewCancelInvitation creates a new CancelInvitation use case.
func NewCancelInvitation(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *CancelInvitation {
	return &CancelInvitation{store: store, clock: clock, logger: logger}
}

// Execute cancels the invitation. Requires the Owner role.
func (uc *CancelInvitation) Execute(ctx context.Context, in CancelInvitationInput) (*CancelInvitationOutput, error) {
	var inv *domain.Invitation
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireOwner(ctx, in.Actor, project); err != nil {
			return err
		}
		inv, err = shared.GetInvitation(ctx, sess.Invitations(), in.InvitationID)
		if err != nil {
			return err
		}
		if inv.ProjectID != project.ID {
			return domain.NotFound("invitation", in.InvitationID)
		}

		now := uc.clock.Now()
		if err := inv.Cancel(now); err != nil {
			return err
		}
		if err := sess.Invitations().Update(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, inv)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.ProjectID, "invitation", fmt.Sprintf("cancelled invitation for %s", inv.Email))
	}

	return &CancelInvitationOutput{Invitation: inv}, nil
}
