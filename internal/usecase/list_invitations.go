package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// InvitationSummary is an invitation with its status at listing time.
type InvitationSummary struct {
	Invitation   *domain.Invitation
	ProjectTitle string
	Status       domain.InvitationStatus
}

// ListInvitationsInput contains the parameters for listing a project's invitations.
type ListInvitationsInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
}

// ListInvitationsOutput contains the invitations.
type ListInvitationsOutput struct {
	Invitations []InvitationSummary
}

// ListInvitations is the use case for listing a project's invitations.
type ListInvitations struct {
	store domain.UnitOfWork
	clock domain.Clock
}

// NewListInvitations creates a new ListInvitations use case.
func NewListInvitations(store domain.UnitOfWork, clock domain.Clock) *ListInvitations {
	return &ListInvitations{store: store, clock: clock}
}

// Execute lists every invitation of the project. Requires the Owner role.
func (uc *ListInvitations) Execute(ctx context.Context, in ListInvitationsInput) (*ListInvitationsOutput, error) {
	out := &ListInvitationsOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireOwner(ctx, in.Actor, project); err != nil {
			return err
		}
		invitations, err := sess.Invitations().ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("list invitations: %w", err)
		}
		now := uc.clock.Now()
		for _, inv := range invitations {
			out.Invitations = append(out.Invitations, InvitationSummary{
				Invitation:   inv,
				ProjectTitle: project.Title,
				Status:       inv.Status(now),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListMyInvitationsInput contains the parameters for listing the actor's invitations.
type ListMyInvitationsInput struct {
	Actor domain.Actor
}

// ListMyInvitations is the use case for listing pending invitations
// addressed to the actor.
type ListMyInvitations struct {
	store domain.UnitOfWork
	users domain.UserDirectory
	clock domain.Clock
}

// NewListMyInvitations creates a new ListMyInvitations use case.
func NewListMyInvitations(store domain.UnitOfWork, users domain.UserDirectory, clock domain.Clock) *ListMyInvitations {
	return &ListMyInvitations{store: store, users: users, clock: clock}
}

// Execute lists pending invitations sent to the actor's directory email.
func (uc *ListMyInvitations) Execute(ctx context.Context, in ListMyInvitationsInput) (*ListInvitationsOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	user, err := shared.GetUser(ctx, uc.users, in.Actor.ID)
	if err != nil {
		return nil, err
	}

	out := &ListInvitationsOutput{}
	err = shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		invitations, err := sess.Invitations().ListByEmail(ctx, domain.NormalizeEmail(user.Email))
		if err != nil {
			return fmt.Errorf("list invitations: %w", err)
		}
		now := uc.clock.Now()
		for _, inv := range invitations {
			if inv.Status(now) != domain.InvitationPending {
				continue
			}
			project, err := shared.GetProject(ctx, sess.Projects(), inv.ProjectID)
			if err != nil {
				return err
			}
			out.Invitations = append(out.Invitations, InvitationSummary{
				Invitation:   inv,
				ProjectTitle: project.Title,
				Status:       domain.InvitationPending,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
