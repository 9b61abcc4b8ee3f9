package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// AcceptInvitationInput contains the parameters for accepting an invitation.
type AcceptInvitationInput struct {
	Actor domain.Actor
	Token string // Plaintext token from SendInvitation
}

// AcceptInvitationOutput contains the resulting membership.
type AcceptInvitationOutput struct {
	Project *domain.Project
	Member  *domain.ProjectMember
}

// AcceptInvitation is the use case for joining a project through an invitation.
type AcceptInvitation struct {
	store  domain.UnitOfWork
	users  domain.UserDirectory
	tokens domain.TokenService
	clock  domain.Clock
	logger domain.Logger
}

// NewAcceptInvitation creates a new AcceptInvitation use case.
func NewAcceptInvitation(store domain.UnitOfWork, users domain.UserDirectory, tokens domain.TokenService, clock domain.Clock, logger domain.Logger) *AcceptInvitation {
	return &AcceptInvitation{store: store, users: users, tokens: tokens, clock: clock, logger: logger}
}

// Execute accepts the invitation and creates the membership. The actor's
// directory email must match the invited address.
func (uc *AcceptInvitation) Execute(ctx context.Context, in AcceptInvitationInput) (*AcceptInvitationOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	if in.Token == "" {
		return nil, domain.Invalid("token", "token is required")
	}
	user, err := shared.GetUser(ctx, uc.users, in.Actor.ID)
	if err != nil {
		return nil, err
	}

	out := &AcceptInvitationOutput{}
	err = shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		inv, err := sess.Invitations().GetByTokenHash(ctx, uc.tokens.Hash(in.Token))
		if err != nil {
			return fmt.Errorf("get invitation: %w", err)
		}
		if inv == nil {
			return fmt.Errorf("no invitation matches the token: %w", domain.ErrNotFound)
		}
		project, err := shared.GetProject(ctx, sess.Projects(), inv.ProjectID)
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if err := inv.Accept(user.ID, user.Email, now); err != nil {
			return err
		}
		existing, err := sess.Members().Get(ctx, project.ID, user.ID)
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}
		if existing != nil {
			return domain.Violation(domain.ErrAlreadyMember, user.Email)
		}

		member, err := domain.NewProjectMember(project.ID, user.ID, inv.Role, now)
		if err != nil {
			return err
		}
		if err := sess.Invitations().Update(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		if err := sess.Members().Add(ctx, member); err != nil {
			return fmt.Errorf("add member: %w", err)
		}

		out.Project = project
		out.Member = member
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, inv, member)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(out.Project.ID, "invitation", fmt.Sprintf("accepted by %s", user.Email))
	}

	return out, nil
}
