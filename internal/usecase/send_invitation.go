package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// SendInvitationInput contains the parameters for inviting a user.
type SendInvitationInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
	Email     string
	Role      domain.Role // Viewer or Member
}

// SendInvitationOutput contains the invitation and its plaintext token.
// The token is only available here; the store keeps its hash.
type SendInvitationOutput struct {
	Invitation *domain.Invitation
	Token      string
}

// SendInvitation is the use case for inviting a registered user to a project.
type SendInvitation struct {
	store          domain.UnitOfWork
	users          domain.UserDirectory
	tokens         domain.TokenService
	clock          domain.Clock
	logger         domain.Logger
	expirationDays int
}

// NewSendInvitation creates a new SendInvitation use case.
// expirationDays <= 0 selects the default lifetime.
func NewSendInvitation(
	store domain.UnitOfWork,
	users domain.UserDirectory,
	tokens domain.TokenService,
	clock domain.Clock,
	logger domain.Logger,
	expirationDays int,
) *SendInvitation {
	return &SendInvitation{
		store:          store,
		users:          users,
		tokens:         tokens,
		clock:          clock,
		logger:         logger,
		expirationDays: expirationDays,
	}
}

// Execute creates a pending invitation. Requires the Owner role.
func (uc *SendInvitation) Execute(ctx context.Context, in SendInvitationInput) (*SendInvitationOutput, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	out := &SendInvitationOutput{}
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireOwner(ctx, in.Actor, project); err != nil {
			return err
		}
		if !in.Role.IsGrantable() {
			return domain.Violation(domain.ErrOwnerRoleNotAssignable, "")
		}

		user, err := uc.users.FindByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return domain.Violation(domain.ErrUserNotRegistered, email)
		}
		existing, err := sess.Members().Get(ctx, project.ID, user.ID)
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}
		if existing != nil {
			return domain.Violation(domain.ErrAlreadyMember, email)
		}

		now := uc.clock.Now()
		invitations, err := sess.Invitations().ListByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("list invitations: %w", err)
		}
		for _, inv := range invitations {
			if inv.ProjectID == project.ID && inv.Status(now) == domain.InvitationPending {
				return domain.Violation(domain.ErrInvitationPending, email)
			}
		}

		token, err := uc.tokens.Generate()
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		inv, err := domain.NewInvitation(domain.NewID(), project.ID, in.Actor.ID, email, in.Role, uc.tokens.Hash(token), uc.expirationDays, now)
		if err != nil {
			return err
		}
		if err := sess.Invitations().Add(ctx, inv); err != nil {
			return fmt.Errorf("add invitation: %w", err)
		}

		out.Invitation = inv
		out.Token = token
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, inv)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.ProjectID, "invitation", fmt.Sprintf("sent to %s as %s", email, in.Role))
	}

	return out, nil
}
