package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// AddProjectMemberInput contains the parameters for adding a member directly.
type AddProjectMemberInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
	UserID    domain.ID
	Role      domain.Role // Viewer or Member
}

// AddProjectMemberOutput contains the result of adding a member.
type AddProjectMemberOutput struct {
	Member *domain.ProjectMember
}

// AddProjectMember is the use case for granting a registered user a role
// in a project without an invitation.
type AddProjectMember struct {
	store  domain.UnitOfWork
	users  domain.UserDirectory
	clock  domain.Clock
	logger domain.Logger
}

// NewAddProjectMember creates a new AddProjectMember use case.
func NewAddProjectMember(store domain.UnitOfWork, users domain.UserDirectory, clock domain.Clock, logger domain.Logger) *AddProjectMember {
	return &AddProjectMember{store: store, users: users, clock: clock, logger: logger}
}

// Execute adds the member. Requires the Owner role.
func (uc *AddProjectMember) Execute(ctx context.Context, in AddProjectMemberInput) (*AddProjectMemberOutput, error) {
	var member *domain.ProjectMember
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
		user, err := shared.GetUser(ctx, uc.users, in.UserID)
		if err != nil {
			return err
		}

		existing, err := sess.Members().Get(ctx, project.ID, user.ID)
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}
		if existing != nil {
			return domain.Violation(domain.ErrAlreadyMember, user.Email)
		}

		now := uc.clock.Now()
		member, err = domain.NewProjectMember(project.ID, user.ID, in.Role, now)
		if err != nil {
			return err
		}
		if err := sess.Members().Add(ctx, member); err != nil {
			return fmt.Errorf("add member: %w", err)
		}
		ec := shared.EventContext{Now: now, ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, member)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.ProjectID, "member", fmt.Sprintf("added %s as %s", in.UserID.Short(), in.Role))
	}

	return &AddProjectMemberOutput{Member: member}, nil
}
