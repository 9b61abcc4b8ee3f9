package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// UpdateMemberRoleInput contains the parameters for changing a member's role.
type UpdateMemberRoleInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
	UserID    domain.ID
	Role      domain.Role
}

// UpdateMemberRoleOutput contains the result of a role change.
type UpdateMemberRoleOutput struct {
	Member  *domain.ProjectMember
	Changed bool
}

// UpdateMemberRole is the use case for granting a member a different role.
// The Owner role is never granted and never taken away.
type UpdateMemberRole struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateMemberRole creates a new UpdateMemberRole use case.
func NewUpdateMemberRole(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *UpdateMemberRole {
	return &UpdateMemberRole{store: store, clock: clock, logger: logger}
}

// Execute changes the role. Requires the Owner role.
func (uc *UpdateMemberRole) Execute(ctx context.Context, in UpdateMemberRoleInput) (*UpdateMemberRoleOutput, error) {
	var member *domain.ProjectMember
	var changed bool
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

		member, err = sess.Members().Get(ctx, project.ID, in.UserID)
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}
		if member == nil {
			return domain.NotFound("member", in.UserID)
		}
		if changed, err = member.ChangeRole(in.Role); err != nil || !changed {
			return err
		}
		if err := sess.Members().Update(ctx, member); err != nil {
			return fmt.Errorf("update member: %w", err)
		}
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, member)
	})
	if err != nil {
		return nil, err
	}

	if changed && uc.logger != nil {
		uc.logger.Info(in.ProjectID, "member", fmt.Sprintf("%s is now %s", in.UserID.Short(), in.Role))
	}

	return &UpdateMemberRoleOutput{Member: member, Changed: changed}, nil
}
