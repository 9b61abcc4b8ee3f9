package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// RemoveProjectMemberInput contains the parameters for removing a member.
type RemoveProjectMemberInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
	UserID    domain.ID
}

// RemoveProjectMemberOutput contains the result of removing a member.
type RemoveProjectMemberOutput struct{}

// RemoveProjectMember is the use case for revoking a membership.
type RemoveProjectMember struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewRemoveProjectMember creates a new RemoveProjectMember use case.
func NewRemoveProjectMember(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *RemoveProjectMember {
	return &RemoveProjectMember{store: store, clock: clock, logger: logger}
}

// Execute removes the membership. Requires the Owner role.
// The Owner membership cannot be removed, and actors cannot remove themselves.
func (uc *RemoveProjectMember) Execute(ctx context.Context, in RemoveProjectMemberInput) (*RemoveProjectMemberOutput, error) {
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireOwner(ctx, in.Actor, project); err != nil {
			return err
		}

		member, err := sess.Members().Get(ctx, project.ID, in.UserID)
		if err != nil {
			return fmt.Errorf("get membership: %w", err)
		}
		if member == nil {
			return domain.NotFound("member", in.UserID)
		}
		if err := member.Remove(); err != nil {
			return err
		}
		if in.UserID == in.Actor.ID {
			return domain.Violation(domain.ErrSelfRemoval, "")
		}

		if err := sess.Members().Remove(ctx, project.ID, in.UserID); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: project.ID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, member)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(in.ProjectID, "member", fmt.Sprintf("removed %s", in.UserID.Short()))
	}

	return &RemoveProjectMemberOutput{}, nil
}
