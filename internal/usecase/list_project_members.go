package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListProjectMembersInput contains the parameters for listing members.
type ListProjectMembersInput struct {
	Actor     domain.Actor
	ProjectID domain.ID
}

// MemberSummary is a membership joined with the directory entry.
// User is nil when the user has left the directory.
type MemberSummary struct {
	Member *domain.ProjectMember
	User   *domain.User
}

// ListProjectMembersOutput contains the project members.
type ListProjectMembersOutput struct {
	Members []MemberSummary
}

// ListProjectMembers is the use case for listing project members.
type ListProjectMembers struct {
	store domain.UnitOfWork
	users domain.UserDirectory
}

// NewListProjectMembers creates a new ListProjectMembers use case.
func NewListProjectMembers(store domain.UnitOfWork, users domain.UserDirectory) *ListProjectMembers {
	return &ListProjectMembers{store: store, users: users}
}

// Execute lists members in join order. Requires at least the Viewer role.
func (uc *ListProjectMembers) Execute(ctx context.Context, in ListProjectMembersInput) (*ListProjectMembersOutput, error) {
	var members []*domain.ProjectMember
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, project); err != nil {
			return err
		}
		members, err = sess.Members().ListByProject(ctx, project.ID)
		if err != nil {
			return fmt.Errorf("list members: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := &ListProjectMembersOutput{Members: make([]MemberSummary, 0, len(members))}
	for _, m := range members {
		user, err := uc.users.GetUser(ctx, m.UserID)
		if err != nil {
			return nil, fmt.Errorf("get user: %w", err)
		}
		out.Members = append(out.Members, MemberSummary{Member: m, User: user})
	}
	return out, nil
}
