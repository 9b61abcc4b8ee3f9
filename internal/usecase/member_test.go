package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func TestAddProjectMember_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	logger := &testutil.MockLogger{}
	uc := NewAddProjectMember(w.Store, w.Users, w.Clock, logger)

	// Execute
	out, err := uc.Execute(context.Background(), AddProjectMemberInput{
		Actor:     w.Owner,
		ProjectID: w.Project.ID,
		UserID:    w.Outsider.ID,
		Role:      domain.RoleMember,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, out.Member.Role)
	assert.Equal(t, testutil.FixedTime, out.Member.Joined)
	assert.Equal(t, domain.RoleMember, w.Membership(t, w.Project.ID, w.Outsider.ID).Role)
	assert.Equal(t, []domain.EventType{domain.EventProjectMemberAdded}, w.Store.EventTypes())
	assert.Len(t, logger.Entries, 1)
}

func TestAddProjectMember_Execute_Errors(t *testing.T) {
	w := testutil.NewWorld(t)
	uc := NewAddProjectMember(w.Store, w.Users, w.Clock, nil)

	tests := []struct {
		name  string
		in    AddProjectMemberInput
		match error
	}{
		{
			name:  "member cannot add members",
			in:    AddProjectMemberInput{Actor: w.Member, ProjectID: w.Project.ID, UserID: w.Outsider.ID, Role: domain.RoleViewer},
			match: domain.ErrAccessDenied,
		},
		{
			name:  "owner role is not grantable",
			in:    AddProjectMemberInput{Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Outsider.ID, Role: domain.RoleOwner},
			match: domain.ErrOwnerRoleNotAssignable,
		},
		{
			name:  "duplicate membership",
			in:    AddProjectMemberInput{Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Viewer.ID, Role: domain.RoleMember},
			match: domain.ErrAlreadyMember,
		},
		{
			name:  "unknown user",
			in:    AddProjectMemberInput{Actor: w.Owner, ProjectID: w.Project.ID, UserID: domain.NewID(), Role: domain.RoleMember},
			match: domain.ErrNotFound,
		},
		{
			name:  "unknown project",
			in:    AddProjectMemberInput{Actor: w.Owner, ProjectID: domain.NewID(), UserID: w.Outsider.ID, Role: domain.RoleMember},
			match: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.match)
		})
	}
	assert.Empty(t, w.Store.Events())
}

func TestRemoveProjectMember_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewRemoveProjectMember(w.Store, w.Clock, nil)

	// Execute
	_, err := uc.Execute(context.Background(), RemoveProjectMemberInput{
		Actor:     w.Owner,
		ProjectID: w.Project.ID,
		UserID:    w.Viewer.ID,
	})

	// Assert
	require.NoError(t, err)
	assert.Nil(t, w.Membership(t, w.Project.ID, w.Viewer.ID))
	assert.Equal(t, []domain.EventType{domain.EventProjectMemberRemoved}, w.Store.EventTypes())

	_, err = NewGetProject(w.Store).Execute(context.Background(), GetProjectInput{Actor: w.Viewer, ProjectID: w.Project.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestRemoveProjectMember_Execute_OwnerCannotBeRemoved(t *testing.T) {
	// Setup: the owner is the last Owner membership of the project
	w := testutil.NewWorld(t)
	uc := NewRemoveProjectMember(w.Store, w.Clock, nil)

	// Execute
	_, err := uc.Execute(context.Background(), RemoveProjectMemberInput{
		Actor:     w.Admin,
		ProjectID: w.Project.ID,
		UserID:    w.Owner.ID,
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrRuleViolation)
	assert.ErrorIs(t, err, domain.ErrOwnerNotRemovable)
	require.NotNil(t, w.Membership(t, w.Project.ID, w.Owner.ID))
	assert.Empty(t, w.Store.Events())
}

func TestRemoveProjectMember_Execute_Errors(t *testing.T) {
	w := testutil.NewWorld(t)
	uc := NewRemoveProjectMember(w.Store, w.Clock, nil)

	// An administrator who is also a plain member tries to remove themselves.
	w.Seed(t, func(sess domain.Session) {
		m, err := domain.NewProjectMember(w.Project.ID, w.Admin.ID, domain.RoleMember, w.Clock.Now())
		require.NoError(t, err)
		require.NoError(t, sess.Members().Add(context.Background(), m))
	})

	tests := []struct {
		name  string
		in    RemoveProjectMemberInput
		match error
	}{
		{"member cannot remove", RemoveProjectMemberInput{Actor: w.Member, ProjectID: w.Project.ID, UserID: w.Viewer.ID}, domain.ErrAccessDenied},
		{"not a member", RemoveProjectMemberInput{Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Outsider.ID}, domain.ErrNotFound},
		{"self removal", RemoveProjectMemberInput{Actor: w.Admin, ProjectID: w.Project.ID, UserID: w.Admin.ID}, domain.ErrSelfRemoval},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.match)
		})
	}
	assert.Empty(t, w.Store.Events())

	_, err := uc.Execute(context.Background(), RemoveProjectMemberInput{Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Outsider.ID})
	assert.NotErrorIs(t, err, domain.ErrRuleViolation)
}

func TestUpdateMemberRole_Execute(t *testing.T) {
	w := testutil.NewWorld(t)
	uc := NewUpdateMemberRole(w.Store, w.Clock, nil)

	t.Run("promotes viewer", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), UpdateMemberRoleInput{
			Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Viewer.ID, Role: domain.RoleMember,
		})
		require.NoError(t, err)
		assert.True(t, out.Changed)
		assert.Equal(t, domain.RoleMember, w.Membership(t, w.Project.ID, w.Viewer.ID).Role)
	})

	t.Run("same role is a no-op", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), UpdateMemberRoleInput{
			Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Member.ID, Role: domain.RoleMember,
		})
		require.NoError(t, err)
		assert.False(t, out.Changed)
	})

	t.Run("owner role is never granted", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), UpdateMemberRoleInput{
			Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Member.ID, Role: domain.RoleOwner,
		})
		assert.ErrorIs(t, err, domain.ErrRuleViolation)
		assert.ErrorIs(t, err, domain.ErrOwnerRoleNotAssignable)
	})

	t.Run("owner cannot be demoted", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), UpdateMemberRoleInput{
			Actor: w.Admin, ProjectID: w.Project.ID, UserID: w.Owner.ID, Role: domain.RoleViewer,
		})
		assert.ErrorIs(t, err, domain.ErrOwnerRoleImmutable)
	})

	t.Run("member cannot change roles", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), UpdateMemberRoleInput{
			Actor: w.Member, ProjectID: w.Project.ID, UserID: w.Viewer.ID, Role: domain.RoleViewer,
		})
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("not a member", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), UpdateMemberRoleInput{
			Actor: w.Owner, ProjectID: w.Project.ID, UserID: w.Outsider.ID, Role: domain.RoleViewer,
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NotErrorIs(t, err, domain.ErrRuleViolation)
	})

	assert.Equal(t, []domain.EventType{domain.EventProjectRoleChanged}, w.Store.EventTypes())
	payload := w.Store.Events()[0].Payload
	assert.Equal(t, "viewer", payload["oldRole"])
	assert.Equal(t, "member", payload["newRole"])
}

func TestListProjectMembers_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewListProjectMembers(w.Store, w.Users)

	// Execute
	out, err := uc.Execute(context.Background(), ListProjectMembersInput{Actor: w.Viewer, ProjectID: w.Project.ID})

	// Assert
	require.NoError(t, err)
	require.Len(t, out.Members, 3)
	roles := map[string]domain.Role{}
	for _, m := range out.Members {
		require.NotNil(t, m.User)
		roles[m.User.Email] = m.Member.Role
	}
	assert.Equal(t, map[string]domain.Role{
		"owner@example.com":  domain.RoleOwner,
		"member@example.com": domain.RoleMember,
		"viewer@example.com": domain.RoleViewer,
	}, roles)

	_, err = uc.Execute(context.Background(), ListProjectMembersInput{Actor: w.Outsider, ProjectID: w.Project.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}
