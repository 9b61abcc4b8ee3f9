package domain

import "time"

// ProjectMember grants a user a role within a project.
// A (ProjectID, UserID) pair is unique.
type ProjectMember struct {
	Joined        time.Time `json:"joined"`
	ProjectID     ID        `json:"projectId"`
	UserID        ID        `json:"userId"`
	Version       int64     `json:"version"`
	Role          Role      `json:"role"`
	EventRecorder `json:"-"`
}

// NewProjectMember creates a membership.
func NewProjectMember(projectID, userID ID, role Role, now time.Time) (*ProjectMember, error) {
	if userID.IsZero() {
		return nil, Invalid("user", "user id is required")
	}
	if !role.IsMembership() {
		return nil, Invalid("role", "%s is not a member role", role)
	}
	m := &ProjectMember{ProjectID: projectID, UserID: userID, Role: role, Joined: now}
	m.record(EventProjectMemberAdded, projectID, map[string]any{"userId": userID.String(), "role": role.String()})
	return m, nil
}

// ChangeRole grants a new role. Returns false when the role is unchanged.
func (m *ProjectMember) ChangeRole(role Role) (bool, error) {
	if m.Role == RoleOwner {
		return false, Violation(ErrOwnerRoleImmutable, "")
	}
	if !role.IsGrantable() {
		return false, Violation(ErrOwnerRoleNotAssignable, "")
	}
	if m.Role == role {
		return false, nil
	}
	old := m.Role
	m.Role = role
	m.record(EventProjectRoleChanged, m.ProjectID, map[string]any{
		"userId":  m.UserID.String(),
		"oldRole": old.String(),
		"newRole": role.String(),
	})
	return true, nil
}

// Remove records the removal of the membership. Owners cannot be removed.
func (m *ProjectMember) Remove() error {
	if m.Role == RoleOwner {
		return Violation(ErrOwnerNotRemovable, "")
	}
	m.record(EventProjectMemberRemoved, m.ProjectID, map[string]any{"userId": m.UserID.String()})
	return nil
}
