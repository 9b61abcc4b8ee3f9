// Package authz resolves an actor's effective role in a project and decides
// which operations that role allows.
package authz

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
)

// Resolver computes effective roles from project memberships.
type Resolver struct {
	members domain.MemberRepository
}

// NewResolver creates a Resolver reading memberships from members.
func NewResolver(members domain.MemberRepository) *Resolver {
	return &Resolver{members: members}
}

// Role returns the actor's effective role in project. System administrators
// and the project creator are Owner-equivalent; actors without a membership
// get RoleNone.
func (r *Resolver) Role(ctx context.Context, actor domain.Actor, project *domain.Project) (domain.Role, error) {
	if actor.IsAdmin || project.IsCreator(actor.ID) {
		return domain.RoleOwner, nil
	}
	m, err := r.members.Get(ctx, project.ID, actor.ID)
	if err != nil {
		return domain.RoleNone, fmt.Errorf("get membership: %w", err)
	}
	if m == nil {
		return domain.RoleNone, nil
	}
	return m.Role, nil
}

// CanAccessProject reports whether role may read the project.
func CanAccessProject(role domain.Role) bool {
	return role.AtLeast(domain.RoleViewer)
}

// CanEditProject reports whether role may create and edit modules, use cases and tasks.
func CanEditProject(role domain.Role) bool {
	return role.AtLeast(domain.RoleMember)
}

// CanManageProject reports whether role may manage members, invitations and project status.
func CanManageProject(role domain.Role) bool {
	return role == domain.RoleOwner
}

// CanViewTask reports whether actor may read task.
func CanViewTask(actor domain.Actor, role domain.Role, task *domain.Task) bool {
	return CanAccessProject(role) || isAssignee(actor, task)
}

// CanEditTask reports whether actor may edit task. The assignee may always
// edit their own task, whatever their role.
func CanEditTask(actor domain.Actor, role domain.Role, task *domain.Task) bool {
	return CanEditProject(role) || isAssignee(actor, task)
}

// CanAssignTask reports whether role may assign tasks.
func CanAssignTask(role domain.Role) bool {
	return CanEditProject(role)
}

// CanDeleteTask reports whether actor may delete task. Besides editors, the
// creator of a task may delete it while they can still see the project.
func CanDeleteTask(actor domain.Actor, role domain.Role, task *domain.Task) bool {
	return CanEditProject(role) || (CanAccessProject(role) && task.CreatorID == actor.ID)
}

func isAssignee(actor domain.Actor, task *domain.Task) bool {
	return task.IsAssigned() && task.AssigneeID == actor.ID
}

// RequireAccess fails with an access-denied error unless actor can read project.
func (r *Resolver) RequireAccess(ctx context.Context, actor domain.Actor, project *domain.Project) (domain.Role, error) {
	return r.require(ctx, actor, project, CanAccessProject, "project access required")
}

// RequireEdit fails unless actor holds at least Member in project.
func (r *Resolver) RequireEdit(ctx context.Context, actor domain.Actor, project *domain.Project) (domain.Role, error) {
	return r.require(ctx, actor, project, CanEditProject, "member role required")
}

// RequireOwner fails unless actor is an Owner of project.
func (r *Resolver) RequireOwner(ctx context.Context, actor domain.Actor, project *domain.Project) (domain.Role, error) {
	return r.require(ctx, actor, project, CanManageProject, "owner role required")
}

// RequireAssign fails unless actor may assign tasks in project.
func (r *Resolver) RequireAssign(ctx context.Context, actor domain.Actor, project *domain.Project) (domain.Role, error) {
	return r.require(ctx, actor, project, CanAssignTask, "member role required to assign tasks")
}

// RequireStructureEdit fails unless actor may add structure to project and
// the project is active.
func (r *Resolver) RequireStructureEdit(ctx context.Context, actor domain.Actor, project *domain.Project) (domain.Role, error) {
	role, err := r.RequireEdit(ctx, actor, project)
	if err != nil {
		return role, err
	}
	if !project.Active {
		return role, domain.Violation(domain.ErrProjectInactive, project.Title)
	}
	return role, nil
}

// RequireTaskView fails unless actor may read task.
func (r *Resolver) RequireTaskView(ctx context.Context, actor domain.Actor, project *domain.Project, task *domain.Task) (domain.Role, error) {
	return r.requireTask(ctx, actor, project, task, CanViewTask, "project access required")
}

// RequireTaskEdit fails unless actor may edit task.
func (r *Resolver) RequireTaskEdit(ctx context.Context, actor domain.Actor, project *domain.Project, task *domain.Task) (domain.Role, error) {
	return r.requireTask(ctx, actor, project, task, CanEditTask, "member role or assignment required")
}

// RequireTaskDelete fails unless actor may delete task.
func (r *Resolver) RequireTaskDelete(ctx context.Context, actor domain.Actor, project *domain.Project, task *domain.Task) (domain.Role, error) {
	return r.requireTask(ctx, actor, project, task, CanDeleteTask, "member role or task authorship required")
}

func (r *Resolver) require(ctx context.Context, actor domain.Actor, project *domain.Project, allowed func(domain.Role) bool, reason string) (domain.Role, error) {
	if actor.IsZero() {
		return domain.RoleNone, domain.ErrUnauthorized
	}
	role, err := r.Role(ctx, actor, project)
	if err != nil {
		return domain.RoleNone, err
	}
	if !allowed(role) {
		return role, domain.Denied(project.ID, actor.ID, reason)
	}
	return role, nil
}

func (r *Resolver) requireTask(ctx context.Context, actor domain.Actor, project *domain.Project, task *domain.Task,
	allowed func(domain.Actor, domain.Role, *domain.Task) bool, reason string) (domain.Role, error) {
	if actor.IsZero() {
		return domain.RoleNone, domain.ErrUnauthorized
	}
	role, err := r.Role(ctx, actor, project)
	if err != nil {
		return domain.RoleNone, err
	}
	if !allowed(actor, role, task) {
		return role, domain.Denied(project.ID, actor.ID, reason)
	}
	return role, nil
}
