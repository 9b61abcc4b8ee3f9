package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListProjectsInput contains the parameters for listing projects.
type ListProjectsInput struct {
	Active *bool // nil = any status
	Actor  domain.Actor
	Page   domain.Page
}

// ProjectSummary is a project together with the caller's role in it.
type ProjectSummary struct {
	Project *domain.Project
	Role    domain.Role
}

// ListProjectsOutput contains the visible projects.
type ListProjectsOutput struct {
	Projects []ProjectSummary
}

// ListProjects is the use case for listing the projects an actor can see.
type ListProjects struct {
	store domain.UnitOfWork
}

// NewListProjects creates a new ListProjects use case.
func NewListProjects(store domain.UnitOfWork) *ListProjects {
	return &ListProjects{store: store}
}

// Execute lists the projects the actor is a member of. Creators hold an
// Owner membership from creation, so their projects are always included.
// Administrators see every project.
func (uc *ListProjects) Execute(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	out := &ListProjectsOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		memberships, err := sess.Members().ListByUser(ctx, in.Actor.ID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		roles := make(map[domain.ID]domain.Role, len(memberships))
		for _, m := range memberships {
			roles[m.ProjectID] = m.Role
		}

		filter := domain.ProjectFilter{Active: in.Active, Page: in.Page}
		if !in.Actor.IsAdmin {
			filter.IDs = make([]domain.ID, 0, len(memberships))
			for _, m := range memberships {
				filter.IDs = append(filter.IDs, m.ProjectID)
			}
		}

		projects, err := sess.Projects().List(ctx, filter)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		for _, p := range projects {
			role := roles[p.ID]
			if in.Actor.IsAdmin || p.IsCreator(in.Actor.ID) {
				role = domain.RoleOwner
			}
			out.Projects = append(out.Projects, ProjectSummary{Project: p, Role: role})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
