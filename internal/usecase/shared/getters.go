// Package shared provides shared utilities for use cases.
package shared

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
)

// GetProject retrieves a project by ID and returns a not-found error if it is missing.
// This centralizes the common pattern of:
//
//	p, err := repo.Get(ctx, id)
//	if err != nil { return nil, fmt.Errorf("get project: %w", err) }
//	if p == nil { return nil, domain.NotFound("project", id) }
func GetProject(ctx context.Context, repo domain.ProjectRepository, id domain.ID) (*domain.Project, error) {
	p, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if p == nil {
		return nil, domain.NotFound("project", id)
	}
	return p, nil
}

// GetModule retrieves a module by ID.
func GetModule(ctx context.Context, repo domain.ModuleRepository, id domain.ID) (*domain.Module, error) {
	m, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	if m == nil {
		return nil, domain.NotFound("module", id)
	}
	return m, nil
}

// GetUseCase retrieves a use case by ID.
func GetUseCase(ctx context.Context, repo domain.UseCaseRepository, id domain.ID) (*domain.UseCase, error) {
	u, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get use case: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound("use case", id)
	}
	return u, nil
}

// GetTask retrieves a task by ID.
func GetTask(ctx context.Context, repo domain.TaskRepository, id domain.ID) (*domain.Task, error) {
	t, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if t == nil {
		return nil, domain.NotFound("task", id)
	}
	return t, nil
}

// GetInvitation retrieves an invitation by ID.
func GetInvitation(ctx context.Context, repo domain.InvitationRepository, id domain.ID) (*domain.Invitation, error) {
	inv, err := repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	if inv == nil {
		return nil, domain.NotFound("invitation", id)
	}
	return inv, nil
}

// GetUser retrieves a user from the directory.
func GetUser(ctx context.Context, users domain.UserDirectory, id domain.ID) (*domain.User, error) {
	u, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, domain.NotFound("user", id)
	}
	return u, nil
}
