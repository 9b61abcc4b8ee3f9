package shared

import (
	"context"

	"github.com/te4it/te4it/internal/domain"
)

// Ancestry is an entity together with its chain of parents up to the project.
// Levels below the resolved entity are nil.
type Ancestry struct {
	Project *domain.Project
	Module  *domain.Module
	UseCase *domain.UseCase
	Task    *domain.Task
}

// ResolveModule loads a module and its project.
func ResolveModule(ctx context.Context, sess domain.Session, moduleID domain.ID) (*Ancestry, error) {
	m, err := GetModule(ctx, sess.Modules(), moduleID)
	if err != nil {
		return nil, err
	}
	p, err := GetProject(ctx, sess.Projects(), m.ProjectID)
	if err != nil {
		return nil, err
	}
	return &Ancestry{Project: p, Module: m}, nil
}

// ResolveUseCase loads a use case, its module and its project.
func ResolveUseCase(ctx context.Context, sess domain.Session, useCaseID domain.ID) (*Ancestry, error) {
	u, err := GetUseCase(ctx, sess.UseCases(), useCaseID)
	if err != nil {
		return nil, err
	}
	a, err := ResolveModule(ctx, sess, u.ModuleID)
	if err != nil {
		return nil, err
	}
	a.UseCase = u
	return a, nil
}

// ResolveTask loads a task and every level above it.
func ResolveTask(ctx context.Context, sess domain.Session, taskID domain.ID) (*Ancestry, error) {
	t, err := GetTask(ctx, sess.Tasks(), taskID)
	if err != nil {
		return nil, err
	}
	a, err := ResolveUseCase(ctx, sess, t.UseCaseID)
	if err != nil {
		return nil, err
	}
	a.Task = t
	return a, nil
}
