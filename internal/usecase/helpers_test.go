package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func ptr[T any](v T) *T {
	return &v
}

func addModule(t *testing.T, w *testutil.World, title string) *domain.Module {
	t.Helper()
	out, err := NewCreateModule(w.Store, w.Clock, nil).Execute(context.Background(), CreateModuleInput{
		Actor:     w.Owner,
		ProjectID: w.Project.ID,
		Title:     title,
	})
	require.NoError(t, err)
	return out.Module
}

func addUseCase(t *testing.T, w *testutil.World, moduleID domain.ID, title string) *domain.UseCase {
	t.Helper()
	out, err := NewCreateUseCase(w.Store, w.Clock, nil).Execute(context.Background(), CreateUseCaseInput{
		Actor:    w.Owner,
		ModuleID: moduleID,
		Title:    title,
	})
	require.NoError(t, err)
	return out.UseCase
}
