package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func archiveModule(t *testing.T, w *testutil.World, id domain.ID) {
	t.Helper()
	_, err := NewChangeModuleStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeModuleStatusInput{
		Actor:    w.Owner,
		ModuleID: id,
	})
	require.NoError(t, err)
}

func TestCreateUseCase_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewCreateUseCase(w.Store, w.Clock, nil)

	// Execute
	out, err := uc.Execute(context.Background(), CreateUseCaseInput{
		Actor:          w.Member,
		ModuleID:       w.Module.ID,
		Title:          "Reset password",
		ImportantNotes: "Tokens expire after one hour",
	})

	// Assert
	require.NoError(t, err)
	assert.True(t, out.UseCase.Active)
	assert.Equal(t, w.Module.ID, out.UseCase.ModuleID)
	assert.Equal(t, "Tokens expire after one hour", out.UseCase.ImportantNotes)
	assert.Equal(t, []domain.EventType{domain.EventUseCaseCreated}, w.Store.EventTypes())
}

func TestCreateUseCase_Execute_Errors(t *testing.T) {
	t.Run("viewer", func(t *testing.T) {
		w := testutil.NewWorld(t)

		_, err := NewCreateUseCase(w.Store, w.Clock, nil).Execute(context.Background(), CreateUseCaseInput{
			Actor: w.Viewer, ModuleID: w.Module.ID, Title: "Reset password",
		})

		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("archived module", func(t *testing.T) {
		w := testutil.NewWorld(t)
		archiveModule(t, w, w.Module.ID)

		_, err := NewCreateUseCase(w.Store, w.Clock, nil).Execute(context.Background(), CreateUseCaseInput{
			Actor: w.Member, ModuleID: w.Module.ID, Title: "Reset password",
		})

		assert.ErrorIs(t, err, domain.ErrModuleInactive)
	})

	t.Run("archived project", func(t *testing.T) {
		w := testutil.NewWorld(t)
		archiveProject(t, w)

		_, err := NewCreateUseCase(w.Store, w.Clock, nil).Execute(context.Background(), CreateUseCaseInput{
			Actor: w.Member, ModuleID: w.Module.ID, Title: "Reset password",
		})

		assert.ErrorIs(t, err, domain.ErrProjectInactive)
	})

	t.Run("unknown module", func(t *testing.T) {
		w := testutil.NewWorld(t)

		_, err := NewCreateUseCase(w.Store, w.Clock, nil).Execute(context.Background(), CreateUseCaseInput{
			Actor: w.Member, ModuleID: domain.NewID(), Title: "Reset password",
		})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateUseCase_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewUpdateUseCase(w.Store, w.Clock, nil)

	// Execute
	out, err := uc.Execute(context.Background(), UpdateUseCaseInput{
		Actor:          w.Member,
		UseCaseID:      w.UseCase.ID,
		Title:          ptr("Sign up with email"),
		ImportantNotes: ptr("Double opt-in"),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Sign up with email", out.UseCase.Title)
	reloaded := w.ReloadUseCase(t, w.UseCase.ID)
	assert.Equal(t, "Double opt-in", reloaded.ImportantNotes)
	assert.Equal(t, []domain.EventType{domain.EventUseCaseUpdated}, w.Store.EventTypes())

	_, err = uc.Execute(context.Background(), UpdateUseCaseInput{Actor: w.Member, UseCaseID: w.UseCase.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChangeUseCaseStatus_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewChangeUseCaseStatus(w.Store, w.Clock, nil)

	// Archive
	out, err := uc.Execute(context.Background(), ChangeUseCaseStatusInput{Actor: w.Member, UseCaseID: w.UseCase.ID})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.False(t, w.ReloadUseCase(t, w.UseCase.ID).Active)

	// Archive again
	out, err = uc.Execute(context.Background(), ChangeUseCaseStatusInput{Actor: w.Member, UseCaseID: w.UseCase.ID})
	require.NoError(t, err)
	assert.False(t, out.Changed)

	// Activate
	out, err = uc.Execute(context.Background(), ChangeUseCaseStatusInput{Actor: w.Member, UseCaseID: w.UseCase.ID, Active: true})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.True(t, w.ReloadUseCase(t, w.UseCase.ID).Active)

	assert.Equal(t, []domain.EventType{domain.EventUseCaseArchived, domain.EventUseCaseActivated}, w.Store.EventTypes())
}

func TestChangeUseCaseStatus_Execute_InactiveParent(t *testing.T) {
	t.Run("archived module", func(t *testing.T) {
		w := testutil.NewWorld(t)
		archiveModule(t, w, w.Module.ID)

		_, err := NewChangeUseCaseStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeUseCaseStatusInput{
			Actor: w.Member, UseCaseID: w.UseCase.ID, Active: true,
		})

		assert.ErrorIs(t, err, domain.ErrRuleViolation)
		assert.ErrorIs(t, err, domain.ErrModuleInactive)
		assert.False(t, w.ReloadUseCase(t, w.UseCase.ID).Active)
	})

	t.Run("archived project", func(t *testing.T) {
		w := testutil.NewWorld(t)
		archiveProject(t, w)

		_, err := NewChangeUseCaseStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeUseCaseStatusInput{
			Actor: w.Member, UseCaseID: w.UseCase.ID, Active: true,
		})

		assert.ErrorIs(t, err, domain.ErrProjectInactive)
	})

	t.Run("archive under archived project", func(t *testing.T) {
		w := testutil.NewWorld(t)
		archiveProject(t, w)

		out, err := NewChangeUseCaseStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeUseCaseStatusInput{
			Actor: w.Member, UseCaseID: w.UseCase.ID,
		})

		require.NoError(t, err)
		assert.True(t, out.Changed)
	})
}

func TestDeleteUseCase_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	w.AddTask(t, "Write form")
	empty := addUseCase(t, w, w.Module.ID, "Delete account")
	uc := NewDeleteUseCase(w.Store, w.Clock, nil)

	// With tasks
	_, err := uc.Execute(context.Background(), DeleteUseCaseInput{Actor: w.Member, UseCaseID: w.UseCase.ID})
	assert.ErrorIs(t, err, domain.ErrUseCaseHasTasks)

	// Empty
	_, err = uc.Execute(context.Background(), DeleteUseCaseInput{Actor: w.Member, UseCaseID: empty.ID})
	require.NoError(t, err)
	assert.Nil(t, w.ReloadUseCase(t, empty.ID))
	types := w.Store.EventTypes()
	assert.Equal(t, domain.EventUseCaseDeleted, types[len(types)-1])
}

func TestGetUseCase_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	w.AddTask(t, "Write form")
	w.AddTask(t, "Validate input")
	uc := NewGetUseCase(w.Store)

	// Execute
	out, err := uc.Execute(context.Background(), GetUseCaseInput{Actor: w.Viewer, UseCaseID: w.UseCase.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, w.UseCase.ID, out.UseCase.ID)
	assert.Equal(t, w.Module.ID, out.Module.ID)
	assert.Equal(t, w.Project.ID, out.Project.ID)
	assert.Equal(t, 2, out.TaskCount)

	_, err = uc.Execute(context.Background(), GetUseCaseInput{Actor: w.Outsider, UseCaseID: w.UseCase.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestListUseCases_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	second := addUseCase(t, w, w.Module.ID, "Delete account")
	_, err := NewChangeUseCaseStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeUseCaseStatusInput{
		Actor: w.Owner, UseCaseID: second.ID,
	})
	require.NoError(t, err)
	uc := NewListUseCases(w.Store)

	// Execute
	all, err := uc.Execute(context.Background(), ListUseCasesInput{Actor: w.Viewer, ModuleID: w.Module.ID})
	require.NoError(t, err)
	active, err := uc.Execute(context.Background(), ListUseCasesInput{Actor: w.Viewer, ModuleID: w.Module.ID, Active: ptr(true)})
	require.NoError(t, err)

	// Assert
	assert.Len(t, all.UseCases, 2)
	require.Len(t, active.UseCases, 1)
	assert.Equal(t, w.UseCase.ID, active.UseCases[0].ID)
}
