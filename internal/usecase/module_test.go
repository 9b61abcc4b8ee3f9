package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func archiveProject(t *testing.T, w *testutil.World) {
	t.Helper()
	_, err := NewChangeProjectStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeProjectStatusInput{
		Actor:     w.Owner,
		ProjectID: w.Project.ID,
	})
	require.NoError(t, err)
}

func TestCreateModule_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	logger := &testutil.MockLogger{}
	uc := NewCreateModule(w.Store, w.Clock, logger)

	// Execute
	out, err := uc.Execute(context.Background(), CreateModuleInput{
		Actor:       w.Member,
		ProjectID:   w.Project.ID,
		Title:       "  Billing ",
		Description: "Payments and invoices",
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Billing", out.Module.Title)
	assert.True(t, out.Module.Active)
	assert.Equal(t, w.Member.ID, out.Module.CreatorID)
	assert.Equal(t, w.Project.ID, out.Module.ProjectID)
	assert.NotNil(t, w.ReloadModule(t, out.Module.ID))
	assert.Equal(t, []domain.EventType{domain.EventModuleCreated}, w.Store.EventTypes())
	require.Len(t, logger.Entries, 1)
	assert.Equal(t, "module", logger.Entries[0].Category)
}

func TestCreateModule_Execute_Errors(t *testing.T) {
	w := testutil.NewWorld(t)
	uc := NewCreateModule(w.Store, w.Clock, nil)

	tests := []struct {
		name  string
		in    CreateModuleInput
		match error
	}{
		{"viewer", CreateModuleInput{Actor: w.Viewer, ProjectID: w.Project.ID, Title: "Reports"}, domain.ErrAccessDenied},
		{"outsider", CreateModuleInput{Actor: w.Outsider, ProjectID: w.Project.ID, Title: "Reports"}, domain.ErrAccessDenied},
		{"anonymous", CreateModuleInput{ProjectID: w.Project.ID, Title: "Reports"}, domain.ErrUnauthorized},
		{"empty title", CreateModuleInput{Actor: w.Member, ProjectID: w.Project.ID, Title: "  "}, domain.ErrValidation},
		{"unknown project", CreateModuleInput{Actor: w.Member, ProjectID: domain.NewID(), Title: "Reports"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.match)
		})
	}

	t.Run("archived project", func(t *testing.T) {
		archiveProject(t, w)

		_, err := uc.Execute(context.Background(), CreateModuleInput{Actor: w.Member, ProjectID: w.Project.ID, Title: "Reports"})

		assert.ErrorIs(t, err, domain.ErrRuleViolation)
		assert.ErrorIs(t, err, domain.ErrProjectInactive)
	})
}

func TestUpdateModule_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	uc := NewUpdateModule(w.Store, w.Clock, nil)

	// Execute
	out, err := uc.Execute(context.Background(), UpdateModuleInput{
		Actor:       w.Member,
		ModuleID:    w.Module.ID,
		Description: ptr("User accounts"),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Accounts", out.Module.Title)
	assert.Equal(t, "User accounts", w.ReloadModule(t, w.Module.ID).Description)
	assert.Equal(t, []domain.EventType{domain.EventModuleUpdated}, w.Store.EventTypes())

	_, err = uc.Execute(context.Background(), UpdateModuleInput{Actor: w.Viewer, ModuleID: w.Module.ID, Title: ptr("Renamed")})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

// A Member creates a module, the Owner archives the project, and the module
// can no longer be activated. Archiving it still cascades to its use cases.
func TestChangeModuleStatus_Execute_ArchivedProject(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	created, err := NewCreateModule(w.Store, w.Clock, nil).Execute(context.Background(), CreateModuleInput{
		Actor:     w.Member,
		ProjectID: w.Project.ID,
		Title:     "Reports",
	})
	require.NoError(t, err)
	m := created.Module
	u := addUseCase(t, w, m.ID, "Export")
	archiveProject(t, w)
	uc := NewChangeModuleStatus(w.Store, w.Clock, nil)
	before := len(w.Store.Events())

	// Activation of an already-active module under an archived project fails
	_, err = uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Member, ModuleID: m.ID, Active: true})
	assert.ErrorIs(t, err, domain.ErrProjectInactive)
	assert.Len(t, w.Store.Events(), before)

	// Archiving cascades
	out, err := uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Member, ModuleID: m.ID})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	require.Len(t, out.Archived, 1)
	assert.Equal(t, u.ID, out.Archived[0].ID)
	assert.False(t, w.ReloadModule(t, m.ID).Active)
	assert.False(t, w.ReloadUseCase(t, u.ID).Active)
	assert.True(t, w.ReloadModule(t, w.Module.ID).Active, "other modules are untouched")
	assert.Equal(t, []domain.EventType{domain.EventModuleArchived, domain.EventUseCaseArchived}, w.Store.EventTypes()[before:])

	// Reactivation is still rejected
	_, err = uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Member, ModuleID: m.ID, Active: true})
	assert.ErrorIs(t, err, domain.ErrRuleViolation)
	assert.False(t, w.ReloadModule(t, m.ID).Active)
}

func TestChangeModuleStatus_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	archived := addUseCase(t, w, w.Module.ID, "Already archived")
	_, err := NewChangeUseCaseStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeUseCaseStatusInput{
		Actor:     w.Owner,
		UseCaseID: archived.ID,
	})
	require.NoError(t, err)
	uc := NewChangeModuleStatus(w.Store, w.Clock, nil)

	// Archive: only the active use case is cascaded
	out, err := uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Owner, ModuleID: w.Module.ID})
	require.NoError(t, err)
	require.Len(t, out.Archived, 1)
	assert.Equal(t, w.UseCase.ID, out.Archived[0].ID)

	// Archive again: no-op
	before := len(w.Store.Events())
	out, err = uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Owner, ModuleID: w.Module.ID})
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Len(t, w.Store.Events(), before)

	// Activate: use cases stay archived
	out, err = uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Owner, ModuleID: w.Module.ID, Active: true})
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.True(t, w.ReloadModule(t, w.Module.ID).Active)
	assert.False(t, w.ReloadUseCase(t, w.UseCase.ID).Active)
	assert.Equal(t, domain.EventModuleActivated, w.Store.EventTypes()[before])

	// Viewer cannot change status
	_, err = uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Viewer, ModuleID: w.Module.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestChangeModuleStatus_Execute_CascadeIsAtomic(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	w.Store.CommitErr = errors.New("disk full")
	uc := NewChangeModuleStatus(w.Store, w.Clock, nil)

	// Execute
	_, err := uc.Execute(context.Background(), ChangeModuleStatusInput{Actor: w.Owner, ModuleID: w.Module.ID})

	// Assert
	assert.Error(t, err)
	assert.True(t, w.ReloadModule(t, w.Module.ID).Active)
	assert.True(t, w.ReloadUseCase(t, w.UseCase.ID).Active)
	assert.Empty(t, w.Store.Events())
}

func TestDeleteModule_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	empty := addModule(t, w, "Empty")
	uc := NewDeleteModule(w.Store, w.Clock, nil)

	// Module with use cases
	_, err := uc.Execute(context.Background(), DeleteModuleInput{Actor: w.Owner, ModuleID: w.Module.ID})
	assert.ErrorIs(t, err, domain.ErrModuleHasUseCases)

	// Viewer
	_, err = uc.Execute(context.Background(), DeleteModuleInput{Actor: w.Viewer, ModuleID: empty.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	// Empty module
	_, err = uc.Execute(context.Background(), DeleteModuleInput{Actor: w.Member, ModuleID: empty.ID})
	require.NoError(t, err)
	assert.Nil(t, w.ReloadModule(t, empty.ID))
	types := w.Store.EventTypes()
	assert.Equal(t, domain.EventModuleDeleted, types[len(types)-1])

	// Already deleted
	_, err = uc.Execute(context.Background(), DeleteModuleInput{Actor: w.Member, ModuleID: empty.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetModule_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	addUseCase(t, w, w.Module.ID, "Second")
	uc := NewGetModule(w.Store)

	// Execute
	out, err := uc.Execute(context.Background(), GetModuleInput{Actor: w.Viewer, ModuleID: w.Module.ID})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, w.Module.ID, out.Module.ID)
	assert.Equal(t, w.Project.ID, out.Project.ID)
	assert.Equal(t, 2, out.UseCaseCount)

	_, err = uc.Execute(context.Background(), GetModuleInput{Actor: w.Outsider, ModuleID: w.Module.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	out, err = uc.Execute(context.Background(), GetModuleInput{Actor: w.Admin, ModuleID: w.Module.ID})
	require.NoError(t, err)
	assert.Equal(t, w.Module.ID, out.Module.ID)
}

func TestListModules_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	w.Clock.Advance(time.Minute)
	second := addModule(t, w, "Second")
	w.Clock.Advance(time.Minute)
	third := addModule(t, w, "Third")
	_, err := NewChangeModuleStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeModuleStatusInput{
		Actor:    w.Owner,
		ModuleID: third.ID,
	})
	require.NoError(t, err)
	uc := NewListModules(w.Store)

	tests := []struct {
		name string
		in   ListModulesInput
		want []domain.ID
	}{
		{"all", ListModulesInput{}, []domain.ID{w.Module.ID, second.ID, third.ID}},
		{"active", ListModulesInput{Active: ptr(true)}, []domain.ID{w.Module.ID, second.ID}},
		{"archived", ListModulesInput{Active: ptr(false)}, []domain.ID{third.ID}},
		{"page", ListModulesInput{Page: domain.Page{Offset: 1, Limit: 1}}, []domain.ID{second.ID}},
		{"past the end", ListModulesInput{Page: domain.Page{Offset: 5}}, []domain.ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Actor = w.Viewer
			tt.in.ProjectID = w.Project.ID

			out, err := uc.Execute(context.Background(), tt.in)

			require.NoError(t, err)
			ids := []domain.ID{}
			for _, m := range out.Modules {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("outsider", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), ListModulesInput{Actor: w.Outsider, ProjectID: w.Project.ID})
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})
}
