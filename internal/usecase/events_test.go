package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func TestEvents_StampedOnCapture(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	task := w.AddTask(t, "Write signup form")

	// Execute
	_, err := NewAssignAndStartTask(w.Store, w.Users, w.Clock, nil).Execute(context.Background(), AssignAndStartTaskInput{
		Actor:  w.Member,
		TaskID: task.ID,
	})
	require.NoError(t, err)

	// Assert
	events := w.Store.Events()
	require.Len(t, events, 2)
	for i, e := range events {
		assert.Equal(t, int64(i+1), e.Seq)
		assert.False(t, e.ID.IsZero())
		assert.Equal(t, w.Project.ID, e.ProjectID)
		assert.Equal(t, w.Member.ID, e.ActorID)
		assert.Equal(t, task.ID, e.AggregateID)
		assert.Equal(t, testutil.FixedTime, e.OccurredAt)
	}
	assert.NotEqual(t, events[0].ID, events[1].ID)
}

func TestEvents_NothingPersistedOnFailure(t *testing.T) {
	archive := func(w *testutil.World) error {
		_, err := NewChangeModuleStatus(w.Store, w.Clock, nil).Execute(context.Background(), ChangeModuleStatusInput{
			Actor:    w.Owner,
			ModuleID: w.Module.ID,
		})
		return err
	}

	t.Run("append fails", func(t *testing.T) {
		w := testutil.NewWorld(t)
		w.Store.AppendErr = errors.New("log unavailable")

		err := archive(w)

		assert.ErrorContains(t, err, "log unavailable")
		assert.True(t, w.ReloadModule(t, w.Module.ID).Active)
		assert.True(t, w.ReloadUseCase(t, w.UseCase.ID).Active)
		assert.Zero(t, w.Store.Commits)
	})

	t.Run("commit fails", func(t *testing.T) {
		w := testutil.NewWorld(t)
		w.Store.CommitErr = errors.New("disk full")

		err := archive(w)

		assert.ErrorContains(t, err, "disk full")
		assert.True(t, w.ReloadModule(t, w.Module.ID).Active)
		assert.Empty(t, w.Store.Events())
	})

	t.Run("begin fails", func(t *testing.T) {
		w := testutil.NewWorld(t)
		w.Store.BeginErr = errors.New("locked")

		err := archive(w)

		assert.ErrorContains(t, err, "locked")
		assert.Empty(t, w.Store.Events())
	})

	t.Run("rule violation", func(t *testing.T) {
		w := testutil.NewWorld(t)
		task := w.AddStartedTask(t, "Write migration", w.Member.ID)
		blocker := w.AddTask(t, "Design schema")
		w.AddRelation(t, blocker.ID, task.ID, domain.RelationBlocks)

		_, err := NewCompleteTask(w.Store, w.Clock, nil).Execute(context.Background(), CompleteTaskInput{
			Actor:  w.Member,
			TaskID: task.ID,
		})

		assert.ErrorIs(t, err, domain.ErrTaskBlocked)
		assert.Empty(t, w.Store.Events())
		assert.Zero(t, w.Store.Commits)
	})
}

func TestListEvents_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	ctx := context.Background()
	addModule(t, w, "Billing")
	addModule(t, w, "Reports")
	other, err := NewCreateProject(w.Store, w.Clock, nil).Execute(ctx, CreateProjectInput{Actor: w.Outsider, Title: "Side Project"})
	require.NoError(t, err)
	uc := NewListEvents(w.Store, w.Store)

	t.Run("viewer sees own projects", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListEventsInput{Actor: w.Viewer})

		require.NoError(t, err)
		require.Len(t, out.Events, 2)
		for _, e := range out.Events {
			assert.Equal(t, w.Project.ID, e.ProjectID)
		}
		assert.Equal(t, int64(4), out.LastSeq)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListEventsInput{Actor: w.Admin})

		require.NoError(t, err)
		assert.Len(t, out.Events, 4)
	})

	t.Run("project filter", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListEventsInput{Actor: w.Outsider, ProjectID: other.Project.ID})

		require.NoError(t, err)
		require.Len(t, out.Events, 2)
		assert.Equal(t, domain.EventProjectCreated, out.Events[0].Type)
		assert.Equal(t, domain.EventProjectMemberAdded, out.Events[1].Type)
	})

	t.Run("project filter without access", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListEventsInput{Actor: w.Outsider, ProjectID: w.Project.ID})

		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("paging", func(t *testing.T) {
		first, err := uc.Execute(ctx, ListEventsInput{Actor: w.Admin, Limit: 3})
		require.NoError(t, err)
		require.Len(t, first.Events, 3)
		assert.Equal(t, int64(3), first.LastSeq)

		rest, err := uc.Execute(ctx, ListEventsInput{Actor: w.Admin, AfterSeq: first.LastSeq})
		require.NoError(t, err)
		require.Len(t, rest.Events, 1)
		assert.Equal(t, int64(4), rest.Events[0].Seq)
	})

	t.Run("filtered paging skips invisible entries", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListEventsInput{Actor: w.Outsider, Limit: 1, AfterSeq: 1})

		require.NoError(t, err)
		require.Len(t, out.Events, 1)
		assert.Equal(t, int64(3), out.Events[0].Seq)
	})

	t.Run("anonymous", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListEventsInput{})

		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
