package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/testutil"
)

func TestAddTaskRelation_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	src := w.AddTask(t, "Design schema")
	dst := w.AddTask(t, "Write migration")
	uc := NewAddTaskRelation(w.Store, w.Clock, nil)

	// Execute
	out, err := uc.Execute(context.Background(), AddTaskRelationInput{
		Actor:    w.Member,
		SourceID: src.ID,
		TargetID: dst.ID,
		Type:     domain.RelationBlocks,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, src.ID, out.Relation.SourceID)
	assert.Equal(t, dst.ID, out.Relation.TargetID)
	events := w.Store.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventTaskRelationAdded, events[0].Type)
	assert.Equal(t, src.ID, events[0].AggregateID)

	list, err := NewListTaskRelations(w.Store).Execute(context.Background(), ListTaskRelationsInput{Actor: w.Viewer, TaskID: dst.ID})
	require.NoError(t, err)
	assert.Empty(t, list.Outgoing)
	require.Len(t, list.Incoming, 1)
	assert.Equal(t, src.ID, list.Incoming[0].Other.ID)
}

func TestAddTaskRelation_Execute_Errors(t *testing.T) {
	w := testutil.NewWorld(t)
	src := w.AddTask(t, "Design schema")
	dst := w.AddTask(t, "Write migration")
	w.AddRelation(t, src.ID, dst.ID, domain.RelationRelatesTo)
	uc := NewAddTaskRelation(w.Store, w.Clock, nil)

	tests := []struct {
		name  string
		in    AddTaskRelationInput
		match error
	}{
		{"self", AddTaskRelationInput{Actor: w.Member, SourceID: src.ID, TargetID: src.ID, Type: domain.RelationBlocks}, domain.ErrSelfRelation},
		{"duplicate", AddTaskRelationInput{Actor: w.Member, SourceID: src.ID, TargetID: dst.ID, Type: domain.RelationRelatesTo}, domain.ErrDuplicateRelation},
		{"unknown type", AddTaskRelationInput{Actor: w.Member, SourceID: src.ID, TargetID: dst.ID, Type: "follows"}, domain.ErrValidation},
		{"unknown target", AddTaskRelationInput{Actor: w.Member, SourceID: src.ID, TargetID: domain.NewID(), Type: domain.RelationBlocks}, domain.ErrNotFound},
		{"viewer", AddTaskRelationInput{Actor: w.Viewer, SourceID: src.ID, TargetID: dst.ID, Type: domain.RelationBlocks}, domain.ErrAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.match)
		})
	}
	assert.Empty(t, w.Store.Events())
}

func TestAddTaskRelation_Execute_CrossProject(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	src := w.AddTask(t, "Design schema")
	now := w.Clock.Now()
	project, err := domain.NewProject(domain.NewID(), w.Owner.ID, "Mobile App", "", now)
	require.NoError(t, err)
	module, err := domain.NewModule(domain.NewID(), project.ID, w.Owner.ID, "Screens", "", now)
	require.NoError(t, err)
	useCase, err := domain.NewUseCase(domain.NewID(), module.ID, w.Owner.ID, "Onboarding", "", "", now)
	require.NoError(t, err)
	other, err := domain.NewTask(domain.NewID(), useCase.ID, w.Owner.ID, domain.TaskTypeFeature, "Welcome screen", "", now)
	require.NoError(t, err)
	w.Seed(t, func(sess domain.Session) {
		ctx := context.Background()
		require.NoError(t, sess.Projects().Add(ctx, project))
		require.NoError(t, sess.Modules().Add(ctx, module))
		require.NoError(t, sess.UseCases().Add(ctx, useCase))
		require.NoError(t, sess.Tasks().Add(ctx, other))
	})

	// Execute
	_, err = NewAddTaskRelation(w.Store, w.Clock, nil).Execute(context.Background(), AddTaskRelationInput{
		Actor:    w.Owner,
		SourceID: src.ID,
		TargetID: other.ID,
		Type:     domain.RelationRelatesTo,
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrRuleViolation)
	assert.ErrorIs(t, err, domain.ErrCrossProjectRelation)
}

func TestAddTaskRelation_Execute_Limit(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	src := w.AddTask(t, "Design schema")
	for i := 0; i < domain.MaxRelationsPerTask; i++ {
		target := w.AddTask(t, fmt.Sprintf("Follow-up %d", i))
		w.AddRelation(t, src.ID, target.ID, domain.RelationRelatesTo)
	}
	extra := w.AddTask(t, "One too many")

	// Execute
	_, err := NewAddTaskRelation(w.Store, w.Clock, nil).Execute(context.Background(), AddTaskRelationInput{
		Actor:    w.Member,
		SourceID: src.ID,
		TargetID: extra.ID,
		Type:     domain.RelationRelatesTo,
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrTooManyRelations)
}

func TestRemoveTaskRelation_Execute(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	src := w.AddTask(t, "Design schema")
	dst := w.AddTask(t, "Write migration")
	rel := w.AddRelation(t, src.ID, dst.ID, domain.RelationBlocks)
	uc := NewRemoveTaskRelation(w.Store, w.Clock, nil)
	in := RemoveTaskRelationInput{Actor: w.Member, TaskID: src.ID, RelationID: rel.ID}

	// Execute
	out, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.Removed)

	// Removing again is a no-op
	out, err = uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, out.Removed)

	// Assert
	assert.Equal(t, []domain.EventType{domain.EventTaskRelationRemoved}, w.Store.EventTypes())
}

func TestRemoveTaskRelation_Execute_UnblocksTarget(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	blocker := w.AddTask(t, "Design schema")
	blocked := w.AddStartedTask(t, "Write migration", w.Member.ID)
	rel := w.AddRelation(t, blocker.ID, blocked.ID, domain.RelationBlocks)
	complete := NewCompleteTask(w.Store, w.Clock, nil)
	in := CompleteTaskInput{Actor: w.Member, TaskID: blocked.ID}

	_, err := complete.Execute(context.Background(), in)
	require.ErrorIs(t, err, domain.ErrTaskBlocked)

	// Execute
	removed, err := NewRemoveTaskRelation(w.Store, w.Clock, nil).Execute(context.Background(), RemoveTaskRelationInput{
		Actor:      w.Member,
		TaskID:     blocker.ID,
		RelationID: rel.ID,
	})
	require.NoError(t, err)
	out, err := complete.Execute(context.Background(), in)

	// Assert
	assert.True(t, removed.Removed)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, out.Task.State)
	assert.Equal(t, domain.StateNotStarted, w.ReloadTask(t, blocker.ID).State)
}

func TestRemoveTaskRelation_Execute_WrongSource(t *testing.T) {
	// Setup
	w := testutil.NewWorld(t)
	src := w.AddTask(t, "Design schema")
	dst := w.AddTask(t, "Write migration")
	rel := w.AddRelation(t, src.ID, dst.ID, domain.RelationBlocks)

	// Execute
	_, err := NewRemoveTaskRelation(w.Store, w.Clock, nil).Execute(context.Background(), RemoveTaskRelationInput{
		Actor:      w.Member,
		TaskID:     dst.ID,
		RelationID: rel.ID,
	})

	// Assert
	assert.ErrorIs(t, err, domain.ErrNotFound)
	w.Read(t, func(sess domain.Session) {
		got, err := sess.Relations().Get(context.Background(), rel.ID)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})
}
