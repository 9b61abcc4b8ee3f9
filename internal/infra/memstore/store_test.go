package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
)

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newProject(t *testing.T, title string) *domain.Project {
	t.Helper()
	p, err := domain.NewProject(domain.NewID(), domain.NewID(), title, "", now)
	require.NoError(t, err)
	return p
}

func TestStore_CommitMakesChangesVisible(t *testing.T) {
	ctx := context.Background()
	st := New()
	p := newProject(t, "Website")

	sess, err := st.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Projects().Add(ctx, p))
	require.NoError(t, sess.Events().Append(ctx, domain.Event{ID: domain.NewID(), Type: domain.EventProjectCreated}))
	require.NoError(t, sess.Commit())

	read, err := st.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = read.Rollback() }()
	got, err := read.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Website", got.Title)
	assert.Equal(t, int64(1), got.Version)

	events, err := st.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].Seq)
}

func TestStore_RollbackDiscardsEverything(t *testing.T) {
	ctx := context.Background()
	st := New()

	sess, err := st.Begin(ctx)
	require.NoError(t, err)
	p := newProject(t, "Website")
	require.NoError(t, sess.Projects().Add(ctx, p))
	require.NoError(t, sess.Events().Append(ctx, domain.Event{ID: domain.NewID(), Type: domain.EventProjectCreated}))
	require.NoError(t, sess.Rollback())

	events, err := st.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	read, err := st.Begin(ctx)
	require.NoError(t, err)
	got, err := read.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ConflictingCommit(t *testing.T) {
	ctx := context.Background()
	st := New()
	p := newProject(t, "Website")
	seed, err := st.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, seed.Projects().Add(ctx, p))
	require.NoError(t, seed.Commit())

	a, err := st.Begin(ctx)
	require.NoError(t, err)
	b, err := st.Begin(ctx)
	require.NoError(t, err)

	pa, err := a.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	pa.SetActive(false, now)
	require.NoError(t, a.Projects().Update(ctx, pa))

	pb, err := b.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, pb.Update("Website v2", "", now))
	require.NoError(t, b.Projects().Update(ctx, pb))

	require.NoError(t, a.Commit())
	err = b.Commit()
	assert.ErrorIs(t, err, domain.ErrConflict)

	read, err := st.Begin(ctx)
	require.NoError(t, err)
	got, err := read.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, "Website", got.Title)
}

func TestStore_DisjointCommitsBothSucceed(t *testing.T) {
	ctx := context.Background()
	st := New()

	a, err := st.Begin(ctx)
	require.NoError(t, err)
	b, err := st.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Projects().Add(ctx, newProject(t, "Alpha")))
	require.NoError(t, b.Projects().Add(ctx, newProject(t, "Beta")))
	require.NoError(t, a.Events().Append(ctx, domain.Event{ID: domain.NewID()}))
	require.NoError(t, b.Events().Append(ctx, domain.Event{ID: domain.NewID()}))

	require.NoError(t, a.Commit())
	require.NoError(t, b.Commit())

	read, err := st.Begin(ctx)
	require.NoError(t, err)
	all, err := read.Projects().List(ctx, domain.ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	events, err := st.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(2), events[1].Seq)
}

func TestSession_StaleUpdateWithinSession(t *testing.T) {
	ctx := context.Background()
	st := New()
	sess, err := st.Begin(ctx)
	require.NoError(t, err)
	p := newProject(t, "Website")
	require.NoError(t, sess.Projects().Add(ctx, p))

	stale, err := sess.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, sess.Projects().Update(ctx, p))

	err = sess.Projects().Update(ctx, stale)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSession_CommitTwice(t *testing.T) {
	st := New()
	sess, err := st.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, sess.Commit())

	assert.ErrorIs(t, sess.Commit(), domain.ErrSessionClosed)
	assert.NoError(t, sess.Rollback())
}

func TestModules_ListFilterAndPage(t *testing.T) {
	ctx := context.Background()
	st := New()
	sess, err := st.Begin(ctx)
	require.NoError(t, err)
	projectID := domain.NewID()
	for i, title := range []string{"One", "Two", "Three"} {
		m, err := domain.NewModule(domain.NewID(), projectID, domain.NewID(), title+" module", "", now.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		if i == 1 {
			m.Archive(now)
		}
		require.NoError(t, sess.Modules().Add(ctx, m))
	}

	active := true
	got, err := sess.Modules().ListByProject(ctx, projectID, domain.StatusFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "One module", got[0].Title)
	assert.Equal(t, "Three module", got[1].Title)

	page, err := sess.Modules().ListByProject(ctx, projectID, domain.StatusFilter{Page: domain.Page{Offset: 1, Limit: 1}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Two module", page[0].Title)

	n, err := sess.Modules().CountByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestState_ListEvents(t *testing.T) {
	s := NewState()
	s.AppendEvents([]domain.Event{{Type: "a"}, {Type: "b"}, {Type: "c"}})

	got := s.ListEvents(1, 1)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EventType("b"), got[0].Type)
	assert.Empty(t, s.ListEvents(3, 0))
}
