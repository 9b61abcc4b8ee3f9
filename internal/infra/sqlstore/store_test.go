package sqlstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "te4it.db"))
	require.NoError(t, store.Initialize())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// inSession runs fn in a session and commits it.
func inSession(t *testing.T, store *Store, fn func(ctx context.Context, sess domain.Session)) {
	t.Helper()
	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	fn(ctx, sess)
	require.NoError(t, sess.Commit())
}

func addProject(t *testing.T, store *Store, title string) *domain.Project {
	t.Helper()
	return addProjectAt(t, store, title, testNow)
}

func addProjectAt(t *testing.T, store *Store, title string, created time.Time) *domain.Project {
	t.Helper()
	p, err := domain.NewProject(domain.NewID(), domain.NewID(), title, "", created)
	require.NoError(t, err)
	inSession(t, store, func(ctx context.Context, sess domain.Session) {
		require.NoError(t, sess.Projects().Add(ctx, p))
		require.NoError(t, sess.Events().Append(ctx, stamp(p.PendingEvents(), p.ID)...))
	})
	return p
}

func stamp(events []domain.Event, projectID domain.ID) []domain.Event {
	for i := range events {
		events[i].ID = domain.NewID()
		events[i].ProjectID = projectID
		events[i].ActorID = "actor"
		events[i].OccurredAt = testNow
	}
	return events
}

func TestStore_Initialize(t *testing.T) {
	// Setup
	path := filepath.Join(t.TempDir(), "data", "te4it.db")
	store := New(path)
	defer func() { _ = store.Close() }()

	// Execute
	assert.False(t, store.IsInitialized())
	err := store.Initialize()

	// Assert
	require.NoError(t, err)
	assert.True(t, store.IsInitialized())
	assert.ErrorIs(t, store.Initialize(), domain.ErrAlreadyInitialized)
}

func TestStore_NotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "te4it.db"))

	_, err := store.Begin(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotInitialized)

	_, err = store.ListEvents(context.Background(), 0, 0)
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	assert.False(t, store.IsInitialized(), "Begin must not create the database")
}

func TestStore_CommitPersists(t *testing.T) {
	// Setup
	store := newTestStore(t)
	p := addProject(t, store, "Web Platform")
	require.NoError(t, store.Close())

	// Execute
	reopened := New(store.path)
	defer func() { _ = reopened.Close() }()
	sess, err := reopened.Begin(context.Background())
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()
	got, err := sess.Projects().Get(context.Background(), p.ID)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Web Platform", got.Title)
	assert.Equal(t, int64(1), got.Version)
	assert.True(t, got.Created.Equal(testNow))

	events, err := reopened.ListEvents(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, domain.EventProjectCreated, events[0].Type)
	assert.Equal(t, p.ID, events[0].AggregateID)
	assert.Equal(t, "Web Platform", events[0].Payload["title"])
}

func TestStore_RollbackDiscards(t *testing.T) {
	// Setup
	store := newTestStore(t)
	ctx := context.Background()
	p, err := domain.NewProject(domain.NewID(), domain.NewID(), "Web Platform", "", testNow)
	require.NoError(t, err)

	// Execute
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, sess.Projects().Add(ctx, p))
	require.NoError(t, sess.Events().Append(ctx, stamp(p.PendingEvents(), p.ID)...))
	require.NoError(t, sess.Rollback())

	// Assert
	events, err := store.ListEvents(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, events)

	read, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = read.Rollback() }()
	got, err := read.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_StaleUpdateConflicts(t *testing.T) {
	// Setup
	store := newTestStore(t)
	p := addProject(t, store, "Web Platform")
	stale := *p

	inSession(t, store, func(ctx context.Context, sess domain.Session) {
		fresh, err := sess.Projects().Get(ctx, p.ID)
		require.NoError(t, err)
		require.NoError(t, fresh.Update("First title", "", testNow))
		require.NoError(t, sess.Projects().Update(ctx, fresh))
		assert.Equal(t, int64(2), fresh.Version)
	})

	// Execute
	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()
	require.NoError(t, stale.Update("Second title", "", testNow))
	err = sess.Projects().Update(ctx, &stale)

	// Assert
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(1), stale.Version, "version restored after a failed update")
	got, err := sess.Projects().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "First title", got.Title)
}

func TestStore_UpdateMissingRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()

	m, err := domain.NewModule(domain.NewID(), domain.NewID(), domain.NewID(), "Accounts", "", testNow)
	require.NoError(t, err)
	m.Version = 1

	err = sess.Modules().Update(ctx, m)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DuplicateAddConflicts(t *testing.T) {
	store := newTestStore(t)
	p := addProject(t, store, "Web Platform")
	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()

	dup := *p
	err = sess.Projects().Add(ctx, &dup)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStore_EventLogAppendOnly(t *testing.T) {
	// Setup
	store := newTestStore(t)
	addProject(t, store, "Web Platform")
	db, err := store.conn()
	require.NoError(t, err)

	// Execute
	_, updateErr := db.Exec("UPDATE event_log SET type = 'Tampered'")
	_, deleteErr := db.Exec("DELETE FROM event_log")

	// Assert
	require.Error(t, updateErr)
	assert.Contains(t, updateErr.Error(), "append-only")
	require.Error(t, deleteErr)
	events, err := store.ListEvents(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventProjectCreated, events[0].Type)
}

func TestStore_ListEventsPaging(t *testing.T) {
	store := newTestStore(t)
	for _, title := range []string{"Project A", "Project B", "Project C"} {
		addProject(t, store, title)
	}

	events, err := store.ListEvents(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int64(2), events[0].Seq)

	all, err := store.ListEvents(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStore_ProjectList(t *testing.T) {
	// Setup
	store := newTestStore(t)
	a := addProjectAt(t, store, "Project A", testNow)
	b := addProjectAt(t, store, "Project B", testNow.Add(time.Minute))
	c := addProjectAt(t, store, "Project C", testNow.Add(2*time.Minute))
	inSession(t, store, func(ctx context.Context, sess domain.Session) {
		c.SetActive(false, testNow)
		require.NoError(t, sess.Projects().Update(ctx, c))
	})
	active := true

	tests := []struct {
		name   string
		filter domain.ProjectFilter
		want   []domain.ID
	}{
		{name: "all", filter: domain.ProjectFilter{}, want: []domain.ID{a.ID, b.ID, c.ID}},
		{name: "active only", filter: domain.ProjectFilter{Active: &active}, want: []domain.ID{a.ID, b.ID}},
		{name: "by ids", filter: domain.ProjectFilter{IDs: []domain.ID{c.ID, a.ID}}, want: []domain.ID{a.ID, c.ID}},
		{name: "empty ids", filter: domain.ProjectFilter{IDs: []domain.ID{}}, want: []domain.ID{}},
		{name: "paged", filter: domain.ProjectFilter{Page: domain.Page{Offset: 1, Limit: 1}}, want: []domain.ID{b.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			sess, err := store.Begin(ctx)
			require.NoError(t, err)
			defer func() { _ = sess.Rollback() }()

			got, err := sess.Projects().List(ctx, tt.filter)

			require.NoError(t, err)
			ids := make([]domain.ID, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestStore_TaskFilters(t *testing.T) {
	// Setup
	store := newTestStore(t)
	useCaseID := domain.NewID()
	assignee := domain.NewID()
	feature, err := domain.NewTask(domain.NewID(), useCaseID, assignee, domain.TaskTypeFeature, "Build form", "", testNow)
	require.NoError(t, err)
	bug, err := domain.NewTask(domain.NewID(), useCaseID, assignee, domain.TaskTypeBug, "Fix login", "", testNow.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, bug.AssignAndStart(assignee, testNow))
	other, err := domain.NewTask(domain.NewID(), domain.NewID(), assignee, domain.TaskTypeBug, "Elsewhere", "", testNow)
	require.NoError(t, err)

	inSession(t, store, func(ctx context.Context, sess domain.Session) {
		for _, task := range []*domain.Task{feature, bug, other} {
			require.NoError(t, sess.Tasks().Add(ctx, task))
		}
	})

	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()
	tasks := sess.Tasks()

	// Execute / Assert
	all, err := tasks.ListByUseCase(ctx, useCaseID, domain.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bugType := domain.TaskTypeBug
	bugs, err := tasks.ListByUseCase(ctx, useCaseID, domain.TaskFilter{Type: &bugType})
	require.NoError(t, err)
	require.Len(t, bugs, 1)
	assert.Equal(t, bug.ID, bugs[0].ID)

	inProgress := domain.StateInProgress
	started, err := tasks.ListByUseCase(ctx, useCaseID, domain.TaskFilter{State: &inProgress, AssigneeID: assignee})
	require.NoError(t, err)
	require.Len(t, started, 1)
	assert.Equal(t, assignee, started[0].AssigneeID)
	require.NotNil(t, started[0].Started)

	n, err := tasks.CountByUseCase(ctx, useCaseID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_Relations(t *testing.T) {
	// Setup
	store := newTestStore(t)
	source, target := domain.NewID(), domain.NewID()
	rel, err := domain.NewTaskRelation(domain.NewID(), source, target, domain.RelationBlocks, testNow)
	require.NoError(t, err)
	inSession(t, store, func(ctx context.Context, sess domain.Session) {
		require.NoError(t, sess.Relations().Add(ctx, rel))
	})

	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()

	// Execute
	got, err := sess.Relations().Get(ctx, rel.ID)
	require.NoError(t, err)
	outgoing, err := sess.Relations().ListBySource(ctx, source)
	require.NoError(t, err)
	incoming, err := sess.Relations().ListByTarget(ctx, target)
	require.NoError(t, err)
	dup, _ := domain.NewTaskRelation(domain.NewID(), source, target, domain.RelationBlocks, testNow)
	dupErr := sess.Relations().Add(ctx, dup)

	// Assert
	require.NotNil(t, got)
	assert.Equal(t, target, got.TargetID)
	assert.True(t, got.Created.Equal(testNow))
	assert.Len(t, outgoing, 1)
	assert.Len(t, incoming, 1)
	assert.ErrorIs(t, dupErr, domain.ErrConflict)

	require.NoError(t, sess.Relations().Remove(ctx, rel.ID))
	require.NoError(t, sess.Relations().Remove(ctx, rel.ID))
	got, err = sess.Relations().Get(ctx, rel.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_InvitationLookups(t *testing.T) {
	store := newTestStore(t)
	projectID := domain.NewID()
	inv, err := domain.NewInvitation(domain.NewID(), projectID, domain.NewID(), "Dana@Example.com", domain.RoleMember, "hash:abc", 7, testNow)
	require.NoError(t, err)
	inSession(t, store, func(ctx context.Context, sess domain.Session) {
		require.NoError(t, sess.Invitations().Add(ctx, inv))
	})

	ctx := context.Background()
	sess, err := store.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()

	byHash, err := sess.Invitations().GetByTokenHash(ctx, "hash:abc")
	require.NoError(t, err)
	require.NotNil(t, byHash)
	assert.Equal(t, inv.ID, byHash.ID)

	byEmail, err := sess.Invitations().ListByEmail(ctx, " DANA@example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)

	require.NoError(t, sess.Invitations().RemoveByProject(ctx, projectID))
	byProject, err := sess.Invitations().ListByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, byProject)
}

func TestStore_SessionClosed(t *testing.T) {
	store := newTestStore(t)
	sess, err := store.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, sess.Commit())
	assert.ErrorIs(t, sess.Commit(), domain.ErrSessionClosed)
	assert.NoError(t, sess.Rollback())
	_, err = sess.Projects().Get(context.Background(), domain.NewID())
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
