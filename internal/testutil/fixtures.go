package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/te4it/te4it/internal/domain"
)

// FixedTime is the default time for MockClock in fixtures.
var FixedTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// World is a seeded data set: one project owned by Owner with Member and
// Viewer memberships, one active module and one active use case. Outsider
// is registered but has no membership; Admin holds the administrator role.
type World struct {
	Store   *MockStore
	Users   *MockUserDirectory
	Clock   *MockClock
	Project *domain.Project
	Module  *domain.Module
	UseCase *domain.UseCase

	Owner    domain.Actor
	Member   domain.Actor
	Viewer   domain.Actor
	Outsider domain.Actor
	Admin    domain.Actor
}

// NewUser creates a directory user.
func NewUser(email string, roles ...string) *domain.User {
	return &domain.User{ID: domain.NewID(), Email: email, Name: email, Roles: roles}
}

// NewWorld seeds a World. Seeding writes no log entries.
func NewWorld(t testing.TB) *World {
	t.Helper()
	ctx := context.Background()

	owner := NewUser("owner@example.com")
	member := NewUser("member@example.com")
	viewer := NewUser("viewer@example.com")
	outsider := NewUser("outsider@example.com")
	admin := NewUser("admin@example.com", domain.AdministratorRole)

	w := &World{
		Store:    NewMockStore(),
		Users:    NewMockUserDirectory(owner, member, viewer, outsider, admin),
		Clock:    &MockClock{NowTime: FixedTime},
		Owner:    owner.Actor(),
		Member:   member.Actor(),
		Viewer:   viewer.Actor(),
		Outsider: outsider.Actor(),
		Admin:    admin.Actor(),
	}

	now := w.Clock.Now()
	project, err := domain.NewProject(domain.NewID(), owner.ID, "Web Platform", "", now)
	require.NoError(t, err)
	module, err := domain.NewModule(domain.NewID(), project.ID, owner.ID, "Accounts", "", now)
	require.NoError(t, err)
	useCase, err := domain.NewUseCase(domain.NewID(), module.ID, owner.ID, "Sign up", "", "", now)
	require.NoError(t, err)

	w.Seed(t, func(sess domain.Session) {
		require.NoError(t, sess.Projects().Add(ctx, project))
		for _, m := range []struct {
			id   domain.ID
			role domain.Role
		}{{owner.ID, domain.RoleOwner}, {member.ID, domain.RoleMember}, {viewer.ID, domain.RoleViewer}} {
			pm, err := domain.NewProjectMember(project.ID, m.id, m.role, now)
			require.NoError(t, err)
			require.NoError(t, sess.Members().Add(ctx, pm))
		}
		require.NoError(t, sess.Modules().Add(ctx, module))
		require.NoError(t, sess.UseCases().Add(ctx, useCase))
	})

	project.ClearEvents()
	module.ClearEvents()
	useCase.ClearEvents()
	w.Project = project
	w.Module = module
	w.UseCase = useCase
	return w
}

// Seed runs fn in a committed session without recording events.
func (w *World) Seed(t testing.TB, fn func(sess domain.Session)) {
	t.Helper()
	sess, err := w.Store.Store.Begin(context.Background())
	require.NoError(t, err)
	fn(sess)
	require.NoError(t, sess.Commit())
}

// AddTask seeds a not-started task in the world's use case.
func (w *World) AddTask(t testing.TB, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.NewID(), w.UseCase.ID, w.Owner.ID, domain.TaskTypeFeature, title, "", w.Clock.Now())
	require.NoError(t, err)
	w.Seed(t, func(sess domain.Session) {
		require.NoError(t, sess.Tasks().Add(context.Background(), task))
	})
	task.ClearEvents()
	return task
}

// AddStartedTask seeds a task assigned to assignee and in progress.
func (w *World) AddStartedTask(t testing.TB, title string, assignee domain.ID) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(domain.NewID(), w.UseCase.ID, w.Owner.ID, domain.TaskTypeFeature, title, "", w.Clock.Now())
	require.NoError(t, err)
	require.NoError(t, task.AssignAndStart(assignee, w.Clock.Now()))
	w.Seed(t, func(sess domain.Session) {
		require.NoError(t, sess.Tasks().Add(context.Background(), task))
	})
	task.ClearEvents()
	return task
}

// AddRelation seeds a relation.
func (w *World) AddRelation(t testing.TB, source, target domain.ID, typ domain.RelationType) *domain.TaskRelation {
	t.Helper()
	rel, err := domain.NewTaskRelation(domain.NewID(), source, target, typ, w.Clock.Now())
	require.NoError(t, err)
	w.Seed(t, func(sess domain.Session) {
		require.NoError(t, sess.Relations().Add(context.Background(), rel))
	})
	return rel
}

// Read runs fn in a session that is rolled back afterwards.
func (w *World) Read(t testing.TB, fn func(sess domain.Session)) {
	t.Helper()
	sess, err := w.Store.Store.Begin(context.Background())
	require.NoError(t, err)
	defer func() { _ = sess.Rollback() }()
	fn(sess)
}

// ReloadTask reloads a task.
func (w *World) ReloadTask(t testing.TB, id domain.ID) *domain.Task {
	t.Helper()
	var task *domain.Task
	w.Read(t, func(sess domain.Session) {
		var err error
		task, err = sess.Tasks().Get(context.Background(), id)
		require.NoError(t, err)
	})
	return task
}

// ReloadModule reloads a module.
func (w *World) ReloadModule(t testing.TB, id domain.ID) *domain.Module {
	t.Helper()
	var m *domain.Module
	w.Read(t, func(sess domain.Session) {
		var err error
		m, err = sess.Modules().Get(context.Background(), id)
		require.NoError(t, err)
	})
	return m
}

// ReloadUseCase reloads a use case.
func (w *World) ReloadUseCase(t testing.TB, id domain.ID) *domain.UseCase {
	t.Helper()
	var u *domain.UseCase
	w.Read(t, func(sess domain.Session) {
		var err error
		u, err = sess.UseCases().Get(context.Background(), id)
		require.NoError(t, err)
	})
	return u
}

// ReloadProject reloads a project.
func (w *World) ReloadProject(t testing.TB, id domain.ID) *domain.Project {
	t.Helper()
	var p *domain.Project
	w.Read(t, func(sess domain.Session) {
		var err error
		p, err = sess.Projects().Get(context.Background(), id)
		require.NoError(t, err)
	})
	return p
}

// Membership reloads a membership.
func (w *World) Membership(t testing.TB, projectID, userID domain.ID) *domain.ProjectMember {
	t.Helper()
	var m *domain.ProjectMember
	w.Read(t, func(sess domain.Session) {
		var err error
		m, err = sess.Members().Get(context.Background(), projectID, userID)
		require.NoError(t, err)
	})
	return m
}
