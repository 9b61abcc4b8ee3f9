package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/te4it/te4it/internal/domain"
)

func getRow[K comparable, V any](m map[K]V, k K) *V {
	v, ok := m[k]
	if !ok {
		return nil
	}
	return &v
}

func paginate[T any](items []T, page domain.Page) []T {
	offset := max(page.Offset, 0)
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}

func byCreated[T any](items []*T, created func(*T) time.Time, id func(*T) domain.ID) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return id(items[i]) < id(items[j])
	})
}

func matchActive(filter *bool, active bool) bool {
	return filter == nil || *filter == active
}

func alreadyExists(kind string, id domain.ID) error {
	return fmt.Errorf("%s %s already exists: %w", kind, id, domain.ErrConflict)
}

func staleWrite(kind string, id domain.ID) error {
	return fmt.Errorf("%s %s was modified: %w", kind, id, domain.ErrConflict)
}

// --- projects

type projectRepo struct{ s *Session }

func (r projectRepo) Get(_ context.Context, id domain.ID) (*domain.Project, error) {
	return getRow(r.s.state.Projects, id), nil
}

func (r projectRepo) List(_ context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	var ids map[domain.ID]bool
	if filter.IDs != nil {
		ids = make(map[domain.ID]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}
	out := []*domain.Project{}
	for _, p := range r.s.state.Projects {
		p := p
		if ids != nil && !ids[p.ID] {
			continue
		}
		if !matchActive(filter.Active, p.Active) {
			continue
		}
		out = append(out, &p)
	}
	byCreated(out, func(p *domain.Project) time.Time { return p.Created }, func(p *domain.Project) domain.ID { return p.ID })
	return paginate(out, filter.Page), nil
}

func (r projectRepo) Add(_ context.Context, p *domain.Project) error {
	if _, ok := r.s.state.Projects[p.ID]; ok {
		return alreadyExists(kindProject, p.ID)
	}
	r.s.touch(kindProject, string(p.ID))
	p.Version = 1
	v := *p
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Projects[p.ID] = v
	return nil
}

func (r projectRepo) Update(_ context.Context, p *domain.Project) error {
	cur, ok := r.s.state.Projects[p.ID]
	if !ok {
		return domain.NotFound(kindProject, p.ID)
	}
	if cur.Version != p.Version {
		return staleWrite(kindProject, p.ID)
	}
	r.s.touch(kindProject, string(p.ID))
	p.Version++
	v := *p
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Projects[p.ID] = v
	return nil
}

func (r projectRepo) Remove(_ context.Context, id domain.ID) error {
	if _, ok := r.s.state.Projects[id]; ok {
		r.s.touch(kindProject, string(id))
		delete(r.s.state.Projects, id)
	}
	return nil
}

// --- members

type memberRepo struct{ s *Session }

func (r memberRepo) Get(_ context.Context, projectID, userID domain.ID) (*domain.ProjectMember, error) {
	return getRow(r.s.state.Members, memberKey(projectID, userID)), nil
}

func (r memberRepo) list(match func(*domain.ProjectMember) bool) []*domain.ProjectMember {
	out := []*domain.ProjectMember{}
	for _, m := range r.s.state.Members {
		m := m
		if match(&m) {
			out = append(out, &m)
		}
	}
	byCreated(out, func(m *domain.ProjectMember) time.Time { return m.Joined }, func(m *domain.ProjectMember) domain.ID { return m.UserID })
	return out
}

func (r memberRepo) ListByProject(_ context.Context, projectID domain.ID) ([]*domain.ProjectMember, error) {
	return r.list(func(m *domain.ProjectMember) bool { return m.ProjectID == projectID }), nil
}

func (r memberRepo) ListByUser(_ context.Context, userID domain.ID) ([]*domain.ProjectMember, error) {
	return r.list(func(m *domain.ProjectMember) bool { return m.UserID == userID }), nil
}

func (r memberRepo) Add(_ context.Context, m *domain.ProjectMember) error {
	key := memberKey(m.ProjectID, m.UserID)
	if _, ok := r.s.state.Members[key]; ok {
		return alreadyExists(kindMember, m.UserID)
	}
	r.s.touch(kindMember, key)
	m.Version = 1
	v := *m
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Members[key] = v
	return nil
}

func (r memberRepo) Update(_ context.Context, m *domain.ProjectMember) error {
	key := memberKey(m.ProjectID, m.UserID)
	cur, ok := r.s.state.Members[key]
	if !ok {
		return domain.NotFound(kindMember, m.UserID)
	}
	if cur.Version != m.Version {
		return staleWrite(kindMember, m.UserID)
	}
	r.s.touch(kindMember, key)
	m.Version++
	v := *m
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Members[key] = v
	return nil
}

func (r memberRepo) Remove(_ context.Context, projectID, userID domain.ID) error {
	key := memberKey(projectID, userID)
	if _, ok := r.s.state.Members[key]; ok {
		r.s.touch(kindMember, key)
		delete(r.s.state.Members, key)
	}
	return nil
}

// --- invitations

type invitationRepo struct{ s *Session }

func (r invitationRepo) Get(_ context.Context, id domain.ID) (*domain.Invitation, error) {
	return getRow(r.s.state.Invitations, id), nil
}

func (r invitationRepo) GetByTokenHash(_ context.Context, hash string) (*domain.Invitation, error) {
	for _, inv := range r.s.state.Invitations {
		if inv.TokenHash == hash {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r invitationRepo) list(match func(*domain.Invitation) bool) []*domain.Invitation {
	out := []*domain.Invitation{}
	for _, inv := range r.s.state.Invitations {
		inv := inv
		if match(&inv) {
			out = append(out, &inv)
		}
	}
	byCreated(out, func(i *domain.Invitation) time.Time { return i.Created }, func(i *domain.Invitation) domain.ID { return i.ID })
	return out
}

func (r invitationRepo) ListByProject(_ context.Context, projectID domain.ID) ([]*domain.Invitation, error) {
	return r.list(func(i *domain.Invitation) bool { return i.ProjectID == projectID }), nil
}

func (r invitationRepo) ListByEmail(_ context.Context, email string) ([]*domain.Invitation, error) {
	email = domain.NormalizeEmail(email)
	return r.list(func(i *domain.Invitation) bool { return i.Email == email }), nil
}

func (r invitationRepo) Add(_ context.Context, inv *domain.Invitation) error {
	if _, ok := r.s.state.Invitations[inv.ID]; ok {
		return alreadyExists(kindInvitation, inv.ID)
	}
	r.s.touch(kindInvitation, string(inv.ID))
	inv.Version = 1
	v := *inv
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Invitations[inv.ID] = v
	return nil
}

func (r invitationRepo) Update(_ context.Context, inv *domain.Invitation) error {
	cur, ok := r.s.state.Invitations[inv.ID]
	if !ok {
		return domain.NotFound(kindInvitation, inv.ID)
	}
	if cur.Version != inv.Version {
		return staleWrite(kindInvitation, inv.ID)
	}
	r.s.touch(kindInvitation, string(inv.ID))
	inv.Version++
	v := *inv
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Invitations[inv.ID] = v
	return nil
}

func (r invitationRepo) RemoveByProject(_ context.Context, projectID domain.ID) error {
	for id, inv := range r.s.state.Invitations {
		if inv.ProjectID == projectID {
			r.s.touch(kindInvitation, string(id))
			delete(r.s.state.Invitations, id)
		}
	}
	return nil
}

// --- modules

type moduleRepo struct{ s *Session }

func (r moduleRepo) Get(_ context.Context, id domain.ID) (*domain.Module, error) {
	return getRow(r.s.state.Modules, id), nil
}

func (r moduleRepo) ListByProject(_ context.Context, projectID domain.ID, filter domain.StatusFilter) ([]*domain.Module, error) {
	out := []*domain.Module{}
	for _, m := range r.s.state.Modules {
		m := m
		if m.ProjectID == projectID && matchActive(filter.Active, m.Active) {
			out = append(out, &m)
		}
	}
	byCreated(out, func(m *domain.Module) time.Time { return m.Created }, func(m *domain.Module) domain.ID { return m.ID })
	return paginate(out, filter.Page), nil
}

func (r moduleRepo) CountByProject(_ context.Context, projectID domain.ID) (int, error) {
	n := 0
	for _, m := range r.s.state.Modules {
		if m.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r moduleRepo) Add(_ context.Context, m *domain.Module) error {
	if _, ok := r.s.state.Modules[m.ID]; ok {
		return alreadyExists(kindModule, m.ID)
	}
	r.s.touch(kindModule, string(m.ID))
	m.Version = 1
	v := *m
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Modules[m.ID] = v
	return nil
}

func (r moduleRepo) Update(_ context.Context, m *domain.Module) error {
	cur, ok := r.s.state.Modules[m.ID]
	if !ok {
		return domain.NotFound(kindModule, m.ID)
	}
	if cur.Version != m.Version {
		return staleWrite(kindModule, m.ID)
	}
	r.s.touch(kindModule, string(m.ID))
	m.Version++
	v := *m
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Modules[m.ID] = v
	return nil
}

func (r moduleRepo) Remove(_ context.Context, id domain.ID) error {
	if _, ok := r.s.state.Modules[id]; ok {
		r.s.touch(kindModule, string(id))
		delete(r.s.state.Modules, id)
	}
	return nil
}

// --- use cases

type useCaseRepo struct{ s *Session }

func (r useCaseRepo) Get(_ context.Context, id domain.ID) (*domain.UseCase, error) {
	return getRow(r.s.state.UseCases, id), nil
}

func (r useCaseRepo) ListByModule(_ context.Context, moduleID domain.ID, filter domain.StatusFilter) ([]*domain.UseCase, error) {
	out := []*domain.UseCase{}
	for _, u := range r.s.state.UseCases {
		u := u
		if u.ModuleID == moduleID && matchActive(filter.Active, u.Active) {
			out = append(out, &u)
		}
	}
	byCreated(out, func(u *domain.UseCase) time.Time { return u.Created }, func(u *domain.UseCase) domain.ID { return u.ID })
	return paginate(out, filter.Page), nil
}

func (r useCaseRepo) CountByModule(_ context.Context, moduleID domain.ID) (int, error) {
	n := 0
	for _, u := range r.s.state.UseCases {
		if u.ModuleID == moduleID {
			n++
		}
	}
	return n, nil
}

func (r useCaseRepo) Add(_ context.Context, u *domain.UseCase) error {
	if _, ok := r.s.state.UseCases[u.ID]; ok {
		return alreadyExists(kindUseCase, u.ID)
	}
	r.s.touch(kindUseCase, string(u.ID))
	u.Version = 1
	v := *u
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.UseCases[u.ID] = v
	return nil
}

func (r useCaseRepo) Update(_ context.Context, u *domain.UseCase) error {
	cur, ok := r.s.state.UseCases[u.ID]
	if !ok {
		return domain.NotFound(kindUseCase, u.ID)
	}
	if cur.Version != u.Version {
		return staleWrite(kindUseCase, u.ID)
	}
	r.s.touch(kindUseCase, string(u.ID))
	u.Version++
	v := *u
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.UseCases[u.ID] = v
	return nil
}

func (r useCaseRepo) Remove(_ context.Context, id domain.ID) error {
	if _, ok := r.s.state.UseCases[id]; ok {
		r.s.touch(kindUseCase, string(id))
		delete(r.s.state.UseCases, id)
	}
	return nil
}

// --- tasks

type taskRepo struct{ s *Session }

func (r taskRepo) Get(_ context.Context, id domain.ID) (*domain.Task, error) {
	return getRow(r.s.state.Tasks, id), nil
}

func (r taskRepo) ListByUseCase(_ context.Context, useCaseID domain.ID, filter domain.TaskFilter) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.s.state.Tasks {
		t := t
		if t.UseCaseID != useCaseID {
			continue
		}
		if filter.State != nil && t.State != *filter.State {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if !filter.AssigneeID.IsZero() && t.AssigneeID != filter.AssigneeID {
			continue
		}
		out = append(out, &t)
	}
	byCreated(out, func(t *domain.Task) time.Time { return t.Created }, func(t *domain.Task) domain.ID { return t.ID })
	return paginate(out, filter.Page), nil
}

func (r taskRepo) CountByUseCase(_ context.Context, useCaseID domain.ID) (int, error) {
	n := 0
	for _, t := range r.s.state.Tasks {
		if t.UseCaseID == useCaseID {
			n++
		}
	}
	return n, nil
}

func (r taskRepo) Add(_ context.Context, t *domain.Task) error {
	if _, ok := r.s.state.Tasks[t.ID]; ok {
		return alreadyExists(kindTask, t.ID)
	}
	r.s.touch(kindTask, string(t.ID))
	t.Version = 1
	v := *t
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Tasks[t.ID] = v
	return nil
}

func (r taskRepo) Update(_ context.Context, t *domain.Task) error {
	cur, ok := r.s.state.Tasks[t.ID]
	if !ok {
		return domain.NotFound(kindTask, t.ID)
	}
	if cur.Version != t.Version {
		return staleWrite(kindTask, t.ID)
	}
	r.s.touch(kindTask, string(t.ID))
	t.Version++
	v := *t
	v.EventRecorder = domain.EventRecorder{}
	r.s.state.Tasks[t.ID] = v
	return nil
}

func (r taskRepo) Remove(_ context.Context, id domain.ID) error {
	if _, ok := r.s.state.Tasks[id]; ok {
		r.s.touch(kindTask, string(id))
		delete(r.s.state.Tasks, id)
	}
	return nil
}

// --- relations

type relationRepo struct{ s *Session }

func (r relationRepo) Get(_ context.Context, id domain.ID) (*domain.TaskRelation, error) {
	return getRow(r.s.state.Relations, id), nil
}

func (r relationRepo) list(match func(*domain.TaskRelation) bool) []*domain.TaskRelation {
	out := []*domain.TaskRelation{}
	for _, rel := range r.s.state.Relations {
		rel := rel
		if match(&rel) {
			out = append(out, &rel)
		}
	}
	byCreated(out, func(r *domain.TaskRelation) time.Time { return r.Created }, func(r *domain.TaskRelation) domain.ID { return r.ID })
	return out
}

func (r relationRepo) ListBySource(_ context.Context, taskID domain.ID) ([]*domain.TaskRelation, error) {
	return r.list(func(rel *domain.TaskRelation) bool { return rel.SourceID == taskID }), nil
}

func (r relationRepo) ListByTarget(_ context.Context, taskID domain.ID) ([]*domain.TaskRelation, error) {
	return r.list(func(rel *domain.TaskRelation) bool { return rel.TargetID == taskID }), nil
}

func (r relationRepo) Add(_ context.Context, rel *domain.TaskRelation) error {
	if _, ok := r.s.state.Relations[rel.ID]; ok {
		return alreadyExists(kindRelation, rel.ID)
	}
	r.s.touch(kindRelation, string(rel.ID))
	r.s.state.Relations[rel.ID] = *rel
	return nil
}

func (r relationRepo) Remove(_ context.Context, id domain.ID) error {
	if _, ok := r.s.state.Relations[id]; ok {
		r.s.touch(kindRelation, string(id))
		delete(r.s.state.Relations, id)
	}
	return nil
}
