package sqlstore

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
)

// activeClause filters on the active column when filter is set.
func activeClause(filter *bool) (string, []any) {
	if filter == nil {
		return "", nil
	}
	return " AND active = ?", []any{boolInt(*filter)}
}

// --- projects

type projectRepo struct{ s *Session }

func (r projectRepo) Get(ctx context.Context, id domain.ID) (*domain.Project, error) {
	p, err := getDoc[domain.Project](ctx, r.s, "SELECT data FROM projects WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r projectRepo) List(ctx context.Context, filter domain.ProjectFilter) ([]*domain.Project, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []*domain.Project{}, nil
	}
	query := "SELECT data FROM projects WHERE 1 = 1"
	var args []any
	if filter.IDs != nil {
		query += " AND id IN (" + placeholders(len(filter.IDs)) + ")"
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}
	clause, clauseArgs := activeClause(filter.Active)
	query += clause + " ORDER BY created_at, id LIMIT ? OFFSET ?"
	limit, offset := pageArgs(filter.Page)
	args = append(append(args, clauseArgs...), limit, offset)

	projects, err := listDocs[domain.Project](ctx, r.s, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (r projectRepo) Add(ctx context.Context, p *domain.Project) error {
	p.Version = 1
	data, err := encode(p)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `
		INSERT INTO projects (id, active, created_at, version, data) VALUES (?, ?, ?, ?, ?)
	`, p.ID, boolInt(p.Active), formatTime(p.Created), p.Version, data)
	if err != nil {
		p.Version = 0
		return fmt.Errorf("add project: %w", err)
	}
	return nil
}

func (r projectRepo) Update(ctx context.Context, p *domain.Project) error {
	prev := p.Version
	p.Version++
	data, err := encode(p)
	if err != nil {
		p.Version = prev
		return err
	}
	res, err := r.s.exec(ctx, `
		UPDATE projects SET active = ?, version = ?, data = ? WHERE id = ? AND version = ?
	`, boolInt(p.Active), p.Version, data, p.ID, prev)
	if err == nil {
		err = checkUpdated(ctx, r.s, res, "project", "projects", "id = ?", p.ID, p.ID)
	}
	if err != nil {
		p.Version = prev
		return err
	}
	return nil
}

func (r projectRepo) Remove(ctx context.Context, id domain.ID) error {
	if _, err := r.s.exec(ctx, "DELETE FROM projects WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove project: %w", err)
	}
	return nil
}

// --- members

type memberRepo struct{ s *Session }

func (r memberRepo) Get(ctx context.Context, projectID, userID domain.ID) (*domain.ProjectMember, error) {
	m, err := getDoc[domain.ProjectMember](ctx, r.s,
		"SELECT data FROM project_members WHERE project_id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (r memberRepo) ListByProject(ctx context.Context, projectID domain.ID) ([]*domain.ProjectMember, error) {
	members, err := listDocs[domain.ProjectMember](ctx, r.s,
		"SELECT data FROM project_members WHERE project_id = ? ORDER BY joined_at, user_id", projectID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (r memberRepo) ListByUser(ctx context.Context, userID domain.ID) ([]*domain.ProjectMember, error) {
	members, err := listDocs[domain.ProjectMember](ctx, r.s,
		"SELECT data FROM project_members WHERE user_id = ? ORDER BY joined_at, project_id", userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return members, nil
}

func (r memberRepo) Add(ctx context.Context, m *domain.ProjectMember) error {
	m.Version = 1
	data, err := encode(m)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `
		INSERT INTO project_members (project_id, user_id, joined_at, version, data) VALUES (?, ?, ?, ?, ?)
	`, m.ProjectID, m.UserID, formatTime(m.Joined), m.Version, data)
	if err != nil {
		m.Version = 0
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r memberRepo) Update(ctx context.Context, m *domain.ProjectMember) error {
	prev := m.Version
	m.Version++
	data, err := encode(m)
	if err != nil {
		m.Version = prev
		return err
	}
	res, err := r.s.exec(ctx, `
		UPDATE project_members SET version = ?, data = ? WHERE project_id = ? AND user_id = ? AND version = ?
	`, m.Version, data, m.ProjectID, m.UserID, prev)
	if err == nil {
		err = checkUpdated(ctx, r.s, res, "member", "project_members", "project_id = ? AND user_id = ?", m.UserID, m.ProjectID, m.UserID)
	}
	if err != nil {
		m.Version = prev
		return err
	}
	return nil
}

func (r memberRepo) Remove(ctx context.Context, projectID, userID domain.ID) error {
	_, err := r.s.exec(ctx, "DELETE FROM project_members WHERE project_id = ? AND user_id = ?", projectID, userID)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

// --- invitations

type invitationRepo struct{ s *Session }

func (r invitationRepo) Get(ctx context.Context, id domain.ID) (*domain.Invitation, error) {
	inv, err := getDoc[domain.Invitation](ctx, r.s, "SELECT data FROM invitations WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r invitationRepo) GetByTokenHash(ctx context.Context, hash string) (*domain.Invitation, error) {
	inv, err := getDoc[domain.Invitation](ctx, r.s, "SELECT data FROM invitations WHERE token_hash = ?", hash)
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

func (r invitationRepo) ListByProject(ctx context.Context, projectID domain.ID) ([]*domain.Invitation, error) {
	invitations, err := listDocs[domain.Invitation](ctx, r.s,
		"SELECT data FROM invitations WHERE project_id = ? ORDER BY created_at, id", projectID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func (r invitationRepo) ListByEmail(ctx context.Context, email string) ([]*domain.Invitation, error) {
	invitations, err := listDocs[domain.Invitation](ctx, r.s,
		"SELECT data FROM invitations WHERE email = ? ORDER BY created_at, id", domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

func (r invitationRepo) Add(ctx context.Context, inv *domain.Invitation) error {
	inv.Version = 1
	data, err := encode(inv)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `
		INSERT INTO invitations (id, project_id, email, token_hash, created_at, version, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, inv.ID, inv.ProjectID, inv.Email, inv.TokenHash, formatTime(inv.Created), inv.Version, data)
	if err != nil {
		inv.Version = 0
		return fmt.Errorf("add invitation: %w", err)
	}
	return nil
}

func (r invitationRepo) Update(ctx context.Context, inv *domain.Invitation) error {
	prev := inv.Version
	inv.Version++
	data, err := encode(inv)
	if err != nil {
		inv.Version = prev
		return err
	}
	res, err := r.s.exec(ctx, `
		UPDATE invitations SET version = ?, data = ? WHERE id = ? AND version = ?
	`, inv.Version, data, inv.ID, prev)
	if err == nil {
		err = checkUpdated(ctx, r.s, res, "invitation", "invitations", "id = ?", inv.ID, inv.ID)
	}
	if err != nil {
		inv.Version = prev
		return err
	}
	return nil
}

func (r invitationRepo) RemoveByProject(ctx context.Context, projectID domain.ID) error {
	if _, err := r.s.exec(ctx, "DELETE FROM invitations WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("remove invitations: %w", err)
	}
	return nil
}

// --- modules

type moduleRepo struct{ s *Session }

func (r moduleRepo) Get(ctx context.Context, id domain.ID) (*domain.Module, error) {
	m, err := getDoc[domain.Module](ctx, r.s, "SELECT data FROM modules WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get module: %w", err)
	}
	return m, nil
}

func (r moduleRepo) ListByProject(ctx context.Context, projectID domain.ID, filter domain.StatusFilter) ([]*domain.Module, error) {
	clause, args := activeClause(filter.Active)
	limit, offset := pageArgs(filter.Page)
	args = append([]any{projectID}, append(args, limit, offset)...)
	modules, err := listDocs[domain.Module](ctx, r.s,
		"SELECT data FROM modules WHERE project_id = ?"+clause+" ORDER BY created_at, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	return modules, nil
}

func (r moduleRepo) CountByProject(ctx context.Context, projectID domain.ID) (int, error) {
	n, err := count(ctx, r.s, "SELECT COUNT(*) FROM modules WHERE project_id = ?", projectID)
	if err != nil {
		return 0, fmt.Errorf("count modules: %w", err)
	}
	return n, nil
}

func (r moduleRepo) Add(ctx context.Context, m *domain.Module) error {
	m.Version = 1
	data, err := encode(m)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `
		INSERT INTO modules (id, project_id, active, created_at, version, data) VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.ProjectID, boolInt(m.Active), formatTime(m.Created), m.Version, data)
	if err != nil {
		m.Version = 0
		return fmt.Errorf("add module: %w", err)
	}
	return nil
}

func (r moduleRepo) Update(ctx context.Context, m *domain.Module) error {
	prev := m.Version
	m.Version++
	data, err := encode(m)
	if err != nil {
		m.Version = prev
		return err
	}
	res, err := r.s.exec(ctx, `
		UPDATE modules SET active = ?, version = ?, data = ? WHERE id = ? AND version = ?
	`, boolInt(m.Active), m.Version, data, m.ID, prev)
	if err == nil {
		err = checkUpdated(ctx, r.s, res, "module", "modules", "id = ?", m.ID, m.ID)
	}
	if err != nil {
		m.Version = prev
		return err
	}
	return nil
}

func (r moduleRepo) Remove(ctx context.Context, id domain.ID) error {
	if _, err := r.s.exec(ctx, "DELETE FROM modules WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove module: %w", err)
	}
	return nil
}

// --- use cases

type useCaseRepo struct{ s *Session }

func (r useCaseRepo) Get(ctx context.Context, id domain.ID) (*domain.UseCase, error) {
	u, err := getDoc[domain.UseCase](ctx, r.s, "SELECT data FROM use_cases WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get use case: %w", err)
	}
	return u, nil
}

func (r useCaseRepo) ListByModule(ctx context.Context, moduleID domain.ID, filter domain.StatusFilter) ([]*domain.UseCase, error) {
	clause, args := activeClause(filter.Active)
	limit, offset := pageArgs(filter.Page)
	args = append([]any{moduleID}, append(args, limit, offset)...)
	useCases, err := listDocs[domain.UseCase](ctx, r.s,
		"SELECT data FROM use_cases WHERE module_id = ?"+clause+" ORDER BY created_at, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list use cases: %w", err)
	}
	return useCases, nil
}

func (r useCaseRepo) CountByModule(ctx context.Context, moduleID domain.ID) (int, error) {
	n, err := count(ctx, r.s, "SELECT COUNT(*) FROM use_cases WHERE module_id = ?", moduleID)
	if err != nil {
		return 0, fmt.Errorf("count use cases: %w", err)
	}
	return n, nil
}

func (r useCaseRepo) Add(ctx context.Context, u *domain.UseCase) error {
	u.Version = 1
	data, err := encode(u)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `
		INSERT INTO use_cases (id, module_id, active, created_at, version, data) VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.ModuleID, boolInt(u.Active), formatTime(u.Created), u.Version, data)
	if err != nil {
		u.Version = 0
		return fmt.Errorf("add use case: %w", err)
	}
	return nil
}

func (r useCaseRepo) Update(ctx context.Context, u *domain.UseCase) error {
	prev := u.Version
	u.Version++
	data, err := encode(u)
	if err != nil {
		u.Version = prev
		return err
	}
	res, err := r.s.exec(ctx, `
		UPDATE use_cases SET active = ?, version = ?, data = ? WHERE id = ? AND version = ?
	`, boolInt(u.Active), u.Version, data, u.ID, prev)
	if err == nil {
		err = checkUpdated(ctx, r.s, res, "use case", "use_cases", "id = ?", u.ID, u.ID)
	}
	if err != nil {
		u.Version = prev
		return err
	}
	return nil
}

func (r useCaseRepo) Remove(ctx context.Context, id domain.ID) error {
	if _, err := r.s.exec(ctx, "DELETE FROM use_cases WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove use case: %w", err)
	}
	return nil
}

// --- tasks

type taskRepo struct{ s *Session }

func (r taskRepo) Get(ctx context.Context, id domain.ID) (*domain.Task, error) {
	t, err := getDoc[domain.Task](ctx, r.s, "SELECT data FROM tasks WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (r taskRepo) ListByUseCase(ctx context.Context, useCaseID domain.ID, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := "SELECT data FROM tasks WHERE use_case_id = ?"
	args := []any{useCaseID}
	if filter.State != nil {
		query += " AND state = ?"
		args = append(args, *filter.State)
	}
	if filter.Type != nil {
		query += " AND type = ?"
		args = append(args, *filter.Type)
	}
	if !filter.AssigneeID.IsZero() {
		query += " AND assignee_id = ?"
		args = append(args, filter.AssigneeID)
	}
	limit, offset := pageArgs(filter.Page)
	args = append(args, limit, offset)

	tasks, err := listDocs[domain.Task](ctx, r.s, query+" ORDER BY created_at, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r taskRepo) CountByUseCase(ctx context.Context, useCaseID domain.ID) (int, error) {
	n, err := count(ctx, r.s, "SELECT COUNT(*) FROM tasks WHERE use_case_id = ?", useCaseID)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

func (r taskRepo) Add(ctx context.Context, t *domain.Task) error {
	t.Version = 1
	data, err := encode(t)
	if err != nil {
		return err
	}
	_, err = r.s.exec(ctx, `
		INSERT INTO tasks (id, use_case_id, state, type, assignee_id, created_at, version, data)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UseCaseID, t.State, t.Type, t.AssigneeID, formatTime(t.Created), t.Version, data)
	if err != nil {
		t.Version = 0
		return fmt.Errorf("add task: %w", err)
	}
	return nil
}

func (r taskRepo) Update(ctx context.Context, t *domain.Task) error {
	prev := t.Version
	t.Version++
	data, err := encode(t)
	if err != nil {
		t.Version = prev
		return err
	}
	res, err := r.s.exec(ctx, `
		UPDATE tasks SET state = ?, type = ?, assignee_id = ?, version = ?, data = ? WHERE id = ? AND version = ?
	`, t.State, t.Type, t.AssigneeID, t.Version, data, t.ID, prev)
	if err == nil {
		err = checkUpdated(ctx, r.s, res, "task", "tasks", "id = ?", t.ID, t.ID)
	}
	if err != nil {
		t.Version = prev
		return err
	}
	return nil
}

func (r taskRepo) Remove(ctx context.Context, id domain.ID) error {
	if _, err := r.s.exec(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove task: %w", err)
	}
	return nil
}

// --- relations

type relationRepo struct{ s *Session }

const relationColumns = "id, source_id, target_id, type, created_at"

func (r relationRepo) Get(ctx context.Context, id domain.ID) (*domain.TaskRelation, error) {
	rels, err := r.list(ctx, "WHERE id = ?", id)
	if err != nil || len(rels) == 0 {
		return nil, err
	}
	return rels[0], nil
}

func (r relationRepo) ListBySource(ctx context.Context, taskID domain.ID) ([]*domain.TaskRelation, error) {
	return r.list(ctx, "WHERE source_id = ? ORDER BY created_at, id", taskID)
}

func (r relationRepo) ListByTarget(ctx context.Context, taskID domain.ID) ([]*domain.TaskRelation, error) {
	return r.list(ctx, "WHERE target_id = ? ORDER BY created_at, id", taskID)
}

func (r relationRepo) list(ctx context.Context, where string, args ...any) ([]*domain.TaskRelation, error) {
	if r.s.closed {
		return nil, domain.ErrSessionClosed
	}
	rows, err := r.s.tx.QueryContext(ctx, "SELECT "+relationColumns+" FROM task_relations "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	defer rows.Close()

	out := []*domain.TaskRelation{}
	for rows.Next() {
		var rel domain.TaskRelation
		var created string
		if err := rows.Scan(&rel.ID, &rel.SourceID, &rel.TargetID, &rel.Type, &created); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		if rel.Created, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, &rel)
	}
	return out, rows.Err()
}

func (r relationRepo) Add(ctx context.Context, rel *domain.TaskRelation) error {
	_, err := r.s.exec(ctx, "INSERT INTO task_relations ("+relationColumns+") VALUES (?, ?, ?, ?, ?)",
		rel.ID, rel.SourceID, rel.TargetID, rel.Type, formatTime(rel.Created))
	if err != nil {
		return fmt.Errorf("add relation: %w", err)
	}
	return nil
}

func (r relationRepo) Remove(ctx context.Context, id domain.ID) error {
	if _, err := r.s.exec(ctx, "DELETE FROM task_relations WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove relation: %w", err)
	}
	return nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, 0, 2*n-1)
	for i := 0; i < n; i++ {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '?')
	}
	return string(b)
}
