package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure Session implements domain.Session.
var _ domain.Session = (*Session)(nil)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// Session is a unit of work over one transaction.
type Session struct {
	tx     *sql.Tx
	closed bool
}

func (s *Session) Projects() domain.ProjectRepository       { return projectRepo{s} }
func (s *Session) Members() domain.MemberRepository         { return memberRepo{s} }
func (s *Session) Invitations() domain.InvitationRepository { return invitationRepo{s} }
func (s *Session) Modules() domain.ModuleRepository         { return moduleRepo{s} }
func (s *Session) UseCases() domain.UseCaseRepository       { return useCaseRepo{s} }
func (s *Session) Tasks() domain.TaskRepository             { return taskRepo{s} }
func (s *Session) Relations() domain.RelationRepository     { return relationRepo{s} }
func (s *Session) Events() domain.EventLog                  { return eventLog{s} }

// Commit commits the transaction.
func (s *Session) Commit() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.closed = true
	if err := s.tx.Commit(); err != nil {
		return mapError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Rollback aborts the transaction. It is a no-op once the session has ended.
func (s *Session) Rollback() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

func (s *Session) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return res, nil
}

// getDoc decodes the data column selected by query.
// It returns nil, nil when there is no row.
func getDoc[T any](ctx context.Context, s *Session, query string, args ...any) (*T, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	var data string
	err := s.tx.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDoc[T](data)
}

// listDocs decodes the data column of every selected row.
func listDocs[T any](ctx context.Context, s *Session, query string, args ...any) ([]*T, error) {
	if s.closed {
		return nil, domain.ErrSessionClosed
	}
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		v, err := decodeDoc[T](data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func decodeDoc[T any](data string) (*T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return &v, nil
}

func count(ctx context.Context, s *Session, query string, args ...any) (int, error) {
	if s.closed {
		return 0, domain.ErrSessionClosed
	}
	var n int
	if err := s.tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode row: %w", err)
	}
	return string(b), nil
}

// checkUpdated turns a versioned UPDATE that matched no row into NotFound
// or ErrConflict.
func checkUpdated(ctx context.Context, s *Session, res sql.Result, kind, table, where string, id domain.ID, args ...any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	exists, err := count(ctx, s, "SELECT COUNT(*) FROM "+table+" WHERE "+where, args...)
	if err != nil {
		return err
	}
	if exists == 0 {
		return domain.NotFound(kind, id)
	}
	return fmt.Errorf("%s %s was modified: %w", kind, id, domain.ErrConflict)
}

// pageArgs converts a Page to LIMIT and OFFSET arguments.
func pageArgs(p domain.Page) (int, int) {
	limit := p.Limit
	if limit <= 0 {
		limit = -1
	}
	return limit, max(p.Offset, 0)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

type eventLog struct{ s *Session }

func (l eventLog) Append(ctx context.Context, events ...domain.Event) error {
	for _, e := range events {
		var payload any
		if len(e.Payload) > 0 {
			p, err := encode(e.Payload)
			if err != nil {
				return err
			}
			payload = p
		}
		_, err := l.s.exec(ctx, `
			INSERT INTO event_log (id, type, aggregate_id, project_id, actor_id, occurred_at, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.Type, e.AggregateID, e.ProjectID, e.ActorID, formatTime(e.OccurredAt), payload)
		if err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}
	return nil
}
