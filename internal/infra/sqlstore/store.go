// Package sqlstore implements domain.Store on SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-sqlite3"

	"github.com/te4it/te4it/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - Initial schema
const currentSchemaVersion = 1

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Store persists data in a SQLite database file.
//
// Sessions are SQLite transactions started with BEGIN IMMEDIATE, so writers
// are serialized across processes. Rows also carry a version that every
// update checks, which catches writes based on stale reads.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// New creates a Store for the database at path. The database is opened
// lazily; use Initialize to create it.
func New(path string) *Store {
	return &Store{path: path}
}

// IsInitialized checks if the database file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates the database and its schema. It returns
// domain.ErrAlreadyInitialized when the file already exists.
func (s *Store) Initialize() error {
	if s.IsInitialized() {
		return domain.ErrAlreadyInitialized
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	_, err := s.open()
	return err
}

// open returns the database, opening it and applying the schema on first use.
func (s *Store) open() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	// _txlock=immediate makes every transaction take the write lock up front.
	dsn := "file:" + s.path + "?_txlock=immediate&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	return db, nil
}

// conn opens an initialized database.
func (s *Store) conn() (*sql.DB, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db != nil {
		return db, nil
	}
	if !s.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	return s.open()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// applySchema creates tables if they don't exist and records the schema
// version. It is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}
	if version < currentSchemaVersion {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
			return fmt.Errorf("set user_version: %w", err)
		}
	}
	return nil
}

// Begin starts a transaction.
func (s *Store) Begin(ctx context.Context) (domain.Session, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapError(fmt.Errorf("begin transaction: %w", err))
	}
	return &Session{tx: tx}, nil
}

// ListEvents returns committed log entries after afterSeq, in order.
func (s *Store) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]domain.EventRecord, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT seq, id, type, aggregate_id, project_id, actor_id, occurred_at, payload
		FROM event_log
		WHERE seq > ?
		ORDER BY seq
		LIMIT ?
	`, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []domain.EventRecord{}
	for rows.Next() {
		var (
			rec        domain.EventRecord
			occurredAt string
			payload    sql.NullString
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Type, &rec.AggregateID, &rec.ProjectID, &rec.ActorID, &occurredAt, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if rec.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, err
		}
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &rec.Payload); err != nil {
				return nil, fmt.Errorf("decode event payload: %w", err)
			}
		}
		events = append(events, rec)
	}
	return events, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// mapError translates SQLite constraint and locking failures into domain errors.
func mapError(err error) error {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return err
	}
	switch se.Code {
	case sqlite3.ErrConstraint, sqlite3.ErrBusy, sqlite3.ErrLocked:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	default:
		return err
	}
}
