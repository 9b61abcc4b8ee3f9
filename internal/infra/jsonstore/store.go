// Package jsonstore persists the whole data set in a single JSON file.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/infra/memstore"
)

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Store implements domain.Store on top of a JSON file.
//
// A session reads a snapshot of the file under a shared lock and works on it
// in memory. Commit takes the exclusive lock, re-reads the file and merges
// the session's rows into it, so a row changed by another process since the
// session began yields domain.ErrConflict.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist until Initialize is called.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file. It returns
// domain.ErrAlreadyInitialized when the file already exists.
func (s *Store) Initialize() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	if _, err := os.Stat(s.path); err == nil {
		return domain.ErrAlreadyInitialized
	}
	return s.write(memstore.NewState())
}

// Begin opens a session over a snapshot of the file.
func (s *Store) Begin(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var state *memstore.State
	err := s.withLock(func(data *memstore.State) error {
		state = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return memstore.NewSession(state, s.commit, nil), nil
}

func (s *Store) commit(sess *memstore.Session) error {
	return s.withLockWrite(func(data *memstore.State) error {
		return sess.Merge(data)
	})
}

// ListEvents returns committed log entries after afterSeq.
func (s *Store) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]domain.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var events []domain.EventRecord
	err := s.withLock(func(data *memstore.State) error {
		events = data.ListEvents(afterSeq, limit)
		return nil
	})
	return events, err
}

// Close is a no-op; locks are only held for the duration of a call.
func (s *Store) Close() error {
	return nil
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*memstore.State) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*memstore.State) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*memstore.State, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data memstore.State
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	data.Ensure()

	return &data, nil
}

func (s *Store) write(data *memstore.State) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
