package memstore

import (
	"context"
	"sync"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Store is a process-local store. Sessions work on snapshots; commits merge
// the rows they wrote and fail with domain.ErrConflict when a concurrent
// commit changed one of those rows first.
type Store struct {
	state *State
	mu    sync.Mutex
}

// New creates an empty Store.
func New() *Store {
	return &Store{state: NewState()}
}

// Initialize is a no-op; the store is always ready.
func (st *Store) Initialize() error {
	return nil
}

// Begin opens a session over a snapshot of the current state.
func (st *Store) Begin(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st.mu.Lock()
	snapshot := st.state.Clone()
	st.mu.Unlock()
	return NewSession(snapshot, st.commit, nil), nil
}

func (st *Store) commit(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return s.Merge(st.state)
}

// ListEvents returns committed log entries after afterSeq.
func (st *Store) ListEvents(ctx context.Context, afterSeq int64, limit int) ([]domain.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.ListEvents(afterSeq, limit), nil
}

// Close is a no-op.
func (st *Store) Close() error {
	return nil
}
