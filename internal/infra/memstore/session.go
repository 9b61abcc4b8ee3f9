package memstore

import (
	"context"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure Session implements domain.Session.
var _ domain.Session = (*Session)(nil)

// CommitFunc persists a finished session.
type CommitFunc func(s *Session) error

// Session is a unit of work over a private copy of the state.
type Session struct {
	state   *State
	touched map[rowKey]int64 // row -> version when first written (-1 = absent)
	commit  CommitFunc
	release func()
	events  []domain.Event
	closed  bool
}

// NewSession creates a session over state. commit is called on Commit and
// release, if non-nil, once the session ends either way.
func NewSession(state *State, commit CommitFunc, release func()) *Session {
	return &Session{
		state:   state,
		touched: make(map[rowKey]int64),
		commit:  commit,
		release: release,
	}
}

// State returns the session's working state.
func (s *Session) State() *State {
	return s.state
}

// PendingEvents returns the events appended during the session.
func (s *Session) PendingEvents() []domain.Event {
	return s.events
}

func (s *Session) Projects() domain.ProjectRepository       { return projectRepo{s} }
func (s *Session) Members() domain.MemberRepository         { return memberRepo{s} }
func (s *Session) Invitations() domain.InvitationRepository { return invitationRepo{s} }
func (s *Session) Modules() domain.ModuleRepository         { return moduleRepo{s} }
func (s *Session) UseCases() domain.UseCaseRepository       { return useCaseRepo{s} }
func (s *Session) Tasks() domain.TaskRepository             { return taskRepo{s} }
func (s *Session) Relations() domain.RelationRepository     { return relationRepo{s} }
func (s *Session) Events() domain.EventLog                  { return eventLog{s} }

// Commit hands the session to the commit function.
func (s *Session) Commit() error {
	if s.closed {
		return domain.ErrSessionClosed
	}
	s.closed = true
	if s.release != nil {
		defer s.release()
	}
	return s.commit(s)
}

// Rollback discards the session. It is a no-op once the session has ended.
func (s *Session) Rollback() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.release != nil {
		s.release()
	}
	return nil
}

// touch remembers the version a row had before this session first wrote it.
func (s *Session) touch(kind, id string) {
	key := rowKey{kind: kind, id: id}
	if _, ok := s.touched[key]; ok {
		return
	}
	s.touched[key] = s.state.version(key)
}

// Merge applies the rows this session wrote onto dst, failing with
// domain.ErrConflict if any of them changed in dst since the session began.
// Events are appended to dst.
func (s *Session) Merge(dst *State) error {
	for key, base := range s.touched {
		if dst.version(key) != base {
			return domain.ErrConflict
		}
	}
	for key := range s.touched {
		dst.copyRow(s.state, key)
	}
	dst.AppendEvents(s.events)
	return nil
}

type eventLog struct{ s *Session }

func (l eventLog) Append(_ context.Context, events ...domain.Event) error {
	if l.s.closed {
		return domain.ErrSessionClosed
	}
	l.s.events = append(l.s.events, events...)
	return nil
}
