// Package memstore keeps the whole data set in memory. It backs the JSON
// file store and the in-process store used by tests.
package memstore

import (
	"sort"

	"github.com/te4it/te4it/internal/domain"
)

// State is the complete data set. It is serialized as-is by jsonstore.
type State struct {
	Projects    map[domain.ID]domain.Project      `json:"projects"`
	Members     map[string]domain.ProjectMember   `json:"members"` // key: projectID/userID
	Invitations map[domain.ID]domain.Invitation   `json:"invitations"`
	Modules     map[domain.ID]domain.Module       `json:"modules"`
	UseCases    map[domain.ID]domain.UseCase      `json:"useCases"`
	Tasks       map[domain.ID]domain.Task         `json:"tasks"`
	Relations   map[domain.ID]domain.TaskRelation `json:"relations"`
	Events      []domain.EventRecord              `json:"events"`
	NextSeq     int64                             `json:"nextSeq"`
}

// NewState returns an empty State.
func NewState() *State {
	s := &State{}
	s.Ensure()
	return s
}

// Ensure allocates any nil maps, e.g. after decoding an older file.
func (s *State) Ensure() {
	if s.Projects == nil {
		s.Projects = make(map[domain.ID]domain.Project)
	}
	if s.Members == nil {
		s.Members = make(map[string]domain.ProjectMember)
	}
	if s.Invitations == nil {
		s.Invitations = make(map[domain.ID]domain.Invitation)
	}
	if s.Modules == nil {
		s.Modules = make(map[domain.ID]domain.Module)
	}
	if s.UseCases == nil {
		s.UseCases = make(map[domain.ID]domain.UseCase)
	}
	if s.Tasks == nil {
		s.Tasks = make(map[domain.ID]domain.Task)
	}
	if s.Relations == nil {
		s.Relations = make(map[domain.ID]domain.TaskRelation)
	}
}

// Clone returns a copy that shares no maps with s.
func (s *State) Clone() *State {
	c := &State{
		Projects:    cloneMap(s.Projects),
		Members:     cloneMap(s.Members),
		Invitations: cloneMap(s.Invitations),
		Modules:     cloneMap(s.Modules),
		UseCases:    cloneMap(s.UseCases),
		Tasks:       cloneMap(s.Tasks),
		Relations:   cloneMap(s.Relations),
		Events:      append([]domain.EventRecord(nil), s.Events...),
		NextSeq:     s.NextSeq,
	}
	c.Ensure()
	return c
}

// AppendEvents adds events to the log, assigning sequence numbers.
func (s *State) AppendEvents(events []domain.Event) {
	for _, e := range events {
		s.NextSeq++
		s.Events = append(s.Events, domain.EventRecord{Event: e, Seq: s.NextSeq})
	}
}

// ListEvents returns up to limit records with Seq > afterSeq.
func (s *State) ListEvents(afterSeq int64, limit int) []domain.EventRecord {
	start := sort.Search(len(s.Events), func(i int) bool { return s.Events[i].Seq > afterSeq })
	out := s.Events[start:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return append([]domain.EventRecord(nil), out...)
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Row kinds.
const (
	kindProject    = "project"
	kindMember     = "member"
	kindInvitation = "invitation"
	kindModule     = "module"
	kindUseCase    = "usecase"
	kindTask       = "task"
	kindRelation   = "relation"
)

// rowKey identifies one stored row.
type rowKey struct {
	kind string
	id   string
}

func memberKey(projectID, userID domain.ID) string {
	return string(projectID) + "/" + string(userID)
}

// version returns the stored version of key, or -1 when absent.
func (s *State) version(key rowKey) int64 {
	id := domain.ID(key.id)
	switch key.kind {
	case kindProject:
		if v, ok := s.Projects[id]; ok {
			return v.Version
		}
	case kindMember:
		if v, ok := s.Members[key.id]; ok {
			return v.Version
		}
	case kindInvitation:
		if v, ok := s.Invitations[id]; ok {
			return v.Version
		}
	case kindModule:
		if v, ok := s.Modules[id]; ok {
			return v.Version
		}
	case kindUseCase:
		if v, ok := s.UseCases[id]; ok {
			return v.Version
		}
	case kindTask:
		if v, ok := s.Tasks[id]; ok {
			return v.Version
		}
	case kindRelation:
		if _, ok := s.Relations[id]; ok {
			return 0
		}
	}
	return -1
}

// copyRow makes s hold the same value for key as from, deleting it when
// from has none.
func (s *State) copyRow(from *State, key rowKey) {
	id := domain.ID(key.id)
	switch key.kind {
	case kindProject:
		copyEntry(s.Projects, from.Projects, id)
	case kindMember:
		copyEntry(s.Members, from.Members, key.id)
	case kindInvitation:
		copyEntry(s.Invitations, from.Invitations, id)
	case kindModule:
		copyEntry(s.Modules, from.Modules, id)
	case kindUseCase:
		copyEntry(s.UseCases, from.UseCases, id)
	case kindTask:
		copyEntry(s.Tasks, from.Tasks, id)
	case kindRelation:
		copyEntry(s.Relations, from.Relations, id)
	}
}

func copyEntry[K comparable, V any](dst, src map[K]V, k K) {
	if v, ok := src[k]; ok {
		dst[k] = v
	} else {
		delete(dst, k)
	}
}
