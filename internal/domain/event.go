package domain

import "time"

// EventType names a domain event.
type EventType string

// Domain event types.
const (
	EventProjectCreated       EventType = "ProjectCreated"
	EventProjectUpdated       EventType = "ProjectUpdated"
	EventProjectStatusChanged EventType = "ProjectStatusChanged"
	EventProjectDeleted       EventType = "ProjectDeleted"
	EventProjectMemberAdded   EventType = "ProjectMemberAdded"
	EventProjectMemberRemoved EventType = "ProjectMemberRemoved"
	EventProjectRoleChanged   EventType = "ProjectMemberRoleChanged"
	EventInvitationSent       EventType = "ProjectInvitationSent"
	EventInvitationAccepted   EventType = "ProjectInvitationAccepted"
	EventInvitationCancelled  EventType = "ProjectInvitationCancelled"
	EventModuleCreated        EventType = "ModuleCreated"
	EventModuleUpdated        EventType = "ModuleUpdated"
	EventModuleArchived       EventType = "ModuleArchived"
	EventModuleActivated      EventType = "ModuleActivated"
	EventModuleDeleted        EventType = "ModuleDeleted"
	EventUseCaseCreated       EventType = "UseCaseCreated"
	EventUseCaseUpdated       EventType = "UseCaseUpdated"
	EventUseCaseArchived      EventType = "UseCaseArchived"
	EventUseCaseActivated     EventType = "UseCaseActivated"
	EventUseCaseDeleted       EventType = "UseCaseDeleted"
	EventTaskCreated          EventType = "TaskCreated"
	EventTaskUpdated          EventType = "TaskUpdated"
	EventTaskAssigned         EventType = "TaskAssigned"
	EventTaskStarted          EventType = "TaskStarted"
	EventTaskCompleted        EventType = "TaskCompleted"
	EventTaskCancelled        EventType = "TaskCancelled"
	EventTaskReverted         EventType = "TaskReverted"
	EventTaskDeleted          EventType = "TaskDeleted"
	EventTaskRelationAdded    EventType = "TaskRelationAdded"
	EventTaskRelationRemoved  EventType = "TaskRelationRemoved"
)

// Event is a record of a state change. Aggregates fill in Type, AggregateID
// and Payload; the rest is stamped when the event is captured into a session.
// Fields are ordered to minimize memory padding.
type Event struct {
	OccurredAt  time.Time      `json:"occurredAt"`
	Payload     map[string]any `json:"payload,omitempty"`
	ID          ID             `json:"id"`
	Type        EventType      `json:"type"`
	AggregateID ID             `json:"aggregateId"`
	ProjectID   ID             `json:"projectId"`
	ActorID     ID             `json:"actorId"`
}

// EventRecord is an event as persisted in the append-only log.
type EventRecord struct {
	Event
	Seq int64 `json:"seq"`
}

// Aggregate is an entity that buffers events until they are captured.
type Aggregate interface {
	PendingEvents() []Event
	ClearEvents()
}

// EventRecorder buffers pending events. Entities embed it.
type EventRecorder struct {
	pending []Event
}

func (r *EventRecorder) record(typ EventType, aggregateID ID, payload map[string]any) {
	r.pending = append(r.pending, Event{Type: typ, AggregateID: aggregateID, Payload: payload})
}

// PendingEvents returns events recorded since the last ClearEvents.
func (r *EventRecorder) PendingEvents() []Event {
	return r.pending
}

// ClearEvents drops all pending events.
func (r *EventRecorder) ClearEvents() {
	r.pending = nil
}
