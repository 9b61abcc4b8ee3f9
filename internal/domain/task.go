package domain

import (
	"fmt"
	"time"
)

// Task is a unit of work within a use case.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created        time.Time  `json:"created"`                  // Creation time
	Updated        time.Time  `json:"updated"`                  // Last modification time
	Started        *time.Time `json:"started,omitempty"`        // When the task entered in_progress
	Due            *time.Time `json:"due,omitempty"`            // Due date (optional)
	ID             ID         `json:"id"`                       // Task ID
	UseCaseID      ID         `json:"useCaseId"`                // Parent use case
	CreatorID      ID         `json:"creatorId"`                // User who created the task
	AssigneeID     ID         `json:"assigneeId,omitempty"`     // Assigned user (empty = unassigned)
	Title          string     `json:"title"`                    // Title (required)
	Description    string     `json:"description,omitempty"`    // Description (optional)
	ImportantNotes string     `json:"importantNotes,omitempty"` // Notes (optional)
	CompletionNote string     `json:"completionNote,omitempty"` // Set on completion
	Type           TaskType   `json:"type"`                     // Classification
	State          TaskState  `json:"state"`                    // Workflow state
	Version        int64      `json:"version"`                  // Optimistic concurrency counter
	EventRecorder  `json:"-"`
}

// NewTask creates a task in the not_started state.
func NewTask(id, useCaseID, creatorID ID, typ TaskType, title, description string, now time.Time) (*Task, error) {
	t := &Task{
		ID:        id,
		UseCaseID: useCaseID,
		CreatorID: creatorID,
		State:     StateNotStarted,
		Created:   now,
	}
	if err := t.apply(typ, title, description, "", now); err != nil {
		return nil, err
	}
	t.record(EventTaskCreated, id, map[string]any{"title": t.Title, "type": string(typ), "useCaseId": useCaseID.String()})
	return t, nil
}

// Update replaces the editable fields.
func (t *Task) Update(typ TaskType, title, description, notes string, now time.Time) error {
	if err := t.apply(typ, title, description, notes, now); err != nil {
		return err
	}
	t.record(EventTaskUpdated, t.ID, map[string]any{"title": t.Title})
	return nil
}

func (t *Task) apply(typ TaskType, title, description, notes string, now time.Time) error {
	if _, err := ParseTaskType(string(typ)); err != nil {
		return err
	}
	title, err := validateTitle(title, MaxTaskTitleLength)
	if err != nil {
		return err
	}
	description, err = validateText("description", description, MaxTaskDescriptionLen)
	if err != nil {
		return err
	}
	notes, err = validateText("important notes", notes, MaxImportantNotesLength)
	if err != nil {
		return err
	}
	t.Type = typ
	t.Title = title
	t.Description = description
	t.ImportantNotes = notes
	t.Updated = now
	return nil
}

// SetDueDate sets or clears the due date. A due date may not precede the start date.
func (t *Task) SetDueDate(due *time.Time, now time.Time) error {
	if due != nil && t.Started != nil && due.Before(*t.Started) {
		return Invalid("due date", "must not be before the start date %s", t.Started.Format(time.DateOnly))
	}
	t.Due = due
	t.Updated = now
	return nil
}

// IsOverdue reports whether the task is unresolved past its due date.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Due != nil && !t.State.IsResolved() && now.After(*t.Due)
}

// IsAssigned reports whether the task has an assignee.
func (t *Task) IsAssigned() bool {
	return !t.AssigneeID.IsZero()
}

// AssignAndStart assigns the task and moves it to in_progress.
func (t *Task) AssignAndStart(assigneeID ID, now time.Time) error {
	if t.State != StateNotStarted {
		return &TransitionError{From: t.State, To: StateInProgress}
	}
	if assigneeID.IsZero() {
		return Violation(ErrTaskUnassigned, "")
	}
	if t.AssigneeID != assigneeID {
		t.AssigneeID = assigneeID
		t.record(EventTaskAssigned, t.ID, map[string]any{"assigneeId": assigneeID.String()})
	}
	started := now
	t.Started = &started
	t.State = StateInProgress
	t.Updated = now
	t.record(EventTaskStarted, t.ID, map[string]any{"assigneeId": assigneeID.String()})
	return nil
}

// Complete moves the task to completed. unresolvedBlockers lists the tasks
// that block this one and are neither completed nor cancelled.
func (t *Task) Complete(unresolvedBlockers []ID, note string, now time.Time) error {
	if !t.IsAssigned() {
		return Violation(ErrTaskUnassigned, "")
	}
	if len(unresolvedBlockers) > 0 {
		return Violation(ErrTaskBlocked, fmt.Sprintf("%d blocking task(s) unresolved", len(unresolvedBlockers)))
	}
	if !t.State.CanTransitionTo(StateCompleted) {
		return &TransitionError{From: t.State, To: StateCompleted}
	}
	note, err := validateText("completion note", note, MaxCompletionNoteLength)
	if err != nil {
		return err
	}
	t.State = StateCompleted
	t.CompletionNote = note
	t.Updated = now
	t.record(EventTaskCompleted, t.ID, map[string]any{"assigneeId": t.AssigneeID.String()})
	return nil
}

// Cancel moves the task to cancelled.
func (t *Task) Cancel(now time.Time) error {
	if !t.State.CanTransitionTo(StateCancelled) {
		return &TransitionError{From: t.State, To: StateCancelled}
	}
	t.State = StateCancelled
	t.Updated = now
	t.record(EventTaskCancelled, t.ID, nil)
	return nil
}

// Revert moves the task back to not_started, keeping its assignee.
// Returns false when the task already is not_started.
func (t *Task) Revert(now time.Time) bool {
	if t.State == StateNotStarted {
		return false
	}
	from := t.State
	t.State = StateNotStarted
	t.Started = nil
	t.CompletionNote = ""
	t.Updated = now
	t.record(EventTaskReverted, t.ID, map[string]any{"from": string(from)})
	return true
}

// AddRelation validates and records a new outgoing relation.
// existing holds the relations where t is the source.
func (t *Task) AddRelation(rel *TaskRelation, existing []*TaskRelation) error {
	if rel.SourceID != t.ID {
		return Invalid("relation", "source must be task %s", t.ID)
	}
	for _, r := range existing {
		if r.TargetID == rel.TargetID && r.Type == rel.Type {
			return Violation(ErrDuplicateRelation, fmt.Sprintf("%s %s", rel.Type, rel.TargetID))
		}
	}
	if len(existing) >= MaxRelationsPerTask {
		return Violation(ErrTooManyRelations, fmt.Sprintf("limit is %d", MaxRelationsPerTask))
	}
	t.record(EventTaskRelationAdded, t.ID, map[string]any{
		"relationId": rel.ID.String(),
		"targetId":   rel.TargetID.String(),
		"type":       string(rel.Type),
	})
	return nil
}

// RemoveRelation records the removal of an outgoing relation.
func (t *Task) RemoveRelation(rel *TaskRelation) {
	t.record(EventTaskRelationRemoved, t.ID, map[string]any{
		"relationId": rel.ID.String(),
		"targetId":   rel.TargetID.String(),
		"type":       string(rel.Type),
	})
}

// MarkDeleted records the deletion of the task.
func (t *Task) MarkDeleted() {
	t.record(EventTaskDeleted, t.ID, map[string]any{"title": t.Title})
}
