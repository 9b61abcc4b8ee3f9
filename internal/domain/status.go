package domain

import "strings"

// TaskState represents the workflow state of a task.
type TaskState string

const (
	StateNotStarted TaskState = "not_started" // Created, awaiting assignment and start
	StateInProgress TaskState = "in_progress" // Assigned and being worked on
	StateCompleted  TaskState = "completed"   // Done
	StateCancelled  TaskState = "cancelled"   // Abandoned
)

// AllTaskStates returns all valid task states.
func AllTaskStates() []TaskState {
	return []TaskState{StateNotStarted, StateInProgress, StateCompleted, StateCancelled}
}

// transitions defines the allowed state transitions.
// Flow: not_started → in_progress → completed
//
//	cancelled is reachable from any non-completed state,
//	and every state can be reverted to not_started.
var transitions = map[TaskState][]TaskState{
	StateNotStarted: {StateInProgress, StateCancelled},
	StateInProgress: {StateCompleted, StateCancelled, StateNotStarted},
	StateCompleted:  {StateNotStarted},
	StateCancelled:  {StateNotStarted},
}

// CanTransitionTo returns true if the state can transition to the target state.
func (s TaskState) CanTransitionTo(target TaskState) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsResolved reports whether a task in this state no longer blocks others.
func (s TaskState) IsResolved() bool {
	return s == StateCompleted || s == StateCancelled
}

// Display returns a human-readable representation of the state.
func (s TaskState) Display() string {
	switch s {
	case StateNotStarted:
		return "Not Started"
	case StateInProgress:
		return "In Progress"
	case StateCompleted:
		return "Completed"
	case StateCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// IsValid returns true if the state is a known value.
func (s TaskState) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// ParseTaskState parses a state name. Hyphens and spaces are accepted in place of underscores.
func ParseTaskState(s string) (TaskState, error) {
	state := TaskState(normalizeEnum(s))
	if !state.IsValid() {
		return "", Invalid("state", "unknown task state %q", s)
	}
	return state, nil
}

// TaskType classifies a task.
type TaskType string

const (
	TaskTypeFeature       TaskType = "feature"
	TaskTypeBug           TaskType = "bug"
	TaskTypeTest          TaskType = "test"
	TaskTypeDocumentation TaskType = "documentation"
)

// AllTaskTypes returns all valid task types.
func AllTaskTypes() []TaskType {
	return []TaskType{TaskTypeFeature, TaskTypeBug, TaskTypeTest, TaskTypeDocumentation}
}

// ParseTaskType parses a task type name.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(normalizeEnum(s))
	for _, valid := range AllTaskTypes() {
		if t == valid {
			return t, nil
		}
	}
	return "", Invalid("type", "unknown task type %q", s)
}

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
