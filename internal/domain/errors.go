package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by an operation matches exactly one of
// these with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrRuleViolation     = errors.New("business rule violation")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("concurrent modification conflict")
	ErrValidation        = errors.New("validation failed")
)

// Store errors.
var (
	ErrAlreadyInitialized = errors.New("te4it already initialized")
	ErrNotInitialized     = errors.New("te4it not initialized (run 'te4it init' first)")
	ErrSessionClosed      = errors.New("session already committed or rolled back")
	ErrConfigExists       = errors.New("config file already exists")
)

// Business rules. These are wrapped in a RuleViolationError so callers can
// match both the specific rule and ErrRuleViolation.
var (
	ErrProjectInactive        = errors.New("project is archived")
	ErrModuleInactive         = errors.New("module is archived")
	ErrUseCaseInactive        = errors.New("use case is archived")
	ErrProjectHasModules      = errors.New("project still has modules")
	ErrModuleHasUseCases      = errors.New("module still has use cases")
	ErrUseCaseHasTasks        = errors.New("use case still has tasks")
	ErrOwnerRoleNotAssignable = errors.New("owner role can only be held by the project creator")
	ErrOwnerNotRemovable      = errors.New("project owner cannot be removed")
	ErrOwnerRoleImmutable     = errors.New("owner role cannot be changed")
	ErrSelfRemoval            = errors.New("cannot remove yourself from the project")
	ErrAlreadyMember          = errors.New("user is already a project member")
	ErrTaskUnassigned         = errors.New("task has no assignee")
	ErrTaskBlocked            = errors.New("task is blocked by unresolved tasks")
	ErrAssigneeNoAccess       = errors.New("assignee has no access to the project")
	ErrSelfRelation           = errors.New("task cannot relate to itself")
	ErrDuplicateRelation      = errors.New("relation already exists")
	ErrTooManyRelations       = errors.New("task has too many relations")
	ErrCrossProjectRelation   = errors.New("related tasks belong to different projects")
	ErrInvitationPending      = errors.New("a pending invitation already exists for this email")
	ErrInvitationNotPending   = errors.New("invitation is no longer pending")
	ErrInvitationExpired      = errors.New("invitation has expired")
	ErrInvitationRecipient    = errors.New("invitation was sent to a different email")
	ErrUserNotRegistered      = errors.New("no registered user with this email")
)

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Kind string // "project", "module", "task", ...
	ID   ID
}

// NotFound returns a NotFoundError for the given entity kind and ID.
func NotFound(kind string, id ID) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AccessDeniedError reports an actor lacking a capability on a project.
type AccessDeniedError struct {
	ProjectID ID
	ActorID   ID
	Reason    string
}

// Denied returns an AccessDeniedError.
func Denied(projectID, actorID ID, reason string) error {
	return &AccessDeniedError{ProjectID: projectID, ActorID: actorID, Reason: reason}
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s", e.Reason)
}

// Is reports whether target is ErrAccessDenied.
func (e *AccessDeniedError) Is(target error) bool {
	return target == ErrAccessDenied
}

// RuleViolationError wraps one of the business rule errors above.
type RuleViolationError struct {
	Err    error
	Detail string
}

// Violation wraps rule in a RuleViolationError with an optional detail.
func Violation(rule error, detail string) error {
	return &RuleViolationError{Err: rule, Detail: detail}
}

func (e *RuleViolationError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *RuleViolationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrRuleViolation.
func (e *RuleViolationError) Is(target error) bool {
	return target == ErrRuleViolation
}

// TransitionError reports a task state change the workflow does not allow.
type TransitionError struct {
	From TaskState
	To   TaskState
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}

// Is reports whether target is ErrInvalidTransition.
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
