package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize() error
}

// Page restricts a listing to a window of results.
// Limit 0 means no limit.
type Page struct {
	Offset int
	Limit  int
}

// ProjectFilter specifies criteria for listing projects.
// Fields are ordered to minimize memory padding.
type ProjectFilter struct {
	Active *bool // nil = any status
	IDs    []ID  // nil = all projects, set = only these
	Page   Page
}

// StatusFilter specifies criteria for listing modules and use cases.
type StatusFilter struct {
	Active *bool // nil = any status
	Page   Page
}

// TaskFilter specifies criteria for listing tasks.
// Fields are ordered to minimize memory padding.
type TaskFilter struct {
	State      *TaskState // nil = any state
	Type       *TaskType  // nil = any type
	AssigneeID ID         // empty = any assignee
	Page       Page
}

// ProjectRepository manages project persistence.
// Get methods return nil, nil when the entity does not exist.
type ProjectRepository interface {
	Get(ctx context.Context, id ID) (*Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]*Project, error)
	Add(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Remove(ctx context.Context, id ID) error
}

// MemberRepository manages project memberships.
type MemberRepository interface {
	Get(ctx context.Context, projectID, userID ID) (*ProjectMember, error)
	ListByProject(ctx context.Context, projectID ID) ([]*ProjectMember, error)
	ListByUser(ctx context.Context, userID ID) ([]*ProjectMember, error)
	Add(ctx context.Context, m *ProjectMember) error
	Update(ctx context.Context, m *ProjectMember) error
	Remove(ctx context.Context, projectID, userID ID) error
}

// InvitationRepository manages project invitations.
type InvitationRepository interface {
	Get(ctx context.Context, id ID) (*Invitation, error)
	GetByTokenHash(ctx context.Context, hash string) (*Invitation, error)
	ListByProject(ctx context.Context, projectID ID) ([]*Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]*Invitation, error)
	Add(ctx context.Context, inv *Invitation) error
	Update(ctx context.Context, inv *Invitation) error
	RemoveByProject(ctx context.Context, projectID ID) error
}

// ModuleRepository manages module persistence.
type ModuleRepository interface {
	Get(ctx context.Context, id ID) (*Module, error)
	ListByProject(ctx context.Context, projectID ID, filter StatusFilter) ([]*Module, error)
	CountByProject(ctx context.Context, projectID ID) (int, error)
	Add(ctx context.Context, m *Module) error
	Update(ctx context.Context, m *Module) error
	Remove(ctx context.Context, id ID) error
}

// UseCaseRepository manages use case persistence.
type UseCaseRepository interface {
	Get(ctx context.Context, id ID) (*UseCase, error)
	ListByModule(ctx context.Context, moduleID ID, filter StatusFilter) ([]*UseCase, error)
	CountByModule(ctx context.Context, moduleID ID) (int, error)
	Add(ctx context.Context, u *UseCase) error
	Update(ctx context.Context, u *UseCase) error
	Remove(ctx context.Context, id ID) error
}

// TaskRepository manages task persistence.
type TaskRepository interface {
	Get(ctx context.Context, id ID) (*Task, error)
	ListByUseCase(ctx context.Context, useCaseID ID, filter TaskFilter) ([]*Task, error)
	CountByUseCase(ctx context.Context, useCaseID ID) (int, error)
	Add(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	Remove(ctx context.Context, id ID) error
}

// RelationRepository manages task relations.
type RelationRepository interface {
	Get(ctx context.Context, id ID) (*TaskRelation, error)
	ListBySource(ctx context.Context, taskID ID) ([]*TaskRelation, error)
	ListByTarget(ctx context.Context, taskID ID) ([]*TaskRelation, error)
	Add(ctx context.Context, r *TaskRelation) error
	Remove(ctx context.Context, id ID) error
}

// EventLog is the append-only domain event log.
type EventLog interface {
	// Append adds events to the log. They become durable on commit.
	Append(ctx context.Context, events ...Event) error
}

// EventReader reads committed log entries.
type EventReader interface {
	// ListEvents returns up to limit entries with Seq > afterSeq, in order.
	// limit 0 means no limit.
	ListEvents(ctx context.Context, afterSeq int64, limit int) ([]EventRecord, error)
}

// Session is one unit of work. All reads and writes made through it commit
// or roll back together, and events appended to it become durable only on
// a successful commit.
type Session interface {
	Projects() ProjectRepository
	Members() MemberRepository
	Invitations() InvitationRepository
	Modules() ModuleRepository
	UseCases() UseCaseRepository
	Tasks() TaskRepository
	Relations() RelationRepository
	Events() EventLog

	// Commit makes all changes durable. A concurrent conflicting commit
	// yields ErrConflict and nothing is persisted.
	Commit() error

	// Rollback discards all changes. It is a no-op after Commit.
	Rollback() error
}

// UnitOfWork opens sessions.
type UnitOfWork interface {
	Begin(ctx context.Context) (Session, error)
}

// Store is a complete persistence backend.
type Store interface {
	UnitOfWork
	EventReader
	StoreInitializer
	Close() error
}

// UserDirectory resolves users. Lookups return nil, nil when no user matches.
type UserDirectory interface {
	GetUser(ctx context.Context, id ID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// UserRegistry is a UserDirectory that accepts new users.
type UserRegistry interface {
	UserDirectory
	AddUser(ctx context.Context, u *User) error
}

// ActorProvider supplies the authenticated principal for the current call.
type ActorProvider interface {
	// CurrentActor returns ErrUnauthorized when no principal is available.
	CurrentActor(ctx context.Context) (Actor, error)
}

// TokenService issues invitation tokens.
type TokenService interface {
	// Generate returns a new random token.
	Generate() (string, error)
	// Hash returns the stored form of a token.
	Hash(token string) string
}

// Logger writes operation logs.
type Logger interface {
	Debug(projectID ID, category, msg string)
	Info(projectID ID, category, msg string)
	Warn(projectID ID, category, msg string)
	Error(projectID ID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigInfo describes a config file.
type ConfigInfo struct {
	Path    string // File path
	Content string // File content (empty if missing)
	Exists  bool   // Whether the file exists
}

// ConfigManager inspects and creates config files.
type ConfigManager interface {
	GetDataConfigInfo() ConfigInfo
	GetGlobalConfigInfo() ConfigInfo
	InitDataConfig(cfg *Config) error
	InitGlobalConfig(cfg *Config) error
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
