// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/infra/memstore"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the fixed time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// Ensure MockStore implements domain.Store.
var _ domain.Store = (*MockStore)(nil)

// MockStore is an in-memory store with error injection.
type MockStore struct {
	*memstore.Store
	BeginErr  error
	CommitErr error
	AppendErr error
	Commits   int
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{Store: memstore.New()}
}

// Begin opens a session, or fails with BeginErr.
func (m *MockStore) Begin(ctx context.Context) (domain.Session, error) {
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	sess, err := m.Store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &mockSession{Session: sess, store: m}, nil
}

// Events returns all committed log entries.
func (m *MockStore) Events() []domain.EventRecord {
	events, _ := m.ListEvents(context.Background(), 0, 0)
	return events
}

// EventTypes returns the types of all committed log entries, in order.
func (m *MockStore) EventTypes() []domain.EventType {
	var types []domain.EventType
	for _, e := range m.Events() {
		types = append(types, e.Type)
	}
	return types
}

type mockSession struct {
	domain.Session
	store *MockStore
}

func (s *mockSession) Events() domain.EventLog {
	if s.store.AppendErr != nil {
		return failingLog{err: s.store.AppendErr}
	}
	return s.Session.Events()
}

func (s *mockSession) Commit() error {
	if s.store.CommitErr != nil {
		_ = s.Session.Rollback()
		return s.store.CommitErr
	}
	if err := s.Session.Commit(); err != nil {
		return err
	}
	s.store.Commits++
	return nil
}

type failingLog struct{ err error }

func (l failingLog) Append(context.Context, ...domain.Event) error { return l.err }

// Ensure MockUserDirectory implements domain.UserRegistry.
var _ domain.UserRegistry = (*MockUserDirectory)(nil)

// MockUserDirectory is a test double for domain.UserDirectory.
type MockUserDirectory struct {
	Users  map[domain.ID]*domain.User
	GetErr error
	AddErr error
	mu     sync.Mutex
}

// NewMockUserDirectory creates a directory holding users.
func NewMockUserDirectory(users ...*domain.User) *MockUserDirectory {
	d := &MockUserDirectory{Users: make(map[domain.ID]*domain.User)}
	for _, u := range users {
		d.Users[u.ID] = u
	}
	return d
}

// Add registers a user.
func (d *MockUserDirectory) Add(u *domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Users[u.ID] = u
}

// GetUser returns the user with id, or nil.
func (d *MockUserDirectory) GetUser(_ context.Context, id domain.ID) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.GetErr != nil {
		return nil, d.GetErr
	}
	return d.Users[id], nil
}

// FindByEmail returns the user with email, or nil.
func (d *MockUserDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.GetErr != nil {
		return nil, d.GetErr
	}
	email = domain.NormalizeEmail(email)
	for _, u := range d.Users {
		if domain.NormalizeEmail(u.Email) == email {
			return u, nil
		}
	}
	return nil, nil
}

// ListUsers returns all users.
func (d *MockUserDirectory) ListUsers(_ context.Context) ([]*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	users := make([]*domain.User, 0, len(d.Users))
	for _, u := range d.Users {
		users = append(users, u)
	}
	return users, nil
}

// AddUser registers a user, or fails with AddErr.
func (d *MockUserDirectory) AddUser(_ context.Context, u *domain.User) error {
	if d.AddErr != nil {
		return d.AddErr
	}
	d.Add(u)
	return nil
}

// MockTokenService is a test double for domain.TokenService.
type MockTokenService struct {
	Token       string // Returned by Generate; a counter-based token is used when empty
	GenerateErr error
	n           int
}

// Generate returns Token or a unique token.
func (m *MockTokenService) Generate() (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	if m.Token != "" {
		return m.Token, nil
	}
	m.n++
	return fmt.Sprintf("token-%d", m.n), nil
}

// Hash returns a predictable hash.
func (m *MockTokenService) Hash(token string) string {
	return "hash:" + token
}

// LogEntry is a message captured by MockLogger.
type LogEntry struct {
	Level     string
	ProjectID domain.ID
	Category  string
	Msg       string
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *MockLogger) add(level string, projectID domain.ID, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, ProjectID: projectID, Category: category, Msg: msg})
}

func (l *MockLogger) Debug(projectID domain.ID, category, msg string) {
	l.add("DEBUG", projectID, category, msg)
}
func (l *MockLogger) Info(projectID domain.ID, category, msg string) {
	l.add("INFO", projectID, category, msg)
}
func (l *MockLogger) Warn(projectID domain.ID, category, msg string) {
	l.add("WARN", projectID, category, msg)
}
func (l *MockLogger) Error(projectID domain.ID, category, msg string) {
	l.add("ERROR", projectID, category, msg)
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize records the call.
func (m *MockStoreInitializer) Initialize() error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// Ensure MockConfigManager implements domain.ConfigManager.
var _ domain.ConfigManager = (*MockConfigManager)(nil)

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitDataErr      error
	InitGlobalErr    error
	GlobalConfigInfo domain.ConfigInfo
	DataConfigInfo   domain.ConfigInfo
	InitDataCalled   bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

// GetDataConfigInfo returns DataConfigInfo.
func (m *MockConfigManager) GetDataConfigInfo() domain.ConfigInfo {
	return m.DataConfigInfo
}

// GetGlobalConfigInfo returns GlobalConfigInfo.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitDataConfig records the call.
func (m *MockConfigManager) InitDataConfig(_ *domain.Config) error {
	m.InitDataCalled = true
	return m.InitDataErr
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	return m.InitGlobalErr
}
