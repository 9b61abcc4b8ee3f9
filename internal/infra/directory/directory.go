// Package directory provides the YAML-file user directory and the
// current-actor provider built on it.
package directory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure Directory implements domain.UserRegistry.
var _ domain.UserRegistry = (*Directory)(nil)

// file is the on-disk layout of the users file.
type file struct {
	Users []*domain.User `yaml:"users"`
}

// Directory is a user directory kept in a YAML file:
//
//	users:
//	  - id: 0b0c...
//	    email: ada@example.com
//	    name: Ada
//	    roles: [Administrator]
//
// A missing file is an empty directory. The file is re-read on every call
// so edits made by hand or by another process are picked up.
type Directory struct {
	path string
	mu   sync.Mutex
}

// New creates a Directory backed by path.
func New(path string) *Directory {
	return &Directory{path: path}
}

// Path returns the users file path.
func (d *Directory) Path() string {
	return d.path
}

// GetUser returns the user with id, or nil.
func (d *Directory) GetUser(_ context.Context, id domain.ID) (*domain.User, error) {
	f, err := d.load()
	if err != nil {
		return nil, err
	}
	for _, u := range f.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// FindByEmail returns the user with email, compared case-insensitively, or nil.
func (d *Directory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f, err := d.load()
	if err != nil {
		return nil, err
	}
	return f.byEmail(email), nil
}

// ListUsers returns all users in file order.
func (d *Directory) ListUsers(_ context.Context) ([]*domain.User, error) {
	f, err := d.load()
	if err != nil {
		return nil, err
	}
	return f.Users, nil
}

// AddUser appends u to the file. Duplicate ids and emails are rejected.
func (d *Directory) AddUser(_ context.Context, u *domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(d.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	lock, err := os.OpenFile(d.path+".lock", os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer func() { _ = lock.Close() }()
	if err := syscall.Flock(int(lock.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer func() { _ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN) }()

	f, err := d.read()
	if err != nil {
		return err
	}
	for _, existing := range f.Users {
		if existing.ID == u.ID {
			return fmt.Errorf("user %s: %w", u.ID, domain.ErrConflict)
		}
	}
	if f.byEmail(u.Email) != nil {
		return domain.Invalid("email", "%s is already registered", domain.NormalizeEmail(u.Email))
	}
	f.Users = append(f.Users, u)
	return d.write(f)
}

func (d *Directory) load() (*file, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.read()
}

func (d *Directory) read() (*file, error) {
	content, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return &file{Users: []*domain.User{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(content, &f); err != nil {
		return nil, fmt.Errorf("parse users file %s: %w", d.path, err)
	}
	if f.Users == nil {
		f.Users = []*domain.User{}
	}
	for i, u := range f.Users {
		if u == nil || u.ID.IsZero() || u.Email == "" {
			return nil, fmt.Errorf("users file %s: entry %d needs an id and an email", d.path, i+1)
		}
	}
	return &f, nil
}

func (d *Directory) write(f *file) error {
	content, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}
	tmpPath := d.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (f *file) byEmail(email string) *domain.User {
	email = domain.NormalizeEmail(email)
	for _, u := range f.Users {
		if domain.NormalizeEmail(u.Email) == email {
			return u
		}
	}
	return nil
}
