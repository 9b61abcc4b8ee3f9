package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
)

// ListUsersInput contains the parameters for listing directory users.
type ListUsersInput struct {
	Actor domain.Actor
}

// ListUsersOutput contains the directory users.
type ListUsersOutput struct {
	Users []*domain.User
}

// ListUsers is the use case for listing the user directory.
type ListUsers struct {
	users domain.UserDirectory
}

// NewListUsers creates a new ListUsers use case.
func NewListUsers(users domain.UserDirectory) *ListUsers {
	return &ListUsers{users: users}
}

// Execute lists all users. Any registered user may list the directory.
func (uc *ListUsers) Execute(ctx context.Context, in ListUsersInput) (*ListUsersOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}
	users, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ListUsersOutput{Users: users}, nil
}
