package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
)

// RegisterUserInput contains the parameters for adding a directory user.
type RegisterUserInput struct {
	Actor domain.Actor // Must be an administrator unless the directory is empty
	Email string
	Name  string
	Admin bool // Grant the administrator role
}

// RegisterUserOutput contains the registered user.
type RegisterUserOutput struct {
	User *domain.User
}

// RegisterUser is the use case for adding users to the directory.
// The first user can be registered without an actor and is always an
// administrator.
type RegisterUser struct {
	users  domain.UserRegistry
	logger domain.Logger
}

// NewRegisterUser creates a new RegisterUser use case.
func NewRegisterUser(users domain.UserRegistry, logger domain.Logger) *RegisterUser {
	return &RegisterUser{users: users, logger: logger}
}

// Execute registers the user.
func (uc *RegisterUser) Execute(ctx context.Context, in RegisterUserInput) (*RegisterUserOutput, error) {
	email := domain.NormalizeEmail(in.Email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}

	existing, err := uc.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	bootstrap := len(existing) == 0
	if !bootstrap {
		if in.Actor.IsZero() {
			return nil, domain.ErrUnauthorized
		}
		if !in.Actor.IsAdmin {
			return nil, domain.Denied("", in.Actor.ID, "administrator role required")
		}
	}
	for _, u := range existing {
		if domain.NormalizeEmail(u.Email) == email {
			return nil, domain.Invalid("email", "%s is already registered", email)
		}
	}

	user := &domain.User{ID: domain.NewID(), Email: email, Name: in.Name}
	if in.Admin || bootstrap {
		user.Roles = []string{domain.AdministratorRole}
	}
	if err := uc.users.AddUser(ctx, user); err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info("", "user", fmt.Sprintf("registered %s", email))
	}

	return &RegisterUserOutput{User: user}, nil
}
