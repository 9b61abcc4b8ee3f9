package directory

import (
	"context"
	"fmt"
	"strings"

	"github.com/te4it/te4it/internal/domain"
)

// Ensure ActorProvider implements domain.ActorProvider.
var _ domain.ActorProvider = (*ActorProvider)(nil)

// ActorProvider resolves the acting user from a reference given on the
// command line or in the environment. The reference is a user id or an
// email address.
type ActorProvider struct {
	users domain.UserDirectory
	ref   string
}

// NewActorProvider creates an ActorProvider for ref.
func NewActorProvider(users domain.UserDirectory, ref string) *ActorProvider {
	return &ActorProvider{users: users, ref: strings.TrimSpace(ref)}
}

// CurrentActor looks the reference up in the directory.
func (p *ActorProvider) CurrentActor(ctx context.Context) (domain.Actor, error) {
	if p.ref == "" {
		return domain.Actor{}, fmt.Errorf("%w: no acting user (use --as or %s)", domain.ErrUnauthorized, domain.ActorEnv)
	}

	var (
		user *domain.User
		err  error
	)
	if id, parseErr := domain.ParseID(p.ref); parseErr == nil {
		user, err = p.users.GetUser(ctx, id)
	} else {
		user, err = p.users.FindByEmail(ctx, p.ref)
	}
	if err != nil {
		return domain.Actor{}, fmt.Errorf("resolve acting user: %w", err)
	}
	if user == nil {
		return domain.Actor{}, fmt.Errorf("%w: unknown user %q", domain.ErrUnauthorized, p.ref)
	}
	return user.Actor(), nil
}

// Optional returns the current actor, or the zero Actor when no
// reference was given. Unknown references are still an error.
func (p *ActorProvider) Optional(ctx context.Context) (domain.Actor, error) {
	if p.ref == "" {
		return domain.Actor{}, nil
	}
	return p.CurrentActor(ctx)
}
