package shared

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/domain"
)

// InSession runs fn in a new session and commits it if fn succeeds.
// Any error from fn rolls the session back, so a failed operation leaves
// neither state changes nor log entries behind.
func InSession(ctx context.Context, uow domain.UnitOfWork, fn func(sess domain.Session) error) error {
	sess, err := uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	if err := fn(sess); err != nil {
		_ = sess.Rollback()
		return err
	}
	if err := sess.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadOnly runs fn in a new session that is always rolled back.
func ReadOnly(ctx context.Context, uow domain.UnitOfWork, fn func(sess domain.Session) error) error {
	sess, err := uow.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	defer func() { _ = sess.Rollback() }()
	return fn(sess)
}
