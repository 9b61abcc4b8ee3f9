package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/te4it/te4it/internal/domain"
)

// ArchiveModule archives m and every active use case under it in the same
// session. It returns the use cases it archived.
func ArchiveModule(ctx context.Context, sess domain.Session, m *domain.Module, now time.Time) ([]*domain.UseCase, error) {
	if !m.Archive(now) {
		return nil, nil
	}
	if err := sess.Modules().Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update module: %w", err)
	}

	active := true
	children, err := sess.UseCases().ListByModule(ctx, m.ID, domain.StatusFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("list use cases: %w", err)
	}
	for _, u := range children {
		u.Archive(now)
		if err := sess.UseCases().Update(ctx, u); err != nil {
			return nil, fmt.Errorf("update use case: %w", err)
		}
	}
	return children, nil
}

// ActivateModule activates m. The parent project must be active.
func ActivateModule(ctx context.Context, sess domain.Session, p *domain.Project, m *domain.Module, now time.Time) (bool, error) {
	if !p.Active {
		return false, domain.Violation(domain.ErrProjectInactive, p.Title)
	}
	if !m.Activate(now) {
		return false, nil
	}
	if err := sess.Modules().Update(ctx, m); err != nil {
		return false, fmt.Errorf("update module: %w", err)
	}
	return true, nil
}

// ArchiveUseCase archives u.
func ArchiveUseCase(ctx context.Context, sess domain.Session, u *domain.UseCase, now time.Time) (bool, error) {
	if !u.Archive(now) {
		return false, nil
	}
	if err := sess.UseCases().Update(ctx, u); err != nil {
		return false, fmt.Errorf("update use case: %w", err)
	}
	return true, nil
}

// ActivateUseCase activates u. The parent module must be active.
func ActivateUseCase(ctx context.Context, sess domain.Session, m *domain.Module, u *domain.UseCase, now time.Time) (bool, error) {
	if !m.Active {
		return false, domain.Violation(domain.ErrModuleInactive, m.Title)
	}
	if !u.Activate(now) {
		return false, nil
	}
	if err := sess.UseCases().Update(ctx, u); err != nil {
		return false, fmt.Errorf("update use case: %w", err)
	}
	return true, nil
}
