package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing a use case's tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	State       *domain.TaskState // nil = any state
	Type        *domain.TaskType  // nil = any type
	Actor       domain.Actor
	UseCaseID   domain.ID
	AssigneeID  domain.ID // empty = any assignee
	Page        domain.Page
	OverdueOnly bool
}

// TaskSummary is a task with its overdue flag.
type TaskSummary struct {
	Task    *domain.Task
	Overdue bool
}

// ListTasksOutput contains the tasks in creation order.
type ListTasksOutput struct {
	Tasks []TaskSummary
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	store domain.UnitOfWork
	clock domain.Clock
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(store domain.UnitOfWork, clock domain.Clock) *ListTasks {
	return &ListTasks{store: store, clock: clock}
}

// Execute lists tasks. Requires at least the Viewer role.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	filter := domain.TaskFilter{State: in.State, Type: in.Type, AssigneeID: in.AssigneeID, Page: in.Page}
	if in.OverdueOnly {
		// Paging applies after the overdue filter.
		filter.Page = domain.Page{}
	}

	var tasks []*domain.Task
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveUseCase(ctx, sess, in.UseCaseID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, a.Project); err != nil {
			return err
		}
		tasks, err = sess.Tasks().ListByUseCase(ctx, a.UseCase.ID, filter)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	out := &ListTasksOutput{Tasks: []TaskSummary{}}
	for _, t := range tasks {
		overdue := t.IsOverdue(now)
		if in.OverdueOnly && !overdue {
			continue
		}
		out.Tasks = append(out.Tasks, TaskSummary{Task: t, Overdue: overdue})
	}
	if in.OverdueOnly {
		out.Tasks = pageOf(out.Tasks, in.Page)
	}
	return out, nil
}

func pageOf[T any](items []T, page domain.Page) []T {
	offset := max(page.Offset, 0)
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	return items
}
