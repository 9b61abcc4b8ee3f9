package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/te4it/te4it/internal/domain"
)

// Blockers returns the IDs of tasks that block task and are still unresolved.
func Blockers(ctx context.Context, sess domain.Session, task *domain.Task) ([]domain.ID, error) {
	incoming, err := sess.Relations().ListByTarget(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	states := make(map[domain.ID]domain.TaskState)
	for _, r := range incoming {
		if r.Type != domain.RelationBlocks {
			continue
		}
		if _, ok := states[r.SourceID]; ok {
			continue
		}
		src, err := GetTask(ctx, sess.Tasks(), r.SourceID)
		if err != nil {
			return nil, fmt.Errorf("resolve blocker: %w", err)
		}
		states[src.ID] = src.State
	}
	return domain.UnresolvedBlockers(task.ID, incoming, states), nil
}

// CompleteTask completes task if no unresolved task blocks it, and stores it.
func CompleteTask(ctx context.Context, sess domain.Session, task *domain.Task, note string, now time.Time) error {
	blockers, err := Blockers(ctx, sess, task)
	if err != nil {
		return err
	}
	if err := task.Complete(blockers, note, now); err != nil {
		return err
	}
	if err := sess.Tasks().Update(ctx, task); err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}
