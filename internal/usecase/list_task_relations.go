package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListTaskRelationsInput contains the parameters for listing a task's relations.
type ListTaskRelationsInput struct {
	Actor  domain.Actor
	TaskID domain.ID
}

// RelationView is a relation together with the task at its other end.
type RelationView struct {
	Relation *domain.TaskRelation
	Other    *domain.Task
}

// ListTaskRelationsOutput contains the task's relations.
type ListTaskRelationsOutput struct {
	Outgoing []RelationView
	Incoming []RelationView
}

// ListTaskRelations is the use case for listing relations of a task.
type ListTaskRelations struct {
	store domain.UnitOfWork
}

// NewListTaskRelations creates a new ListTaskRelations use case.
func NewListTaskRelations(store domain.UnitOfWork) *ListTaskRelations {
	return &ListTaskRelations{store: store}
}

// Execute lists outgoing and incoming relations. Requires view rights on the task.
func (uc *ListTaskRelations) Execute(ctx context.Context, in ListTaskRelationsInput) (*ListTaskRelationsOutput, error) {
	out := &ListTaskRelationsOutput{}
	err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireTaskView(ctx, in.Actor, a.Project, a.Task); err != nil {
			return err
		}

		outgoing, err := sess.Relations().ListBySource(ctx, a.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		incoming, err := sess.Relations().ListByTarget(ctx, a.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		if out.Outgoing, err = relationViews(ctx, sess, outgoing, func(r *domain.TaskRelation) domain.ID { return r.TargetID }); err != nil {
			return err
		}
		out.Incoming, err = relationViews(ctx, sess, incoming, func(r *domain.TaskRelation) domain.ID { return r.SourceID })
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func relationViews(ctx context.Context, sess domain.Session, rels []*domain.TaskRelation, other func(*domain.TaskRelation) domain.ID) ([]RelationView, error) {
	views := make([]RelationView, 0, len(rels))
	for _, r := range rels {
		t, err := shared.GetTask(ctx, sess.Tasks(), other(r))
		if err != nil {
			return nil, err
		}
		views = append(views, RelationView{Relation: r, Other: t})
	}
	return views, nil
}
