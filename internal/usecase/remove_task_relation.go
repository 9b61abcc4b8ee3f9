package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// RemoveTaskRelationInput contains the parameters for removing a relation.
type RemoveTaskRelationInput struct {
	Actor      domain.Actor
	TaskID     domain.ID // Source task of the relation
	RelationID domain.ID
}

// RemoveTaskRelationOutput contains the result of removing a relation.
type RemoveTaskRelationOutput struct {
	Removed bool // false when the relation was already gone
}

// RemoveTaskRelation is the use case for removing a relation by ID.
type RemoveTaskRelation struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewRemoveTaskRelation creates a new RemoveTaskRelation use case.
func NewRemoveTaskRelation(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *RemoveTaskRelation {
	return &RemoveTaskRelation{store: store, clock: clock, logger: logger}
}

// Execute removes the relation. Requires edit rights on the source task.
// Removing a relation that no longer exists succeeds without changes.
func (uc *RemoveTaskRelation) Execute(ctx context.Context, in RemoveTaskRelationInput) (*RemoveTaskRelationOutput, error) {
	out := &RemoveTaskRelationOutput{}
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		a, err := shared.ResolveTask(ctx, sess, in.TaskID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireTaskEdit(ctx, in.Actor, a.Project, a.Task); err != nil {
			return err
		}

		rel, err := sess.Relations().Get(ctx, in.RelationID)
		if err != nil {
			return fmt.Errorf("get relation: %w", err)
		}
		if rel == nil {
			return nil
		}
		if rel.SourceID != a.Task.ID {
			return domain.NotFound("relation", in.RelationID)
		}
		if err := sess.Relations().Remove(ctx, rel.ID); err != nil {
			return fmt.Errorf("remove relation: %w", err)
		}

		out.Removed, projectID = true, a.Project.ID
		a.Task.RemoveRelation(rel)
		ec := shared.EventContext{Now: uc.clock.Now(), ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, a.Task)
	})
	if err != nil {
		return nil, err
	}

	if out.Removed && uc.logger != nil {
		uc.logger.Info(projectID, "relation", fmt.Sprintf("removed %s from %s", in.RelationID.Short(), in.TaskID.Short()))
	}

	return out, nil
}
