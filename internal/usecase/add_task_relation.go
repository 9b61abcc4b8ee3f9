package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// AddTaskRelationInput contains the parameters for linking two tasks.
type AddTaskRelationInput struct {
	Actor    domain.Actor
	SourceID domain.ID
	TargetID domain.ID
	Type     domain.RelationType
}

// AddTaskRelationOutput contains the created relation.
type AddTaskRelationOutput struct {
	Relation *domain.TaskRelation
}

// AddTaskRelation is the use case for adding a directed relation between tasks.
type AddTaskRelation struct {
	store  domain.UnitOfWork
	clock  domain.Clock
	logger domain.Logger
}

// NewAddTaskRelation creates a new AddTaskRelation use case.
func NewAddTaskRelation(store domain.UnitOfWork, clock domain.Clock, logger domain.Logger) *AddTaskRelation {
	return &AddTaskRelation{store: store, clock: clock, logger: logger}
}

// Execute adds the relation. Requires edit rights on the source task.
// Both tasks must belong to the same project.
func (uc *AddTaskRelation) Execute(ctx context.Context, in AddTaskRelationInput) (*AddTaskRelationOutput, error) {
	var rel *domain.TaskRelation
	var projectID domain.ID
	err := shared.InSession(ctx, uc.store, func(sess domain.Session) error {
		src, err := shared.ResolveTask(ctx, sess, in.SourceID)
		if err != nil {
			return err
		}
		if _, err := authz.NewResolver(sess.Members()).RequireTaskEdit(ctx, in.Actor, src.Project, src.Task); err != nil {
			return err
		}

		now := uc.clock.Now()
		rel, err = domain.NewTaskRelation(domain.NewID(), in.SourceID, in.TargetID, in.Type, now)
		if err != nil {
			return err
		}
		tgt, err := shared.ResolveTask(ctx, sess, in.TargetID)
		if err != nil {
			return err
		}
		if tgt.Project.ID != src.Project.ID {
			return domain.Violation(domain.ErrCrossProjectRelation, "")
		}

		existing, err := sess.Relations().ListBySource(ctx, src.Task.ID)
		if err != nil {
			return fmt.Errorf("list relations: %w", err)
		}
		if err := src.Task.AddRelation(rel, existing); err != nil {
			return err
		}
		if err := sess.Relations().Add(ctx, rel); err != nil {
			return fmt.Errorf("add relation: %w", err)
		}
		projectID = src.Project.ID
		ec := shared.EventContext{Now: now, ProjectID: projectID, Actor: in.Actor}
		return shared.CaptureEvents(ctx, sess, ec, src.Task)
	})
	if err != nil {
		return nil, err
	}

	if uc.logger != nil {
		uc.logger.Info(projectID, "relation", fmt.Sprintf("%s %s %s", rel.SourceID.Short(), rel.Type, rel.TargetID.Short()))
	}

	return &AddTaskRelationOutput{Relation: rel}, nil
}
