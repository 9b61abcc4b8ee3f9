package usecase

import (
	"context"
	"fmt"

	"github.com/te4it/te4it/internal/authz"
	"github.com/te4it/te4it/internal/domain"
	"github.com/te4it/te4it/internal/usecase/shared"
)

// ListEventsInput contains the parameters for reading the event log.
type ListEventsInput struct {
	Actor     domain.Actor
	ProjectID domain.ID // empty = every project the actor can access
	AfterSeq  int64     // Only entries with a greater sequence number
	Limit     int       // 0 = no limit
}

// ListEventsOutput contains log entries in sequence order.
type ListEventsOutput struct {
	Events  []domain.EventRecord
	LastSeq int64 // Sequence number to resume from
}

// ListEvents is the use case for reading the event log, as a relay would.
type ListEvents struct {
	store  domain.UnitOfWork
	events domain.EventReader
}

// NewListEvents creates a new ListEvents use case.
func NewListEvents(store domain.UnitOfWork, events domain.EventReader) *ListEvents {
	return &ListEvents{store: store, events: events}
}

// Execute returns committed log entries. Administrators read the whole log;
// other actors only see entries of projects they can access.
func (uc *ListEvents) Execute(ctx context.Context, in ListEventsInput) (*ListEventsOutput, error) {
	if in.Actor.IsZero() {
		return nil, domain.ErrUnauthorized
	}

	var visible map[domain.ID]bool
	if !in.Actor.IsAdmin || !in.ProjectID.IsZero() {
		err := shared.ReadOnly(ctx, uc.store, func(sess domain.Session) error {
			if !in.ProjectID.IsZero() {
				project, err := shared.GetProject(ctx, sess.Projects(), in.ProjectID)
				if err != nil {
					return err
				}
				if _, err := authz.NewResolver(sess.Members()).RequireAccess(ctx, in.Actor, project); err != nil {
					return err
				}
				visible = map[domain.ID]bool{project.ID: true}
				return nil
			}
			memberships, err := sess.Members().ListByUser(ctx, in.Actor.ID)
			if err != nil {
				return fmt.Errorf("list memberships: %w", err)
			}
			visible = make(map[domain.ID]bool, len(memberships))
			for _, m := range memberships {
				visible[m.ProjectID] = true
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := &ListEventsOutput{Events: []domain.EventRecord{}, LastSeq: in.AfterSeq}
	after := in.AfterSeq
	for {
		batch, err := uc.events.ListEvents(ctx, after, in.Limit)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		for _, e := range batch {
			out.LastSeq = e.Seq
			if visible != nil && !visible[e.ProjectID] {
				continue
			}
			out.Events = append(out.Events, e)
			if in.Limit > 0 && len(out.Events) == in.Limit {
				return out, nil
			}
		}
		if in.Limit == 0 || len(batch) < in.Limit {
			return out, nil
		}
		after = out.LastSeq
	}
}
