package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/te4it/te4it/internal/domain"
)

// EventContext stamps captured events.
type EventContext struct {
	Now       time.Time
	ProjectID domain.ID
	Actor     domain.Actor
}

// CaptureEvents drains the pending events of every aggregate into the
// session's event log. Events are stamped with a fresh ID, the acting user,
// the owning project and the capture time. Aggregates are cleared only after
// the append succeeds.
func CaptureEvents(ctx context.Context, sess domain.Session, ec EventContext, aggregates ...domain.Aggregate) error {
	var events []domain.Event
	for _, a := range aggregates {
		for _, e := range a.PendingEvents() {
			if e.ID.IsZero() {
				e.ID = domain.NewID()
			}
			if e.ProjectID.IsZero() {
				e.ProjectID = ec.ProjectID
			}
			if e.ActorID.IsZero() {
				e.ActorID = ec.Actor.ID
			}
			if e.OccurredAt.IsZero() {
				e.OccurredAt = ec.Now
			}
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return nil
	}
	if err := sess.Events().Append(ctx, events...); err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	for _, a := range aggregates {
		a.ClearEvents()
	}
	return nil
}
