package service

import (
	"context"
	"time"

	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/events"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// Clock returns the current time. Services take one so tests can pin dates.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// CatalogLookup resolves the named statuses and categories business rules depend on.
type CatalogLookup interface {
	PendingStatus(ctx context.Context) (domain.Status, bool, error)
	StatusName(ctx context.Context, id int64) (string, error)
	CategoryName(ctx context.Context, id int64) (string, error)
}

// lookupErr turns a missing row into a NotFound for resource.
func lookupErr(err error, resource string, id int64) error {
	if apperrors.IsNoRows(err) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return apperrors.MapError(err)
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, event)
}

func actorRef(actor domain.Actor) *int64 {
	id := actor.ID
	return &id
}

// dateOf truncates t to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
