package rest

import (
	"context"
	"net/http"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
	qb "github.com/riskibarqy/hockey-roster/internal/platform/querybuilder"
)

type EventRepository struct {
	client Requester
}

func NewEventRepository(client Requester) *EventRepository {
	return &EventRepository{client: client}
}

func (r *EventRepository) List(ctx context.Context) ([]event.Event, error) {
	var rows []event.Event
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionEvents),
		Query: qb.Select("*").OrderBy("date").Encode(),
	}, &rows)
	if err != nil {
		return nil, crerr.Wrap(err, "list events")
	}
	return rows, nil
}

func (r *EventRepository) ListUpcoming(ctx context.Context, from string) ([]event.Event, error) {
	var rows []event.Event
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionEvents),
		Query: qb.Select("*").Where(qb.Gte("date", from)).OrderBy("date").Encode(),
	}, &rows)
	if err != nil {
		return nil, crerr.Wrapf(err, "list events from %s", from)
	}
	return rows, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id shared.ID) (event.Event, bool, error) {
	var rows []event.Event
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionEvents),
		Query: qb.Select("*").Where(qb.Eq("id", id)).Encode(),
	}, &rows)
	if err != nil {
		return event.Event{}, false, crerr.Wrapf(err, "get event id=%s", id)
	}
	item, ok := first(rows)
	return item, ok, nil
}

func (r *EventRepository) Create(ctx context.Context, e event.Event) (event.Event, error) {
	var rows []event.Event
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   collectionPath(collectionEvents),
		Body:   e,
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return event.Event{}, crerr.Wrapf(err, "create event %q", e.Title)
	}
	created, ok := first(rows)
	if !ok {
		return event.Event{}, crerr.Wrapf(errEmptyRepresentation, "create event %q", e.Title)
	}
	return created, nil
}

func (r *EventRepository) Update(ctx context.Context, id shared.ID, patch event.Patch) (event.Event, bool, error) {
	var rows []event.Event
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		Path:   collectionPath(collectionEvents),
		Query:  qb.Filter(qb.Eq("id", id)).Encode(),
		Body:   patch,
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return event.Event{}, false, crerr.Wrapf(err, "update event id=%s", id)
	}
	item, ok := first(rows)
	return item, ok, nil
}

func (r *EventRepository) Delete(ctx context.Context, id shared.ID) error {
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodDelete,
		Path:   collectionPath(collectionEvents),
		Query:  qb.Filter(qb.Eq("id", id)).Encode(),
	}, nil)
	if err != nil {
		return crerr.Wrapf(err, "delete event id=%s", id)
	}
	return nil
}

func (r *EventRepository) Register(ctx context.Context, reg event.Registration) error {
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   collectionPath(collectionEventRegistrations),
		Body:   reg,
	}, nil)
	if err != nil {
		return crerr.Wrapf(err, "register user %s for event %s", reg.UserID, reg.EventID)
	}
	return nil
}
