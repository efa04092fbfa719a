package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

type EventRepository struct {
	failures

	mu            sync.RWMutex
	seq           sequence
	events        []event.Event
	registrations []event.Registration
}

func NewEventRepository(events []event.Event) *EventRepository {
	r := &EventRepository{}
	for _, item := range events {
		r.seq.bump(item.ID.String())
		r.events = append(r.events, cloneEvent(item))
	}
	return r
}

func (r *EventRepository) List(_ context.Context) ([]event.Event, error) {
	if err := r.failure(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(event.Event) bool { return true }), nil
}

// ListUpcoming compares the date prefix so both plain dates and full
// timestamps order against a YYYY-MM-DD bound.
func (r *EventRepository) ListUpcoming(_ context.Context, from string) ([]event.Event, error) {
	if err := r.failure(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedLocked(func(e event.Event) bool { return e.Date >= from }), nil
}

func (r *EventRepository) GetByID(_ context.Context, id shared.ID) (event.Event, bool, error) {
	if err := r.failure(); err != nil {
		return event.Event{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.events {
		if item.ID == id {
			return cloneEvent(item), true, nil
		}
	}
	return event.Event{}, false, nil
}

func (r *EventRepository) Create(_ context.Context, e event.Event) (event.Event, error) {
	if err := r.failure(); err != nil {
		return event.Event{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID.IsZero() {
		e.ID = shared.ID(r.seq.nextID())
	} else {
		r.seq.bump(e.ID.String())
	}
	r.events = append(r.events, cloneEvent(e))
	return cloneEvent(e), nil
}

func (r *EventRepository) Update(_ context.Context, id shared.ID, patch event.Patch) (event.Event, bool, error) {
	if err := r.failure(); err != nil {
		return event.Event{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.events {
		if r.events[idx].ID == id {
			r.events[idx] = patch.Apply(r.events[idx])
			return cloneEvent(r.events[idx]), true, nil
		}
	}
	return event.Event{}, false, nil
}

func (r *EventRepository) Delete(_ context.Context, id shared.ID) error {
	if err := r.failure(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.events {
		if r.events[idx].ID == id {
			r.events = append(r.events[:idx], r.events[idx+1:]...)
			break
		}
	}
	return nil
}

func (r *EventRepository) Register(_ context.Context, reg event.Registration) error {
	if err := r.failure(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.registrations = append(r.registrations, reg)
	return nil
}

func (r *EventRepository) Registrations() []event.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]event.Registration(nil), r.registrations...)
}

func (r *EventRepository) sortedLocked(keep func(event.Event) bool) []event.Event {
	out := make([]event.Event, 0, len(r.events))
	for _, item := range r.events {
		if keep(item) {
			out = append(out, cloneEvent(item))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func cloneEvent(e event.Event) event.Event {
	copied := e
	if e.Teams != nil {
		copied.Teams = append(make([]string, 0, len(e.Teams)), e.Teams...)
	}
	return copied
}
