package usecase

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/hockey-roster/internal/platform/id"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

const dateLayout = "2006-01-02"

type EventService struct {
	repo     event.Repository
	snapshot snapshot[event.Event]
	clock    clockwork.Clock
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewEventService(
	repo event.Repository,
	store cache.Store,
	clock clockwork.Clock,
	ids idgen.Generator,
	logger *logging.Logger,
) *EventService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("usecase.event")

	return &EventService{
		repo:     repo,
		snapshot: snapshot[event.Event]{store: store, key: KeyEvents, logger: logger},
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

func (s *EventService) List(ctx context.Context) Result[[]event.Event] {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.List")
	defer span.End()

	return listWithFallback(ctx, s.snapshot, s.repo.List, func() []event.Event {
		return event.Seed(s.clock.Now())
	})
}

// ListUpcoming returns events dated today (UTC) or later. It never falls
// back to the cache; any failure yields an empty list.
func (s *EventService) ListUpcoming(ctx context.Context) []event.Event {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListUpcoming")
	defer span.End()

	today := s.clock.Now().UTC().Format(dateLayout)
	items, err := s.repo.ListUpcoming(ctx, today)
	if err != nil {
		s.logger.WarnContext(ctx, "backend list upcoming events failed", "from", today, "error", err)
		return []event.Event{}
	}
	if items == nil {
		items = []event.Event{}
	}
	return items
}

func (s *EventService) GetByID(ctx context.Context, id shared.ID) (event.Event, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.GetByID")
	defer span.End()

	if id.IsZero() {
		return event.Event{}, false, crerr.Wrap(ErrInvalidInput, "event id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *EventService) Create(ctx context.Context, e event.Event) (Result[event.Event], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Create")
	defer span.End()

	if e.CreatedAt == "" {
		e.CreatedAt = s.clock.Now().UTC().Format(time.RFC3339Nano)
	}
	if e.Status == "" {
		e.Status = event.StatusUpcoming
	}
	if e.Teams == nil {
		e.Teams = []string{}
	}
	if err := validateInput(e); err != nil {
		return Result[event.Event]{}, err
	}

	created, err := s.repo.Create(ctx, e)
	if err == nil {
		s.snapshot.warnOnError(ctx, "append", s.snapshot.append(ctx, created))
		return Result[event.Event]{Data: created, Source: SourceRemote}, nil
	}

	s.logger.WarnContext(ctx, "backend create event failed, storing locally", "title", e.Title, "error", err)
	if e.ID.IsZero() {
		id, idErr := s.ids.NewID()
		if idErr != nil {
			return Result[event.Event]{}, crerr.Wrap(idErr, "generate local event id")
		}
		e.ID = shared.ID(id)
	}
	if cacheErr := s.snapshot.append(ctx, e); cacheErr != nil {
		return Result[event.Event]{}, crerr.CombineErrors(
			crerr.Wrap(cacheErr, "store event locally"),
			err,
		)
	}
	return Result[event.Event]{Data: e, Source: SourceLocal}, nil
}

func (s *EventService) Update(ctx context.Context, id shared.ID, patch event.Patch) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Update")
	defer span.End()

	if id.IsZero() {
		return event.Event{}, crerr.Wrap(ErrInvalidInput, "event id is required")
	}
	if err := validateInput(patch); err != nil {
		return event.Event{}, err
	}

	updated, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return event.Event{}, err
	}
	if !ok {
		return event.Event{}, crerr.Wrapf(ErrNotFound, "event id=%s", id)
	}

	s.snapshot.warnOnError(ctx, "replace", s.snapshot.replace(ctx, eventByID(id), updated))
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id shared.ID) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Delete")
	defer span.End()

	if id.IsZero() {
		return crerr.Wrap(ErrInvalidInput, "event id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.snapshot.warnOnError(ctx, "remove", s.snapshot.remove(ctx, eventByID(id)))
	return nil
}

// Register signs userID up for an event. Failures are returned as is.
func (s *EventService) Register(ctx context.Context, eventID shared.ID, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Register")
	defer span.End()

	reg := event.Registration{EventID: eventID, UserID: strings.TrimSpace(userID)}
	if err := validateInput(reg); err != nil {
		return err
	}
	return s.repo.Register(ctx, reg)
}

func eventByID(id shared.ID) func(event.Event) bool {
	return func(e event.Event) bool { return e.ID == id }
}
