package usecase

import (
	"context"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

const defaultSyncWorkers = 3

type CollectionReport struct {
	Collection string        `json:"collection"`
	Source     DataSource    `json:"source"`
	Count      int           `json:"count"`
	Duration   time.Duration `json:"duration_ns"`
}

type SyncReport struct {
	StartedAt   time.Time          `json:"started_at"`
	Collections []CollectionReport `json:"collections"`
}

// Degraded reports whether any collection was served without the backend.
func (r SyncReport) Degraded() bool {
	for _, c := range r.Collections {
		if c.Source != SourceRemote {
			return true
		}
	}
	return false
}

// SyncService refreshes every cached collection from the backend.
type SyncService struct {
	teams   *TeamService
	players *PlayerService
	events  *EventService
	workers int
	clock   clockwork.Clock
	logger  *logging.Logger
}

func NewSyncService(
	teams *TeamService,
	players *PlayerService,
	events *EventService,
	workers int,
	clock clockwork.Clock,
	logger *logging.Logger,
) *SyncService {
	if workers <= 0 {
		workers = defaultSyncWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		teams:   teams,
		players: players,
		events:  events,
		workers: workers,
		clock:   clock,
		logger:  logger.Named("usecase.sync"),
	}
}

// Prefetch lists teams, players and events concurrently. Each list writes
// through to the cache, so a later offline run sees this state.
func (s *SyncService) Prefetch(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Prefetch")
	defer span.End()

	tasks := []struct {
		name string
		run  func(context.Context) (DataSource, int)
	}{
		{KeyTeams, func(ctx context.Context) (DataSource, int) {
			res := s.teams.List(ctx)
			return res.Source, len(res.Data)
		}},
		{KeyPlayers, func(ctx context.Context) (DataSource, int) {
			res := s.players.List(ctx)
			return res.Source, len(res.Data)
		}},
		{KeyEvents, func(ctx context.Context) (DataSource, int) {
			res := s.events.List(ctx)
			return res.Source, len(res.Data)
		}},
	}

	report := SyncReport{
		StartedAt:   s.clock.Now().UTC(),
		Collections: make([]CollectionReport, len(tasks)),
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncReport{}, crerr.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, task := range tasks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := s.clock.Now()
			source, count := task.run(ctx)
			report.Collections[idx] = CollectionReport{
				Collection: task.name,
				Source:     source,
				Count:      count,
				Duration:   s.clock.Since(start),
			}
		}); err != nil {
			workers.Done()
			workers.Wait()
			return SyncReport{}, crerr.Wrap(err, "submit task to worker pool")
		}
	}
	workers.Wait()

	s.logger.InfoContext(ctx, "prefetch finished",
		"degraded", report.Degraded(),
		"teams", report.Collections[0].Count,
		"players", report.Collections[1].Count,
		"events", report.Collections[2].Count,
	)
	return report, nil
}

// Watch runs Prefetch now and then on every tick of interval until ctx is
// done. onCycle, when set, receives each report.
func (s *SyncService) Watch(ctx context.Context, interval time.Duration, onCycle func(SyncReport)) error {
	if interval <= 0 {
		return crerr.Wrapf(ErrInvalidInput, "sync interval must be positive, got %s", interval)
	}

	cycle := func() {
		report, err := s.Prefetch(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "prefetch cycle failed", "error", err)
			return
		}
		if onCycle != nil {
			onCycle(report)
		}
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		ticker := s.clock.NewTicker(interval)
		defer ticker.Stop()

		cycle()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				cycle()
			}
		}
	})

	if recovered := wg.WaitAndRecover(); recovered != nil {
		return crerr.Newf("sync watcher panicked: %v", recovered.Value)
	}
	return nil
}
