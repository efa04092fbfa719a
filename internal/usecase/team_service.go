package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/hockey-roster/internal/platform/id"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

// maxCounterAttempts bounds the compare-and-set loop on players_count.
const maxCounterAttempts = 3

type TeamService struct {
	repo     team.Repository
	snapshot snapshot[team.Team]
	clock    clockwork.Clock
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewTeamService(
	repo team.Repository,
	store cache.Store,
	clock clockwork.Clock,
	ids idgen.Generator,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("usecase.team")

	return &TeamService{
		repo:     repo,
		snapshot: snapshot[team.Team]{store: store, key: KeyTeams, logger: logger},
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

func (s *TeamService) List(ctx context.Context) Result[[]team.Team] {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer span.End()

	return listWithFallback(ctx, s.snapshot, s.repo.List, func() []team.Team {
		return team.Seed(s.clock.Now())
	})
}

func (s *TeamService) GetByID(ctx context.Context, id shared.ID) (team.Team, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetByID")
	defer span.End()

	if id.IsZero() {
		return team.Team{}, false, crerr.Wrap(ErrInvalidInput, "team id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Create registers a team. Any backend failure stores the team locally with
// a timestamp id instead; an error is returned only for invalid input or
// when that local write fails too.
func (s *TeamService) Create(ctx context.Context, t team.Team) (Result[team.Team], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	if t.CreatedAt == "" {
		t.CreatedAt = s.clock.Now().UTC().Format(time.RFC3339Nano)
	}
	t.PlayersCount = 0
	if err := validateInput(t); err != nil {
		return Result[team.Team]{}, err
	}

	created, err := s.repo.Create(ctx, t)
	if err == nil {
		s.snapshot.warnOnError(ctx, "append", s.snapshot.append(ctx, created))
		return Result[team.Team]{Data: created, Source: SourceRemote}, nil
	}

	s.logger.WarnContext(ctx, "backend create team failed, storing locally", "name", t.Name, "error", err)
	// Local teams always get a generated id, even when the caller sent one.
	id, idErr := s.ids.NewID()
	if idErr != nil {
		return Result[team.Team]{}, crerr.Wrap(idErr, "generate local team id")
	}
	t.ID = shared.ID(id)
	if cacheErr := s.snapshot.append(ctx, t); cacheErr != nil {
		return Result[team.Team]{}, crerr.CombineErrors(
			crerr.Wrap(cacheErr, "store team locally"),
			err,
		)
	}
	return Result[team.Team]{Data: t, Source: SourceLocal}, nil
}

func (s *TeamService) Update(ctx context.Context, id shared.ID, patch team.Patch) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	if id.IsZero() {
		return team.Team{}, crerr.Wrap(ErrInvalidInput, "team id is required")
	}
	if err := validateInput(patch); err != nil {
		return team.Team{}, err
	}

	updated, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return team.Team{}, err
	}
	if !ok {
		return team.Team{}, crerr.Wrapf(ErrNotFound, "team id=%s", id)
	}

	s.snapshot.warnOnError(ctx, "replace", s.snapshot.replace(ctx, teamByID(id), updated))
	return updated, nil
}

func (s *TeamService) Delete(ctx context.Context, id shared.ID) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	if id.IsZero() {
		return crerr.Wrap(ErrInvalidInput, "team id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.snapshot.warnOnError(ctx, "remove", s.snapshot.remove(ctx, teamByID(id)))
	return nil
}

// ListRefs returns the backend's id/name pairs for resolving team names.
func (s *TeamService) ListRefs(ctx context.Context) ([]team.Ref, error) {
	return s.repo.ListRefs(ctx)
}

// IncrementPlayersCount adds one to a team's players_count on the backend
// and in the cached snapshot. The two writes are independent: the cached
// copy is bumped even when the backend write fails. The backend write is a
// compare-and-set on the previous count, retried against a fresh read when
// another writer got there first.
func (s *TeamService) IncrementPlayersCount(ctx context.Context, id shared.ID) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.IncrementPlayersCount")
	defer span.End()

	teams := s.List(ctx)
	current, found := findTeam(teams.Data, id)
	if !found {
		return crerr.Wrapf(ErrNotFound, "team id=%s", id)
	}

	next := current.PlayersCount + 1
	remoteCount, remoteErr := s.compareAndIncrement(ctx, id, current.PlayersCount)
	if remoteErr == nil {
		next = remoteCount
	} else {
		s.logger.WarnContext(ctx, "backend players_count update failed", "team_id", id.String(), "error", remoteErr)
	}

	current.PlayersCount = next
	localErr := s.snapshot.replace(ctx, teamByID(id), current)
	if localErr != nil {
		s.logger.WarnContext(ctx, "cached players_count update failed", "team_id", id.String(), "error", localErr)
		localErr = crerr.Wrap(localErr, "update cached players_count")
	}

	return crerr.CombineErrors(remoteErr, localErr)
}

func (s *TeamService) compareAndIncrement(ctx context.Context, id shared.ID, expected int) (int, error) {
	for attempt := 1; attempt <= maxCounterAttempts; attempt++ {
		ok, err := s.repo.CompareAndSetPlayersCount(ctx, id, expected, expected+1)
		if err != nil {
			return 0, err
		}
		if ok {
			return expected + 1, nil
		}

		s.logger.DebugContext(ctx, "players_count changed concurrently, re-reading", "team_id", id.String(), "attempt", attempt)
		fresh, found, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, crerr.Wrapf(ErrNotFound, "team id=%s", id)
		}
		expected = fresh.PlayersCount
	}

	return 0, crerr.Wrapf(ErrDependencyUnavailable, "players_count for team id=%s kept changing after %d attempts", id, maxCounterAttempts)
}

func teamByID(id shared.ID) func(team.Team) bool {
	return func(t team.Team) bool { return t.ID == id }
}

func findTeam(teams []team.Team, id shared.ID) (team.Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return team.Team{}, false
}
