package usecase

import (
	"context"
	"regexp"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"

	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/hockey-roster/internal/platform/id"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

// opaqueIDPattern matches values that already look like a backend id
// (serial numbers, uuids, hex). Anything else is taken as a team name.
var opaqueIDPattern = regexp.MustCompile(`(?i)^[0-9a-f-]+$`)

type PlayerService struct {
	repo     player.Repository
	teams    *TeamService
	snapshot snapshot[player.Player]
	clock    clockwork.Clock
	ids      idgen.Generator
	logger   *logging.Logger
}

func NewPlayerService(
	repo player.Repository,
	teams *TeamService,
	store cache.Store,
	clock clockwork.Clock,
	ids idgen.Generator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("usecase.player")

	return &PlayerService{
		repo:     repo,
		teams:    teams,
		snapshot: snapshot[player.Player]{store: store, key: KeyPlayers, logger: logger},
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

func (s *PlayerService) List(ctx context.Context) Result[[]player.Player] {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	return listWithFallback(ctx, s.snapshot, s.repo.List, func() []player.Player {
		return player.Seed(s.clock.Now())
	})
}

// ListByTeam asks the backend for one team's players. With no rows or no
// backend it filters the cached player snapshot instead; there is no seed.
func (s *PlayerService) ListByTeam(ctx context.Context, teamID shared.ID) Result[[]player.Player] {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListByTeam")
	defer span.End()

	items, err := s.repo.ListByTeam(ctx, teamID)
	if err == nil && len(items) > 0 {
		return Result[[]player.Player]{Data: items, Source: SourceRemote}
	}
	if err != nil {
		s.logger.WarnContext(ctx, "backend list players by team failed, filtering cache", "team_id", teamID.String(), "error", err)
	}

	cached, _ := s.snapshot.load(ctx)
	out := make([]player.Player, 0, len(cached))
	for _, p := range cached {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return Result[[]player.Player]{Data: out, Source: SourceCache}
}

func (s *PlayerService) GetByID(ctx context.Context, id shared.ID) (player.Player, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetByID")
	defer span.End()

	if id.IsZero() {
		return player.Player{}, false, crerr.Wrap(ErrInvalidInput, "player id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// Create registers a player. A team name in TeamID is resolved to the
// team's id first. When the backend accepts the player the team's
// players_count is incremented; an increment failure is only logged.
func (s *PlayerService) Create(ctx context.Context, p player.Player) (Result[player.Player], error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	if p.CreatedAt == "" {
		p.CreatedAt = s.clock.Now().UTC().Format(time.RFC3339Nano)
	}
	if err := validateInput(p); err != nil {
		return Result[player.Player]{}, err
	}
	p.TeamID = s.resolveTeamID(ctx, p.TeamID)

	created, err := s.repo.Create(ctx, p)
	if err == nil {
		s.snapshot.warnOnError(ctx, "append", s.snapshot.append(ctx, created))
		if incErr := s.IncrementTeamPlayerCount(ctx, created.TeamID); incErr != nil {
			s.logger.WarnContext(ctx, "increment team players_count failed", "team_id", created.TeamID.String(), "error", incErr)
		}
		return Result[player.Player]{Data: created, Source: SourceRemote}, nil
	}

	s.logger.WarnContext(ctx, "backend create player failed, storing locally", "name", p.Name, "error", err)
	if p.ID.IsZero() {
		id, idErr := s.ids.NewID()
		if idErr != nil {
			return Result[player.Player]{}, crerr.Wrap(idErr, "generate local player id")
		}
		p.ID = shared.ID(id)
	}
	if cacheErr := s.snapshot.append(ctx, p); cacheErr != nil {
		return Result[player.Player]{}, crerr.CombineErrors(
			crerr.Wrap(cacheErr, "store player locally"),
			err,
		)
	}
	return Result[player.Player]{Data: p, Source: SourceLocal}, nil
}

func (s *PlayerService) Update(ctx context.Context, id shared.ID, patch player.Patch) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	if id.IsZero() {
		return player.Player{}, crerr.Wrap(ErrInvalidInput, "player id is required")
	}
	if err := validateInput(patch); err != nil {
		return player.Player{}, err
	}

	updated, ok, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return player.Player{}, err
	}
	if !ok {
		return player.Player{}, crerr.Wrapf(ErrNotFound, "player id=%s", id)
	}

	s.snapshot.warnOnError(ctx, "replace", s.snapshot.replace(ctx, playerByID(id), updated))
	return updated, nil
}

func (s *PlayerService) Delete(ctx context.Context, id shared.ID) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	if id.IsZero() {
		return crerr.Wrap(ErrInvalidInput, "player id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.snapshot.warnOnError(ctx, "remove", s.snapshot.remove(ctx, playerByID(id)))
	return nil
}

// IncrementTeamPlayerCount bumps players_count of the given team by one.
func (s *PlayerService) IncrementTeamPlayerCount(ctx context.Context, teamID shared.ID) error {
	return s.teams.IncrementPlayersCount(ctx, teamID)
}

// resolveTeamID maps a team name to its id. Lookup failures and unknown
// names leave the value unchanged.
func (s *PlayerService) resolveTeamID(ctx context.Context, value shared.ID) shared.ID {
	if opaqueIDPattern.MatchString(value.String()) {
		return value
	}

	refs, err := s.teams.ListRefs(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "resolve team name failed, keeping value", "team", value.String(), "error", err)
		return value
	}
	for _, ref := range refs {
		if ref.Name == value.String() {
			return ref.ID
		}
	}
	return value
}

func playerByID(id shared.ID) func(player.Player) bool {
	return func(p player.Player) bool { return p.ID == id }
}
