package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hockey-roster/internal/platform/cache"
	idgen "github.com/riskibarqy/hockey-roster/internal/platform/id"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

var fixtureNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	clock   *clockwork.FakeClock
	store   *cache.MemoryStore
	teams   *memory.TeamRepository
	players *memory.PlayerRepository
	events  *memory.EventRepository

	teamService   *TeamService
	playerService *PlayerService
	eventService  *EventService
}

func newFixture(t *testing.T, teams []team.Team, players []player.Player, events []event.Event) *fixture {
	t.Helper()

	clock := clockwork.NewFakeClockAt(fixtureNow)
	store := cache.NewMemoryStore()
	ids := idgen.NewClockGenerator(clock)
	logger := logging.NewNop()

	f := &fixture{
		clock:   clock,
		store:   store,
		teams:   memory.NewTeamRepository(teams),
		players: memory.NewPlayerRepository(players),
		events:  memory.NewEventRepository(events),
	}
	f.teamService = NewTeamService(f.teams, store, clock, ids, logger)
	f.playerService = NewPlayerService(f.players, f.teamService, store, clock, ids, logger)
	f.eventService = NewEventService(f.events, store, clock, ids, logger)
	return f
}

func cachedSnapshot[T any](t *testing.T, store cache.Store, key string) []T {
	t.Helper()

	raw, ok, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "snapshot %s missing", key)

	var items []T
	require.NoError(t, sonic.UnmarshalString(raw, &items))
	return items
}
