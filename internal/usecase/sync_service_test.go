package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/platform/logging"
)

func TestSyncService_Prefetch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t, team.Seed(fixtureNow), player.Seed(fixtureNow), nil)
	f.events.SetFailure(errBackendDown)
	service := NewSyncService(f.teamService, f.playerService, f.eventService, 2, f.clock, logging.NewNop())

	report, err := service.Prefetch(ctx)
	require.NoError(t, err)
	require.Len(t, report.Collections, 3)
	assert.True(t, report.Degraded())
	assert.Equal(t, fixtureNow, report.StartedAt)

	byName := make(map[string]CollectionReport, len(report.Collections))
	for _, c := range report.Collections {
		byName[c.Collection] = c
	}
	assert.Equal(t, CollectionReport{Collection: KeyTeams, Source: SourceRemote, Count: 3}, byName[KeyTeams])
	assert.Equal(t, CollectionReport{Collection: KeyPlayers, Source: SourceRemote, Count: 4}, byName[KeyPlayers])
	assert.Equal(t, CollectionReport{Collection: KeyEvents, Source: SourceSeed, Count: 3}, byName[KeyEvents])

	assert.Len(t, cachedSnapshot[event.Event](t, f.store, KeyEvents), 3)
}

func TestSyncService_Watch_RunsOnEveryTick(t *testing.T) {
	t.Parallel()

	f := newFixture(t, team.Seed(fixtureNow), player.Seed(fixtureNow), event.Seed(fixtureNow))
	service := NewSyncService(f.teamService, f.playerService, f.eventService, 0, f.clock, logging.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	watchCtx, stop := context.WithCancel(ctx)

	reports := make(chan SyncReport, 4)
	done := make(chan error, 1)
	go func() {
		done <- service.Watch(watchCtx, time.Minute, func(r SyncReport) { reports <- r })
	}()

	first := <-reports
	assert.False(t, first.Degraded())

	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(time.Minute)

	second := <-reports
	assert.Equal(t, fixtureNow.Add(time.Minute), second.StartedAt)

	stop()
	require.NoError(t, <-done)
}

func TestSyncService_Watch_RejectsZeroInterval(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil, nil, nil)
	service := NewSyncService(f.teamService, f.playerService, f.eventService, 1, f.clock, logging.NewNop())

	err := service.Watch(context.Background(), 0, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
