package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/session"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
)

func TestTeamRepository_CreateAssignsSerialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository(team.Seed(time.Now()))

	created, err := repo.Create(ctx, team.Team{Name: "Oshakati Owls", Division: "Division 1", Coach: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, "4", created.ID.String())

	teams, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, teams, 4)
	assert.Equal(t, "Oshakati Owls", teams[0].Name)
}

func TestTeamRepository_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewTeamRepository([]team.Team{{ID: "1", Name: "A", PlayersCount: 2}})

	ok, err := repo.CompareAndSetPlayersCount(ctx, "1", 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.CompareAndSetPlayersCount(ctx, "1", 2, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found, err := repo.GetByID(ctx, "1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, got.PlayersCount)
}

func TestTeamRepository_SetFailure(t *testing.T) {
	repo := NewTeamRepository(nil)
	down := errors.New("backend down")

	repo.SetFailure(down)
	_, err := repo.List(context.Background())
	assert.ErrorIs(t, err, down)

	repo.SetFailure(nil)
	_, err = repo.List(context.Background())
	assert.NoError(t, err)
}

func TestEventRepository_ListUpcoming(t *testing.T) {
	repo := NewEventRepository([]event.Event{
		{ID: "1", Title: "Past", Date: "2026-10-01T10:00:00Z"},
		{ID: "2", Title: "Later", Date: "2026-11-01T10:00:00Z"},
		{ID: "3", Title: "Today", Date: "2026-10-15T18:00:00Z"},
	})

	events, err := repo.ListUpcoming(context.Background(), "2026-10-15")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Today", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
}

func TestAuthProvider_SignInFlow(t *testing.T) {
	ctx := context.Background()
	provider := NewAuthProvider(nil)
	_, err := provider.AddAccount("coach@example.com", "secret1", false)
	require.NoError(t, err)

	_, err = provider.SignInWithPassword(ctx, "coach@example.com", "secret1")
	assert.True(t, session.IsEmailNotConfirmed(err))

	require.NoError(t, provider.VerifySignup(ctx, "coach@example.com"))
	tokens, err := provider.SignInWithPassword(ctx, "coach@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)

	user, err := provider.User(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "coach@example.com", user.Email)

	require.NoError(t, provider.SignOut(ctx, tokens.AccessToken))
	_, err = provider.User(ctx, tokens.AccessToken)
	assert.Error(t, err)
}
