package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/hockey-roster/internal/domain/event"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
	"github.com/riskibarqy/hockey-roster/internal/platform/resilience"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Prefer string
	Body   map[string]any
}

// fakeBackend answers every request with the same status and body and
// records what it received.
func fakeBackend(t *testing.T, status int, response string) (*backend.Client, *[]recordedRequest) {
	t.Helper()

	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Prefer: r.Header.Get("Prefer"),
		}
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = sonic.Unmarshal(raw, &rec.Body)
		}
		seen = append(seen, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := backend.NewClient(backend.ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		APIKey:         "anon-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
	require.NoError(t, err)
	return client, &seen
}

func TestTeamRepository_List(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusOK, `[{"id":1,"name":"Swakopmund Strikers","division":"Premier","coach":"Anna Shipanga","players_count":12}]`)
	repo := NewTeamRepository(client)

	teams, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "1", teams[0].ID.String())
	assert.Equal(t, 12, teams[0].PlayersCount)

	require.Len(t, *seen, 1)
	assert.Equal(t, "/rest/v1/teams", (*seen)[0].Path)
	assert.Equal(t, "select=*&order=name", (*seen)[0].Query)
}

func TestTeamRepository_CreateUsesRepresentation(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusCreated, `[{"id":9,"name":"Oshakati Owls","division":"Division 1","coach":"Maria","players_count":0}]`)
	repo := NewTeamRepository(client)

	created, err := repo.Create(context.Background(), team.Team{Name: "Oshakati Owls", Division: "Division 1", Coach: "Maria"})
	require.NoError(t, err)
	assert.Equal(t, "9", created.ID.String())

	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, backend.PreferReturnRepresentation, req.Prefer)
	assert.Equal(t, "Oshakati Owls", req.Body["name"])
	assert.NotContains(t, req.Body, "id")
}

func TestTeamRepository_CreateEmptyRepresentation(t *testing.T) {
	client, _ := fakeBackend(t, http.StatusCreated, `[]`)

	_, err := NewTeamRepository(client).Create(context.Background(), team.Team{Name: "x"})
	assert.ErrorIs(t, err, errEmptyRepresentation)
}

func TestTeamRepository_CompareAndSetPlayersCount(t *testing.T) {
	t.Run("matched", func(t *testing.T) {
		client, seen := fakeBackend(t, http.StatusOK, `[{"id":1,"players_count":4}]`)

		ok, err := NewTeamRepository(client).CompareAndSetPlayersCount(context.Background(), "1", 3, 4)
		require.NoError(t, err)
		assert.True(t, ok)

		req := (*seen)[0]
		assert.Equal(t, http.MethodPatch, req.Method)
		assert.Equal(t, "id=eq.1&players_count=eq.3", req.Query)
		assert.EqualValues(t, 4, req.Body["players_count"])
	})

	t.Run("stale", func(t *testing.T) {
		client, _ := fakeBackend(t, http.StatusOK, `[]`)

		ok, err := NewTeamRepository(client).CompareAndSetPlayersCount(context.Background(), "1", 3, 4)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestTeamRepository_UpdateAndDelete(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusOK, `[{"id":2,"name":"Strikers","coach":"New Coach"}]`)
	repo := NewTeamRepository(client)

	coach := "New Coach"
	updated, ok, err := repo.Update(context.Background(), "2", team.Patch{Coach: &coach})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "New Coach", updated.Coach)
	assert.Equal(t, map[string]any{"coach": "New Coach"}, (*seen)[0].Body)
	assert.Equal(t, "id=eq.2", (*seen)[0].Query)

	require.NoError(t, repo.Delete(context.Background(), "2"))
	assert.Equal(t, http.MethodDelete, (*seen)[1].Method)
	assert.Equal(t, "id=eq.2", (*seen)[1].Query)
}

func TestTeamRepository_ListRefs(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusOK, `[{"id":"a1","name":"Walvis Bay Wolves"}]`)

	refs, err := NewTeamRepository(client).ListRefs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []team.Ref{{ID: "a1", Name: "Walvis Bay Wolves"}}, refs)
	assert.Equal(t, "select=id,name", (*seen)[0].Query)
}

func TestPlayerRepository_ListByTeam(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusOK, `[{"id":1,"name":"John Smith","team_id":1,"position":"Forward","jersey_number":10,"stats":{"goals":12,"assists":5}}]`)

	players, err := NewPlayerRepository(client).ListByTeam(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, 12, players[0].Stats.Goals)
	assert.Equal(t, "1", players[0].TeamID.String())
	assert.Equal(t, "select=*&team_id=eq.1", (*seen)[0].Query)
}

func TestPlayerRepository_GetByIDMissing(t *testing.T) {
	client, _ := fakeBackend(t, http.StatusOK, `[]`)

	_, ok, err := NewPlayerRepository(client).GetByID(context.Background(), "404")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventRepository_ListUpcoming(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusOK, `[]`)

	events, err := NewEventRepository(client).ListUpcoming(context.Background(), "2026-10-15")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, "select=*&date=gte.2026-10-15&order=date", (*seen)[0].Query)
}

func TestEventRepository_Register(t *testing.T) {
	client, seen := fakeBackend(t, http.StatusCreated, ``)

	err := NewEventRepository(client).Register(context.Background(), event.Registration{EventID: "3", UserID: "u-1"})
	require.NoError(t, err)

	req := (*seen)[0]
	assert.Equal(t, "/rest/v1/event_registrations", req.Path)
	assert.Equal(t, map[string]any{"event_id": "3", "user_id": "u-1"}, req.Body)
}

func TestEventRepository_ErrorsKeepTransportType(t *testing.T) {
	client, _ := fakeBackend(t, http.StatusInternalServerError, `{"message":"boom"}`)

	_, err := NewEventRepository(client).List(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, backend.StatusCode(err))
}
