package rest

import (
	"context"
	"net/http"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
	qb "github.com/riskibarqy/hockey-roster/internal/platform/querybuilder"
)

type PlayerRepository struct {
	client Requester
}

func NewPlayerRepository(client Requester) *PlayerRepository {
	return &PlayerRepository{client: client}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	var rows []player.Player
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionPlayers),
		Query: qb.Select("*").OrderBy("name").Encode(),
	}, &rows)
	if err != nil {
		return nil, crerr.Wrap(err, "list players")
	}
	return rows, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID shared.ID) ([]player.Player, error) {
	var rows []player.Player
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionPlayers),
		Query: qb.Select("*").Where(qb.Eq("team_id", teamID)).Encode(),
	}, &rows)
	if err != nil {
		return nil, crerr.Wrapf(err, "list players team_id=%s", teamID)
	}
	return rows, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id shared.ID) (player.Player, bool, error) {
	var rows []player.Player
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionPlayers),
		Query: qb.Select("*").Where(qb.Eq("id", id)).Encode(),
	}, &rows)
	if err != nil {
		return player.Player{}, false, crerr.Wrapf(err, "get player id=%s", id)
	}
	item, ok := first(rows)
	return item, ok, nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (player.Player, error) {
	var rows []player.Player
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   collectionPath(collectionPlayers),
		Body:   p,
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return player.Player{}, crerr.Wrapf(err, "create player %q", p.Name)
	}
	created, ok := first(rows)
	if !ok {
		return player.Player{}, crerr.Wrapf(errEmptyRepresentation, "create player %q", p.Name)
	}
	return created, nil
}

func (r *PlayerRepository) Update(ctx context.Context, id shared.ID, patch player.Patch) (player.Player, bool, error) {
	var rows []player.Player
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		Path:   collectionPath(collectionPlayers),
		Query:  qb.Filter(qb.Eq("id", id)).Encode(),
		Body:   patch,
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return player.Player{}, false, crerr.Wrapf(err, "update player id=%s", id)
	}
	item, ok := first(rows)
	return item, ok, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id shared.ID) error {
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodDelete,
		Path:   collectionPath(collectionPlayers),
		Query:  qb.Filter(qb.Eq("id", id)).Encode(),
	}, nil)
	if err != nil {
		return crerr.Wrapf(err, "delete player id=%s", id)
	}
	return nil
}
