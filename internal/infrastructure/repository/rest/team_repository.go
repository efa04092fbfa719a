package rest

import (
	"context"
	"net/http"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
	qb "github.com/riskibarqy/hockey-roster/internal/platform/querybuilder"
)

type TeamRepository struct {
	client Requester
}

func NewTeamRepository(client Requester) *TeamRepository {
	return &TeamRepository{client: client}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	var rows []team.Team
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionTeams),
		Query: qb.Select("*").OrderBy("name").Encode(),
	}, &rows)
	if err != nil {
		return nil, crerr.Wrap(err, "list teams")
	}
	return rows, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id shared.ID) (team.Team, bool, error) {
	var rows []team.Team
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionTeams),
		Query: qb.Select("*").Where(qb.Eq("id", id)).Encode(),
	}, &rows)
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "get team id=%s", id)
	}
	item, ok := first(rows)
	return item, ok, nil
}

func (r *TeamRepository) ListRefs(ctx context.Context) ([]team.Ref, error) {
	var rows []team.Ref
	err := r.client.Do(ctx, backend.Request{
		Path:  collectionPath(collectionTeams),
		Query: qb.Select("id", "name").Encode(),
	}, &rows)
	if err != nil {
		return nil, crerr.Wrap(err, "list team refs")
	}
	return rows, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	var rows []team.Team
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   collectionPath(collectionTeams),
		Body:   t,
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return team.Team{}, crerr.Wrapf(err, "create team %q", t.Name)
	}
	created, ok := first(rows)
	if !ok {
		return team.Team{}, crerr.Wrapf(errEmptyRepresentation, "create team %q", t.Name)
	}
	return created, nil
}

func (r *TeamRepository) Update(ctx context.Context, id shared.ID, patch team.Patch) (team.Team, bool, error) {
	var rows []team.Team
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		Path:   collectionPath(collectionTeams),
		Query:  qb.Filter(qb.Eq("id", id)).Encode(),
		Body:   patch,
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return team.Team{}, false, crerr.Wrapf(err, "update team id=%s", id)
	}
	item, ok := first(rows)
	return item, ok, nil
}

func (r *TeamRepository) CompareAndSetPlayersCount(ctx context.Context, id shared.ID, expected, next int) (bool, error) {
	var rows []team.Team
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPatch,
		Path:   collectionPath(collectionTeams),
		Query:  qb.Filter(qb.Eq("id", id), qb.Eq("players_count", expected)).Encode(),
		Body:   map[string]int{"players_count": next},
		Prefer: backend.PreferReturnRepresentation,
	}, &rows)
	if err != nil {
		return false, crerr.Wrapf(err, "set players_count team id=%s", id)
	}
	return len(rows) > 0, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id shared.ID) error {
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodDelete,
		Path:   collectionPath(collectionTeams),
		Query:  qb.Filter(qb.Eq("id", id)).Encode(),
	}, nil)
	if err != nil {
		return crerr.Wrapf(err, "delete team id=%s", id)
	}
	return nil
}
