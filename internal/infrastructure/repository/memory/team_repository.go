package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
	"github.com/riskibarqy/hockey-roster/internal/domain/team"
)

type TeamRepository struct {
	failures

	mu    sync.RWMutex
	seq   sequence
	teams []team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{}
	for _, item := range teams {
		r.seq.bump(item.ID.String())
		r.teams = append(r.teams, item)
	}
	return r
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	if err := r.failure(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]team.Team(nil), r.teams...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id shared.ID) (team.Team, bool, error) {
	if err := r.failure(); err != nil {
		return team.Team{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.ID == id {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) ListRefs(ctx context.Context) ([]team.Ref, error) {
	teams, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]team.Ref, 0, len(teams))
	for _, item := range teams {
		out = append(out, team.Ref{ID: item.ID, Name: item.Name})
	}
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) (team.Team, error) {
	if err := r.failure(); err != nil {
		return team.Team{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t.ID.IsZero() {
		t.ID = shared.ID(r.seq.nextID())
	} else {
		r.seq.bump(t.ID.String())
	}
	r.teams = append(r.teams, t)
	return t, nil
}

func (r *TeamRepository) Update(_ context.Context, id shared.ID, patch team.Patch) (team.Team, bool, error) {
	if err := r.failure(); err != nil {
		return team.Team{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.teams {
		if r.teams[idx].ID == id {
			r.teams[idx] = patch.Apply(r.teams[idx])
			return r.teams[idx], true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) CompareAndSetPlayersCount(_ context.Context, id shared.ID, expected, next int) (bool, error) {
	if err := r.failure(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.teams {
		if r.teams[idx].ID != id {
			continue
		}
		if r.teams[idx].PlayersCount != expected {
			return false, nil
		}
		r.teams[idx].PlayersCount = next
		return true, nil
	}
	return false, nil
}

func (r *TeamRepository) Delete(_ context.Context, id shared.ID) error {
	if err := r.failure(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.teams {
		if r.teams[idx].ID == id {
			r.teams = append(r.teams[:idx], r.teams[idx+1:]...)
			break
		}
	}
	return nil
}
