package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/hockey-roster/internal/domain/player"
	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

type PlayerRepository struct {
	failures

	mu      sync.RWMutex
	seq     sequence
	players []player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{}
	for _, item := range players {
		r.seq.bump(item.ID.String())
		r.players = append(r.players, item)
	}
	return r
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	if err := r.failure(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]player.Player(nil), r.players...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID shared.ID) ([]player.Player, error) {
	if err := r.failure(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, item := range r.players {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id shared.ID) (player.Player, bool, error) {
	if err := r.failure(); err != nil {
		return player.Player{}, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.players {
		if item.ID == id {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) (player.Player, error) {
	if err := r.failure(); err != nil {
		return player.Player{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = shared.ID(r.seq.nextID())
	} else {
		r.seq.bump(p.ID.String())
	}
	r.players = append(r.players, p)
	return p, nil
}

func (r *PlayerRepository) Update(_ context.Context, id shared.ID, patch player.Patch) (player.Player, bool, error) {
	if err := r.failure(); err != nil {
		return player.Player{}, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.players {
		if r.players[idx].ID == id {
			r.players[idx] = patch.Apply(r.players[idx])
			return r.players[idx], true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) Delete(_ context.Context, id shared.ID) error {
	if err := r.failure(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.players {
		if r.players[idx].ID == id {
			r.players = append(r.players[:idx], r.players[idx+1:]...)
			break
		}
	}
	return nil
}
