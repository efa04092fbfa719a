package team

import (
	"time"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

// Team is a club registered with the association.
type Team struct {
	ID           shared.ID `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required"`
	Division     string    `json:"division" validate:"required"`
	Coach        string    `json:"coach" validate:"required"`
	PlayersCount int       `json:"players_count" validate:"gte=0"`
	CreatedAt    string    `json:"created_at,omitempty"`
}

// Patch carries the fields of a partial update. Nil fields are left out of
// the request body.
type Patch struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Division     *string `json:"division,omitempty" validate:"omitempty,min=1"`
	Coach        *string `json:"coach,omitempty" validate:"omitempty,min=1"`
	PlayersCount *int    `json:"players_count,omitempty" validate:"omitempty,gte=0"`
}

func (p Patch) Apply(t Team) Team {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Division != nil {
		t.Division = *p.Division
	}
	if p.Coach != nil {
		t.Coach = *p.Coach
	}
	if p.PlayersCount != nil {
		t.PlayersCount = *p.PlayersCount
	}
	return t
}

// Ref is the id/name pair used to resolve a team name typed by a user.
type Ref struct {
	ID   shared.ID `json:"id"`
	Name string    `json:"name"`
}

// Seed is the default team list served when neither the backend nor the
// local cache has any teams.
func Seed(now time.Time) []Team {
	createdAt := now.UTC().Format(time.RFC3339Nano)
	return []Team{
		{ID: "1", Name: "Windhoek Warriors", Division: "Premier", Coach: "David Muller", PlayersCount: 15, CreatedAt: createdAt},
		{ID: "2", Name: "Swakopmund Strikers", Division: "Premier", Coach: "Anna Shipanga", PlayersCount: 12, CreatedAt: createdAt},
		{ID: "3", Name: "Walvis Bay Wolves", Division: "Division 1", Coach: "Thomas Shilongo", PlayersCount: 14, CreatedAt: createdAt},
	}
}
