package player

import (
	"time"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
)

type Stats struct {
	Goals   int `json:"goals" validate:"gte=0"`
	Assists int `json:"assists" validate:"gte=0"`
}

// Player belongs to a team by TeamID. The reference is not checked for
// existence.
type Player struct {
	ID           shared.ID `json:"id,omitempty"`
	Name         string    `json:"name" validate:"required"`
	TeamID       shared.ID `json:"team_id" validate:"required"`
	Position     Position  `json:"position" validate:"required"`
	JerseyNumber int       `json:"jersey_number" validate:"gte=0,lte=99"`
	Stats        Stats     `json:"stats"`
	CreatedAt    string    `json:"created_at,omitempty"`
}

type Patch struct {
	Name         *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	TeamID       *shared.ID `json:"team_id,omitempty"`
	Position     *Position  `json:"position,omitempty"`
	JerseyNumber *int       `json:"jersey_number,omitempty" validate:"omitempty,gte=0,lte=99"`
	Stats        *Stats     `json:"stats,omitempty"`
}

func (p Patch) Apply(pl Player) Player {
	if p.Name != nil {
		pl.Name = *p.Name
	}
	if p.TeamID != nil {
		pl.TeamID = *p.TeamID
	}
	if p.Position != nil {
		pl.Position = *p.Position
	}
	if p.JerseyNumber != nil {
		pl.JerseyNumber = *p.JerseyNumber
	}
	if p.Stats != nil {
		pl.Stats = *p.Stats
	}
	return pl
}

func Seed(now time.Time) []Player {
	createdAt := now.UTC().Format(time.RFC3339Nano)
	return []Player{
		{ID: "1", Name: "John Smith", TeamID: "1", Position: PositionForward, JerseyNumber: 10, Stats: Stats{Goals: 12, Assists: 5}, CreatedAt: createdAt},
		{ID: "2", Name: "Maria Nangolo", TeamID: "1", Position: PositionMidfielder, JerseyNumber: 8, Stats: Stats{Goals: 5, Assists: 10}, CreatedAt: createdAt},
		{ID: "3", Name: "David Shikongo", TeamID: "2", Position: PositionDefender, JerseyNumber: 4, Stats: Stats{Goals: 1, Assists: 3}, CreatedAt: createdAt},
		{ID: "4", Name: "Sarah Hausiku", TeamID: "3", Position: PositionGoalkeeper, JerseyNumber: 1, CreatedAt: createdAt},
	}
}
