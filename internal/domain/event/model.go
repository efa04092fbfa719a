package event

import (
	"time"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

type Type string

const (
	TypeMatch      Type = "match"
	TypeTraining   Type = "training"
	TypeTournament Type = "tournament"
)

const StatusUpcoming = "upcoming"

// Event is a scheduled fixture, camp or tournament. Teams holds team names
// as entered, not a relational join.
type Event struct {
	ID                   shared.ID `json:"id,omitempty"`
	Title                string    `json:"title" validate:"required"`
	Description          string    `json:"description"`
	Location             string    `json:"location" validate:"required"`
	Date                 string    `json:"date" validate:"required"`
	Time                 string    `json:"time"`
	Teams                []string  `json:"teams"`
	Type                 Type      `json:"type"`
	Status               string    `json:"status"`
	CreatedAt            string    `json:"created_at,omitempty"`
	RegistrationDeadline string    `json:"registration_deadline"`
	Image                string    `json:"image,omitempty"`
}

type Patch struct {
	Title                *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Description          *string   `json:"description,omitempty"`
	Location             *string   `json:"location,omitempty" validate:"omitempty,min=1"`
	Date                 *string   `json:"date,omitempty" validate:"omitempty,min=1"`
	Time                 *string   `json:"time,omitempty"`
	Teams                *[]string `json:"teams,omitempty"`
	Type                 *Type     `json:"type,omitempty"`
	Status               *string   `json:"status,omitempty"`
	RegistrationDeadline *string   `json:"registration_deadline,omitempty"`
	Image                *string   `json:"image,omitempty"`
}

func (p Patch) Apply(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Time != nil {
		e.Time = *p.Time
	}
	if p.Teams != nil {
		e.Teams = append([]string(nil), (*p.Teams)...)
	}
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.RegistrationDeadline != nil {
		e.RegistrationDeadline = *p.RegistrationDeadline
	}
	if p.Image != nil {
		e.Image = *p.Image
	}
	return e
}

// Registration signs a user up for an event.
type Registration struct {
	EventID shared.ID `json:"event_id" validate:"required"`
	UserID  string    `json:"user_id" validate:"required"`
}

// Seed returns three upcoming events one, two and three weeks after now.
func Seed(now time.Time) []Event {
	now = now.UTC()
	at := func(days int) string {
		return now.AddDate(0, 0, days).Format(time.RFC3339Nano)
	}
	createdAt := now.Format(time.RFC3339Nano)

	return []Event{
		{
			ID:                   "1",
			Title:                "National Championship Finals",
			Description:          "The final match of the National Hockey Championship",
			Location:             "Windhoek Stadium",
			Date:                 at(7),
			Time:                 "15:00",
			Teams:                []string{"Windhoek Warriors", "Swakopmund Strikers"},
			Type:                 TypeMatch,
			Status:               StatusUpcoming,
			CreatedAt:            createdAt,
			RegistrationDeadline: at(7),
			Image:                "https://example.com/national-championship-finals.jpg",
		},
		{
			ID:                   "2",
			Title:                "Junior Training Camp",
			Description:          "Training camp for junior hockey players",
			Location:             "Swakopmund Sports Center",
			Date:                 at(14),
			Time:                 "09:00",
			Teams:                []string{},
			Type:                 TypeTraining,
			Status:               StatusUpcoming,
			CreatedAt:            createdAt,
			RegistrationDeadline: at(14),
			Image:                "https://example.com/junior-training-camp.jpg",
		},
		{
			ID:                   "3",
			Title:                "Regional Tournament",
			Description:          "Regional hockey tournament featuring teams from across Namibia",
			Location:             "Walvis Bay Hockey Field",
			Date:                 at(21),
			Time:                 "10:00",
			Teams:                []string{"Windhoek Warriors", "Swakopmund Strikers", "Walvis Bay Wolves"},
			Type:                 TypeTournament,
			Status:               StatusUpcoming,
			CreatedAt:            createdAt,
			RegistrationDeadline: at(21),
			Image:                "https://example.com/regional-tournament.jpg",
		},
	}
}
