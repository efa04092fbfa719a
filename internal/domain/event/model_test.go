package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_RelativeToNow(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

	events := Seed(now)
	require.Len(t, events, 3)

	assert.Equal(t, "National Championship Finals", events[0].Title)
	assert.Equal(t, "2026-10-22T08:00:00Z", events[0].Date)
	assert.Equal(t, "2026-10-29T08:00:00Z", events[1].Date)
	assert.Equal(t, "2026-11-05T08:00:00Z", events[2].Date)
	assert.Empty(t, events[1].Teams)
	assert.Len(t, events[2].Teams, 3)
	for _, e := range events {
		assert.Equal(t, StatusUpcoming, e.Status)
		assert.Equal(t, e.Date, e.RegistrationDeadline)
	}
}

func TestPatch_Apply(t *testing.T) {
	title := "Finals"
	teams := []string{"Walvis Bay Wolves"}
	e := Patch{Title: &title, Teams: &teams}.Apply(Event{ID: "1", Title: "Old", Location: "Windhoek"})

	assert.Equal(t, "Finals", e.Title)
	assert.Equal(t, "Windhoek", e.Location)
	assert.Equal(t, []string{"Walvis Bay Wolves"}, e.Teams)
}
