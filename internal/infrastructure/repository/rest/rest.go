package rest

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/hockey-roster/internal/infrastructure/backend"
)

// Requester is the part of backend.Client the repositories need.
type Requester interface {
	Do(ctx context.Context, req backend.Request, out any) error
}

const (
	collectionTeams              = "teams"
	collectionPlayers            = "players"
	collectionEvents             = "events"
	collectionEventRegistrations = "event_registrations"
)

var errEmptyRepresentation = crerr.New("backend returned no rows for return=representation")

func collectionPath(name string) string {
	return backend.RESTPrefix + name
}

func first[T any](rows []T) (T, bool) {
	if len(rows) == 0 {
		var zero T
		return zero, false
	}
	return rows[0], true
}
