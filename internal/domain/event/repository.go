package event

import (
	"context"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

// Repository is the remote events table plus event_registrations.
type Repository interface {
	List(ctx context.Context) ([]Event, error)
	// ListUpcoming returns events dated on or after from (YYYY-MM-DD).
	ListUpcoming(ctx context.Context, from string) ([]Event, error)
	GetByID(ctx context.Context, id shared.ID) (Event, bool, error)
	Create(ctx context.Context, e Event) (Event, error)
	Update(ctx context.Context, id shared.ID, patch Patch) (Event, bool, error)
	Delete(ctx context.Context, id shared.ID) error
	Register(ctx context.Context, r Registration) error
}
