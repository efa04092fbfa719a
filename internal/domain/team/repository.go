package team

import (
	"context"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

// Repository is the remote team table.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id shared.ID) (Team, bool, error)
	ListRefs(ctx context.Context) ([]Ref, error)
	Create(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, id shared.ID, patch Patch) (Team, bool, error)
	// CompareAndSetPlayersCount writes next only if the stored count still
	// equals expected. ok is false when the row changed underneath.
	CompareAndSetPlayersCount(ctx context.Context, id shared.ID, expected, next int) (ok bool, err error)
	Delete(ctx context.Context, id shared.ID) error
}
