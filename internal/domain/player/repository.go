package player

import (
	"context"

	"github.com/riskibarqy/hockey-roster/internal/domain/shared"
)

// Repository is the remote player table.
type Repository interface {
	List(ctx context.Context) ([]Player, error)
	ListByTeam(ctx context.Context, teamID shared.ID) ([]Player, error)
	GetByID(ctx context.Context, id shared.ID) (Player, bool, error)
	Create(ctx context.Context, p Player) (Player, error)
	Update(ctx context.Context, id shared.ID, patch Patch) (Player, bool, error)
	Delete(ctx context.Context, id shared.ID) error
}
