package game

import (
	"context"

	"github.com/google/uuid"
)

// Store is pure I/O over the fixture list.
type Store interface {
	Create(ctx context.Context, g Game) error
	FindByID(ctx context.Context, id uuid.UUID) (*Game, error)
	List(ctx context.Context) ([]Game, error)
}
