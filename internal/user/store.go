package user

import (
	"context"

	"github.com/google/uuid"

	dErrors "bolao/pkg/domainerrors"
)

// ErrNotFound keeps storage-specific misses consistent across
// implementations.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

// Store is pure I/O over users.
type Store interface {
	Create(ctx context.Context, u User) error
	Update(ctx context.Context, u User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	Count(ctx context.Context) (int64, error)
}
