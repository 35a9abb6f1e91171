package guess

import (
	"context"

	"github.com/google/uuid"

	dErrors "bolao/pkg/domainerrors"
)

// ErrDuplicate is returned by Create when the storage-level unique index on
// (game_id, participant_id) rejects the insert. The membership and uniqueness
// reads in the service are advisory; this error is the authoritative
// enforcement of the one-guess-per-game-per-participant invariant under
// concurrent submissions.
var ErrDuplicate = dErrors.New(dErrors.CodeConflict, "guess already exists")

// Store is pure I/O over guesses; the guard sequence lives in the service.
type Store interface {
	Create(ctx context.Context, g Guess) error
	FindByGameAndParticipant(ctx context.Context, gameID, participantID uuid.UUID) (*Guess, error)
	Count(ctx context.Context) (int64, error)
}
