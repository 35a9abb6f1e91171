package poll

import (
	"context"

	"github.com/google/uuid"

	dErrors "bolao/pkg/domainerrors"
)

var (
	// ErrNotFound keeps storage-specific misses consistent across
	// implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "record not found")

	// ErrDuplicateParticipant is returned when the storage-level unique index
	// on (user_id, poll_id) rejects a second membership.
	ErrDuplicateParticipant = dErrors.New(dErrors.CodeConflict, "participant already exists")
)

// Store is pure I/O over polls and participants; membership rules live in the
// service.
type Store interface {
	CreatePoll(ctx context.Context, p Poll) error
	FindPollByID(ctx context.Context, id uuid.UUID) (*Poll, error)
	FindPollByCode(ctx context.Context, code string) (*Poll, error)
	SetPollOwner(ctx context.Context, pollID, ownerID uuid.UUID) error
	CountPolls(ctx context.Context) (int64, error)
	ListPollsByUser(ctx context.Context, userID uuid.UUID) ([]Summary, error)

	CreateParticipant(ctx context.Context, p Participant) error
	FindParticipantByUserAndPoll(ctx context.Context, userID, pollID uuid.UUID) (*Participant, error)
}
