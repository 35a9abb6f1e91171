package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bolao/internal/poll"
	dErrors "bolao/pkg/domainerrors"
)

// GuessFinder looks up the caller's guess for one game. The guess store
// satisfies it through a small adapter wired in main.
type GuessFinder interface {
	FindView(ctx context.Context, gameID, participantID uuid.UUID) (*GuessView, error)
}

// MembershipChecker resolves the caller's participant record in a poll.
type MembershipChecker interface {
	Membership(ctx context.Context, userID, pollID uuid.UUID) (*poll.Participant, error)
}

// Service lists the fixture schedule annotated per participant.
type Service struct {
	store      Store
	membership MembershipChecker
	guesses    GuessFinder
}

func New(store Store, membership MembershipChecker, guesses GuessFinder) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("game store is required")
	}
	if membership == nil {
		return nil, fmt.Errorf("membership checker is required")
	}
	if guesses == nil {
		return nil, fmt.Errorf("guess finder is required")
	}
	return &Service{store: store, membership: membership, guesses: guesses}, nil
}

// ListForPoll returns all games, newest first, each annotated with the guess
// the requesting user's participant submitted in this poll. Non-members are
// rejected so guesses never leak across polls.
func (s *Service) ListForPoll(ctx context.Context, userID, pollID uuid.UUID) ([]WithGuess, error) {
	participant, err := s.membership.Membership(ctx, userID, pollID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up participant")
	}
	if participant == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "You are not a participant of this poll")
	}

	games, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list games")
	}

	out := make([]WithGuess, 0, len(games))
	for _, g := range games {
		view, err := s.guesses.FindView(ctx, g.ID, participant.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up guess")
		}
		out = append(out, WithGuess{Game: g, Guess: view})
	}
	return out, nil
}
