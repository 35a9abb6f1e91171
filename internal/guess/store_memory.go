package guess

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type pairKey struct {
	gameID        uuid.UUID
	participantID uuid.UUID
}

// InMemoryStore keeps guesses in a map keyed by (game, participant), which
// gives it the same uniqueness semantics as the postgres unique index.
type InMemoryStore struct {
	mu      sync.RWMutex
	guesses map[pairKey]Guess
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{guesses: make(map[pairKey]Guess)}
}

func (s *InMemoryStore) Create(_ context.Context, g Guess) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{gameID: g.GameID, participantID: g.ParticipantID}
	if _, exists := s.guesses[key]; exists {
		return ErrDuplicate
	}
	s.guesses[key] = g
	return nil
}

func (s *InMemoryStore) FindByGameAndParticipant(_ context.Context, gameID, participantID uuid.UUID) (*Guess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.guesses[pairKey{gameID: gameID, participantID: participantID}]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.guesses)), nil
}
