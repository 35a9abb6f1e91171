package game

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps the fixture list in a map.
type InMemoryStore struct {
	mu    sync.RWMutex
	games map[uuid.UUID]Game
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{games: make(map[uuid.UUID]Game)}
}

func (s *InMemoryStore) Create(_ context.Context, g Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.games[id]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}
