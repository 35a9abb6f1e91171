package poll

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps polls and participants in maps. It favors clarity over
// performance and backs unit tests as well as database-less development runs.
type InMemoryStore struct {
	mu           sync.RWMutex
	polls        map[uuid.UUID]Poll
	participants map[uuid.UUID]Participant
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		polls:        make(map[uuid.UUID]Poll),
		participants: make(map[uuid.UUID]Participant),
	}
}

func (s *InMemoryStore) CreatePoll(_ context.Context, p Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls[p.ID] = p
	return nil
}

func (s *InMemoryStore) FindPollByID(_ context.Context, id uuid.UUID) (*Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.polls[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *InMemoryStore) FindPollByCode(_ context.Context, code string) (*Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.polls {
		if p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) SetPollOwner(_ context.Context, pollID, ownerID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.polls[pollID]
	if !ok {
		return ErrNotFound
	}
	p.OwnerID = &ownerID
	s.polls[pollID] = p
	return nil
}

func (s *InMemoryStore) CountPolls(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.polls)), nil
}

func (s *InMemoryStore) ListPollsByUser(_ context.Context, userID uuid.UUID) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[uuid.UUID]int64)
	member := make(map[uuid.UUID]bool)
	for _, part := range s.participants {
		counts[part.PollID]++
		if part.UserID == userID {
			member[part.PollID] = true
		}
	}

	var out []Summary
	for id, p := range s.polls {
		if member[id] {
			out = append(out, Summary{Poll: p, ParticipantCount: counts[id]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) CreateParticipant(_ context.Context, p Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.participants {
		if existing.UserID == p.UserID && existing.PollID == p.PollID {
			return ErrDuplicateParticipant
		}
	}
	s.participants[p.ID] = p
	return nil
}

func (s *InMemoryStore) FindParticipantByUserAndPoll(_ context.Context, userID, pollID uuid.UUID) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.participants {
		if p.UserID == userID && p.PollID == pollID {
			return &p, nil
		}
	}
	return nil, nil
}
