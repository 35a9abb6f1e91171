package poll

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bolao/internal/platform/cache"
	"bolao/internal/platform/metrics"
	"bolao/pkg/audit"
	dErrors "bolao/pkg/domainerrors"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Service owns poll creation and membership rules on top of a pure-I/O store.
type Service struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	count     *cache.Count
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func WithCountCache(count *cache.Count) Option {
	return func(s *Service) { s.count = count }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("poll store is required")
	}
	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create registers a new poll with a generated join code. When the creator is
// authenticated they become the owner and the first participant; anonymous
// polls stay ownerless until the first join.
func (s *Service) Create(ctx context.Context, title string, creatorID *uuid.UUID) (*Poll, error) {
	code, err := generateCode()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate poll code")
	}

	p := Poll{
		ID:        uuid.New(),
		Title:     title,
		Code:      code,
		OwnerID:   creatorID,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreatePoll(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create poll")
	}

	if creatorID != nil {
		participant := Participant{ID: uuid.New(), UserID: *creatorID, PollID: p.ID}
		if err := s.store.CreateParticipant(ctx, participant); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enroll poll creator")
		}
	}

	if s.metrics != nil {
		s.metrics.IncrementPollsCreated()
	}
	if s.count != nil {
		s.count.Invalidate(ctx)
	}
	var actor string
	if creatorID != nil {
		actor = creatorID.String()
	}
	audit.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:  audit.ActionPollCreated,
		UserID:  actor,
		Subject: p.ID.String(),
	})
	return &p, nil
}

// Join enrolls a user into the poll with the given code. The first joiner of
// an ownerless poll adopts it.
func (s *Service) Join(ctx context.Context, code string, userID uuid.UUID) error {
	p, err := s.store.FindPollByCode(ctx, code)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up poll")
	}
	if p == nil {
		return dErrors.New(dErrors.CodeBadRequest, "Poll not found.")
	}

	existing, err := s.store.FindParticipantByUserAndPoll(ctx, userID, p.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up participant")
	}
	if existing != nil {
		return dErrors.New(dErrors.CodeBadRequest, "You already joined this poll.")
	}

	if p.OwnerID == nil {
		if err := s.store.SetPollOwner(ctx, p.ID, userID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set poll owner")
		}
	}

	participant := Participant{ID: uuid.New(), UserID: userID, PollID: p.ID}
	if err := s.store.CreateParticipant(ctx, participant); err != nil {
		// The unique index is the authoritative duplicate check under
		// concurrent joins.
		if dErrors.Is(err, dErrors.CodeConflict) {
			return dErrors.New(dErrors.CodeBadRequest, "You already joined this poll.")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create participant")
	}

	audit.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:  audit.ActionPollJoined,
		UserID:  userID.String(),
		Subject: p.ID.String(),
	})
	return nil
}

// ListForUser returns the polls the user participates in.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Summary, error) {
	polls, err := s.store.ListPollsByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list polls")
	}
	return polls, nil
}

// Get returns one poll by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Poll, error) {
	p, err := s.store.FindPollByID(ctx, id)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up poll")
	}
	if p == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "Poll not found.")
	}
	return p, nil
}

// Count reports the total number of polls.
func (s *Service) Count(ctx context.Context) (int64, error) {
	if s.count != nil {
		return s.count.Get(ctx)
	}
	return s.store.CountPolls(ctx)
}

// Membership exposes the participant lookup to collaborating services.
func (s *Service) Membership(ctx context.Context, userID, pollID uuid.UUID) (*Participant, error) {
	return s.store.FindParticipantByUserAndPoll(ctx, userID, pollID)
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
