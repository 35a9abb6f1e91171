package guess

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bolao/internal/game"
	"bolao/internal/platform/cache"
	"bolao/internal/platform/metrics"
	"bolao/internal/poll"
	"bolao/pkg/audit"
	dErrors "bolao/pkg/domainerrors"
)

// Rejection messages are part of the API contract; callers distinguish guard
// failures only by this text, so it must not be edited (including the
// duplicated word in the second one, kept for wire compatibility).
const (
	msgNotAllowed   = "You are not allowed to create a guess inside this poll"
	msgDuplicate    = "You already sent a guess a guess for this poll"
	msgGameNotFound = "Game not found"
	msgGameStarted  = "Game already started"
)

// ParticipantFinder resolves the subject's membership in a poll.
type ParticipantFinder interface {
	Membership(ctx context.Context, userID, pollID uuid.UUID) (*poll.Participant, error)
}

// GameFinder resolves a game by ID, nil when absent.
type GameFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*game.Game, error)
}

// SubmitInput carries one validated submission into the guard sequence.
type SubmitInput struct {
	UserID           uuid.UUID
	PollID           uuid.UUID
	GameID           uuid.UUID
	FirstTeamPoints  int
	SecondTeamPoints int
}

// submission is the progressively loaded context the guards run over. Later
// guards rely on what earlier ones loaded, which is why the order is fixed.
type submission struct {
	SubmitInput
	participant *poll.Participant
	game        *game.Game
}

type guard struct {
	name  string
	check func(ctx context.Context, sub *submission) error
}

// Service orchestrates the guess submission guard sequence and the guess
// count. Every check is a fresh read; nothing is cached between requests, so
// the invariants are exactly as strong as the store's unique index.
type Service struct {
	participants ParticipantFinder
	games        GameFinder
	store        Store

	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher audit.Publisher
	count     *cache.Count
	now       func() time.Time
	tracer    trace.Tracer

	guards []guard
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

// WithClock overrides the time source; tests pin it to exercise the
// game-already-started boundary.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(participants ParticipantFinder, games GameFinder, store Store, opts ...Option) (*Service, error) {
	if participants == nil {
		return nil, fmt.Errorf("participant finder is required")
	}
	if games == nil {
		return nil, fmt.Errorf("game finder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("guess store is required")
	}

	svc := &Service{
		participants: participants,
		games:        games,
		store:        store,
		now:          time.Now,
		tracer:       otel.Tracer("bolao/guess"),
	}
	for _, opt := range opts {
		opt(svc)
	}

	// The order is load-bearing: each guard assumes the previous ones passed
	// (uniqueness needs the participant loaded by membership), and the
	// rejection a client sees for a request failing several guards is defined
	// by this sequence.
	svc.guards = []guard{
		{name: "membership", check: svc.checkMembership},
		{name: "uniqueness", check: svc.checkUniqueness},
		{name: "existence", check: svc.checkGameExists},
		{name: "temporal", check: svc.checkGameOpen},
	}
	return svc, nil
}

// Submit runs the guard sequence for one submission and persists the guess
// when every guard passes. Rejections carry the contract message and leave no
// record; repeating a rejected submission unchanged yields the same rejection.
func (s *Service) Submit(ctx context.Context, input SubmitInput) error {
	ctx, span := s.tracer.Start(ctx, "guess.submit",
		trace.WithAttributes(
			attribute.String("poll_id", input.PollID.String()),
			attribute.String("game_id", input.GameID.String()),
		))
	defer span.End()

	sub := &submission{SubmitInput: input}
	for _, g := range s.guards {
		if err := g.check(ctx, sub); err != nil {
			s.reject(ctx, span, g.name, err)
			return err
		}
	}

	newGuess := Guess{
		ID:               uuid.New(),
		GameID:           input.GameID,
		ParticipantID:    sub.participant.ID,
		FirstTeamPoints:  input.FirstTeamPoints,
		SecondTeamPoints: input.SecondTeamPoints,
		CreatedAt:        s.now(),
	}
	if err := s.store.Create(ctx, newGuess); err != nil {
		if dErrors.Is(err, dErrors.CodeConflict) {
			// Two submissions raced past the uniqueness read; the unique
			// index decided, and the loser gets the duplicate rejection.
			dup := dErrors.New(dErrors.CodeBadRequest, msgDuplicate)
			s.reject(ctx, span, "uniqueness", dup)
			return dup
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create guess")
	}

	if s.metrics != nil {
		s.metrics.IncrementGuessesCreated()
	}
	if s.count != nil {
		s.count.Invalidate(ctx)
	}
	audit.LogAudit(ctx, s.logger, s.publisher, audit.Event{
		Action:  audit.ActionGuessCreated,
		UserID:  input.UserID.String(),
		Subject: newGuess.ID.String(),
	})
	return nil
}

// Count reports the total number of guesses across all polls and games.
func (s *Service) Count(ctx context.Context) (int64, error) {
	if s.count != nil {
		return s.count.Get(ctx)
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count guesses")
	}
	return n, nil
}

func (s *Service) checkMembership(ctx context.Context, sub *submission) error {
	participant, err := s.participants.Membership(ctx, sub.UserID, sub.PollID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up participant")
	}
	if participant == nil {
		return dErrors.New(dErrors.CodeBadRequest, msgNotAllowed)
	}
	sub.participant = participant
	return nil
}

func (s *Service) checkUniqueness(ctx context.Context, sub *submission) error {
	existing, err := s.store.FindByGameAndParticipant(ctx, sub.GameID, sub.participant.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up guess")
	}
	if existing != nil {
		return dErrors.New(dErrors.CodeBadRequest, msgDuplicate)
	}
	return nil
}

func (s *Service) checkGameExists(ctx context.Context, sub *submission) error {
	g, err := s.games.FindByID(ctx, sub.GameID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up game")
	}
	if g == nil {
		return dErrors.New(dErrors.CodeBadRequest, msgGameNotFound)
	}
	sub.game = g
	return nil
}

func (s *Service) checkGameOpen(_ context.Context, sub *submission) error {
	// A game is open while its date is strictly in the future; the boundary
	// instant counts as started.
	if !sub.game.Date.After(s.now()) {
		return dErrors.New(dErrors.CodeBadRequest, msgGameStarted)
	}
	return nil
}

func (s *Service) reject(ctx context.Context, span trace.Span, reason string, err error) {
	span.SetAttributes(attribute.String("reject_reason", reason))
	if dErrors.Is(err, dErrors.CodeInternal) {
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		return
	}
	if s.metrics != nil {
		s.metrics.IncrementGuessesRejected(reason)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "guess rejected", "reason", reason)
	}
}

// FindView adapts the store lookup for the game listing.
func (s *Service) FindView(ctx context.Context, gameID, participantID uuid.UUID) (*game.GuessView, error) {
	g, err := s.store.FindByGameAndParticipant(ctx, gameID, participantID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}
	return &game.GuessView{
		FirstTeamPoints:  g.FirstTeamPoints,
		SecondTeamPoints: g.SecondTeamPoints,
		CreatedAt:        g.CreatedAt,
	}, nil
}
