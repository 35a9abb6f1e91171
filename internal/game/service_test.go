package game

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bolao/internal/poll"
	dErrors "bolao/pkg/domainerrors"
)

type ServiceSuite struct {
	suite.Suite
	store     *InMemoryStore
	pollStore *poll.InMemoryStore
	guesses   *stubGuessFinder
	service   *Service

	userID        uuid.UUID
	pollID        uuid.UUID
	participantID uuid.UUID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// stubGuessFinder returns canned guess views per (game, participant) pair,
// standing in for the adapter wired in main.
type stubGuessFinder struct {
	views map[uuid.UUID]*GuessView
}

func (f *stubGuessFinder) FindView(_ context.Context, gameID, _ uuid.UUID) (*GuessView, error) {
	return f.views[gameID], nil
}

func (s *ServiceSuite) SetupTest() {
	ctx := context.Background()

	s.store = NewInMemoryStore()
	s.pollStore = poll.NewInMemoryStore()
	s.guesses = &stubGuessFinder{views: make(map[uuid.UUID]*GuessView)}

	pollSvc, err := poll.New(s.pollStore)
	s.Require().NoError(err)

	s.service, err = New(s.store, pollSvc, s.guesses)
	s.Require().NoError(err)

	s.userID = uuid.New()
	s.pollID = uuid.New()
	s.participantID = uuid.New()
	s.Require().NoError(s.pollStore.CreatePoll(ctx, poll.Poll{ID: s.pollID, Title: "world-cup", Code: "WCUP26", CreatedAt: time.Now()}))
	s.Require().NoError(s.pollStore.CreateParticipant(ctx, poll.Participant{ID: s.participantID, UserID: s.userID, PollID: s.pollID}))
}

func (s *ServiceSuite) TestListForPollRequiresMembership() {
	_, err := s.service.ListForPoll(context.Background(), uuid.New(), s.pollID)
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestListForPollAnnotatesGuesses() {
	ctx := context.Background()
	base := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

	early := Game{ID: uuid.New(), Date: base, FirstTeamCountryCode: "BR", SecondTeamCountryCode: "AR"}
	late := Game{ID: uuid.New(), Date: base.Add(48 * time.Hour), FirstTeamCountryCode: "FR", SecondTeamCountryCode: "DE"}
	s.Require().NoError(s.store.Create(ctx, early))
	s.Require().NoError(s.store.Create(ctx, late))

	s.guesses.views[early.ID] = &GuessView{FirstTeamPoints: 2, SecondTeamPoints: 1}

	games, err := s.service.ListForPoll(ctx, s.userID, s.pollID)
	s.Require().NoError(err)
	s.Require().Len(games, 2)

	// Newest first.
	s.Equal(late.ID, games[0].ID)
	s.Nil(games[0].Guess)
	s.Equal(early.ID, games[1].ID)
	s.Require().NotNil(games[1].Guess)
	s.Equal(2, games[1].Guess.FirstTeamPoints)
}

func (s *ServiceSuite) TestListForPollEmptySchedule() {
	games, err := s.service.ListForPoll(context.Background(), s.userID, s.pollID)
	s.Require().NoError(err)
	s.Empty(games)
}
