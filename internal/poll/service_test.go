package poll

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "bolao/pkg/domainerrors"
)

type ServiceSuite struct {
	suite.Suite
	store   *InMemoryStore
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = NewInMemoryStore()

	var err error
	s.service, err = New(s.store)
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestCreateWithOwner() {
	ctx := context.Background()
	owner := uuid.New()

	p, err := s.service.Create(ctx, "world-cup", &owner)
	s.Require().NoError(err)
	s.Len(p.Code, codeLength)
	s.Require().NotNil(p.OwnerID)
	s.Equal(owner, *p.OwnerID)

	// The creator is enrolled as the first participant.
	participant, err := s.store.FindParticipantByUserAndPoll(ctx, owner, p.ID)
	s.Require().NoError(err)
	s.NotNil(participant)
}

func (s *ServiceSuite) TestCreateAnonymous() {
	p, err := s.service.Create(context.Background(), "office pool", nil)
	s.Require().NoError(err)
	s.Nil(p.OwnerID)
}

func (s *ServiceSuite) TestJoin() {
	ctx := context.Background()

	p, err := s.service.Create(ctx, "office pool", nil)
	s.Require().NoError(err)

	s.Run("unknown code is rejected", func() {
		err := s.service.Join(ctx, "NOPE99", uuid.New())
		s.Require().Error(err)
		s.Equal("Poll not found.", err.Error())
	})

	s.Run("first joiner adopts an ownerless poll", func() {
		userID := uuid.New()
		s.Require().NoError(s.service.Join(ctx, p.Code, userID))

		adopted, err := s.store.FindPollByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Require().NotNil(adopted.OwnerID)
		s.Equal(userID, *adopted.OwnerID)
	})

	s.Run("joining twice is rejected", func() {
		userID := uuid.New()
		s.Require().NoError(s.service.Join(ctx, p.Code, userID))

		err := s.service.Join(ctx, p.Code, userID)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
		s.Equal("You already joined this poll.", err.Error())
	})

	s.Run("second joiner does not steal ownership", func() {
		userID := uuid.New()
		s.Require().NoError(s.service.Join(ctx, p.Code, userID))

		current, err := s.store.FindPollByID(ctx, p.ID)
		s.Require().NoError(err)
		s.Require().NotNil(current.OwnerID)
		s.NotEqual(userID, *current.OwnerID)
	})
}

func (s *ServiceSuite) TestListForUser() {
	ctx := context.Background()
	userID := uuid.New()

	mine, err := s.service.Create(ctx, "mine", &userID)
	s.Require().NoError(err)

	other := uuid.New()
	_, err = s.service.Create(ctx, "theirs", &other)
	s.Require().NoError(err)

	s.Require().NoError(s.service.Join(ctx, mine.Code, other))

	polls, err := s.service.ListForUser(ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(polls, 1)
	s.Equal("mine", polls[0].Title)
	s.Equal(int64(2), polls[0].ParticipantCount)
}

func (s *ServiceSuite) TestGet() {
	ctx := context.Background()

	p, err := s.service.Create(ctx, "world-cup", nil)
	s.Require().NoError(err)

	got, err := s.service.Get(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)

	_, err = s.service.Get(ctx, uuid.New())
	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCount() {
	ctx := context.Background()

	count, err := s.service.Count(ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	_, err = s.service.Create(ctx, "one", nil)
	s.Require().NoError(err)
	_, err = s.service.Create(ctx, "two", nil)
	s.Require().NoError(err)

	count, err = s.service.Count(ctx)
	s.Require().NoError(err)
	s.Equal(int64(2), count)
}

func (s *ServiceSuite) TestGeneratedCodesAreDistinct() {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		s.Require().NoError(err)
		s.Len(code, codeLength)
		s.False(seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
