package guess

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"bolao/internal/game"
	"bolao/internal/jwttoken"
	"bolao/internal/poll"
	"bolao/pkg/testutil"
)

// Handler tests validate HTTP concerns: auth, parsing, status codes, and the
// error envelope. They run the real middleware chain and real in-memory
// stores.

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	tokens *jwttoken.Service

	pollStore  *poll.InMemoryStore
	gameStore  *game.InMemoryStore
	guessStore *InMemoryStore

	userID uuid.UUID
	pollID uuid.UUID
	gameID uuid.UUID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	s.pollStore = poll.NewInMemoryStore()
	s.gameStore = game.NewInMemoryStore()
	s.guessStore = NewInMemoryStore()
	s.tokens = jwttoken.New("test-signing-key", "bolao")

	pollSvc, err := poll.New(s.pollStore)
	s.Require().NoError(err)

	svc, err := New(pollSvc, s.gameStore, s.guessStore)
	s.Require().NoError(err)

	r := chi.NewRouter()
	NewHandler(svc, logger, s.tokens).Register(r)
	s.router = r

	// Participant P joined poll "world-cup"; game G is dated tomorrow.
	s.userID = uuid.New()
	s.pollID = uuid.New()
	s.gameID = uuid.New()
	s.Require().NoError(s.pollStore.CreatePoll(ctx, poll.Poll{ID: s.pollID, Title: "world-cup", Code: "WCUP26", CreatedAt: time.Now()}))
	s.Require().NoError(s.pollStore.CreateParticipant(ctx, poll.Participant{ID: uuid.New(), UserID: s.userID, PollID: s.pollID}))
	s.Require().NoError(s.gameStore.Create(ctx, game.Game{
		ID: s.gameID, Date: time.Now().Add(24 * time.Hour),
		FirstTeamCountryCode: "BR", SecondTeamCountryCode: "AR",
	}))
}

func (s *HandlerSuite) bearerFor(userID uuid.UUID) string {
	token, err := s.tokens.GenerateAccessToken(userID, "John Doe", "", time.Hour)
	s.Require().NoError(err)
	return "Bearer " + token
}

func (s *HandlerSuite) guessPath() string {
	return "/polls/" + s.pollID.String() + "/games/" + s.gameID.String() + "/guesses"
}

func (s *HandlerSuite) TestCreateGuessScenario() {
	body := map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1}

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(), body)
	req.Header.Set("Authorization", s.bearerFor(s.userID))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	s.Empty(rr.Body.String(), "success has no response body")

	// Repeating the identical call now fails with the duplicate rejection.
	req = testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(), body)
	req.Header.Set("Authorization", s.bearerFor(s.userID))
	rr = testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	testutil.AssertMessage(s.T(), rr, "You already sent a guess a guess for this poll")
}

func (s *HandlerSuite) TestCreateGuessAcceptsAnyNumericPoints() {
	// The body contract requires numeric fields, nothing more; sign is not
	// validated.
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(),
		map[string]int{"firstTeamPoints": -1, "secondTeamPoints": 2})
	req.Header.Set("Authorization", s.bearerFor(s.userID))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)

	count, err := s.guessStore.Count(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

func (s *HandlerSuite) TestCreateGuessRequiresAuth() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(),
		map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)

	count, err := s.guessStore.Count(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(0), count)
}

func (s *HandlerSuite) TestCreateGuessRejectsExpiredToken() {
	expired, err := s.tokens.GenerateAccessToken(s.userID, "John Doe", "", -time.Minute)
	s.Require().NoError(err)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(),
		map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1})
	req.Header.Set("Authorization", "Bearer "+expired)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusUnauthorized)
}

func (s *HandlerSuite) TestCreateGuessShapeErrors() {
	s.Run("non-numeric points", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, s.guessPath(),
			`{"firstTeamPoints":"two","secondTeamPoints":1}`)
		req.Header.Set("Authorization", s.bearerFor(s.userID))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("missing points", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(),
			map[string]int{"firstTeamPoints": 2})
		req.Header.Set("Authorization", s.bearerFor(s.userID))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("malformed game id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost,
			"/polls/"+s.pollID.String()+"/games/not-a-uuid/guesses",
			map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1})
		req.Header.Set("Authorization", s.bearerFor(s.userID))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	// Shape failures never reach the stores.
	count, err := s.guessStore.Count(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(0), count)
}

func (s *HandlerSuite) TestCreateGuessBusinessRejections() {
	s.Run("not a participant", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(),
			map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1})
		req.Header.Set("Authorization", s.bearerFor(uuid.New()))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertMessage(s.T(), rr, "You are not allowed to create a guess inside this poll")
	})

	s.Run("unknown game", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost,
			"/polls/"+s.pollID.String()+"/games/"+uuid.NewString()+"/guesses",
			map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1})
		req.Header.Set("Authorization", s.bearerFor(s.userID))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertMessage(s.T(), rr, "Game not found")
	})

	s.Run("game already started", func() {
		startedGame := uuid.New()
		s.Require().NoError(s.gameStore.Create(context.Background(), game.Game{
			ID: startedGame, Date: time.Now().Add(-time.Hour),
		}))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost,
			"/polls/"+s.pollID.String()+"/games/"+startedGame.String()+"/guesses",
			map[string]int{"firstTeamPoints": 2, "secondTeamPoints": 1})
		req.Header.Set("Authorization", s.bearerFor(s.userID))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		testutil.AssertMessage(s.T(), rr, "Game already started")
	})
}

func (s *HandlerSuite) TestCountEndpoint() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/guesses/count"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[map[string]int64](s.T(), rr)
	s.Equal(int64(0), (*resp)["count"])

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, s.guessPath(),
		map[string]int{"firstTeamPoints": 3, "secondTeamPoints": 0})
	req.Header.Set("Authorization", s.bearerFor(s.userID))
	testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusCreated)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/guesses/count"))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp = testutil.UnmarshalResponse[map[string]int64](s.T(), rr)
	s.Equal(int64(1), (*resp)["count"])
}
