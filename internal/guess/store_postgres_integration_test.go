//go:build integration

package guess

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolao/internal/game"
	"bolao/internal/platform/database"
	"bolao/internal/poll"
	"bolao/internal/user"
	"bolao/pkg/testutil/containers"
)

// TestPostgresStore runs the guess store against a real Postgres instance.
// The duplicate case matters most: the unique index on
// (game_id, participant_id) is the authoritative enforcement point for the
// one-guess-per-game invariant, and the store must surface it as ErrDuplicate.
func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	ctx := context.Background()
	require.NoError(t, database.EnsureSchema(ctx, pg.DB))

	// Seed the referenced rows through the sibling stores.
	u := user.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", GoogleID: "google-1", CreatedAt: time.Now()}
	require.NoError(t, user.NewPostgres(pg.DB).Create(ctx, u))

	pollStore := poll.NewPostgres(pg.DB)
	p := poll.Poll{ID: uuid.New(), Title: "world-cup", Code: "WCUP26", CreatedAt: time.Now()}
	require.NoError(t, pollStore.CreatePoll(ctx, p))
	participant := poll.Participant{ID: uuid.New(), UserID: u.ID, PollID: p.ID}
	require.NoError(t, pollStore.CreateParticipant(ctx, participant))

	g := game.Game{
		ID:                    uuid.New(),
		Date:                  time.Now().Add(24 * time.Hour),
		FirstTeamCountryCode:  "BR",
		SecondTeamCountryCode: "AR",
	}
	require.NoError(t, game.NewPostgres(pg.DB).Create(ctx, g))

	store := NewPostgres(pg.DB)

	guess := Guess{
		ID:               uuid.New(),
		GameID:           g.ID,
		ParticipantID:    participant.ID,
		FirstTeamPoints:  2,
		SecondTeamPoints: 1,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, store.Create(ctx, guess))

	t.Run("DuplicatePairIsRejected", func(t *testing.T) {
		dup := guess
		dup.ID = uuid.New()
		err := store.Create(ctx, dup)
		require.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("FindByGameAndParticipant", func(t *testing.T) {
		found, err := store.FindByGameAndParticipant(ctx, g.ID, participant.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, guess.ID, found.ID)
		assert.Equal(t, 2, found.FirstTeamPoints)
		assert.Equal(t, 1, found.SecondTeamPoints)
	})

	t.Run("FindMissingReturnsNil", func(t *testing.T) {
		found, err := store.FindByGameAndParticipant(ctx, uuid.New(), participant.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Count", func(t *testing.T) {
		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
