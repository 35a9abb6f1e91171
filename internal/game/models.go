package game

import (
	"time"

	"github.com/google/uuid"
)

// Game is a scheduled match between two teams. Games are global; polls share
// the fixture list and differ only in who guesses. A game whose date has
// passed is closed to new guesses.
type Game struct {
	ID                    uuid.UUID `json:"id"`
	Date                  time.Time `json:"date"`
	FirstTeamCountryCode  string    `json:"firstTeamCountryCode"`
	SecondTeamCountryCode string    `json:"secondTeamCountryCode"`
}

// GuessView is the slice of a guess a game listing needs. Keeping it local
// avoids a dependency on the guess package from here.
type GuessView struct {
	FirstTeamPoints  int       `json:"firstTeamPoints"`
	SecondTeamPoints int       `json:"secondTeamPoints"`
	CreatedAt        time.Time `json:"createdAt"`
}

// WithGuess is one game annotated with the requesting participant's guess,
// nil when they have not guessed yet.
type WithGuess struct {
	Game
	Guess *GuessView `json:"guess"`
}
