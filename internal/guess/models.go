package guess

import (
	"time"

	"github.com/google/uuid"

	dErrors "bolao/pkg/domainerrors"
)

// Guess is one participant's score prediction for one game. The pair
// (GameID, ParticipantID) is unique; guesses are created exactly once and
// never updated or deleted here.
type Guess struct {
	ID               uuid.UUID `json:"id"`
	GameID           uuid.UUID `json:"gameId"`
	ParticipantID    uuid.UUID `json:"participantId"`
	FirstTeamPoints  int       `json:"firstTeamPoints"`
	SecondTeamPoints int       `json:"secondTeamPoints"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateGuessRequest is the body of POST /polls/{pollId}/games/{gameId}/guesses.
// Pointer fields distinguish an absent field from a legitimate zero score.
type CreateGuessRequest struct {
	FirstTeamPoints  *int `json:"firstTeamPoints"`
	SecondTeamPoints *int `json:"secondTeamPoints"`
}

// Validate checks presence only; any numeric score is accepted.
func (r *CreateGuessRequest) Validate() error {
	if r.FirstTeamPoints == nil || r.SecondTeamPoints == nil {
		return dErrors.New(dErrors.CodeBadRequest, "firstTeamPoints and secondTeamPoints are required")
	}
	return nil
}
