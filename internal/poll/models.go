package poll

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "bolao/pkg/domainerrors"
)

// Poll is a prediction context shared by games and participants. OwnerID is
// nil for polls created anonymously until the first participant joins.
type Poll struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Code      string     `json:"code"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Participant is a user's membership record within one poll. The pair
// (UserID, PollID) is unique; a user participates in a given poll at most
// once.
type Participant struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	PollID uuid.UUID `json:"pollId"`
}

// Summary is a poll as listed for a participant, carrying the membership
// count so clients can render it without extra calls.
type Summary struct {
	Poll
	ParticipantCount int64 `json:"participantCount"`
}

// CreatePollRequest is the body of POST /polls.
type CreatePollRequest struct {
	Title string `json:"title"`
}

func (r *CreatePollRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	return nil
}

// JoinPollRequest is the body of POST /polls/join.
type JoinPollRequest struct {
	Code string `json:"code"`
}

func (r *JoinPollRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return dErrors.New(dErrors.CodeBadRequest, "code is required")
	}
	return nil
}
