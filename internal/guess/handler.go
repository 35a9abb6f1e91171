package guess

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bolao/internal/platform/middleware"
	"bolao/internal/transport/http/shared"
	dErrors "bolao/pkg/domainerrors"
)

// Handler handles guess-related endpoints.
type Handler struct {
	service   *Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// NewHandler creates a new guess Handler.
func NewHandler(service *Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{service: service, logger: logger, validator: validator}
}

// Register registers the guess routes with the chi router. The count endpoint
// is public; submission requires a bearer token.
func (h *Handler) Register(r chi.Router) {
	r.Get("/guesses/count", h.handleCount)
	r.With(middleware.RequireAuth(h.validator, h.logger)).
		Post("/polls/{pollId}/games/{gameId}/guesses", h.handleCreate)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
		return
	}

	// Shape checks happen before any store read; a malformed path or body
	// never reaches the guard sequence.
	pollID, err := uuid.Parse(chi.URLParam(r, "pollId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid poll id"))
		return
	}
	gameID, err := uuid.Parse(chi.URLParam(r, "gameId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid game id"))
		return
	}

	var req CreateGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	err = h.service.Submit(r.Context(), SubmitInput{
		UserID:           userID,
		PollID:           pollID,
		GameID:           gameID,
		FirstTeamPoints:  *req.FirstTeamPoints,
		SecondTeamPoints: *req.SecondTeamPoints,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(r.Context(), "guess submission failed",
				"error", err,
				"request_id", middleware.GetRequestID(r.Context()),
			)
		}
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "count guesses failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}
