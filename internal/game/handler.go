package game

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bolao/internal/platform/middleware"
	"bolao/internal/transport/http/shared"
	dErrors "bolao/pkg/domainerrors"
)

// Handler serves the per-poll game listing.
type Handler struct {
	service   *Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func NewHandler(service *Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{service: service, logger: logger, validator: validator}
}

// Register registers the game routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.With(middleware.RequireAuth(h.validator, h.logger)).
		Get("/polls/{pollId}/games", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
		return
	}

	pollID, err := uuid.Parse(chi.URLParam(r, "pollId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid poll id"))
		return
	}

	games, err := h.service.ListForPoll(r.Context(), userID, pollID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(r.Context(), "list games failed",
				"error", err,
				"request_id", middleware.GetRequestID(r.Context()),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"games": games})
}
