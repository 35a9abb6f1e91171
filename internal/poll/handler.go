package poll

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

// Handler handles poll-related endpoints.
type Handler struct {
	service   *Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

// NewHandler creates a new poll Handler.
func NewHandler(service *Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{service: service, logger: logger, validator: validator}
}

// Register registers the poll routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/polls/count", h.handleCount)
	r.With(middleware.OptionalAuth(h.validator)).Post("/polls", h.handleCreate)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/polls/join", h.handleJoin)
		r.Get("/polls", h.handleList)
		r.Get("/polls/{pollId}", h.handleGet)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	var creatorID *uuid.UUID
	if sub := middleware.GetUserID(r.Context()); sub != "" {
		id, err := uuid.Parse(sub)
		if err != nil {
			shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
			return
		}
		creatorID = &id
	}

	p, err := h.service.Create(r.Context(), req.Title, creatorID)
	if err != nil {
		h.logError(r, "create poll failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]string{"code": p.Code})
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req JoinPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Join(r.Context(), req.Code, userID); err != nil {
		h.logError(r, "join poll failed", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := subjectID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	polls, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		h.logError(r, "list polls failed", err)
		shared.WriteError(w, err)
		return
	}
	if polls == nil {
		polls = []Summary{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"polls": polls})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "pollId"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid poll id"))
		return
	}

	p, err := h.service.Get(r.Context(), pollID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"poll": p})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		h.logError(r, "count polls failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// logError records infrastructure failures; business rejections already carry
// their message to the client and are not errors from the server's view.
func (h *Handler) logError(r *http.Request, msg string, err error) {
	if !dErrors.Is(err, dErrors.CodeInternal) {
		return
	}
	h.logger.ErrorContext(r.Context(), msg,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
}

// subjectID parses the authenticated subject set by RequireAuth.
func subjectID(r *http.Request) (uuid.UUID, error) {
	sub := middleware.GetUserID(r.Context())
	if sub == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject")
	}
	return id, nil
}
