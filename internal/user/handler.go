package user

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"bolao/internal/jwttoken"
	"bolao/internal/platform/middleware"
	"bolao/internal/transport/http/shared"
	dErrors "bolao/pkg/domainerrors"
)

// Handler handles user and sign-in endpoints.
type Handler struct {
	service  *Service
	tokens   *jwttoken.Service
	tokenTTL time.Duration
	logger   *slog.Logger
}

// NewHandler creates a new user Handler.
func NewHandler(service *Service, tokens *jwttoken.Service, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, tokenTTL: tokenTTL, logger: logger}
}

// Register registers the user routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/users", h.handleSignIn)
	r.Get("/users/count", h.handleCount)
	r.With(middleware.RequireAuth(h.tokens, h.logger)).Get("/me", h.handleMe)
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	u, err := h.service.SignIn(r.Context(), req.AccessToken, r.UserAgent())
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(r, "sign in failed", err)
		}
		shared.WriteError(w, err)
		return
	}

	token, err := h.tokens.GenerateAccessToken(u.ID, u.Name, u.AvatarURL, h.tokenTTL)
	if err != nil {
		h.logError(r, "token generation failed", err)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign token"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(middleware.GetUserID(r.Context()))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token subject"))
		return
	}

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logError(r, "lookup user failed", err)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.Count(r.Context())
	if err != nil {
		h.logError(r, "count users failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	h.logger.ErrorContext(r.Context(), msg,
		"error", err,
		"request_id", middleware.GetRequestID(r.Context()),
	)
}
