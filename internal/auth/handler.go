package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/httpx"
	"github.com/ayush/rv-checklist/backend/internal/middleware"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// Handler holds auth-related HTTP handlers.
type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register creates a new user and returns a token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := httpx.DecodeJSON(r, &req, false); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	cmd, err := ValidateRegister(req)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}

	token, user, err := h.svc.Register(r.Context(), cmd)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	h.log.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusCreated, h.tokenResponse(token))
}

// Login verifies credentials and returns a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := httpx.DecodeJSON(r, &req, false); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	cmd, err := ValidateLogin(req)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}

	token, _, err := h.svc.Login(r.Context(), cmd)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.tokenResponse(token))
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, h.log, apperr.ErrUnauthenticated)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) tokenResponse(token string) models.TokenResponse {
	return models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.svc.TokenTTL() / time.Second),
	}
}
