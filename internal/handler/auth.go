package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/taskflow/taskflow-go/internal/middleware"
	"github.com/taskflow/taskflow-go/internal/model"
	"github.com/taskflow/taskflow-go/internal/service"
	"github.com/taskflow/taskflow-go/internal/session"
)

// AuthHandler handles HTTP requests for registration, login, logout, and the
// current-user lookup. Successful register and login both attach a fresh
// session cookie.
type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{service: svc, sessions: sessions}
}

// HandleRegister handles POST /api/v1/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials), errors.Is(err, service.ErrPasswordTooShort):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusConflict, errorResponse(err.Error()))
		default:
			slog.Error("registration failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("failed to create account"))
		}
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		slog.Error("session issue failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to create account"))
		return
	}

	writeJSON(w, http.StatusCreated, model.AuthResponse{User: user})
}

// HandleLogin handles POST /api/v1/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse(err.Error()))
		default:
			slog.Error("login failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse("failed to log in"))
		}
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		slog.Error("session issue failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("failed to log in"))
		return
	}

	writeJSON(w, http.StatusOK, model.AuthResponse{User: user})
}

// HandleLogout handles POST /api/v1/auth/logout requests. Logging out without
// an active session is still a success.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Revoke(w)
	writeJSON(w, http.StatusOK, successResponse())
}

// HandleMe handles GET /api/v1/auth/me requests. Anonymous requests get a
// JSON null body, not an error: absence of identity is a valid state.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}

	user, err := h.service.CurrentUser(r.Context(), userID)
	if err != nil {
		// A valid cookie for a user that no longer exists degrades to
		// anonymous, same as resolution failure.
		writeJSON(w, http.StatusOK, nil)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
