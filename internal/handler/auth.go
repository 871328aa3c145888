package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sehyaatri/sehyaatri/internal/apperror"
	"github.com/sehyaatri/sehyaatri/internal/metrics"
	"github.com/sehyaatri/sehyaatri/internal/service"
)

// Authenticator is the slice of service.AccountService the handler needs.
type Authenticator interface {
	Signup(ctx context.Context, email, password, name string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// AuthHandler serves signup and login.
//
//   - HandleSignup → POST /api/auth/signup
//   - HandleLogin  → POST /api/auth/login
//
// Both respond {"token": "<jwt>"} on success. Tokens travel in the response
// body only; no cookies are set.
type AuthHandler struct {
	accounts Authenticator
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewAuthHandler(accounts Authenticator, m *metrics.Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		metrics:  m,
		logger:   logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.accounts.Signup(r.Context(), req.Email, req.Password, req.Name)
	h.respond(w, metrics.MethodSignup, res, err)
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	h.respond(w, metrics.MethodLogin, res, err)
}

func (h *AuthHandler) respond(w http.ResponseWriter, method string, res *service.AuthResult, err error) {
	if err != nil {
		h.metrics.AuthFailures.WithLabelValues(method).Inc()
		if !errors.Is(err, apperror.ErrValidation) &&
			!errors.Is(err, apperror.ErrConflict) &&
			!errors.Is(err, apperror.ErrUnauthorized) {
			h.logger.Error(method+" failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	h.metrics.AuthSuccesses.WithLabelValues(method).Inc()
	h.metrics.TokenGenerations.WithLabelValues(method).Inc()
	writeJSON(w, http.StatusOK, tokenResponse{Token: res.Token})
}
