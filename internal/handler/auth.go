// Package handler contains the HTTP handlers of the FraudBase API.
//
// Handlers decode the request, call one service and write JSON. Errors go
// through ErrorResponse so every failure has the same shape:
//
//	{"error": {"code": "not_found", "message": "..."}}
//
// Authentication and rate limiting are applied by the caller through the
// middleware funcs passed to each RegisterRoutes.
package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/service"
)

// AuthHandler handles login.
type AuthHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the public auth routes. limit wraps the login
// endpoint (per-IP attempt limiter).
//
// Routes:
// - POST /api/login -> Login
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, limit func(http.Handler) http.Handler) {
	mux.Handle("POST /api/login", limit(http.HandlerFunc(h.Login)))
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// =============================================================================
// POST /api/login
// =============================================================================

// Login exchanges credentials for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Login"

	var req LoginRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "Usuário e senha são obrigatórios"))
		return
	}

	result, err := h.userService.Login(r.Context(), username, req.Password)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
