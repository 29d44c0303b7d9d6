package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/service"
)

// UserHandler handles account administration.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers the account routes.
//
// Routes:
// - GET    /api/users          -> List (admin)
// - POST   /api/users          -> Create (admin)
// - PUT    /api/users          -> Update (admin)
// - PUT    /api/users/password -> ChangePassword (self or admin, checked by the service)
// - GET    /api/users/{id}     -> Get (self or admin)
// - DELETE /api/users/{id}     -> Delete (admin)
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, requireUser, requireAdmin func(http.Handler) http.Handler) {
	mux.Handle("GET /api/users", requireAdmin(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/users", requireAdmin(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/users", requireAdmin(http.HandlerFunc(h.Update)))
	mux.Handle("PUT /api/users/password", requireUser(http.HandlerFunc(h.ChangePassword)))
	mux.Handle("GET /api/users/{id}", requireUser(http.HandlerFunc(h.Get)))
	mux.Handle("DELETE /api/users/{id}", requireAdmin(http.HandlerFunc(h.Delete)))
}

// List returns every account.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns one account. Non-admins may only read their own.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "UserHandler.Get"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	id, err := pathInt64(r, op, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if id != user.ID && !user.IsAdmin {
		ErrorResponse(w, r, h.logger, domain.Forbidden(op, "Acesso negado"))
		return
	}

	found, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// Create registers an account.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "UserHandler.Create"

	var params domain.UserParams
	if err := decodeJSON(w, r, op, &params); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	params.ID = 0

	created, err := h.userService.Create(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update rewrites an account. The ID comes from the body.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "UserHandler.Update"

	var params domain.UserParams
	if err := decodeJSON(w, r, op, &params); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if params.ID <= 0 {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "ID inválido"))
		return
	}

	updated, err := h.userService.Update(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// passwordRequest accepts the legacy "password" field as the new password.
type passwordRequest struct {
	UserID     int64  `json:"userId"`
	SenhaAtual string `json:"senhaAtual"`
	NovaSenha  string `json:"novaSenha"`
	Password   string `json:"password"`
}

// ChangePassword sets a new password. Without userId the caller's own
// account is changed.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	const op = "UserHandler.ChangePassword"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	var req passwordRequest
	if err := decodeJSON(w, r, op, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	params := domain.PasswordChangeParams{
		UserID:      req.UserID,
		SenhaAtual:  req.SenhaAtual,
		NovaSenha:   req.NovaSenha,
		RequesterID: user.ID,
		IsAdmin:     user.IsAdmin,
	}
	if params.UserID == 0 {
		params.UserID = user.ID
	}
	if params.NovaSenha == "" {
		params.NovaSenha = req.Password
	}

	if err := h.userService.ChangePassword(r.Context(), params); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Senha atualizada com sucesso"})
}

// Delete removes an account.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "UserHandler.Delete"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	id, err := pathInt64(r, op, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.userService.Delete(r.Context(), id, user.ID); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
