package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/service"
)

// LookupHandler serves the auxiliary lists used by the registration form.
type LookupHandler struct {
	lookupService service.LookupService
	logger        *slog.Logger
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookupService service.LookupService, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		lookupService: lookupService,
		logger:        logger,
	}
}

// RegisterRoutes registers the lookup routes.
func (h *LookupHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/municipios", requireUser(http.HandlerFunc(h.Municipios)))
	mux.Handle("GET /api/ufs", requireUser(http.HandlerFunc(h.UFs)))
	mux.Handle("GET /api/paises", requireUser(http.HandlerFunc(h.Paises)))
	mux.Handle("GET /api/delegacias", requireUser(http.HandlerFunc(h.Delegacias)))
	mux.Handle("GET /api/bancos", requireUser(http.HandlerFunc(h.Bancos)))
}

// Municipios lists cities, optionally of one state (?uf=DF).
func (h *LookupHandler) Municipios(w http.ResponseWriter, r *http.Request) {
	uf := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("uf")))
	items, err := h.lookupService.Municipios(r.Context(), uf)
	respondList(w, r, h.logger, items, err)
}

func (h *LookupHandler) UFs(w http.ResponseWriter, r *http.Request) {
	items, err := h.lookupService.UFs(r.Context())
	respondList(w, r, h.logger, items, err)
}

func (h *LookupHandler) Paises(w http.ResponseWriter, r *http.Request) {
	items, err := h.lookupService.Paises(r.Context())
	respondList(w, r, h.logger, items, err)
}

func (h *LookupHandler) Delegacias(w http.ResponseWriter, r *http.Request) {
	items, err := h.lookupService.Delegacias(r.Context())
	respondList(w, r, h.logger, items, err)
}

func (h *LookupHandler) Bancos(w http.ResponseWriter, r *http.Request) {
	items, err := h.lookupService.Bancos(r.Context())
	respondList(w, r, h.logger, items, err)
}

// respondList writes a list, encoding nil as [].
func respondList[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, items []T, err error) {
	if err != nil {
		ErrorResponse(w, r, logger, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}
