package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/service"
)

// PersonHandler handles registration, search and detail of person records.
type PersonHandler struct {
	personService service.PersonService
	logger        *slog.Logger
}

// NewPersonHandler creates a new PersonHandler.
func NewPersonHandler(personService service.PersonService, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{
		personService: personService,
		logger:        logger,
	}
}

// RegisterRoutes registers the person routes. All require a user.
//
// Routes:
// - POST /api/envolvidos               -> Create
// - GET  /api/consulta-envolvidos      -> Search
// - GET  /api/consulta-envolvidos/{id} -> Get
func (h *PersonHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("POST /api/envolvidos", requireUser(http.HandlerFunc(h.Create)))
	mux.Handle("GET /api/consulta-envolvidos", requireUser(http.HandlerFunc(h.Search)))
	mux.Handle("GET /api/consulta-envolvidos/{id}", requireUser(http.HandlerFunc(h.Get)))
}

// Search returns one page of matching records.
//
// Query: nome, cpf, bo, telefone, page (default 1), limit (default 50, max 100).
func (h *PersonHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := domain.SearchParams{
		Nome:     q.Get("nome"),
		CPF:      q.Get("cpf"),
		BO:       q.Get("bo"),
		Telefone: q.Get("telefone"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}

	page, err := h.personService.Search(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get returns one record.
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "PersonHandler.Get"

	id, err := pathInt64(r, op, "id")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	p, err := h.personService.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create registers a record.
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "PersonHandler.Create"

	var p domain.Person
	if err := decodeJSON(w, r, op, &p); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	p.ID = 0

	created, err := h.personService.Create(r.Context(), p)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
