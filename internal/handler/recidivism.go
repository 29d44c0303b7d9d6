package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/service"
)

// RecidivismHandler serves the recidivism rankings and queues reports.
type RecidivismHandler struct {
	recidivismService service.RecidivismService
	reportService     service.ReportService
	logger            *slog.Logger
}

// NewRecidivismHandler creates a new RecidivismHandler.
func NewRecidivismHandler(
	recidivismService service.RecidivismService,
	reportService service.ReportService,
	logger *slog.Logger,
) *RecidivismHandler {
	return &RecidivismHandler{
		recidivismService: recidivismService,
		reportService:     reportService,
		logger:            logger,
	}
}

// RegisterRoutes registers the recidivism routes.
//
// Routes:
// - GET  /api/reincidencia/cpf                  -> ByCPF
// - GET  /api/reincidencia/telefone             -> ByPhone
// - GET  /api/reincidencia/pix                  -> ByPIX (501)
// - POST /api/reincidencia/cpf/{cpf}/relatorio  -> RequestReport
func (h *RecidivismHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/reincidencia/cpf", requireUser(http.HandlerFunc(h.ByCPF)))
	mux.Handle("GET /api/reincidencia/telefone", requireUser(http.HandlerFunc(h.ByPhone)))
	mux.Handle("GET /api/reincidencia/pix", requireUser(http.HandlerFunc(h.ByPIX)))
	mux.Handle("POST /api/reincidencia/cpf/{cpf}/relatorio", requireUser(http.HandlerFunc(h.RequestReport)))
}

func (h *RecidivismHandler) ByCPF(w http.ResponseWriter, r *http.Request) {
	page, err := h.recidivismService.ByCPF(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *RecidivismHandler) ByPhone(w http.ResponseWriter, r *http.Request) {
	page, err := h.recidivismService.ByPhone(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ByPIX always answers 501 until PIX recidivism is available.
func (h *RecidivismHandler) ByPIX(w http.ResponseWriter, r *http.Request) {
	err := h.recidivismService.ByPIX(r.Context(), queryInt(r, "page"), queryInt(r, "limit"))
	ErrorResponse(w, r, h.logger, err)
}

// reportTicketResponse is returned when a report is queued.
type reportTicketResponse struct {
	JobID    string `json:"jobId"`
	ReportID string `json:"reportId"`
	Status   string `json:"status"`
}

// RequestReport queues a PDF report for one CPF (?estilo=colorido|monocromatico).
// Poll GET /api/relatorios/{reportId} for the result.
func (h *RecidivismHandler) RequestReport(w http.ResponseWriter, r *http.Request) {
	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	style, err := service.ParseReportStyle(r.URL.Query().Get("estilo"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	ticket, err := h.reportService.Request(r.Context(), r.PathValue("cpf"), style, user)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/relatorios/"+ticket.Report.ID.String())
	writeJSON(w, http.StatusAccepted, reportTicketResponse{
		JobID:    ticket.JobID.String(),
		ReportID: ticket.Report.ID.String(),
		Status:   string(ticket.Report.Status),
	})
}
