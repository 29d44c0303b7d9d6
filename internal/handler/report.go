package handler

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/service"
)

// ReportHandler serves generated recidivism reports.
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers report routes on the provided ServeMux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux, requireUser func(http.Handler) http.Handler) {
	mux.Handle("GET /api/relatorios/{id}", requireUser(http.HandlerFunc(h.Download)))
}

// Download streams a completed report as a PDF attachment. While the job
// is pending the report record is returned with 202; a failed report is
// returned as JSON with 200 and its error message.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "ReportHandler.Download"

	user := auth.GetUserFromRequest(r)
	if user == nil {
		UnauthorizedResponse(w, r, h.logger)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "ID de relatório inválido"))
		return
	}

	report, rc, err := h.reportService.Open(r.Context(), id, user)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if rc == nil {
		status := http.StatusOK
		if report.Status == domain.ReportStatusPending {
			status = http.StatusAccepted
		}
		writeJSON(w, status, report)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", domain.ReportContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName()+`"`)
	if report.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(report.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Warn("report download interrupted", "report_id", id, "error", err)
	}
}
