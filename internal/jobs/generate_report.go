package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/metrics"
	"github.com/DukeRupert/fraudbase/internal/report"
	"github.com/DukeRupert/fraudbase/internal/storage"
	"github.com/DukeRupert/fraudbase/internal/worker"
)

// ReportRecorder is the part of service.ReportService the report job needs.
type ReportRecorder interface {
	PrepareReportData(ctx context.Context, cpf string, requestedBy int64) (*domain.ReportData, error)
	Complete(ctx context.Context, id uuid.UUID, key string, size int64) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

// GenerateReportResult is stored in the job's result column.
type GenerateReportResult struct {
	ReportID   uuid.UUID `json:"report_id"`
	StorageKey string    `json:"storage_key"`
	SizeBytes  int64     `json:"size_bytes"`
	Style      string    `json:"style"`
}

// GenerateReportHandler renders a recidivism report for one CPF and stores
// the PDF.
type GenerateReportHandler struct {
	reports    ReportRecorder
	storage    storage.Storage
	generators report.Registry
	logger     *slog.Logger
}

// NewGenerateReportHandler creates a new handler for report generation jobs.
func NewGenerateReportHandler(
	reports ReportRecorder,
	store storage.Storage,
	generators report.Registry,
	logger *slog.Logger,
) *GenerateReportHandler {
	return &GenerateReportHandler{
		reports:    reports,
		storage:    store,
		generators: generators,
		logger:     logger,
	}
}

// Type returns the job type identifier.
func (h *GenerateReportHandler) Type() string {
	return worker.JobTypeGenerateRecidivismReport
}

// Handle executes the report generation job.
func (h *GenerateReportHandler) Handle(ctx context.Context, payload []byte) (any, error) {
	// 1. Unmarshal the payload
	p, err := decodeReportPayload(payload)
	if err != nil {
		return nil, err
	}

	// 2. Validate style
	style := domain.ReportStyle(p.Style)
	gen, err := h.generators.For(style)
	if err != nil {
		return nil, worker.NewPermanentError(err)
	}

	h.logger.Info("Generating report",
		"report_id", p.ReportID,
		"style", style,
		"requested_by", p.RequestedBy,
	)

	// 3. Aggregate the CPF
	data, err := h.reports.PrepareReportData(ctx, p.CPF, p.RequestedBy)
	if err != nil {
		switch domain.ErrorCode(err) {
		case domain.ENOTFOUND, domain.EINVALID:
			return nil, worker.NewPermanentError(fmt.Errorf("prepare report data: %w", err))
		}
		return nil, fmt.Errorf("prepare report data: %w", err)
	}

	// 4. Render to buffer
	var buf bytes.Buffer
	size, err := gen.Generate(ctx, data, &buf)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", style, err)
	}

	// 5. Upload to storage
	key := storage.ReportKey(p.ReportID)
	err = h.storage.Put(ctx, key, &buf, storage.PutOptions{
		ContentType: storage.ContentTypePDF,
		Overwrite:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("upload report to storage: %w", err)
	}

	// 6. Record completion
	if err := h.reports.Complete(ctx, p.ReportID, key, size); err != nil {
		return nil, fmt.Errorf("complete report: %w", err)
	}

	metrics.ReportsGenerated.WithLabelValues(string(style)).Inc()

	h.logger.Info("Report generation completed",
		"report_id", p.ReportID,
		"storage_key", key,
		"size_bytes", size,
		"bo_count", len(data.BOs),
	)

	return GenerateReportResult{
		ReportID:   p.ReportID,
		StorageKey: key,
		SizeBytes:  size,
		Style:      string(style),
	}, nil
}

// OnFinalFailure marks the report failed once the job will not run again.
func (h *GenerateReportHandler) OnFinalFailure(ctx context.Context, payload []byte, jobErr error) error {
	p, err := decodeReportPayload(payload)
	if err != nil {
		// Nothing identifies the report.
		return nil
	}
	return h.reports.Fail(ctx, p.ReportID, failureReason(jobErr))
}

func decodeReportPayload(payload []byte) (worker.GenerateRecidivismReportPayload, error) {
	var p worker.GenerateRecidivismReportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return p, worker.NewPermanentError(fmt.Errorf("invalid payload: %w", err))
	}
	if p.ReportID == uuid.Nil {
		return p, worker.NewPermanentError(fmt.Errorf("invalid payload: missing report_id"))
	}
	return p, nil
}

// failureReason is the text stored on a failed report. Domain errors keep
// their user-facing message; anything else is generic.
func failureReason(err error) string {
	switch domain.ErrorCode(err) {
	case domain.ENOTFOUND, domain.EINVALID:
		return domain.ErrorMessage(err)
	}
	return "Falha ao gerar o relatório."
}
