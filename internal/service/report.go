package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
	"github.com/DukeRupert/fraudbase/internal/repository"
	"github.com/DukeRupert/fraudbase/internal/storage"
	"github.com/DukeRupert/fraudbase/internal/worker"
)

const msgReportStyle = "Estilo de relatório inválido. Use colorido ou monocromatico."

// =============================================================================
// Interface Definition
// =============================================================================

// ReportTicket is returned when a report is queued.
type ReportTicket struct {
	JobID  uuid.UUID
	Report *domain.GeneratedReport
}

// ReportService manages recidivism PDF reports. Rendering happens in the
// worker; this service queues requests, serves finished files and records
// the outcome of each job.
type ReportService interface {
	// Request validates the CPF and style, records a pending report and
	// enqueues the job that renders it.
	Request(ctx context.Context, cpf string, style domain.ReportStyle, requester *domain.User) (*ReportTicket, error)

	// Get returns a report record visible to requester.
	Get(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, error)

	// Open returns a completed report and its content. The caller closes the reader.
	Open(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error)

	// PrepareReportData gathers what the generators need for one CPF.
	PrepareReportData(ctx context.Context, cpf string, requestedBy int64) (*domain.ReportData, error)

	// Complete and Fail record the job outcome.
	Complete(ctx context.Context, id uuid.UUID, key string, size int64) error
	Fail(ctx context.Context, id uuid.UUID, reason string) error
}

// =============================================================================
// Implementation
// =============================================================================

type reportService struct {
	db         *sql.DB
	queries    *repository.Queries
	storage    storage.Storage
	recidivism RecidivismService
	logger     *slog.Logger
	now        func() time.Time
}

// NewReportService creates a new ReportService.
func NewReportService(
	db *sql.DB,
	queries *repository.Queries,
	store storage.Storage,
	recidivism RecidivismService,
	logger *slog.Logger,
) ReportService {
	return &reportService{
		db:         db,
		queries:    queries,
		storage:    store,
		recidivism: recidivism,
		logger:     logger,
		now:        time.Now,
	}
}

// ParseReportStyle accepts the style names used in query strings. An empty
// value selects the styled report.
func ParseReportStyle(s string) (domain.ReportStyle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return domain.ReportStyleStyled, nil
	}
	style := domain.ReportStyle(s)
	if !style.IsValid() {
		return "", domain.Invalid("ParseReportStyle", msgReportStyle)
	}
	return style, nil
}

func (s *reportService) Request(ctx context.Context, cpf string, style domain.ReportStyle, requester *domain.User) (*ReportTicket, error) {
	const op = "ReportService.Request"

	if requester == nil {
		return nil, domain.Unauthorized(op, "Autenticação necessária")
	}
	if !style.IsValid() {
		return nil, domain.Invalid(op, msgReportStyle)
	}

	// Fails with ENOTFOUND before anything is queued.
	rec, err := s.recidivism.ForCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	row, err := qtx.CreateGeneratedReport(ctx, repository.CreateGeneratedReportParams{
		ID:          uuid.New(),
		Cpf:         rec.CPF,
		Style:       style.String(),
		RequestedBy: requester.ID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to record report request")
	}

	job, err := worker.EnqueueGenerateRecidivismReport(ctx, qtx, worker.GenerateRecidivismReportPayload{
		ReportID:    row.ID,
		CPF:         rec.CPF,
		Style:       style.String(),
		RequestedBy: requester.ID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to enqueue report")
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Internal(err, op, "Failed to commit report request")
	}

	s.logger.Info("report requested",
		"report_id", row.ID,
		"job_id", job.ID,
		"style", style,
		"requested_by", requester.ID,
	)

	return &ReportTicket{JobID: job.ID, Report: repoReportToDomain(row)}, nil
}

func (s *reportService) Get(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, error) {
	const op = "ReportService.Get"

	row, err := s.queries.GetGeneratedReport(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "Relatório", id.String())
		}
		return nil, domain.Internal(err, op, "Failed to load report")
	}

	report := repoReportToDomain(row)
	if !CanViewReport(report, requester) {
		// Hide existence from other users.
		return nil, domain.NotFound(op, "Relatório", id.String())
	}
	return report, nil
}

func (s *reportService) Open(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error) {
	const op = "ReportService.Open"

	report, err := s.Get(ctx, id, requester)
	if err != nil {
		return nil, nil, err
	}
	if report.Status != domain.ReportStatusCompleted || report.StorageKey == "" {
		return report, nil, nil
	}

	rc, _, err := s.storage.Get(ctx, report.StorageKey)
	if err != nil {
		return nil, nil, storage.ToDomain(op, "Arquivo do relatório", id.String(), err)
	}
	return report, rc, nil
}

func (s *reportService) PrepareReportData(ctx context.Context, cpf string, requestedBy int64) (*domain.ReportData, error) {
	const op = "ReportService.PrepareReportData"

	rec, err := s.recidivism.ForCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}

	by := ""
	user, err := s.queries.GetUsuarioByID(ctx, requestedBy)
	switch {
	case err == nil:
		by = repoUserToDomain(user).DisplayName()
	case errors.Is(err, sql.ErrNoRows):
		// Account removed after the request; the report is still valid.
	default:
		return nil, domain.Internal(err, op, "Failed to load requester")
	}

	return domain.NewReportData(*rec, by, s.now()), nil
}

func (s *reportService) Complete(ctx context.Context, id uuid.UUID, key string, size int64) error {
	err := s.queries.CompleteGeneratedReport(ctx, repository.CompleteGeneratedReportParams{
		ID:         id,
		StorageKey: sql.NullString{String: key, Valid: key != ""},
		SizeBytes:  sql.NullInt64{Int64: size, Valid: true},
	})
	if err != nil {
		return domain.Internal(err, "ReportService.Complete", "Failed to mark report completed")
	}
	return nil
}

func (s *reportService) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	err := s.queries.FailGeneratedReport(ctx, repository.FailGeneratedReportParams{
		ID:    id,
		Error: sql.NullString{String: reason, Valid: reason != ""},
	})
	if err != nil {
		return domain.Internal(err, "ReportService.Fail", "Failed to mark report failed")
	}
	return nil
}

// CanViewReport reports whether u may see r: its requester or any admin.
func CanViewReport(r *domain.GeneratedReport, u *domain.User) bool {
	if r == nil || u == nil {
		return false
	}
	return u.IsAdmin || r.RequestedBy == u.ID
}

func repoReportToDomain(r repository.GeneratedReport) *domain.GeneratedReport {
	out := &domain.GeneratedReport{
		ID:          r.ID,
		CPF:         field.Digits(r.Cpf),
		Style:       domain.ReportStyle(r.Style),
		Status:      domain.ReportStatus(r.Status),
		StorageKey:  r.StorageKey.String,
		SizeBytes:   r.SizeBytes.Int64,
		Error:       r.Error.String,
		RequestedBy: r.RequestedBy,
		CreatedAt:   r.CreatedAt,
	}
	if r.CompletedAt.Valid {
		t := r.CompletedAt.Time
		out.CompletedAt = &t
	}
	return out
}
