package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DukeRupert/fraudbase/internal/repository"
	"github.com/google/uuid"
)

// Job type constants - these must match the JobHandler.Type() values
const (
	JobTypeRefreshDashboardViews    = "refresh_dashboard_views"
	JobTypeGenerateRecidivismReport = "generate_recidivism_report"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// RefreshDashboardViewsPayload is the payload for view refresh jobs.
type RefreshDashboardViewsPayload struct {
	// Reason is logged by the handler, e.g. "upload" or "cleanup".
	Reason string `json:"reason"`
}

// GenerateRecidivismReportPayload is the payload for report generation jobs.
type GenerateRecidivismReportPayload struct {
	ReportID    uuid.UUID `json:"report_id"`
	CPF         string    `json:"cpf"`
	Style       string    `json:"style"`
	RequestedBy int64     `json:"requested_by"`
}

// EnqueueOption customizes job enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = p.ScheduledAt.Add(delay)
	}
}

// NewEnqueueParams builds the insert parameters for a job. Exposed so the
// defaults and options can be checked without a database.
func NewEnqueueParams(jobType string, payload any, opts ...EnqueueOption) (repository.EnqueueJobParams, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.EnqueueJobParams{}, fmt.Errorf("marshal payload: %w", err)
	}

	params := repository.EnqueueJobParams{
		ID:          uuid.New(),
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}
	for _, opt := range opts {
		opt(&params)
	}
	return params, nil
}

// EnqueueJob inserts a job. Pass a transaction-bound Queries to make the
// job visible only if the surrounding work commits.
func EnqueueJob(
	ctx context.Context,
	queries *repository.Queries,
	jobType string,
	payload any,
	opts ...EnqueueOption,
) (repository.Job, error) {
	params, err := NewEnqueueParams(jobType, payload, opts...)
	if err != nil {
		return repository.Job{}, err
	}

	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}
	return job, nil
}

// EnqueueRefreshDashboardViews schedules a refresh of the dashboard's
// materialized views. Imports that land in quick succession each enqueue
// one; refreshes are idempotent so the duplicates only cost a little time.
func EnqueueRefreshDashboardViews(
	ctx context.Context,
	queries *repository.Queries,
	reason string,
	opts ...EnqueueOption,
) (repository.Job, error) {
	return EnqueueJob(ctx, queries, JobTypeRefreshDashboardViews,
		RefreshDashboardViewsPayload{Reason: reason}, opts...)
}

// EnqueueGenerateRecidivismReport schedules rendering of a report record
// created beforehand with status pending.
func EnqueueGenerateRecidivismReport(
	ctx context.Context,
	queries *repository.Queries,
	payload GenerateRecidivismReportPayload,
	opts ...EnqueueOption,
) (repository.Job, error) {
	opts = append([]EnqueueOption{WithPriority(PriorityHigh)}, opts...)
	return EnqueueJob(ctx, queries, JobTypeGenerateRecidivismReport, payload, opts...)
}
