package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const generatedReportColumns = `id, cpf, style, status, storage_key, size_bytes, error,
    requested_by, created_at, completed_at`

func scanGeneratedReport(row rowScanner, r *GeneratedReport) error {
	return row.Scan(
		&r.ID,
		&r.Cpf,
		&r.Style,
		&r.Status,
		&r.StorageKey,
		&r.SizeBytes,
		&r.Error,
		&r.RequestedBy,
		&r.CreatedAt,
		&r.CompletedAt,
	)
}

const createGeneratedReport = `-- name: CreateGeneratedReport :one
INSERT INTO generated_reports (id, cpf, style, requested_by)
VALUES ($1, $2, $3, $4)
RETURNING ` + generatedReportColumns + `
`

type CreateGeneratedReportParams struct {
	ID          uuid.UUID
	Cpf         string
	Style       string
	RequestedBy int64
}

func (q *Queries) CreateGeneratedReport(ctx context.Context, arg CreateGeneratedReportParams) (GeneratedReport, error) {
	row := q.db.QueryRowContext(ctx, createGeneratedReport,
		arg.ID,
		arg.Cpf,
		arg.Style,
		arg.RequestedBy,
	)
	var i GeneratedReport
	err := scanGeneratedReport(row, &i)
	return i, err
}

const getGeneratedReport = `-- name: GetGeneratedReport :one
SELECT ` + generatedReportColumns + ` FROM generated_reports WHERE id = $1
`

func (q *Queries) GetGeneratedReport(ctx context.Context, id uuid.UUID) (GeneratedReport, error) {
	row := q.db.QueryRowContext(ctx, getGeneratedReport, id)
	var i GeneratedReport
	err := scanGeneratedReport(row, &i)
	return i, err
}

const completeGeneratedReport = `-- name: CompleteGeneratedReport :exec
UPDATE generated_reports
SET status = 'completed',
    storage_key = $2,
    size_bytes = $3,
    error = NULL,
    completed_at = NOW()
WHERE id = $1
`

type CompleteGeneratedReportParams struct {
	ID         uuid.UUID
	StorageKey sql.NullString
	SizeBytes  sql.NullInt64
}

func (q *Queries) CompleteGeneratedReport(ctx context.Context, arg CompleteGeneratedReportParams) error {
	_, err := q.db.ExecContext(ctx, completeGeneratedReport, arg.ID, arg.StorageKey, arg.SizeBytes)
	return err
}

const failGeneratedReport = `-- name: FailGeneratedReport :exec
UPDATE generated_reports
SET status = 'failed',
    error = $2,
    completed_at = NOW()
WHERE id = $1
`

type FailGeneratedReportParams struct {
	ID    uuid.UUID
	Error sql.NullString
}

func (q *Queries) FailGeneratedReport(ctx context.Context, arg FailGeneratedReportParams) error {
	_, err := q.db.ExecContext(ctx, failGeneratedReport, arg.ID, arg.Error)
	return err
}
