// Package domain contains core business types and interfaces.
//
// This file defines the recidivism report types: the two export styles and
// the record of an asynchronously generated report.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Report Style
// =============================================================================

// ReportStyle selects how a recidivism report is rendered.
type ReportStyle string

const (
	// ReportStyleStyled keeps the on-screen colours and badges.
	ReportStyleStyled ReportStyle = "colorido"

	// ReportStyleMonochrome renders a black-on-white print layout.
	ReportStyleMonochrome ReportStyle = "monocromatico"
)

// String returns the string representation of the style.
func (s ReportStyle) String() string {
	return string(s)
}

// IsValid returns true if the style is a recognized value.
func (s ReportStyle) IsValid() bool {
	switch s {
	case ReportStyleStyled, ReportStyleMonochrome:
		return true
	}
	return false
}

// ReportContentType is the MIME type of every generated report.
const ReportContentType = "application/pdf"

// =============================================================================
// Report Data
// =============================================================================

// ReportData is everything a report generator needs about one offender.
type ReportData struct {
	Nome        string
	CPF         string // digits only; generators format it
	Quantidade  int
	BOs         []string
	Tier        RiskTier
	GeneratedAt time.Time
	GeneratedBy string
}

// NewReportData builds report data from a recidivism record.
func NewReportData(rec RecidivismRecord, by string, now time.Time) *ReportData {
	return &ReportData{
		Nome:        rec.NomeCompleto,
		CPF:         rec.CPF,
		Quantidade:  rec.Quantidade,
		BOs:         rec.BOs(),
		Tier:        rec.Tier(),
		GeneratedAt: now,
		GeneratedBy: by,
	}
}

// =============================================================================
// Generated Report Record
// =============================================================================

// ReportStatus tracks an asynchronous report through the job queue.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// GeneratedReport is a report requested through the API and rendered by the worker.
type GeneratedReport struct {
	ID          uuid.UUID    `json:"id"`
	CPF         string       `json:"cpf"`
	Style       ReportStyle  `json:"estilo"`
	Status      ReportStatus `json:"status"`
	StorageKey  string       `json:"-"`
	SizeBytes   int64        `json:"sizeBytes,omitempty"`
	Error       string       `json:"error,omitempty"`
	RequestedBy int64        `json:"requestedBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

// FileName returns the download name for the report.
func (r *GeneratedReport) FileName() string {
	return "relatorio_reincidencia_" + r.CPF + "_" + r.Style.String() + ".pdf"
}
