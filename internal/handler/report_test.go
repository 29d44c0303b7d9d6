package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

type trackingReadCloser struct {
	io.Reader
	closed bool
}

func (r *trackingReadCloser) Close() error {
	r.closed = true
	return nil
}

func newReportMux(svc *mockReportService) *http.ServeMux {
	mux := http.NewServeMux()
	NewReportHandler(svc, testLogger()).RegisterRoutes(mux, asUser(operator))
	return mux
}

func TestReportHandler_Download_Completed(t *testing.T) {
	id := uuid.New()
	done := time.Now()
	content := &trackingReadCloser{Reader: strings.NewReader("%PDF-1.3 test")}
	svc := &mockReportService{
		OpenFunc: func(ctx context.Context, gotID uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error) {
			assert.Equal(t, id, gotID)
			return &domain.GeneratedReport{
				ID: id, CPF: "12345678901", Style: domain.ReportStyleStyled,
				Status: domain.ReportStatusCompleted, SizeBytes: 13, CompletedAt: &done,
			}, content, nil
		},
	}

	rec := do(t, newReportMux(svc), http.MethodGet, "/api/relatorios/"+id.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="relatorio_reincidencia_12345678901_colorido.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "13", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF-1.3 test", rec.Body.String())
	assert.True(t, content.closed)
}

func TestReportHandler_Download_NotReady(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.ReportStatus
		wantStatus int
	}{
		{"pending", domain.ReportStatusPending, http.StatusAccepted},
		{"failed", domain.ReportStatusFailed, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReportService{
				OpenFunc: func(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error) {
					return &domain.GeneratedReport{ID: id, Status: tt.status, Error: "boom"}, nil, nil
				},
			}

			rec := do(t, newReportMux(svc), http.MethodGet, "/api/relatorios/"+uuid.NewString(), "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"`+string(tt.status)+`"`)
		})
	}
}

func TestReportHandler_Download_Errors(t *testing.T) {
	svc := &mockReportService{
		OpenFunc: func(ctx context.Context, id uuid.UUID, requester *domain.User) (*domain.GeneratedReport, io.ReadCloser, error) {
			return nil, nil, domain.NotFound("ReportService.Get", "Relatório", id.String())
		},
	}
	mux := newReportMux(svc)

	assert.Equal(t, http.StatusBadRequest, do(t, mux, http.MethodGet, "/api/relatorios/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, mux, http.MethodGet, "/api/relatorios/"+uuid.NewString(), "").Code)
}
