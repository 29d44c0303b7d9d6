// Package export saves recidivism reports as PDF files, either rendered
// locally or requested from the server and downloaded when ready.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/DukeRupert/fraudbase/internal/client/api"
	"github.com/DukeRupert/fraudbase/internal/client/notify"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/report"
)

const (
	msgFailed  = "Erro ao gerar o relatório. Tente novamente."
	msgSaved   = "Relatório salvo em %s."
	msgRefused = "O servidor não conseguiu gerar o relatório."
)

// DefaultPollInterval is how often Remote checks a pending report.
const DefaultPollInterval = time.Second

// ErrReportFailed is returned by Remote when the server marked the report
// as failed.
var ErrReportFailed = errors.New("export: report generation failed")

// RemoteReports requests and downloads server-side reports.
// *api.Client satisfies it.
type RemoteReports interface {
	RequestReport(ctx context.Context, cpf string, style domain.ReportStyle) (*api.ReportTicket, error)
	FetchReport(ctx context.Context, id string, w io.Writer) (*domain.GeneratedReport, bool, error)
}

// Exporter writes report files into Dir.
type Exporter struct {
	registry report.Registry
	remote   RemoteReports
	logger   *slog.Logger

	// Dir receives the files; empty means the working directory.
	Dir          string
	PollInterval time.Duration
	Now          func() time.Time
}

// New creates an Exporter. remote may be nil when only local rendering is
// used.
func New(registry report.Registry, remote RemoteReports, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		registry:     registry,
		remote:       remote,
		logger:       logger,
		PollInterval: DefaultPollInterval,
		Now:          time.Now,
	}
}

// FileName returns the file name used for a report.
func FileName(cpf string, style domain.ReportStyle) string {
	r := domain.GeneratedReport{CPF: cpf, Style: style}
	return r.FileName()
}

// Local renders the report on this machine. Any failure removes the
// partial file and yields an error notification.
func (e *Exporter) Local(ctx context.Context, rec domain.RecidivismRecord, style domain.ReportStyle, by string) (string, notify.Notification) {
	path := filepath.Join(e.Dir, FileName(rec.CPF, style))
	if err := e.local(ctx, rec, style, by, path); err != nil {
		e.logger.Error("local report export failed", "cpf", rec.CPF, "style", style, "error", err)
		return "", notify.Error(msgFailed)
	}
	return path, notify.Success(fmt.Sprintf(msgSaved, path))
}

func (e *Exporter) local(ctx context.Context, rec domain.RecidivismRecord, style domain.ReportStyle, by, path string) (err error) {
	gen, err := e.registry.For(style)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	data := domain.NewReportData(rec, by, e.Now())
	if _, err = gen.Generate(ctx, data, f); err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return nil
}

// Remote asks the server for the report, waits for it and saves it. It
// stops when ctx is done.
func (e *Exporter) Remote(ctx context.Context, cpf string, style domain.ReportStyle) (string, notify.Notification) {
	path := filepath.Join(e.Dir, FileName(cpf, style))
	if err := e.remoteExport(ctx, cpf, style, path); err != nil {
		e.logger.Error("remote report export failed", "cpf", cpf, "style", style, "error", err)
		if errors.Is(err, ErrReportFailed) {
			return "", notify.Error(msgRefused)
		}
		return "", notify.Error(msgFailed)
	}
	return path, notify.Success(fmt.Sprintf(msgSaved, path))
}

func (e *Exporter) remoteExport(ctx context.Context, cpf string, style domain.ReportStyle, path string) (err error) {
	if e.remote == nil {
		return errors.New("export: no server configured")
	}

	ticket, err := e.remote.RequestReport(ctx, cpf, style)
	if err != nil {
		return err
	}
	e.logger.Debug("report requested", "report_id", ticket.ReportID, "job_id", ticket.JobID)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	interval := e.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, done, err := e.remote.FetchReport(ctx, ticket.ReportID, f)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if status != nil && status.Status == domain.ReportStatusFailed {
			return fmt.Errorf("%w: %s", ErrReportFailed, status.Error)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
