package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/metrics"
	"github.com/DukeRupert/fraudbase/internal/repository"
	"github.com/DukeRupert/fraudbase/internal/storage"
	"github.com/DukeRupert/fraudbase/internal/worker"
)

// Messages returned to the uploader.
const (
	msgUploadExtension = "Formato de arquivo inválido. Apenas arquivos .xlsx são permitidos."
	msgUploadName      = "Nome do arquivo não segue o padrão esperado."
	msgUploadCorrupt   = "Arquivo .xlsx inválido ou corrompido."
	msgUploadSuccess   = "Arquivo processado com sucesso"
)

// UploadParams carries one spreadsheet upload.
type UploadParams struct {
	Filename   string
	Body       io.Reader
	UploadedBy int64
}

// UploadService imports B.O. search exports into the person table.
type UploadService interface {
	// Import validates, archives and ingests a workbook. Rows already
	// stored are skipped and counted as duplicates.
	Import(ctx context.Context, params UploadParams) (*domain.ImportResult, error)
}

type uploadService struct {
	db      *sql.DB
	queries *repository.Queries
	storage storage.Storage
	maxSize int64
	logger  *slog.Logger
	now     func() time.Time
}

// NewUploadService creates a new UploadService instance. maxSize <= 0
// falls back to domain.DefaultUploadMaxSize.
func NewUploadService(db *sql.DB, queries *repository.Queries, store storage.Storage, maxSize int64, logger *slog.Logger) UploadService {
	if maxSize <= 0 {
		maxSize = domain.DefaultUploadMaxSize
	}
	return &uploadService{
		db:      db,
		queries: queries,
		storage: store,
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *uploadService) Import(ctx context.Context, params UploadParams) (*domain.ImportResult, error) {
	const op = "UploadService.Import"

	if err := ValidateUploadName(params.Filename); err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	data, err := readLimited(params.Body, s.maxSize)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, errUploadTooLarge) {
			return nil, domain.TooLarge(op, fmt.Sprintf("Arquivo excede o limite de %d MB.", s.maxSize>>20))
		}
		return nil, domain.Internal(err, op, "Failed to read upload")
	}
	if !storage.LooksLikeXLSX(data) {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.Invalid(op, msgUploadCorrupt)
	}

	rows, err := ParseWorkbook(bytes.NewReader(data))
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	archived := s.archive(ctx, data)

	inserted, duplicates, err := s.ingest(ctx, rows)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		return nil, domain.Internal(err, op, "Failed to import rows")
	}

	metrics.UploadsTotal.WithLabelValues("imported").Inc()
	metrics.RowsImported.WithLabelValues("inserted").Add(float64(inserted))
	metrics.RowsImported.WithLabelValues("duplicate").Add(float64(duplicates))

	s.logger.Info("spreadsheet imported",
		"filename", params.Filename,
		"uploaded_by", params.UploadedBy,
		"rows", len(rows),
		"inserted", inserted,
		"duplicates", duplicates,
		"archive_key", archived,
	)

	return &domain.ImportResult{
		Success:            true,
		Message:            msgUploadSuccess,
		RegistrosInseridos: inserted,
		DuplicatasEvitadas: duplicates,
		TotalProcessados:   len(rows),
		ArquivoArmazenado:  archived,
	}, nil
}

// ingest inserts the rows not yet stored and enqueues a dashboard refresh,
// all in one transaction.
func (s *uploadService) ingest(ctx context.Context, rows []domain.ImportRow) (inserted, duplicates int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	existing, err := qtx.ListImportKeys(ctx, distinctBOs(rows))
	if err != nil {
		return 0, 0, fmt.Errorf("list existing rows: %w", err)
	}

	fresh, duplicates := FilterDuplicates(rows, existing)

	for start := 0; start < len(fresh); start += domain.ImportBatchSize {
		end := min(start+domain.ImportBatchSize, len(fresh))
		n, err := qtx.InsertImportBatch(ctx, fresh[start:end])
		if err != nil {
			return 0, 0, fmt.Errorf("insert batch at %d: %w", start, err)
		}
		inserted += int(n)
	}

	if inserted > 0 {
		if _, err := worker.EnqueueRefreshDashboardViews(ctx, qtx, "upload"); err != nil {
			return 0, 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, duplicates, nil
}

// archive stores the raw workbook keyed by its content hash and returns
// the key, or "" when archiving failed. A failed archive does not block
// the import.
func (s *uploadService) archive(ctx context.Context, data []byte) string {
	sum := sha256.Sum256(data)
	key := storage.UploadKey(s.now(), hex.EncodeToString(sum[:]))

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("failed to check archived upload", "key", key, "error", err)
		return ""
	}
	if exists {
		return key
	}

	err = s.storage.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType: storage.ContentTypeXLSX,
		MaxSize:     s.maxSize,
	})
	if err != nil && !storage.IsKeyExists(err) {
		s.logger.Warn("failed to archive upload", "key", key, "error", err)
		return ""
	}
	return key
}

// ValidateUploadName checks the extension first, then the export name marker.
func ValidateUploadName(filename string) error {
	const op = "UploadService.ValidateUploadName"

	name := filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(name), domain.UploadExtension) {
		return domain.Invalid(op, msgUploadExtension)
	}
	if !strings.Contains(strings.ToLower(name), domain.UploadNameMarker) {
		return domain.Invalid(op, msgUploadName)
	}
	return nil
}

// FilterDuplicates drops rows whose dedup key is in existing or appeared
// earlier in rows. It returns the remaining rows and how many were dropped.
func FilterDuplicates(rows []domain.ImportRow, existing map[string]struct{}) ([]domain.ImportRow, int) {
	seen := make(map[string]struct{}, len(existing)+len(rows))
	for k := range existing {
		seen[k] = struct{}{}
	}

	fresh := make([]domain.ImportRow, 0, len(rows))
	dropped := 0
	for _, r := range rows {
		key := r.DedupKey()
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, r)
	}
	return fresh, dropped
}

func distinctBOs(rows []domain.ImportRow) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.NumeroBO]; ok {
			continue
		}
		seen[r.NumeroBO] = struct{}{}
		out = append(out, r.NumeroBO)
	}
	return out
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if r == nil {
		return nil, errors.New("empty upload body")
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, errUploadTooLarge
	}
	return data, nil
}
