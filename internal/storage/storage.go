// Package storage archives the files FraudBase handles outside the database:
// spreadsheets received by the upload endpoint and the PDF reports produced
// by the background worker.
//
// Two backends are available. LocalStorage writes under a directory on disk
// and is the development default. R2Storage talks to Cloudflare R2 through
// the S3 API.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage is a flat key/value object store.
type Storage interface {
	// Put stores data at key. It fails with ErrKeyExists when the key is
	// taken and opts.Overwrite is false, and with ErrTooLarge when data
	// exceeds opts.MaxSize.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get opens the object at key. The caller must close the reader.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)
}

// PutOptions tunes a single Put call.
type PutOptions struct {
	// ContentType is stored with the object. Detected from the key when empty.
	ContentType string

	// MaxSize rejects objects larger than this many bytes. Zero means no limit.
	MaxSize int64

	// Overwrite allows replacing an existing object.
	Overwrite bool
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory, e.g. "./storage".
	BasePath string
}

// R2Config holds configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string

	// Region defaults to "auto".
	Region string
}

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderR2 identifies the Cloudflare R2 storage provider.
	ProviderR2 = "r2"
)

// =============================================================================
// Key Helpers
// =============================================================================

// UploadKey returns the archive key of an uploaded spreadsheet. Uploads are
// addressed by the SHA-256 of their content so the same file sent twice is
// archived once:
//
//	uploads/2024/03/9f86d081884c7d65....xlsx
func UploadKey(receivedAt time.Time, sum string) string {
	return fmt.Sprintf("uploads/%04d/%02d/%s.xlsx", receivedAt.Year(), int(receivedAt.Month()), strings.ToLower(sum))
}

// ReportKey returns the key of a generated recidivism report.
func ReportKey(reportID uuid.UUID) string {
	return path.Join("reports", reportID.String()+".pdf")
}

// validateKey rejects empty keys, absolute keys and any ".." segment.
func validateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
