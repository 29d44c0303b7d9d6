package storage

import (
	"errors"
	"fmt"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// Errors returned by every Storage implementation, usually wrapped in a
// *StorageError.
var (
	ErrNotFound     = errors.New("object not found")
	ErrKeyExists    = errors.New("object already exists")
	ErrInvalidKey   = errors.New("invalid storage key")
	ErrTooLarge     = errors.New("object exceeds maximum size")
	ErrAccessDenied = errors.New("access denied")
)

// StorageError records which call and key failed.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsTooLarge(err error) bool  { return errors.Is(err, ErrTooLarge) }
func IsKeyExists(err error) bool { return errors.Is(err, ErrKeyExists) }

// ToDomain translates a storage failure into the matching domain error so
// handlers can answer with the right status. resource names the object in
// the user-facing message ("Arquivo do relatório").
func ToDomain(op, resource, key string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsNotFound(err):
		return domain.NotFound(op, resource, key)
	case IsTooLarge(err):
		return domain.TooLarge(op, resource+" excede o tamanho máximo")
	default:
		return domain.Internal(err, op, "storage failure")
	}
}
