package worker

import (
	"context"
	"errors"
)

// JobHandler executes one type of background job.
type JobHandler interface {
	// Type returns the job_type this handler processes.
	Type() string

	// Handle runs the job. payload is the raw JSON stored at enqueue time.
	// A non-nil result is marshaled into the job's result column. Return a
	// PermanentError to fail the job without retries.
	Handle(ctx context.Context, payload []byte) (any, error)
}

// FailureHandler is implemented by handlers that need to know when a job
// has failed for the last time, either permanently or out of attempts.
type FailureHandler interface {
	OnFinalFailure(ctx context.Context, payload []byte, jobErr error) error
}

// HandlerFunc adapts a function into a JobHandler.
type HandlerFunc struct {
	JobType string
	Fn      func(ctx context.Context, payload []byte) (any, error)
}

func (h HandlerFunc) Type() string { return h.JobType }

func (h HandlerFunc) Handle(ctx context.Context, payload []byte) (any, error) {
	return h.Fn(ctx, payload)
}

// PermanentError marks a job failure that retrying cannot fix, such as a
// malformed payload or a report for a CPF that no longer qualifies.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// NewPermanentError wraps err so the job is not retried.
func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, is a PermanentError.
func IsPermanent(err error) bool {
	var permErr *PermanentError
	return errors.As(err, &permErr)
}
