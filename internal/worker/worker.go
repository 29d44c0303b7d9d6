package worker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DukeRupert/fraudbase/internal/metrics"
	"github.com/DukeRupert/fraudbase/internal/repository"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

// Worker polls the jobs table and runs registered handlers.
type Worker struct {
	db       *sql.DB
	queries  *repository.Queries
	handlers map[string]JobHandler
	config   Config
	logger   *slog.Logger

	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a Worker. Register handlers, then call Start.
func New(db *sql.DB, queries *repository.Queries, config Config, logger *slog.Logger) (*Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Worker{
		db:       db,
		queries:  queries,
		handlers: make(map[string]JobHandler),
		config:   config,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Register adds a handler. Call before Start.
func (w *Worker) Register(handler JobHandler) {
	jobType := handler.Type()
	if _, exists := w.handlers[jobType]; exists {
		w.logger.Warn("Overwriting existing handler", "job_type", jobType)
	}
	w.handlers[jobType] = handler
	w.logger.Debug("Registered job handler", "job_type", jobType)
}

// Start requeues stale jobs and launches the polling goroutines.
func (w *Worker) Start(ctx context.Context) {
	if err := w.recoverStaleJobs(ctx); err != nil {
		w.logger.Error("Failed to recover stale jobs", "error", err)
	}

	for i := 0; i < w.config.Concurrency; i++ {
		w.wg.Add(1)
		go w.runWorker(ctx, i+1)
	}

	w.logger.Info("Worker started", "concurrency", w.config.Concurrency, "handlers", len(w.handlers))
}

// Stop signals the pollers and waits up to ShutdownTimeout for them.
// It is safe to call more than once.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker...")
		close(w.stopCh)
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("Worker stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		w.logger.Warn("Worker shutdown timeout exceeded, some jobs may still be running")
	}
}

func (w *Worker) recoverStaleJobs(ctx context.Context) error {
	count, err := w.queries.RecoverStaleJobs(ctx, w.config.StaleJobThreshold.Seconds())
	if err != nil {
		return fmt.Errorf("recover stale jobs: %w", err)
	}

	if count > 0 {
		w.logger.Warn("Recovered stale jobs", "count", count, "threshold", w.config.StaleJobThreshold)
	}
	return nil
}

func (w *Worker) runWorker(ctx context.Context, workerID int) {
	defer w.wg.Done()

	logger := w.logger.With("worker_id", workerID)
	logger.Debug("Worker started")

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			logger.Debug("Worker stopping")
			return
		case <-ctx.Done():
			logger.Debug("Worker context canceled")
			return
		case <-ticker.C:
			// Drain the queue before waiting for the next tick.
			for {
				err := w.processNextJob(ctx, logger)
				if errors.Is(err, sql.ErrNoRows) {
					break
				}
				if err != nil {
					logger.Error("Failed to process job", "error", err)
					break
				}
				select {
				case <-w.stopCh:
					return
				default:
				}
			}
		}
	}
}

// processNextJob dequeues and runs one job. Returns sql.ErrNoRows when the
// queue is empty.
func (w *Worker) processNextJob(ctx context.Context, logger *slog.Logger) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := w.queries.WithTx(tx)

	job, err := qtx.DequeueJob(ctx)
	if err != nil {
		return err
	}

	if err := qtx.UpdateJobStarted(ctx, job.ID); err != nil {
		return fmt.Errorf("mark job started: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dequeue: %w", err)
	}
	job.Attempts++

	logger = logger.With("job_id", job.ID, "job_type", job.JobType, "attempt", job.Attempts)
	logger.Info("Processing job")

	metrics.JobStarted(job.JobType)
	start := time.Now()

	result, err := w.executeJob(ctx, job)
	if err != nil {
		willRetry := !IsPermanent(err) && job.Attempts < job.MaxAttempts
		metrics.JobFailed(job.JobType, time.Since(start), willRetry)
		logger.Error("Job failed", "error", err, "will_retry", willRetry)
		w.markJobFailed(ctx, job.ID, err)
		if !willRetry {
			w.notifyFinalFailure(ctx, job, err)
		}
		return nil
	}

	metrics.JobCompleted(job.JobType, time.Since(start))
	logger.Info("Job completed", "duration", time.Since(start))
	if err := w.markJobCompleted(ctx, job.ID, result); err != nil {
		logger.Error("Failed to mark job as completed", "error", err)
		return err
	}

	return nil
}

// executeJob runs the job's handler under JobTimeout.
func (w *Worker) executeJob(ctx context.Context, job repository.Job) (any, error) {
	handler, ok := w.handlers[job.JobType]
	if !ok {
		return nil, NewPermanentError(fmt.Errorf("no handler registered for job type: %s", job.JobType))
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	return handler.Handle(jobCtx, job.Payload)
}

func (w *Worker) markJobCompleted(ctx context.Context, jobID uuid.UUID, result any) error {
	params := repository.UpdateJobCompletedParams{ID: jobID}
	if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			w.logger.Warn("Discarding unmarshalable job result", "job_id", jobID, "error", err)
		} else {
			params.Result = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
		}
	}

	if err := w.queries.UpdateJobCompleted(ctx, params); err != nil {
		return fmt.Errorf("update job completed: %w", err)
	}
	return nil
}

// notifyFinalFailure lets the handler record a job that will not run again.
func (w *Worker) notifyFinalFailure(ctx context.Context, job repository.Job, jobErr error) {
	fh, ok := w.handlers[job.JobType].(FailureHandler)
	if !ok {
		return
	}
	if err := fh.OnFinalFailure(ctx, job.Payload, jobErr); err != nil {
		w.logger.Error("Final failure hook failed", "job_id", job.ID, "error", err)
	}
}

// markJobFailed stores the error. The query decides between a retry with
// backoff and a terminal failure.
func (w *Worker) markJobFailed(ctx context.Context, jobID uuid.UUID, jobErr error) {
	params := repository.UpdateJobFailedParams{
		ID:           jobID,
		ErrorMessage: sql.NullString{String: jobErr.Error(), Valid: true},
		Permanent:    IsPermanent(jobErr),
	}

	if err := w.queries.UpdateJobFailed(ctx, params); err != nil {
		w.logger.Error("Failed to mark job as failed", "job_id", jobID, "error", err)
	}
}
