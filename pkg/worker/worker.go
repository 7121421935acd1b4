// Package worker implements the async completion pipeline: it consumes
// queued transaction requests and executes them through the same ledger
// engine as the synchronous path.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/queue"
	"github.com/ksoliman/banksim/pkg/repository"
	"github.com/ksoliman/banksim/pkg/service/ledger"
)

// Worker executes queued jobs with bounded retry.
//
// Transient failures (lock timeouts, store unavailability) are retried up to
// MaxRetries with a fixed backoff. Validator rejections and a missing
// account are terminal: their outcome is deterministic for the balance seen
// at execution time, so they go straight to the failed-job record. Note that
// the worker validates against the balance current when it runs, not the
// balance at enqueue time; that is intentional.
type Worker struct {
	consumer   queue.Consumer
	engine     *ledger.Service
	uow        repository.UnitOfWork
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// New creates a Worker.
func New(
	consumer queue.Consumer,
	engine *ledger.Service,
	uow repository.UnitOfWork,
	cfg *config.Worker,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		consumer:   consumer,
		engine:     engine,
		uow:        uow,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		logger:     logger,
	}
}

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", "max_retries", w.maxRetries, "backoff", w.backoff)
	return w.consumer.Consume(ctx, w.Process)
}

// Process executes one job. A nil return acknowledges the job: either it was
// applied, or its failure was durably recorded. A non-nil return leaves the
// job unacknowledged for redelivery, which only happens when the failure
// record itself cannot be written.
func (w *Worker) Process(ctx context.Context, job queue.Job) error {
	log := w.logger.With("jobID", job.ID, "ownerID", job.OwnerID,
		"kind", job.Kind, "amount", job.Amount)

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		tx, err := w.engine.Submit(ctx, job.OwnerID, job.Kind, job.Amount)
		if err == nil {
			log.Info("job completed", "txID", tx.ID, "attempt", attempt)
			return nil
		}
		if domain.IsRejection(err) || errors.Is(err, domain.ErrAccountNotFound) {
			return w.recordFailure(ctx, job, attempt, err)
		}
		lastErr = err
		if attempt < w.maxRetries {
			log.Warn("transient failure, retrying",
				"attempt", attempt, "error", err)
			select {
			case <-time.After(w.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return w.recordFailure(ctx, job, w.maxRetries, lastErr)
}

// recordFailure writes the permanent-failure record. Returning the write
// error (instead of swallowing it) keeps the job in the queue, so a failure
// is never silently dropped.
func (w *Worker) recordFailure(ctx context.Context, job queue.Job, attempts int, cause error) error {
	err := w.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		failed, err := uow.FailedJobRepository()
		if err != nil {
			return err
		}
		return failed.Create(ctx, domain.NewFailedJob(
			job.ID, job.OwnerID, job.Kind, job.Amount, attempts, cause.Error()))
	})
	if err != nil {
		w.logger.Error("failed to record permanent failure",
			"jobID", job.ID, "cause", cause, "error", err)
		return err
	}
	w.logger.Error("job permanently failed",
		"jobID", job.ID, "ownerID", job.OwnerID, "attempts", attempts, "cause", cause)
	return nil
}
