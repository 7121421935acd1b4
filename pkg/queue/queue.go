// Package queue defines the contract between the API layer and the async
// completion pipeline.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
)

// Job is the full payload of a deferred transaction request. It carries
// everything the worker needs to re-run the ledger engine later; the balance
// is deliberately not captured, since the worker validates against the
// balance current at execution time.
type Job struct {
	ID         uuid.UUID     `json:"id"`
	OwnerID    uuid.UUID     `json:"owner_id"`
	Kind       domain.TxKind `json:"kind"`
	Amount     money.Money   `json:"amount"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
}

// NewJob builds a Job for the given request.
func NewJob(ownerID uuid.UUID, kind domain.TxKind, amount money.Money) Job {
	return Job{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Kind:       kind,
		Amount:     amount,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Queue accepts jobs for later execution with at-least-once delivery.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Consumer delivers enqueued jobs to a handler. Consume blocks until ctx is
// cancelled; a job is acknowledged once the handler returns nil, so handlers
// must convert terminal failures into durable records rather than errors if
// they do not want redelivery.
type Consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, job Job) error) error
}
