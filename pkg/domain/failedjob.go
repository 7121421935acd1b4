package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/money"
)

// FailedJob records a queued transaction request that reached a terminal
// failure in the async pipeline: either a validator rejection, a missing
// account, or retry exhaustion on transient errors. Writing the record is
// what makes the failure operator-visible instead of silently dropped.
type FailedJob struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	OwnerID   uuid.UUID
	Kind      TxKind
	Amount    money.Money
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// NewFailedJob creates a failure record for the given job payload.
func NewFailedJob(
	jobID, ownerID uuid.UUID,
	kind TxKind,
	amount money.Money,
	attempts int,
	lastError string,
) *FailedJob {
	return &FailedJob{
		ID:        uuid.New(),
		JobID:     jobID,
		OwnerID:   ownerID,
		Kind:      kind,
		Amount:    amount,
		Attempts:  attempts,
		LastError: lastError,
		CreatedAt: time.Now().UTC(),
	}
}
