// Package cache defines the read-side history cache contract.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/domain"
)

// HistoryCache caches a user's transaction list keyed by owner identity.
//
// It is never the system of record: losing or corrupting an entry only costs
// a reload from the store. Invalidate must delete the entry outright rather
// than letting it age out; the ledger engine calls it after every committed
// mutation, and staleness past that point would be a correctness bug.
type HistoryCache interface {
	// Get returns the cached records and true, or ok=false on a miss.
	Get(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, bool, error)
	Set(ctx context.Context, ownerID uuid.UUID, records []*domain.Transaction, ttl time.Duration) error
	// Invalidate deletes the entry for the owner. Redundant calls are safe.
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}
