package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/cache"
	"github.com/ksoliman/banksim/pkg/domain"
)

type memoryEntry struct {
	records   []*domain.Transaction
	expiresAt time.Time
}

// MemoryHistoryCache implements cache.HistoryCache in process memory. Used
// in tests and single-node development setups.
type MemoryHistoryCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]memoryEntry
}

// NewMemoryHistoryCache creates an empty in-memory cache.
func NewMemoryHistoryCache() *MemoryHistoryCache {
	return &MemoryHistoryCache{entries: make(map[uuid.UUID]memoryEntry)}
}

// Get returns the cached history, treating expired entries as misses.
func (c *MemoryHistoryCache) Get(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[ownerID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.records, true, nil
}

// Set stores the history with the given TTL.
func (c *MemoryHistoryCache) Set(
	ctx context.Context,
	ownerID uuid.UUID,
	records []*domain.Transaction,
	ttl time.Duration,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[ownerID] = memoryEntry{records: records, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Invalidate deletes the entry.
func (c *MemoryHistoryCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, ownerID)
	return nil
}

var _ cache.HistoryCache = (*MemoryHistoryCache)(nil)
