package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
)

func TestMemoryHistoryCache_SetGetInvalidate(t *testing.T) {
	c := NewMemoryHistoryCache()
	ownerID := uuid.New()
	records := []*domain.Transaction{
		domain.NewTransaction(ownerID, domain.Deposit, money.FromCents(100)),
	}

	_, ok, err := c.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(context.Background(), ownerID, records, time.Minute))

	got, ok, err := c.Get(context.Background(), ownerID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got, 1)

	require.NoError(t, c.Invalidate(context.Background(), ownerID))

	_, ok, err = c.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryHistoryCache_Expiry(t *testing.T) {
	c := NewMemoryHistoryCache()
	ownerID := uuid.New()

	require.NoError(t, c.Set(context.Background(), ownerID, nil, 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	_, ok, err := c.Get(context.Background(), ownerID)
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are misses")
}

func TestMemoryHistoryCache_OwnersAreIsolated(t *testing.T) {
	c := NewMemoryHistoryCache()
	a, b := uuid.New(), uuid.New()

	require.NoError(t, c.Set(context.Background(), a, nil, time.Minute))
	require.NoError(t, c.Set(context.Background(), b, nil, time.Minute))
	require.NoError(t, c.Invalidate(context.Background(), a))

	_, ok, _ := c.Get(context.Background(), a)
	assert.False(t, ok)
	_, ok, _ = c.Get(context.Background(), b)
	assert.True(t, ok)
}
