package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infracache "github.com/ksoliman/banksim/infra/cache"
	infraqueue "github.com/ksoliman/banksim/infra/queue"
	"github.com/ksoliman/banksim/internal/fixtures/memuow"
	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	"github.com/ksoliman/banksim/pkg/queue"
	"github.com/ksoliman/banksim/pkg/service/ledger"
	"github.com/ksoliman/banksim/pkg/worker"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(t *testing.T, consumer queue.Consumer) (*worker.Worker, *memuow.Store) {
	t.Helper()
	store := memuow.New()
	engine := ledger.New(store, infracache.NewMemoryHistoryCache(), nil, money.FromCents(50000), discard())
	cfg := &config.Worker{MaxRetries: 3, Backoff: time.Millisecond}
	return worker.New(consumer, engine, store, cfg, discard()), store
}

func TestProcess_AppliesJob(t *testing.T) {
	w, store := newTestWorker(t, nil)
	ownerID := uuid.New()
	store.SeedAccount(ownerID, money.Zero())
	job := queue.NewJob(ownerID, domain.Deposit, money.FromCents(5000))

	err := w.Process(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), store.Balance(ownerID).Cents())
	assert.Len(t, store.Transactions(), 1)
	assert.Empty(t, store.FailedJobs())
}

func TestProcess_RejectionFailsImmediately(t *testing.T) {
	w, store := newTestWorker(t, nil)
	ownerID := uuid.New()
	store.SeedAccount(ownerID, money.Zero())
	job := queue.NewJob(ownerID, domain.Withdrawal, money.FromCents(100))

	err := w.Process(context.Background(), job)
	require.NoError(t, err, "a recorded failure acknowledges the job")

	failed := store.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, job.ID, failed[0].JobID)
	assert.Equal(t, 1, failed[0].Attempts, "rejections are terminal, no retry")
	assert.Contains(t, failed[0].LastError, domain.ErrInsufficientFunds.Error())
	assert.Empty(t, store.Transactions())
	assert.Equal(t, int64(0), store.Balance(ownerID).Cents())
}

func TestProcess_MissingAccountFailsImmediately(t *testing.T) {
	w, store := newTestWorker(t, nil)
	job := queue.NewJob(uuid.New(), domain.Deposit, money.FromCents(100))

	err := w.Process(context.Background(), job)
	require.NoError(t, err)

	failed := store.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Attempts)
}

func TestProcess_TransientFailureRetriesThenSucceeds(t *testing.T) {
	w, store := newTestWorker(t, nil)
	ownerID := uuid.New()
	store.SeedAccount(ownerID, money.Zero())
	store.FailNextAdjusts(2)
	job := queue.NewJob(ownerID, domain.Deposit, money.FromCents(100))

	err := w.Process(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, int64(100), store.Balance(ownerID).Cents())
	assert.Len(t, store.Transactions(), 1, "retries must not duplicate the transaction")
	assert.Empty(t, store.FailedJobs())
}

func TestProcess_TransientFailureExhaustsRetries(t *testing.T) {
	w, store := newTestWorker(t, nil)
	ownerID := uuid.New()
	store.SeedAccount(ownerID, money.Zero())
	store.FailNextAdjusts(3)
	job := queue.NewJob(ownerID, domain.Deposit, money.FromCents(100))

	err := w.Process(context.Background(), job)
	require.NoError(t, err)

	failed := store.FailedJobs()
	require.Len(t, failed, 1)
	assert.Equal(t, 3, failed[0].Attempts)
	assert.Equal(t, int64(0), store.Balance(ownerID).Cents())
	assert.Empty(t, store.Transactions())
}

func TestProcess_CancelledDuringBackoff(t *testing.T) {
	w, store := newTestWorker(t, nil)
	ownerID := uuid.New()
	store.SeedAccount(ownerID, money.Zero())
	store.FailNextAdjusts(3)
	job := queue.NewJob(ownerID, domain.Deposit, money.FromCents(100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := w.Process(ctx, job)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_ConsumesFromQueue(t *testing.T) {
	q := infraqueue.NewMemoryQueue(8)
	w, store := newTestWorker(t, q)
	ownerID := uuid.New()
	store.SeedAccount(ownerID, money.Zero())

	require.NoError(t, q.Enqueue(context.Background(), queue.NewJob(ownerID, domain.Deposit, money.FromCents(700))))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		return store.Balance(ownerID).Cents() == 700
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Len(t, store.Transactions(), 1)
}
