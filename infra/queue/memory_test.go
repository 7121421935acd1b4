package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	"github.com/ksoliman/banksim/pkg/queue"
)

func TestMemoryQueue_DeliversInOrder(t *testing.T) {
	q := NewMemoryQueue(8)
	first := queue.NewJob(uuid.New(), domain.Deposit, money.FromCents(1))
	second := queue.NewJob(uuid.New(), domain.Withdrawal, money.FromCents(2))

	require.NoError(t, q.Enqueue(context.Background(), first))
	require.NoError(t, q.Enqueue(context.Background(), second))
	assert.Equal(t, 2, q.Len())

	ctx, cancel := context.WithCancel(context.Background())
	var got []uuid.UUID
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(ctx context.Context, job queue.Job) error {
			got = append(got, job.ID)
			if len(got) == 2 {
				cancel()
			}
			return nil
		})
	}()

	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, []uuid.UUID{first.ID, second.ID}, got)
	assert.Equal(t, 0, q.Len())
}

func TestMemoryQueue_HandlerErrorRedelivers(t *testing.T) {
	q := NewMemoryQueue(8)
	job := queue.NewJob(uuid.New(), domain.Deposit, money.FromCents(1))
	require.NoError(t, q.Enqueue(context.Background(), job))

	ctx, cancel := context.WithCancel(context.Background())
	deliveries := 0
	done := make(chan error, 1)
	go func() {
		done <- q.Consume(ctx, func(ctx context.Context, j queue.Job) error {
			deliveries++
			if deliveries == 1 {
				return errors.New("not yet recorded")
			}
			cancel()
			return nil
		})
	}()

	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 2, deliveries, "an unacknowledged job comes back")
}

func TestMemoryQueue_EnqueueBlockedByFullBuffer(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Enqueue(context.Background(), queue.NewJob(uuid.New(), domain.Deposit, money.FromCents(1))))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, queue.NewJob(uuid.New(), domain.Deposit, money.FromCents(2)))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
