// Package queue implements the transaction queue on Redis Streams and in
// memory.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksoliman/banksim/pkg/config"
	"github.com/ksoliman/banksim/pkg/queue"
)

// RedisQueue implements queue.Queue and queue.Consumer on a Redis stream
// with a consumer group. Messages are acknowledged only after the handler
// returns nil, which gives the pipeline at-least-once execution.
type RedisQueue struct {
	client *redis.Client
	stream string
	group  string
	logger *slog.Logger
}

// NewRedisQueue creates the queue and ensures the stream and consumer group
// exist.
func NewRedisQueue(client *redis.Client, cfg *config.Queue, logger *slog.Logger) *RedisQueue {
	q := &RedisQueue{
		client: client,
		stream: cfg.Stream,
		group:  cfg.Group,
		logger: logger.With("component", "redis-queue"),
	}
	// BUSYGROUP on re-create is fine.
	_ = client.XGroupCreateMkStream(context.Background(), q.stream, q.group, "0")
	return q
}

// Enqueue appends the job to the stream.
func (q *RedisQueue) Enqueue(ctx context.Context, job queue.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redis queue: marshal job: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]any{"job": string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("redis queue: enqueue: %w", err)
	}
	q.logger.Debug("job enqueued", "jobID", job.ID, "stream", q.stream)
	return nil
}

// Consume reads jobs from the consumer group until ctx is cancelled. Within
// one consumer, jobs are handled in stream order, so requests for the same
// owner are processed in enqueue order.
func (q *RedisQueue) Consume(ctx context.Context, handler func(ctx context.Context, job queue.Job) error) error {
	consumer := fmt.Sprintf("worker-%d", time.Now().UnixNano())
	q.logger.Info("consuming", "stream", q.stream, "group", q.group, "consumer", consumer)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    q.group,
			Consumer: consumer,
			Streams:  []string{q.stream, ">"},
			Count:    1,
			Block:    5 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			if !errors.Is(err, redis.Nil) {
				q.logger.Error("stream read failed", "error", err)
				time.Sleep(time.Second)
			}
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				raw, ok := msg.Values["job"].(string)
				if !ok {
					q.logger.Warn("malformed message dropped", "msgID", msg.ID)
					q.ack(ctx, msg.ID)
					continue
				}
				var job queue.Job
				if err := json.Unmarshal([]byte(raw), &job); err != nil {
					q.logger.Error("job unmarshal failed", "msgID", msg.ID, "error", err)
					q.ack(ctx, msg.ID)
					continue
				}
				if err := handler(ctx, job); err != nil {
					// Left unacknowledged for redelivery.
					q.logger.Error("handler failed, job left pending",
						"jobID", job.ID, "error", err)
					continue
				}
				q.ack(ctx, msg.ID)
			}
		}
	}
}

func (q *RedisQueue) ack(ctx context.Context, msgID string) {
	if err := q.client.XAck(ctx, q.stream, q.group, msgID).Err(); err != nil {
		q.logger.Error("ack failed", "msgID", msgID, "error", err)
	}
}

var (
	_ queue.Queue    = (*RedisQueue)(nil)
	_ queue.Consumer = (*RedisQueue)(nil)
)
