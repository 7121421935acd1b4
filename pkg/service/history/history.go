// Package history serves a user's transaction list through a read-through
// cache.
package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/cache"
	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/repository"
)

// Service loads transaction history, caching results per owner. The cache is
// populated on a miss and deleted by the ledger engine on every commit, so a
// hit is always current.
type Service struct {
	uow    repository.UnitOfWork
	cache  cache.HistoryCache
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a history Service with the given cache TTL.
func New(
	uow repository.UnitOfWork,
	historyCache cache.HistoryCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{uow: uow, cache: historyCache, ttl: ttl, logger: logger}
}

// List returns the owner's transactions in insertion order.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, error) {
	log := s.logger.With("ownerID", ownerID)

	records, ok, err := s.cache.Get(ctx, ownerID)
	if err != nil {
		// Cache trouble never fails the request.
		log.Warn("history cache read failed", "error", err)
	}
	if ok {
		log.Debug("returning cached transaction history")
		return records, nil
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		records, err = txs.ListByOwner(ctx, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, ownerID, records, s.ttl); err != nil {
		log.Warn("history cache write failed", "error", err)
	} else {
		log.Debug("cached transaction history", "count", len(records))
	}
	return records, nil
}
