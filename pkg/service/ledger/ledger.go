// Package ledger implements the balance mutation engine: the single
// authoritative entry point for changing an account balance.
//
// Every mutation runs as one unit of work: lock the account row, validate
// against the current balance, adjust the balance, append the transaction
// record, commit. A rejection aborts the whole unit of work, so no partial
// state is ever visible. The history cache is invalidated only after the
// commit succeeds; a failed invalidation is logged, never rolled back, since
// cache staleness is a lesser fault than losing a committed transaction.
//
// The engine is invoked directly by the web API (synchronous path) and by
// the queue worker (deferred path), so validation logic exists exactly once.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/cache"
	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	"github.com/ksoliman/banksim/pkg/queue"
	"github.com/ksoliman/banksim/pkg/repository"
)

// Service orchestrates balance mutations.
type Service struct {
	uow     repository.UnitOfWork
	cache   cache.HistoryCache
	queue   queue.Queue
	ceiling money.Money
	logger  *slog.Logger
}

// New creates a ledger Service. The queue may be nil when the deferred path
// is not wired (e.g. the worker process, which only executes jobs).
func New(
	uow repository.UnitOfWork,
	historyCache cache.HistoryCache,
	q queue.Queue,
	ceiling money.Money,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:     uow,
		cache:   historyCache,
		queue:   q,
		ceiling: ceiling,
		logger:  logger,
	}
}

// Submit applies a transaction synchronously and returns the created record.
//
// The unit of work serializes concurrent submissions per owner through the
// account row lock: validation and adjustment happen while holding it, so a
// lost update is impossible. Rejections (ErrInvalidAmount,
// ErrInsufficientFunds, ErrLimitExceeded) and ErrAccountNotFound roll back
// and propagate; anything else is a transient store failure the caller may
// retry.
func (s *Service) Submit(
	ctx context.Context,
	ownerID uuid.UUID,
	kind domain.TxKind,
	amount money.Money,
) (tx *domain.Transaction, err error) {
	log := s.logger.With("ownerID", ownerID, "kind", kind, "amount", amount)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetByOwnerForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		delta, err := domain.ValidateTransaction(acct.Balance, kind, amount, s.ceiling)
		if err != nil {
			return err
		}
		if err := accounts.AdjustBalance(ctx, ownerID, delta); err != nil {
			return fmt.Errorf("adjust balance: %w", err)
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		tx = domain.NewTransaction(ownerID, kind, amount)
		if err := txs.Create(ctx, tx); err != nil {
			return fmt.Errorf("create transaction record: %w", err)
		}
		return nil
	})
	if err != nil {
		if domain.IsRejection(err) {
			log.Info("transaction rejected", "reason", err)
		} else {
			log.Error("transaction failed", "error", err)
		}
		return nil, err
	}

	// Post-commit hook: the committed mutation stands even if this fails.
	if err := s.cache.Invalidate(ctx, ownerID); err != nil {
		log.Warn("history cache invalidation failed", "error", err)
	}

	log.Info("transaction applied", "txID", tx.ID)
	return tx, nil
}

// SubmitAsync enqueues the request for the completion pipeline and returns
// the job ID as a pending acknowledgment. No validation happens here beyond
// serializing the payload; the worker validates against the balance current
// at execution time.
func (s *Service) SubmitAsync(
	ctx context.Context,
	ownerID uuid.UUID,
	kind domain.TxKind,
	amount money.Money,
) (uuid.UUID, error) {
	if s.queue == nil {
		return uuid.Nil, fmt.Errorf("deferred submissions not configured")
	}
	job := queue.NewJob(ownerID, kind, amount)
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("enqueue failed", "ownerID", ownerID, "error", err)
		return uuid.Nil, fmt.Errorf("enqueue transaction: %w", err)
	}
	s.logger.Info("transaction enqueued",
		"jobID", job.ID, "ownerID", ownerID, "kind", kind, "amount", amount)
	return job.ID, nil
}

// Balance returns the owner's current balance as a point-in-time read, with
// no lock held.
func (s *Service) Balance(ctx context.Context, ownerID uuid.UUID) (balance money.Money, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := accounts.GetByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		balance = acct.Balance
		return nil
	})
	return balance, err
}
