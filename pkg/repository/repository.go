// Package repository defines the data-access contracts consumed by the
// service layer. Implementations live in infra/repository.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
)

// AccountRepository defines data access for accounts.
//
// GetByOwnerForUpdate acquires an exclusive row lock on the owner's account
// for the duration of the enclosing unit of work; concurrent callers for the
// same owner block until the lock is released at commit or rollback.
// AdjustBalance applies balance += delta atomically in the store and must
// only be called while holding that lock.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)
	GetByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)
	AdjustBalance(ctx context.Context, ownerID uuid.UUID, delta money.Money) error
}

// TransactionRepository defines data access for the append-only transaction
// log. Records are immutable once created.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, identity string) (*domain.User, error)
}

// FailedJobRepository records permanently failed async jobs so operators can
// inspect them.
type FailedJobRepository interface {
	Create(ctx context.Context, job *domain.FailedJob) error
	List(ctx context.Context) ([]*domain.FailedJob, error)
}

// UnitOfWork provides a transaction boundary and repository access in one
// abstraction. All repositories obtained inside Do share the same store
// session, so every operation in the closure commits or rolls back as one.
type UnitOfWork interface {
	// Do runs fn inside a transaction. A nil return commits; any error
	// rolls back everything done through the passed UnitOfWork.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	UserRepository() (UserRepository, error)
	FailedJobRepository() (FailedJobRepository, error)
}
