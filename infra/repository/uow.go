package repository

import (
	"context"

	"gorm.io/gorm"

	repo "github.com/ksoliman/banksim/pkg/repository"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repositories handed out inside Do are bound to the open
// transaction, so everything done through them commits or rolls back
// together — including the release of any row locks taken with
// GetByOwnerForUpdate.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs fn inside a database transaction. A nil return commits; an error
// or panic rolls back.
func (u *UoW) Do(ctx context.Context, fn func(uow repo.UnitOfWork) error) error {
	if u.tx != nil {
		// Already inside a transaction: join it.
		return fn(u)
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// AccountRepository returns the account repository for the current session.
func (u *UoW) AccountRepository() (repo.AccountRepository, error) {
	return NewAccountRepository(u.session()), nil
}

// TransactionRepository returns the transaction repository for the current
// session.
func (u *UoW) TransactionRepository() (repo.TransactionRepository, error) {
	return NewTransactionRepository(u.session()), nil
}

// UserRepository returns the user repository for the current session.
func (u *UoW) UserRepository() (repo.UserRepository, error) {
	return NewUserRepository(u.session()), nil
}

// FailedJobRepository returns the failed-job repository for the current
// session.
func (u *UoW) FailedJobRepository() (repo.FailedJobRepository, error) {
	return NewFailedJobRepository(u.session()), nil
}

var _ repo.UnitOfWork = (*UoW)(nil)
