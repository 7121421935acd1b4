package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	repo "github.com/ksoliman/banksim/pkg/repository"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func accountRows(ownerID uuid.UUID, balance int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at", "updated_at"}).
		AddRow(uuid.New(), ownerID, balance, now, now)
}

func TestAccountRepository_GetByOwnerForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	accRepo := accountRepository{db: db}
	ownerID := uuid.New()

	// The row lock must be requested in the statement itself.
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE owner_id = \$1 ORDER BY "accounts"."id" LIMIT \$2 FOR UPDATE`).
		WithArgs(ownerID, 1).
		WillReturnRows(accountRows(ownerID, 12345))

	acct, err := accRepo.GetByOwnerForUpdate(context.Background(), ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, acct.OwnerID)
	assert.Equal(t, int64(12345), acct.Balance.Cents())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByOwner_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	accRepo := accountRepository{db: db}
	ownerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WithArgs(ownerID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "balance", "created_at", "updated_at"}))

	_, err := accRepo.GetByOwner(context.Background(), ownerID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	db, mock := newMockDB(t)
	accRepo := accountRepository{db: db}
	ownerID := uuid.New()

	// The delta is applied in the store, not read-modify-written here.
	mock.ExpectExec(`UPDATE "accounts" SET "balance"=balance \+ \$1 WHERE owner_id = \$2`).
		WithArgs(int64(-2500), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := accRepo.AdjustBalance(context.Background(), ownerID, money.FromCents(-2500))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_AdjustBalance_NoRow(t *testing.T) {
	db, mock := newMockDB(t)
	accRepo := accountRepository{db: db}
	ownerID := uuid.New()

	mock.ExpectExec(`UPDATE "accounts"`).
		WithArgs(int64(100), ownerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := accRepo.AdjustBalance(context.Background(), ownerID, money.FromCents(100))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestTransactionRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	txRepo := transactionRepository{db: db}
	tx := domain.NewTransaction(uuid.New(), domain.Deposit, money.FromCents(500))

	mock.ExpectExec(`INSERT INTO "transactions" (.+) VALUES (.+)`).
		WithArgs(tx.ID, tx.OwnerID, "deposit", int64(500), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, txRepo.Create(context.Background(), tx))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_ListByOwner(t *testing.T) {
	db, mock := newMockDB(t)
	txRepo := transactionRepository{db: db}
	ownerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE owner_id = \$1 ORDER BY created_at asc`).
		WithArgs(ownerID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "kind", "amount", "created_at"}).
			AddRow(uuid.New(), ownerID, "deposit", int64(500), now.Add(-time.Minute)).
			AddRow(uuid.New(), ownerID, "withdrawal", int64(200), now))

	txs, err := txRepo.ListByOwner(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.Deposit, txs[0].Kind)
	assert.Equal(t, int64(500), txs[0].Amount.Cents())
	assert.Equal(t, domain.Withdrawal, txs[1].Kind)
}

func TestUserRepository_GetByUsernameOrEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	usrRepo := userRepository{db: db}

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WithArgs("ghost", "ghost", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := usrRepo.GetByUsernameOrEmail(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestFailedJobRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	fjRepo := failedJobRepository{db: db}
	job := domain.NewFailedJob(uuid.New(), uuid.New(), domain.Withdrawal,
		money.FromCents(100), 3, "simulated")

	mock.ExpectExec(`INSERT INTO "failed_jobs" (.+) VALUES (.+)`).
		WithArgs(job.ID, job.JobID, job.OwnerID, "withdrawal", int64(100), 3, "simulated", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, fjRepo.Create(context.Background(), job))
}

func TestUoW_Do_CommitsOnNil(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)
	tx := domain.NewTransaction(uuid.New(), domain.Deposit, money.FromCents(100))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "transactions"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(u repo.UnitOfWork) error {
		txs, err := u.TransactionRepository()
		require.NoError(t, err)
		return txs.Create(context.Background(), tx)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_Do_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("validation rejected")
	err := uow.Do(context.Background(), func(u repo.UnitOfWork) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_Do_NestedJoinsTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	// Exactly one begin/commit pair even with nesting.
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(outer repo.UnitOfWork) error {
		return outer.Do(context.Background(), func(inner repo.UnitOfWork) error {
			return nil
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
