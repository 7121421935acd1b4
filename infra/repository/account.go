package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	repo "github.com/ksoliman/banksim/pkg/repository"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates an account repository bound to the given
// session. Inside a unit of work the session is the open transaction.
func NewAccountRepository(db *gorm.DB) repo.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, acct *domain.Account) error {
	row := Account{
		ID:        acct.ID,
		OwnerID:   acct.OwnerID,
		Balance:   acct.Balance.Cents(),
		CreatedAt: acct.CreatedAt,
		UpdatedAt: acct.UpdatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *accountRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).First(&row, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapAccount(&row), nil
}

// GetByOwnerForUpdate takes the row lock (SELECT ... FOR UPDATE). The lock is
// held until the enclosing transaction commits or rolls back, which is what
// serializes concurrent mutations per account.
func (r *accountRepository) GetByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	var row Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&row, "owner_id = ?", ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return mapAccount(&row), nil
}

// AdjustBalance applies balance = balance + delta in the store, so the
// update is atomic relative to concurrent readers.
func (r *accountRepository) AdjustBalance(ctx context.Context, ownerID uuid.UUID, delta money.Money) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("owner_id = ?", ownerID).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta.Cents()))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func mapAccount(row *Account) *domain.Account {
	return domain.NewAccountFromData(
		row.ID, row.OwnerID, money.FromCents(row.Balance), row.CreatedAt, row.UpdatedAt)
}
