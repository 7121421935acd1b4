package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	repo "github.com/ksoliman/banksim/pkg/repository"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository bound to the
// given session.
func NewTransactionRepository(db *gorm.DB) repo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	row := Transaction{
		ID:        tx.ID,
		OwnerID:   tx.OwnerID,
		Kind:      tx.Kind.String(),
		Amount:    tx.Amount.Cents(),
		CreatedAt: tx.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *transactionRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, error) {
	var rows []Transaction
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, mapTransaction(&rows[i]))
	}
	return out, nil
}

func mapTransaction(row *Transaction) *domain.Transaction {
	return domain.NewTransactionFromData(
		row.ID, row.OwnerID, domain.TxKind(row.Kind),
		money.FromCents(row.Amount), row.CreatedAt)
}
