package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/money"
)

// TxKind is the type of a transaction: deposit or withdrawal.
type TxKind string

const (
	// Deposit adds funds to an account.
	Deposit TxKind = "deposit"
	// Withdrawal removes funds from an account.
	Withdrawal TxKind = "withdrawal"
)

// ParseTxKind validates a raw kind string.
func ParseTxKind(s string) (TxKind, error) {
	switch TxKind(s) {
	case Deposit:
		return Deposit, nil
	case Withdrawal:
		return Withdrawal, nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", s)
}

// String returns the kind as a string.
func (k TxKind) String() string { return string(k) }

// Transaction is the immutable record of an accepted balance mutation.
// It is never created for a rejected request; the transaction table is the
// append-only log of everything that actually happened to a balance.
type Transaction struct {
	ID        uuid.UUID   `json:"id"`
	OwnerID   uuid.UUID   `json:"owner_id"`
	Kind      TxKind      `json:"kind"`
	Amount    money.Money `json:"amount"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewTransaction creates a record for an accepted mutation. Amount is the
// absolute amount moved; the kind carries the direction.
func NewTransaction(ownerID uuid.UUID, kind TxKind, amount money.Money) *Transaction {
	return &Transaction{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTransactionFromData hydrates a Transaction from a data store.
func NewTransactionFromData(
	id, ownerID uuid.UUID,
	kind TxKind,
	amount money.Money,
	created time.Time,
) *Transaction {
	return &Transaction{
		ID:        id,
		OwnerID:   ownerID,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: created,
	}
}
