// Package domain holds the entities and pure decision logic of the
// transaction simulation: accounts, transaction records, users, and the
// validator that accepts or rejects a balance mutation.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/money"
)

// DefaultCeiling is the maximum allowed balance after a deposit: 500.00.
var DefaultCeiling = money.FromCents(50000)

// Account is a user's single balance-bearing account.
//
// Invariants:
//   - Exactly one account per owner identity, created at registration.
//   - Balance is never negative and never exceeds the ceiling after a
//     deposit.
//   - Balance is only ever changed by the ledger engine while holding the
//     account's row lock.
type Account struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Balance   money.Money
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates a zero-balance account for the given owner.
func NewAccount(ownerID uuid.UUID) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Balance:   money.Zero(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewAccountFromData hydrates an Account from a data store.
func NewAccountFromData(
	id, ownerID uuid.UUID,
	balance money.Money,
	created, updated time.Time,
) *Account {
	return &Account{
		ID:        id,
		OwnerID:   ownerID,
		Balance:   balance,
		CreatedAt: created,
		UpdatedAt: updated,
	}
}
