package domain

import "github.com/ksoliman/banksim/pkg/money"

// ValidateTransaction decides whether a mutation of the given kind and amount
// may be applied to a balance, and returns the signed delta to apply:
// +amount for an accepted deposit, -amount for an accepted withdrawal.
//
// The function is pure and deterministic so the synchronous path and the
// async worker can run the identical decision without double effects:
//   - amount must be strictly positive (ErrInvalidAmount),
//   - a withdrawal must not exceed the current balance
//     (ErrInsufficientFunds),
//   - a deposit must not push the balance over the ceiling
//     (ErrLimitExceeded; the post-deposit balance is compared).
func ValidateTransaction(
	balance money.Money,
	kind TxKind,
	amount money.Money,
	ceiling money.Money,
) (money.Money, error) {
	if !amount.IsPositive() {
		return money.Zero(), ErrInvalidAmount
	}
	switch kind {
	case Withdrawal:
		if balance.LessThan(amount) {
			return money.Zero(), ErrInsufficientFunds
		}
		return amount.Negate(), nil
	case Deposit:
		after, err := balance.Add(amount)
		if err != nil {
			return money.Zero(), ErrInvalidAmount
		}
		if after.GreaterThan(ceiling) {
			return money.Zero(), ErrLimitExceeded
		}
		return amount, nil
	}
	return money.Zero(), ErrInvalidAmount
}
