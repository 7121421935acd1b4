package domain

import "errors"

var (
	// ErrAccountNotFound is returned when no account exists for a known
	// owner identity. Every user gets an account at registration, so this
	// signals a broken setup invariant rather than a user error.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAmount is returned when a transaction amount is not
	// strictly positive.
	ErrInvalidAmount = errors.New("transaction amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal would drive the
	// balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded is returned when a deposit would push the balance
	// over the configured ceiling.
	ErrLimitExceeded = errors.New("account balance limit exceeded")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken is returned when registering with a username or
	// email that already exists.
	ErrUsernameTaken = errors.New("username or email already taken")
)

// IsRejection reports whether err is a validator rejection. Rejections are
// deterministic decisions: retrying with the same inputs cannot change the
// outcome, so the async pipeline must never retry them.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrLimitExceeded)
}
