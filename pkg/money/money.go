// Package money provides a fixed-point representation of monetary values.
//
// It is a value object: amounts are stored as an integer number of cents, so
// arithmetic is exact and two values representing the same amount compare
// equal. The simulation runs in a single currency, so no currency code is
// carried.
package money

import (
	"encoding/json"
	"fmt"
	"math"
)

var (
	// ErrInvalidAmount is returned when a float cannot be represented
	// as a monetary amount (NaN or infinite).
	ErrInvalidAmount = fmt.Errorf("invalid amount float")

	// ErrAmountExceedsMaxSafeInt is returned when an amount does not fit
	// in the smallest-unit integer representation.
	ErrAmountExceedsMaxSafeInt = fmt.Errorf("amount exceeds maximum safe integer value")
)

// Money represents a monetary value as an integer number of cents.
// The zero value is a valid amount of 0.00.
type Money struct {
	cents int64
}

// NewFromFloat converts a float amount in major units (e.g. 12.34) to Money,
// rounding to the nearest cent.
func NewFromFloat(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, ErrInvalidAmount
	}
	cents := math.Round(amount * 100)
	if cents > math.MaxInt64/2 || cents < math.MinInt64/2 {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{cents: int64(cents)}, nil
}

// FromCents constructs Money from a smallest-unit amount. It is intended for
// hydrating values from a data store or for test setup.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// Zero returns a Money value of 0.00.
func Zero() Money { return Money{} }

// Cents returns the amount in the smallest currency unit.
func (m Money) Cents() int64 { return m.cents }

// Float64 returns the amount in major units. Intended for presentation only;
// comparisons and arithmetic must use the integer representation.
func (m Money) Float64() float64 { return float64(m.cents) / 100 }

// Add returns the sum of two amounts.
func (m Money) Add(other Money) (Money, error) {
	sum := m.cents + other.cents
	if (other.cents > 0 && sum < m.cents) || (other.cents < 0 && sum > m.cents) {
		return Money{}, ErrAmountExceedsMaxSafeInt
	}
	return Money{cents: sum}, nil
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) (Money, error) {
	return m.Add(other.Negate())
}

// Negate returns the amount with its sign flipped.
func (m Money) Negate() Money { return Money{cents: -m.cents} }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.cents > 0 }

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool { return m.cents < 0 }

// Equals reports whether two amounts are the same.
func (m Money) Equals(other Money) bool { return m.cents == other.cents }

// GreaterThan reports whether m is strictly greater than other.
func (m Money) GreaterThan(other Money) bool { return m.cents > other.cents }

// LessThan reports whether m is strictly less than other.
func (m Money) LessThan(other Money) bool { return m.cents < other.cents }

// MarshalJSON encodes the amount as its smallest-unit integer.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.cents)
}

// UnmarshalJSON decodes a smallest-unit integer amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	var cents int64
	if err := json.Unmarshal(data, &cents); err != nil {
		return err
	}
	m.cents = cents
	return nil
}

// String formats the amount with two decimal places, e.g. "123.45".
func (m Money) String() string {
	sign := ""
	cents := m.cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
