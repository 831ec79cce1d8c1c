package kernel

import (
	"fmt"

	"voiceorder/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a value object for monetary amounts: item prices, order totals,
// and refunds. It wraps shopspring/decimal so arithmetic on prices never goes
// through binary floating point.
//
// Money is currency-free; all amounts in the system are rupees. The zero
// value is a valid zero amount. Negative amounts are rejected at
// construction.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money from a decimal amount. Returns an error for
// negative amounts.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s is negative", amount.String()),
		)
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromFloat creates a Money from a float value such as a configured
// fee. Precision is bounded by decimal.NewFromFloat.
func NewMoneyFromFloat(amount float64) (Money, error) {
	return NewMoney(decimal.NewFromFloat(amount))
}

// MoneyFromString parses a decimal string such as "299.00".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// MulQuantity returns the amount multiplied by an item quantity.
func (m Money) MulQuantity(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity)))}
}

// Sub returns the difference of two amounts, floored at zero. Refund
// computation must never produce a negative payout.
func (m Money) Sub(other Money) Money {
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{amount: decimal.Zero}
	}
	return Money{amount: result}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual reports whether two amounts are numerically equal.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal exposes the underlying decimal value for persistence mapping.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String returns the amount with two decimal places, e.g. "299.00".
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
