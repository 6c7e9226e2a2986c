package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable (amount, currency) pair. Amount is expressed in
// integer minor units (e.g. cents, fen) and is never negative.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// minorUnitExponent is the number of decimal digits between the major unit
// and the minor unit for all supported currencies.
const minorUnitExponent = 2

func New(amount int64, currency string) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("money amount must not be negative, got %d", amount)
	}
	if currency == "" {
		return Money{}, fmt.Errorf("money currency must not be empty")
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MustNew panics on invalid input. Meant for constants and tests.
func MustNew(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseText converts a major-unit decimal literal such as "100.00" into
// minor units. It fails on negative values and non-numeric text.
func ParseText(text, currency string) (Money, error) {
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Money{}, fmt.Errorf("invalid money literal %q: %w", text, err)
	}
	minor := d.Shift(minorUnitExponent)
	if !minor.IsInteger() {
		return Money{}, fmt.Errorf("money literal %q has sub-minor-unit precision", text)
	}
	return New(minor.IntPart(), currency)
}

// DecimalText renders the amount in major units, e.g. 10000 -> "100.00".
func (m Money) DecimalText() string {
	return decimal.New(m.Amount, 0).Shift(-minorUnitExponent).StringFixed(minorUnitExponent)
}

func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

func (m Money) LessThan(other Money) bool {
	return m.Currency == other.Currency && m.Amount < other.Amount
}

func (m Money) GreaterThan(other Money) bool {
	return m.Currency == other.Currency && m.Amount > other.Amount
}

func (m Money) IsZero() bool {
	return m.Amount == 0
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.DecimalText(), m.Currency)
}
