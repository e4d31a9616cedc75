package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount represents a monetary value.
// Uses exact base-10 arithmetic so repeated additions and subtractions never drift.
type Amount struct {
	value decimal.Decimal
}

// ZeroAmount is the additive identity.
var ZeroAmount = Amount{value: decimal.Zero}

// ParseAmount parses a decimal string such as "100", "-3.5" or "0.10".
func ParseAmount(text string) (Amount, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Amount{}, fmt.Errorf("amount value cannot be empty")
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", text, err)
	}

	return Amount{value: d}, nil
}

// MustParseAmount is like ParseAmount but panics on malformed input.
// Intended for constants and tests.
func MustParseAmount(text string) Amount {
	a, err := ParseAmount(text)
	if err != nil {
		panic(err)
	}
	return a
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value)}
}

// Cmp compares two amounts.
// Returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
func (a Amount) Cmp(b Amount) int {
	return a.value.Cmp(b.value)
}

func (a Amount) LessThan(b Amount) bool    { return a.value.LessThan(b.value) }
func (a Amount) GreaterThan(b Amount) bool { return a.value.GreaterThan(b.value) }
func (a Amount) Equal(b Amount) bool       { return a.value.Equal(b.value) }
func (a Amount) IsPositive() bool          { return a.value.IsPositive() }

// String renders the amount in plain decimal notation, keeping the scale it was
// written with ("150.00" stays "150.00").
func (a Amount) String() string {
	if exp := a.value.Exponent(); exp < 0 {
		return a.value.StringFixed(-exp)
	}
	return a.value.String()
}
