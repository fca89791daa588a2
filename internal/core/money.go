package core

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in cents. Arithmetic stays in integers; decimal is
// only used at the parsing and formatting edges.
type Money struct {
	Cents int64
}

// maxAmountCents caps a single amount at one billion. Monthly totals of
// capped amounts stay far inside int64.
const maxAmountCents = int64(100_000_000_000)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(-math.MaxInt64)

	// Plain decimal notation only; exponents never reach decimal.
	amountPattern       = regexp.MustCompile(`^[0-9]+([.,][0-9]+)?$`)
	signedAmountPattern = regexp.MustCompile(`^-?[0-9]+([.,][0-9]+)?$`)
)

// ParseAmount converts user input such as "12.34" or "12,34" to Money,
// rounding half-up to cents. Only positive amounts are accepted.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	if !amountPattern.MatchString(s) {
		return Money{}, ErrInvalidAmount
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m, err := FromDecimal(d)
	if err != nil {
		return Money{}, err
	}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// FromDecimal rounds d half away from zero to cents. Values that do not fit
// in int64 cents are rejected rather than wrapped.
func FromDecimal(d decimal.Decimal) (Money, error) {
	c := d.Mul(hundred).Round(0)
	if c.GreaterThan(maxCents) || c.LessThan(minCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: c.IntPart()}, nil
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > maxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }

// DivRound divides by n and rounds half away from zero to cents. A
// non-positive divisor yields zero.
func (m Money) DivRound(n int) Money {
	if n <= 0 {
		return Money{}
	}
	// |m/n| <= |m|, so the result always fits.
	q, _ := FromDecimal(m.Decimal().Div(decimal.NewFromInt(int64(n))))
	return q
}

// String formats with two decimals, e.g. "-12.50".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON writes a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(bytes.TrimSpace(b), `"`)
	if len(b) == 0 || string(b) == "null" {
		*m = Money{}
		return nil
	}
	return m.UnmarshalText(b)
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText accepts signed plain decimals so aggregates such as a
// negative balance round-trip. Range checks beyond int64 are left to
// Validate.
func (m *Money) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if !signedAmountPattern.MatchString(s) {
		return fmt.Errorf("amount %q: %w", b, ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return fmt.Errorf("amount %q: %w", b, ErrInvalidAmount)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return fmt.Errorf("amount %q: %w", b, err)
	}
	*m = v
	return nil
}
