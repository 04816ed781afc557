// Package money provides the fixed-precision amount type used for all
// ledger balances. Amounts carry at most four fractional digits and all
// arithmetic is checked; callers never see silent truncation or drift.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits an amount may carry.
const Scale = 4

var (
	// ErrParse indicates malformed amount text or more fractional digits
	// than Scale permits.
	ErrParse = errors.New("invalid amount")

	// ErrOverflow indicates an arithmetic result outside the representable
	// range, or a subtraction that would go negative.
	ErrOverflow = errors.New("amount out of range")
)

// maxAmount bounds any single balance or transaction amount. Results
// beyond it are rejected rather than carried forward.
var maxAmount = decimal.New(1, 15)

// Money is an immutable fixed-precision amount. The zero value is zero.
type Money struct {
	d decimal.Decimal
}

// Parse converts amount text into Money. It is the single validated
// conversion point from external input; amounts are never constructed
// from floats.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	if d.Exponent() < -Scale {
		return Money{}, fmt.Errorf("%w: %q exceeds %d decimal places", ErrParse, s, Scale)
	}
	if d.Abs().GreaterThan(maxAmount) {
		return Money{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return Money{d: d}, nil
}

// MustParse parses s or panics. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Zero returns the zero amount.
func Zero() Money {
	return Money{}
}

// Add returns m+o, failing with ErrOverflow beyond the representable range.
func (m Money) Add(o Money) (Money, error) {
	sum := m.d.Add(o.d)
	if sum.Abs().GreaterThan(maxAmount) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrOverflow, m, o)
	}
	return Money{d: sum}, nil
}

// Sub returns m-o. A negative result is rejected with ErrOverflow; the
// callers that own balance invariants check headroom with Cmp first so
// a failure here means the invariant was already broken.
func (m Money) Sub(o Money) (Money, error) {
	diff := m.d.Sub(o.d)
	if diff.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s is negative", ErrOverflow, m, o)
	}
	return Money{d: diff}, nil
}

// Cmp returns -1, 0 or 1 comparing m against o. Comparison is exact.
func (m Money) Cmp(o Money) int {
	return m.d.Cmp(o.d)
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool {
	return m.d.IsPositive()
}

// String formats the amount at the fixed scale, e.g. "1.5000".
func (m Money) String() string {
	return m.d.StringFixed(Scale)
}

// MarshalJSON encodes the amount as a fixed-scale string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes a string amount through Parse, applying the same
// validation as any other external input.
func (m *Money) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("%w: %s", ErrParse, data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
