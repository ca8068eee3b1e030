package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/shopspring/decimal"
)

// MinorUnitsPerMajor is the number of cents in one currency unit
const MinorUnitsPerMajor = 100

var (
	ErrNegativeMoney      = errors.New("money amount cannot be negative")
	ErrInvalidMoneyFormat = errors.New("invalid money format")
	ErrMoneyPrecision     = errors.New("money amount has more than 2 decimal places")
	ErrMoneyOverflow      = errors.New("money amount out of range")
)

// Money is an exact currency amount stored as integer minor units (cents).
// The zero value is 0.00.
type Money struct {
	cents int64
}

// Zero is 0.00
var Zero = Money{}

// NewMoneyFromMinorUnits creates Money from a cent count
func NewMoneyFromMinorUnits(cents int64) Money {
	return Money{cents: cents}
}

// NewMoneyFromDecimal converts a decimal amount with at most two fractional digits
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	scaled := d.Shift(2)
	if !scaled.Equal(scaled.Truncate(0)) {
		return Money{}, ErrMoneyPrecision
	}
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || scaled.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Money{}, ErrMoneyOverflow
	}
	return Money{cents: scaled.IntPart()}, nil
}

// fixedPointPattern bounds the input before it reaches decimal parsing.
// Exponents are rejected; extra fractional digits still parse so the caller
// gets ErrMoneyPrecision rather than a format error.
var fixedPointPattern = regexp.MustCompile(`^-?\d{1,17}(\.\d{1,18})?$`)

// ParseMoney parses a fixed-point string such as "1020.00" or "15".
// A leading '-' is accepted; the ledger rejects non-positive amounts itself.
func ParseMoney(s string) (Money, error) {
	if !fixedPointPattern.MatchString(s) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoneyFormat, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoneyFormat, s)
	}
	return NewMoneyFromDecimal(d)
}

// MustParseMoney is ParseMoney for constants and tests; it panics on bad input
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MinorUnits returns the amount in cents
func (m Money) MinorUnits() int64 {
	return m.cents
}

// Decimal returns the amount in currency units
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.cents, -2)
}

// Add returns m + other
func (m Money) Add(other Money) (Money, error) {
	sum := m.cents + other.cents
	if (other.cents > 0 && sum < m.cents) || (other.cents < 0 && sum > m.cents) {
		return Money{}, ErrMoneyOverflow
	}
	return Money{cents: sum}, nil
}

// Sub returns m - other and fails with ErrNegativeMoney when the result is below zero
func (m Money) Sub(other Money) (Money, error) {
	if other.cents > m.cents {
		return Money{}, ErrNegativeMoney
	}
	return Money{cents: m.cents - other.cents}, nil
}

// MulRate multiplies by a rate and rounds half-to-even to the cent
func (m Money) MulRate(rate decimal.Decimal) Money {
	product := m.Decimal().Mul(rate).RoundBank(2)
	return Money{cents: product.Shift(2).IntPart()}
}

// IsPositive reports whether m > 0
func (m Money) IsPositive() bool {
	return m.cents > 0
}

// IsZero reports whether m == 0
func (m Money) IsZero() bool {
	return m.cents == 0
}

// IsNegative reports whether m < 0
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// Equal reports whether both amounts are the same
func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// Cmp returns -1, 0 or 1
func (m Money) Cmp(other Money) int {
	switch {
	case m.cents < other.cents:
		return -1
	case m.cents > other.cents:
		return 1
	default:
		return 0
	}
}

// LessThan reports whether m < other
func (m Money) LessThan(other Money) bool {
	return m.cents < other.cents
}

// GreaterThan reports whether m > other
func (m Money) GreaterThan(other Money) bool {
	return m.cents > other.cents
}

// ToDecimalString renders the amount with exactly two fractional digits
func (m Money) ToDecimalString() string {
	return m.Decimal().StringFixed(2)
}

// String implements fmt.Stringer
func (m Money) String() string {
	return m.ToDecimalString()
}

// MarshalJSON encodes Money as a decimal string
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToDecimalString())
}

// UnmarshalJSON accepts a decimal string; JSON numbers are rejected to keep floats off the wire
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: amounts must be strings", ErrInvalidMoneyFormat)
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer; amounts are stored as bigint cents
func (m Money) Value() (driver.Value, error) {
	return m.cents, nil
}

// Scan implements sql.Scanner
func (m *Money) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		m.cents = 0
	case int64:
		m.cents = v
	case int32:
		m.cents = int64(v)
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
	return nil
}

func (m *Money) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("cannot scan %q into Money: %w", s, err)
	}
	if !d.Equal(d.Truncate(0)) {
		return fmt.Errorf("cannot scan %q into Money: fractional cents", s)
	}
	m.cents = d.IntPart()
	return nil
}
