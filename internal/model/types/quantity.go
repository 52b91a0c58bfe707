package types

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/pkg/exception"
)

// Quantity is a non-negative fixed-point value.
type Quantity struct {
	raw       int64
	precision uint8
}

// NewQuantity rounds v half-to-even at precision.
func NewQuantity(v float64, precision uint8) (Quantity, error) {
	if v < 0 {
		return Quantity{}, errors.Wrapf(exception.ErrNegativeQuantity, "value %v", v)
	}
	raw, err := float64ToRaw(v, precision)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// NewQuantityFromDecimal rounds d half-to-even at precision.
func NewQuantityFromDecimal(d decimal.Decimal, precision uint8) (Quantity, error) {
	if d.IsNegative() {
		return Quantity{}, errors.Wrapf(exception.ErrNegativeQuantity, "value %s", d.String())
	}
	raw, err := decimalToRaw(d, precision)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// QuantityFromInt builds a whole number quantity.
func QuantityFromInt(v int64) (Quantity, error) {
	return NewQuantityFromDecimal(decimal.NewFromInt(v), 0)
}

// QuantityFromRaw builds a quantity from an already scaled raw value.
func QuantityFromRaw(raw int64, precision uint8) (Quantity, error) {
	if raw < 0 {
		return Quantity{}, errors.Wrapf(exception.ErrNegativeQuantity, "raw %d", raw)
	}
	if err := checkRaw(raw, precision); err != nil {
		return Quantity{}, err
	}
	return Quantity{raw: raw, precision: precision}, nil
}

// QuantityZero is a zero quantity at precision.
func QuantityZero(precision uint8) Quantity {
	if precision > FixedPrecision {
		precision = FixedPrecision
	}
	return Quantity{precision: precision}
}

// ParseQuantity reads a decimal literal, taking precision from the literal.
func ParseQuantity(s string) (Quantity, error) {
	d, precision, err := parseDecimal(s)
	if err != nil {
		return Quantity{}, err
	}
	return NewQuantityFromDecimal(d, precision)
}

// MustParseQuantity is ParseQuantity for literals known to be valid.
func MustParseQuantity(s string) Quantity {
	q, err := ParseQuantity(s)
	if err != nil {
		panic(err)
	}
	return q
}

func (q Quantity) Raw() int64               { return q.raw }
func (q Quantity) Precision() uint8         { return q.precision }
func (q Quantity) Decimal() decimal.Decimal { return rawToDecimal(q.raw) }
func (q Quantity) Float64() float64         { return rawToFloat64(q.raw) }
func (q Quantity) IsZero() bool             { return q.raw == 0 }
func (q Quantity) IsPositive() bool         { return q.raw > 0 }

// Cmp compares values regardless of precision.
func (q Quantity) Cmp(o Quantity) int {
	return cmpRaw(q.raw, o.raw)
}

// Equal reports value equality regardless of precision.
func (q Quantity) Equal(o Quantity) bool {
	return q.raw == o.raw
}

// Add returns a quantity at the wider of both precisions.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	raw, err := addRaw(q.raw, o.raw)
	if err != nil {
		return Quantity{}, err
	}
	return QuantityFromRaw(raw, max(q.precision, o.precision))
}

// Sub fails when the result would be negative.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	raw, err := subRaw(q.raw, o.raw)
	if err != nil {
		return Quantity{}, err
	}
	return QuantityFromRaw(raw, max(q.precision, o.precision))
}

// SumDecimal adds two quantities as decimal.Decimal. Unlike Add it never
// overflows the fixed-point range.
func (q Quantity) SumDecimal(o Quantity) decimal.Decimal {
	return q.Decimal().Add(o.Decimal())
}

// AddDecimal promotes to decimal.Decimal.
func (q Quantity) AddDecimal(d decimal.Decimal) decimal.Decimal {
	return q.Decimal().Add(d)
}

// AddFloat promotes to float64.
func (q Quantity) AddFloat(f float64) float64 {
	return q.Float64() + f
}

// MulDecimal promotes to decimal.Decimal.
func (q Quantity) MulDecimal(d decimal.Decimal) decimal.Decimal {
	return q.Decimal().Mul(d)
}

func (q Quantity) String() string {
	return string(appendRaw(make([]byte, 0, 24), q.raw, q.precision))
}

// ToFormattedString groups the integer digits with `_`.
func (q Quantity) ToFormattedString() string {
	return groupThousands(q.String())
}

func (q Quantity) MarshalText() ([]byte, error) {
	return appendRaw(make([]byte, 0, 24), q.raw, q.precision), nil
}

func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantity(string(text))
	if err != nil {
		return errors.Wrap(err, "unmarshal quantity")
	}
	*q = parsed
	return nil
}
