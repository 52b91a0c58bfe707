package types

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
)

// Price is a signed fixed-point value. The raw integer is always scaled by
// FixedScalar; precision only limits the digits it may carry.
type Price struct {
	raw       int64
	precision uint8
}

// NewPrice rounds v half-to-even at precision.
func NewPrice(v float64, precision uint8) (Price, error) {
	raw, err := float64ToRaw(v, precision)
	if err != nil {
		return Price{}, err
	}
	return Price{raw: raw, precision: precision}, nil
}

// NewPriceFromDecimal rounds d half-to-even at precision.
func NewPriceFromDecimal(d decimal.Decimal, precision uint8) (Price, error) {
	raw, err := decimalToRaw(d, precision)
	if err != nil {
		return Price{}, err
	}
	return Price{raw: raw, precision: precision}, nil
}

// PriceFromRaw builds a price from an already scaled raw value.
func PriceFromRaw(raw int64, precision uint8) (Price, error) {
	if err := checkRaw(raw, precision); err != nil {
		return Price{}, err
	}
	return Price{raw: raw, precision: precision}, nil
}

// ParsePrice reads a decimal literal, taking precision from the literal.
func ParsePrice(s string) (Price, error) {
	d, precision, err := parseDecimal(s)
	if err != nil {
		return Price{}, err
	}
	return NewPriceFromDecimal(d, precision)
}

// MustParsePrice is ParsePrice for literals known to be valid.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Raw() int64               { return p.raw }
func (p Price) Precision() uint8         { return p.precision }
func (p Price) Decimal() decimal.Decimal { return rawToDecimal(p.raw) }
func (p Price) Float64() float64         { return rawToFloat64(p.raw) }
func (p Price) IsZero() bool             { return p.raw == 0 }
func (p Price) IsPositive() bool         { return p.raw > 0 }
func (p Price) Sign() int                { return sign(p.raw) }

// Cmp compares values regardless of precision.
func (p Price) Cmp(o Price) int {
	return cmpRaw(p.raw, o.raw)
}

// Equal reports value equality regardless of precision.
func (p Price) Equal(o Price) bool {
	return p.raw == o.raw
}

// Add returns a price at the wider of both precisions.
func (p Price) Add(o Price) (Price, error) {
	raw, err := addRaw(p.raw, o.raw)
	if err != nil {
		return Price{}, err
	}
	return PriceFromRaw(raw, max(p.precision, o.precision))
}

// Sub returns a price at the wider of both precisions.
func (p Price) Sub(o Price) (Price, error) {
	raw, err := subRaw(p.raw, o.raw)
	if err != nil {
		return Price{}, err
	}
	return PriceFromRaw(raw, max(p.precision, o.precision))
}

func (p Price) Neg() Price {
	return Price{raw: -p.raw, precision: p.precision}
}

// AddDecimal promotes to decimal.Decimal.
func (p Price) AddDecimal(d decimal.Decimal) decimal.Decimal {
	return p.Decimal().Add(d)
}

// AddFloat promotes to float64.
func (p Price) AddFloat(f float64) float64 {
	return p.Float64() + f
}

// MulDecimal promotes to decimal.Decimal.
func (p Price) MulDecimal(d decimal.Decimal) decimal.Decimal {
	return p.Decimal().Mul(d)
}

func (p Price) String() string {
	return string(appendRaw(make([]byte, 0, 24), p.raw, p.precision))
}

// ToFormattedString groups the integer digits with `_`.
func (p Price) ToFormattedString() string {
	return groupThousands(p.String())
}

func (p Price) MarshalText() ([]byte, error) {
	return appendRaw(make([]byte, 0, 24), p.raw, p.precision), nil
}

func (p *Price) UnmarshalText(text []byte) error {
	parsed, err := ParsePrice(string(text))
	if err != nil {
		return errors.Wrap(err, "unmarshal price")
	}
	*p = parsed
	return nil
}

func sign(raw int64) int {
	switch {
	case raw > 0:
		return 1
	case raw < 0:
		return -1
	default:
		return 0
	}
}

func cmpRaw(a, b int64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}
