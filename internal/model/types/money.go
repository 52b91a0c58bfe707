package types

import (
	"strings"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/pkg/exception"
)

// Money is an amount in a currency, held at the currency precision.
type Money struct {
	raw      int64
	currency Currency
}

// NewMoney rounds v half-to-even at the currency precision.
func NewMoney(v float64, currency Currency) (Money, error) {
	raw, err := float64ToRaw(v, currency.Precision)
	if err != nil {
		return Money{}, err
	}
	return Money{raw: raw, currency: currency}, nil
}

// NewMoneyFromDecimal rounds d half-to-even at the currency precision.
func NewMoneyFromDecimal(d decimal.Decimal, currency Currency) (Money, error) {
	raw, err := decimalToRaw(d, currency.Precision)
	if err != nil {
		return Money{}, err
	}
	return Money{raw: raw, currency: currency}, nil
}

// MoneyFromRaw builds money from an already scaled raw value.
func MoneyFromRaw(raw int64, currency Currency) (Money, error) {
	if err := checkRaw(raw, currency.Precision); err != nil {
		return Money{}, err
	}
	return Money{raw: raw, currency: currency}, nil
}

// MoneyZero is zero in currency.
func MoneyZero(currency Currency) Money {
	return Money{currency: currency}
}

// ParseMoney reads "<amount> <code>", e.g. "1.125 USD" which rounds to "1.12 USD".
func ParseMoney(s string) (Money, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Money{}, errors.Wrapf(exception.ErrMalformedDecimal, "money %q", s)
	}
	currency, err := CurrencyFromString(fields[1])
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(fields[0], "_", ""))
	if err != nil {
		return Money{}, errors.Wrapf(exception.ErrMalformedDecimal, "money %q", s)
	}
	return NewMoneyFromDecimal(d, currency)
}

// MustParseMoney is ParseMoney for literals known to be valid.
func MustParseMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Raw() int64               { return m.raw }
func (m Money) Currency() Currency       { return m.currency }
func (m Money) Decimal() decimal.Decimal { return rawToDecimal(m.raw) }
func (m Money) Float64() float64         { return rawToFloat64(m.raw) }
func (m Money) IsZero() bool             { return m.raw == 0 }
func (m Money) Sign() int                { return sign(m.raw) }

// Equal reports equal amount and currency.
func (m Money) Equal(o Money) bool {
	return m.raw == o.raw && m.currency.Code == o.currency.Code
}

// Cmp compares amounts of the same currency.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	return cmpRaw(m.raw, o.raw), nil
}

func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	raw, err := addRaw(m.raw, o.raw)
	if err != nil {
		return Money{}, err
	}
	return MoneyFromRaw(raw, m.currency)
}

func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	raw, err := subRaw(m.raw, o.raw)
	if err != nil {
		return Money{}, err
	}
	return MoneyFromRaw(raw, m.currency)
}

func (m Money) Neg() Money {
	return Money{raw: -m.raw, currency: m.currency}
}

// AddDecimal promotes to decimal.Decimal.
func (m Money) AddDecimal(d decimal.Decimal) decimal.Decimal {
	return m.Decimal().Add(d)
}

// AddFloat promotes to float64.
func (m Money) AddFloat(f float64) float64 {
	return m.Float64() + f
}

func (m Money) sameCurrency(o Money) error {
	if m.currency.Code != o.currency.Code {
		return errors.Wrapf(exception.ErrCurrencyMismatch, "%s and %s", m.currency.Code, o.currency.Code)
	}
	return nil
}

// AmountString prints the amount without currency.
func (m Money) AmountString() string {
	return string(appendRaw(make([]byte, 0, 24), m.raw, m.currency.Precision))
}

func (m Money) String() string {
	return m.AmountString() + " " + m.currency.Code
}

// ToFormattedString groups the integer digits with `_`.
func (m Money) ToFormattedString() string {
	return groupThousands(m.AmountString()) + " " + m.currency.Code
}

func (m Money) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := ParseMoney(string(text))
	if err != nil {
		return errors.Wrap(err, "unmarshal money")
	}
	*m = parsed
	return nil
}
