package instrument

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Instrument describes a tradable contract and the precisions used to build
// its prices and quantities.
type Instrument struct {
	ID                 identifier.InstrumentID
	RawSymbol          identifier.Symbol
	Class              enum.InstrumentClass
	BaseCurrency       types.Currency // zero for instruments without a base asset
	QuoteCurrency      types.Currency
	SettlementCurrency types.Currency
	IsInverse          bool
	PricePrecision     uint8
	SizePrecision      uint8
	PriceIncrement     types.Price
	SizeIncrement      types.Quantity
	Multiplier         decimal.Decimal
	MarginInit         decimal.Decimal
	MarginMaint        decimal.Decimal
	MakerFee           decimal.Decimal
	TakerFee           decimal.Decimal
}

// Validate checks the definition is internally consistent.
func (i Instrument) Validate() error {
	if i.ID.IsZero() {
		return errors.Wrap(exception.ErrInstrumentInvalid, "id is empty")
	}
	if !i.Class.IsAvailable() {
		return errors.Wrapf(exception.ErrInstrumentInvalid, "%s class is unknown", i.ID)
	}
	if i.QuoteCurrency.IsZero() || i.SettlementCurrency.IsZero() {
		return errors.Wrapf(exception.ErrInstrumentInvalid, "%s quote and settlement currencies are required", i.ID)
	}
	if i.IsInverse && i.BaseCurrency.IsZero() {
		return errors.Wrapf(exception.ErrInstrumentInvalid, "%s inverse instrument needs a base currency", i.ID)
	}
	if i.PricePrecision > types.FixedPrecision || i.SizePrecision > types.FixedPrecision {
		return errors.Wrapf(exception.ErrInvalidPrecision, "%s", i.ID)
	}
	if i.Multiplier.Sign() <= 0 {
		return errors.Wrapf(exception.ErrInstrumentInvalid, "%s multiplier must be > 0", i.ID)
	}
	if !i.PriceIncrement.IsPositive() || !i.SizeIncrement.IsPositive() {
		return errors.Wrapf(exception.ErrInstrumentInvalid, "%s increments must be > 0", i.ID)
	}
	return nil
}

func (i Instrument) MakePrice(v float64) (types.Price, error) {
	return types.NewPrice(v, i.PricePrecision)
}

func (i Instrument) MakePriceDecimal(d decimal.Decimal) (types.Price, error) {
	return types.NewPriceFromDecimal(d, i.PricePrecision)
}

func (i Instrument) MakeQty(v float64) (types.Quantity, error) {
	return types.NewQuantity(v, i.SizePrecision)
}

func (i Instrument) MakeQtyDecimal(d decimal.Decimal) (types.Quantity, error) {
	return types.NewQuantityFromDecimal(d, i.SizePrecision)
}

// CostCurrency is the currency trading costs accrue in.
func (i Instrument) CostCurrency() types.Currency {
	if i.IsInverse {
		return i.BaseCurrency
	}
	return i.QuoteCurrency
}

// NotionalDecimal is the unrounded notional in the currency NotionalValue uses.
func (i Instrument) NotionalDecimal(qty types.Quantity, px types.Price, useQuoteForInverse bool) (decimal.Decimal, error) {
	amount := qty.Decimal().Mul(i.Multiplier)
	if !i.IsInverse {
		return amount.Mul(px.Decimal()), nil
	}
	if useQuoteForInverse {
		return amount, nil
	}
	if px.IsZero() {
		return decimal.Zero, errors.Wrapf(exception.ErrDivisionByZero, "%s notional at zero price", i.ID)
	}
	return amount.Div(px.Decimal()), nil
}

// NotionalValue is qty * multiplier * px in quote currency, or
// qty * multiplier / px in base currency for inverse instruments.
func (i Instrument) NotionalValue(qty types.Quantity, px types.Price, useQuoteForInverse bool) (types.Money, error) {
	d, err := i.NotionalDecimal(qty, px, useQuoteForInverse)
	if err != nil {
		return types.Money{}, err
	}
	ccy := i.QuoteCurrency
	if i.IsInverse && !useQuoteForInverse {
		ccy = i.BaseCurrency
	}
	return types.NewMoneyFromDecimal(d, ccy)
}
