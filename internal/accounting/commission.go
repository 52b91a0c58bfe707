package accounting

import (
	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// CalculateCommission charges the maker or taker rate on the fill notional.
// Inverse instruments charge in base currency unless useQuoteForInverse is
// set. The result is rounded half-to-even at the currency precision.
func CalculateCommission(inst instrument.Instrument, qty types.Quantity, px types.Price, liquidity enum.LiquiditySide, useQuoteForInverse bool) (types.Money, error) {
	var rate decimal.Decimal
	switch liquidity {
	case enum.LiquiditySideMaker:
		rate = inst.MakerFee
	case enum.LiquiditySideTaker:
		rate = inst.TakerFee
	default:
		return types.Money{}, errors.Wrapf(exception.ErrAccountNoLiquiditySide, "%s commission", inst.ID)
	}

	notional, err := inst.NotionalDecimal(qty, px, useQuoteForInverse)
	if err != nil {
		return types.Money{}, err
	}
	return types.NewMoneyFromDecimal(notional.Mul(rate), notionalCurrency(inst, useQuoteForInverse))
}

func notionalCurrency(inst instrument.Instrument, useQuoteForInverse bool) types.Currency {
	if inst.IsInverse && !useQuoteForInverse {
		return inst.BaseCurrency
	}
	return inst.QuoteCurrency
}
