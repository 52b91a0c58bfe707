package position

import (
	"math"

	"github.com/shopspring/decimal"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/types"
)

func (p *Position) points(open, close float64) float64 {
	switch p.side {
	case enum.PositionSideLong:
		return close - open
	case enum.PositionSideShort:
		return open - close
	default:
		return 0
	}
}

func (p *Position) pointsInverse(open, close float64) float64 {
	switch p.side {
	case enum.PositionSideLong:
		return 1/open - 1/close
	case enum.PositionSideShort:
		return 1/close - 1/open
	default:
		return 0
	}
}

func (p *Position) calculateReturn(open, close float64) float64 {
	if open == 0 {
		return 0
	}
	return p.points(open, close) / open
}

// pnlRaw never counts more than the open quantity.
func (p *Position) pnlRaw(open, close, qty float64) float64 {
	open64, _ := p.signedQty.Abs().Float64()
	qty = math.Min(qty, open64)
	mult, _ := p.inst.Multiplier.Float64()
	if p.inst.IsInverse {
		if open == 0 || close == 0 {
			return 0
		}
		return qty * mult * p.pointsInverse(open, close)
	}
	return qty * mult * p.points(open, close)
}

// CalculatePnl is the pnl of closing qty of the current side from open to
// close, in the settlement currency.
func (p *Position) CalculatePnl(open, close float64, qty types.Quantity) (types.Money, error) {
	return types.NewMoneyFromDecimal(decimal.NewFromFloat(p.pnlRaw(open, close, qty.Float64())), p.SettlementCurrency())
}

// UnrealizedPnl marks the open quantity at last; zero when FLAT.
func (p *Position) UnrealizedPnl(last types.Price) (types.Money, error) {
	if p.side == enum.PositionSideFlat {
		return types.MoneyZero(p.SettlementCurrency()), nil
	}
	return p.CalculatePnl(p.avgPxOpen, last.Float64(), p.quantity)
}

func (p *Position) TotalPnl(last types.Price) (types.Money, error) {
	unrealized, err := p.UnrealizedPnl(last)
	if err != nil {
		return types.Money{}, err
	}
	return p.RealizedPnl().Add(unrealized)
}

// NotionalValue is the open quantity valued at last, in base currency for
// inverse instruments and quote currency otherwise.
func (p *Position) NotionalValue(last types.Price) (types.Money, error) {
	return p.inst.NotionalValue(p.quantity, last, false)
}
