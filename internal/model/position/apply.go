package position

import (
	"slices"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Apply folds one fill into the position. A trade id already applied is
// rejected even when the fill is identical. On error the position is
// unchanged.
func (p *Position) Apply(fill event.Filled) error {
	next, err := p.next(fill)
	if err != nil {
		return err
	}
	*p = *next
	return nil
}

// Check reports the error Apply would return for fill without changing the
// position.
func (p *Position) Check(fill event.Filled) error {
	_, err := p.next(fill)
	return err
}

func (p *Position) next(fill event.Filled) (*Position, error) {
	if fill.InstrumentID != p.inst.ID {
		return nil, errors.Wrapf(exception.ErrPositionInstrumentMismatch, "%s fill %s, position %s", p.id, fill.InstrumentID, p.inst.ID)
	}
	if fill.PositionID != nil && *fill.PositionID != p.id {
		return nil, errors.Wrapf(exception.ErrPositionIDMismatch, "fill %s, position %s", *fill.PositionID, p.id)
	}
	if fill.OrderSide != enum.OrderSideBuy && fill.OrderSide != enum.OrderSideSell {
		return nil, errors.Wrapf(exception.ErrPositionInvalidSide, "%s trade %s", p.id, fill.TradeID)
	}
	if slices.Contains(p.tradeIDs, fill.TradeID) {
		return nil, errors.Wrapf(exception.ErrPositionDuplicateTradeID, "%s trade %s", p.id, fill.TradeID)
	}

	next := p.clone()
	if err := next.apply(fill); err != nil {
		return nil, errors.Wrapf(err, "%s apply trade %s", p.id, fill.TradeID)
	}
	return next, nil
}

// PurgeEventsForOrder drops every fill of the order and rebuilds the
// position from the fills that remain, in their original order. With no
// fills left the position is an empty, closed shell. Purging an order with
// no fills here does nothing.
func (p *Position) PurgeEventsForOrder(id identifier.ClientOrderID) error {
	remaining := make([]event.Filled, 0, len(p.events))
	for _, e := range p.events {
		if e.ClientOrderID != id {
			remaining = append(remaining, e)
		}
	}
	if len(remaining) == len(p.events) {
		return nil
	}

	next := p.clone()
	next.resetEmpty()
	for _, e := range remaining {
		if err := next.apply(e); err != nil {
			return errors.Wrapf(err, "%s replay trade %s", p.id, e.TradeID)
		}
	}
	*p = *next
	return nil
}

func (p *Position) resetEmpty() {
	zero := types.QuantityZero(p.inst.SizePrecision)
	p.closingOrderID = nil
	p.side = enum.PositionSideFlat
	p.signedQty = decimal.Zero
	p.quantity, p.peakQty, p.buyQty, p.sellQty = zero, zero, zero, zero
	p.avgPxOpen = 0
	p.avgPxClose = nil
	p.realizedReturn = 0
	p.realizedPnl = nil
	p.commissions = make(map[string]types.Money)
	p.events = nil
	p.tradeIDs = nil
	p.closed = true
	p.tsInit, p.tsOpened, p.tsLast, p.tsClosed, p.durationNs = 0, 0, 0, 0, 0
}

// resetCycle starts a new open cycle on a FLAT position.
func (p *Position) resetCycle(fill event.Filled) {
	zero := types.QuantityZero(p.inst.SizePrecision)
	p.events = p.events[:0]
	p.tradeIDs = p.tradeIDs[:0]
	p.buyQty, p.sellQty, p.peakQty = zero, zero, zero
	p.commissions = make(map[string]types.Money)
	p.openingOrderID = fill.ClientOrderID
	p.closingOrderID = nil
	p.closed = false
	p.tsInit = fill.TsInit
	p.tsOpened = fill.TsEvent
	p.tsClosed = 0
	p.durationNs = 0
	p.avgPxOpen = fill.LastPx.Float64()
	p.avgPxClose = nil
	p.realizedReturn = 0
	p.realizedPnl = nil
}

func (p *Position) apply(fill event.Filled) error {
	if p.side == enum.PositionSideFlat {
		p.resetCycle(fill)
	}
	p.events = append(p.events, fill)
	p.tradeIDs = append(p.tradeIDs, fill.TradeID)

	if fill.Commission != nil {
		commission := *fill.Commission
		if prev, ok := p.commissions[commission.Currency().Code]; ok {
			sum, err := prev.Add(commission)
			if err != nil {
				return err
			}
			commission = sum
		}
		p.commissions[commission.Currency().Code] = commission
	}

	if err := p.handleFill(fill); err != nil {
		return err
	}

	qty, err := types.NewQuantityFromDecimal(p.signedQty.Abs(), p.inst.SizePrecision)
	if err != nil {
		return err
	}
	p.quantity = qty
	if p.quantity.Cmp(p.peakQty) > 0 {
		p.peakQty = p.quantity
	}

	switch p.signedQty.Sign() {
	case 1:
		p.entry = enum.OrderSideBuy
		p.side = enum.PositionSideLong
	case -1:
		p.entry = enum.OrderSideSell
		p.side = enum.PositionSideShort
	default:
		closing := fill.ClientOrderID
		p.side = enum.PositionSideFlat
		p.closingOrderID = &closing
		p.closed = true
		p.tsClosed = fill.TsEvent
		if fill.TsEvent > p.tsOpened {
			p.durationNs = fill.TsEvent - p.tsOpened
		}
	}
	p.tsLast = fill.TsEvent
	return nil
}

// handleFill updates prices, pnl and the signed quantity. The part of an
// opposite fill beyond the open quantity opens a new leg at the fill price.
func (p *Position) handleFill(fill event.Filled) error {
	pnl := 0.0
	if fill.Commission != nil && fill.Commission.Currency().Code == p.SettlementCurrency().Code {
		pnl = -fill.Commission.Float64()
	}

	lastPx, lastQty := fill.LastPx.Float64(), fill.LastQty.Float64()
	delta := fill.LastQty.Decimal()
	if fill.OrderSide == enum.OrderSideSell {
		delta = delta.Neg()
	}

	before := p.signedQty
	switch {
	case before.Sign() == delta.Sign():
		p.avgPxOpen = weightedAvg(p.quantity.Float64(), p.avgPxOpen, lastPx, lastQty)
	case before.Sign() != 0:
		closePx := p.avgPxClosePx(lastPx, lastQty)
		p.avgPxClose = &closePx
		p.realizedReturn = p.calculateReturn(p.avgPxOpen, closePx)
		pnl += p.pnlRaw(p.avgPxOpen, lastPx, lastQty)
	}

	realized := decimal.NewFromFloat(pnl)
	if p.realizedPnl != nil {
		realized = realized.Add(p.realizedPnl.Decimal())
	}
	m, err := types.NewMoneyFromDecimal(realized, p.SettlementCurrency())
	if err != nil {
		return err
	}
	p.realizedPnl = &m

	p.signedQty = before.Add(delta)
	if fill.OrderSide == enum.OrderSideBuy {
		if p.buyQty, err = p.buyQty.Add(fill.LastQty); err != nil {
			return err
		}
	} else if p.sellQty, err = p.sellQty.Add(fill.LastQty); err != nil {
		return err
	}

	if before.Sign() != 0 && before.Sign() != delta.Sign() && p.signedQty.Sign() == delta.Sign() {
		return p.flip(fill)
	}
	return nil
}

// flip restarts the open leg after a fill crossed through zero.
func (p *Position) flip(fill event.Filled) error {
	excess, err := types.NewQuantityFromDecimal(p.signedQty.Abs(), p.inst.SizePrecision)
	if err != nil {
		return err
	}
	zero := types.QuantityZero(p.inst.SizePrecision)
	if fill.OrderSide == enum.OrderSideBuy {
		p.buyQty, p.sellQty = excess, zero
	} else {
		p.buyQty, p.sellQty = zero, excess
	}
	p.avgPxOpen = fill.LastPx.Float64()
	p.tsOpened = fill.TsEvent
	p.openingOrderID = fill.ClientOrderID
	return nil
}

func weightedAvg(qty, avg, lastPx, lastQty float64) float64 {
	return (avg*qty + lastPx*lastQty) / (qty + lastQty)
}

func (p *Position) avgPxClosePx(lastPx, lastQty float64) float64 {
	if p.avgPxClose == nil {
		return lastPx
	}
	closing := p.buyQty
	if p.side == enum.PositionSideLong {
		closing = p.sellQty
	}
	return weightedAvg(closing.Float64(), *p.avgPxClose, lastPx, lastQty)
}
