package position

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Position nets the fills sharing one position id. Two positions with the
// same id are interchangeable; see Equal.
//
// Realized pnl covers the current open cycle only: applying a fill to a FLAT
// position starts a new cycle and drops the previous one's pnl, events and
// commissions.
type Position struct {
	inst instrument.Instrument

	id             identifier.PositionID
	traderID       identifier.TraderID
	strategyID     identifier.StrategyID
	accountID      identifier.AccountID
	openingOrderID identifier.ClientOrderID
	closingOrderID *identifier.ClientOrderID

	entry     enum.OrderSide
	side      enum.PositionSide
	signedQty decimal.Decimal
	quantity  types.Quantity
	peakQty   types.Quantity
	buyQty    types.Quantity
	sellQty   types.Quantity

	avgPxOpen      float64
	avgPxClose     *float64
	realizedReturn float64
	realizedPnl    *types.Money
	commissions    map[string]types.Money

	events   []event.Filled
	tradeIDs []identifier.TradeID
	closed   bool

	tsInit     uint64
	tsOpened   uint64
	tsLast     uint64
	tsClosed   uint64
	durationNs uint64
}

// New opens a position on inst from its first fill.
func New(inst instrument.Instrument, fill event.Filled) (*Position, error) {
	if fill.InstrumentID != inst.ID {
		return nil, errors.Wrapf(exception.ErrPositionInstrumentMismatch, "fill %s, instrument %s", fill.InstrumentID, inst.ID)
	}
	if fill.PositionID == nil {
		return nil, errors.Wrapf(exception.ErrPositionMissingPositionID, "trade %s", fill.TradeID)
	}

	p := &Position{
		inst:           inst,
		id:             *fill.PositionID,
		traderID:       fill.TraderID,
		strategyID:     fill.StrategyID,
		accountID:      fill.AccountID,
		openingOrderID: fill.ClientOrderID,
		entry:          fill.OrderSide,
		side:           enum.PositionSideFlat,
		quantity:       types.QuantityZero(inst.SizePrecision),
		peakQty:        types.QuantityZero(inst.SizePrecision),
		buyQty:         types.QuantityZero(inst.SizePrecision),
		sellQty:        types.QuantityZero(inst.SizePrecision),
		commissions:    make(map[string]types.Money),
	}
	if err := p.Apply(fill); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Position) ID() identifier.PositionID                { return p.id }
func (p *Position) TraderID() identifier.TraderID            { return p.traderID }
func (p *Position) StrategyID() identifier.StrategyID        { return p.strategyID }
func (p *Position) AccountID() identifier.AccountID          { return p.accountID }
func (p *Position) InstrumentID() identifier.InstrumentID    { return p.inst.ID }
func (p *Position) Instrument() instrument.Instrument        { return p.inst }
func (p *Position) OpeningOrderID() identifier.ClientOrderID { return p.openingOrderID }
func (p *Position) Entry() enum.OrderSide                    { return p.entry }
func (p *Position) Side() enum.PositionSide                  { return p.side }
func (p *Position) Quantity() types.Quantity                 { return p.quantity }
func (p *Position) PeakQty() types.Quantity                  { return p.peakQty }
func (p *Position) SignedDecimalQty() decimal.Decimal        { return p.signedQty }
func (p *Position) AvgPxOpen() float64                       { return p.avgPxOpen }
func (p *Position) RealizedReturn() float64                  { return p.realizedReturn }
func (p *Position) SettlementCurrency() types.Currency       { return p.inst.CostCurrency() }
func (p *Position) EventCount() int                          { return len(p.events) }
func (p *Position) Events() []event.Filled                   { return slices.Clone(p.events) }
func (p *Position) TsInit() uint64                           { return p.tsInit }
func (p *Position) TsOpened() uint64                         { return p.tsOpened }
func (p *Position) TsLast() uint64                           { return p.tsLast }
func (p *Position) TsClosed() uint64                         { return p.tsClosed }
func (p *Position) DurationNs() uint64                       { return p.durationNs }
func (p *Position) IsLong() bool                             { return p.side == enum.PositionSideLong }
func (p *Position) IsShort() bool                            { return p.side == enum.PositionSideShort }
func (p *Position) IsOpen() bool                             { return p.side != enum.PositionSideFlat && !p.closed }
func (p *Position) IsClosed() bool                           { return p.side == enum.PositionSideFlat && p.closed }
func (p *Position) ClosingOrderSide() enum.OrderSide         { return p.side.ClosingOrderSide() }
func (p *Position) IsOppositeSide(side enum.OrderSide) bool  { return p.entry != side }
func (p *Position) Equal(other *Position) bool               { return other != nil && p.id == other.id }

func (p *Position) ClosingOrderID() (identifier.ClientOrderID, bool) {
	if p.closingOrderID == nil {
		return "", false
	}
	return *p.closingOrderID, true
}

// SignedQty mirrors the net quantity as a float, negative when short.
func (p *Position) SignedQty() float64 {
	f, _ := p.signedQty.Float64()
	return f
}

func (p *Position) AvgPxClose() (float64, bool) {
	if p.avgPxClose == nil {
		return 0, false
	}
	return *p.avgPxClose, true
}

// RealizedPnl is the pnl of the current cycle in the settlement currency,
// zero before any fill has been applied.
func (p *Position) RealizedPnl() types.Money {
	if p.realizedPnl == nil {
		return types.MoneyZero(p.SettlementCurrency())
	}
	return *p.realizedPnl
}

// Commissions lists accumulated commissions sorted by currency code.
func (p *Position) Commissions() []types.Money {
	out := make([]types.Money, 0, len(p.commissions))
	for _, code := range slices.Sorted(maps.Keys(p.commissions)) {
		out = append(out, p.commissions[code])
	}
	return out
}

func (p *Position) LastEvent() (event.Filled, bool) {
	if len(p.events) == 0 {
		return event.Filled{}, false
	}
	return p.events[len(p.events)-1], true
}

func (p *Position) LastTradeID() (identifier.TradeID, bool) {
	if len(p.tradeIDs) == 0 {
		return "", false
	}
	return p.tradeIDs[len(p.tradeIDs)-1], true
}

// ClientOrderIDs lists the distinct orders that filled into the position, sorted.
func (p *Position) ClientOrderIDs() []identifier.ClientOrderID {
	return distinct(p.events, func(f event.Filled) identifier.ClientOrderID { return f.ClientOrderID })
}

func (p *Position) VenueOrderIDs() []identifier.VenueOrderID {
	return distinct(p.events, func(f event.Filled) identifier.VenueOrderID { return f.VenueOrderID })
}

func (p *Position) TradeIDs() []identifier.TradeID {
	return distinct(p.events, func(f event.Filled) identifier.TradeID { return f.TradeID })
}

func distinct[T ~string](events []event.Filled, key func(event.Filled) T) []T {
	seen := make(map[T]struct{}, len(events))
	out := make([]T, 0, len(events))
	for _, e := range events {
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (p *Position) clone() *Position {
	c := *p
	c.commissions = maps.Clone(p.commissions)
	if c.commissions == nil {
		c.commissions = make(map[string]types.Money)
	}
	c.events = slices.Clone(p.events)
	c.tradeIDs = slices.Clone(p.tradeIDs)
	return &c
}
