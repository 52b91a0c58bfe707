package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Clock supplies the factory timestamps.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Factory builds orders for one trader and strategy, numbering client order
// ids and order list ids from independent counters.
type Factory struct {
	trader    identifier.TraderID
	strategy  identifier.StrategyID
	clock     Clock
	orderSeq  int
	orderList int
}

func NewFactory(trader identifier.TraderID, strategy identifier.StrategyID) *Factory {
	return &Factory{trader: trader, strategy: strategy, clock: realClock{}}
}

// WithClock swaps the clock implementation.
func (f *Factory) WithClock(clock Clock) *Factory {
	if clock != nil {
		f.clock = clock
	}
	return f
}

// SetCounts resumes numbering after a restart.
func (f *Factory) SetCounts(orders, lists int) {
	f.orderSeq, f.orderList = orders, lists
}

func (f *Factory) Counts() (orders, lists int) { return f.orderSeq, f.orderList }

func (f *Factory) TraderID() identifier.TraderID     { return f.trader }
func (f *Factory) StrategyID() identifier.StrategyID { return f.strategy }

// Resume moves both counters past the highest number found in ids this
// factory's format would produce. Counters never move backwards.
func (f *Factory) Resume(orders []identifier.ClientOrderID, lists []identifier.OrderListID) {
	for _, id := range orders {
		if n, ok := f.issued("O", string(id)); ok && n > f.orderSeq {
			f.orderSeq = n
		}
	}
	for _, id := range lists {
		if n, ok := f.issued("OL", string(id)); ok && n > f.orderList {
			f.orderList = n
		}
	}
}

func (f *Factory) issued(prefix, id string) (int, bool) {
	tags := "-" + f.trader.Tag() + "-" + f.strategy.Tag() + "-"
	if !strings.HasPrefix(id, prefix+"-") {
		return 0, false
	}
	i := strings.LastIndex(id, tags)
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[i+len(tags):])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NextClientOrderID returns O-YYYYMMDD-HHMMSS-TRADER-STRATEGY-N.
func (f *Factory) NextClientOrderID() identifier.ClientOrderID {
	f.orderSeq++
	return identifier.ClientOrderID(f.id("O", f.orderSeq))
}

// NextOrderListID returns OL-YYYYMMDD-HHMMSS-TRADER-STRATEGY-N.
func (f *Factory) NextOrderListID() identifier.OrderListID {
	f.orderList++
	return identifier.OrderListID(f.id("OL", f.orderList))
}

func (f *Factory) id(prefix string, n int) string {
	t := f.clock.Now().UTC()
	buf := make([]byte, 0, 40)
	buf = append(buf, prefix...)
	buf = append(buf, '-')
	buf = t.AppendFormat(buf, "20060102-150405")
	buf = append(buf, '-')
	buf = append(buf, f.trader.Tag()...)
	buf = append(buf, '-')
	buf = append(buf, f.strategy.Tag()...)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, int64(n), 10)
	return string(buf)
}

func (f *Factory) ts() uint64 {
	return uint64(f.clock.Now().UnixNano())
}

// Option adjusts an order before it is built.
type Option func(*event.Initialized)

func WithTimeInForce(tif enum.TimeInForce) Option {
	return func(e *event.Initialized) { e.TimeInForce = tif }
}

// WithExpireTime sets GTD with the given expiry in unix nanoseconds.
func WithExpireTime(ns uint64) Option {
	return func(e *event.Initialized) {
		e.TimeInForce = enum.TimeInForceGTD
		e.ExpireTime = &ns
	}
}

func WithPostOnly() Option      { return func(e *event.Initialized) { e.PostOnly = true } }
func WithReduceOnly() Option    { return func(e *event.Initialized) { e.ReduceOnly = true } }
func WithQuoteQuantity() Option { return func(e *event.Initialized) { e.QuoteQuantity = true } }

func WithDisplayQty(qty types.Quantity) Option {
	return func(e *event.Initialized) { e.DisplayQty = &qty }
}

func WithTriggerType(t enum.TriggerType) Option {
	return func(e *event.Initialized) { e.TriggerType = t }
}

func WithEmulationTrigger(t enum.TriggerType) Option {
	return func(e *event.Initialized) { e.EmulationTrigger = t }
}

func WithTriggerInstrument(id identifier.InstrumentID) Option {
	return func(e *event.Initialized) { e.TriggerInstrumentID = &id }
}

func WithExecAlgorithm(id identifier.ExecAlgorithmID, params map[string]string) Option {
	return func(e *event.Initialized) {
		e.ExecAlgorithmID = &id
		e.ExecAlgorithmParams = params
	}
}

func WithTags(tags ...string) Option {
	return func(e *event.Initialized) { e.Tags = tags }
}

func (f *Factory) build(instrument identifier.InstrumentID, side enum.OrderSide, typ enum.OrderType, qty types.Quantity, apply func(*event.Initialized), opts []Option) (*Order, error) {
	ts := f.ts()
	init := event.Initialized{
		Header:           event.NewHeader(f.trader, f.strategy, instrument, f.NextClientOrderID(), ts, ts),
		Side:             side,
		Type:             typ,
		Quantity:         qty,
		TimeInForce:      enum.TimeInForceGTC,
		EmulationTrigger: enum.TriggerTypeNoTrigger,
		ContingencyType:  enum.ContingencyTypeNoContingency,
	}
	if apply != nil {
		apply(&init)
	}
	for _, opt := range opts {
		opt(&init)
	}
	return New(init)
}

func (f *Factory) Market(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeMarket, qty, nil, opts)
}

func (f *Factory) Limit(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, price types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeLimit, qty, func(e *event.Initialized) {
		e.Price = &price
	}, opts)
}

func (f *Factory) StopMarket(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, trigger types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeStopMarket, qty, func(e *event.Initialized) {
		e.TriggerPrice = &trigger
	}, opts)
}

func (f *Factory) StopLimit(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, price, trigger types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeStopLimit, qty, func(e *event.Initialized) {
		e.Price = &price
		e.TriggerPrice = &trigger
	}, opts)
}

func (f *Factory) MarketToLimit(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeMarketToLimit, qty, nil, opts)
}

func (f *Factory) MarketIfTouched(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, trigger types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeMarketIfTouched, qty, func(e *event.Initialized) {
		e.TriggerPrice = &trigger
	}, opts)
}

func (f *Factory) LimitIfTouched(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, price, trigger types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeLimitIfTouched, qty, func(e *event.Initialized) {
		e.Price = &price
		e.TriggerPrice = &trigger
	}, opts)
}

// TrailingStopMarket builds a trailing stop; trigger may be nil until the
// venue or emulator activates it.
func (f *Factory) TrailingStopMarket(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, offset decimal.Decimal, offsetType enum.TrailingOffsetType, trigger *types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeTrailingStopMarket, qty, func(e *event.Initialized) {
		e.TrailingOffset = &offset
		e.TrailingOffsetType = offsetType
		e.TriggerPrice = trigger
	}, opts)
}

func (f *Factory) TrailingStopLimit(instrument identifier.InstrumentID, side enum.OrderSide, qty types.Quantity, limitOffset, offset decimal.Decimal, offsetType enum.TrailingOffsetType, price, trigger *types.Price, opts ...Option) (*Order, error) {
	return f.build(instrument, side, enum.OrderTypeTrailingStopLimit, qty, func(e *event.Initialized) {
		e.LimitOffset = &limitOffset
		e.TrailingOffset = &offset
		e.TrailingOffsetType = offsetType
		e.Price = price
		e.TriggerPrice = trigger
	}, opts)
}

// Bracket describes an entry with a stop loss and a take profit.
type Bracket struct {
	Instrument  identifier.InstrumentID
	Side        enum.OrderSide
	Quantity    types.Quantity
	TimeInForce enum.TimeInForce

	// EntryType is MARKET, LIMIT or LIMIT_IF_TOUCHED.
	EntryType    enum.OrderType
	EntryPrice   *types.Price
	EntryTrigger *types.Price

	StopLossTrigger types.Price

	// TakeProfitType is LIMIT or LIMIT_IF_TOUCHED.
	TakeProfitType     enum.OrderType
	TakeProfitPrice    types.Price
	TakeProfitTrigger  *types.Price
	TakeProfitPostOnly bool
}

// Bracket builds an OTO entry whose stop loss and take profit are OUO
// linked to each other with the entry as parent.
func (f *Factory) Bracket(b Bracket) (*List, error) {
	entryType := b.EntryType
	if entryType == 0 {
		entryType = enum.OrderTypeMarket
	}
	tpType := b.TakeProfitType
	if tpType == 0 {
		tpType = enum.OrderTypeLimit
	}
	tif := b.TimeInForce
	if tif == 0 {
		tif = enum.TimeInForceGTC
	}
	switch entryType {
	case enum.OrderTypeMarket, enum.OrderTypeLimit, enum.OrderTypeLimitIfTouched:
	default:
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "bracket entry type %s", entryType)
	}
	switch tpType {
	case enum.OrderTypeLimit, enum.OrderTypeLimitIfTouched:
	default:
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "bracket take profit type %s", tpType)
	}
	exit, err := OppositeSide(b.Side)
	if err != nil {
		return nil, errors.Wrap(err, "bracket")
	}

	listID := f.NextOrderListID()
	ts := f.ts()
	entryID := f.NextClientOrderID()
	slID := f.NextClientOrderID()
	tpID := f.NextClientOrderID()

	newInit := func(id identifier.ClientOrderID, side enum.OrderSide, typ enum.OrderType) event.Initialized {
		return event.Initialized{
			Header:           event.NewHeader(f.trader, f.strategy, b.Instrument, id, ts, ts),
			Side:             side,
			Type:             typ,
			Quantity:         b.Quantity,
			TimeInForce:      tif,
			EmulationTrigger: enum.TriggerTypeNoTrigger,
			OrderListID:      &listID,
		}
	}

	entry := newInit(entryID, b.Side, entryType)
	if entryType != enum.OrderTypeMarket {
		entry.Price = b.EntryPrice
	}
	if entryType == enum.OrderTypeLimitIfTouched {
		entry.TriggerPrice = b.EntryTrigger
	}
	entry.ContingencyType = enum.ContingencyTypeOTO
	entry.LinkedOrderIDs = []identifier.ClientOrderID{slID, tpID}

	sl := newInit(slID, exit, enum.OrderTypeStopMarket)
	sl.TriggerPrice = &b.StopLossTrigger
	sl.ReduceOnly = true
	sl.ContingencyType = enum.ContingencyTypeOUO
	sl.LinkedOrderIDs = []identifier.ClientOrderID{tpID}
	sl.ParentOrderID = &entryID

	tp := newInit(tpID, exit, tpType)
	tp.Price = &b.TakeProfitPrice
	if tpType == enum.OrderTypeLimitIfTouched {
		tp.TriggerPrice = b.TakeProfitTrigger
	}
	tp.PostOnly = b.TakeProfitPostOnly
	tp.ReduceOnly = true
	tp.ContingencyType = enum.ContingencyTypeOUO
	tp.LinkedOrderIDs = []identifier.ClientOrderID{slID}
	tp.ParentOrderID = &entryID

	orders := make([]*Order, 0, 3)
	for _, init := range []event.Initialized{entry, sl, tp} {
		o, err := New(init)
		if err != nil {
			return nil, errors.Wrapf(err, "bracket %s", listID)
		}
		orders = append(orders, o)
	}
	return NewList(listID, orders, ts)
}
