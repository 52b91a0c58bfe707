package order

import (
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Params holds the fields that only some order types carry.
type Params struct {
	Price               *types.Price
	TriggerPrice        *types.Price
	TriggerType         enum.TriggerType
	LimitOffset         *decimal.Decimal
	TrailingOffset      *decimal.Decimal
	TrailingOffsetType  enum.TrailingOffsetType
	ExpireTime          *uint64
	DisplayQty          *types.Quantity
	TriggerInstrumentID *identifier.InstrumentID
	PostOnly            bool
}

// Order is a single order of any type. It changes only through Apply and is
// not safe for concurrent use.
type Order struct {
	traderID      identifier.TraderID
	strategyID    identifier.StrategyID
	instrumentID  identifier.InstrumentID
	clientOrderID identifier.ClientOrderID
	venueOrderID  *identifier.VenueOrderID
	positionID    *identifier.PositionID
	accountID     *identifier.AccountID
	lastTradeID   *identifier.TradeID

	side          enum.OrderSide
	typ           enum.OrderType
	quantity      types.Quantity
	timeInForce   enum.TimeInForce
	params        Params
	liquiditySide enum.LiquiditySide
	reduceOnly    bool
	quoteQuantity bool

	emulationTrigger    enum.TriggerType
	contingencyType     enum.ContingencyType
	orderListID         *identifier.OrderListID
	linkedOrderIDs      []identifier.ClientOrderID
	parentOrderID       *identifier.ClientOrderID
	execAlgorithmID     *identifier.ExecAlgorithmID
	execAlgorithmParams map[string]string
	execSpawnID         *identifier.ClientOrderID
	tags                []string

	status         enum.OrderStatus
	previousStatus enum.OrderStatus
	filledQty      types.Quantity
	leavesQty      types.Quantity
	avgPx          *float64
	slippage       *float64
	isTriggered    bool
	commissions    map[string]types.Money
	venueOrderIDs  []identifier.VenueOrderID
	tradeIDs       []identifier.TradeID
	events         []event.OrderEvent

	initID      uuid.UUID
	tsInit      uint64
	tsSubmitted uint64
	tsAccepted  uint64
	tsTriggered uint64
	tsClosed    uint64
	tsLast      uint64
}

// New builds an order from its init event, validating the fields its type
// and time in force require.
func New(init event.Initialized) (*Order, error) {
	if err := validate(init); err != nil {
		return nil, err
	}

	p := Params{
		Price:               init.Price,
		TriggerPrice:        init.TriggerPrice,
		TriggerType:         init.TriggerType,
		LimitOffset:         init.LimitOffset,
		TrailingOffset:      init.TrailingOffset,
		TrailingOffsetType:  init.TrailingOffsetType,
		ExpireTime:          init.ExpireTime,
		DisplayQty:          init.DisplayQty,
		TriggerInstrumentID: init.TriggerInstrumentID,
		PostOnly:            init.PostOnly,
	}
	if !p.TriggerType.IsAvailable() {
		p.TriggerType = enum.TriggerTypeNoTrigger
	}
	if init.Type.HasTriggerPrice() && p.TriggerType == enum.TriggerTypeNoTrigger {
		p.TriggerType = enum.TriggerTypeDefault
	}
	init.TriggerType = p.TriggerType
	if !init.EmulationTrigger.IsAvailable() {
		init.EmulationTrigger = enum.TriggerTypeNoTrigger
	}
	if !init.ContingencyType.IsAvailable() {
		init.ContingencyType = enum.ContingencyTypeNoContingency
	}
	if init.TimeInForce != enum.TimeInForceGTD {
		p.ExpireTime = nil
	}

	o := &Order{
		traderID:            init.TraderID,
		strategyID:          init.StrategyID,
		instrumentID:        init.InstrumentID,
		clientOrderID:       init.ClientOrderID,
		side:                init.Side,
		typ:                 init.Type,
		quantity:            init.Quantity,
		timeInForce:         init.TimeInForce,
		params:              p,
		liquiditySide:       enum.LiquiditySideNoLiquiditySide,
		reduceOnly:          init.ReduceOnly,
		quoteQuantity:       init.QuoteQuantity,
		emulationTrigger:    init.EmulationTrigger,
		contingencyType:     init.ContingencyType,
		orderListID:         init.OrderListID,
		linkedOrderIDs:      slices.Clone(init.LinkedOrderIDs),
		parentOrderID:       init.ParentOrderID,
		execAlgorithmID:     init.ExecAlgorithmID,
		execAlgorithmParams: init.ExecAlgorithmParams,
		execSpawnID:         init.ExecSpawnID,
		tags:                slices.Clone(init.Tags),
		status:              enum.OrderStatusInitialized,
		filledQty:           types.QuantityZero(init.Quantity.Precision()),
		leavesQty:           init.Quantity,
		commissions:         make(map[string]types.Money),
		events:              []event.OrderEvent{init},
		initID:              init.EventID,
		tsInit:              init.TsEvent,
		tsLast:              init.TsEvent,
	}
	if o.execAlgorithmID != nil && o.execSpawnID == nil {
		spawn := o.clientOrderID
		o.execSpawnID = &spawn
	}
	return o, nil
}

func validate(init event.Initialized) error {
	id := init.ClientOrderID
	if id == "" {
		return errors.Wrap(exception.ErrOrderMissingField, "client_order_id")
	}
	if !init.Side.IsAvailable() {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s side", id)
	}
	if !init.Type.IsAvailable() {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s type", id)
	}
	if !init.TimeInForce.IsAvailable() {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s time_in_force", id)
	}
	if !init.Quantity.IsPositive() {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s quantity must be > 0", id)
	}

	typ := init.Type
	switch {
	case typ == enum.OrderTypeMarket && init.TimeInForce == enum.TimeInForceGTD:
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s %s with %s", id, typ, init.TimeInForce)
	case typ == enum.OrderTypeMarketToLimit && (init.TimeInForce == enum.TimeInForceAtTheOpen || init.TimeInForce == enum.TimeInForceAtTheClose):
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s %s with %s", id, typ, init.TimeInForce)
	}

	if typ.HasPrice() && !typ.IsTrailing() && init.Price == nil {
		return errors.Wrapf(exception.ErrOrderMissingField, "%s %s price", id, typ)
	}
	if !typ.HasPrice() && init.Price != nil {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s %s cannot carry a price", id, typ)
	}
	if typ.HasTriggerPrice() && !typ.IsTrailing() && init.TriggerPrice == nil {
		return errors.Wrapf(exception.ErrOrderMissingField, "%s %s trigger_price", id, typ)
	}
	if !typ.HasTriggerPrice() && init.TriggerPrice != nil {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s %s cannot carry a trigger_price", id, typ)
	}
	if typ.IsTrailing() {
		if init.TrailingOffset == nil {
			return errors.Wrapf(exception.ErrOrderMissingField, "%s %s trailing_offset", id, typ)
		}
		if !init.TrailingOffsetType.IsAvailable() || init.TrailingOffsetType == enum.TrailingOffsetTypeNoTrailingOffset {
			return errors.Wrapf(exception.ErrOrderMissingField, "%s %s trailing_offset_type", id, typ)
		}
		if typ == enum.OrderTypeTrailingStopLimit && init.LimitOffset == nil {
			return errors.Wrapf(exception.ErrOrderMissingField, "%s %s limit_offset", id, typ)
		}
	}
	if init.TimeInForce == enum.TimeInForceGTD && (init.ExpireTime == nil || *init.ExpireTime == 0) {
		return errors.Wrapf(exception.ErrOrderMissingField, "%s GTD expire_time", id)
	}
	if init.DisplayQty != nil && init.DisplayQty.Cmp(init.Quantity) > 0 {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s display_qty %s exceeds quantity %s", id, init.DisplayQty, init.Quantity)
	}
	return nil
}

func (o *Order) TraderID() identifier.TraderID           { return o.traderID }
func (o *Order) StrategyID() identifier.StrategyID       { return o.strategyID }
func (o *Order) InstrumentID() identifier.InstrumentID   { return o.instrumentID }
func (o *Order) ClientOrderID() identifier.ClientOrderID { return o.clientOrderID }
func (o *Order) Side() enum.OrderSide                    { return o.side }
func (o *Order) Type() enum.OrderType                    { return o.typ }
func (o *Order) Quantity() types.Quantity                { return o.quantity }
func (o *Order) TimeInForce() enum.TimeInForce           { return o.timeInForce }
func (o *Order) Params() Params                          { return o.params }
func (o *Order) Status() enum.OrderStatus                { return o.status }
func (o *Order) FilledQty() types.Quantity               { return o.filledQty }
func (o *Order) LeavesQty() types.Quantity               { return o.leavesQty }
func (o *Order) LiquiditySide() enum.LiquiditySide       { return o.liquiditySide }
func (o *Order) IsReduceOnly() bool                      { return o.reduceOnly }
func (o *Order) IsQuoteQuantity() bool                   { return o.quoteQuantity }
func (o *Order) IsPostOnly() bool                        { return o.params.PostOnly }
func (o *Order) EmulationTrigger() enum.TriggerType      { return o.emulationTrigger }
func (o *Order) ContingencyType() enum.ContingencyType   { return o.contingencyType }
func (o *Order) LinkedOrderIDs() []identifier.ClientOrderID {
	return slices.Clone(o.linkedOrderIDs)
}
func (o *Order) Tags() []string        { return slices.Clone(o.tags) }
func (o *Order) InitID() uuid.UUID     { return o.initID }
func (o *Order) TsInit() uint64        { return o.tsInit }
func (o *Order) TsSubmitted() uint64   { return o.tsSubmitted }
func (o *Order) TsAccepted() uint64    { return o.tsAccepted }
func (o *Order) TsTriggered() uint64   { return o.tsTriggered }
func (o *Order) TsClosed() uint64      { return o.tsClosed }
func (o *Order) TsLast() uint64        { return o.tsLast }
func (o *Order) IsTriggered() bool     { return o.isTriggered }
func (o *Order) EventCount() int       { return len(o.events) }
func (o *Order) HasPrice() bool        { return o.params.Price != nil }
func (o *Order) HasTriggerPrice() bool { return o.params.TriggerPrice != nil }
func (o *Order) ExecAlgorithmParams() map[string]string {
	if o.execAlgorithmParams == nil {
		return nil
	}
	out := make(map[string]string, len(o.execAlgorithmParams))
	for k, v := range o.execAlgorithmParams {
		out[k] = v
	}
	return out
}

// PreviousStatus is the status before the last change; zero when none.
func (o *Order) PreviousStatus() (enum.OrderStatus, bool) {
	return o.previousStatus, o.previousStatus.IsAvailable()
}

func (o *Order) VenueOrderID() (identifier.VenueOrderID, bool) { return deref(o.venueOrderID) }
func (o *Order) PositionID() (identifier.PositionID, bool)     { return deref(o.positionID) }
func (o *Order) AccountID() (identifier.AccountID, bool)       { return deref(o.accountID) }
func (o *Order) LastTradeID() (identifier.TradeID, bool)       { return deref(o.lastTradeID) }
func (o *Order) OrderListID() (identifier.OrderListID, bool)   { return deref(o.orderListID) }
func (o *Order) ParentOrderID() (identifier.ClientOrderID, bool) {
	return deref(o.parentOrderID)
}
func (o *Order) ExecAlgorithmID() (identifier.ExecAlgorithmID, bool) {
	return deref(o.execAlgorithmID)
}
func (o *Order) ExecSpawnID() (identifier.ClientOrderID, bool) { return deref(o.execSpawnID) }
func (o *Order) AvgPx() (float64, bool)                        { return deref(o.avgPx) }
func (o *Order) Slippage() (float64, bool)                     { return deref(o.slippage) }
func (o *Order) Price() (types.Price, bool)                    { return deref(o.params.Price) }
func (o *Order) TriggerPrice() (types.Price, bool)             { return deref(o.params.TriggerPrice) }
func (o *Order) ExpireTime() (uint64, bool)                    { return deref(o.params.ExpireTime) }

// SetPositionID assigns the position an order fills into before any fill
// names one.
func (o *Order) SetPositionID(id identifier.PositionID) {
	o.positionID = &id
}

// VenueOrderIDs is the history of replaced venue order ids, oldest first.
func (o *Order) VenueOrderIDs() []identifier.VenueOrderID {
	return slices.Clone(o.venueOrderIDs)
}

// TradeIDs lists distinct trade ids in first seen order.
func (o *Order) TradeIDs() []identifier.TradeID {
	return slices.Clone(o.tradeIDs)
}

func (o *Order) Events() []event.OrderEvent {
	return slices.Clone(o.events)
}

func (o *Order) InitEvent() event.Initialized {
	return o.events[0].(event.Initialized)
}

func (o *Order) LastEvent() event.OrderEvent {
	return o.events[len(o.events)-1]
}

// Commission returns the accumulated commission in currency.
func (o *Order) Commission(currency types.Currency) (types.Money, bool) {
	m, ok := o.commissions[currency.Code]
	return m, ok
}

// Commissions lists accumulated commissions sorted by currency code.
func (o *Order) Commissions() []types.Money {
	return sortedMoney(o.commissions)
}

func (o *Order) IsBuy() bool  { return o.side == enum.OrderSideBuy }
func (o *Order) IsSell() bool { return o.side == enum.OrderSideSell }

func (o *Order) IsPassive() bool    { return o.typ != enum.OrderTypeMarket }
func (o *Order) IsAggressive() bool { return o.typ == enum.OrderTypeMarket }

func (o *Order) IsEmulated() bool { return o.status == enum.OrderStatusEmulated }

func (o *Order) IsActiveLocal() bool {
	switch o.status {
	case enum.OrderStatusInitialized, enum.OrderStatusEmulated, enum.OrderStatusReleased:
		return true
	default:
		return false
	}
}

func (o *Order) IsOpen() bool {
	if o.emulationTrigger != enum.TriggerTypeNoTrigger {
		return false
	}
	switch o.status {
	case enum.OrderStatusAccepted, enum.OrderStatusTriggered, enum.OrderStatusPendingCancel,
		enum.OrderStatusPendingUpdate, enum.OrderStatusPartiallyFilled:
		return true
	default:
		return false
	}
}

func (o *Order) IsClosed() bool   { return o.status.IsTerminal() }
func (o *Order) IsCanceled() bool { return o.status == enum.OrderStatusCanceled }

func (o *Order) IsInflight() bool {
	if o.emulationTrigger != enum.TriggerTypeNoTrigger {
		return false
	}
	switch o.status {
	case enum.OrderStatusSubmitted, enum.OrderStatusPendingCancel, enum.OrderStatusPendingUpdate:
		return true
	default:
		return false
	}
}

func (o *Order) IsPendingUpdate() bool { return o.status == enum.OrderStatusPendingUpdate }
func (o *Order) IsPendingCancel() bool { return o.status == enum.OrderStatusPendingCancel }

func (o *Order) IsContingency() bool { return o.contingencyType != enum.ContingencyTypeNoContingency }
func (o *Order) IsParentOrder() bool { return o.contingencyType == enum.ContingencyTypeOTO }
func (o *Order) IsChildOrder() bool  { return o.parentOrderID != nil }

// IsPrimary reports whether an exec algorithm order is its own spawn.
func (o *Order) IsPrimary() bool {
	return o.execAlgorithmID != nil && o.execSpawnID != nil && *o.execSpawnID == o.clientOrderID
}

func (o *Order) IsSecondary() bool {
	return o.execAlgorithmID != nil && o.execSpawnID != nil && *o.execSpawnID != o.clientOrderID
}

func (o *Order) IsSpawned() bool {
	return o.execSpawnID != nil && *o.execSpawnID != o.clientOrderID
}

// WouldReduceOnly reports whether the open remainder would only reduce a
// position of side and qty.
func (o *Order) WouldReduceOnly(side enum.PositionSide, qty types.Quantity) bool {
	switch {
	case side == enum.PositionSideFlat:
		return false
	case o.side == enum.OrderSideBuy && side == enum.PositionSideShort,
		o.side == enum.OrderSideSell && side == enum.PositionSideLong:
		return o.leavesQty.Cmp(qty) <= 0
	case o.side == enum.OrderSideBuy && side == enum.PositionSideLong,
		o.side == enum.OrderSideSell && side == enum.PositionSideShort:
		return false
	default:
		return true
	}
}

// SetSlippage records how far the average fill moved against px.
func (o *Order) SetSlippage(px types.Price) {
	o.slippage = nil
	if o.avgPx == nil {
		return
	}
	avg, ref := *o.avgPx, px.Float64()
	switch {
	case o.side == enum.OrderSideBuy && avg > ref:
		v := avg - ref
		o.slippage = &v
	case o.side == enum.OrderSideSell && avg < ref:
		v := ref - avg
		o.slippage = &v
	}
}

// SignedDecimalQty is the quantity, negative for sells.
func (o *Order) SignedDecimalQty() decimal.Decimal {
	if o.side == enum.OrderSideSell {
		return o.quantity.Decimal().Neg()
	}
	return o.quantity.Decimal()
}

// OppositeSide fails for an unavailable side.
func OppositeSide(side enum.OrderSide) (enum.OrderSide, error) {
	if !side.IsAvailable() {
		return 0, errors.Wrapf(exception.ErrInvalidArgument, "order side %s", side)
	}
	return side.Opposite(), nil
}

// ClosingSide is the order side that reduces a position; FLAT has none.
func ClosingSide(side enum.PositionSide) (enum.OrderSide, error) {
	if side != enum.PositionSideLong && side != enum.PositionSideShort {
		return 0, errors.Wrapf(exception.ErrInvalidArgument, "position side %s", side)
	}
	return side.ClosingOrderSide(), nil
}

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func sortedMoney(m map[string]types.Money) []types.Money {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	out := make([]types.Money, 0, len(codes))
	for _, code := range codes {
		out = append(out, m[code])
	}
	return out
}
