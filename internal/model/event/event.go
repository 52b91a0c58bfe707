package event

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
)

// OrderEvent is the closed set of events an order can receive. Consumers
// match on the concrete type and treat anything else as ErrUnknownEvent.
type OrderEvent interface {
	Kind() Kind
	Head() Header
	sealed()
}

// Header carries the fields common to every order event.
type Header struct {
	TraderID      identifier.TraderID      `json:"trader_id"`
	StrategyID    identifier.StrategyID    `json:"strategy_id"`
	InstrumentID  identifier.InstrumentID  `json:"instrument_id"`
	ClientOrderID identifier.ClientOrderID `json:"client_order_id"`
	EventID       uuid.UUID                `json:"event_id"`
	TsEvent       uint64                   `json:"ts_event"`
	TsInit        uint64                   `json:"ts_init"`
}

// NewHeader stamps a fresh random event id.
func NewHeader(trader identifier.TraderID, strategy identifier.StrategyID, instrument identifier.InstrumentID, clientOrderID identifier.ClientOrderID, tsEvent, tsInit uint64) Header {
	return Header{
		TraderID:      trader,
		StrategyID:    strategy,
		InstrumentID:  instrument,
		ClientOrderID: clientOrderID,
		EventID:       uuid.New(),
		TsEvent:       tsEvent,
		TsInit:        tsInit,
	}
}

// Next copies the order reference of h into a new header.
func (h Header) Next(tsEvent, tsInit uint64) Header {
	return NewHeader(h.TraderID, h.StrategyID, h.InstrumentID, h.ClientOrderID, tsEvent, tsInit)
}

func (h Header) Head() Header { return h }

// Initialized creates an order. Optional parameters are nil when absent.
type Initialized struct {
	Header
	Side                enum.OrderSide              `json:"side"`
	Type                enum.OrderType              `json:"type"`
	Quantity            types.Quantity              `json:"quantity"`
	TimeInForce         enum.TimeInForce            `json:"time_in_force"`
	PostOnly            bool                        `json:"post_only"`
	ReduceOnly          bool                        `json:"reduce_only"`
	QuoteQuantity       bool                        `json:"quote_quantity"`
	Price               *types.Price                `json:"price,omitempty"`
	TriggerPrice        *types.Price                `json:"trigger_price,omitempty"`
	TriggerType         enum.TriggerType            `json:"trigger_type,omitempty"`
	LimitOffset         *decimal.Decimal            `json:"limit_offset,omitempty"`
	TrailingOffset      *decimal.Decimal            `json:"trailing_offset,omitempty"`
	TrailingOffsetType  enum.TrailingOffsetType     `json:"trailing_offset_type,omitempty"`
	ExpireTime          *uint64                     `json:"expire_time,omitempty"`
	DisplayQty          *types.Quantity             `json:"display_qty,omitempty"`
	EmulationTrigger    enum.TriggerType            `json:"emulation_trigger,omitempty"`
	TriggerInstrumentID *identifier.InstrumentID    `json:"trigger_instrument_id,omitempty"`
	ContingencyType     enum.ContingencyType        `json:"contingency_type,omitempty"`
	OrderListID         *identifier.OrderListID     `json:"order_list_id,omitempty"`
	LinkedOrderIDs      []identifier.ClientOrderID  `json:"linked_order_ids,omitempty"`
	ParentOrderID       *identifier.ClientOrderID   `json:"parent_order_id,omitempty"`
	ExecAlgorithmID     *identifier.ExecAlgorithmID `json:"exec_algorithm_id,omitempty"`
	ExecAlgorithmParams map[string]string           `json:"exec_algorithm_params,omitempty"`
	ExecSpawnID         *identifier.ClientOrderID   `json:"exec_spawn_id,omitempty"`
	Tags                []string                    `json:"tags,omitempty"`
	Reconciliation      bool                        `json:"reconciliation"`
}

// Denied is a pre-trade rejection before the order reached a venue.
type Denied struct {
	Header
	Reason string `json:"reason"`
}

// Invalid marks an order that failed validation after initialization.
type Invalid struct {
	Header
	Reason string `json:"reason"`
}

type Emulated struct {
	Header
}

// Released hands an emulated order to the venue at ReleasedPrice.
type Released struct {
	Header
	ReleasedPrice types.Price `json:"released_price"`
}

type Submitted struct {
	Header
	AccountID identifier.AccountID `json:"account_id"`
}

type Accepted struct {
	Header
	VenueOrderID   identifier.VenueOrderID `json:"venue_order_id"`
	AccountID      identifier.AccountID    `json:"account_id"`
	Reconciliation bool                    `json:"reconciliation"`
}

type Rejected struct {
	Header
	AccountID      identifier.AccountID `json:"account_id"`
	Reason         string               `json:"reason"`
	DueToPostOnly  bool                 `json:"due_post_only"`
	Reconciliation bool                 `json:"reconciliation"`
}

// Venue carries the optional venue references of venue driven events.
type Venue struct {
	VenueOrderID   *identifier.VenueOrderID `json:"venue_order_id,omitempty"`
	AccountID      *identifier.AccountID    `json:"account_id,omitempty"`
	Reconciliation bool                     `json:"reconciliation"`
}

type Canceled struct {
	Header
	Venue
}

type Expired struct {
	Header
	Venue
}

type Triggered struct {
	Header
	Venue
}

type PendingUpdate struct {
	Header
	Venue
}

type PendingCancel struct {
	Header
	Venue
}

type ModifyRejected struct {
	Header
	Venue
	Reason string `json:"reason"`
}

type CancelRejected struct {
	Header
	Venue
	Reason string `json:"reason"`
}

// Updated amends quantity and prices; nil prices are left unchanged.
type Updated struct {
	Header
	Venue
	Quantity     types.Quantity `json:"quantity"`
	Price        *types.Price   `json:"price,omitempty"`
	TriggerPrice *types.Price   `json:"trigger_price,omitempty"`
}

// Filled reports one execution against the order.
type Filled struct {
	Header
	VenueOrderID   identifier.VenueOrderID `json:"venue_order_id"`
	AccountID      identifier.AccountID    `json:"account_id"`
	TradeID        identifier.TradeID      `json:"trade_id"`
	PositionID     *identifier.PositionID  `json:"position_id,omitempty"`
	OrderSide      enum.OrderSide          `json:"order_side"`
	OrderType      enum.OrderType          `json:"order_type"`
	LastQty        types.Quantity          `json:"last_qty"`
	LastPx         types.Price             `json:"last_px"`
	Currency       types.Currency          `json:"currency"`
	Commission     *types.Money            `json:"commission,omitempty"`
	LiquiditySide  enum.LiquiditySide      `json:"liquidity_side"`
	Reconciliation bool                    `json:"reconciliation"`
}

func (f Filled) IsBuy() bool  { return f.OrderSide == enum.OrderSideBuy }
func (f Filled) IsSell() bool { return f.OrderSide == enum.OrderSideSell }

// SameExecution reports whether g repeats f, ignoring event identity.
func (f Filled) SameExecution(g Filled) bool {
	if f.TradeID != g.TradeID || f.OrderSide != g.OrderSide || f.LiquiditySide != g.LiquiditySide {
		return false
	}
	if !f.LastQty.Equal(g.LastQty) || !f.LastPx.Equal(g.LastPx) || f.Currency.Code != g.Currency.Code {
		return false
	}
	switch {
	case f.Commission == nil && g.Commission == nil:
		return true
	case f.Commission == nil || g.Commission == nil:
		return false
	default:
		return f.Commission.Equal(*g.Commission)
	}
}

func (Initialized) Kind() Kind    { return KindInitialized }
func (Denied) Kind() Kind         { return KindDenied }
func (Invalid) Kind() Kind        { return KindInvalid }
func (Emulated) Kind() Kind       { return KindEmulated }
func (Released) Kind() Kind       { return KindReleased }
func (Submitted) Kind() Kind      { return KindSubmitted }
func (Accepted) Kind() Kind       { return KindAccepted }
func (Rejected) Kind() Kind       { return KindRejected }
func (Canceled) Kind() Kind       { return KindCanceled }
func (Expired) Kind() Kind        { return KindExpired }
func (Triggered) Kind() Kind      { return KindTriggered }
func (PendingUpdate) Kind() Kind  { return KindPendingUpdate }
func (PendingCancel) Kind() Kind  { return KindPendingCancel }
func (ModifyRejected) Kind() Kind { return KindModifyRejected }
func (CancelRejected) Kind() Kind { return KindCancelRejected }
func (Updated) Kind() Kind        { return KindUpdated }
func (Filled) Kind() Kind         { return KindFilled }

func (Initialized) sealed()    {}
func (Denied) sealed()         {}
func (Invalid) sealed()        {}
func (Emulated) sealed()       {}
func (Released) sealed()       {}
func (Submitted) sealed()      {}
func (Accepted) sealed()       {}
func (Rejected) sealed()       {}
func (Canceled) sealed()       {}
func (Expired) sealed()        {}
func (Triggered) sealed()      {}
func (PendingUpdate) sealed()  {}
func (PendingCancel) sealed()  {}
func (ModifyRejected) sealed() {}
func (CancelRejected) sealed() {}
func (Updated) sealed()        {}
func (Filled) sealed()         {}
