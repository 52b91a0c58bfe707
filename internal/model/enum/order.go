package enum

// OrderSide buy, sell
//
//go:generate enumgen
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

// Opposite returns the other side. An unavailable side stays as is.
func (s OrderSide) Opposite() OrderSide {
	switch s {
	case OrderSideBuy:
		return OrderSideSell
	case OrderSideSell:
		return OrderSideBuy
	default:
		return s
	}
}

// OrderType market, limit, stop and touched variants, trailing stops
//
//go:generate enumgen
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeMarket
	OrderTypeLimit
	OrderTypeStopMarket
	OrderTypeStopLimit
	OrderTypeMarketToLimit
	OrderTypeMarketIfTouched
	OrderTypeLimitIfTouched
	OrderTypeTrailingStopMarket
	OrderTypeTrailingStopLimit
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

// HasPrice reports whether orders of this type rest at a limit price.
func (t OrderType) HasPrice() bool {
	switch t {
	case OrderTypeLimit, OrderTypeStopLimit, OrderTypeLimitIfTouched, OrderTypeTrailingStopLimit:
		return true
	default:
		return false
	}
}

// HasTriggerPrice reports whether orders of this type activate on a trigger price.
func (t OrderType) HasTriggerPrice() bool {
	switch t {
	case OrderTypeStopMarket, OrderTypeStopLimit, OrderTypeMarketIfTouched, OrderTypeLimitIfTouched,
		OrderTypeTrailingStopMarket, OrderTypeTrailingStopLimit:
		return true
	default:
		return false
	}
}

// IsTrailing reports whether the trigger price follows the market by an offset.
func (t OrderType) IsTrailing() bool {
	return t == OrderTypeTrailingStopMarket || t == OrderTypeTrailingStopLimit
}

// OrderStatus lifecycle states of an order
//
//go:generate enumgen
type OrderStatus uint8

const (
	_order_status_beg OrderStatus = iota
	OrderStatusInitialized
	OrderStatusDenied
	OrderStatusEmulated
	OrderStatusReleased
	OrderStatusSubmitted
	OrderStatusAccepted
	OrderStatusRejected
	OrderStatusCanceled
	OrderStatusExpired
	OrderStatusTriggered
	OrderStatusPendingUpdate
	OrderStatusPendingCancel
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusInvalid
	_order_status_end
)

func (s OrderStatus) IsAvailable() bool {
	return s > _order_status_beg && s < _order_status_end
}

// IsTerminal reports whether no further transition except a late fill is expected.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDenied, OrderStatusRejected, OrderStatusCanceled, OrderStatusExpired,
		OrderStatusFilled, OrderStatusInvalid:
		return true
	default:
		return false
	}
}

// TimeInForce GTC, IOC, FOK, GTD, DAY, at the open, at the close
//
//go:generate enumgen
type TimeInForce uint8

const (
	_time_in_force_beg TimeInForce = iota
	TimeInForceGTC
	TimeInForceIOC
	TimeInForceFOK
	TimeInForceGTD
	TimeInForceDay
	TimeInForceAtTheOpen
	TimeInForceAtTheClose
	_time_in_force_end
)

func (t TimeInForce) IsAvailable() bool {
	return t > _time_in_force_beg && t < _time_in_force_end
}

// ContingencyType links between orders of one list
//
//go:generate enumgen
type ContingencyType uint8

const (
	_contingency_type_beg ContingencyType = iota
	ContingencyTypeNoContingency
	ContingencyTypeOCO
	ContingencyTypeOTO
	ContingencyTypeOUO
	_contingency_type_end
)

func (c ContingencyType) IsAvailable() bool {
	return c > _contingency_type_beg && c < _contingency_type_end
}

// TriggerType price source used to activate or emulate an order
//
//go:generate enumgen
type TriggerType uint8

const (
	_trigger_type_beg TriggerType = iota
	TriggerTypeNoTrigger
	TriggerTypeDefault
	TriggerTypeBidAsk
	TriggerTypeLastPrice
	TriggerTypeDoubleLast
	TriggerTypeDoubleBidAsk
	TriggerTypeLastOrBidAsk
	TriggerTypeMidPoint
	TriggerTypeMarkPrice
	TriggerTypeIndexPrice
	_trigger_type_end
)

func (t TriggerType) IsAvailable() bool {
	return t > _trigger_type_beg && t < _trigger_type_end
}

// TrailingOffsetType unit of a trailing offset
//
//go:generate enumgen
type TrailingOffsetType uint8

const (
	_trailing_offset_type_beg TrailingOffsetType = iota
	TrailingOffsetTypeNoTrailingOffset
	TrailingOffsetTypePrice
	TrailingOffsetTypeBasisPoints
	TrailingOffsetTypeTicks
	TrailingOffsetTypePriceTier
	_trailing_offset_type_end
)

func (t TrailingOffsetType) IsAvailable() bool {
	return t > _trailing_offset_type_beg && t < _trailing_offset_type_end
}

// LiquiditySide maker, taker
//
//go:generate enumgen
type LiquiditySide uint8

const (
	_liquidity_side_beg LiquiditySide = iota
	LiquiditySideNoLiquiditySide
	LiquiditySideMaker
	LiquiditySideTaker
	_liquidity_side_end
)

func (s LiquiditySide) IsAvailable() bool {
	return s > _liquidity_side_beg && s < _liquidity_side_end
}
