package order

import (
	"slices"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// Apply moves the order through one event. On error the order is unchanged.
func (o *Order) Apply(ev event.OrderEvent) error {
	if ev == nil {
		return errors.Wrap(exception.ErrNilInstance, "apply order event")
	}
	h := ev.Head()
	if h.ClientOrderID != o.clientOrderID {
		return errors.Wrapf(exception.ErrOrderMismatchedEvent, "%s event for %s", h.ClientOrderID, o.clientOrderID)
	}
	if h.StrategyID != "" && h.StrategyID != o.strategyID {
		return errors.Wrapf(exception.ErrOrderMismatchedEvent, "%s strategy %s, order strategy %s", o.clientOrderID, h.StrategyID, o.strategyID)
	}
	if _, ok := ev.(event.Initialized); ok {
		return errors.Wrapf(exception.ErrOrderAlreadyInitialized, "%s", o.clientOrderID)
	}

	next, err := nextStatus(o.status, o.previousStatus, o.typ, ev.Kind())
	if err != nil {
		return errors.Wrapf(err, "%s", o.clientOrderID)
	}

	switch e := ev.(type) {
	case event.Denied:
		o.tsClosed = e.TsEvent
	case event.Invalid:
		o.tsClosed = e.TsEvent
	case event.Emulated:
	case event.Released:
		o.emulationTrigger = enum.TriggerTypeNoTrigger
	case event.Submitted:
		account := e.AccountID
		o.accountID = &account
		o.tsSubmitted = e.TsEvent
	case event.Accepted:
		o.setVenueOrderID(e.VenueOrderID)
		if e.AccountID != "" {
			account := e.AccountID
			o.accountID = &account
		}
		o.tsAccepted = e.TsEvent
	case event.Rejected:
		o.tsClosed = e.TsEvent
	case event.Canceled:
		o.applyVenue(e.Venue)
		o.tsClosed = e.TsEvent
	case event.Expired:
		o.applyVenue(e.Venue)
		o.tsClosed = e.TsEvent
	case event.Triggered:
		o.applyVenue(e.Venue)
		o.isTriggered = true
		o.tsTriggered = e.TsEvent
	case event.PendingUpdate:
		o.applyVenue(e.Venue)
	case event.PendingCancel:
		o.applyVenue(e.Venue)
	case event.ModifyRejected:
	case event.CancelRejected:
	case event.Updated:
		if err := o.updated(e); err != nil {
			return err
		}
	case event.Filled:
		status, err := o.filled(e)
		if err != nil {
			return err
		}
		next = status
	default:
		return errors.Wrapf(exception.ErrUnknownEvent, "%T", ev)
	}

	if next != o.status {
		o.previousStatus = o.status
		o.status = next
	}
	o.tsLast = h.TsEvent
	o.events = append(o.events, ev)
	return nil
}

func (o *Order) applyVenue(v event.Venue) {
	if v.VenueOrderID != nil {
		o.setVenueOrderID(*v.VenueOrderID)
	}
	if v.AccountID != nil && o.accountID == nil {
		account := *v.AccountID
		o.accountID = &account
	}
}

// setVenueOrderID makes id current, keeping a replaced id in the history.
func (o *Order) setVenueOrderID(id identifier.VenueOrderID) {
	if id == "" {
		return
	}
	if o.venueOrderID != nil {
		if *o.venueOrderID == id {
			return
		}
		o.venueOrderIDs = append(o.venueOrderIDs, *o.venueOrderID)
	}
	o.venueOrderID = &id
}

func (o *Order) updated(e event.Updated) error {
	if e.Price != nil && !o.typ.HasPrice() && o.typ != enum.OrderTypeMarketToLimit {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s %s cannot carry a price", o.clientOrderID, o.typ)
	}
	if e.TriggerPrice != nil && !o.typ.HasTriggerPrice() {
		return errors.Wrapf(exception.ErrOrderInvalidField, "%s %s cannot carry a trigger_price", o.clientOrderID, o.typ)
	}
	quantity, leaves := o.quantity, o.leavesQty
	if !e.Quantity.IsZero() {
		if e.Quantity.Cmp(o.filledQty) < 0 {
			return errors.Wrapf(exception.ErrOrderInvalidField, "%s updated quantity %s below filled %s", o.clientOrderID, e.Quantity, o.filledQty)
		}
		var err error
		if leaves, err = e.Quantity.Sub(o.filledQty); err != nil {
			return errors.Wrapf(err, "%s leaves quantity", o.clientOrderID)
		}
		quantity = e.Quantity
	}

	o.applyVenue(e.Venue)
	o.quantity, o.leavesQty = quantity, leaves
	if e.Price != nil {
		px := *e.Price
		o.params.Price = &px
	}
	if e.TriggerPrice != nil {
		px := *e.TriggerPrice
		o.params.TriggerPrice = &px
	}
	return nil
}

// filled validates the fill completely before touching any state and returns
// the status the order settles in.
func (o *Order) filled(e event.Filled) (enum.OrderStatus, error) {
	if !e.LastQty.IsPositive() {
		return 0, errors.Wrapf(exception.ErrOrderInvalidField, "%s fill last_qty must be > 0", o.clientOrderID)
	}
	for _, prior := range o.events {
		f, ok := prior.(event.Filled)
		if !ok {
			continue
		}
		if f.EventID == e.EventID || f.SameExecution(e) {
			return 0, errors.Wrapf(exception.ErrOrderDuplicateFill, "%s trade %s", o.clientOrderID, e.TradeID)
		}
	}
	filled, err := o.filledQty.Add(e.LastQty)
	if err != nil {
		return 0, errors.Wrapf(err, "%s filled quantity", o.clientOrderID)
	}
	if filled.Cmp(o.quantity) > 0 {
		return 0, errors.Wrapf(exception.ErrOrderOverfill, "%s filled %s + last %s > quantity %s", o.clientOrderID, o.filledQty, e.LastQty, o.quantity)
	}
	leaves, err := o.quantity.Sub(filled)
	if err != nil {
		return 0, errors.Wrapf(err, "%s leaves quantity", o.clientOrderID)
	}
	var commission types.Money
	if e.Commission != nil {
		commission = *e.Commission
		if prev, ok := o.commissions[commission.Currency().Code]; ok {
			if commission, err = prev.Add(commission); err != nil {
				return 0, errors.Wrapf(err, "%s commission", o.clientOrderID)
			}
		}
	}

	status := enum.OrderStatusPartiallyFilled
	if filled.Cmp(o.quantity) == 0 {
		status = enum.OrderStatusFilled
		o.tsClosed = e.TsEvent
	}

	o.setVenueOrderID(e.VenueOrderID)
	if e.PositionID != nil {
		positionID := *e.PositionID
		o.positionID = &positionID
	}
	if e.AccountID != "" && o.accountID == nil {
		account := e.AccountID
		o.accountID = &account
	}
	if !slices.Contains(o.tradeIDs, e.TradeID) {
		o.tradeIDs = append(o.tradeIDs, e.TradeID)
	}
	tradeID := e.TradeID
	o.lastTradeID = &tradeID
	o.liquiditySide = e.LiquiditySide
	if e.Commission != nil {
		o.commissions[commission.Currency().Code] = commission
	}
	if o.tsAccepted == 0 {
		o.tsAccepted = e.TsEvent
	}
	if o.typ == enum.OrderTypeMarketToLimit && o.params.Price == nil {
		px := e.LastPx
		o.params.Price = &px
	}
	o.setAvgPx(e.LastQty, e.LastPx)
	o.filledQty = filled
	o.leavesQty = leaves
	return status, nil
}

// setAvgPx folds a fill into the size weighted average; call before
// filledQty moves.
func (o *Order) setAvgPx(lastQty types.Quantity, lastPx types.Price) {
	qty, px := lastQty.Float64(), lastPx.Float64()
	if o.avgPx == nil {
		o.avgPx = &px
		return
	}
	prev := o.filledQty.Float64()
	avg := (*o.avgPx*prev + px*qty) / (prev + qty)
	o.avgPx = &avg
}
