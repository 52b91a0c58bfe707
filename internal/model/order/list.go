package order

import (
	"slices"

	"tradecore/internal/errors"
	"tradecore/internal/model/identifier"
	"tradecore/pkg/exception"
)

// List is a contingency group of orders on one instrument.
type List struct {
	ID           identifier.OrderListID
	InstrumentID identifier.InstrumentID
	StrategyID   identifier.StrategyID
	Orders       []*Order
	TsInit       uint64
}

// NewList groups orders, checking that they share an instrument, have
// distinct client ids, and link to each other consistently.
func NewList(id identifier.OrderListID, orders []*Order, tsInit uint64) (*List, error) {
	if len(orders) == 0 {
		return nil, errors.Wrapf(exception.ErrOrderListEmpty, "%s", id)
	}

	first := orders[0]
	byID := make(map[identifier.ClientOrderID]*Order, len(orders))
	for _, o := range orders {
		if o == nil {
			return nil, errors.Wrapf(exception.ErrNilInstance, "%s order", id)
		}
		if o.instrumentID != first.instrumentID {
			return nil, errors.Wrapf(exception.ErrOrderListMixedInstrument, "%s has %s and %s", id, first.instrumentID, o.instrumentID)
		}
		if _, dup := byID[o.clientOrderID]; dup {
			return nil, errors.Wrapf(exception.ErrOrderListDuplicateOrder, "%s %s", id, o.clientOrderID)
		}
		byID[o.clientOrderID] = o
	}

	for _, a := range orders {
		if a.orderListID != nil && *a.orderListID != id {
			return nil, errors.Wrapf(exception.ErrOrderListInconsistentLinks, "%s belongs to %s, not %s", a.clientOrderID, *a.orderListID, id)
		}
		if a.parentOrderID != nil {
			parent := *a.parentOrderID
			if parent == a.clientOrderID {
				return nil, errors.Wrapf(exception.ErrOrderListInconsistentLinks, "%s is its own parent", a.clientOrderID)
			}
			if p, ok := byID[parent]; ok && !slices.Contains(p.linkedOrderIDs, a.clientOrderID) {
				return nil, errors.Wrapf(exception.ErrOrderListInconsistentLinks, "%s names parent %s, which does not link it", a.clientOrderID, parent)
			}
		}
		for _, linked := range a.linkedOrderIDs {
			if linked == a.clientOrderID {
				return nil, errors.Wrapf(exception.ErrOrderListInconsistentLinks, "%s links itself", a.clientOrderID)
			}
			b, ok := byID[linked]
			if !ok {
				continue
			}
			if !refersTo(b, a.clientOrderID) {
				return nil, errors.Wrapf(exception.ErrOrderListInconsistentLinks, "%s links %s, which does not refer back", a.clientOrderID, b.clientOrderID)
			}
		}
	}

	return &List{
		ID:           id,
		InstrumentID: first.instrumentID,
		StrategyID:   first.strategyID,
		Orders:       slices.Clone(orders),
		TsInit:       tsInit,
	}, nil
}

func refersTo(o *Order, id identifier.ClientOrderID) bool {
	if o.parentOrderID != nil && *o.parentOrderID == id {
		return true
	}
	return slices.Contains(o.linkedOrderIDs, id)
}

func (l *List) Len() int { return len(l.Orders) }

// First is the entry order of a bracket.
func (l *List) First() *Order { return l.Orders[0] }

// Order finds a member by client id.
func (l *List) Order(id identifier.ClientOrderID) (*Order, bool) {
	for _, o := range l.Orders {
		if o.clientOrderID == id {
			return o, true
		}
	}
	return nil, false
}

// ClientOrderIDs lists members in list order.
func (l *List) ClientOrderIDs() []identifier.ClientOrderID {
	ids := make([]identifier.ClientOrderID, 0, len(l.Orders))
	for _, o := range l.Orders {
		ids = append(ids, o.clientOrderID)
	}
	return ids
}
