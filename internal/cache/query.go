package cache

import (
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
)

// Filter narrows a query. Zero fields match everything.
type Filter struct {
	Venue        identifier.Venue
	InstrumentID identifier.InstrumentID
	StrategyID   identifier.StrategyID
}

func (f Filter) matches(instrumentID identifier.InstrumentID, strategyID identifier.StrategyID) bool {
	if f.Venue != "" && instrumentID.Venue != f.Venue {
		return false
	}
	if !f.InstrumentID.IsZero() && instrumentID != f.InstrumentID {
		return false
	}
	if f.StrategyID != "" && strategyID != f.StrategyID {
		return false
	}
	return true
}

// Orders lists the matching orders sorted by client order id.
func (c *Cache) Orders(f Filter) []*order.Order {
	return c.selectOrders(f, func(*order.Order) bool { return true })
}

func (c *Cache) OrdersOpen(f Filter) []*order.Order {
	return c.selectOrders(f, (*order.Order).IsOpen)
}

func (c *Cache) OrdersClosed(f Filter) []*order.Order {
	return c.selectOrders(f, (*order.Order).IsClosed)
}

func (c *Cache) OrdersInflight(f Filter) []*order.Order {
	return c.selectOrders(f, (*order.Order).IsInflight)
}

func (c *Cache) OrdersEmulated(f Filter) []*order.Order {
	return c.selectOrders(f, (*order.Order).IsEmulated)
}

func (c *Cache) Positions(f Filter) []*position.Position {
	return c.selectPositions(f, func(*position.Position) bool { return true })
}

func (c *Cache) PositionsOpen(f Filter) []*position.Position {
	return c.selectPositions(f, (*position.Position).IsOpen)
}

func (c *Cache) PositionsClosed(f Filter) []*position.Position {
	return c.selectPositions(f, (*position.Position).IsClosed)
}

func (c *Cache) selectOrders(f Filter, keep func(*order.Order) bool) []*order.Order {
	var ids []identifier.ClientOrderID
	switch {
	case !f.InstrumentID.IsZero():
		ids = c.ordersByInstrument.sorted(f.InstrumentID)
	case f.StrategyID != "":
		ids = c.ordersByStrategy.sorted(f.StrategyID)
	default:
		ids = sortedKeys(c.orders)
	}
	out := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		o := c.orders[id]
		if f.matches(o.InstrumentID(), o.StrategyID()) && keep(o) {
			out = append(out, o)
		}
	}
	return out
}

func (c *Cache) selectPositions(f Filter, keep func(*position.Position) bool) []*position.Position {
	var ids []identifier.PositionID
	switch {
	case !f.InstrumentID.IsZero():
		ids = c.positionsByInstrument.sorted(f.InstrumentID)
	case f.StrategyID != "":
		ids = c.positionsByStrategy.sorted(f.StrategyID)
	default:
		ids = sortedKeys(c.positions)
	}
	out := make([]*position.Position, 0, len(ids))
	for _, id := range ids {
		p := c.positions[id]
		if f.matches(p.InstrumentID(), p.StrategyID()) && keep(p) {
			out = append(out, p)
		}
	}
	return out
}
