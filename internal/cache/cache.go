package cache

import (
	"maps"
	"slices"

	"tradecore/internal/errors"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
	"tradecore/pkg/exception"
)

// Cache is the in-memory store of orders, order lists and positions. It is
// owned by a single writer and is not safe for concurrent use.
type Cache struct {
	orders    map[identifier.ClientOrderID]*order.Order
	lists     map[identifier.OrderListID]*order.List
	positions map[identifier.PositionID]*position.Position

	venueOrders   map[identifier.VenueOrderID]identifier.ClientOrderID
	orderPosition map[identifier.ClientOrderID]identifier.PositionID
	positionOrder index[identifier.PositionID, identifier.ClientOrderID]

	ordersByInstrument    index[identifier.InstrumentID, identifier.ClientOrderID]
	ordersByStrategy      index[identifier.StrategyID, identifier.ClientOrderID]
	positionsByInstrument index[identifier.InstrumentID, identifier.PositionID]
	positionsByStrategy   index[identifier.StrategyID, identifier.PositionID]
}

func New() *Cache {
	return &Cache{
		orders:                make(map[identifier.ClientOrderID]*order.Order),
		lists:                 make(map[identifier.OrderListID]*order.List),
		positions:             make(map[identifier.PositionID]*position.Position),
		venueOrders:           make(map[identifier.VenueOrderID]identifier.ClientOrderID),
		orderPosition:         make(map[identifier.ClientOrderID]identifier.PositionID),
		positionOrder:         make(index[identifier.PositionID, identifier.ClientOrderID]),
		ordersByInstrument:    make(index[identifier.InstrumentID, identifier.ClientOrderID]),
		ordersByStrategy:      make(index[identifier.StrategyID, identifier.ClientOrderID]),
		positionsByInstrument: make(index[identifier.InstrumentID, identifier.PositionID]),
		positionsByStrategy:   make(index[identifier.StrategyID, identifier.PositionID]),
	}
}

// AddOrder stores o and indexes it. The order's position id, when set, links
// it to that position.
func (c *Cache) AddOrder(o *order.Order) error {
	if o == nil {
		return errors.Wrap(exception.ErrNilInstance, "order")
	}
	id := o.ClientOrderID()
	if _, ok := c.orders[id]; ok {
		return errors.Wrapf(exception.ErrCacheDuplicateOrder, "%s", id)
	}
	c.orders[id] = o
	c.ordersByInstrument.add(o.InstrumentID(), id)
	c.ordersByStrategy.add(o.StrategyID(), id)
	c.UpdateOrder(o)
	return nil
}

// UpdateOrder refreshes the venue and position links of a stored order
// after it has applied an event.
func (c *Cache) UpdateOrder(o *order.Order) {
	id := o.ClientOrderID()
	if venueID, ok := o.VenueOrderID(); ok {
		c.venueOrders[venueID] = id
	}
	if posID, ok := o.PositionID(); ok {
		c.IndexOrderPosition(id, posID)
	}
}

// AddOrderList stores l and every member order not already stored.
func (c *Cache) AddOrderList(l *order.List) error {
	if l == nil {
		return errors.Wrap(exception.ErrNilInstance, "order list")
	}
	if _, ok := c.lists[l.ID]; ok {
		return errors.Wrapf(exception.ErrCacheDuplicateOrderList, "%s", l.ID)
	}
	for _, o := range l.Orders {
		if existing, ok := c.orders[o.ClientOrderID()]; ok && existing != o {
			return errors.Wrapf(exception.ErrCacheDuplicateOrder, "%s in list %s", o.ClientOrderID(), l.ID)
		}
	}
	for _, o := range l.Orders {
		if _, ok := c.orders[o.ClientOrderID()]; !ok {
			if err := c.AddOrder(o); err != nil {
				return err
			}
		}
	}
	c.lists[l.ID] = l
	return nil
}

// AddPosition stores p and links every order that filled into it.
func (c *Cache) AddPosition(p *position.Position) error {
	if p == nil {
		return errors.Wrap(exception.ErrNilInstance, "position")
	}
	id := p.ID()
	if _, ok := c.positions[id]; ok {
		return errors.Wrapf(exception.ErrCacheDuplicatePosition, "%s", id)
	}
	c.positions[id] = p
	c.positionsByInstrument.add(p.InstrumentID(), id)
	c.positionsByStrategy.add(p.StrategyID(), id)
	for _, orderID := range p.ClientOrderIDs() {
		c.IndexOrderPosition(orderID, id)
	}
	return nil
}

// IndexOrderPosition links an order to the position its fills go to.
func (c *Cache) IndexOrderPosition(orderID identifier.ClientOrderID, posID identifier.PositionID) {
	if prev, ok := c.orderPosition[orderID]; ok && prev != posID {
		c.positionOrder.remove(prev, orderID)
	}
	c.orderPosition[orderID] = posID
	c.positionOrder.add(posID, orderID)
}

func (c *Cache) Order(id identifier.ClientOrderID) (*order.Order, bool) {
	o, ok := c.orders[id]
	return o, ok
}

func (c *Cache) OrderByVenueID(id identifier.VenueOrderID) (*order.Order, bool) {
	clientID, ok := c.venueOrders[id]
	if !ok {
		return nil, false
	}
	return c.Order(clientID)
}

func (c *Cache) OrderList(id identifier.OrderListID) (*order.List, bool) {
	l, ok := c.lists[id]
	return l, ok
}

func (c *Cache) Position(id identifier.PositionID) (*position.Position, bool) {
	p, ok := c.positions[id]
	return p, ok
}

// PositionForOrder is the position the order's fills went to.
func (c *Cache) PositionForOrder(id identifier.ClientOrderID) (*position.Position, bool) {
	posID, ok := c.orderPosition[id]
	if !ok {
		return nil, false
	}
	return c.Position(posID)
}

// PositionIDForOrder reports the linked position id even when the position
// itself is not stored yet.
func (c *Cache) PositionIDForOrder(id identifier.ClientOrderID) (identifier.PositionID, bool) {
	posID, ok := c.orderPosition[id]
	return posID, ok
}

// OrdersForPosition lists the orders linked to a position, sorted by id.
func (c *Cache) OrdersForPosition(id identifier.PositionID) []*order.Order {
	out := make([]*order.Order, 0)
	for _, orderID := range c.positionOrder.sorted(id) {
		if o, ok := c.orders[orderID]; ok {
			out = append(out, o)
		}
	}
	return out
}

func (c *Cache) OrderCount() int     { return len(c.orders) }
func (c *Cache) OrderListCount() int { return len(c.lists) }
func (c *Cache) PositionCount() int  { return len(c.positions) }

// PurgeOrder drops an order and its indexes. Its fills are purged from the
// linked position, and a position left with no fills is dropped too.
func (c *Cache) PurgeOrder(id identifier.ClientOrderID) error {
	o, ok := c.orders[id]
	if !ok {
		return errors.Wrapf(exception.ErrCacheUnknownOrder, "%s", id)
	}
	if posID, ok := c.orderPosition[id]; ok {
		if p, ok := c.positions[posID]; ok {
			if err := p.PurgeEventsForOrder(id); err != nil {
				return errors.Wrapf(err, "purge %s from %s", id, posID)
			}
			if p.EventCount() == 0 {
				c.removePosition(p)
			}
		}
		c.positionOrder.remove(posID, id)
		delete(c.orderPosition, id)
	}
	venueIDs := o.VenueOrderIDs()
	if current, ok := o.VenueOrderID(); ok {
		venueIDs = append(venueIDs, current)
	}
	for _, venueID := range venueIDs {
		if c.venueOrders[venueID] == id {
			delete(c.venueOrders, venueID)
		}
	}
	c.ordersByInstrument.remove(o.InstrumentID(), id)
	c.ordersByStrategy.remove(o.StrategyID(), id)
	delete(c.orders, id)

	if listID, ok := o.OrderListID(); ok {
		if l, ok := c.lists[listID]; ok && !c.anyStored(l) {
			delete(c.lists, listID)
		}
	}
	return nil
}

// PurgePosition drops a position and unlinks its orders; the orders stay.
func (c *Cache) PurgePosition(id identifier.PositionID) error {
	p, ok := c.positions[id]
	if !ok {
		return errors.Wrapf(exception.ErrCacheUnknownPosition, "%s", id)
	}
	c.removePosition(p)
	return nil
}

func (c *Cache) removePosition(p *position.Position) {
	id := p.ID()
	for _, orderID := range c.positionOrder.sorted(id) {
		delete(c.orderPosition, orderID)
	}
	delete(c.positionOrder, id)
	c.positionsByInstrument.remove(p.InstrumentID(), id)
	c.positionsByStrategy.remove(p.StrategyID(), id)
	delete(c.positions, id)
}

// PurgeClosedOrders drops orders closed at least bufferSecs before tsNow.
// An order with a linked order still open is kept. It returns the purged
// ids.
func (c *Cache) PurgeClosedOrders(tsNow, bufferSecs uint64) ([]identifier.ClientOrderID, error) {
	buffer := bufferSecs * nanosPerSecond
	purged := make([]identifier.ClientOrderID, 0)
	for _, id := range sortedKeys(c.orders) {
		o := c.orders[id]
		if !o.IsClosed() || o.TsClosed()+buffer > tsNow || c.hasOpenLinked(o) {
			continue
		}
		if err := c.PurgeOrder(id); err != nil {
			return purged, err
		}
		purged = append(purged, id)
	}
	return purged, nil
}

// PurgeClosedPositions drops positions closed at least bufferSecs before
// tsNow.
func (c *Cache) PurgeClosedPositions(tsNow, bufferSecs uint64) []identifier.PositionID {
	buffer := bufferSecs * nanosPerSecond
	purged := make([]identifier.PositionID, 0)
	for _, id := range sortedKeys(c.positions) {
		p := c.positions[id]
		if !p.IsClosed() || p.TsClosed()+buffer > tsNow {
			continue
		}
		c.removePosition(p)
		purged = append(purged, id)
	}
	return purged
}

func (c *Cache) hasOpenLinked(o *order.Order) bool {
	for _, linked := range o.LinkedOrderIDs() {
		if l, ok := c.orders[linked]; ok && !l.IsClosed() {
			return true
		}
	}
	return false
}

func (c *Cache) anyStored(l *order.List) bool {
	for _, o := range l.Orders {
		if _, ok := c.orders[o.ClientOrderID()]; ok {
			return true
		}
	}
	return false
}

const nanosPerSecond = uint64(1_000_000_000)

func sortedKeys[K ~string, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// index is a one-to-many set map.
type index[K comparable, V ~string] map[K]map[V]struct{}

func (ix index[K, V]) add(k K, v V) {
	set, ok := ix[k]
	if !ok {
		set = make(map[V]struct{})
		ix[k] = set
	}
	set[v] = struct{}{}
}

func (ix index[K, V]) remove(k K, v V) {
	set, ok := ix[k]
	if !ok {
		return
	}
	delete(set, v)
	if len(set) == 0 {
		delete(ix, k)
	}
}

func (ix index[K, V]) sorted(k K) []V {
	set := ix[k]
	out := make([]V, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}
