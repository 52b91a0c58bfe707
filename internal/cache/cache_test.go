package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

const sec = uint64(time.Second)

var (
	audusd = instrument.AUDUSDSim()
	usdjpy = instrument.USDJPYSim()
)

type fixture struct {
	t       *testing.T
	factory *order.Factory
	cache   *Cache
	ts      uint64
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		t:       t,
		factory: order.NewFactory("TESTER-000", "S-001").WithClock(order.FixedClock(time.Unix(0, 0))),
		cache:   New(),
	}
}

func (f *fixture) header(o *order.Order) event.Header {
	f.ts += sec
	return o.InitEvent().Header.Next(f.ts, f.ts)
}

func (f *fixture) apply(o *order.Order, ev event.OrderEvent) {
	f.t.Helper()
	require.NoError(f.t, o.Apply(ev))
	f.cache.UpdateOrder(o)
}

// working adds a market order and takes it to ACCEPTED.
func (f *fixture) working(inst instrument.Instrument, side enum.OrderSide, qty string) *order.Order {
	f.t.Helper()
	o, err := f.factory.Market(inst.ID, side, types.MustParseQuantity(qty))
	require.NoError(f.t, err)
	require.NoError(f.t, f.cache.AddOrder(o))
	f.apply(o, event.Submitted{Header: f.header(o), AccountID: "SIM-001"})
	f.apply(o, event.Accepted{Header: f.header(o), VenueOrderID: identifier.VenueOrderID("V-" + string(o.ClientOrderID())), AccountID: "SIM-001"})
	return o
}

// fill fully fills o into the position posID, opening it when needed.
func (f *fixture) fill(inst instrument.Instrument, o *order.Order, posID identifier.PositionID, px string) *position.Position {
	f.t.Helper()
	venueID, _ := o.VenueOrderID()
	fill := event.Filled{
		Header:        f.header(o),
		VenueOrderID:  venueID,
		AccountID:     "SIM-001",
		TradeID:       identifier.TradeID("E-" + string(o.ClientOrderID())),
		PositionID:    &posID,
		OrderSide:     o.Side(),
		OrderType:     o.Type(),
		LastQty:       o.Quantity(),
		LastPx:        types.MustParsePrice(px),
		Currency:      inst.QuoteCurrency,
		LiquiditySide: enum.LiquiditySideTaker,
	}
	f.apply(o, fill)

	p, ok := f.cache.Position(posID)
	if !ok {
		var err error
		p, err = position.New(inst, fill)
		require.NoError(f.t, err)
		require.NoError(f.t, f.cache.AddPosition(p))
		return p
	}
	require.NoError(f.t, p.Apply(fill))
	return p
}

func clientIDs(orders []*order.Order) []identifier.ClientOrderID {
	out := make([]identifier.ClientOrderID, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ClientOrderID())
	}
	return out
}

func TestAddAndLookup(t *testing.T) {
	f := newFixture(t)
	a := f.working(audusd, enum.OrderSideBuy, "100000")
	b := f.working(usdjpy, enum.OrderSideSell, "50000")

	assert.Equal(t, 2, f.cache.OrderCount())
	assert.ErrorIs(t, f.cache.AddOrder(a), exception.ErrCacheDuplicateOrder)
	assert.ErrorIs(t, f.cache.AddOrder(nil), exception.ErrNilInstance)

	got, ok := f.cache.Order(a.ClientOrderID())
	require.True(t, ok)
	assert.Same(t, a, got)
	venueID, _ := b.VenueOrderID()
	got, ok = f.cache.OrderByVenueID(venueID)
	require.True(t, ok)
	assert.Same(t, b, got)

	assert.Equal(t, []identifier.ClientOrderID{a.ClientOrderID()}, clientIDs(f.cache.Orders(Filter{InstrumentID: audusd.ID})))
	assert.Len(t, f.cache.Orders(Filter{Venue: "SIM"}), 2)
	assert.Len(t, f.cache.Orders(Filter{StrategyID: "S-001"}), 2)
	assert.Empty(t, f.cache.Orders(Filter{StrategyID: "S-999"}))
	assert.Len(t, f.cache.OrdersOpen(Filter{}), 2)
	assert.Empty(t, f.cache.OrdersClosed(Filter{}))
}

func TestOrderStatusQueries(t *testing.T) {
	f := newFixture(t)
	working := f.working(audusd, enum.OrderSideBuy, "100000")
	filled := f.working(audusd, enum.OrderSideBuy, "100000")
	f.fill(audusd, filled, "P-1", "1.00001")

	inflight, err := f.factory.Market(audusd.ID, enum.OrderSideSell, types.MustParseQuantity("1000"))
	require.NoError(t, err)
	require.NoError(t, f.cache.AddOrder(inflight))
	f.apply(inflight, event.Submitted{Header: f.header(inflight), AccountID: "SIM-001"})

	assert.Equal(t, []identifier.ClientOrderID{working.ClientOrderID()}, clientIDs(f.cache.OrdersOpen(Filter{})))
	assert.Equal(t, []identifier.ClientOrderID{filled.ClientOrderID()}, clientIDs(f.cache.OrdersClosed(Filter{})))
	assert.Equal(t, []identifier.ClientOrderID{inflight.ClientOrderID()}, clientIDs(f.cache.OrdersInflight(Filter{})))
	assert.Empty(t, f.cache.OrdersEmulated(Filter{}))

	p, ok := f.cache.PositionForOrder(filled.ClientOrderID())
	require.True(t, ok)
	assert.Equal(t, identifier.PositionID("P-1"), p.ID())
	assert.Equal(t, []identifier.ClientOrderID{filled.ClientOrderID()}, clientIDs(f.cache.OrdersForPosition("P-1")))
	assert.Len(t, f.cache.PositionsOpen(Filter{InstrumentID: audusd.ID}), 1)
	assert.Empty(t, f.cache.PositionsClosed(Filter{}))
	assert.ErrorIs(t, f.cache.AddPosition(p), exception.ErrCacheDuplicatePosition)
}

func TestPurgeOrderRebuildsPosition(t *testing.T) {
	f := newFixture(t)
	first := f.working(audusd, enum.OrderSideBuy, "100000")
	f.fill(audusd, first, "P-1", "1.00001")
	second := f.working(audusd, enum.OrderSideBuy, "100000")
	p := f.fill(audusd, second, "P-1", "1.00003")
	require.Equal(t, "200000", p.Quantity().String())

	require.NoError(t, f.cache.PurgeOrder(first.ClientOrderID()))
	_, ok := f.cache.Order(first.ClientOrderID())
	assert.False(t, ok)
	venueID, _ := first.VenueOrderID()
	_, ok = f.cache.OrderByVenueID(venueID)
	assert.False(t, ok)

	p, ok = f.cache.Position("P-1")
	require.True(t, ok)
	assert.Equal(t, "100000", p.Quantity().String())
	assert.Equal(t, 1.00003, p.AvgPxOpen())
	assert.Equal(t, []identifier.ClientOrderID{second.ClientOrderID()}, clientIDs(f.cache.OrdersForPosition("P-1")))

	require.NoError(t, f.cache.PurgeOrder(second.ClientOrderID()))
	_, ok = f.cache.Position("P-1")
	assert.False(t, ok, "empty shell is evicted")
	assert.Equal(t, 0, f.cache.PositionCount())
	assert.Equal(t, 0, f.cache.OrderCount())

	assert.ErrorIs(t, f.cache.PurgeOrder("O-NONE"), exception.ErrCacheUnknownOrder)
}

func TestPurgeClosedOrders(t *testing.T) {
	f := newFixture(t)
	done := f.working(audusd, enum.OrderSideBuy, "100000")
	f.fill(audusd, done, "P-1", "1.00001")
	open := f.working(audusd, enum.OrderSideSell, "100000")

	closedAt := done.TsClosed()
	purged, err := f.cache.PurgeClosedOrders(closedAt+59*sec, 60)
	require.NoError(t, err)
	assert.Empty(t, purged)

	purged, err = f.cache.PurgeClosedOrders(closedAt+60*sec, 60)
	require.NoError(t, err)
	assert.Equal(t, []identifier.ClientOrderID{done.ClientOrderID()}, purged)
	_, ok := f.cache.Order(open.ClientOrderID())
	assert.True(t, ok)
	_, ok = f.cache.Position("P-1")
	assert.False(t, ok)

	doneVenueID, _ := done.VenueOrderID()
	assert.NotContains(t, f.cache.venueOrders, doneVenueID)
	openVenueID, _ := open.VenueOrderID()
	assert.Equal(t, map[identifier.VenueOrderID]identifier.ClientOrderID{openVenueID: open.ClientOrderID()}, f.cache.venueOrders)
}

func TestPurgeClosedOrdersKeepsOpenContingents(t *testing.T) {
	f := newFixture(t)
	list, err := f.factory.Bracket(order.Bracket{
		Instrument:      audusd.ID,
		Side:            enum.OrderSideBuy,
		Quantity:        types.MustParseQuantity("100000"),
		StopLossTrigger: types.MustParsePrice("0.99990"),
		TakeProfitPrice: types.MustParsePrice("1.00010"),
	})
	require.NoError(t, err)
	require.NoError(t, f.cache.AddOrderList(list))
	assert.Equal(t, 3, f.cache.OrderCount())
	assert.ErrorIs(t, f.cache.AddOrderList(list), exception.ErrCacheDuplicateOrderList)

	sl, tp := list.Orders[1], list.Orders[2]
	f.apply(sl, event.Denied{Header: f.header(sl), Reason: "test"})
	require.True(t, sl.IsClosed())

	purged, err := f.cache.PurgeClosedOrders(f.ts+sec, 0)
	require.NoError(t, err)
	assert.Empty(t, purged, "take profit is still open")

	f.apply(tp, event.Denied{Header: f.header(tp), Reason: "test"})
	purged, err = f.cache.PurgeClosedOrders(f.ts+sec, 0)
	require.NoError(t, err)
	assert.Equal(t, []identifier.ClientOrderID{sl.ClientOrderID(), tp.ClientOrderID()}, purged)

	_, ok := f.cache.OrderList(list.ID)
	assert.True(t, ok, "entry order is still stored")
	require.NoError(t, f.cache.PurgeOrder(list.Orders[0].ClientOrderID()))
	_, ok = f.cache.OrderList(list.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, f.cache.OrderListCount())
}

func TestPurgeClosedPositions(t *testing.T) {
	f := newFixture(t)
	buy := f.working(audusd, enum.OrderSideBuy, "100000")
	f.fill(audusd, buy, "P-1", "1.00001")
	sell := f.working(audusd, enum.OrderSideSell, "100000")
	p := f.fill(audusd, sell, "P-1", "1.00011")
	require.True(t, p.IsClosed())

	other := f.working(usdjpy, enum.OrderSideBuy, "1000")
	f.fill(usdjpy, other, "P-2", "120.000")

	assert.Empty(t, f.cache.PurgeClosedPositions(p.TsClosed()+sec, 10))
	assert.Equal(t, []identifier.PositionID{"P-1"}, f.cache.PurgeClosedPositions(p.TsClosed()+10*sec, 10))
	assert.Equal(t, 1, f.cache.PositionCount())

	_, ok := f.cache.Order(buy.ClientOrderID())
	assert.True(t, ok, "orders outlive their position")
	_, ok = f.cache.PositionForOrder(buy.ClientOrderID())
	assert.False(t, ok)

	require.NoError(t, f.cache.PurgePosition("P-2"))
	assert.ErrorIs(t, f.cache.PurgePosition("P-2"), exception.ErrCacheUnknownPosition)
}
