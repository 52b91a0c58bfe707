package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

func TestFactoryIDs(t *testing.T) {
	f := newTestFactory()
	assert.Equal(t, identifier.ClientOrderID("O-19700101-000000-000-001-1"), f.NextClientOrderID())
	assert.Equal(t, identifier.ClientOrderID("O-19700101-000000-000-001-2"), f.NextClientOrderID())
	assert.Equal(t, identifier.OrderListID("OL-19700101-000000-000-001-1"), f.NextOrderListID())

	f.SetCounts(10, 3)
	assert.Equal(t, identifier.ClientOrderID("O-19700101-000000-000-001-11"), f.NextClientOrderID())
	orders, lists := f.Counts()
	assert.Equal(t, 11, orders)
	assert.Equal(t, 3, lists)
}

func TestFactoryResume(t *testing.T) {
	f := newTestFactory()
	f.Resume([]identifier.ClientOrderID{
		"O-19700101-000000-000-001-7",
		"O-19700101-000000-000-001-3",
		"O-19700101-000000-000-002-40",
		"O-EXTERNAL",
	}, []identifier.OrderListID{"OL-19700101-000000-000-001-2"})
	orders, lists := f.Counts()
	assert.Equal(t, 7, orders)
	assert.Equal(t, 2, lists)
	assert.Equal(t, identifier.ClientOrderID("O-19700101-000000-000-001-8"), f.NextClientOrderID())

	f.Resume([]identifier.ClientOrderID{"O-19700101-000000-000-001-1"}, nil)
	orders, _ = f.Counts()
	assert.Equal(t, 8, orders, "counters never move backwards")
}

func TestNewMarketOrder(t *testing.T) {
	o := marketOrder(t, enum.OrderSideBuy, "100000", WithTags("ENTRY"))

	assert.Equal(t, identifier.ClientOrderID("O-19700101-000000-000-001-1"), o.ClientOrderID())
	assert.Equal(t, enum.OrderStatusInitialized, o.Status())
	assert.Equal(t, enum.TimeInForceGTC, o.TimeInForce())
	assert.Equal(t, "100000", o.LeavesQty().String())
	assert.True(t, o.FilledQty().IsZero())
	assert.True(t, o.IsAggressive())
	assert.True(t, o.IsActiveLocal())
	assert.False(t, o.IsOpen())
	assert.False(t, o.IsClosed())
	assert.Equal(t, []string{"ENTRY"}, o.Tags())
	assert.Equal(t, 1, o.EventCount())
	assert.Equal(t, enum.LiquiditySideNoLiquiditySide, o.LiquiditySide())
	_, ok := o.PreviousStatus()
	assert.False(t, ok)
	_, ok = o.AvgPx()
	assert.False(t, ok)
}

func TestNewTriggerOrderDefaults(t *testing.T) {
	f := newTestFactory()
	o, err := f.StopMarket(audusd, enum.OrderSideBuy, qty("100000"), px("1.00000"))
	require.NoError(t, err)
	assert.Equal(t, enum.TriggerTypeDefault, o.Params().TriggerType)
	assert.False(t, o.HasPrice())
	assert.True(t, o.HasTriggerPrice())

	o, err = f.Limit(audusd, enum.OrderSideBuy, qty("100000"), px("1.00000"), WithTimeInForce(enum.TimeInForceGTC))
	require.NoError(t, err)
	_, ok := o.ExpireTime()
	assert.False(t, ok, "expire time only kept for GTD")

	o, err = f.Limit(audusd, enum.OrderSideBuy, qty("100000"), px("1.00000"), WithExpireTime(60_000_000_000))
	require.NoError(t, err)
	expire, ok := o.ExpireTime()
	assert.True(t, ok)
	assert.Equal(t, uint64(60_000_000_000), expire)
}

func TestNewValidation(t *testing.T) {
	f := newTestFactory()
	offset := decimal.RequireFromString("0.00050")

	cases := []struct {
		name  string
		build func() (*Order, error)
		err   error
	}{
		{"market gtd", func() (*Order, error) {
			return f.Market(audusd, enum.OrderSideBuy, qty("1"), WithExpireTime(1))
		}, exception.ErrOrderInvalidField},
		{"market to limit at the open", func() (*Order, error) {
			return f.MarketToLimit(audusd, enum.OrderSideBuy, qty("1"), WithTimeInForce(enum.TimeInForceAtTheOpen))
		}, exception.ErrOrderInvalidField},
		{"zero quantity", func() (*Order, error) {
			return f.Market(audusd, enum.OrderSideBuy, qty("0"))
		}, exception.ErrOrderInvalidField},
		{"gtd without expiry", func() (*Order, error) {
			return f.Limit(audusd, enum.OrderSideBuy, qty("1"), px("1.0"), WithTimeInForce(enum.TimeInForceGTD))
		}, exception.ErrOrderMissingField},
		{"display above quantity", func() (*Order, error) {
			return f.Limit(audusd, enum.OrderSideBuy, qty("10"), px("1.0"), WithDisplayQty(qty("11")))
		}, exception.ErrOrderInvalidField},
		{"trailing without offset type", func() (*Order, error) {
			return f.TrailingStopMarket(audusd, enum.OrderSideBuy, qty("1"), offset, enum.TrailingOffsetTypeNoTrailingOffset, nil)
		}, exception.ErrOrderMissingField},
		{"bad side", func() (*Order, error) {
			return f.Market(audusd, enum.OrderSide(9), qty("1"))
		}, exception.ErrOrderInvalidField},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := c.build()
			assert.ErrorIs(t, err, c.err)
		})
	}

	init := marketOrder(t, enum.OrderSideBuy, "1").InitEvent()
	init.Price = ptr(px("1.0"))
	_, err := New(init)
	assert.ErrorIs(t, err, exception.ErrOrderInvalidField, "market order cannot carry a price")

	init.Type = enum.OrderTypeLimit
	init.Price = nil
	_, err = New(init)
	assert.ErrorIs(t, err, exception.ErrOrderMissingField)
}

func TestTrailingOrders(t *testing.T) {
	f := newTestFactory()
	offset := decimal.RequireFromString("0.00050")

	o, err := f.TrailingStopMarket(audusd, enum.OrderSideBuy, qty("100000"), offset, enum.TrailingOffsetTypePrice, nil)
	require.NoError(t, err)
	assert.False(t, o.HasTriggerPrice())
	assert.Equal(t, enum.TriggerTypeDefault, o.Params().TriggerType)

	_, err = f.TrailingStopLimit(audusd, enum.OrderSideBuy, qty("100000"), decimal.NewFromInt(5), decimal.NewFromInt(10), enum.TrailingOffsetTypePrice, nil, ptr(px("1.10010")))
	require.NoError(t, err)
}

func TestCanApply(t *testing.T) {
	cases := []struct {
		status enum.OrderStatus
		typ    enum.OrderType
		kind   event.Kind
		want   bool
	}{
		{enum.OrderStatusInitialized, enum.OrderTypeMarket, event.KindSubmitted, true},
		{enum.OrderStatusInitialized, enum.OrderTypeMarket, event.KindFilled, false},
		{enum.OrderStatusInitialized, enum.OrderTypeStopMarket, event.KindTriggered, true},
		{enum.OrderStatusInitialized, enum.OrderTypeLimit, event.KindTriggered, false},
		{enum.OrderStatusAccepted, enum.OrderTypeLimit, event.KindTriggered, false},
		{enum.OrderStatusAccepted, enum.OrderTypeStopLimit, event.KindTriggered, true},
		{enum.OrderStatusSubmitted, enum.OrderTypeLimit, event.KindFilled, true},
		{enum.OrderStatusCanceled, enum.OrderTypeLimit, event.KindFilled, true},
		{enum.OrderStatusCanceled, enum.OrderTypeLimit, event.KindAccepted, false},
		{enum.OrderStatusFilled, enum.OrderTypeLimit, event.KindFilled, false},
		{enum.OrderStatusDenied, enum.OrderTypeLimit, event.KindSubmitted, false},
		{enum.OrderStatusEmulated, enum.OrderTypeLimit, event.KindUpdated, true},
		{enum.OrderStatusPendingUpdate, enum.OrderTypeLimit, event.KindUpdated, true},
		{enum.OrderStatusPendingCancel, enum.OrderTypeLimit, event.KindCancelRejected, true},
		{enum.OrderStatusPendingCancel, enum.OrderTypeLimit, event.KindModifyRejected, false},
		{enum.OrderStatusPartiallyFilled, enum.OrderTypeLimit, event.KindSubmitted, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CanApply(c.status, c.typ, c.kind), "%s on %s %s", c.kind, c.status, c.typ)
	}
}

func TestApplyLifecycle(t *testing.T) {
	o := limitOrder(t, enum.OrderSideBuy, "100000", "1.00000")

	apply(t, o, submitted(o))
	assert.Equal(t, enum.OrderStatusSubmitted, o.Status())
	assert.True(t, o.IsInflight())
	accountID, ok := o.AccountID()
	require.True(t, ok)
	assert.Equal(t, account, accountID)

	apply(t, o, accepted(o, "V-1"))
	assert.Equal(t, enum.OrderStatusAccepted, o.Status())
	assert.True(t, o.IsOpen())
	assert.False(t, o.IsInflight())
	venueOrderID, ok := o.VenueOrderID()
	require.True(t, ok)
	assert.Equal(t, identifier.VenueOrderID("V-1"), venueOrderID)
	assert.Equal(t, uint64(2), o.TsAccepted())

	apply(t, o, event.PendingCancel{Header: next(o), Venue: venue(o)})
	assert.True(t, o.IsPendingCancel())

	apply(t, o, event.Canceled{Header: next(o), Venue: venue(o)})
	assert.Equal(t, enum.OrderStatusCanceled, o.Status())
	assert.True(t, o.IsCanceled())
	assert.True(t, o.IsClosed())
	assert.Equal(t, o.TsLast(), o.TsClosed())
	previous, ok := o.PreviousStatus()
	assert.True(t, ok)
	assert.Equal(t, enum.OrderStatusPendingCancel, previous)
	assert.Equal(t, 5, o.EventCount())
	assert.Equal(t, event.KindCanceled, o.LastEvent().Kind())

	err := o.Apply(accepted(o, "V-1"))
	assert.ErrorIs(t, err, exception.ErrOrderInvalidStateTransition)
	assert.Equal(t, 5, o.EventCount())
}

func TestApplyDeniedAndRejected(t *testing.T) {
	o := marketOrder(t, enum.OrderSideBuy, "100000")
	apply(t, o, event.Denied{Header: next(o), Reason: "exceeds max notional"})
	assert.Equal(t, enum.OrderStatusDenied, o.Status())
	assert.True(t, o.IsClosed())

	o = marketOrder(t, enum.OrderSideBuy, "100000")
	apply(t, o, submitted(o))
	apply(t, o, event.Rejected{Header: next(o), AccountID: account, Reason: "insufficient margin"})
	assert.Equal(t, enum.OrderStatusRejected, o.Status())
	assert.NotZero(t, o.TsClosed())
}

func TestApplyEmulatedRelease(t *testing.T) {
	o := limitOrder(t, enum.OrderSideBuy, "100000", "1.00000", WithEmulationTrigger(enum.TriggerTypeBidAsk))
	assert.False(t, o.IsOpen())

	apply(t, o, event.Emulated{Header: next(o)})
	assert.True(t, o.IsEmulated())

	apply(t, o, event.Updated{Header: next(o), Price: ptr(px("0.99990"))})
	assert.Equal(t, enum.OrderStatusEmulated, o.Status())
	price, _ := o.Price()
	assert.Equal(t, "0.99990", price.String())

	apply(t, o, event.Released{Header: next(o), ReleasedPrice: px("0.99990")})
	assert.Equal(t, enum.OrderStatusReleased, o.Status())
	assert.Equal(t, enum.TriggerTypeNoTrigger, o.EmulationTrigger())

	apply(t, o, submitted(o))
	apply(t, o, accepted(o, "V-1"))
	assert.True(t, o.IsOpen())
}

func TestPendingUpdateRestoresPreviousStatus(t *testing.T) {
	o := working(t, limitOrder(t, enum.OrderSideBuy, "100000", "1.00000"))

	apply(t, o, fill(o, "E-1", "40000", "1.00000", ""))
	assert.Equal(t, enum.OrderStatusPartiallyFilled, o.Status())

	apply(t, o, event.PendingUpdate{Header: next(o), Venue: venue(o)})
	assert.True(t, o.IsPendingUpdate())

	apply(t, o, event.Updated{Header: next(o), Venue: venue(o), Quantity: qty("120000")})
	assert.Equal(t, enum.OrderStatusPartiallyFilled, o.Status())
	assert.Equal(t, "120000", o.Quantity().String())
	assert.Equal(t, "80000", o.LeavesQty().String())

	apply(t, o, event.PendingUpdate{Header: next(o), Venue: venue(o)})
	apply(t, o, event.ModifyRejected{Header: next(o), Venue: venue(o), Reason: "rejected"})
	assert.Equal(t, enum.OrderStatusPartiallyFilled, o.Status())
}

func TestPendingCancelRestoresOnReject(t *testing.T) {
	o := working(t, limitOrder(t, enum.OrderSideBuy, "100000", "1.00000"))

	apply(t, o, event.PendingCancel{Header: next(o), Venue: venue(o)})
	apply(t, o, event.CancelRejected{Header: next(o), Venue: venue(o), Reason: "too late"})
	assert.Equal(t, enum.OrderStatusAccepted, o.Status())
}

func TestRestoreWithoutPreviousStatus(t *testing.T) {
	_, err := nextStatus(enum.OrderStatusPendingUpdate, 0, enum.OrderTypeLimit, event.KindModifyRejected)
	assert.ErrorIs(t, err, exception.ErrOrderNoPreviousStatus)
}

func TestTriggered(t *testing.T) {
	f := newTestFactory()
	o, err := f.StopLimit(audusd, enum.OrderSideBuy, qty("100000"), px("1.00000"), px("1.00010"))
	require.NoError(t, err)
	working(t, o)

	apply(t, o, event.Triggered{Header: next(o), Venue: venue(o)})
	assert.Equal(t, enum.OrderStatusTriggered, o.Status())
	assert.True(t, o.IsTriggered())
	assert.NotZero(t, o.TsTriggered())

	l := working(t, limitOrder(t, enum.OrderSideBuy, "100000", "1.00000"))
	err = l.Apply(event.Triggered{Header: next(l), Venue: venue(l)})
	assert.ErrorIs(t, err, exception.ErrOrderInvalidStateTransition)
}

func TestVenueOrderIDHistory(t *testing.T) {
	o := limitOrder(t, enum.OrderSideBuy, "100000", "1.00000")
	apply(t, o, submitted(o))
	apply(t, o, accepted(o, "1"))
	apply(t, o, event.PendingUpdate{Header: next(o), Venue: venue(o)})

	updated := event.Updated{Header: next(o), Venue: venue(o), Quantity: qty("100000")}
	updated.VenueOrderID = ptr(identifier.VenueOrderID("2"))
	apply(t, o, updated)

	id, _ := o.VenueOrderID()
	assert.Equal(t, identifier.VenueOrderID("2"), id)
	assert.Equal(t, []identifier.VenueOrderID{"1"}, o.VenueOrderIDs())
}

func TestUpdateValidation(t *testing.T) {
	o := working(t, limitOrder(t, enum.OrderSideBuy, "100000", "1.00000"))
	apply(t, o, fill(o, "E-1", "50000", "1.00000", ""))

	err := o.Apply(event.Updated{Header: next(o), Venue: venue(o), Quantity: qty("40000")})
	assert.ErrorIs(t, err, exception.ErrOrderInvalidField)
	assert.Equal(t, "100000", o.Quantity().String())

	err = o.Apply(event.Updated{Header: next(o), Venue: venue(o), TriggerPrice: ptr(px("1.1"))})
	assert.ErrorIs(t, err, exception.ErrOrderInvalidField)

	apply(t, o, event.Updated{Header: next(o), Venue: venue(o), Price: ptr(px("1.00010"))})
	price, _ := o.Price()
	assert.Equal(t, "1.00010", price.String())
	assert.Equal(t, "100000", o.Quantity().String(), "zero quantity leaves size unchanged")
}

func TestFillWeightedAveragePrice(t *testing.T) {
	o := working(t, marketOrder(t, enum.OrderSideBuy, "100000"))

	apply(t, o, fill(o, "E-1", "20000", "1.00001", "2.00 USD"))
	apply(t, o, fill(o, "E-2", "40000", "1.00002", "2.00 USD"))
	assert.Equal(t, enum.OrderStatusPartiallyFilled, o.Status())
	apply(t, o, fill(o, "E-3", "40000", "1.00003", "2.00 USD"))

	assert.Equal(t, enum.OrderStatusFilled, o.Status())
	assert.True(t, o.IsClosed())
	assert.Equal(t, "100000", o.FilledQty().String())
	assert.True(t, o.LeavesQty().IsZero())
	avg, ok := o.AvgPx()
	require.True(t, ok)
	assert.InDelta(t, 1.000022, avg, 1e-12)
	assert.Equal(t, []types.Money{types.MustParseMoney("6.00 USD")}, o.Commissions())
	assert.Equal(t, []identifier.TradeID{"E-1", "E-2", "E-3"}, o.TradeIDs())
	last, _ := o.LastTradeID()
	assert.Equal(t, identifier.TradeID("E-3"), last)
	assert.Equal(t, enum.LiquiditySideTaker, o.LiquiditySide())
	assert.NotZero(t, o.TsClosed())
}

func TestOverfillLeavesOrderUnchanged(t *testing.T) {
	o := working(t, marketOrder(t, enum.OrderSideBuy, "100000"))
	apply(t, o, fill(o, "E-1", "60000", "1.00000", "1.00 USD"))
	before := o.ToDict()

	err := o.Apply(fill(o, "E-2", "50000", "1.00010", "1.00 USD"))
	assert.ErrorIs(t, err, exception.ErrOrderOverfill)
	assert.Equal(t, before, o.ToDict())
	assert.Equal(t, 4, o.EventCount())
}

func TestDuplicateFill(t *testing.T) {
	o := working(t, marketOrder(t, enum.OrderSideBuy, "100000"))
	f := fill(o, "E-1", "10000", "1.00000", "")
	apply(t, o, f)

	assert.ErrorIs(t, o.Apply(f), exception.ErrOrderDuplicateFill)

	replay := f
	replay.Header = next(o)
	assert.ErrorIs(t, o.Apply(replay), exception.ErrOrderDuplicateFill, "same execution with a new event id")

	again := fill(o, "E-1", "20000", "1.00000", "")
	apply(t, o, again)
	assert.Equal(t, "30000", o.FilledQty().String())
	assert.Equal(t, []identifier.TradeID{"E-1"}, o.TradeIDs())
}

func TestFillRejectsZeroQuantity(t *testing.T) {
	o := working(t, marketOrder(t, enum.OrderSideBuy, "100000"))
	err := o.Apply(fill(o, "E-1", "0", "1.00000", ""))
	assert.ErrorIs(t, err, exception.ErrOrderInvalidField)
}

func TestFillAfterCancel(t *testing.T) {
	o := working(t, limitOrder(t, enum.OrderSideBuy, "100000", "1.00000"))
	apply(t, o, event.Canceled{Header: next(o), Venue: venue(o)})
	apply(t, o, fill(o, "E-1", "100000", "1.00000", ""))
	assert.Equal(t, enum.OrderStatusFilled, o.Status())
}

func TestMarketToLimitTakesFirstFillPrice(t *testing.T) {
	f := newTestFactory()
	o, err := f.MarketToLimit(audusd, enum.OrderSideBuy, qty("100000"))
	require.NoError(t, err)
	working(t, o)
	assert.False(t, o.HasPrice())

	apply(t, o, fill(o, "E-1", "40000", "1.00005", ""))
	price, ok := o.Price()
	require.True(t, ok)
	assert.Equal(t, "1.00005", price.String())
	assert.Equal(t, enum.OrderStatusPartiallyFilled, o.Status())
}

func TestApplyRejectsForeignEvents(t *testing.T) {
	o := limitOrder(t, enum.OrderSideBuy, "100000", "1.00000")
	h := next(o)
	h.ClientOrderID = "O-OTHER"
	err := o.Apply(event.Submitted{Header: h, AccountID: account})
	assert.ErrorIs(t, err, exception.ErrOrderMismatchedEvent)

	h = next(o)
	h.StrategyID = "S-002"
	err = o.Apply(event.Submitted{Header: h, AccountID: account})
	assert.ErrorIs(t, err, exception.ErrOrderMismatchedEvent)

	assert.ErrorIs(t, o.Apply(o.InitEvent()), exception.ErrOrderAlreadyInitialized)
	assert.ErrorIs(t, o.Apply(nil), exception.ErrNilInstance)
}

type strayEvent struct {
	event.Header
}

func (strayEvent) Kind() event.Kind { return event.KindCanceled }

func TestApplyUnknownEvent(t *testing.T) {
	o := working(t, limitOrder(t, enum.OrderSideBuy, "100000", "1.00000"))
	err := o.Apply(strayEvent{Header: next(o)})
	assert.ErrorIs(t, err, exception.ErrUnknownEvent)
	assert.Equal(t, enum.OrderStatusAccepted, o.Status())
}

func TestWouldReduceOnly(t *testing.T) {
	buy := marketOrder(t, enum.OrderSideBuy, "100000")
	sell := marketOrder(t, enum.OrderSideSell, "100000")

	cases := []struct {
		order *Order
		side  enum.PositionSide
		qty   string
		want  bool
	}{
		{buy, enum.PositionSideFlat, "0", false},
		{buy, enum.PositionSideShort, "150000", true},
		{buy, enum.PositionSideShort, "100000", true},
		{buy, enum.PositionSideShort, "50000", false},
		{buy, enum.PositionSideLong, "50000", false},
		{sell, enum.PositionSideLong, "150000", true},
		{sell, enum.PositionSideLong, "50000", false},
		{sell, enum.PositionSideShort, "50000", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.order.WouldReduceOnly(c.side, qty(c.qty)), "%s vs %s %s", c.order.Side(), c.side, c.qty)
	}
}

func TestSetSlippage(t *testing.T) {
	o := working(t, marketOrder(t, enum.OrderSideBuy, "100000"))
	o.SetSlippage(px("1.00000"))
	_, ok := o.Slippage()
	assert.False(t, ok, "no fills yet")

	apply(t, o, fill(o, "E-1", "100000", "1.00010", ""))
	o.SetSlippage(px("1.00000"))
	slip, ok := o.Slippage()
	require.True(t, ok)
	assert.InDelta(t, 0.0001, slip, 1e-12)
}

func TestExecAlgorithmSpawn(t *testing.T) {
	o := limitOrder(t, enum.OrderSideBuy, "100000", "1.00000", WithExecAlgorithm("TWAP", map[string]string{"horizon_secs": "20", "interval_secs": "2.5"}))
	spawn, ok := o.ExecSpawnID()
	require.True(t, ok)
	assert.Equal(t, o.ClientOrderID(), spawn)
	assert.True(t, o.IsPrimary())
	assert.False(t, o.IsSecondary())
	assert.False(t, o.IsSpawned())
	assert.Equal(t, "20", o.ExecAlgorithmParams()["horizon_secs"])
}

func TestSides(t *testing.T) {
	side, err := OppositeSide(enum.OrderSideBuy)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderSideSell, side)
	_, err = OppositeSide(enum.OrderSide(0))
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)

	side, err = ClosingSide(enum.PositionSideShort)
	require.NoError(t, err)
	assert.Equal(t, enum.OrderSideBuy, side)
	_, err = ClosingSide(enum.PositionSideFlat)
	assert.ErrorIs(t, err, exception.ErrInvalidArgument)

	assert.True(t, marketOrder(t, enum.OrderSideSell, "5").SignedDecimalQty().Equal(decimal.NewFromInt(-5)))
}
