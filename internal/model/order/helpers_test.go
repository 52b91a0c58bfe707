package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
)

var (
	audusd  = identifier.MustParseInstrumentID("AUD/USD.SIM")
	account = identifier.AccountID("SIM-001")
)

func newTestFactory() *Factory {
	return NewFactory("TESTER-000", "S-001").WithClock(FixedClock(time.Unix(0, 0)))
}

func qty(s string) types.Quantity { return types.MustParseQuantity(s) }
func px(s string) types.Price     { return types.MustParsePrice(s) }
func ptr[T any](v T) *T           { return &v }

func next(o *Order) event.Header {
	ts := o.TsLast() + 1
	return o.InitEvent().Header.Next(ts, ts)
}

func submitted(o *Order) event.Submitted {
	return event.Submitted{Header: next(o), AccountID: account}
}

func accepted(o *Order, venueOrderID string) event.Accepted {
	return event.Accepted{Header: next(o), VenueOrderID: identifier.VenueOrderID(venueOrderID), AccountID: account}
}

func venue(o *Order) event.Venue {
	v := event.Venue{AccountID: ptr(account)}
	if id, ok := o.VenueOrderID(); ok {
		v.VenueOrderID = &id
	}
	return v
}

func fill(o *Order, tradeID, lastQty, lastPx, commission string) event.Filled {
	f := event.Filled{
		Header:        next(o),
		VenueOrderID:  "V-1",
		AccountID:     account,
		TradeID:       identifier.TradeID(tradeID),
		OrderSide:     o.Side(),
		OrderType:     o.Type(),
		LastQty:       qty(lastQty),
		LastPx:        px(lastPx),
		Currency:      types.USD,
		LiquiditySide: enum.LiquiditySideTaker,
	}
	if id, ok := o.VenueOrderID(); ok {
		f.VenueOrderID = id
	}
	if commission != "" {
		f.Commission = ptr(types.MustParseMoney(commission))
	}
	return f
}

func apply(t *testing.T, o *Order, events ...event.OrderEvent) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, o.Apply(ev), "%s", ev.Kind())
	}
}

// working returns a submitted and accepted order.
func working(t *testing.T, o *Order) *Order {
	t.Helper()
	apply(t, o, submitted(o))
	apply(t, o, accepted(o, "V-1"))
	return o
}

func marketOrder(t *testing.T, side enum.OrderSide, quantity string, opts ...Option) *Order {
	t.Helper()
	o, err := newTestFactory().Market(audusd, side, qty(quantity), opts...)
	require.NoError(t, err)
	return o
}

func limitOrder(t *testing.T, side enum.OrderSide, quantity, price string, opts ...Option) *Order {
	t.Helper()
	o, err := newTestFactory().Limit(audusd, side, qty(quantity), px(price), opts...)
	require.NoError(t, err)
	return o
}
