package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTypeNames(t *testing.T) {
	cases := map[OrderType]string{
		OrderTypeMarket:             "MARKET",
		OrderTypeStopMarket:         "STOP_MARKET",
		OrderTypeMarketIfTouched:    "MARKET_IF_TOUCHED",
		OrderTypeTrailingStopLimit:  "TRAILING_STOP_LIMIT",
		OrderTypeTrailingStopMarket: "TRAILING_STOP_MARKET",
	}
	for v, name := range cases {
		assert.Equal(t, name, v.String())
		parsed, err := ParseOrderType(name)
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestAcronymNames(t *testing.T) {
	assert.Equal(t, "GTC", TimeInForceGTC.String())
	assert.Equal(t, "AT_THE_OPEN", TimeInForceAtTheOpen.String())
	assert.Equal(t, "OUO", ContingencyTypeOUO.String())
	assert.Equal(t, "NO_LIQUIDITY_SIDE", LiquiditySideNoLiquiditySide.String())
	assert.Equal(t, "LAST_OR_BID_ASK", TriggerTypeLastOrBidAsk.String())
}

func TestUnknownValue(t *testing.T) {
	assert.Equal(t, "OrderSide(0)", OrderSide(0).String())
	assert.False(t, OrderSide(0).IsAvailable())
	assert.False(t, _order_side_end.IsAvailable())

	_, err := ParseOrderSide("HOLD")
	assert.Error(t, err)
}

func TestTextRoundTrip(t *testing.T) {
	text, err := OrderStatusPartiallyFilled.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "PARTIALLY_FILLED", string(text))

	var status OrderStatus
	require.NoError(t, status.UnmarshalText(text))
	assert.Equal(t, OrderStatusPartiallyFilled, status)

	empty, err := OrderStatus(0).MarshalText()
	require.NoError(t, err)
	assert.Empty(t, empty)
	require.NoError(t, status.UnmarshalText(empty))
	assert.Equal(t, OrderStatus(0), status)
}

func TestOrderTypeFields(t *testing.T) {
	assert.False(t, OrderTypeMarket.HasPrice())
	assert.False(t, OrderTypeMarket.HasTriggerPrice())
	assert.True(t, OrderTypeLimit.HasPrice())
	assert.True(t, OrderTypeStopMarket.HasTriggerPrice())
	assert.False(t, OrderTypeStopMarket.HasPrice())
	assert.True(t, OrderTypeLimitIfTouched.HasPrice())
	assert.True(t, OrderTypeLimitIfTouched.HasTriggerPrice())
	assert.False(t, OrderTypeMarketToLimit.HasPrice())
	assert.True(t, OrderTypeTrailingStopLimit.IsTrailing())
}

func TestSides(t *testing.T) {
	assert.Equal(t, OrderSideSell, OrderSideBuy.Opposite())
	assert.Equal(t, OrderSideBuy, OrderSideSell.Opposite())
	assert.Equal(t, OrderSideSell, PositionSideLong.ClosingOrderSide())
	assert.Equal(t, OrderSideBuy, PositionSideShort.ClosingOrderSide())
	assert.False(t, PositionSideFlat.ClosingOrderSide().IsAvailable())
}

func TestTerminalStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusDenied, OrderStatusRejected, OrderStatusCanceled, OrderStatusExpired, OrderStatusFilled, OrderStatusInvalid} {
		assert.True(t, s.IsTerminal(), s.String())
	}
	for _, s := range []OrderStatus{OrderStatusInitialized, OrderStatusSubmitted, OrderStatusAccepted, OrderStatusPartiallyFilled, OrderStatusPendingCancel} {
		assert.False(t, s.IsTerminal(), s.String())
	}
}
