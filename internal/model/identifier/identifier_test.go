package identifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/pkg/exception"
)

func TestTraderID(t *testing.T) {
	id, err := NewTraderID("TESTER-000")
	require.NoError(t, err)
	assert.Equal(t, "000", id.Tag())

	for _, v := range []string{"", "TESTER", "-000", "TESTER-", "TEST\tER-000", " TESTER-000"} {
		_, err := NewTraderID(v)
		assert.ErrorIs(t, err, exception.ErrInvalidIdentifier, v)
	}
}

func TestStrategyID(t *testing.T) {
	id, err := NewStrategyID("S-001")
	require.NoError(t, err)
	assert.Equal(t, "001", id.Tag())
	assert.False(t, id.IsExternal())

	ext, err := NewStrategyID("EXTERNAL")
	require.NoError(t, err)
	assert.True(t, ext.IsExternal())
	assert.Equal(t, "EXTERNAL", ext.Tag())
}

func TestAccountID(t *testing.T) {
	id, err := NewAccountID("SIM-001")
	require.NoError(t, err)
	assert.Equal(t, "SIM", id.Issuer())
	assert.Equal(t, "001", id.Number())

	id, err = NewAccountID("BINANCE-SPOT-01")
	require.NoError(t, err)
	assert.Equal(t, "BINANCE", id.Issuer())
	assert.Equal(t, "SPOT-01", id.Number())

	_, err = NewAccountID("SIM")
	assert.ErrorIs(t, err, exception.ErrInvalidIdentifier)
}

func TestInstrumentID(t *testing.T) {
	id, err := ParseInstrumentID("AUD/USD.SIM")
	require.NoError(t, err)
	assert.Equal(t, Symbol("AUD/USD"), id.Symbol)
	assert.Equal(t, Venue("SIM"), id.Venue)
	assert.Equal(t, "AUD/USD.SIM", id.String())

	id, err = ParseInstrumentID("ES.FUT.GLBX")
	require.NoError(t, err)
	assert.Equal(t, Symbol("ES.FUT"), id.Symbol)

	for _, v := range []string{"", "AUDUSD", ".SIM", "AUDUSD."} {
		_, err := ParseInstrumentID(v)
		assert.ErrorIs(t, err, exception.ErrInvalidIdentifier, v)
	}
}

func TestInstrumentIDText(t *testing.T) {
	var id InstrumentID
	require.NoError(t, id.UnmarshalText([]byte("XBT/USD.BITMEX")))
	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "XBT/USD.BITMEX", string(text))

	require.NoError(t, id.UnmarshalText(nil))
	assert.True(t, id.IsZero())
}

func TestSimpleIdentifiers(t *testing.T) {
	_, err := NewClientOrderID("O-19700101-000000-000-001-1")
	assert.NoError(t, err)
	_, err = NewTradeID("")
	assert.ErrorIs(t, err, exception.ErrInvalidIdentifier)
	_, err = NewVenueOrderID("V\x00")
	assert.ErrorIs(t, err, exception.ErrInvalidIdentifier)
	_, err = NewPositionID("P-1")
	assert.NoError(t, err)
}
