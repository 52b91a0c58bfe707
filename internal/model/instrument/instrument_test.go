package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

func TestStubsValid(t *testing.T) {
	for _, inst := range Stubs() {
		assert.NoError(t, inst.Validate(), inst.ID.String())
	}
	assert.Equal(t, uint8(3), USDJPYSim().PricePrecision)
	assert.Equal(t, "0.00001", AUDUSDSim().PriceIncrement.String())
}

func TestMakePriceAndQty(t *testing.T) {
	inst := AUDUSDSim()
	px, err := inst.MakePrice(0.800005)
	require.NoError(t, err)
	assert.Equal(t, "0.80000", px.String())

	qty, err := inst.MakeQty(100_000.4)
	require.NoError(t, err)
	assert.Equal(t, "100000", qty.String())
}

func TestNotionalValue(t *testing.T) {
	xbt := XBTUSDBitmex()
	qty := types.MustParseQuantity("100000")
	px := types.MustParsePrice("11450.5")

	n, err := xbt.NotionalValue(qty, px, false)
	require.NoError(t, err)
	assert.Equal(t, "8.73324309 BTC", n.String())

	n, err = xbt.NotionalValue(qty, px, true)
	require.NoError(t, err)
	assert.Equal(t, "100000.00 USD", n.String())

	_, err = xbt.NotionalValue(qty, types.MustParsePrice("0"), false)
	assert.ErrorIs(t, err, exception.ErrDivisionByZero)

	aud := AUDUSDSim()
	n, err = aud.NotionalValue(types.MustParseQuantity("1500000"), types.MustParsePrice("0.80050"), false)
	require.NoError(t, err)
	assert.Equal(t, "1200750.00 USD", n.String())
	assert.Equal(t, types.USD, aud.CostCurrency())
	assert.Equal(t, types.BTC, xbt.CostCurrency())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	venue, err := r.AddVenue("SIM")
	require.NoError(t, err)
	assert.Equal(t, VenueID(1), venue)

	_, err = r.AddVenue("SIM")
	assert.ErrorIs(t, err, exception.ErrVenueAlreadyExists)

	_, err = r.AddInstrument(BTCUSDTBinance())
	assert.ErrorIs(t, err, exception.ErrVenueNotFound)

	key, err := r.AddInstrument(AUDUSDSim())
	require.NoError(t, err)
	_, err = r.AddInstrument(AUDUSDSim())
	assert.ErrorIs(t, err, exception.ErrInstrumentAlreadyExists)

	inst, ok := r.Instrument(key)
	require.True(t, ok)
	assert.Equal(t, "AUD/USD.SIM", inst.ID.String())

	_, err = r.Lookup(identifier.MustParseInstrumentID("GBP/USD.SIM"))
	assert.ErrorIs(t, err, exception.ErrInstrumentNotFound)

	_, ok = r.Instrument(0)
	assert.False(t, ok)
}

func TestStubRegistry(t *testing.T) {
	r, err := NewStubRegistry()
	require.NoError(t, err)
	assert.Equal(t, len(Stubs()), r.Count())

	inst, err := r.Lookup(identifier.MustParseInstrumentID("ADABTC.BINANCE"))
	require.NoError(t, err)
	assert.Equal(t, types.ADA, inst.BaseCurrency)

	_, ok := r.VenueIDByName("BITMEX")
	assert.True(t, ok)
}
