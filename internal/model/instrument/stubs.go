package instrument

import (
	"strings"

	"github.com/shopspring/decimal"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
	"tradecore/pkg/exception"
)

// DefaultFX builds a spot FX pair such as "AUD/USD" with five price digits,
// three for JPY quotes.
func DefaultFX(symbol identifier.Symbol, venue identifier.Venue) (Instrument, error) {
	base, quote, ok := strings.Cut(string(symbol), "/")
	if !ok {
		return Instrument{}, errors.Wrapf(exception.ErrInvalidIdentifier, "fx symbol %q needs BASE/QUOTE", symbol)
	}
	baseCcy, err := types.CurrencyFromString(base)
	if err != nil {
		return Instrument{}, err
	}
	quoteCcy, err := types.CurrencyFromString(quote)
	if err != nil {
		return Instrument{}, err
	}
	id, err := identifier.NewInstrumentID(symbol, venue)
	if err != nil {
		return Instrument{}, err
	}

	precision := uint8(5)
	if quoteCcy.Code == types.JPY.Code {
		precision = 3
	}
	increment, err := types.NewPriceFromDecimal(decimal.New(1, -int32(precision)), precision)
	if err != nil {
		return Instrument{}, err
	}
	return Instrument{
		ID:                 id,
		RawSymbol:          symbol,
		Class:              enum.InstrumentClassCurrencyPair,
		BaseCurrency:       baseCcy,
		QuoteCurrency:      quoteCcy,
		SettlementCurrency: quoteCcy,
		PricePrecision:     precision,
		SizePrecision:      0,
		PriceIncrement:     increment,
		SizeIncrement:      types.MustParseQuantity("1"),
		Multiplier:         decimal.NewFromInt(1),
		MarginInit:         decimal.RequireFromString("0.03"),
		MarginMaint:        decimal.RequireFromString("0.03"),
		MakerFee:           decimal.RequireFromString("0.00002"),
		TakerFee:           decimal.RequireFromString("0.00002"),
	}, nil
}

func mustFX(symbol identifier.Symbol, venue identifier.Venue) Instrument {
	inst, err := DefaultFX(symbol, venue)
	if err != nil {
		panic(err)
	}
	return inst
}

func AUDUSDSim() Instrument { return mustFX("AUD/USD", "SIM") }

func USDJPYSim() Instrument { return mustFX("USD/JPY", "SIM") }

// XBTUSDBitmex is an inverse perpetual settled in BTC.
func XBTUSDBitmex() Instrument {
	return Instrument{
		ID:                 identifier.MustParseInstrumentID("XBT/USD.BITMEX"),
		RawSymbol:          "XBTUSD",
		Class:              enum.InstrumentClassCryptoPerpetual,
		BaseCurrency:       types.BTC,
		QuoteCurrency:      types.USD,
		SettlementCurrency: types.BTC,
		IsInverse:          true,
		PricePrecision:     1,
		SizePrecision:      0,
		PriceIncrement:     types.MustParsePrice("0.5"),
		SizeIncrement:      types.MustParseQuantity("1"),
		Multiplier:         decimal.NewFromInt(1),
		MarginInit:         decimal.RequireFromString("0.01"),
		MarginMaint:        decimal.RequireFromString("0.0035"),
		MakerFee:           decimal.RequireFromString("-0.00025"),
		TakerFee:           decimal.RequireFromString("0.00075"),
	}
}

func BTCUSDTBinance() Instrument {
	return spotPair("BTCUSDT.BINANCE", types.BTC, types.USDT, 2, "0.01", 6, "0.000001", "0.001", "0.001")
}

func ETHUSDTBinance() Instrument {
	return spotPair("ETHUSDT.BINANCE", types.ETH, types.USDT, 2, "0.01", 5, "0.00001", "0.0001", "0.0001")
}

func ADABTCBinance() Instrument {
	return spotPair("ADABTC.BINANCE", types.ADA, types.BTC, 8, "0.00000001", 8, "0.00000001", "0.001", "0.001")
}

// Stubs lists every built-in instrument.
func Stubs() []Instrument {
	return []Instrument{
		AUDUSDSim(),
		USDJPYSim(),
		XBTUSDBitmex(),
		BTCUSDTBinance(),
		ETHUSDTBinance(),
		ADABTCBinance(),
	}
}

// NewStubRegistry builds a registry holding Stubs.
func NewStubRegistry() (*Registry, error) {
	r := NewRegistry()
	for _, inst := range Stubs() {
		if _, ok := r.VenueIDByName(inst.ID.Venue); !ok {
			if _, err := r.AddVenue(inst.ID.Venue); err != nil {
				return nil, err
			}
		}
		if _, err := r.AddInstrument(inst); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func spotPair(id string, base, quote types.Currency, pricePrecision uint8, priceIncrement string, sizePrecision uint8, sizeIncrement, maker, taker string) Instrument {
	instID := identifier.MustParseInstrumentID(id)
	return Instrument{
		ID:                 instID,
		RawSymbol:          instID.Symbol,
		Class:              enum.InstrumentClassCurrencyPair,
		BaseCurrency:       base,
		QuoteCurrency:      quote,
		SettlementCurrency: quote,
		PricePrecision:     pricePrecision,
		SizePrecision:      sizePrecision,
		PriceIncrement:     types.MustParsePrice(priceIncrement),
		SizeIncrement:      types.MustParseQuantity(sizeIncrement),
		Multiplier:         decimal.NewFromInt(1),
		MakerFee:           decimal.RequireFromString(maker),
		TakerFee:           decimal.RequireFromString(taker),
	}
}
