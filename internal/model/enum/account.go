package enum

// AccountType cash, margin, betting
//
//go:generate enumgen
type AccountType uint8

const (
	_account_type_beg AccountType = iota
	AccountTypeCash
	AccountTypeMargin
	AccountTypeBetting
	_account_type_end
)

func (t AccountType) IsAvailable() bool {
	return t > _account_type_beg && t < _account_type_end
}

// CurrencyType crypto, fiat, commodity backed
//
//go:generate enumgen
type CurrencyType uint8

const (
	_currency_type_beg CurrencyType = iota
	CurrencyTypeCrypto
	CurrencyTypeFiat
	CurrencyTypeCommodityBacked
	_currency_type_end
)

func (t CurrencyType) IsAvailable() bool {
	return t > _currency_type_beg && t < _currency_type_end
}

// InstrumentClass spot pair, perpetual, dated future, equity
//
//go:generate enumgen
type InstrumentClass uint8

const (
	_instrument_class_beg InstrumentClass = iota
	InstrumentClassCurrencyPair
	InstrumentClassCryptoPerpetual
	InstrumentClassCryptoFuture
	InstrumentClassEquity
	InstrumentClassFuturesContract
	_instrument_class_end
)

func (c InstrumentClass) IsAvailable() bool {
	return c > _instrument_class_beg && c < _instrument_class_end
}
