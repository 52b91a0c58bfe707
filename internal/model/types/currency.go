package types

import (
	"strings"

	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/pkg/exception"
)

// Currency is a medium of exchange with a fixed display precision.
type Currency struct {
	Code      string
	Precision uint8
	ISO4217   uint16
	Name      string
	Type      enum.CurrencyType
}

var (
	USD  = Currency{Code: "USD", Precision: 2, ISO4217: 840, Name: "United States dollar", Type: enum.CurrencyTypeFiat}
	EUR  = Currency{Code: "EUR", Precision: 2, ISO4217: 978, Name: "Euro", Type: enum.CurrencyTypeFiat}
	GBP  = Currency{Code: "GBP", Precision: 2, ISO4217: 826, Name: "British pound", Type: enum.CurrencyTypeFiat}
	AUD  = Currency{Code: "AUD", Precision: 2, ISO4217: 36, Name: "Australian dollar", Type: enum.CurrencyTypeFiat}
	JPY  = Currency{Code: "JPY", Precision: 0, ISO4217: 392, Name: "Japanese yen", Type: enum.CurrencyTypeFiat}
	BTC  = Currency{Code: "BTC", Precision: 8, Name: "Bitcoin", Type: enum.CurrencyTypeCrypto}
	XBT  = Currency{Code: "XBT", Precision: 8, Name: "Bitcoin", Type: enum.CurrencyTypeCrypto}
	ETH  = Currency{Code: "ETH", Precision: 8, Name: "Ether", Type: enum.CurrencyTypeCrypto}
	USDT = Currency{Code: "USDT", Precision: 8, Name: "Tether", Type: enum.CurrencyTypeCrypto}
	USDC = Currency{Code: "USDC", Precision: 8, Name: "USD Coin", Type: enum.CurrencyTypeCrypto}
	ADA  = Currency{Code: "ADA", Precision: 6, Name: "Cardano", Type: enum.CurrencyTypeCrypto}
)

var builtinCurrencies = map[string]Currency{
	USD.Code:  USD,
	EUR.Code:  EUR,
	GBP.Code:  GBP,
	AUD.Code:  AUD,
	JPY.Code:  JPY,
	BTC.Code:  BTC,
	XBT.Code:  XBT,
	ETH.Code:  ETH,
	USDT.Code: USDT,
	USDC.Code: USDC,
	ADA.Code:  ADA,
}

// NewCurrency validates a currency definition outside the built-in set.
func NewCurrency(code string, precision uint8, iso4217 uint16, name string, typ enum.CurrencyType) (Currency, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Currency{}, errors.Wrap(exception.ErrInvalidArgument, "currency code is empty")
	}
	if err := checkPrecision(precision); err != nil {
		return Currency{}, err
	}
	if !typ.IsAvailable() {
		return Currency{}, errors.Wrapf(exception.ErrInvalidArgument, "currency %s type is unknown", code)
	}
	return Currency{Code: code, Precision: precision, ISO4217: iso4217, Name: name, Type: typ}, nil
}

// CurrencyFromString looks up a built-in currency by code.
func CurrencyFromString(code string) (Currency, error) {
	c, ok := builtinCurrencies[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, errors.Wrapf(exception.ErrUnknownCurrency, "%q", code)
	}
	return c, nil
}

func (c Currency) IsZero() bool {
	return c.Code == ""
}

func (c Currency) String() string {
	return c.Code
}

func (c Currency) MarshalText() ([]byte, error) {
	return []byte(c.Code), nil
}

func (c *Currency) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = Currency{}
		return nil
	}
	parsed, err := CurrencyFromString(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
