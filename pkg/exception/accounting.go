package exception

import "errors"

var (
	ErrAccountNoLiquiditySide = errors.New("account: liquidity side not set")
	ErrAccountNoBaseCurrency  = errors.New("account: instrument has no base currency")
	ErrAccountNotFound        = errors.New("account: not found")
	ErrAccountAlreadyExists   = errors.New("account: already registered")
	ErrAccountUnsupportedType = errors.New("account: unsupported account type")
	ErrAccountBalanceNegative = errors.New("account: cash balance would go negative")
	ErrAccountMarginExceeded  = errors.New("account: margin exceeds total balance")
	ErrAccountNoBalance       = errors.New("account: no balance in currency")
	ErrAccountInvalidLeverage = errors.New("account: leverage must be > 0")
)
