package exception

import "errors"

// Value type errors
var (
	ErrInvalidPrecision = errors.New("invalid `precision` greater than max")
	ErrNegativeQuantity = errors.New("invalid negative quantity")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrMalformedDecimal = errors.New("malformed decimal string")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrDivisionByZero   = errors.New("division by zero")
)
