package exception

import "errors"

var (
	ErrPositionDuplicateTradeID   = errors.New("position: trade id already applied")
	ErrPositionInstrumentMismatch = errors.New("position: fill instrument does not match")
	ErrPositionMissingPositionID  = errors.New("position: fill has no position id")
	ErrPositionIDMismatch         = errors.New("position: fill position id does not match")
	ErrPositionInvalidSide        = errors.New("position: fill has no order side")
)
