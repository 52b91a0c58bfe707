package exception

import "errors"

var (
	ErrOrderInvalidStateTransition = errors.New("order: invalid state transition")
	ErrOrderOverfill               = errors.New("order: fill quantity exceeds remaining open quantity")
	ErrOrderDuplicateFill          = errors.New("order: duplicate fill")
	ErrOrderMissingField           = errors.New("order: missing required field")
	ErrOrderInvalidField           = errors.New("order: invalid field")
	ErrOrderMismatchedEvent        = errors.New("order: event does not reference this order")
	ErrOrderAlreadyInitialized     = errors.New("order: already initialized")
	ErrOrderNoPreviousStatus       = errors.New("order: no previous status")
	ErrOrderInvalidDict            = errors.New("order: invalid dict")
)

// Order list errors
var (
	ErrOrderListEmpty             = errors.New("order list: empty")
	ErrOrderListMixedInstrument   = errors.New("order list: orders must share one instrument")
	ErrOrderListDuplicateOrder    = errors.New("order list: duplicate client order id")
	ErrOrderListInconsistentLinks = errors.New("order list: inconsistent contingency links")
)
