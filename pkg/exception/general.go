package exception

import "errors"

// General errors
var (
	ErrNilInstance         = errors.New("nil instance")
	ErrTypeUnsupported     = errors.New("type unsupported")
	ErrArgumentUnsupported = errors.New("argument unsupported")
	ErrInternal            = errors.New("internal error")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrUnknownEvent        = errors.New("unknown event kind")
	ErrMalformedRecord     = errors.New("malformed record")
)
