package exception

import "errors"

// Instrument errors
var (
	ErrInstrumentNotFound      = errors.New("instrument: not found")
	ErrInstrumentAlreadyExists = errors.New("instrument: already exists")
	ErrInstrumentInvalid       = errors.New("instrument: invalid definition")
	ErrVenueNotFound           = errors.New("instrument: venue not found")
	ErrVenueAlreadyExists      = errors.New("instrument: venue already exists")
)
