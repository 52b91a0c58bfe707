package identifier

import (
	"strings"

	"tradecore/internal/errors"
	"tradecore/pkg/exception"
)

// InstrumentID is "SYMBOL.VENUE", e.g. "AUD/USD.SIM".
type InstrumentID struct {
	Symbol Symbol
	Venue  Venue
}

func NewInstrumentID(symbol Symbol, venue Venue) (InstrumentID, error) {
	if err := check("symbol", string(symbol)); err != nil {
		return InstrumentID{}, err
	}
	if err := check("venue", string(venue)); err != nil {
		return InstrumentID{}, err
	}
	return InstrumentID{Symbol: symbol, Venue: venue}, nil
}

// ParseInstrumentID splits on the last `.` so symbols may carry dots.
func ParseInstrumentID(s string) (InstrumentID, error) {
	idx := strings.LastIndexByte(s, '.')
	if idx <= 0 || idx == len(s)-1 {
		return InstrumentID{}, errors.Wrapf(exception.ErrInvalidIdentifier, "instrument id %q must be SYMBOL.VENUE", s)
	}
	return NewInstrumentID(Symbol(s[:idx]), Venue(s[idx+1:]))
}

// MustParseInstrumentID is ParseInstrumentID for literals known to be valid.
func MustParseInstrumentID(s string) InstrumentID {
	id, err := ParseInstrumentID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (i InstrumentID) IsZero() bool {
	return i.Symbol == "" && i.Venue == ""
}

func (i InstrumentID) String() string {
	if i.IsZero() {
		return ""
	}
	return string(i.Symbol) + "." + string(i.Venue)
}

func (i InstrumentID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *InstrumentID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*i = InstrumentID{}
		return nil
	}
	id, err := ParseInstrumentID(string(text))
	if err != nil {
		return err
	}
	*i = id
	return nil
}
