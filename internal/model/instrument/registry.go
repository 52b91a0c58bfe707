package instrument

import (
	"tradecore/internal/errors"
	"tradecore/internal/model/identifier"
	"tradecore/pkg/exception"
)

// VenueID is the numeric identifier for a venue.
type VenueID uint16

// Key is the numeric identifier for an instrument.
type Key uint32

// Venue describes a trading venue or broker.
type Venue struct {
	ID   VenueID
	Name identifier.Venue
}

// Registry stores venue and instrument mappings in a compact form.
// It is not safe for concurrent mutation; build it before serving.
type Registry struct {
	venues      []Venue
	instruments []Instrument
	venueByName map[identifier.Venue]VenueID
	keyByID     map[identifier.InstrumentID]Key
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		venueByName: make(map[identifier.Venue]VenueID),
		keyByID:     make(map[identifier.InstrumentID]Key),
	}
}

// AddVenue registers a new venue and returns its ID.
func (r *Registry) AddVenue(name identifier.Venue) (VenueID, error) {
	if name == "" {
		return 0, errors.Wrap(exception.ErrInvalidIdentifier, "venue name is empty")
	}
	if id, ok := r.venueByName[name]; ok {
		return id, errors.Wrapf(exception.ErrVenueAlreadyExists, "%s", name)
	}
	id := VenueID(len(r.venues) + 1)
	r.venues = append(r.venues, Venue{ID: id, Name: name})
	r.venueByName[name] = id
	return id, nil
}

// AddInstrument registers a new instrument on an already registered venue.
func (r *Registry) AddInstrument(inst Instrument) (Key, error) {
	if err := inst.Validate(); err != nil {
		return 0, err
	}
	if _, ok := r.venueByName[inst.ID.Venue]; !ok {
		return 0, errors.Wrapf(exception.ErrVenueNotFound, "%s", inst.ID.Venue)
	}
	if key, ok := r.keyByID[inst.ID]; ok {
		return key, errors.Wrapf(exception.ErrInstrumentAlreadyExists, "%s", inst.ID)
	}
	key := Key(len(r.instruments) + 1)
	r.instruments = append(r.instruments, inst)
	r.keyByID[inst.ID] = key
	return key, nil
}

// Venue returns the venue by ID.
func (r *Registry) Venue(id VenueID) (Venue, bool) {
	if id == 0 || int(id) > len(r.venues) {
		return Venue{}, false
	}
	return r.venues[id-1], true
}

// Instrument returns the instrument by key.
func (r *Registry) Instrument(key Key) (Instrument, bool) {
	if key == 0 || int(key) > len(r.instruments) {
		return Instrument{}, false
	}
	return r.instruments[key-1], true
}

// Lookup returns the instrument for an instrument id.
func (r *Registry) Lookup(id identifier.InstrumentID) (Instrument, error) {
	key, ok := r.keyByID[id]
	if !ok {
		return Instrument{}, errors.Wrapf(exception.ErrInstrumentNotFound, "%s", id)
	}
	return r.instruments[key-1], nil
}

// Count returns the number of instruments in the registry.
func (r *Registry) Count() int {
	return len(r.instruments)
}

// At returns the instrument by zero-based index.
func (r *Registry) At(index int) (Instrument, bool) {
	if index < 0 || index >= len(r.instruments) {
		return Instrument{}, false
	}
	return r.instruments[index], true
}

// VenueIDByName returns the venue ID for a name.
func (r *Registry) VenueIDByName(name identifier.Venue) (VenueID, bool) {
	id, ok := r.venueByName[name]
	return id, ok
}

// KeyByID returns the instrument key for an instrument id.
func (r *Registry) KeyByID(id identifier.InstrumentID) (Key, bool) {
	key, ok := r.keyByID[id]
	return key, ok
}
