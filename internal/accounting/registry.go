package accounting

import (
	"maps"
	"slices"
	"sync"

	"tradecore/internal/errors"
	"tradecore/internal/model/identifier"
	"tradecore/pkg/exception"
)

// Registry holds the accounts of one trader, indexed by id and by the venue
// issuing them. Venues registered as calculated have their account state
// computed locally instead of reported by the venue.
type Registry struct {
	mu         sync.RWMutex
	accounts   map[identifier.AccountID]Account
	byVenue    map[identifier.Venue]identifier.AccountID
	calculated map[identifier.Venue]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		accounts:   make(map[identifier.AccountID]Account),
		byVenue:    make(map[identifier.Venue]identifier.AccountID),
		calculated: make(map[identifier.Venue]struct{}),
	}
}

// Add registers acc under its id and its issuer venue.
func (r *Registry) Add(acc Account) error {
	if acc == nil {
		return errors.Wrap(exception.ErrNilInstance, "account")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := acc.ID()
	if _, ok := r.accounts[id]; ok {
		return errors.Wrapf(exception.ErrAccountAlreadyExists, "%s", id)
	}
	venue := identifier.Venue(id.Issuer())
	if other, ok := r.byVenue[venue]; ok {
		return errors.Wrapf(exception.ErrAccountAlreadyExists, "venue %s already has %s", venue, other)
	}
	r.accounts[id] = acc
	r.byVenue[venue] = id
	return nil
}

func (r *Registry) Account(id identifier.AccountID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, errors.Wrapf(exception.ErrAccountNotFound, "%s", id)
	}
	return acc, nil
}

func (r *Registry) ForVenue(venue identifier.Venue) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byVenue[venue]
	if !ok {
		return nil, errors.Wrapf(exception.ErrAccountNotFound, "venue %s", venue)
	}
	return r.accounts[id], nil
}

// Accounts are sorted by id.
func (r *Registry) Accounts() []Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Account, 0, len(r.accounts))
	for _, id := range slices.Sorted(maps.Keys(r.accounts)) {
		out = append(out, r.accounts[id])
	}
	return out
}

func (r *Registry) RegisterCalculatedVenue(venue identifier.Venue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calculated[venue] = struct{}{}
}

func (r *Registry) IsCalculated(venue identifier.Venue) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.calculated[venue]
	return ok
}
