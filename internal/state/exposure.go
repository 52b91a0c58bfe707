package state

import (
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
)

// ExposureReducer keeps the signed net quantity per instrument across all
// strategies and positions, from fills alone.
type ExposureReducer struct {
	net map[identifier.InstrumentID]decimal.Decimal
}

func NewExposureReducer() *ExposureReducer {
	return &ExposureReducer{net: make(map[identifier.InstrumentID]decimal.Decimal)}
}

// ApplyFill updates the exposure and returns the new net quantity.
func (r *ExposureReducer) ApplyFill(fill event.Filled) decimal.Decimal {
	current := r.net[fill.InstrumentID]
	next := current
	switch {
	case fill.IsBuy():
		next = current.Add(fill.LastQty.Decimal())
	case fill.IsSell():
		next = current.Sub(fill.LastQty.Decimal())
	}
	r.net[fill.InstrumentID] = next
	return next
}

// Revert undoes fill, used when a fill is purged.
func (r *ExposureReducer) Revert(fill event.Filled) decimal.Decimal {
	reversed := fill
	reversed.OrderSide = fill.OrderSide.Opposite()
	return r.ApplyFill(reversed)
}

// ApplySnapshot replaces exposures with those of snapshot.
func (r *ExposureReducer) ApplySnapshot(snapshot Snapshot) error {
	next := make(map[identifier.InstrumentID]decimal.Decimal, len(snapshot.Exposures))
	for _, entry := range snapshot.Exposures {
		id, err := identifier.ParseInstrumentID(entry.InstrumentID)
		if err != nil {
			return err
		}
		qty, err := decimal.NewFromString(entry.Qty)
		if err != nil {
			return err
		}
		next[id] = qty
	}
	r.net = next
	return nil
}

func (r *ExposureReducer) Net(id identifier.InstrumentID) decimal.Decimal {
	return r.net[id]
}

func (r *ExposureReducer) Count() int {
	return len(r.net)
}

func (r *ExposureReducer) entries() []ExposureEntry {
	ids := slices.SortedFunc(maps.Keys(r.net), func(a, b identifier.InstrumentID) int {
		return strings.Compare(a.String(), b.String())
	})
	out := make([]ExposureEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, ExposureEntry{InstrumentID: id.String(), Qty: r.net[id].String()})
	}
	return out
}
