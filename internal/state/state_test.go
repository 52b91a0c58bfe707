package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
)

var audusd = instrument.AUDUSDSim()

func fill(order, trade string, side enum.OrderSide, qty, px string, ts uint64) event.Filled {
	pos := identifier.PositionID("P-1")
	return event.Filled{
		Header:        event.NewHeader("TESTER-000", "S-001", audusd.ID, identifier.ClientOrderID(order), ts, ts),
		VenueOrderID:  identifier.VenueOrderID("V-" + order),
		AccountID:     "SIM-001",
		TradeID:       identifier.TradeID(trade),
		PositionID:    &pos,
		OrderSide:     side,
		OrderType:     enum.OrderTypeMarket,
		LastQty:       types.MustParseQuantity(qty),
		LastPx:        types.MustParsePrice(px),
		Currency:      types.USD,
		LiquiditySide: enum.LiquiditySideTaker,
	}
}

func TestExposureReducer(t *testing.T) {
	r := NewExposureReducer()
	buy := fill("O-1", "E-1", enum.OrderSideBuy, "100000", "1.00001", 1)
	sell := fill("O-2", "E-2", enum.OrderSideSell, "30000", "1.00002", 2)

	assert.Equal(t, "100000", r.ApplyFill(buy).String())
	assert.Equal(t, "70000", r.ApplyFill(sell).String())
	assert.Equal(t, "100000", r.Revert(sell).String())
	assert.Equal(t, 1, r.Count())
	assert.True(t, r.Net(instrument.USDJPYSim().ID).IsZero())
}

func TestSnapshotRoundTrip(t *testing.T) {
	p, err := position.New(audusd, fill("O-1", "E-1", enum.OrderSideBuy, "100000", "1.00001", 1))
	require.NoError(t, err)
	r := NewExposureReducer()
	r.ApplyFill(fill("O-1", "E-1", enum.OrderSideBuy, "100000", "1.00001", 1))

	snap := Build([]*position.Position{p}, r, 7, 1)
	assert.Equal(t, uint64(7), snap.LastSeq)
	require.Len(t, snap.Positions, 1)
	assert.Equal(t, "LONG", snap.Positions[0].Fields["side"])
	assert.Equal(t, []ExposureEntry{{InstrumentID: "AUD/USD.SIM", Qty: "100000"}}, snap.Exposures)

	path := filepath.Join(t.TempDir(), "nested", "snapshot.json")
	require.NoError(t, WriteSnapshot(path, snap))
	loaded, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
	require.NoError(t, CompareSnapshots(snap, loaded))

	restored := NewExposureReducer()
	require.NoError(t, restored.ApplySnapshot(loaded))
	assert.Equal(t, "100000", restored.Net(audusd.ID).String())
}

func TestCompareSnapshots(t *testing.T) {
	base := Snapshot{
		Positions: []PositionEntry{{ID: "P-1", Fields: map[string]string{"side": "LONG", "quantity": "100000"}}},
		Exposures: []ExposureEntry{{InstrumentID: "AUD/USD.SIM", Qty: "100000"}},
	}
	clone := func(mut func(*Snapshot)) Snapshot {
		s := Snapshot{
			Positions: []PositionEntry{{ID: "P-1", Fields: map[string]string{"side": "LONG", "quantity": "100000"}}},
			Exposures: []ExposureEntry{{InstrumentID: "AUD/USD.SIM", Qty: "100000"}},
		}
		mut(&s)
		return s
	}

	require.NoError(t, CompareSnapshots(base, clone(func(s *Snapshot) { s.LastSeq = 99 })))
	assert.EqualError(t, CompareSnapshots(base, clone(func(s *Snapshot) { s.Positions = nil })),
		"snapshot position count mismatch: expected=1 actual=0")
	assert.EqualError(t, CompareSnapshots(base, clone(func(s *Snapshot) { s.Positions[0].ID = "P-2" })),
		"snapshot unexpected position: P-2")
	assert.EqualError(t, CompareSnapshots(base, clone(func(s *Snapshot) { s.Positions[0].Fields["side"] = "SHORT" })),
		"snapshot position P-1 mismatch side: expected=LONG actual=SHORT")
	assert.EqualError(t, CompareSnapshots(base, clone(func(s *Snapshot) { delete(s.Positions[0].Fields, "quantity") })),
		"snapshot position P-1 missing quantity")
	assert.EqualError(t, CompareSnapshots(base, clone(func(s *Snapshot) { s.Positions[0].Fields["extra"] = "1" })),
		"snapshot position P-1 unexpected extra=1")
	assert.EqualError(t, CompareSnapshots(base, clone(func(s *Snapshot) { s.Exposures[0].Qty = "0" })),
		"snapshot exposure mismatch: instrument=AUD/USD.SIM expected=100000 actual=0")
}
