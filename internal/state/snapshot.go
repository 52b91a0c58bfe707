package state

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bytedance/sonic"

	"tradecore/internal/model/position"
)

// Snapshot captures positions and net exposures at a point in time.
type Snapshot struct {
	Timestamp   uint64          `json:"timestamp"`
	LastSeq     uint64          `json:"lastSeq"`
	LastEventTs uint64          `json:"lastEventTs"`
	Positions   []PositionEntry `json:"positions"`
	Exposures   []ExposureEntry `json:"exposures"`
}

// PositionEntry is the dictionary form of one position.
type PositionEntry struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// ExposureEntry is the net quantity of one instrument.
type ExposureEntry struct {
	InstrumentID string `json:"instrumentId"`
	Qty          string `json:"qty"`
}

// Build captures positions, in the order given, and the exposures of r.
// A nil r leaves exposures empty.
func Build(positions []*position.Position, r *ExposureReducer, lastSeq, lastEventTs uint64) Snapshot {
	entries := make([]PositionEntry, 0, len(positions))
	for _, p := range positions {
		entries = append(entries, PositionEntry{ID: string(p.ID()), Fields: p.ToDict()})
	}
	exposures := make([]ExposureEntry, 0)
	if r != nil {
		exposures = r.entries()
	}
	return Snapshot{
		Timestamp:   uint64(time.Now().UTC().UnixNano()),
		LastSeq:     lastSeq,
		LastEventTs: lastEventTs,
		Positions:   entries,
		Exposures:   exposures,
	}
}

// WriteSnapshot writes a snapshot to disk as JSON.
func WriteSnapshot(path string, snapshot Snapshot) error {
	data, err := sonic.ConfigStd.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadSnapshot loads a snapshot from disk.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// CompareSnapshots checks that two snapshots hold the same positions and
// exposures. Timestamps and sequence metadata are ignored.
func CompareSnapshots(expected, actual Snapshot) error {
	if len(expected.Positions) != len(actual.Positions) {
		return fmt.Errorf("snapshot position count mismatch: expected=%d actual=%d", len(expected.Positions), len(actual.Positions))
	}
	want := make(map[string]map[string]string, len(expected.Positions))
	for _, entry := range expected.Positions {
		want[entry.ID] = entry.Fields
	}
	for _, entry := range actual.Positions {
		fields, ok := want[entry.ID]
		if !ok {
			return fmt.Errorf("snapshot unexpected position: %s", entry.ID)
		}
		if err := compareFields(entry.ID, fields, entry.Fields); err != nil {
			return err
		}
	}

	if len(expected.Exposures) != len(actual.Exposures) {
		return fmt.Errorf("snapshot exposure count mismatch: expected=%d actual=%d", len(expected.Exposures), len(actual.Exposures))
	}
	wantQty := make(map[string]string, len(expected.Exposures))
	for _, entry := range expected.Exposures {
		wantQty[entry.InstrumentID] = entry.Qty
	}
	for _, entry := range actual.Exposures {
		qty, ok := wantQty[entry.InstrumentID]
		if !ok {
			return fmt.Errorf("snapshot unexpected exposure: %s", entry.InstrumentID)
		}
		if qty != entry.Qty {
			return fmt.Errorf("snapshot exposure mismatch: instrument=%s expected=%s actual=%s", entry.InstrumentID, qty, entry.Qty)
		}
	}
	return nil
}

func compareFields(id string, expected, actual map[string]string) error {
	keys := slices.Sorted(maps.Keys(expected))
	for _, k := range slices.Sorted(maps.Keys(actual)) {
		if _, ok := expected[k]; !ok {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		want, wok := expected[k]
		got, gok := actual[k]
		switch {
		case !gok:
			return fmt.Errorf("snapshot position %s missing %s", id, k)
		case !wok:
			return fmt.Errorf("snapshot position %s unexpected %s=%s", id, k, got)
		case want != got:
			return fmt.Errorf("snapshot position %s mismatch %s: expected=%s actual=%s", id, k, want, got)
		}
	}
	return nil
}
