package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/order"
	"tradecore/internal/model/types"
	"tradecore/internal/risk"
	"tradecore/internal/state"
)

func writeEvents(t *testing.T, dir string) string {
	t.Helper()
	factory := order.NewFactory("TRADER-001", "S-001").WithClock(order.FixedClock(time.Unix(1, 0)))
	o, err := factory.Market(instrument.AUDUSDSim().ID, enum.OrderSideBuy, types.MustParseQuantity("100000"))
	require.NoError(t, err)

	ts := uint64(2 * time.Second)
	init := o.InitEvent()
	events := []event.OrderEvent{
		init,
		event.Accepted{Header: init.Header.Next(ts, ts), VenueOrderID: "V-1", AccountID: "SIM-001"},
		event.Filled{
			Header:        init.Header.Next(ts+1, ts+1),
			VenueOrderID:  "V-1",
			AccountID:     "SIM-001",
			TradeID:       "E-1",
			OrderSide:     enum.OrderSideBuy,
			OrderType:     enum.OrderTypeMarket,
			LastQty:       types.MustParseQuantity("100000"),
			LastPx:        types.MustParsePrice("1.00000"),
			Currency:      types.USD,
			LiquiditySide: enum.LiquiditySideTaker,
		},
	}
	envs := make([]event.Envelope, 0, len(events))
	for _, ev := range events {
		env, err := event.Wrap(ev)
		require.NoError(t, err)
		envs = append(envs, env)
	}
	data, err := sonic.Marshal(envs)
	require.NoError(t, err)
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRunThenVerify(t *testing.T) {
	dir := t.TempDir()
	journalDir := filepath.Join(dir, "journal")
	opt := options{
		eventsPath:     writeEvents(t, dir),
		submitNew:      true,
		journalDir:     journalDir,
		publishBackoff: time.Millisecond,
	}
	require.NoError(t, run(opt))

	snapshot, err := state.ReadSnapshot(filepath.Join(journalDir, "positions.json"))
	require.NoError(t, err)
	require.Len(t, snapshot.Positions, 1)
	assert.Equal(t, "AUD/USD.SIM-S-001", snapshot.Positions[0].ID)
	assert.Equal(t, uint64(4), snapshot.LastSeq)

	verify := options{journalDir: journalDir, verify: true}
	require.NoError(t, run(verify))
}

func TestVerifyDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	journalDir := filepath.Join(dir, "journal")
	require.NoError(t, run(options{eventsPath: writeEvents(t, dir), submitNew: true, journalDir: journalDir}))

	other := filepath.Join(dir, "empty.json")
	require.NoError(t, state.WriteSnapshot(other, state.Snapshot{}))
	err := run(options{journalDir: journalDir, snapshotPath: other, verify: true})
	assert.ErrorContains(t, err, "snapshot position count mismatch")
}

func TestLoadConfigOverrides(t *testing.T) {
	loaded, err := loadConfig(options{journalDir: "/data/j", pgDSN: "postgres://db/tradecore", pyroscopeAddr: "http://p:4040"})
	require.NoError(t, err)
	assert.Equal(t, "/data/j", loaded.Journal.Dir)
	assert.Equal(t, filepath.Join("/data/j", "positions.json"), loaded.Snapshot)
	assert.True(t, loaded.Features.EnableStore)
	assert.Equal(t, "postgres://db/tradecore", loaded.Postgres.ConnString)
	assert.Equal(t, "tradecore", loaded.Profiling.ApplicationName)
}

func TestRuntimeConfig(t *testing.T) {
	rc := newRuntimeConfig(risk.Config{})
	assert.False(t, rc.Load().KillSwitch)
	rc.Update(risk.Config{KillSwitch: true})
	assert.True(t, rc.Load().KillSwitch)
}
