package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradecore/internal/accounting"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/types"
)

const sampleConfig = `{
  "trader": {"traderId": "TESTER-000", "strategyId": "S-001"},
  "instruments": {
    "stubs": false,
    "definitions": [{
      "id": "AUD/USD.SIM",
      "class": "CURRENCY_PAIR",
      "base": "AUD",
      "quote": "USD",
      "pricePrecision": 5,
      "sizePrecision": 0,
      "priceIncrement": "0.00001",
      "sizeIncrement": "1",
      "marginInit": "0.03",
      "marginMaint": "0.03",
      "makerFee": "0.00002",
      "takerFee": "0.00002"
    }]
  },
  "accounts": [{
    "id": "SIM-001",
    "type": "MARGIN",
    "baseCurrency": "USD",
    "starting": ["1000000 USD"],
    "leverage": "10",
    "calculated": true
  }],
  "risk": {"maxOrderQty": "500000", "orderRateLimit": 10, "orderRateWindow": 1000000000},
  "engine": {"omsType": "HEDGING", "queueSize": 128, "journalDir": "/var/tradecore/journal", "purgeInterval": 60, "purgeBuffer": 300},
  "postgres": {"host": "db", "user": "trader", "database": "tradecore"},
  "profiling": {"applicationName": "tradecore", "serverAddress": "http://pyroscope:4040"},
  "features": {"enableStore": true, "enablePurge": true}
}`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	loaded, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, identifier.TraderID("TESTER-000"), loaded.TraderID)
	assert.Equal(t, identifier.StrategyID("S-001"), loaded.StrategyID)

	inst, err := loaded.Instruments.Lookup(identifier.MustParseInstrumentID("AUD/USD.SIM"))
	require.NoError(t, err)
	assert.Equal(t, enum.InstrumentClassCurrencyPair, inst.Class)
	assert.Equal(t, types.USD, inst.SettlementCurrency)
	assert.Equal(t, "0.00002", inst.TakerFee.String())
	assert.Equal(t, "1", inst.Multiplier.String())

	acc, err := loaded.Accounts.Account("SIM-001")
	require.NoError(t, err)
	margin, ok := acc.(*accounting.MarginAccount)
	require.True(t, ok)
	assert.Equal(t, "10", margin.DefaultLeverage().String())
	assert.True(t, loaded.Accounts.IsCalculated("SIM"))

	assert.Equal(t, "500000", loaded.Risk.MaxOrderQty.String())
	assert.Equal(t, time.Second, loaded.Risk.OrderRateWindow)
	assert.Equal(t, enum.OmsTypeHedging, loaded.Engine.OmsType)
	assert.Equal(t, 128, loaded.Engine.QueueSize)
	assert.Equal(t, "/var/tradecore/journal", loaded.Journal.Dir)
	assert.Equal(t, filepath.Join("/var/tradecore/journal", "positions.json"), loaded.Snapshot)
	assert.Equal(t, PurgeSpec{Interval: time.Minute, BufferSecs: 300}, loaded.Purge)
	assert.Equal(t, FeatureFlags{EnableJournal: true, EnableStore: true, EnablePurge: true}, loaded.Features)
	assert.Equal(t, "http://pyroscope:4040", loaded.Profiling.ServerAddress)
}

func TestLoadRisk(t *testing.T) {
	cfg, err := LoadRisk(writeConfig(t, `{"risk": {"killSwitch": true}}`))
	require.NoError(t, err)
	assert.True(t, cfg.KillSwitch)

	_, err = LoadRisk(writeConfig(t, `{"risk": {"orderRateLimit": 5}}`))
	assert.ErrorContains(t, err, "orderRateWindow must be > 0")
}

func TestResolveDefaults(t *testing.T) {
	disabled := false
	loaded, err := Resolve(FileConfig{
		Trader:      TraderConfig{TraderID: "TESTER-000", StrategyID: "S-001"},
		Instruments: InstrumentsConfig{Stubs: true},
		Features:    FeatureFlagsConfig{EnableJournal: &disabled},
	})
	require.NoError(t, err)
	assert.Equal(t, enum.OmsTypeNetting, loaded.Engine.OmsType)
	assert.Equal(t, defaultQueueSize, loaded.Engine.QueueSize)
	assert.Empty(t, loaded.Journal.Dir)
	assert.Empty(t, loaded.Accounts.Accounts())
	assert.Equal(t, FeatureFlags{}, loaded.Features)
}

func TestResolveErrors(t *testing.T) {
	base := func() FileConfig {
		return FileConfig{
			Trader:      TraderConfig{TraderID: "TESTER-000", StrategyID: "S-001"},
			Instruments: InstrumentsConfig{Stubs: true},
			Engine:      EngineConfig{JournalDir: "/tmp/journal"},
		}
	}
	tests := []struct {
		name   string
		modify func(*FileConfig)
		want   string
	}{
		{"no trader", func(c *FileConfig) { c.Trader.TraderID = "" }, "traderId is empty"},
		{"no instruments", func(c *FileConfig) { c.Instruments.Stubs = false }, "at least one definition"},
		{"bad instrument id", func(c *FileConfig) {
			c.Instruments.Definitions = []InstrumentConfig{{ID: "AUDUSD"}}
		}, "instrument AUDUSD"},
		{"bad queue", func(c *FileConfig) { c.Engine.QueueSize = -1 }, "queueSize must be > 0"},
		{"journal without dir", func(c *FileConfig) { c.Engine.JournalDir = "" }, "journalDir is empty"},
		{"store without postgres", func(c *FileConfig) {
			enabled := true
			c.Features.EnableStore = &enabled
		}, "postgres is not configured"},
		{"purge without interval", func(c *FileConfig) {
			enabled := true
			c.Features.EnablePurge = &enabled
		}, "purgeInterval must be > 0"},
		{"betting account", func(c *FileConfig) {
			c.Accounts = []AccountConfig{{ID: "SIM-001", Type: enum.AccountTypeBetting, BaseCurrency: "USD"}}
		}, "is not supported"},
		{"negative balance", func(c *FileConfig) {
			c.Accounts = []AccountConfig{{ID: "SIM-001", Type: enum.AccountTypeCash, Starting: []string{"-1 USD"}}}
		}, "must be >= 0"},
		{"duplicate stub", func(c *FileConfig) {
			c.Instruments.Definitions = []InstrumentConfig{{
				ID: "AUD/USD.SIM", Class: enum.InstrumentClassCurrencyPair, Quote: "USD",
				PricePrecision: 5, PriceIncrement: "0.00001", SizeIncrement: "1",
			}}
		}, "AUD/USD.SIM"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base()
			tc.modify(&cfg)
			_, err := Resolve(cfg)
			assert.ErrorContains(t, err, tc.want)
		})
	}
}
