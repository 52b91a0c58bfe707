package ops

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	shopspring "github.com/shopspring/decimal"
	"github.com/yanun0323/decimal"

	"tradecore/internal/accounting"
	"tradecore/internal/engine"
	"tradecore/internal/journal"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/types"
	"tradecore/internal/risk"
	"tradecore/pkg/conn"
)

const (
	defaultQueueSize    = 4096
	defaultSnapshotName = "positions.json"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Trader      TraderConfig       `json:"trader"`
	Instruments InstrumentsConfig  `json:"instruments"`
	Accounts    []AccountConfig    `json:"accounts"`
	Risk        risk.Config        `json:"risk"`
	Engine      EngineConfig       `json:"engine"`
	Postgres    conn.Option        `json:"postgres"`
	Profiling   ProfilingConfig    `json:"profiling"`
	Features    FeatureFlagsConfig `json:"features"`
}

type TraderConfig struct {
	TraderID   string `json:"traderId"`
	StrategyID string `json:"strategyId"`
}

// InstrumentsConfig lists instrument definitions. Stubs adds the built-in
// test instruments.
type InstrumentsConfig struct {
	Stubs       bool               `json:"stubs"`
	Definitions []InstrumentConfig `json:"definitions"`
}

// InstrumentConfig describes one instrument. Currencies are codes, prices
// and quantities are decimal strings.
type InstrumentConfig struct {
	ID             string               `json:"id"`
	Class          enum.InstrumentClass `json:"class"`
	Base           string               `json:"base"`
	Quote          string               `json:"quote"`
	Settlement     string               `json:"settlement"`
	Inverse        bool                 `json:"inverse"`
	PricePrecision uint8                `json:"pricePrecision"`
	SizePrecision  uint8                `json:"sizePrecision"`
	PriceIncrement string               `json:"priceIncrement"`
	SizeIncrement  string               `json:"sizeIncrement"`
	Multiplier     decimal.Decimal      `json:"multiplier"`
	MarginInit     decimal.Decimal      `json:"marginInit"`
	MarginMaint    decimal.Decimal      `json:"marginMaint"`
	MakerFee       decimal.Decimal      `json:"makerFee"`
	TakerFee       decimal.Decimal      `json:"takerFee"`
}

// AccountConfig describes one account. Starting balances read like
// "1000000 USD".
type AccountConfig struct {
	ID           string           `json:"id"`
	Type         enum.AccountType `json:"type"`
	BaseCurrency string           `json:"baseCurrency"`
	Starting     []string         `json:"starting"`
	Leverage     decimal.Decimal  `json:"leverage"`
	Calculated   bool             `json:"calculated"`
}

// EngineConfig sizes the engine and names where its output goes. Purge
// values are seconds; a zero interval disables purging.
type EngineConfig struct {
	OmsType       enum.OmsType `json:"omsType"`
	QueueSize     int          `json:"queueSize"`
	JournalDir    string       `json:"journalDir"`
	SnapshotPath  string       `json:"snapshotPath"`
	PurgeInterval int          `json:"purgeInterval"`
	PurgeBuffer   int          `json:"purgeBuffer"`
}

type ProfilingConfig struct {
	ApplicationName string `json:"applicationName"`
	ServerAddress   string `json:"serverAddress"`
}

// FeatureFlagsConfig captures optional runtime flags.
type FeatureFlagsConfig struct {
	EnableJournal *bool `json:"enableJournal"`
	EnableStore   *bool `json:"enableStore"`
	EnablePurge   *bool `json:"enablePurge"`
}

// FeatureFlags are resolved runtime flags.
type FeatureFlags struct {
	EnableJournal bool
	EnableStore   bool
	EnablePurge   bool
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	TraderID    identifier.TraderID
	StrategyID  identifier.StrategyID
	Instruments *instrument.Registry
	Accounts    *accounting.Registry
	Risk        risk.Config
	Engine      engine.Config
	Journal     journal.Config
	Snapshot    string
	Purge       PurgeSpec
	Postgres    conn.Option
	Profiling   ProfilingConfig
	Features    FeatureFlags
}

type PurgeSpec struct {
	Interval   time.Duration
	BufferSecs uint64
}

// Load reads a JSON config file and builds the registries.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	return Parse(data)
}

func Parse(data []byte) (Loaded, error) {
	var cfg FileConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, fmt.Errorf("decode config: %w", err)
	}
	return Resolve(cfg)
}

// LoadRisk reads only the risk section, used when limits are reloaded.
func LoadRisk(path string) (risk.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return risk.Config{}, err
	}
	var cfg FileConfig
	if err := sonic.Unmarshal(data, &cfg); err != nil {
		return risk.Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validateRisk(cfg.Risk); err != nil {
		return risk.Config{}, err
	}
	return cfg.Risk, nil
}

func Resolve(cfg FileConfig) (Loaded, error) {
	if cfg.Trader.TraderID == "" {
		return Loaded{}, fmt.Errorf("trader traderId is empty")
	}
	if cfg.Trader.StrategyID == "" {
		return Loaded{}, fmt.Errorf("trader strategyId is empty")
	}
	instruments, err := buildInstruments(cfg.Instruments)
	if err != nil {
		return Loaded{}, err
	}
	accounts, err := buildAccounts(cfg.Accounts)
	if err != nil {
		return Loaded{}, err
	}
	if err := validateRisk(cfg.Risk); err != nil {
		return Loaded{}, err
	}
	engineCfg, err := resolveEngine(cfg.Engine)
	if err != nil {
		return Loaded{}, err
	}
	features := resolveFeatures(cfg.Features)

	loaded := Loaded{
		TraderID:    identifier.TraderID(cfg.Trader.TraderID),
		StrategyID:  identifier.StrategyID(cfg.Trader.StrategyID),
		Instruments: instruments,
		Accounts:    accounts,
		Risk:        cfg.Risk,
		Engine:      engineCfg,
		Snapshot:    cfg.Engine.SnapshotPath,
		Purge: PurgeSpec{
			Interval:   time.Duration(cfg.Engine.PurgeInterval) * time.Second,
			BufferSecs: uint64(cfg.Engine.PurgeBuffer),
		},
		Postgres:  cfg.Postgres,
		Profiling: cfg.Profiling,
		Features:  features,
	}
	if cfg.Engine.JournalDir != "" {
		loaded.Journal = journal.DefaultConfig(cfg.Engine.JournalDir)
		if loaded.Snapshot == "" {
			loaded.Snapshot = cfg.Engine.JournalDir + string(os.PathSeparator) + defaultSnapshotName
		}
	} else if features.EnableJournal {
		return Loaded{}, fmt.Errorf("engine journalDir is empty while journal is enabled")
	}
	if features.EnableStore && !cfg.Postgres.Enabled() {
		return Loaded{}, fmt.Errorf("postgres is not configured while store is enabled")
	}
	if features.EnablePurge && loaded.Purge.Interval <= 0 {
		return Loaded{}, fmt.Errorf("engine purgeInterval must be > 0 while purge is enabled")
	}
	return loaded, nil
}

func buildInstruments(cfg InstrumentsConfig) (*instrument.Registry, error) {
	insts := make([]instrument.Instrument, 0, len(cfg.Definitions))
	if cfg.Stubs {
		insts = append(insts, instrument.Stubs()...)
	}
	for _, def := range cfg.Definitions {
		inst, err := resolveInstrument(def)
		if err != nil {
			return nil, fmt.Errorf("instrument %s: %w", def.ID, err)
		}
		insts = append(insts, inst)
	}
	if len(insts) == 0 {
		return nil, fmt.Errorf("instruments must hold at least one definition")
	}

	reg := instrument.NewRegistry()
	for _, inst := range insts {
		if _, ok := reg.VenueIDByName(inst.ID.Venue); !ok {
			if _, err := reg.AddVenue(inst.ID.Venue); err != nil {
				return nil, err
			}
		}
		if _, err := reg.AddInstrument(inst); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func resolveInstrument(def InstrumentConfig) (instrument.Instrument, error) {
	id, err := identifier.ParseInstrumentID(def.ID)
	if err != nil {
		return instrument.Instrument{}, err
	}
	if !def.Class.IsAvailable() {
		return instrument.Instrument{}, fmt.Errorf("class is unknown")
	}
	quote, err := types.CurrencyFromString(def.Quote)
	if err != nil {
		return instrument.Instrument{}, err
	}
	settlement := quote
	if def.Settlement != "" {
		if settlement, err = types.CurrencyFromString(def.Settlement); err != nil {
			return instrument.Instrument{}, err
		}
	}
	var base types.Currency
	if def.Base != "" {
		if base, err = types.CurrencyFromString(def.Base); err != nil {
			return instrument.Instrument{}, err
		}
	}
	priceIncrement, err := types.ParsePrice(def.PriceIncrement)
	if err != nil {
		return instrument.Instrument{}, fmt.Errorf("priceIncrement: %w", err)
	}
	sizeIncrement, err := types.ParseQuantity(def.SizeIncrement)
	if err != nil {
		return instrument.Instrument{}, fmt.Errorf("sizeIncrement: %w", err)
	}

	multiplier, err := toDecimal(def.Multiplier)
	if err != nil {
		return instrument.Instrument{}, fmt.Errorf("multiplier: %w", err)
	}
	if multiplier.IsZero() {
		multiplier = shopspring.NewFromInt(1)
	}
	rates := make([]shopspring.Decimal, 4)
	for i, v := range []decimal.Decimal{def.MarginInit, def.MarginMaint, def.MakerFee, def.TakerFee} {
		if rates[i], err = toDecimal(v); err != nil {
			return instrument.Instrument{}, fmt.Errorf("rate: %w", err)
		}
	}
	if rates[0].IsNegative() || rates[1].IsNegative() {
		return instrument.Instrument{}, fmt.Errorf("margin rates must be >= 0")
	}

	inst := instrument.Instrument{
		ID:                 id,
		RawSymbol:          id.Symbol,
		Class:              def.Class,
		BaseCurrency:       base,
		QuoteCurrency:      quote,
		SettlementCurrency: settlement,
		IsInverse:          def.Inverse,
		PricePrecision:     def.PricePrecision,
		SizePrecision:      def.SizePrecision,
		PriceIncrement:     priceIncrement,
		SizeIncrement:      sizeIncrement,
		Multiplier:         multiplier,
		MarginInit:         rates[0],
		MarginMaint:        rates[1],
		MakerFee:           rates[2],
		TakerFee:           rates[3],
	}
	if err := inst.Validate(); err != nil {
		return instrument.Instrument{}, err
	}
	return inst, nil
}

func buildAccounts(cfgs []AccountConfig) (*accounting.Registry, error) {
	reg := accounting.NewRegistry()
	for _, cfg := range cfgs {
		acc, err := resolveAccount(cfg)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", cfg.ID, err)
		}
		if err := reg.Add(acc); err != nil {
			return nil, err
		}
		if cfg.Calculated {
			reg.RegisterCalculatedVenue(identifier.Venue(acc.ID().Issuer()))
		}
	}
	return reg, nil
}

func resolveAccount(cfg AccountConfig) (accounting.Account, error) {
	id := identifier.AccountID(cfg.ID)
	if !strings.Contains(cfg.ID, "-") {
		return nil, fmt.Errorf("id must read ISSUER-NUMBER")
	}
	var base types.Currency
	if cfg.BaseCurrency != "" {
		var err error
		if base, err = types.CurrencyFromString(cfg.BaseCurrency); err != nil {
			return nil, err
		}
	}
	starting := make([]types.Money, 0, len(cfg.Starting))
	for _, s := range cfg.Starting {
		m, err := types.ParseMoney(s)
		if err != nil {
			return nil, fmt.Errorf("starting %q: %w", s, err)
		}
		if m.Sign() < 0 {
			return nil, fmt.Errorf("starting %q must be >= 0", s)
		}
		starting = append(starting, m)
	}

	switch cfg.Type {
	case enum.AccountTypeCash:
		return accounting.NewCashAccount(id, base, starting...)
	case enum.AccountTypeMargin:
		acc, err := accounting.NewMarginAccount(id, base, starting...)
		if err != nil {
			return nil, err
		}
		leverage, err := toDecimal(cfg.Leverage)
		if err != nil {
			return nil, fmt.Errorf("leverage: %w", err)
		}
		if !leverage.IsZero() {
			if err := acc.SetDefaultLeverage(leverage); err != nil {
				return nil, err
			}
		}
		return acc, nil
	default:
		return nil, fmt.Errorf("type %q is not supported", cfg.Type)
	}
}

func validateRisk(cfg risk.Config) error {
	if cfg.MaxOrderQty.IsNegative() || cfg.MaxOrderNotional.IsNegative() || cfg.MaxPosition.IsNegative() {
		return fmt.Errorf("risk limits must be >= 0")
	}
	if cfg.OrderRateLimit < 0 || cfg.MaxPriceDeviationBps < 0 {
		return fmt.Errorf("risk orderRateLimit and maxPriceDeviationBps must be >= 0")
	}
	if cfg.OrderRateLimit > 0 && cfg.OrderRateWindow <= 0 {
		return fmt.Errorf("risk orderRateWindow must be > 0 when orderRateLimit is set")
	}
	return nil
}

func resolveEngine(cfg EngineConfig) (engine.Config, error) {
	if cfg.OmsType == 0 {
		cfg.OmsType = enum.OmsTypeNetting
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.QueueSize < 0 {
		return engine.Config{}, fmt.Errorf("engine queueSize must be > 0")
	}
	if cfg.PurgeInterval < 0 || cfg.PurgeBuffer < 0 {
		return engine.Config{}, fmt.Errorf("engine purgeInterval and purgeBuffer must be >= 0")
	}
	return engine.Config{OmsType: cfg.OmsType, QueueSize: cfg.QueueSize}, nil
}

func resolveFeatures(cfg FeatureFlagsConfig) FeatureFlags {
	flags := FeatureFlags{
		EnableJournal: true,
		EnableStore:   false,
		EnablePurge:   false,
	}
	if cfg.EnableJournal != nil {
		flags.EnableJournal = *cfg.EnableJournal
	}
	if cfg.EnableStore != nil {
		flags.EnableStore = *cfg.EnableStore
	}
	if cfg.EnablePurge != nil {
		flags.EnablePurge = *cfg.EnablePurge
	}
	return flags
}

// toDecimal moves a config decimal onto the decimal type used by the model.
// An unset value is zero.
func toDecimal(d decimal.Decimal) (shopspring.Decimal, error) {
	s := strings.TrimSpace(fmt.Sprint(d))
	if s == "" {
		return shopspring.Zero, nil
	}
	return shopspring.NewFromString(s)
}
