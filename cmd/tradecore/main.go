package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"tradecore/internal/engine"
	"tradecore/internal/journal"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/order"
	"tradecore/internal/ops"
	"tradecore/internal/risk"
	"tradecore/internal/state"
	"tradecore/internal/store"
	"tradecore/pkg/conn"
	"tradecore/pkg/exception"
)

// runtimeConfig holds the risk limits that can change while running.
type runtimeConfig struct {
	v atomic.Value
}

func newRuntimeConfig(cfg risk.Config) *runtimeConfig {
	var rc runtimeConfig
	rc.v.Store(cfg)
	return &rc
}

func (r *runtimeConfig) Load() risk.Config {
	return r.v.Load().(risk.Config)
}

func (r *runtimeConfig) Update(cfg risk.Config) {
	r.v.Store(cfg)
}

type options struct {
	configPath     string
	configReload   time.Duration
	eventsPath     string
	submitNew      bool
	journalDir     string
	snapshotPath   string
	replay         bool
	replaySpeed    float64
	replayNoCRC    bool
	verify         bool
	pgDSN          string
	pyroscopeAddr  string
	keepRunning    bool
	publishBackoff time.Duration
}

func main() {
	var opt options
	flag.StringVar(&opt.configPath, "config", "", "Path to JSON config (default: built-in stub instruments)")
	flag.DurationVar(&opt.configReload, "config-reload-interval", 2*time.Second, "Risk limit reload interval (0=disable)")
	flag.StringVar(&opt.eventsPath, "events", "", "JSON array of order events to process")
	flag.BoolVar(&opt.submitNew, "submit", true, "Run INITIALIZED events from -events through pre-trade checks")
	flag.StringVar(&opt.journalDir, "journal-dir", "", "Journal directory (overrides config)")
	flag.StringVar(&opt.snapshotPath, "snapshot", "", "Position snapshot path (default: <journal-dir>/positions.json)")
	flag.BoolVar(&opt.replay, "replay", false, "Rebuild state from the journal before processing")
	flag.Float64Var(&opt.replaySpeed, "replay-speed", 0, "Replay speed (1=real-time, 0=no pacing)")
	flag.BoolVar(&opt.replayNoCRC, "replay-no-checksum", false, "Disable checksum validation on replay")
	flag.BoolVar(&opt.verify, "verify", false, "Replay the journal, compare against the snapshot and exit")
	flag.StringVar(&opt.pgDSN, "pg-dsn", "", "PostgreSQL connection string (overrides config)")
	flag.StringVar(&opt.pyroscopeAddr, "pyroscope", "", "Pyroscope server address (overrides config)")
	flag.BoolVar(&opt.keepRunning, "keep-running", false, "Keep running after -events until shutdown")
	flag.DurationVar(&opt.publishBackoff, "publish-backoff", time.Millisecond, "Wait before re-publishing to a full queue")
	flag.Parse()

	if err := run(opt); err != nil {
		logs.Errorf("tradecore failed, err: %+v", err)
		os.Exit(1)
	}
}

func run(opt options) error {
	loaded, err := loadConfig(opt)
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	if loaded.Profiling.ServerAddress != "" {
		profiler, err := startProfiler(loaded.Profiling)
		if err != nil {
			return fmt.Errorf("pyroscope start: %w", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-sys.Shutdown():
			logs.Info("shutdown signal received")
			cancel()
		case <-ctx.Done():
		}
	}()

	runtime := newRuntimeConfig(loaded.Risk)
	riskEngine := risk.NewEngine(runtime.Load())
	if opt.configPath != "" && opt.configReload > 0 {
		go watchConfig(ctx, opt.configPath, opt.configReload, func(cfg risk.Config) {
			runtime.Update(cfg)
			riskEngine.SetConfig(cfg)
		})
	}

	var engineOpts []engine.Option
	var writer *journal.Writer
	if loaded.Features.EnableJournal && !opt.verify {
		if writer, err = journal.NewWriter(loaded.Journal); err != nil {
			return err
		}
		engineOpts = append(engineOpts, engine.WithJournal(writer))
	}
	if loaded.Features.EnableStore && !opt.verify {
		client, err := conn.New(loaded.Postgres)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer client.Close()
		st, err := store.New(client.DB())
		if err != nil {
			return err
		}
		if err := st.Migrate(ctx); err != nil {
			return err
		}
		engineOpts = append(engineOpts, engine.WithStore(st))
	}

	eng, err := engine.New(loaded.Engine, loaded.Instruments, loaded.Accounts, riskEngine, engineOpts...)
	if err != nil {
		return err
	}

	if opt.replay || opt.verify {
		if err := replay(ctx, eng, loaded, opt); err != nil {
			return err
		}
		if opt.verify {
			return verifySnapshot(eng, loaded.Snapshot)
		}
	}

	if writer != nil {
		if err := writer.Start(ctx); err != nil {
			return err
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		eng.Run(ctx)
	}()

	if loaded.Features.EnablePurge {
		go purgeLoop(ctx, eng, loaded.Purge)
	}

	feedErr := feed(ctx, eng, loaded, opt)
	if feedErr == nil && opt.keepRunning {
		<-ctx.Done()
	}
	eng.Stop()
	wg.Wait()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logs.Errorf("journal close, err: %+v", err)
		}
	}
	if loaded.Snapshot != "" {
		snapshot := eng.Snapshot()
		if err := state.WriteSnapshot(loaded.Snapshot, snapshot); err != nil {
			return err
		}
		logs.Infof("snapshot written: %s, positions: %d, last seq: %d", loaded.Snapshot, len(snapshot.Positions), snapshot.LastSeq)
	}
	logMetrics(eng)
	return feedErr
}

func loadConfig(opt options) (ops.Loaded, error) {
	var loaded ops.Loaded
	var err error
	if opt.configPath == "" {
		loaded, err = defaultLoaded()
	} else {
		loaded, err = ops.Load(opt.configPath)
	}
	if err != nil {
		return ops.Loaded{}, err
	}
	if opt.journalDir != "" {
		loaded.Journal = journal.DefaultConfig(opt.journalDir)
		loaded.Snapshot = resolveSnapshotPath(opt.journalDir, "")
	}
	if opt.snapshotPath != "" {
		loaded.Snapshot = opt.snapshotPath
	}
	if opt.pgDSN != "" {
		loaded.Postgres.ConnString = opt.pgDSN
		loaded.Features.EnableStore = true
	}
	if opt.pyroscopeAddr != "" {
		loaded.Profiling.ServerAddress = opt.pyroscopeAddr
		if loaded.Profiling.ApplicationName == "" {
			loaded.Profiling.ApplicationName = "tradecore"
		}
	}
	if loaded.Features.EnableJournal && loaded.Journal.Dir == "" {
		return ops.Loaded{}, fmt.Errorf("journal is enabled but no journal directory is set")
	}
	return loaded, nil
}

// defaultLoaded runs the stub instruments with a calculated margin account on
// the SIM venue.
func defaultLoaded() (ops.Loaded, error) {
	return ops.Resolve(ops.FileConfig{
		Trader:      ops.TraderConfig{TraderID: "TRADER-001", StrategyID: "S-001"},
		Instruments: ops.InstrumentsConfig{Stubs: true},
		Accounts: []ops.AccountConfig{{
			ID:           "SIM-001",
			Type:         enum.AccountTypeMargin,
			BaseCurrency: "USD",
			Starting:     []string{"1000000 USD"},
			Calculated:   true,
		}},
		Engine: ops.EngineConfig{JournalDir: filepath.Join("testdata", "journal")},
	})
}

func replay(ctx context.Context, eng *engine.Engine, loaded ops.Loaded, opt options) error {
	pb, err := journal.NewPlayback(journal.PlaybackConfig{
		Dir:             loaded.Journal.Dir,
		FilePrefix:      loaded.Journal.FilePrefix,
		Speed:           opt.replaySpeed,
		DisableChecksum: opt.replayNoCRC,
	})
	if err != nil {
		return err
	}
	n, err := eng.Replay(ctx, pb)
	if err != nil {
		return fmt.Errorf("replay after %d events: %w", n, err)
	}
	return nil
}

func verifySnapshot(eng *engine.Engine, path string) error {
	if path == "" {
		return fmt.Errorf("snapshot path is empty")
	}
	expected, err := state.ReadSnapshot(path)
	if err != nil {
		return err
	}
	actual := eng.Snapshot()
	if err := state.CompareSnapshots(expected, actual); err != nil {
		return err
	}
	logs.Infof("snapshot verified: positions: %d, last seq: %d", len(actual.Positions), actual.LastSeq)
	return nil
}

// feed publishes the events file to the engine. New orders go through Submit
// when submitNew is set.
func feed(ctx context.Context, eng *engine.Engine, loaded ops.Loaded, opt options) error {
	if opt.eventsPath == "" {
		return nil
	}
	data, err := os.ReadFile(opt.eventsPath)
	if err != nil {
		return err
	}
	events, err := event.DecodeAll(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", opt.eventsPath, err)
	}
	for i, ev := range events {
		publish := func() error { return eng.Enqueue(ev) }
		if init, ok := ev.(event.Initialized); ok && opt.submitNew {
			if init.TraderID == "" {
				init.TraderID = loaded.TraderID
			}
			o, err := order.New(init)
			if err != nil {
				return fmt.Errorf("event %d: %w", i, err)
			}
			publish = func() error { return eng.EnqueueSubmit(o) }
		}
		if err := publishWithBackoff(ctx, publish, opt.publishBackoff); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	logs.Infof("events queued: %d from %s", len(events), opt.eventsPath)
	return nil
}

func publishWithBackoff(ctx context.Context, publish func() error, backoff time.Duration) error {
	for {
		err := publish()
		if !errors.Is(err, exception.ErrEngineQueueFull) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func purgeLoop(ctx context.Context, eng *engine.Engine, spec ops.PurgeSpec) {
	ticker := time.NewTicker(spec.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := eng.EnqueuePurge(spec.BufferSecs); err != nil {
				logs.Errorf("enqueue purge, err: %+v", err)
				if errors.Is(err, exception.ErrEngineStopped) {
					return
				}
			}
		}
	}
}

func resolveSnapshotPath(dir string, path string) string {
	if path != "" {
		return path
	}
	return filepath.Join(dir, "positions.json")
}

func watchConfig(ctx context.Context, path string, interval time.Duration, update func(risk.Config)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastMod time.Time
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil {
				logs.Errorf("config stat, err: %+v", err)
				continue
			}
			if !info.ModTime().After(lastMod) {
				continue
			}
			cfg, err := ops.LoadRisk(path)
			if err != nil {
				logs.Errorf("config reload, err: %+v", err)
				continue
			}
			update(cfg)
			lastMod = info.ModTime()
			logs.Infof("risk limits reloaded: %s, kill switch: %t", path, cfg.KillSwitch)
		}
	}
}

func startProfiler(cfg ops.ProfilingConfig) (*pyroscope.Profiler, error) {
	name := cfg.ApplicationName
	if name == "" {
		name = "tradecore"
	}
	return pyroscope.Start(pyroscope.Config{
		ApplicationName: name,
		ServerAddress:   cfg.ServerAddress,
		Tags: map[string]string{
			"service": "tradecore",
		},
		Logger: profilerLogger{},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
}

type profilerLogger struct{}

func (profilerLogger) Infof(format string, args ...interface{}) { logs.Infof("pyroscope: "+format, args...) }
func (profilerLogger) Debugf(_ string, _ ...interface{})         {}
func (profilerLogger) Errorf(format string, args ...interface{}) { logs.Errorf("pyroscope: "+format, args...) }

func logMetrics(eng *engine.Engine) {
	snapshot := eng.Metrics().Snapshot()
	logs.Infof("metrics: events=%v risk_reasons=%v errors=%v drops=%d closed=%d apply=%+v risk_eval=%+v event_latency=%+v",
		snapshot.EventCounts, snapshot.RiskReasonCounts, snapshot.ErrorCounts, snapshot.QueueDrops, snapshot.QueueClosed,
		snapshot.ApplyLatency, snapshot.RiskEvalLatency, snapshot.EventLatency)
}
