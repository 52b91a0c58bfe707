package engine

import (
	"context"
	"time"

	"tradecore/internal/accounting"
	"tradecore/internal/bus"
	"tradecore/internal/cache"
	"tradecore/internal/errors"
	"tradecore/internal/model/enum"
	"tradecore/internal/model/event"
	"tradecore/internal/model/identifier"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/order"
	"tradecore/internal/model/position"
	"tradecore/internal/model/types"
	"tradecore/internal/obs"
	"tradecore/internal/risk"
	"tradecore/internal/state"
	"tradecore/pkg/exception"
)

const defaultQueueSize = 1024

// Config controls the engine.
type Config struct {
	OmsType   enum.OmsType
	QueueSize int
}

// Journal receives every applied event.
type Journal interface {
	Append(ev event.OrderEvent, seq uint64) error
}

// Store persists the latest order and position state.
type Store interface {
	SaveOrder(ctx context.Context, o *order.Order) error
	SavePosition(ctx context.Context, p *position.Position) error
	AppendEvent(ctx context.Context, ev event.OrderEvent, seq uint64) error
}

// Option customizes an Engine.
type Option func(*Engine)

func WithJournal(j Journal) Option { return func(e *Engine) { e.journal = j } }
func WithStore(s Store) Option     { return func(e *Engine) { e.store = s } }

func WithMetrics(m *obs.Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithFactories registers order factories whose counters Replay resumes.
func WithFactories(fs ...*order.Factory) Option {
	return func(e *Engine) { e.factories = append(e.factories, fs...) }
}

// WithClock replaces the wall clock used to stamp engine generated events.
func WithClock(now func() uint64) Option { return func(e *Engine) { e.now = now } }

// Engine owns the cache. Every method other than the queue publishers must
// be called from one goroutine, normally the one running Run.
type Engine struct {
	cfg         Config
	instruments *instrument.Registry
	accounts    *accounting.Registry
	risk        *risk.Engine
	cache       *cache.Cache
	exposure    *state.ExposureReducer
	prices      map[identifier.InstrumentID]types.Price
	queue       *bus.Queue[command]
	seq         *obs.Sequence
	metrics     *obs.Metrics
	journal     Journal
	store       Store
	now         func() uint64
	factories   []*order.Factory

	lastEventTs uint64
	replaying   bool
}

func New(cfg Config, instruments *instrument.Registry, accounts *accounting.Registry, riskEngine *risk.Engine, opts ...Option) (*Engine, error) {
	if instruments == nil || accounts == nil || riskEngine == nil {
		return nil, errors.Wrap(exception.ErrNilInstance, "engine dependencies")
	}
	if cfg.OmsType == 0 {
		cfg.OmsType = enum.OmsTypeNetting
	}
	if !cfg.OmsType.IsAvailable() {
		return nil, errors.Wrapf(exception.ErrInvalidArgument, "oms type %d", cfg.OmsType)
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	e := &Engine{
		cfg:         cfg,
		instruments: instruments,
		accounts:    accounts,
		risk:        riskEngine,
		cache:       cache.New(),
		exposure:    state.NewExposureReducer(),
		prices:      make(map[identifier.InstrumentID]types.Price),
		queue:       bus.NewQueue[command](cfg.QueueSize),
		seq:         obs.NewSequence(0),
		now:         func() uint64 { return uint64(time.Now().UTC().UnixNano()) },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = obs.NewMetrics()
	}
	return e, nil
}

func (e *Engine) Cache() *cache.Cache              { return e.cache }
func (e *Engine) Accounts() *accounting.Registry   { return e.accounts }
func (e *Engine) Exposure() *state.ExposureReducer { return e.exposure }
func (e *Engine) Metrics() *obs.Metrics            { return e.metrics }
func (e *Engine) Risk() *risk.Engine               { return e.risk }
func (e *Engine) OmsType() enum.OmsType            { return e.cfg.OmsType }
func (e *Engine) LastSeq() uint64                  { return e.seq.Last() }
func (e *Engine) LastEventTs() uint64              { return e.lastEventTs }
func (e *Engine) LastPrice(id identifier.InstrumentID) (types.Price, bool) {
	px, ok := e.prices[id]
	return px, ok
}

// ResumeFactory moves f's counters past every cached order and order list
// it could have issued, so new ids do not collide after a replay.
func (e *Engine) ResumeFactory(f *order.Factory) {
	if f == nil {
		return
	}
	var (
		orders []identifier.ClientOrderID
		lists  []identifier.OrderListID
	)
	for _, o := range e.cache.Orders(cache.Filter{StrategyID: f.StrategyID()}) {
		if o.TraderID() != f.TraderID() {
			continue
		}
		orders = append(orders, o.ClientOrderID())
		if id, ok := o.OrderListID(); ok {
			lists = append(lists, id)
		}
	}
	f.Resume(orders, lists)
}

// Snapshot captures every cached position and the net exposures.
func (e *Engine) Snapshot() state.Snapshot {
	return state.Build(e.cache.Positions(cache.Filter{}), e.exposure, e.seq.Last(), e.lastEventTs)
}

// PurgeClosed drops orders and positions closed at least bufferSecs ago.
func (e *Engine) PurgeClosed(bufferSecs uint64) (orders []identifier.ClientOrderID, positions []identifier.PositionID, err error) {
	now := e.now()
	orders, err = e.cache.PurgeClosedOrders(now, bufferSecs)
	if err != nil {
		return orders, nil, err
	}
	return orders, e.cache.PurgeClosedPositions(now, bufferSecs), nil
}

// positionIDFor picks the position a fill goes to. NETTING keeps one
// position per instrument and strategy; HEDGING uses the id the venue sent,
// the id already linked to the order, or one derived from the order.
func (e *Engine) positionIDFor(o *order.Order, fill event.Filled) identifier.PositionID {
	if e.cfg.OmsType == enum.OmsTypeNetting {
		return nettingPositionID(o.InstrumentID(), o.StrategyID())
	}
	if fill.PositionID != nil && *fill.PositionID != "" {
		return *fill.PositionID
	}
	if id, ok := e.cache.PositionIDForOrder(o.ClientOrderID()); ok {
		return id
	}
	return identifier.PositionID("P-" + string(o.ClientOrderID()))
}
