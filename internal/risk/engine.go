package risk

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"tradecore/internal/model/enum"
	"tradecore/internal/model/instrument"
	"tradecore/internal/model/order"
	"tradecore/internal/model/types"
)

var bpsDenominator = decimal.NewFromInt(10_000)

// Config defines pre-trade limits. Zero limits are disabled.
type Config struct {
	KillSwitch           bool            `json:"killSwitch"`
	MaxOrderQty          decimal.Decimal `json:"maxOrderQty"`
	MaxOrderNotional     decimal.Decimal `json:"maxOrderNotional"`
	MaxPosition          decimal.Decimal `json:"maxPosition"`
	OrderRateLimit       int             `json:"orderRateLimit"`
	OrderRateWindow      time.Duration   `json:"orderRateWindow"`
	MaxPriceDeviationBps int64           `json:"maxPriceDeviationBps"`
}

// StateView is what the caller knows about the market and the position the
// order would trade into.
type StateView struct {
	// Position is the signed net quantity.
	Position       decimal.Decimal
	PositionSide   enum.PositionSide
	ReferencePrice types.Price
	Now            uint64
}

// Decision is the outcome of Evaluate.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision             { return Decision{Allowed: true, Reason: ReasonNone} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

func (d Decision) String() string {
	if d.Allowed {
		return "ALLOWED"
	}
	return "DENIED(" + d.Reason.String() + ")"
}

// Engine evaluates new orders against the configured limits. Limits can be
// swapped while the engine is in use.
type Engine struct {
	mu              sync.Mutex
	cfg             Config
	rateWindowStart uint64
	rateCount       int
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// SetConfig replaces the limits and restarts the rate window.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
	e.rateWindowStart = 0
	e.rateCount = 0
}

func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Evaluate runs the checks in order and stops at the first denial: kill
// switch, rate limit, order quantity, price band, notional, reduce only and
// position limit.
func (e *Engine) Evaluate(o *order.Order, inst instrument.Instrument, state StateView) Decision {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := state.Now
	if now == 0 {
		now = uint64(time.Now().UTC().UnixNano())
	}

	if e.cfg.KillSwitch {
		return deny(ReasonKillSwitch)
	}

	if e.cfg.OrderRateLimit > 0 && e.cfg.OrderRateWindow > 0 {
		window := uint64(e.cfg.OrderRateWindow)
		if e.rateWindowStart == 0 || now-e.rateWindowStart >= window {
			e.rateWindowStart = now
			e.rateCount = 0
		}
		e.rateCount++
		if e.rateCount > e.cfg.OrderRateLimit {
			return deny(ReasonRateLimit)
		}
	}

	qty := o.Quantity().Decimal()
	if e.cfg.MaxOrderQty.IsPositive() && qty.GreaterThan(e.cfg.MaxOrderQty) {
		return deny(ReasonMaxQty)
	}

	price, hasPrice := o.Price()
	if e.cfg.MaxPriceDeviationBps > 0 && hasPrice && price.IsPositive() && state.ReferencePrice.IsPositive() {
		if exceedsDeviation(price, state.ReferencePrice, e.cfg.MaxPriceDeviationBps) {
			return deny(ReasonPriceBand)
		}
	}

	if e.cfg.MaxOrderNotional.IsPositive() {
		px := price
		if !hasPrice || !px.IsPositive() {
			px = state.ReferencePrice
		}
		if px.IsPositive() {
			notional, err := inst.NotionalDecimal(o.Quantity(), px, false)
			if err != nil || notional.GreaterThan(e.cfg.MaxOrderNotional) {
				return deny(ReasonMaxNotional)
			}
		}
	}

	if o.IsReduceOnly() && !o.WouldReduceOnly(state.PositionSide, absQuantity(state.Position, o.Quantity().Precision())) {
		return deny(ReasonReduceOnly)
	}

	next := state.Position.Add(o.SignedDecimalQty())
	if e.cfg.MaxPosition.IsPositive() && next.Abs().GreaterThan(e.cfg.MaxPosition) {
		return deny(ReasonPositionLimit)
	}

	return allow()
}

func exceedsDeviation(price, ref types.Price, bps int64) bool {
	diff := price.Decimal().Sub(ref.Decimal()).Abs()
	limit := ref.Decimal().Mul(decimal.NewFromInt(bps)).Div(bpsDenominator)
	return diff.GreaterThan(limit)
}

func absQuantity(signed decimal.Decimal, precision uint8) types.Quantity {
	q, err := types.NewQuantityFromDecimal(signed.Abs(), precision)
	if err != nil {
		return types.QuantityZero(precision)
	}
	return q
}
