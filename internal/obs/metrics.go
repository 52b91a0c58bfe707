package obs

import (
	"sync/atomic"
	"time"

	"tradecore/internal/model/event"
	"tradecore/internal/risk"
)

const (
	maxEventKind  = int(event.KindFilled)
	maxRiskReason = int(risk.ReasonReduceOnly)
)

// ErrorClass groups failures for counting.
type ErrorClass uint8

const (
	ErrorClassApply ErrorClass = iota
	ErrorClassPosition
	ErrorClassAccount
	ErrorClassJournal
	ErrorClassStore
	errorClassCount
)

var errorClassNames = [errorClassCount]string{"apply", "position", "account", "journal", "store"}

func (c ErrorClass) String() string {
	if c < errorClassCount {
		return errorClassNames[c]
	}
	return "unknown"
}

// Metrics collects lightweight counters and latency stats.
type Metrics struct {
	eventCounts      [maxEventKind + 1]uint64
	riskReasonCounts [maxRiskReason + 1]uint64
	errorCounts      [errorClassCount]uint64
	queueDrops       uint64
	queueClosed      uint64

	eventLatency    LatencyStats
	applyLatency    LatencyStats
	riskEvalLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	EventCounts      map[event.Kind]uint64
	RiskReasonCounts map[risk.Reason]uint64
	ErrorCounts      map[ErrorClass]uint64
	QueueDrops       uint64
	QueueClosed      uint64
	EventLatency     LatencySnapshot
	ApplyLatency     LatencySnapshot
	RiskEvalLatency  LatencySnapshot
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveEvent counts ev by kind and tracks the event to init delay when
// both timestamps are present.
func (m *Metrics) ObserveEvent(ev event.OrderEvent) {
	if m == nil || ev == nil {
		return
	}
	idx := int(ev.Kind())
	if idx >= 0 && idx < len(m.eventCounts) {
		atomic.AddUint64(&m.eventCounts[idx], 1)
	}
	h := ev.Head()
	if h.TsEvent > 0 && h.TsInit >= h.TsEvent {
		m.eventLatency.Observe(time.Duration(h.TsInit - h.TsEvent))
	}
}

func (m *Metrics) IncRiskReason(reason risk.Reason) {
	if m == nil {
		return
	}
	idx := int(reason)
	if idx >= 0 && idx < len(m.riskReasonCounts) {
		atomic.AddUint64(&m.riskReasonCounts[idx], 1)
	}
}

func (m *Metrics) IncError(class ErrorClass) {
	if m == nil || class >= errorClassCount {
		return
	}
	atomic.AddUint64(&m.errorCounts[class], 1)
}

// IncQueueDrop records a publish rejected by a full queue.
func (m *Metrics) IncQueueDrop() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueDrops, 1)
}

// IncQueueClosed records a publish attempt on a closed queue.
func (m *Metrics) IncQueueClosed() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.queueClosed, 1)
}

// ObserveApply measures how long one event took to process end to end.
func (m *Metrics) ObserveApply(d time.Duration) {
	if m == nil {
		return
	}
	m.applyLatency.Observe(d)
}

func (m *Metrics) ObserveRiskEval(d time.Duration) {
	if m == nil {
		return
	}
	m.riskEvalLatency.Observe(d)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	eventCounts := make(map[event.Kind]uint64)
	for i := range m.eventCounts {
		if v := atomic.LoadUint64(&m.eventCounts[i]); v > 0 {
			eventCounts[event.Kind(i)] = v
		}
	}
	riskCounts := make(map[risk.Reason]uint64)
	for i := range m.riskReasonCounts {
		if v := atomic.LoadUint64(&m.riskReasonCounts[i]); v > 0 {
			riskCounts[risk.Reason(i)] = v
		}
	}
	errorCounts := make(map[ErrorClass]uint64)
	for i := range m.errorCounts {
		if v := atomic.LoadUint64(&m.errorCounts[i]); v > 0 {
			errorCounts[ErrorClass(i)] = v
		}
	}
	return Snapshot{
		EventCounts:      eventCounts,
		RiskReasonCounts: riskCounts,
		ErrorCounts:      errorCounts,
		QueueDrops:       atomic.LoadUint64(&m.queueDrops),
		QueueClosed:      atomic.LoadUint64(&m.queueClosed),
		EventLatency:     m.eventLatency.Snapshot(),
		ApplyLatency:     m.applyLatency.Snapshot(),
		RiskEvalLatency:  m.riskEvalLatency.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		cur := atomic.LoadUint64(&l.min)
		if cur != 0 && nanos >= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, cur, nanos) {
			break
		}
	}

	for {
		cur := atomic.LoadUint64(&l.max)
		if nanos <= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, cur, nanos) {
			break
		}
	}
}

func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&l.min)),
		Max:   time.Duration(atomic.LoadUint64(&l.max)),
		Avg:   time.Duration(sum / count),
	}
}
