package obs

import (
	"sync/atomic"
	"time"

	"main/internal/event"
	"main/internal/risk"
)

const (
	maxEventType  = int(event.TypeEndOfPeriod)
	maxRiskReason = int(risk.ReasonPositionLimit)
)

// Metrics collects lightweight counters and latency stats for one session.
// All receivers are nil-safe so wiring metrics stays optional.
type Metrics struct {
	eventCounts      [maxEventType + 1]uint64
	riskReasonCounts [maxRiskReason + 1]uint64
	droppedOrders    uint64
	positionSkips    uint64

	dispatchLatency LatencyStats
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
	EventCounts      map[event.Type]uint64
	RiskReasonCounts map[risk.Reason]uint64
	DroppedOrders    uint64
	PositionSkips    uint64
	DispatchLatency  LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// ObserveEvent counts one dispatched event and its handling latency.
func (m *Metrics) ObserveEvent(t event.Type, d time.Duration) {
	if m == nil {
		return
	}
	idx := int(t)
	if idx >= 0 && idx < len(m.eventCounts) {
		atomic.AddUint64(&m.eventCounts[idx], 1)
	}
	m.dispatchLatency.Observe(d)
}

// IncRiskReason counts an order denied by the risk engine.
func (m *Metrics) IncRiskReason(reason risk.Reason) {
	if m == nil {
		return
	}
	idx := int(reason)
	if idx >= 0 && idx < len(m.riskReasonCounts) {
		atomic.AddUint64(&m.riskReasonCounts[idx], 1)
	}
}

// IncDroppedOrder counts an order dropped for missing price data or denial.
func (m *Metrics) IncDroppedOrder() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.droppedOrders, 1)
}

// IncPositionSkip counts a fill skipped by the position ledger.
func (m *Metrics) IncPositionSkip() {
	if m == nil {
		return
	}
	atomic.AddUint64(&m.positionSkips, 1)
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	eventCounts := make(map[event.Type]uint64)
	for i := range m.eventCounts {
		if v := atomic.LoadUint64(&m.eventCounts[i]); v > 0 {
			eventCounts[event.Type(i)] = v
		}
	}
	riskCounts := make(map[risk.Reason]uint64)
	for i := range m.riskReasonCounts {
		if v := atomic.LoadUint64(&m.riskReasonCounts[i]); v > 0 {
			riskCounts[risk.Reason(i)] = v
		}
	}
	return Snapshot{
		EventCounts:      eventCounts,
		RiskReasonCounts: riskCounts,
		DroppedOrders:    atomic.LoadUint64(&m.droppedOrders),
		PositionSkips:    atomic.LoadUint64(&m.positionSkips),
		DispatchLatency:  m.dispatchLatency.Snapshot(),
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
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}
