package stats

import (
	"math"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/journal"
	"main/internal/portfolio"
)

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Results summarizes a finished session.
type Results struct {
	Sharpe         float64
	MaxDrawdownPct float64
	FinalEquity    float64
	Curve          []EquityPoint
}

// Sink receives one portfolio valuation per period boundary.
type Sink interface {
	Update(t time.Time)
	Results() Results
}

const annualizationFactor = 252

// Tearsheet samples the portfolio at every period boundary and derives the
// session statistics: annualized Sharpe ratio over per-period returns and
// maximum peak-to-trough drawdown.
type Tearsheet struct {
	portfolio *portfolio.Portfolio
	journal   journal.Store
	curve     []EquityPoint
}

// NewTearsheet builds a tearsheet over a portfolio. The journal is optional
// and receives one equity record per sample.
func NewTearsheet(pf *portfolio.Portfolio, store journal.Store) *Tearsheet {
	return &Tearsheet{portfolio: pf, journal: store}
}

// Update samples the current portfolio valuation.
func (t *Tearsheet) Update(now time.Time) {
	equity, _ := t.portfolio.Equity.Float64()
	t.curve = append(t.curve, EquityPoint{Time: now, Equity: equity})

	if t.journal == nil {
		return
	}
	err := t.journal.RecordEquity(journal.EquityRecord{
		Timestamp:     now,
		Cash:          t.portfolio.Cash.String(),
		Equity:        t.portfolio.Equity.String(),
		RealizedPnL:   t.portfolio.RealizedPnL.String(),
		UnrealizedPnL: t.portfolio.UnrealizedPnL.String(),
	})
	if err != nil {
		logs.Errorf("journal equity at %s: %+v", now, err)
	}
}

// Results computes the session statistics from the sampled curve.
func (t *Tearsheet) Results() Results {
	out := Results{Curve: t.curve}
	if len(t.curve) == 0 {
		return out
	}
	out.FinalEquity = t.curve[len(t.curve)-1].Equity
	out.Sharpe = sharpe(t.curve)
	out.MaxDrawdownPct = maxDrawdown(t.curve)
	return out
}

// sharpe annualizes the mean/stddev ratio of per-period returns. A flat
// curve has zero deviation and scores zero.
func sharpe(curve []EquityPoint) float64 {
	if len(curve) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			return 0
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(annualizationFactor)
}

// maxDrawdown returns the largest percentage fall from a running peak.
func maxDrawdown(curve []EquityPoint) float64 {
	peak := curve[0].Equity
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (peak - p.Equity) / peak * 100
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
