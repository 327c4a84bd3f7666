package feed

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/event"
)

// TickSource synthesizes bid/ask ticks for live/paper sessions. Tickers are
// served round-robin with a fixed spread around a slowly drifting mid price.
// It never exhausts; live sessions stop on their wall-clock deadline.
type TickSource struct {
	*quoteBook
	tickers  []string
	base     decimal.Decimal
	spread   decimal.Decimal
	step     decimal.Decimal
	interval time.Duration
	index    int
	emitted  int64
	now      func() time.Time
}

// TickSourceConfig describes the synthetic feed.
type TickSourceConfig struct {
	Tickers []string
	// BasePrice is the starting mid price for every ticker.
	BasePrice decimal.Decimal
	// Spread is the half-distance between bid and ask.
	Spread decimal.Decimal
	// Step moves the mid price once per full round over the tickers.
	Step decimal.Decimal
	// Interval paces Advance; zero emits as fast as the loop pulls.
	Interval time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// NewTickSource validates the config and builds a synthetic tick feed.
func NewTickSource(cfg TickSourceConfig) (*TickSource, error) {
	if len(cfg.Tickers) == 0 {
		return nil, errors.New("tick source has no tickers")
	}
	if cfg.BasePrice.Sign() <= 0 {
		return nil, errors.New("tick source base price must be > 0")
	}
	spread := cfg.Spread
	if spread.Sign() < 0 {
		spread = decimal.Zero
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TickSource{
		quoteBook: newQuoteBook(),
		tickers:   cfg.Tickers,
		base:      cfg.BasePrice,
		spread:    spread,
		step:      cfg.Step,
		interval:  cfg.Interval,
		now:       now,
	}, nil
}

// Advance emits the next synthetic tick and caches it for price lookups.
func (s *TickSource) Advance() (event.Event, bool) {
	if s.interval > 0 && s.emitted > 0 {
		time.Sleep(s.interval)
	}
	ticker := s.tickers[s.index]
	rounds := s.emitted / int64(len(s.tickers))
	s.index = (s.index + 1) % len(s.tickers)
	s.emitted++

	mid := s.base.Add(s.step.Mul(decimal.NewFromInt(rounds)))
	tick := event.Tick{
		Ticker: ticker,
		Time:   s.now(),
		Bid:    mid.Sub(s.spread),
		Ask:    mid.Add(s.spread),
	}
	s.storeTick(tick)
	return tick, true
}
