package session

import (
	"context"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/errors"
	"main/internal/event"
	"main/internal/feed"
	"main/internal/obs"
	"main/internal/portfolio"
	"main/internal/stats"
	"main/internal/strategy"
)

// ErrUnknownEvent aborts the session: an event outside the closed set means
// the loop state can no longer be trusted.
var ErrUnknownEvent = errors.New("unknown event type")

// Mode selects how the session decides it is finished.
type Mode uint8

const (
	// ModeBacktest runs until the price source is exhausted.
	ModeBacktest Mode = iota
	// ModeLive runs until the configured end-of-session deadline.
	ModeLive
)

func (m Mode) String() string {
	switch m {
	case ModeBacktest:
		return "backtest"
	case ModeLive:
		return "live"
	default:
		return "unknown"
	}
}

// Executor turns orders into fills.
type Executor interface {
	Execute(order event.Order) (event.Fill, error)
}

// Config carries the session parameters.
type Config struct {
	Mode Mode
	// EndSessionTime stops a live session. Ignored for backtests.
	EndSessionTime time.Time
	// Now supplies wall-clock time for live deadline checks. Defaults to time.Now.
	Now func() time.Time
}

// Deps wires the session loop. Stats and Metrics are optional.
type Deps struct {
	Queue    *event.Queue
	Source   feed.PriceSource
	Strategy strategy.Strategy
	Executor Executor
	Handler  *portfolio.Handler
	Stats    stats.Sink
	Metrics  *obs.Metrics
}

// Session owns the single-threaded event loop: it drains the queue in
// strict FIFO order, pulls from the price source when the queue is empty,
// and dispatches every event synchronously to completion.
type Session struct {
	cfg     Config
	deps    Deps
	curTime time.Time
}

// New validates the wiring and builds a session.
func New(cfg Config, deps Deps) (*Session, error) {
	if deps.Queue == nil || deps.Source == nil || deps.Strategy == nil ||
		deps.Executor == nil || deps.Handler == nil {
		return nil, errors.New("session requires queue, source, strategy, executor and handler")
	}
	if cfg.Mode == ModeLive && cfg.EndSessionTime.IsZero() {
		return nil, errors.New("live session requires an end-session time")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Session{cfg: cfg, deps: deps}, nil
}

// Run drives the loop until the session ends and returns the accumulated
// statistics. Cancellation via ctx stops the loop cleanly after the event
// in flight.
func (s *Session) Run(ctx context.Context) (stats.Results, error) {
	logs.Infof("session start mode=%s", s.cfg.Mode)

	for s.shouldContinue(ctx) {
		ev, ok := s.deps.Queue.Pop()
		if !ok {
			next, more := s.deps.Source.Advance()
			if !more {
				if s.cfg.Mode == ModeBacktest {
					break
				}
				continue
			}
			s.deps.Queue.Push(next)
			continue
		}

		start := time.Now()
		if err := s.dispatch(ev); err != nil {
			return s.results(), err
		}
		s.deps.Metrics.ObserveEvent(ev.Type(), time.Since(start))
	}

	logs.Infof("session end mode=%s at=%s", s.cfg.Mode, s.curTime)
	return s.results(), nil
}

// CurrentTime is the timestamp of the last market event dispatched.
func (s *Session) CurrentTime() time.Time {
	return s.curTime
}

func (s *Session) shouldContinue(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if s.cfg.Mode == ModeLive {
		return s.cfg.Now().Before(s.cfg.EndSessionTime)
	}
	return true
}

func (s *Session) dispatch(ev event.Event) error {
	switch e := ev.(type) {
	case event.Bar:
		s.curTime = e.Time
		s.deps.Strategy.OnBar(e)

	case event.Tick:
		s.curTime = e.Time
		s.deps.Strategy.OnTick(e)

	case event.Order:
		fill, err := s.deps.Executor.Execute(e)
		if err != nil {
			logs.Errorf("drop order %s %s qty=%s: %+v", e.Action, e.Ticker, e.Quantity, err)
			s.deps.Metrics.IncDroppedOrder()
			return nil
		}
		s.deps.Queue.Push(fill)

	case event.Fill:
		if err := s.deps.Handler.OnFill(e); err != nil {
			logs.Errorf("skip fill %s %s qty=%s: %+v", e.Action, e.Ticker, e.Quantity, err)
			s.deps.Metrics.IncPositionSkip()
		}

	case event.EndOfPeriod:
		s.curTime = e.Time
		s.deps.Strategy.OnEndOfPeriod(e.Time)
		s.deps.Handler.UpdatePortfolioValue()
		if s.deps.Stats != nil {
			s.deps.Stats.Update(e.Time)
		}

	default:
		return errors.Wrapf(ErrUnknownEvent, "dispatch %T", ev)
	}
	return nil
}

func (s *Session) results() stats.Results {
	if s.deps.Stats == nil {
		return stats.Results{}
	}
	return s.deps.Stats.Results()
}
