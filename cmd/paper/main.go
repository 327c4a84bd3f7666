package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/pkg/sys"

	"main/internal/event"
	"main/internal/execution"
	"main/internal/feed"
	"main/internal/journal"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/portfolio"
	"main/internal/risk"
	"main/internal/session"
	"main/internal/stats"
	"main/internal/strategy"
	"main/pkg/conn"
)

func main() {
	configPath := flag.String("config", "", "Path to JSON config")
	tickersArg := flag.String("tickers", "TSLA", "Comma-separated tickers")
	initialCash := flag.String("cash", "100000", "Initial cash")
	basePrice := flag.String("base-price", "200", "Synthetic feed base price")
	spread := flag.String("spread", "0.5", "Synthetic feed half-spread")
	duration := flag.Duration("duration", time.Minute, "Session length")
	interval := flag.Duration("interval", 100*time.Millisecond, "Tick interval")
	quantity := flag.Int64("qty", 10, "Buy-and-hold quantity per ticker")
	flag.Parse()

	loaded, err := resolveConfig(*configPath, *tickersArg, *initialCash, *basePrice, *spread, *duration, *interval)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := run(loaded, decimal.NewFromInt(*quantity)); err != nil {
		log.Fatalf("paper session failed: %v", err)
	}
}

func run(loaded ops.Loaded, quantity decimal.Decimal) error {
	source, err := feed.NewTickSource(feed.TickSourceConfig{
		Tickers:   loaded.Feed.Tickers,
		BasePrice: loaded.Feed.BasePrice,
		Spread:    loaded.Feed.Spread,
		Step:      loaded.Feed.Step,
		Interval:  time.Duration(loaded.Feed.IntervalMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	store, err := openJournal(loaded.DatabaseDSN)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	queue := event.NewQueue(1024)
	pf := portfolio.New(source, loaded.InitialCash)
	metrics := obs.NewMetrics()
	handler := portfolio.NewHandler(portfolio.HandlerConfig{
		Queue:     queue,
		Portfolio: pf,
		Risk:      risk.NewEngine(loaded.Risk),
		Journal:   store,
		Quoter:    source,
		Metrics:   metrics,
	})

	executor := execution.NewSimulator(source, loaded.Commission)
	sess, err := session.New(session.Config{
		Mode:           session.ModeLive,
		EndSessionTime: loaded.EndSessionTime,
	}, session.Deps{
		Queue:    queue,
		Source:   source,
		Strategy: strategy.NewBuyAndHold(handler, quantity),
		Executor: executor,
		Handler:  handler,
		Stats:    stats.NewTearsheet(pf, store),
		Metrics:  metrics,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sys.Shutdown()
		log.Print("shutdown signal received")
		cancel()
	}()

	results, err := sess.Run(ctx)
	if err != nil {
		return err
	}

	strategy.Liquidate(pf, handler, time.Now())
	drain(queue, executor, handler, metrics)
	pf.Update()

	snapshot := metrics.Snapshot()
	log.Printf("metrics: events=%v dropped_orders=%d position_skips=%d risk_denials=%v dispatch=%+v",
		snapshot.EventCounts, snapshot.DroppedOrders, snapshot.PositionSkips,
		snapshot.RiskReasonCounts, snapshot.DispatchLatency)
	log.Printf("portfolio: cash=%s equity=%s realized=%s closed_positions=%d",
		pf.Cash, pf.Equity, pf.RealizedPnL, len(pf.ClosedPositions()))
	log.Printf("sharpe=%.4f max_drawdown=%.2f%% samples=%d",
		results.Sharpe, results.MaxDrawdownPct, len(results.Curve))
	return nil
}

// drain flushes the liquidation orders and their fills after the live
// session deadline has passed.
func drain(queue *event.Queue, executor session.Executor, handler *portfolio.Handler, metrics *obs.Metrics) {
	for {
		ev, ok := queue.Pop()
		if !ok {
			return
		}
		switch e := ev.(type) {
		case event.Order:
			fill, err := executor.Execute(e)
			if err != nil {
				log.Printf("drop order %s %s: %v", e.Action, e.Ticker, err)
				metrics.IncDroppedOrder()
				continue
			}
			queue.Push(fill)
		case event.Fill:
			if err := handler.OnFill(e); err != nil {
				log.Printf("skip fill %s %s: %v", e.Action, e.Ticker, err)
				metrics.IncPositionSkip()
			}
		}
	}
}

func resolveConfig(path, tickersArg, initialCash, basePrice, spread string, duration, interval time.Duration) (ops.Loaded, error) {
	if path != "" {
		return ops.Load(path)
	}
	cash, err := decimal.NewFromString(initialCash)
	if err != nil {
		return ops.Loaded{}, err
	}
	base, err := decimal.NewFromString(basePrice)
	if err != nil {
		return ops.Loaded{}, err
	}
	half, err := decimal.NewFromString(spread)
	if err != nil {
		return ops.Loaded{}, err
	}
	return ops.Loaded{
		Mode:           session.ModeLive,
		InitialCash:    cash,
		EndSessionTime: time.Now().Add(duration),
		Feed: ops.FeedConfig{
			Tickers:    splitTickers(tickersArg),
			BasePrice:  base,
			Spread:     half,
			IntervalMs: int(interval / time.Millisecond),
		},
		Commission: execution.StandardCommission{},
	}, nil
}

func openJournal(dsn string) (journal.Store, error) {
	if dsn == "" {
		return journal.NewMemory(), nil
	}
	return journal.NewPostgres(conn.Option{ConnString: dsn})
}

func splitTickers(arg string) []string {
	var out []string
	for _, t := range strings.Split(arg, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
