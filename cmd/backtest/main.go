package main

import (
	"context"
	"flag"
	"log"
	"strings"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/shopspring/decimal"

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
	dataDir := flag.String("data-dir", "testdata", "Directory with <ticker>.csv bar files")
	tickersArg := flag.String("tickers", "GOOG", "Comma-separated tickers")
	initialCash := flag.String("cash", "100000", "Initial cash")
	quantity := flag.Int64("qty", 100, "Buy-and-hold quantity per ticker")
	profile := flag.Bool("profile", false, "Enable pyroscope profiling")
	flag.Parse()

	if *profile {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "backtest",
			ServerAddress:   "http://localhost:4040",
			Tags: map[string]string{
				"env": "local",
			},
			Logger: emptyLogger{},
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	loaded, err := resolveConfig(*configPath, *dataDir, *tickersArg, *initialCash)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	results, err := run(loaded, decimal.NewFromInt(*quantity))
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	log.Printf("sharpe=%.4f max_drawdown=%.2f%% final_equity=%.2f samples=%d",
		results.Sharpe, results.MaxDrawdownPct, results.FinalEquity, len(results.Curve))
}

func run(loaded ops.Loaded, quantity decimal.Decimal) (stats.Results, error) {
	var series []feed.Series
	for _, ticker := range loaded.Feed.Tickers {
		s, err := feed.LoadSeries(loaded.Feed.DataDir, ticker)
		if err != nil {
			return stats.Results{}, err
		}
		series = append(series, s)
	}
	source := feed.NewBarSource(series...)

	store, err := openJournal(loaded.DatabaseDSN)
	if err != nil {
		return stats.Results{}, err
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

	sess, err := session.New(session.Config{Mode: session.ModeBacktest}, session.Deps{
		Queue:    queue,
		Source:   source,
		Strategy: strategy.NewBuyAndHold(handler, quantity),
		Executor: execution.NewSimulator(source, loaded.Commission),
		Handler:  handler,
		Stats:    stats.NewTearsheet(pf, store),
		Metrics:  metrics,
	})
	if err != nil {
		return stats.Results{}, err
	}

	results, err := sess.Run(context.Background())
	if err != nil {
		return results, err
	}

	snapshot := metrics.Snapshot()
	log.Printf("metrics: events=%v dropped_orders=%d position_skips=%d risk_denials=%v dispatch=%+v",
		snapshot.EventCounts, snapshot.DroppedOrders, snapshot.PositionSkips,
		snapshot.RiskReasonCounts, snapshot.DispatchLatency)
	log.Printf("portfolio: cash=%s equity=%s realized=%s closed_positions=%d",
		pf.Cash, pf.Equity, pf.RealizedPnL, len(pf.ClosedPositions()))
	return results, nil
}

func resolveConfig(path, dataDir, tickersArg, initialCash string) (ops.Loaded, error) {
	if path != "" {
		return ops.Load(path)
	}
	cash, err := decimal.NewFromString(initialCash)
	if err != nil {
		return ops.Loaded{}, err
	}
	return ops.Loaded{
		Mode:        session.ModeBacktest,
		InitialCash: cash,
		Feed: ops.FeedConfig{
			Tickers: splitTickers(tickersArg),
			DataDir: dataDir,
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

type emptyLogger struct{}

func (emptyLogger) Infof(_ string, _ ...interface{})  {}
func (emptyLogger) Debugf(_ string, _ ...interface{}) {}
func (emptyLogger) Errorf(_ string, _ ...interface{}) {}
