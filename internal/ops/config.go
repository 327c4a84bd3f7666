package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/execution"
	"main/internal/risk"
	"main/internal/session"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Session    SessionConfig  `json:"session"`
	Feed       FeedConfig     `json:"feed"`
	Commission string         `json:"commission"`
	Risk       risk.Config    `json:"risk"`
	Database   DatabaseConfig `json:"database"`
}

// SessionConfig describes the session loop parameters.
type SessionConfig struct {
	Mode           string          `json:"mode"`
	InitialCash    decimal.Decimal `json:"initialCash"`
	EndSessionTime string          `json:"endSessionTime"`
}

// FeedConfig describes the market data source.
type FeedConfig struct {
	Tickers []string `json:"tickers"`
	// DataDir holds one <ticker>.csv bar file per ticker, backtest mode only.
	DataDir string `json:"dataDir"`
	// Synthetic tick feed parameters, live mode only.
	BasePrice  decimal.Decimal `json:"basePrice"`
	Spread     decimal.Decimal `json:"spread"`
	Step       decimal.Decimal `json:"step"`
	IntervalMs int             `json:"intervalMs"`
}

// DatabaseConfig points the journal at postgres. An empty DSN keeps the
// journal in memory.
type DatabaseConfig struct {
	DSN string `json:"dsn"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Mode           session.Mode
	InitialCash    decimal.Decimal
	EndSessionTime time.Time
	Feed           FeedConfig
	Commission     execution.CommissionModel
	Risk           risk.Config
	DatabaseDSN    string
}

// Load reads a JSON config file and resolves it.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	out := Loaded{
		Feed:        cfg.Feed,
		Risk:        cfg.Risk,
		DatabaseDSN: cfg.Database.DSN,
	}

	switch cfg.Session.Mode {
	case "", "backtest":
		out.Mode = session.ModeBacktest
	case "live":
		out.Mode = session.ModeLive
	default:
		return Loaded{}, fmt.Errorf("unknown session mode: %s", cfg.Session.Mode)
	}

	out.InitialCash = cfg.Session.InitialCash
	if out.InitialCash.Sign() <= 0 {
		return Loaded{}, fmt.Errorf("initial cash must be > 0")
	}

	if len(cfg.Feed.Tickers) == 0 {
		return Loaded{}, fmt.Errorf("feed has no tickers")
	}

	if cfg.Session.EndSessionTime != "" {
		end, err := time.Parse(time.RFC3339, cfg.Session.EndSessionTime)
		if err != nil {
			return Loaded{}, fmt.Errorf("invalid endSessionTime: %w", err)
		}
		out.EndSessionTime = end
	}
	if out.Mode == session.ModeLive && out.EndSessionTime.IsZero() {
		return Loaded{}, fmt.Errorf("live mode requires endSessionTime")
	}

	switch cfg.Commission {
	case "", "standard":
		out.Commission = execution.StandardCommission{}
	case "zero":
		out.Commission = execution.ZeroCommission{}
	default:
		return Loaded{}, fmt.Errorf("unknown commission model: %s", cfg.Commission)
	}

	return out, nil
}
