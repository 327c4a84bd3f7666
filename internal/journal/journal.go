package journal

import (
	"time"

	"main/internal/event"
)

// FillRecord is one persisted fill.
type FillRecord struct {
	ID         uint `gorm:"primaryKey"`
	Timestamp  time.Time
	Ticker     string `gorm:"index"`
	Action     string
	Quantity   string
	Price      string
	Commission string
	Exchange   string
}

// EquityRecord is one persisted end-of-period portfolio valuation.
type EquityRecord struct {
	ID            uint      `gorm:"primaryKey"`
	Timestamp     time.Time `gorm:"index"`
	Cash          string
	Equity        string
	RealizedPnL   string
	UnrealizedPnL string
}

// Store persists the trade journal of a session. Implementations must be
// safe to call from the single session loop goroutine only.
type Store interface {
	RecordFill(fill event.Fill) error
	RecordEquity(rec EquityRecord) error
	Fills() ([]FillRecord, error)
	EquityCurve() ([]EquityRecord, error)
	Close() error
}

func newFillRecord(fill event.Fill) FillRecord {
	return FillRecord{
		Timestamp:  fill.Time,
		Ticker:     fill.Ticker,
		Action:     fill.Action.String(),
		Quantity:   fill.Quantity.String(),
		Price:      fill.Price.String(),
		Commission: fill.Commission.String(),
		Exchange:   fill.Exchange,
	}
}
