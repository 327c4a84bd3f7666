package execution

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/event"
)

// Exchange tags fills produced by the simulator.
const Exchange = "SIM"

// PriceView is the read side of the market data source the simulator
// prices fills against.
type PriceView interface {
	HasBidAsk(ticker string) bool
	BestBidAsk(ticker string) (bid, ask decimal.Decimal, err error)
	LastClose(ticker string) (decimal.Decimal, error)
	LastTimestamp(ticker string) (time.Time, error)
}

// Simulator converts orders into fills against the current price snapshot.
// Every order yields exactly one fill: no partials, no latency. Buys cross
// the spread at the ask, sells at the bid; bar-only tickers fill at the
// last close on both sides.
type Simulator struct {
	source     PriceView
	commission CommissionModel
}

// NewSimulator builds a simulated execution venue. A nil commission model
// defaults to StandardCommission.
func NewSimulator(source PriceView, commission CommissionModel) *Simulator {
	if commission == nil {
		commission = StandardCommission{}
	}
	return &Simulator{source: source, commission: commission}
}

// Execute prices and fills one order. An order whose ticker has no cached
// price fails and must be dropped by the caller.
func (s *Simulator) Execute(order event.Order) (event.Fill, error) {
	ts, err := s.source.LastTimestamp(order.Ticker)
	if err != nil {
		return event.Fill{}, errors.Wrapf(err, "execute %s %s", order.Action, order.Ticker)
	}

	price, err := s.fillPrice(order)
	if err != nil {
		return event.Fill{}, errors.Wrapf(err, "execute %s %s", order.Action, order.Ticker)
	}

	commission := s.commission.Calculate(order.Quantity, price)
	return event.NewFill(ts, order.Ticker, order.Action, order.Quantity, Exchange, price, commission)
}

func (s *Simulator) fillPrice(order event.Order) (decimal.Decimal, error) {
	if s.source.HasBidAsk(order.Ticker) {
		bid, ask, err := s.source.BestBidAsk(order.Ticker)
		if err != nil {
			return decimal.Zero, err
		}
		if order.Action == event.ActionBuy {
			return ask, nil
		}
		return bid, nil
	}
	return s.source.LastClose(order.Ticker)
}
