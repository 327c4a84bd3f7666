package strategy

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"main/internal/event"
	"main/internal/portfolio"
)

// Strategy turns market events into orders. Implementations emit orders
// through their OrderSink from inside the event callbacks.
type Strategy interface {
	OnBar(bar event.Bar)
	OnTick(tick event.Tick)
	OnEndOfPeriod(t time.Time)
}

// OrderSink accepts orders emitted by a strategy.
type OrderSink interface {
	OnOrder(order event.Order)
}

// BuyAndHold buys a fixed quantity of each ticker on its first price event
// and then holds.
type BuyAndHold struct {
	sink     OrderSink
	quantity decimal.Decimal
	bought   map[string]bool
}

// NewBuyAndHold builds the benchmark strategy.
func NewBuyAndHold(sink OrderSink, quantity decimal.Decimal) *BuyAndHold {
	return &BuyAndHold{
		sink:     sink,
		quantity: quantity,
		bought:   make(map[string]bool),
	}
}

func (s *BuyAndHold) OnBar(bar event.Bar) {
	s.buyOnce(bar.Ticker, bar.Time)
}

func (s *BuyAndHold) OnTick(tick event.Tick) {
	s.buyOnce(tick.Ticker, tick.Time)
}

func (s *BuyAndHold) OnEndOfPeriod(time.Time) {}

func (s *BuyAndHold) buyOnce(ticker string, t time.Time) {
	if s.bought[ticker] {
		return
	}
	order, err := event.NewOrder(ticker, t, event.ActionBuy, s.quantity)
	if err != nil {
		logs.Errorf("buy-and-hold order %s: %+v", ticker, err)
		return
	}
	s.bought[ticker] = true
	s.sink.OnOrder(order)
}

// Liquidate emits one closing order per active position: sells longs, buys
// back shorts.
func Liquidate(pf *portfolio.Portfolio, sink OrderSink, t time.Time) {
	for _, pos := range pf.Active() {
		action := event.ActionSell
		if pos.Quantity.Sign() < 0 {
			action = event.ActionBuy
		}
		order, err := event.NewOrder(pos.Ticker, t, action, pos.Quantity.Abs())
		if err != nil {
			logs.Errorf("liquidate %s: %+v", pos.Ticker, err)
			continue
		}
		sink.OnOrder(order)
	}
}
