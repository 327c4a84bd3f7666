package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/event"
	"main/internal/feed"
	"main/internal/portfolio"
)

type captureSink struct {
	orders []event.Order
}

func (s *captureSink) OnOrder(order event.Order) {
	s.orders = append(s.orders, order)
}

func TestBuyAndHoldBuysOncePerTicker(t *testing.T) {
	sink := &captureSink{}
	strat := NewBuyAndHold(sink, decimal.NewFromInt(10))

	now := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	bar := event.NewBar("GOOG", now, 86400,
		decimal.NewFromInt(99), decimal.NewFromInt(101),
		decimal.NewFromInt(98), decimal.NewFromInt(100), decimal.NewFromInt(1000))

	strat.OnBar(bar)
	strat.OnBar(bar)
	strat.OnTick(event.Tick{Ticker: "TSLA", Time: now,
		Bid: decimal.NewFromInt(199), Ask: decimal.NewFromInt(201)})

	require.Len(t, sink.orders, 2)
	assert.Equal(t, "GOOG", sink.orders[0].Ticker)
	assert.Equal(t, event.ActionBuy, sink.orders[0].Action)
	assert.True(t, sink.orders[0].Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "TSLA", sink.orders[1].Ticker)
}

func TestLiquidateClosesBothDirections(t *testing.T) {
	quoter := &staticQuoter{close: decimal.NewFromInt(100)}
	pf := portfolio.New(quoter, decimal.NewFromInt(100000))
	require.NoError(t, pf.TransactPosition(event.ActionBuy, "GOOG", decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.Zero))
	require.NoError(t, pf.TransactPosition(event.ActionSell, "AAPL", decimal.NewFromInt(5), decimal.NewFromInt(100), decimal.Zero))

	sink := &captureSink{}
	Liquidate(pf, sink, time.Now())

	require.Len(t, sink.orders, 2)
	aapl := sink.orders[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, event.ActionBuy, aapl.Action, "short positions are bought back")
	assert.True(t, aapl.Quantity.Equal(decimal.NewFromInt(5)))

	goog := sink.orders[1]
	assert.Equal(t, "GOOG", goog.Ticker)
	assert.Equal(t, event.ActionSell, goog.Action)
}

type staticQuoter struct {
	close decimal.Decimal
}

func (q *staticQuoter) HasBidAsk(string) bool { return false }

func (q *staticQuoter) BestBidAsk(string) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.Zero, decimal.Zero, feed.ErrMissingPriceData
}

func (q *staticQuoter) LastClose(string) (decimal.Decimal, error) {
	return q.close, nil
}
