package position

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/event"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestOpenLong(t *testing.T) {
	p, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("5"), d("100"), d("101"))
	require.NoError(t, err)

	assert.Equal(t, "10", p.Quantity.String())
	assert.Equal(t, "1000", p.CostBasis.String())
	assert.Equal(t, "5", p.Commission.String())
	assert.True(t, p.RealizedPnL.IsZero())
	assert.Equal(t, "1000", p.MarketValue.String(), "long marks to bid")
	assert.False(t, p.Closed())
}

func TestOpenShort(t *testing.T) {
	p, err := New(event.ActionSell, "GOOG", d("10"), d("100"), d("5"), d("99"), d("100"))
	require.NoError(t, err)

	assert.Equal(t, "-10", p.Quantity.String())
	assert.Equal(t, "-1000", p.CostBasis.String())
	assert.Equal(t, "-1000", p.MarketValue.String(), "short marks to ask")
	assert.True(t, p.UnrealizedPnL.IsZero())
}

func TestTransactValidation(t *testing.T) {
	p, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("0"), d("100"), d("100"))
	require.NoError(t, err)

	assert.True(t, errors.Is(p.Transact(event.ActionBuy, d("0"), d("100"), d("0")), ErrInvalidQuantity))
	assert.True(t, errors.Is(p.Transact(event.ActionBuy, d("-1"), d("100"), d("0")), ErrInvalidQuantity))
	assert.True(t, errors.Is(p.Transact(event.ActionBuy, d("1"), d("0"), d("0")), ErrInvalidQuantity))
	assert.True(t, errors.Is(p.Transact(event.ActionBuy, d("1"), d("100"), d("-1")), ErrInvalidQuantity))
	assert.True(t, errors.Is(p.Transact(event.ActionUnknown, d("1"), d("100"), d("0")), event.ErrInvalidAction))

	// rejected calls leave the ledger untouched
	assert.Equal(t, "10", p.Quantity.String())
	assert.Equal(t, "1000", p.CostBasis.String())
}

func TestIncreaseExtendsCostBasis(t *testing.T) {
	p, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("1"), d("100"), d("100"))
	require.NoError(t, err)
	require.NoError(t, p.Transact(event.ActionBuy, d("10"), d("110"), d("1")))

	assert.Equal(t, "20", p.Quantity.String())
	assert.Equal(t, "2100", p.CostBasis.String())
	assert.Equal(t, "105", p.AvgPrice().String())
	assert.Equal(t, "2", p.Commission.String())
	assert.True(t, p.RealizedPnL.IsZero(), "increasing trades never realize PnL")
}

func TestPartialCloseRealizesAtAverageCost(t *testing.T) {
	p, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("0"), d("100"), d("100"))
	require.NoError(t, err)
	require.NoError(t, p.Transact(event.ActionSell, d("4"), d("110"), d("0")))

	assert.Equal(t, "6", p.Quantity.String())
	assert.Equal(t, "40", p.RealizedPnL.String())
	assert.Equal(t, "600", p.CostBasis.String())
	assert.Equal(t, "100", p.AvgPrice().String())
}

func TestFullCloseEndToEnd(t *testing.T) {
	p, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("5"), d("100"), d("100"))
	require.NoError(t, err)
	require.NoError(t, p.Transact(event.ActionSell, d("10"), d("110"), d("5")))

	assert.True(t, p.Closed())
	assert.Equal(t, "100", p.RealizedPnL.String(), "realized PnL excludes commission")
	assert.Equal(t, "10", p.Commission.String())
	assert.True(t, p.CostBasis.IsZero())
}

func TestFlipReopensResidualAtTradePrice(t *testing.T) {
	p, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("0"), d("100"), d("100"))
	require.NoError(t, err)
	// sell 15 at 110: closes 10 (+100), opens short 5 at 110
	require.NoError(t, p.Transact(event.ActionSell, d("15"), d("110"), d("0")))

	assert.Equal(t, "-5", p.Quantity.String())
	assert.Equal(t, "100", p.RealizedPnL.String())
	assert.Equal(t, "-550", p.CostBasis.String())
	assert.Equal(t, "110", p.AvgPrice().String())
}

func TestShortCloseRealizesInverse(t *testing.T) {
	p, err := New(event.ActionSell, "GOOG", d("10"), d("100"), d("0"), d("100"), d("100"))
	require.NoError(t, err)
	require.NoError(t, p.Transact(event.ActionBuy, d("10"), d("90"), d("0")))

	assert.True(t, p.Closed())
	assert.Equal(t, "100", p.RealizedPnL.String())
}

// Any sequence of trades netting to zero realizes the same total PnL as
// closing in one shot, regardless of how the closes are split up.
func TestRealizedPnLIndependentOfCloseSplits(t *testing.T) {
	oneShot, err := New(event.ActionBuy, "GOOG", d("12"), d("100"), d("0"), d("100"), d("100"))
	require.NoError(t, err)
	require.NoError(t, oneShot.Transact(event.ActionSell, d("12"), d("108"), d("0")))

	split, err := New(event.ActionBuy, "GOOG", d("12"), d("100"), d("0"), d("100"), d("100"))
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		require.NoError(t, split.Transact(event.ActionSell, d("3"), d("108"), d("0")))
	}

	require.True(t, oneShot.Closed())
	require.True(t, split.Closed())
	assert.True(t, oneShot.RealizedPnL.Equal(split.RealizedPnL),
		"one-shot %s vs split %s", oneShot.RealizedPnL, split.RealizedPnL)
	assert.Equal(t, "96", split.RealizedPnL.String())
}

func TestUpdateMarketValue(t *testing.T) {
	long, err := New(event.ActionBuy, "GOOG", d("10"), d("100"), d("0"), d("100"), d("101"))
	require.NoError(t, err)
	long.UpdateMarketValue(d("104"), d("105"))
	assert.Equal(t, "1040", long.MarketValue.String())
	assert.Equal(t, "40", long.UnrealizedPnL.String())

	short, err := New(event.ActionSell, "GOOG", d("10"), d("100"), d("0"), d("99"), d("100"))
	require.NoError(t, err)
	short.UpdateMarketValue(d("94"), d("95"))
	assert.Equal(t, "-950", short.MarketValue.String())
	assert.Equal(t, "50", short.UnrealizedPnL.String())
}
