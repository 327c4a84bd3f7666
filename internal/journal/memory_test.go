package journal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/event"
)

func TestMemoryJournal(t *testing.T) {
	store := NewMemory()
	now := time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)

	fill, err := event.NewFill(now, "GOOG", event.ActionBuy, decimal.NewFromInt(10), "SIM",
		decimal.NewFromInt(100), decimal.NewFromInt(5))
	require.NoError(t, err)
	require.NoError(t, store.RecordFill(fill))

	require.NoError(t, store.RecordEquity(EquityRecord{
		Timestamp: now,
		Cash:      "98995",
		Equity:    "99995",
	}))

	fills, err := store.Fills()
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "GOOG", fills[0].Ticker)
	assert.Equal(t, "buy", fills[0].Action)
	assert.Equal(t, "10", fills[0].Quantity)
	assert.Equal(t, "100", fills[0].Price)
	assert.Equal(t, uint(1), fills[0].ID)

	curve, err := store.EquityCurve()
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.Equal(t, "98995", curve[0].Cash)

	require.NoError(t, store.Close())
}
