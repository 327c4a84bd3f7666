package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeries(t *testing.T) {
	dir := t.TempDir()
	data := "Date,Open,High,Low,Close,Volume\n" +
		"2024-03-01,100,105,99,104,120000\n" +
		"2024-03-04,104,108,103,107.5,98000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GOOG.csv"), []byte(data), 0o644))

	series, err := LoadSeries(dir, "GOOG")
	require.NoError(t, err)
	require.Len(t, series.Bars, 2)
	assert.Equal(t, "GOOG", series.Ticker)
	assert.Equal(t, "104", series.Bars[0].Close.String())
	assert.Equal(t, "107.5", series.Bars[1].Close.String())
	assert.Equal(t, "1day", series.Bars[0].PeriodLabel)
	assert.Equal(t, 2024, series.Bars[0].Time.Year())
}

func TestLoadSeriesMissingFile(t *testing.T) {
	_, err := LoadSeries(t.TempDir(), "NOPE")
	assert.Error(t, err)
}

func TestLoadSeriesBadRow(t *testing.T) {
	dir := t.TempDir()
	data := "Date,Open,High,Low,Close,Volume\n" +
		"2024-03-01,100,105,99,not-a-price,120000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GOOG.csv"), []byte(data), 0o644))

	_, err := LoadSeries(dir, "GOOG")
	assert.Error(t, err)
}
