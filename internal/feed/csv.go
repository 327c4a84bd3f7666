package feed

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/event"
)

const dailyBarPeriod = 86400

// LoadSeries reads one ticker's daily OHLCV history from <dir>/<ticker>.csv.
// Expected header: Date,Open,High,Low,Close,Volume with dates as 2006-01-02.
func LoadSeries(dir, ticker string) (Series, error) {
	path := filepath.Join(dir, ticker+".csv")
	file, err := os.Open(path)
	if err != nil {
		return Series{}, errors.Wrapf(err, "open bar data for %s", ticker)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 6

	// header row
	if _, err := reader.Read(); err != nil {
		return Series{}, errors.Wrapf(err, "read bar data header for %s", ticker)
	}

	series := Series{Ticker: ticker}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Series{}, errors.Wrapf(err, "read bar data row for %s", ticker)
		}
		bar, err := parseBarRow(ticker, row)
		if err != nil {
			return Series{}, err
		}
		series.Bars = append(series.Bars, bar)
	}
	return series, nil
}

func parseBarRow(ticker string, row []string) (event.Bar, error) {
	ts, err := time.Parse("2006-01-02", row[0])
	if err != nil {
		return event.Bar{}, errors.Wrapf(err, "parse bar date %q for %s", row[0], ticker)
	}
	fields := make([]decimal.Decimal, 5)
	for i, raw := range row[1:] {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return event.Bar{}, errors.Wrapf(err, "parse bar field %q for %s", raw, ticker)
		}
		fields[i] = value
	}
	return event.NewBar(ticker, ts.UTC(), dailyBarPeriod, fields[0], fields[1], fields[2], fields[3], fields[4]), nil
}
