package feed

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/event"
)

// ErrMissingPriceData reports that no usable price is cached for a ticker.
var ErrMissingPriceData = errors.New("no price data for ticker")

// PriceSource streams market events into the session loop and answers
// price lookups against the latest data it has emitted.
type PriceSource interface {
	// HasBidAsk reports whether the ticker currently has a bid/ask quote.
	HasBidAsk(ticker string) bool
	// BestBidAsk returns the most recent bid/ask quote for the ticker.
	BestBidAsk(ticker string) (bid, ask decimal.Decimal, err error)
	// LastClose returns the most recent close price for the ticker.
	LastClose(ticker string) (decimal.Decimal, error)
	// LastTimestamp returns the time of the last event seen for the ticker.
	LastTimestamp(ticker string) (time.Time, error)
	// Advance emits the next event, or false when the source is exhausted.
	Advance() (event.Event, bool)
}

// quoteBook caches the latest close/bid/ask per ticker as events stream
// through a source. Sources embed it to answer the lookup side of
// PriceSource.
type quoteBook struct {
	quotes map[string]*quote
}

type quote struct {
	ts       time.Time
	close    decimal.Decimal
	bid      decimal.Decimal
	ask      decimal.Decimal
	hasClose bool
	hasQuote bool
}

func newQuoteBook() *quoteBook {
	return &quoteBook{quotes: make(map[string]*quote)}
}

func (b *quoteBook) storeBar(bar event.Bar) {
	q := b.quote(bar.Ticker)
	q.close = bar.Close
	q.hasClose = true
	q.ts = bar.Time
}

func (b *quoteBook) storeTick(tick event.Tick) {
	q := b.quote(tick.Ticker)
	q.bid = tick.Bid
	q.ask = tick.Ask
	q.hasQuote = true
	q.ts = tick.Time
}

func (b *quoteBook) quote(ticker string) *quote {
	q, ok := b.quotes[ticker]
	if !ok {
		q = &quote{}
		b.quotes[ticker] = q
	}
	return q
}

// HasBidAsk reports whether both a bid and an ask have been seen for the ticker.
func (b *quoteBook) HasBidAsk(ticker string) bool {
	q, ok := b.quotes[ticker]
	return ok && q.hasQuote
}

// BestBidAsk returns the latest cached bid/ask quote.
func (b *quoteBook) BestBidAsk(ticker string) (decimal.Decimal, decimal.Decimal, error) {
	q, ok := b.quotes[ticker]
	if !ok || !q.hasQuote {
		return decimal.Zero, decimal.Zero, errors.Wrapf(ErrMissingPriceData, "bid/ask for %s", ticker)
	}
	return q.bid, q.ask, nil
}

// LastClose returns the latest cached close price.
func (b *quoteBook) LastClose(ticker string) (decimal.Decimal, error) {
	q, ok := b.quotes[ticker]
	if !ok || !q.hasClose {
		return decimal.Zero, errors.Wrapf(ErrMissingPriceData, "close for %s", ticker)
	}
	return q.close, nil
}

// LastTimestamp returns the time of the latest cached event for the ticker.
func (b *quoteBook) LastTimestamp(ticker string) (time.Time, error) {
	q, ok := b.quotes[ticker]
	if !ok || q.ts.IsZero() {
		return time.Time{}, errors.Wrapf(ErrMissingPriceData, "timestamp for %s", ticker)
	}
	return q.ts, nil
}
