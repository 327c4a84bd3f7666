package feed

import (
	"sort"
	"time"

	"main/internal/event"
)

// Series is the time-ordered bar history for one ticker.
type Series struct {
	Ticker string
	Bars   []event.Bar
}

// BarSource replays a fixed set of bar series in timestamp order, with one
// EndOfPeriod event per distinct trading day. It is the backtest-mode
// PriceSource.
type BarSource struct {
	*quoteBook
	stream []event.Event
	next   int
}

// NewBarSource merges the given series into a single stable, time-sorted
// event stream. Bars that share a timestamp keep their relative insertion
// order.
func NewBarSource(series ...Series) *BarSource {
	var stream []event.Event
	days := make(map[time.Time]struct{})
	for _, s := range series {
		for _, bar := range s.Bars {
			stream = append(stream, bar)
			day := bar.Time.Truncate(24 * time.Hour)
			days[day] = struct{}{}
		}
	}
	for day := range days {
		eop := event.EndOfPeriod{
			Time: time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location()),
		}
		stream = append(stream, eop)
	}
	sort.SliceStable(stream, func(i, j int) bool {
		return stream[i].Timestamp().Before(stream[j].Timestamp())
	})
	return &BarSource{quoteBook: newQuoteBook(), stream: stream}
}

// Advance emits the next event and caches bar closes for price lookups.
func (s *BarSource) Advance() (event.Event, bool) {
	if s.next >= len(s.stream) {
		return nil, false
	}
	e := s.stream[s.next]
	s.next++
	if bar, ok := e.(event.Bar); ok {
		s.storeBar(bar)
	}
	return e, true
}

// Remaining reports how many events are left in the stream.
func (s *BarSource) Remaining() int {
	return len(s.stream) - s.next
}
