package event

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/errors"
)

// ErrInvalidAction rejects order/fill construction with an action other than Buy or Sell.
var ErrInvalidAction = errors.New("invalid order action")

// Type defines the category of an event flowing through the session loop.
type Type uint16

const (
	TypeUnknown Type = iota
	TypeBar
	TypeTick
	TypeOrder
	TypeFill
	TypeEndOfPeriod
)

func (t Type) String() string {
	switch t {
	case TypeBar:
		return "bar"
	case TypeTick:
		return "tick"
	case TypeOrder:
		return "order"
	case TypeFill:
		return "fill"
	case TypeEndOfPeriod:
		return "end_of_period"
	default:
		return "unknown"
	}
}

// Event is the closed set of values dispatched by the session loop.
// Timestamp is the total order key; ties keep queue insertion order.
type Event interface {
	Type() Type
	Timestamp() time.Time
}

// Action is the direction of an order or fill.
type Action uint16

const (
	ActionUnknown Action = iota
	ActionBuy
	ActionSell
)

func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "buy"
	case ActionSell:
		return "sell"
	default:
		return "unknown"
	}
}

func (a Action) valid() bool {
	return a == ActionBuy || a == ActionSell
}

// Bar is an OHLCV snapshot for one period of trading.
type Bar struct {
	Ticker      string
	Time        time.Time
	Period      int64
	PeriodLabel string
	Open        decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Close       decimal.Decimal
	Volume      decimal.Decimal
}

// NewBar builds a bar and resolves the human-readable period label.
func NewBar(ticker string, t time.Time, period int64, open, high, low, close, volume decimal.Decimal) Bar {
	return Bar{
		Ticker:      ticker,
		Time:        t,
		Period:      period,
		PeriodLabel: periodLabel(period),
		Open:        open,
		High:        high,
		Low:         low,
		Close:       close,
		Volume:      volume,
	}
}

func (b Bar) Type() Type           { return TypeBar }
func (b Bar) Timestamp() time.Time { return b.Time }

var periodLabels = map[int64]string{
	1:      "1sec",
	5:      "5sec",
	10:     "10sec",
	15:     "15sec",
	30:     "30sec",
	60:     "1min",
	300:    "5min",
	600:    "10min",
	900:    "15min",
	1800:   "30min",
	3600:   "1hr",
	86400:  "1day",
	604800: "1wk",
}

func periodLabel(seconds int64) string {
	if label, ok := periodLabels[seconds]; ok {
		return label
	}
	return strconv.FormatInt(seconds, 10) + "sec"
}

// Tick is a best bid/ask snapshot.
type Tick struct {
	Ticker string
	Time   time.Time
	Bid    decimal.Decimal
	Ask    decimal.Decimal
}

func (t Tick) Type() Type           { return TypeTick }
func (t Tick) Timestamp() time.Time { return t.Time }

// Order is the intent to transact a quantity of one ticker.
type Order struct {
	Ticker   string
	Time     time.Time
	Action   Action
	Quantity decimal.Decimal
}

// NewOrder validates the action and builds an order.
func NewOrder(ticker string, t time.Time, action Action, quantity decimal.Decimal) (Order, error) {
	if !action.valid() {
		return Order{}, errors.Wrapf(ErrInvalidAction, "order %s", action)
	}
	return Order{Ticker: ticker, Time: t, Action: action, Quantity: quantity}, nil
}

func (o Order) Type() Type           { return TypeOrder }
func (o Order) Timestamp() time.Time { return o.Time }

// Fill is a confirmed execution of an order.
type Fill struct {
	Time       time.Time
	Ticker     string
	Action     Action
	Quantity   decimal.Decimal
	Exchange   string
	Price      decimal.Decimal
	Commission decimal.Decimal
}

// NewFill validates the action and builds a fill.
func NewFill(t time.Time, ticker string, action Action, quantity decimal.Decimal, exchange string, price, commission decimal.Decimal) (Fill, error) {
	if !action.valid() {
		return Fill{}, errors.Wrapf(ErrInvalidAction, "fill %s", action)
	}
	return Fill{
		Time:       t,
		Ticker:     ticker,
		Action:     action,
		Quantity:   quantity,
		Exchange:   exchange,
		Price:      price,
		Commission: commission,
	}, nil
}

func (f Fill) Type() Type           { return TypeFill }
func (f Fill) Timestamp() time.Time { return f.Time }

// EndOfPeriod marks a session/day boundary.
type EndOfPeriod struct {
	Time time.Time
}

func (e EndOfPeriod) Type() Type           { return TypeEndOfPeriod }
func (e EndOfPeriod) Timestamp() time.Time { return e.Time }
