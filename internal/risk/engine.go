package risk

import (
	"github.com/shopspring/decimal"

	"main/internal/event"
)

// Reason explains why an order was denied.
type Reason uint16

const (
	ReasonNone Reason = iota
	ReasonKillSwitch
	ReasonMaxQty
	ReasonMaxNotional
	ReasonPositionLimit
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonKillSwitch:
		return "kill_switch"
	case ReasonMaxQty:
		return "max_qty"
	case ReasonMaxNotional:
		return "max_notional"
	case ReasonPositionLimit:
		return "position_limit"
	default:
		return "unknown"
	}
}

// Config defines simple per-order risk limits. Zero values disable a check,
// so the zero Config allows everything.
type Config struct {
	KillSwitch       bool            `json:"killSwitch"`
	MaxOrderQty      decimal.Decimal `json:"maxOrderQty"`
	MaxOrderNotional decimal.Decimal `json:"maxOrderNotional"`
	MaxPosition      decimal.Decimal `json:"maxPosition"`
}

// StateView is the position snapshot an evaluation runs against.
type StateView struct {
	// Position is the current signed quantity for the order's ticker.
	Position decimal.Decimal
	// ReferencePrice prices the notional check; zero skips it.
	ReferencePrice decimal.Decimal
}

// Decision is the outcome of evaluating one order.
type Decision struct {
	Reason Reason
}

// Allowed reports whether the order may proceed.
func (d Decision) Allowed() bool {
	return d.Reason == ReasonNone
}

// Engine evaluates orders against static limits.
type Engine struct {
	cfg Config
}

// NewEngine creates a risk engine with static limits.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate applies the configured checks to an order.
func (e *Engine) Evaluate(order event.Order, state StateView) Decision {
	if e.cfg.KillSwitch {
		return Decision{Reason: ReasonKillSwitch}
	}

	if e.cfg.MaxOrderQty.Sign() > 0 && order.Quantity.GreaterThan(e.cfg.MaxOrderQty) {
		return Decision{Reason: ReasonMaxQty}
	}

	if e.cfg.MaxOrderNotional.Sign() > 0 && state.ReferencePrice.Sign() > 0 {
		notional := order.Quantity.Mul(state.ReferencePrice)
		if notional.GreaterThan(e.cfg.MaxOrderNotional) {
			return Decision{Reason: ReasonMaxNotional}
		}
	}

	if e.cfg.MaxPosition.Sign() > 0 {
		next := applyAction(state.Position, order.Action, order.Quantity)
		if next.Abs().GreaterThan(e.cfg.MaxPosition) {
			return Decision{Reason: ReasonPositionLimit}
		}
	}

	return Decision{Reason: ReasonNone}
}

func applyAction(pos decimal.Decimal, action event.Action, qty decimal.Decimal) decimal.Decimal {
	switch action {
	case event.ActionBuy:
		return pos.Add(qty)
	case event.ActionSell:
		return pos.Sub(qty)
	default:
		return pos
	}
}
