package position

import (
	"github.com/shopspring/decimal"

	"main/internal/errors"
	"main/internal/event"
)

// ErrInvalidQuantity rejects transactions with a non-positive quantity or
// price, or a negative commission.
var ErrInvalidQuantity = errors.New("quantity and price must be positive, commission non-negative")

// Position tracks the open exposure for a single ticker: signed quantity
// (positive long, negative short), average-cost basis, cumulative commission
// and realized/unrealized PnL. Realized PnL excludes commission, which is
// accumulated separately.
type Position struct {
	Ticker        string
	Quantity      decimal.Decimal
	CostBasis     decimal.Decimal
	Commission    decimal.Decimal
	RealizedPnL   decimal.Decimal
	UnrealizedPnL decimal.Decimal
	MarketValue   decimal.Decimal
}

// New opens a position from its first transaction and marks it against the
// given bid/ask.
func New(action event.Action, ticker string, quantity, price, commission, bid, ask decimal.Decimal) (*Position, error) {
	signed, err := signedQuantity(action, quantity)
	if err != nil {
		return nil, err
	}
	if err := validate(quantity, price, commission); err != nil {
		return nil, err
	}
	p := &Position{
		Ticker:     ticker,
		Quantity:   signed,
		CostBasis:  signed.Mul(price),
		Commission: commission,
	}
	p.UpdateMarketValue(bid, ask)
	return p, nil
}

// Transact applies a buy or sell to the position. Trades in the direction of
// the current exposure extend the cost basis; trades against it realize PnL
// for the closed portion at average cost, and a sign flip re-opens the
// residual quantity at the trade price.
func (p *Position) Transact(action event.Action, quantity, price, commission decimal.Decimal) error {
	delta, err := signedQuantity(action, quantity)
	if err != nil {
		return err
	}
	if err := validate(quantity, price, commission); err != nil {
		return err
	}
	p.Commission = p.Commission.Add(commission)

	if p.Quantity.IsZero() || p.Quantity.Sign() == delta.Sign() {
		p.Quantity = p.Quantity.Add(delta)
		p.CostBasis = p.CostBasis.Add(delta.Mul(price))
		return nil
	}

	closed := decimal.Min(quantity, p.Quantity.Abs())
	avg := p.CostBasis.Div(p.Quantity)
	if p.Quantity.Sign() > 0 {
		p.RealizedPnL = p.RealizedPnL.Add(price.Sub(avg).Mul(closed))
	} else {
		p.RealizedPnL = p.RealizedPnL.Add(avg.Sub(price).Mul(closed))
	}

	residual := p.Quantity.Add(delta)
	if residual.IsZero() || residual.Sign() == p.Quantity.Sign() {
		// partial or full close keeps the average cost on what remains
		p.CostBasis = avg.Mul(residual)
	} else {
		// flipped through zero: fresh basis at the trade price
		p.CostBasis = residual.Mul(price)
	}
	p.Quantity = residual
	return nil
}

// UpdateMarketValue marks the position to market: longs to bid, shorts to
// ask (conservative marking), and recomputes unrealized PnL.
func (p *Position) UpdateMarketValue(bid, ask decimal.Decimal) {
	switch p.Quantity.Sign() {
	case 1:
		p.MarketValue = p.Quantity.Mul(bid)
	case -1:
		p.MarketValue = p.Quantity.Mul(ask)
	default:
		p.MarketValue = decimal.Zero
	}
	p.UnrealizedPnL = p.MarketValue.Sub(p.CostBasis)
}

// AvgPrice returns the per-unit average cost of the open quantity.
func (p *Position) AvgPrice() decimal.Decimal {
	if p.Quantity.IsZero() {
		return decimal.Zero
	}
	return p.CostBasis.Div(p.Quantity)
}

// Closed reports whether the quantity has returned to exactly zero.
func (p *Position) Closed() bool {
	return p.Quantity.IsZero()
}

func signedQuantity(action event.Action, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch action {
	case event.ActionBuy:
		return quantity, nil
	case event.ActionSell:
		return quantity.Neg(), nil
	default:
		return decimal.Zero, errors.Wrapf(event.ErrInvalidAction, "transact %s", action)
	}
}

func validate(quantity, price, commission decimal.Decimal) error {
	if quantity.Sign() <= 0 || price.Sign() <= 0 || commission.Sign() < 0 {
		return errors.Wrapf(ErrInvalidQuantity, "qty=%s price=%s commission=%s", quantity, price, commission)
	}
	return nil
}
