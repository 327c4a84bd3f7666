package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"main/internal/errors"
	"main/internal/event"
	"main/internal/position"
)

var (
	// ErrMissingPosition rejects a modification for a ticker with no active position.
	ErrMissingPosition = errors.New("no active position for ticker")
	// ErrDuplicatePosition rejects opening a ticker that already has an active position.
	ErrDuplicatePosition = errors.New("position already open for ticker")
)

// Quoter is the slice of the price source the portfolio needs to mark
// positions to market.
type Quoter interface {
	HasBidAsk(ticker string) bool
	BestBidAsk(ticker string) (bid, ask decimal.Decimal, err error)
	LastClose(ticker string) (decimal.Decimal, error)
}

// Portfolio owns the cash balance and the active position per ticker.
// Cash is the sole representation of liquidity: buys debit qty*price plus
// commission, sells credit qty*price minus commission.
type Portfolio struct {
	quoter Quoter

	InitialCash   decimal.Decimal
	Cash          decimal.Decimal
	RealizedPnL   decimal.Decimal
	UnrealizedPnL decimal.Decimal
	Equity        decimal.Decimal

	positions map[string]*position.Position
	closed    []*position.Position
}

// New creates a portfolio with the given starting cash and no positions.
func New(quoter Quoter, cash decimal.Decimal) *Portfolio {
	return &Portfolio{
		quoter:      quoter,
		InitialCash: cash,
		Cash:        cash,
		Equity:      cash,
		positions:   make(map[string]*position.Position),
	}
}

// Position returns the active position for a ticker.
func (p *Portfolio) Position(ticker string) (*position.Position, bool) {
	pos, ok := p.positions[ticker]
	return pos, ok
}

// Active returns the open positions sorted by ticker.
func (p *Portfolio) Active() []*position.Position {
	out := make([]*position.Position, 0, len(p.positions))
	for _, pos := range p.positions {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// ClosedPositions returns the archive of fully closed positions.
func (p *Portfolio) ClosedPositions() []*position.Position {
	return p.closed
}

// TransactPosition is the single entry point for fills: it applies the cash
// delta, then opens, modifies or archives the ticker's position, and
// revalues the portfolio.
func (p *Portfolio) TransactPosition(action event.Action, ticker string, quantity, price, commission decimal.Decimal) error {
	if action != event.ActionBuy && action != event.ActionSell {
		return errors.Wrapf(event.ErrInvalidAction, "transact %s %s", action, ticker)
	}
	if quantity.Sign() <= 0 || price.Sign() <= 0 || commission.Sign() < 0 {
		return errors.Wrapf(position.ErrInvalidQuantity, "transact %s qty=%s price=%s", ticker, quantity, price)
	}

	cost := quantity.Mul(price)
	if action == event.ActionBuy {
		p.Cash = p.Cash.Sub(cost).Sub(commission)
	} else {
		p.Cash = p.Cash.Add(cost).Sub(commission)
	}

	if _, ok := p.positions[ticker]; !ok {
		return p.AddPosition(action, ticker, quantity, price, commission)
	}
	return p.ModifyPosition(action, ticker, quantity, price, commission)
}

// AddPosition opens a new position for a ticker. Opening a ticker that is
// already held is rejected without touching any state.
func (p *Portfolio) AddPosition(action event.Action, ticker string, quantity, price, commission decimal.Decimal) error {
	if _, ok := p.positions[ticker]; ok {
		return errors.Wrapf(ErrDuplicatePosition, "add %s", ticker)
	}
	bid, ask, err := p.markPrices(ticker)
	if err != nil {
		return err
	}
	pos, err := position.New(action, ticker, quantity, price, commission, bid, ask)
	if err != nil {
		return err
	}
	p.positions[ticker] = pos
	p.Update()
	return nil
}

// ModifyPosition applies a transaction to an existing position and archives
// it when the quantity returns to zero.
func (p *Portfolio) ModifyPosition(action event.Action, ticker string, quantity, price, commission decimal.Decimal) error {
	pos, ok := p.positions[ticker]
	if !ok {
		return errors.Wrapf(ErrMissingPosition, "modify %s", ticker)
	}
	if err := pos.Transact(action, quantity, price, commission); err != nil {
		return err
	}
	if bid, ask, err := p.markPrices(ticker); err == nil {
		pos.UpdateMarketValue(bid, ask)
	}
	if pos.Closed() {
		delete(p.positions, ticker)
		p.RealizedPnL = p.RealizedPnL.Add(pos.RealizedPnL)
		p.closed = append(p.closed, pos)
	}
	p.Update()
	return nil
}

// Update recomputes equity and unrealized PnL from the live positions:
// equity = initial cash + realized + Σ(market value − cost basis + realized)
// over active positions. It is idempotent and mutates no cash or quantity.
func (p *Portfolio) Update() {
	p.UnrealizedPnL = decimal.Zero
	p.Equity = p.InitialCash.Add(p.RealizedPnL)

	for ticker, pos := range p.positions {
		bid, ask, err := p.markPrices(ticker)
		if err != nil {
			logs.Errorf("revalue %s: %+v", ticker, err)
			continue
		}
		pos.UpdateMarketValue(bid, ask)
		p.UnrealizedPnL = p.UnrealizedPnL.Add(pos.UnrealizedPnL)
		p.Equity = p.Equity.Add(pos.MarketValue).Sub(pos.CostBasis).Add(pos.RealizedPnL)
	}
}

// markPrices resolves the bid/ask pair to mark a ticker with, falling back
// to the last close on both sides for bar-only sources.
func (p *Portfolio) markPrices(ticker string) (decimal.Decimal, decimal.Decimal, error) {
	if p.quoter.HasBidAsk(ticker) {
		return p.quoter.BestBidAsk(ticker)
	}
	close, err := p.quoter.LastClose(ticker)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return close, close, nil
}
