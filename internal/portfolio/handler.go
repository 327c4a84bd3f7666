package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/yanun0323/logs"

	"main/internal/event"
	"main/internal/journal"
	"main/internal/obs"
	"main/internal/risk"
)

var two = decimal.NewFromInt(2)

// Handler coordinates the order/fill leg of the session loop: it forwards
// strategy orders to the queue and applies confirmed fills to the portfolio.
type Handler struct {
	queue     *event.Queue
	portfolio *Portfolio
	risk      *risk.Engine
	journal   journal.Store
	quoter    Quoter
	metrics   *obs.Metrics
}

// HandlerConfig wires a handler. Risk, Journal and Metrics are optional.
type HandlerConfig struct {
	Queue     *event.Queue
	Portfolio *Portfolio
	Risk      *risk.Engine
	Journal   journal.Store
	Quoter    Quoter
	Metrics   *obs.Metrics
}

// NewHandler builds the portfolio-side event handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		queue:     cfg.Queue,
		portfolio: cfg.Portfolio,
		risk:      cfg.Risk,
		journal:   cfg.Journal,
		quoter:    cfg.Quoter,
		metrics:   cfg.Metrics,
	}
}

// Portfolio exposes the managed portfolio.
func (h *Handler) Portfolio() *Portfolio {
	return h.portfolio
}

// OnOrder forwards an order to the execution queue. When a risk engine is
// configured the order passes through it first; denied orders are dropped
// and counted, never failed.
func (h *Handler) OnOrder(order event.Order) {
	if h.risk != nil {
		decision := h.risk.Evaluate(order, h.stateView(order.Ticker))
		if !decision.Allowed() {
			logs.Infof("order denied ticker=%s action=%s qty=%s reason=%s",
				order.Ticker, order.Action, order.Quantity, decision.Reason)
			h.metrics.IncRiskReason(decision.Reason)
			h.metrics.IncDroppedOrder()
			return
		}
	}
	h.queue.Push(order)
}

// OnFill applies a confirmed fill to the portfolio and journals it.
// Journal failures are logged, not propagated: the ledger stays the source
// of truth.
func (h *Handler) OnFill(fill event.Fill) error {
	if err := h.portfolio.TransactPosition(fill.Action, fill.Ticker, fill.Quantity, fill.Price, fill.Commission); err != nil {
		return err
	}
	if h.journal != nil {
		if err := h.journal.RecordFill(fill); err != nil {
			logs.Errorf("journal fill %s: %+v", fill.Ticker, err)
		}
	}
	return nil
}

// UpdatePortfolioValue revalues every open position at current prices.
func (h *Handler) UpdatePortfolioValue() {
	h.portfolio.Update()
}

func (h *Handler) stateView(ticker string) risk.StateView {
	var view risk.StateView
	if pos, ok := h.portfolio.Position(ticker); ok {
		view.Position = pos.Quantity
	}
	if h.quoter != nil {
		if h.quoter.HasBidAsk(ticker) {
			if bid, ask, err := h.quoter.BestBidAsk(ticker); err == nil {
				view.ReferencePrice = bid.Add(ask).Div(two)
			}
		} else if close, err := h.quoter.LastClose(ticker); err == nil {
			view.ReferencePrice = close
		}
	}
	return view
}
