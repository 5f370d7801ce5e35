// Package backtest drives strategies over historical bar data: it owns the
// portfolio trade rules and the engine that produces backtest results.
package backtest

import (
	"log/slog"

	"smart100/internal/domain"
)

// Simulator applies trade rules to a portfolio and keeps the append-only
// trade ledger and equity curve for one run. Cash and shares never go
// negative: signals that fail the affordability/availability check are
// dropped, not errors.
type Simulator struct {
	Portfolio domain.Portfolio
	Trades    []domain.Trade
	Equity    []domain.EquityPoint

	trackEquity bool
	log         *slog.Logger
}

// NewSimulator creates a Simulator starting with the given cash balance.
func NewSimulator(initialCash float64, trackEquity bool, log *slog.Logger) *Simulator {
	return &Simulator{
		Portfolio: domain.Portfolio{
			Cash:         initialCash,
			InitialValue: initialCash,
			CurrentValue: initialCash,
		},
		trackEquity: trackEquity,
		log:         log,
	}
}

// Apply processes one signal against the bar's closing price, then marks the
// portfolio to close and records the equity point. It returns true when a
// trade was executed.
func (s *Simulator) Apply(sig domain.Signal, bar domain.Bar) bool {
	traded := false

	amount := sig.Amount
	if amount <= 0 {
		amount = 1
	}
	price := bar.Close

	switch sig.Action {
	case domain.SignalBuy:
		cost := price * amount
		if s.Portfolio.Cash >= cost {
			s.Portfolio.Cash -= cost
			s.Portfolio.Shares += amount
			s.appendTrade(domain.TradeActionBuy, bar, price, amount)
			traded = true
		} else {
			s.log.Debug("buy signal dropped: insufficient cash",
				"price", price, "amount", amount, "cash", s.Portfolio.Cash)
		}
	case domain.SignalSell:
		if s.Portfolio.Shares >= amount {
			s.Portfolio.Cash += price * amount
			s.Portfolio.Shares -= amount
			s.appendTrade(domain.TradeActionSell, bar, price, amount)
			traded = true
		} else {
			s.log.Debug("sell signal dropped: insufficient shares",
				"price", price, "amount", amount, "shares", s.Portfolio.Shares)
		}
	case domain.SignalHold:
		// No state change.
	}

	s.Portfolio.MarkToClose(bar.Close)
	if s.trackEquity {
		s.Equity = append(s.Equity, domain.EquityPoint{
			Timestamp: bar.Timestamp,
			Value:     s.Portfolio.CurrentValue,
		})
	}
	return traded
}

func (s *Simulator) appendTrade(action domain.TradeAction, bar domain.Bar, price, amount float64) {
	s.Trades = append(s.Trades, domain.Trade{
		Timestamp:      bar.Timestamp,
		Date:           bar.Date,
		Action:         action,
		Price:          price,
		Shares:         amount,
		CashAfterTrade: s.Portfolio.Cash,
	})
}
