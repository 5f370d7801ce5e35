// Package domain defines the core data types shared across the smart100
// platform: bars, portfolios, trades, signals, strategy parameter
// definitions, backtest results, and selector decisions.
package domain

import (
	"math"
	"time"
)

// Bar is one OHLCV sample for a fixed time interval. Bars are immutable once
// produced by the data layer and are ordered ascending by timestamp.
type Bar struct {
	Timestamp int64   `json:"timestamp"` // Unix seconds
	Date      string  `json:"date"`      // YYYY-MM-DD
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Source    string  `json:"source"`
	Interval  string  `json:"interval"`
	Symbol    string  `json:"symbol"`
}

// Time returns the bar timestamp as a time.Time in UTC.
func (b Bar) Time() time.Time {
	return time.Unix(b.Timestamp, 0).UTC()
}

// TradeAction identifies the direction of an executed trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// Trade is one entry in the append-only trade ledger. Trades are never
// mutated after creation.
type Trade struct {
	Timestamp      int64       `json:"timestamp"`
	Date           string      `json:"date"`
	Action         TradeAction `json:"action"`
	Price          float64     `json:"price"`
	Shares         float64     `json:"shares"`
	CashAfterTrade float64     `json:"cashAfterTrade"`
}

// Portfolio tracks cash and share holdings for a single-symbol run. Cash and
// Shares never go negative; only the backtest trade rules mutate a Portfolio
// after a signal passes its affordability/availability check.
type Portfolio struct {
	Cash         float64 `json:"cash"`
	Shares       float64 `json:"shares"`
	InitialValue float64 `json:"initialValue"`
	CurrentValue float64 `json:"currentValue"`
}

// MarkToClose recomputes CurrentValue against the given closing price.
func (p *Portfolio) MarkToClose(close float64) {
	p.CurrentValue = p.Cash + p.Shares*close
}

// SignalAction is the action a strategy requests for the current bar.
type SignalAction string

const (
	SignalBuy  SignalAction = "BUY"
	SignalSell SignalAction = "SELL"
	SignalHold SignalAction = "HOLD"
)

// Signal is a strategy's decision for one bar. Amount is in units of the
// traded instrument; zero or negative amounts are normalized to 1 by the
// caller applying the signal.
type Signal struct {
	Action SignalAction `json:"action"`
	Amount float64      `json:"amount,omitempty"`
}

// Hold is the neutral signal.
func Hold() Signal { return Signal{Action: SignalHold} }

// EquityPoint is one sample of the equity curve, recorded once per processed
// bar.
type EquityPoint struct {
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}

// BacktestResult is the aggregate outcome of one backtest run.
type BacktestResult struct {
	Symbol                 string        `json:"symbol"`
	StartDate              string        `json:"startDate"`
	EndDate                string        `json:"endDate"`
	InitialPortfolioValue  float64       `json:"initialPortfolioValue"`
	FinalPortfolioValue    float64       `json:"finalPortfolioValue"`
	TotalProfitOrLoss      float64       `json:"totalProfitOrLoss"`
	ProfitOrLossPercentage float64       `json:"profitOrLossPercentage"`
	Trades                 []Trade       `json:"trades"`
	TotalTrades            int           `json:"totalTrades"`
	BarsProcessed          int           `json:"barsProcessed"`
	EquityCurve            []EquityPoint `json:"equityCurve,omitempty"`
}

// ProfitPercentage computes the percentage P&L for the given initial value,
// using +Inf as the sentinel for profit on a zero initial value.
func ProfitPercentage(initial, pnl float64) float64 {
	if initial == 0 {
		if pnl == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return pnl / initial * 100
}

// Decision records one outcome of the AI strategy selector. It is
// overwritten on every selector invocation for a symbol; nil-able fields are
// nil when the selector found no viable candidate.
type Decision struct {
	Timestamp        int64          `json:"timestamp"`
	Date             string         `json:"date"`
	StrategyID       *string        `json:"strategyId"`
	StrategyName     *string        `json:"strategyName"`
	Parameters       map[string]any `json:"parameters"`
	EvaluationScore  *float64       `json:"evaluationScore"`
	EvaluationMetric string         `json:"evaluationMetric"`
}
