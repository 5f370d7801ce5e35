// Package evaluate scores strategy/parameter candidates with a lightweight
// position-only simulation over a bounded bar window. It is used solely for
// relative ranking and deliberately does not share the live portfolio's
// cash/shares model.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"smart100/internal/domain"
	"smart100/internal/strategy"
)

// Metric selects which statistic ranks candidates.
type Metric string

const (
	MetricPnL     Metric = "pnl"
	MetricWinRate Metric = "winRate"
	MetricSharpe  Metric = "sharpe"
)

// zeroVarianceSharpe is the sentinel magnitude emitted when period returns
// have zero variance. The sign follows the mean return.
const zeroVarianceSharpe = 1e9

// Result holds the three candidate-ranking metrics from one evaluation.
type Result struct {
	PnL     float64
	WinRate float64
	Sharpe  float64
	Trades  int
}

// Score returns the metric value used for ranking. Unknown metrics fall back
// to PnL.
func (r Result) Score(m Metric) float64 {
	switch m {
	case MetricWinRate:
		return r.WinRate
	case MetricSharpe:
		return r.Sharpe
	default:
		return r.PnL
	}
}

type positionSide int

const (
	flat positionSide = iota
	long
	short
)

// Evaluator runs the inner simulation. It is stateless; every call starts a
// fresh strategy session so evaluations are deterministic and isolated.
type Evaluator struct {
	log *slog.Logger
}

// New creates an Evaluator.
func New(log *slog.Logger) *Evaluator {
	return &Evaluator{log: log.With("component", "evaluate")}
}

// Run simulates strat with params over the bar window and computes metrics.
//
// The position model is a single flat/long/short slot with no sizing: a BUY
// opens a long when flat or closes a short, a SELL opens a short when flat
// or closes a long, and whatever remains open at the window end is closed at
// the last bar's close. Per-bar signed period returns (zero while flat,
// sign-flipped for shorts) feed the Sharpe metric.
func (e *Evaluator) Run(ctx context.Context, strat strategy.Strategy, params domain.Params, symbol string, bars []domain.Bar) (Result, error) {
	if len(bars) == 0 {
		return Result{}, nil
	}

	session := strat.NewSession()
	defer session.Close()

	merged := domain.MergeParams(strat.Parameters(), params)

	side := flat
	var entryPrice float64
	var tradePnLs []float64
	returns := make([]float64, 0, len(bars))

	for i, bar := range bars {
		// Period return for the bar transition, based on the position held
		// coming into this bar.
		if i > 0 && side != flat && bars[i-1].Close != 0 {
			r := (bar.Close - bars[i-1].Close) / bars[i-1].Close
			if side == short {
				r = -r
			}
			returns = append(returns, r)
		} else if i > 0 {
			returns = append(returns, 0)
		}

		sc := &strategy.Context{
			Symbol:       symbol,
			Bars:         bars,
			CurrentIndex: i,
			Params:       merged.Clone(),
		}
		sig, err := session.Execute(ctx, sc)
		if err != nil {
			return Result{}, fmt.Errorf("strategy %s at bar %d: %w", strat.ID(), i, err)
		}

		price := bar.Close
		switch sig.Action {
		case domain.SignalBuy:
			switch side {
			case flat:
				side = long
				entryPrice = price
			case short:
				tradePnLs = append(tradePnLs, entryPrice-price)
				side = flat
			}
		case domain.SignalSell:
			switch side {
			case flat:
				side = short
				entryPrice = price
			case long:
				tradePnLs = append(tradePnLs, price-entryPrice)
				side = flat
			}
		}
	}

	// Mark-to-close: realize any open position at the final bar's close.
	if side != flat {
		exit := bars[len(bars)-1].Close
		if side == long {
			tradePnLs = append(tradePnLs, exit-entryPrice)
		} else {
			tradePnLs = append(tradePnLs, entryPrice-exit)
		}
	}

	return buildResult(tradePnLs, returns), nil
}

func buildResult(tradePnLs, returns []float64) Result {
	res := Result{Trades: len(tradePnLs)}
	wins := 0
	for _, p := range tradePnLs {
		res.PnL += p
		if p > 0 {
			wins++
		}
	}
	if len(tradePnLs) > 0 {
		res.WinRate = float64(wins) / float64(len(tradePnLs))
	}
	res.Sharpe = sharpe(returns)
	return res
}

// sharpe computes mean/sampleStdDev over the period returns, resolving the
// zero-variance case to a sign-aware sentinel instead of dividing by zero.
func sharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	var mean float64
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	if len(returns) < 2 {
		return signedSentinel(mean)
	}
	var varSum float64
	for _, r := range returns {
		d := r - mean
		varSum += d * d
	}
	std := math.Sqrt(varSum / float64(len(returns)-1))
	if std == 0 {
		return signedSentinel(mean)
	}
	return mean / std
}

func signedSentinel(mean float64) float64 {
	switch {
	case mean > 0:
		return zeroVarianceSharpe
	case mean < 0:
		return -zeroVarianceSharpe
	default:
		return 0
	}
}
