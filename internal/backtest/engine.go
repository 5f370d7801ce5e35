package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smart100/internal/domain"
	"smart100/internal/marketdata"
	"smart100/internal/strategy"
)

// Request describes one backtest run.
type Request struct {
	Symbol      string
	Start       time.Time
	End         time.Time
	InitialCash float64
	StrategyID  string
	Params      domain.Params
	Source      string // upstream data provider, "" = default
	Interval    string // bar interval, "" = default
}

// Engine replays historical bars through a strategy session and produces a
// BacktestResult.
type Engine struct {
	registry    *strategy.Registry
	bars        marketdata.BarSource
	trackEquity bool
	log         *slog.Logger
}

// NewEngine creates an Engine that resolves strategies in registry and reads
// bars from source. When trackEquity is true, results include the per-bar
// equity curve.
func NewEngine(registry *strategy.Registry, source marketdata.BarSource, trackEquity bool, log *slog.Logger) *Engine {
	return &Engine{
		registry:    registry,
		bars:        source,
		trackEquity: trackEquity,
		log:         log.With("component", "backtest"),
	}
}

// Run executes one backtest. Missing strategies and empty data ranges are
// not errors: they produce a neutral zero-trade result and a log line.
// Invalid parameter bags are rejected before any data is fetched.
func (e *Engine) Run(ctx context.Context, req Request) (*domain.BacktestResult, error) {
	strat, ok := e.registry.Get(req.StrategyID)
	if !ok {
		e.log.Error("unknown strategy", "strategyId", req.StrategyID, "symbol", req.Symbol)
		return e.neutralResult(req), nil
	}

	defs := strat.Parameters()
	if err := domain.ValidateParams(defs, req.Params); err != nil {
		return nil, fmt.Errorf("strategy %s: %w", req.StrategyID, err)
	}
	params := domain.MergeParams(defs, req.Params)

	bars, err := e.bars.FetchBars(ctx, req.Symbol, req.Start, req.End, req.Source, req.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetching bars for %s: %w", req.Symbol, err)
	}
	if len(bars) == 0 {
		e.log.Warn("no historical data", "symbol", req.Symbol,
			"start", req.Start.Format("2006-01-02"), "end", req.End.Format("2006-01-02"))
		return e.neutralResult(req), nil
	}

	session := strat.NewSession()
	defer session.Close()

	sim := NewSimulator(req.InitialCash, e.trackEquity, e.log)

	for i, bar := range bars {
		sc := &strategy.Context{
			Symbol:       req.Symbol,
			Bars:         bars,
			CurrentIndex: i,
			Portfolio:    sim.Portfolio,
			Trades:       append([]domain.Trade(nil), sim.Trades...),
			Params:       params.Clone(),
		}
		sig, err := session.Execute(ctx, sc)
		if err != nil {
			e.log.Error("strategy execution failed, holding",
				"strategyId", req.StrategyID, "index", i, "err", err)
			sig = domain.Hold()
		}
		sim.Apply(sig, bar)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	final := sim.Portfolio.CurrentValue
	pnl := final - sim.Portfolio.InitialValue
	return &domain.BacktestResult{
		Symbol:                 req.Symbol,
		StartDate:              req.Start.Format("2006-01-02"),
		EndDate:                req.End.Format("2006-01-02"),
		InitialPortfolioValue:  sim.Portfolio.InitialValue,
		FinalPortfolioValue:    final,
		TotalProfitOrLoss:      pnl,
		ProfitOrLossPercentage: domain.ProfitPercentage(sim.Portfolio.InitialValue, pnl),
		Trades:                 sim.Trades,
		TotalTrades:            len(sim.Trades),
		BarsProcessed:          len(bars),
		EquityCurve:            sim.Equity,
	}, nil
}

// neutralResult is the zero-trade result returned when a run cannot start.
func (e *Engine) neutralResult(req Request) *domain.BacktestResult {
	return &domain.BacktestResult{
		Symbol:                 req.Symbol,
		StartDate:              req.Start.Format("2006-01-02"),
		EndDate:                req.End.Format("2006-01-02"),
		InitialPortfolioValue:  req.InitialCash,
		FinalPortfolioValue:    req.InitialCash,
		TotalProfitOrLoss:      0,
		ProfitOrLossPercentage: 0,
		Trades:                 []domain.Trade{},
		TotalTrades:            0,
	}
}
