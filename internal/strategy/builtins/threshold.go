// Package builtins provides the built-in strategy implementations that ship
// with the smart100 platform.
package builtins

import (
	"context"

	"smart100/internal/domain"
	"smart100/internal/strategy"
)

// fptr is a convenience for numeric parameter bounds.
func fptr(v float64) *float64 { return &v }

// Compile-time interface checks.
var _ strategy.Strategy = (*Threshold)(nil)
var _ strategy.Session = (*thresholdSession)(nil)

// Threshold is a breakout strategy: it buys when the close crosses above the
// upper threshold and exits on a take-profit target or a stop below the
// lower threshold.
type Threshold struct{}

// NewThreshold creates the threshold breakout strategy.
func NewThreshold() *Threshold { return &Threshold{} }

// ID returns "threshold".
func (s *Threshold) ID() string { return "threshold" }

// Name returns the display name.
func (s *Threshold) Name() string { return "Threshold Breakout" }

// Parameters declares the threshold strategy's tunables.
func (s *Threshold) Parameters() []domain.ParamDef {
	return []domain.ParamDef{
		{
			Name: "upperThreshold", Label: "Upper Threshold", Type: domain.ParamNumber,
			Default: 150.0, Min: fptr(100), Max: fptr(200), Step: fptr(10),
		},
		{
			Name: "lowerThreshold", Label: "Lower Threshold", Type: domain.ParamNumber,
			Default: 140.0, Min: fptr(80), Max: fptr(180), Step: fptr(10),
		},
		{
			Name: "takeProfitPct", Label: "Take Profit %", Type: domain.ParamNumber,
			Default: 5.0, Min: fptr(1), Max: fptr(10), Step: fptr(1),
		},
		{
			Name: "tradeAmount", Label: "Trade Amount", Type: domain.ParamNumber,
			Default: 1.0,
		},
	}
}

// NewSession returns a fresh session with no open position.
func (s *Threshold) NewSession() strategy.Session {
	return &thresholdSession{}
}

type thresholdSession struct {
	inPosition bool
	entryPrice float64
}

func (ss *thresholdSession) Execute(_ context.Context, c *strategy.Context) (domain.Signal, error) {
	upper := c.Params.Number("upperThreshold", 150)
	lower := c.Params.Number("lowerThreshold", 140)
	takeProfit := c.Params.Number("takeProfitPct", 5)
	amount := c.Params.Number("tradeAmount", 1)

	price := c.CurrentBar().Close

	if ss.inPosition {
		if price <= lower || price >= ss.entryPrice*(1+takeProfit/100) {
			ss.inPosition = false
			return domain.Signal{Action: domain.SignalSell, Amount: amount}, nil
		}
		return domain.Hold(), nil
	}

	// Entry requires a crossing, not merely being above the threshold, so a
	// sustained breakout triggers a single buy.
	if c.CurrentIndex == 0 {
		return domain.Hold(), nil
	}
	prev := c.Bars[c.CurrentIndex-1].Close
	if prev <= upper && price > upper {
		ss.inPosition = true
		ss.entryPrice = price
		return domain.Signal{Action: domain.SignalBuy, Amount: amount}, nil
	}
	return domain.Hold(), nil
}

func (ss *thresholdSession) Close() error { return nil }
