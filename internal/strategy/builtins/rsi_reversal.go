package builtins

import (
	"context"
	"math"

	"smart100/internal/domain"
	"smart100/internal/indicator"
	"smart100/internal/strategy"
)

// Compile-time interface checks.
var _ strategy.Strategy = (*RSIReversal)(nil)
var _ strategy.Session = (*rsiSession)(nil)

// RSIReversal trades mean reversion on the RSI: it buys when the RSI climbs
// back out of the oversold zone and sells when it falls back out of the
// overbought zone.
type RSIReversal struct{}

// NewRSIReversal creates the RSI reversal strategy.
func NewRSIReversal() *RSIReversal { return &RSIReversal{} }

// ID returns "rsi-reversal".
func (s *RSIReversal) ID() string { return "rsi-reversal" }

// Name returns the display name.
func (s *RSIReversal) Name() string { return "RSI Reversal" }

// Parameters declares the RSI period and zone boundaries.
func (s *RSIReversal) Parameters() []domain.ParamDef {
	return []domain.ParamDef{
		{
			Name: "period", Label: "RSI Period", Type: domain.ParamNumber,
			Default: 14.0, Min: fptr(7), Max: fptr(21), Step: fptr(7),
		},
		{
			Name: "oversold", Label: "Oversold Level", Type: domain.ParamNumber,
			Default: 30.0, Min: fptr(20), Max: fptr(40), Step: fptr(5),
		},
		{
			Name: "overbought", Label: "Overbought Level", Type: domain.ParamNumber,
			Default: 70.0, Min: fptr(60), Max: fptr(80), Step: fptr(5),
		},
		{
			Name: "tradeAmount", Label: "Trade Amount", Type: domain.ParamNumber,
			Default: 1.0,
		},
	}
}

// NewSession returns a fresh RSI session.
func (s *RSIReversal) NewSession() strategy.Session {
	return &rsiSession{}
}

type rsiSession struct{}

func (ss *rsiSession) Execute(_ context.Context, c *strategy.Context) (domain.Signal, error) {
	period := int(c.Params.Number("period", 14))
	oversold := c.Params.Number("oversold", 30)
	overbought := c.Params.Number("overbought", 70)
	amount := c.Params.Number("tradeAmount", 1)

	i := c.CurrentIndex
	if period <= 0 || i <= period {
		return domain.Hold(), nil
	}

	rsi := indicator.RSI(c.ClosesUpTo(), period)
	cur, prev := rsi[i], rsi[i-1]
	if math.IsNaN(cur) || math.IsNaN(prev) {
		return domain.Hold(), nil
	}

	switch {
	case prev < oversold && cur >= oversold:
		return domain.Signal{Action: domain.SignalBuy, Amount: amount}, nil
	case prev > overbought && cur <= overbought:
		return domain.Signal{Action: domain.SignalSell, Amount: amount}, nil
	}
	return domain.Hold(), nil
}

func (ss *rsiSession) Close() error { return nil }
