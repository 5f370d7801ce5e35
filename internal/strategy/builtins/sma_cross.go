package builtins

import (
	"context"
	"math"

	"smart100/internal/domain"
	"smart100/internal/indicator"
	"smart100/internal/strategy"
)

// Compile-time interface checks.
var _ strategy.Strategy = (*SMACross)(nil)
var _ strategy.Session = (*smaCrossSession)(nil)

// SMACross implements a simple moving average crossover strategy. It
// generates a buy signal when the short-period SMA crosses above the
// long-period SMA, and a sell signal when it crosses below.
type SMACross struct{}

// NewSMACross creates the SMA crossover strategy.
func NewSMACross() *SMACross { return &SMACross{} }

// ID returns "sma-cross".
func (s *SMACross) ID() string { return "sma-cross" }

// Name returns the display name.
func (s *SMACross) Name() string { return "SMA Crossover" }

// Parameters declares the short and long SMA periods.
func (s *SMACross) Parameters() []domain.ParamDef {
	return []domain.ParamDef{
		{
			Name: "shortPeriod", Label: "Short SMA Period", Type: domain.ParamNumber,
			Default: 10.0, Min: fptr(5), Max: fptr(20), Step: fptr(5),
		},
		{
			Name: "longPeriod", Label: "Long SMA Period", Type: domain.ParamNumber,
			Default: 30.0, Min: fptr(20), Max: fptr(50), Step: fptr(10),
		},
		{
			Name: "tradeAmount", Label: "Trade Amount", Type: domain.ParamNumber,
			Default: 1.0,
		},
	}
}

// NewSession returns a fresh crossover session.
func (s *SMACross) NewSession() strategy.Session {
	return &smaCrossSession{}
}

type smaCrossSession struct{}

func (ss *smaCrossSession) Execute(_ context.Context, c *strategy.Context) (domain.Signal, error) {
	short := int(c.Params.Number("shortPeriod", 10))
	long := int(c.Params.Number("longPeriod", 30))
	amount := c.Params.Number("tradeAmount", 1)

	i := c.CurrentIndex
	if short <= 0 || long <= 0 || short >= long || i < long {
		return domain.Hold(), nil
	}

	closes := c.ClosesUpTo()
	smaShort := indicator.SMA(closes, short)
	smaLong := indicator.SMA(closes, long)

	curShort, curLong := smaShort[i], smaLong[i]
	prevShort, prevLong := smaShort[i-1], smaLong[i-1]
	if math.IsNaN(curShort) || math.IsNaN(curLong) || math.IsNaN(prevShort) || math.IsNaN(prevLong) {
		return domain.Hold(), nil
	}

	switch {
	case prevShort <= prevLong && curShort > curLong:
		return domain.Signal{Action: domain.SignalBuy, Amount: amount}, nil
	case prevShort >= prevLong && curShort < curLong:
		return domain.Signal{Action: domain.SignalSell, Amount: amount}, nil
	}
	return domain.Hold(), nil
}

func (ss *smaCrossSession) Close() error { return nil }
