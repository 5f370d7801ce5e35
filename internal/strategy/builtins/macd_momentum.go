package builtins

import (
	"context"
	"math"

	"smart100/internal/domain"
	"smart100/internal/indicator"
	"smart100/internal/strategy"
)

// Compile-time interface checks.
var _ strategy.Strategy = (*MACDMomentum)(nil)
var _ strategy.Session = (*macdSession)(nil)

// MACDMomentum trades MACD line / signal line crossovers: buy when the MACD
// line crosses above the signal line, sell when it crosses below.
type MACDMomentum struct{}

// NewMACDMomentum creates the MACD momentum strategy.
func NewMACDMomentum() *MACDMomentum { return &MACDMomentum{} }

// ID returns "macd-momentum".
func (s *MACDMomentum) ID() string { return "macd-momentum" }

// Name returns the display name.
func (s *MACDMomentum) Name() string { return "MACD Momentum" }

// Parameters declares the MACD periods.
func (s *MACDMomentum) Parameters() []domain.ParamDef {
	return []domain.ParamDef{
		{
			Name: "shortPeriod", Label: "Short EMA Period", Type: domain.ParamNumber,
			Default: 12.0, Min: fptr(8), Max: fptr(16), Step: fptr(4),
		},
		{
			Name: "longPeriod", Label: "Long EMA Period", Type: domain.ParamNumber,
			Default: 26.0, Min: fptr(20), Max: fptr(32), Step: fptr(6),
		},
		{
			Name: "signalPeriod", Label: "Signal Period", Type: domain.ParamNumber,
			Default: 9.0,
		},
		{
			Name: "tradeAmount", Label: "Trade Amount", Type: domain.ParamNumber,
			Default: 1.0,
		},
	}
}

// NewSession returns a fresh MACD session.
func (s *MACDMomentum) NewSession() strategy.Session {
	return &macdSession{}
}

type macdSession struct{}

func (ss *macdSession) Execute(_ context.Context, c *strategy.Context) (domain.Signal, error) {
	short := int(c.Params.Number("shortPeriod", 12))
	long := int(c.Params.Number("longPeriod", 26))
	signalPeriod := int(c.Params.Number("signalPeriod", 9))
	amount := c.Params.Number("tradeAmount", 1)

	i := c.CurrentIndex
	if i == 0 {
		return domain.Hold(), nil
	}

	m := indicator.MACD(c.ClosesUpTo(), short, long, signalPeriod)
	cur := m.MACDLine[i] - m.SignalLine[i]
	prev := m.MACDLine[i-1] - m.SignalLine[i-1]
	if math.IsNaN(cur) || math.IsNaN(prev) {
		return domain.Hold(), nil
	}

	switch {
	case prev <= 0 && cur > 0:
		return domain.Signal{Action: domain.SignalBuy, Amount: amount}, nil
	case prev >= 0 && cur < 0:
		return domain.Signal{Action: domain.SignalSell, Amount: amount}, nil
	}
	return domain.Hold(), nil
}

func (ss *macdSession) Close() error { return nil }
