package builtins

import "smart100/internal/strategy"

// RegisterAll registers every built-in strategy in the given registry.
func RegisterAll(r *strategy.Registry) {
	r.Register(NewThreshold())
	r.Register(NewSMACross())
	r.Register(NewRSIReversal())
	r.Register(NewMACDMomentum())
}
