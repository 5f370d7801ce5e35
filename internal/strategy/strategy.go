// Package strategy defines the capability contract for trading strategies
// and provides a Registry for managing multiple strategy implementations.
package strategy

import (
	"context"
	"sort"

	"smart100/internal/domain"
)

// Strategy describes a trading strategy: its identity, its declared
// parameters, and a factory for execution sessions. Strategies themselves
// are stateless descriptors; all per-run state lives in the Session so that
// independent runs never share mutable state.
type Strategy interface {
	// ID returns the unique identifier for this strategy.
	ID() string

	// Name returns the human-readable strategy name.
	Name() string

	// Parameters returns the ordered list of parameter definitions. The
	// order is significant: the optimizer enumerates combinations in
	// declaration order.
	Parameters() []domain.ParamDef

	// NewSession returns a fresh execution session with no state inherited
	// from any prior run.
	NewSession() Session
}

// Session is one run-scoped execution handle for a strategy. A Session may
// accumulate private state across Execute calls within a single run.
type Session interface {
	// Execute evaluates the strategy at ctxData.CurrentIndex and returns a
	// signal. Implementations must treat the context as read-only.
	Execute(ctx context.Context, ctxData *Context) (domain.Signal, error)

	// Close releases any session resources.
	Close() error
}

// Context is the read-oriented snapshot a strategy receives for one bar.
// Portfolio and Trades are copies; mutating them does not affect engine
// state.
type Context struct {
	Symbol       string
	Bars         []domain.Bar
	CurrentIndex int
	Portfolio    domain.Portfolio
	Trades       []domain.Trade
	Params       domain.Params
}

// CurrentBar returns the bar at CurrentIndex.
func (c *Context) CurrentBar() domain.Bar {
	return c.Bars[c.CurrentIndex]
}

// ClosesUpTo returns the closing prices of bars [0, CurrentIndex]. The
// returned slice is freshly allocated so sessions may keep or modify it.
func (c *Context) ClosesUpTo() []float64 {
	out := make([]float64, c.CurrentIndex+1)
	for i := 0; i <= c.CurrentIndex; i++ {
		out[i] = c.Bars[i].Close
	}
	return out
}

// Snapshot returns a copy of the context with its own portfolio and trade
// history, sharing the immutable bar slice.
func (c *Context) Snapshot() *Context {
	trades := make([]domain.Trade, len(c.Trades))
	copy(trades, c.Trades)
	return &Context{
		Symbol:       c.Symbol,
		Bars:         c.Bars,
		CurrentIndex: c.CurrentIndex,
		Portfolio:    c.Portfolio,
		Trades:       trades,
		Params:       c.Params.Clone(),
	}
}

// Registry holds a collection of strategies for lookup and enumeration.
type Registry struct {
	strategies map[string]Strategy
}

// NewRegistry creates an empty strategy Registry.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

// Register adds a strategy to the registry, keyed by its ID().
func (r *Registry) Register(s Strategy) {
	r.strategies[s.ID()] = s
}

// Get retrieves a strategy by ID. The second return value indicates whether
// the strategy was found.
func (r *Registry) Get(id string) (Strategy, bool) {
	s, ok := r.strategies[id]
	return s, ok
}

// List returns all registered strategies sorted by ID for deterministic
// iteration.
func (r *Registry) List() []Strategy {
	ids := make([]string, 0, len(r.strategies))
	for id := range r.strategies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Strategy, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.strategies[id])
	}
	return out
}
