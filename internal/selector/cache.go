// Package selector implements the AI strategy selector: a meta-strategy
// that retrospectively ranks candidate strategies (optionally with parameter
// grid search) over a lookback window and delegates execution to the winner.
package selector

import (
	"sync"

	"smart100/internal/domain"
)

// DecisionCache retains the last selector decision per symbol. It is an
// explicitly owned, injectable component so tests can isolate instances; its
// contents are intentionally kept across selector invocations.
type DecisionCache interface {
	// Put overwrites the decision for a symbol.
	Put(symbol string, d domain.Decision)

	// Get returns the last decision for a symbol, if any.
	Get(symbol string) (domain.Decision, bool)
}

// Compile-time interface check.
var _ DecisionCache = (*MemoryCache)(nil)

// MemoryCache is the default in-memory DecisionCache.
type MemoryCache struct {
	mu        sync.RWMutex
	decisions map[string]domain.Decision
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{decisions: make(map[string]domain.Decision)}
}

// Put overwrites the decision for a symbol.
func (c *MemoryCache) Put(symbol string, d domain.Decision) {
	c.mu.Lock()
	c.decisions[symbol] = d
	c.mu.Unlock()
}

// Get returns the last decision for a symbol, if any.
func (c *MemoryCache) Get(symbol string) (domain.Decision, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.decisions[symbol]
	return d, ok
}
