package selector

import (
	"context"
	"log/slog"

	"smart100/internal/domain"
	"smart100/internal/store"
)

// Compile-time interface check.
var _ DecisionCache = (*StoreCache)(nil)

// StoreCache is a DecisionCache persisted through a store.DecisionStore, so
// the last decision per symbol survives process restarts. Store failures are
// logged and otherwise swallowed: decision persistence must never break a
// selection run.
type StoreCache struct {
	store store.DecisionStore
	log   *slog.Logger
}

// NewStoreCache creates a StoreCache on top of ds.
func NewStoreCache(ds store.DecisionStore, log *slog.Logger) *StoreCache {
	return &StoreCache{store: ds, log: log.With("component", "decision-cache")}
}

// Put overwrites the persisted decision for a symbol.
func (c *StoreCache) Put(symbol string, d domain.Decision) {
	if err := c.store.SaveDecision(context.Background(), symbol, d); err != nil {
		c.log.Error("saving decision failed", "symbol", symbol, "err", err)
	}
}

// Get returns the persisted decision for a symbol, if any.
func (c *StoreCache) Get(symbol string) (domain.Decision, bool) {
	d, ok, err := c.store.GetDecision(context.Background(), symbol)
	if err != nil {
		c.log.Error("loading decision failed", "symbol", symbol, "err", err)
		return domain.Decision{}, false
	}
	return d, ok
}
