// Package store defines storage interfaces for persisting and retrieving
// historical bars and selector decisions, with Parquet and SQLite
// implementations.
package store

import (
	"context"
	"time"

	"smart100/internal/domain"
)

// DefaultInterval is the bar interval assumed when none is given.
const DefaultInterval = "1d"

// BarStore persists and retrieves OHLCV bar data.
type BarStore interface {
	// WriteBars persists a batch of bars. Bars for the same
	// (symbol, interval, timestamp) are replaced, not duplicated.
	WriteBars(ctx context.Context, bars []domain.Bar) error

	// ReadBars returns bars for the symbol and interval within [start, end],
	// ascending by timestamp. An empty interval means DefaultInterval.
	ReadBars(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Bar, error)

	// ListSymbols returns all distinct symbols with stored bars.
	ListSymbols(ctx context.Context) ([]string, error)
}

// DecisionStore persists the last selector decision per symbol.
type DecisionStore interface {
	// SaveDecision overwrites the stored decision for a symbol.
	SaveDecision(ctx context.Context, symbol string, d domain.Decision) error

	// GetDecision returns the stored decision for a symbol. The bool is
	// false when no decision has been stored.
	GetDecision(ctx context.Context, symbol string) (domain.Decision, bool, error)
}
