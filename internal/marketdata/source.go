// Package marketdata provides historical bar acquisition: a remote Alpaca
// source, a store-backed source, and a caching source that combines the two
// with write-through and fallback.
package marketdata

import (
	"context"
	"time"

	"smart100/internal/domain"
)

// BarSource supplies historical bars ascending by timestamp. An empty slice
// with a nil error means "no data for this range".
type BarSource interface {
	// FetchBars returns bars for symbol within [start, end]. source selects
	// the upstream provider and interval the bar size; either may be empty
	// to use the implementation's default.
	FetchBars(ctx context.Context, symbol string, start, end time.Time, source, interval string) ([]domain.Bar, error)
}
