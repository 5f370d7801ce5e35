// Package gather backfills historical bars from a remote source into one or
// more local stores.
package gather

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"smart100/internal/marketdata"
	"smart100/internal/store"
)

// Backfiller fetches bars symbol by symbol and writes them to every
// configured store. A symbol that fails is logged and skipped so one bad
// ticker does not abort a long backfill.
type Backfiller struct {
	source marketdata.BarSource
	stores []store.BarStore
	log    *slog.Logger
}

// NewBackfiller creates a Backfiller reading from source and writing to
// stores.
func NewBackfiller(source marketdata.BarSource, stores []store.BarStore, log *slog.Logger) *Backfiller {
	return &Backfiller{
		source: source,
		stores: stores,
		log:    log.With("component", "gather"),
	}
}

// Run backfills all symbols for the range and interval. It returns an error
// only when the context is cancelled or every symbol failed.
func (b *Backfiller) Run(ctx context.Context, symbols []string, start, end time.Time, interval string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols to backfill")
	}

	failed := 0
	totalBars := 0
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}

		bars, err := b.source.FetchBars(ctx, symbol, start, end, "", interval)
		if err != nil {
			b.log.Error("fetching bars failed, skipping symbol", "symbol", symbol, "err", err)
			failed++
			continue
		}
		if len(bars) == 0 {
			b.log.Warn("no bars returned", "symbol", symbol,
				"start", start.Format("2006-01-02"), "end", end.Format("2006-01-02"))
			continue
		}

		writeFailed := false
		for _, s := range b.stores {
			if err := s.WriteBars(ctx, bars); err != nil {
				b.log.Error("writing bars failed", "symbol", symbol, "err", err)
				writeFailed = true
			}
		}
		if writeFailed {
			failed++
			continue
		}

		totalBars += len(bars)
		b.log.Info("backfilled symbol", "symbol", symbol, "bars", len(bars))
	}

	b.log.Info("backfill finished", "symbols", len(symbols), "failed", failed, "bars", totalBars)
	if failed == len(symbols) {
		return fmt.Errorf("backfill failed for all %d symbols", len(symbols))
	}
	return nil
}
