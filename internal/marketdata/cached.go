package marketdata

import (
	"context"
	"log/slog"
	"time"

	"smart100/internal/domain"
	"smart100/internal/store"
)

// Compile-time interface checks.
var _ BarSource = (*StoreSource)(nil)
var _ BarSource = (*CachedSource)(nil)

// StoreSource serves bars from a local BarStore only.
type StoreSource struct {
	Store store.BarStore
}

// NewStoreSource creates a StoreSource reading from s.
func NewStoreSource(s store.BarStore) *StoreSource {
	return &StoreSource{Store: s}
}

// FetchBars reads bars from the underlying store. The source argument is
// ignored.
func (s *StoreSource) FetchBars(ctx context.Context, symbol string, start, end time.Time, _, interval string) ([]domain.Bar, error) {
	return s.Store.ReadBars(ctx, symbol, interval, start, end)
}

// CachedSource fetches bars from a remote BarSource, writes them through to
// a local store, and falls back to the store when the remote fetch fails.
type CachedSource struct {
	remote BarSource
	store  store.BarStore
	log    *slog.Logger
}

// NewCachedSource creates a CachedSource combining remote and local.
func NewCachedSource(remote BarSource, local store.BarStore, log *slog.Logger) *CachedSource {
	return &CachedSource{
		remote: remote,
		store:  local,
		log:    log.With("component", "marketdata", "source", "cached"),
	}
}

// FetchBars tries the remote source first. On success the bars are written
// through to the local store (best effort); on failure the local store is
// consulted before giving up.
func (s *CachedSource) FetchBars(ctx context.Context, symbol string, start, end time.Time, source, interval string) ([]domain.Bar, error) {
	bars, err := s.remote.FetchBars(ctx, symbol, start, end, source, interval)
	if err == nil {
		if len(bars) > 0 {
			if werr := s.store.WriteBars(ctx, bars); werr != nil {
				s.log.Warn("caching bars failed", "symbol", symbol, "err", werr)
			}
		}
		return bars, nil
	}

	s.log.Warn("remote fetch failed, falling back to store", "symbol", symbol, "err", err)
	cached, cerr := s.store.ReadBars(ctx, symbol, interval, start, end)
	if cerr != nil || len(cached) == 0 {
		// Nothing cached either; surface the original remote error.
		return nil, err
	}
	return cached, nil
}
