package marketdata

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"smart100/internal/domain"
)

// memStore is a minimal in-memory BarStore for cache tests.
type memStore struct {
	bars    []domain.Bar
	readErr error
	writes  int
}

func (m *memStore) WriteBars(_ context.Context, bars []domain.Bar) error {
	m.writes++
	m.bars = append(m.bars, bars...)
	return nil
}

func (m *memStore) ReadBars(_ context.Context, symbol, _ string, _, _ time.Time) ([]domain.Bar, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []domain.Bar
	for _, b := range m.bars {
		if b.Symbol == symbol {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) ListSymbols(context.Context) ([]string, error) { return nil, nil }

// stubRemote is a canned remote BarSource.
type stubRemote struct {
	bars  []domain.Bar
	err   error
	calls int
}

func (r *stubRemote) FetchBars(context.Context, string, time.Time, time.Time, string, string) ([]domain.Bar, error) {
	r.calls++
	return r.bars, r.err
}

func testWindow() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
}

func TestCachedSourceWritesThrough(t *testing.T) {
	remote := &stubRemote{bars: []domain.Bar{{Symbol: "AAPL", Timestamp: 1, Close: 185}}}
	local := &memStore{}
	src := NewCachedSource(remote, local, slog.New(slog.DiscardHandler))

	start, end := testWindow()
	got, err := src.FetchBars(context.Background(), "AAPL", start, end, "", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Close != 185 {
		t.Errorf("bars = %+v, want the remote bar", got)
	}
	if local.writes != 1 {
		t.Errorf("store writes = %d, want 1 (write-through)", local.writes)
	}
}

func TestCachedSourceFallsBackToStore(t *testing.T) {
	remote := &stubRemote{err: errors.New("rate limited")}
	local := &memStore{bars: []domain.Bar{{Symbol: "AAPL", Timestamp: 1, Close: 185}}}
	src := NewCachedSource(remote, local, slog.New(slog.DiscardHandler))

	start, end := testWindow()
	got, err := src.FetchBars(context.Background(), "AAPL", start, end, "", "1d")
	if err != nil {
		t.Fatalf("fallback should succeed, got %v", err)
	}
	if len(got) != 1 || got[0].Close != 185 {
		t.Errorf("bars = %+v, want the cached bar", got)
	}
}

func TestCachedSourceSurfacesRemoteError(t *testing.T) {
	wantErr := errors.New("rate limited")
	remote := &stubRemote{err: wantErr}
	local := &memStore{} // nothing cached
	src := NewCachedSource(remote, local, slog.New(slog.DiscardHandler))

	start, end := testWindow()
	_, err := src.FetchBars(context.Background(), "AAPL", start, end, "", "1d")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want the original remote error", err)
	}
}

func TestCachedSourceEmptyRemoteNotCached(t *testing.T) {
	remote := &stubRemote{}
	local := &memStore{}
	src := NewCachedSource(remote, local, slog.New(slog.DiscardHandler))

	start, end := testWindow()
	got, err := src.FetchBars(context.Background(), "AAPL", start, end, "", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("bars = %+v, want none", got)
	}
	if local.writes != 0 {
		t.Errorf("store writes = %d, want 0 for an empty remote result", local.writes)
	}
}

func TestStoreSourceReadsStore(t *testing.T) {
	local := &memStore{bars: []domain.Bar{{Symbol: "MSFT", Timestamp: 1, Close: 400}}}
	src := NewStoreSource(local)

	start, end := testWindow()
	got, err := src.FetchBars(context.Background(), "MSFT", start, end, "", "1d")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Close != 400 {
		t.Errorf("bars = %+v, want the stored bar", got)
	}
}
