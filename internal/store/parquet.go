package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"smart100/internal/domain"
)

// Compile-time interface check.
var _ BarStore = (*ParquetStore)(nil)

// ParquetStore implements BarStore using Parquet files on disk.
type ParquetStore struct {
	DataDir string
}

// NewParquetStore creates a new ParquetStore rooted at the given data directory.
func NewParquetStore(dataDir string) *ParquetStore {
	return &ParquetStore{DataDir: dataDir}
}

// BarRecord is the Parquet schema for bar data.
type BarRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp"` // Unix seconds
	Date      string  `parquet:"date"`
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
	Source    string  `parquet:"source"`
	Interval  string  `parquet:"interval"`
}

// WriteBars writes bar data to Parquet files organized by interval, symbol,
// and year. Each combination produces a separate file at:
//
//	<DataDir>/bars/<interval>/<SYMBOL>/<YYYY>.parquet
func (s *ParquetStore) WriteBars(_ context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	type key struct {
		symbol   string
		interval string
		year     int
	}
	groups := make(map[key][]BarRecord)
	for _, b := range bars {
		interval := b.Interval
		if interval == "" {
			interval = DefaultInterval
		}
		k := key{symbol: b.Symbol, interval: interval, year: b.Time().Year()}
		groups[k] = append(groups[k], BarRecord{
			Symbol:    b.Symbol,
			Timestamp: b.Timestamp,
			Date:      b.Date,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			Source:    b.Source,
			Interval:  interval,
		})
	}

	for k, records := range groups {
		path := s.barPath(k.symbol, k.interval, k.year)

		// Read existing records to merge.
		existing, _ := readParquetFile[BarRecord](path)
		merged := mergeBarRecords(existing, records)

		if err := writeParquetFile(path, merged); err != nil {
			return fmt.Errorf("writing bars for %s/%d: %w", k.symbol, k.year, err)
		}
	}
	return nil
}

// ReadBars reads bar data from Parquet files for the given symbol, interval,
// and time range.
func (s *ParquetStore) ReadBars(_ context.Context, symbol, interval string, start, end time.Time) ([]domain.Bar, error) {
	if interval == "" {
		interval = DefaultInterval
	}
	var bars []domain.Bar
	for year := start.Year(); year <= end.Year(); year++ {
		path := s.barPath(symbol, interval, year)

		records, err := readParquetFile[BarRecord](path)
		if err != nil {
			// File doesn't exist for this year — skip.
			continue
		}

		for _, r := range records {
			ts := time.Unix(r.Timestamp, 0).UTC()
			if (ts.Equal(start) || ts.After(start)) && (ts.Equal(end) || ts.Before(end)) {
				bars = append(bars, domain.Bar{
					Symbol:    r.Symbol,
					Timestamp: r.Timestamp,
					Date:      r.Date,
					Open:      r.Open,
					High:      r.High,
					Low:       r.Low,
					Close:     r.Close,
					Volume:    r.Volume,
					Source:    r.Source,
					Interval:  r.Interval,
				})
			}
		}
	}
	return bars, nil
}

// ListSymbols lists all symbols that have bar data for the default interval.
func (s *ParquetStore) ListSymbols(_ context.Context) ([]string, error) {
	dir := filepath.Join(s.DataDir, "bars", DefaultInterval)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var symbols []string
	for _, e := range entries {
		if e.IsDir() {
			symbols = append(symbols, e.Name())
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}

// barPath returns the filesystem path for a bar Parquet file.
// Layout: <dataDir>/bars/<interval>/<SYMBOL>/<YYYY>.parquet
func (s *ParquetStore) barPath(symbol, interval string, year int) string {
	return filepath.Join(s.DataDir, "bars", interval, strings.ToUpper(symbol), fmt.Sprintf("%d.parquet", year))
}

// ---------------------------------------------------------------------------
// Parquet file helpers
// ---------------------------------------------------------------------------

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}

func readParquetFile[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// mergeBarRecords deduplicates bar records by (symbol, interval, timestamp),
// preferring new records over existing ones. Results are sorted by timestamp.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	type key struct {
		symbol   string
		interval string
		ts       int64
	}
	seen := make(map[key]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Symbol, r.Interval, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Symbol, r.Interval, r.Timestamp}] = r
	}

	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
