package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"smart100/internal/domain"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// Compile-time interface checks.
var _ BarStore = (*SQLiteStore)(nil)
var _ DecisionStore = (*SQLiteStore)(nil)

// SQLiteStore implements BarStore and DecisionStore backed by a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, runs
// migrations, and returns a ready-to-use SQLiteStore.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating %s: %w", dbPath, err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bars (
			symbol    TEXT NOT NULL,
			interval  TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			date      TEXT NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			volume    REAL NOT NULL,
			source    TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (symbol, interval, timestamp)
		);
		CREATE TABLE IF NOT EXISTS decisions (
			symbol            TEXT PRIMARY KEY,
			timestamp         INTEGER NOT NULL,
			date              TEXT NOT NULL,
			strategy_id       TEXT,
			strategy_name     TEXT,
			parameters        TEXT,
			evaluation_score  REAL,
			evaluation_metric TEXT NOT NULL
		);
	`)
	return err
}

// ---------------------------------------------------------------------------
// BarStore implementation
// ---------------------------------------------------------------------------

// WriteBars upserts a batch of bars inside a single transaction.
func (s *SQLiteStore) WriteBars(ctx context.Context, bars []domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars
			(symbol, interval, timestamp, date, open, high, low, close, volume, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range bars {
		interval := b.Interval
		if interval == "" {
			interval = DefaultInterval
		}
		if _, err := stmt.ExecContext(ctx, b.Symbol, interval, b.Timestamp, b.Date,
			b.Open, b.High, b.Low, b.Close, b.Volume, b.Source); err != nil {
			return fmt.Errorf("inserting bar %s@%d: %w", b.Symbol, b.Timestamp, err)
		}
	}
	return tx.Commit()
}

// ReadBars returns bars ascending by timestamp for the symbol, interval, and
// range.
func (s *SQLiteStore) ReadBars(ctx context.Context, symbol, interval string, start, end time.Time) ([]domain.Bar, error) {
	if interval == "" {
		interval = DefaultInterval
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, interval, timestamp, date, open, high, low, close, volume, source
		FROM bars
		WHERE symbol = ? AND interval = ? AND timestamp BETWEEN ? AND ?
		ORDER BY timestamp ASC`,
		symbol, interval, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []domain.Bar
	for rows.Next() {
		var b domain.Bar
		if err := rows.Scan(&b.Symbol, &b.Interval, &b.Timestamp, &b.Date,
			&b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.Source); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// ListSymbols returns all distinct symbols with stored bars.
func (s *SQLiteStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// ---------------------------------------------------------------------------
// DecisionStore implementation
// ---------------------------------------------------------------------------

// SaveDecision overwrites the stored decision for a symbol.
func (s *SQLiteStore) SaveDecision(ctx context.Context, symbol string, d domain.Decision) error {
	var paramsJSON any
	if d.Parameters != nil {
		data, err := json.Marshal(d.Parameters)
		if err != nil {
			return fmt.Errorf("encoding parameters: %w", err)
		}
		paramsJSON = string(data)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO decisions
			(symbol, timestamp, date, strategy_id, strategy_name, parameters, evaluation_score, evaluation_metric)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		symbol, d.Timestamp, d.Date, d.StrategyID, d.StrategyName, paramsJSON,
		d.EvaluationScore, d.EvaluationMetric)
	return err
}

// GetDecision returns the stored decision for a symbol.
func (s *SQLiteStore) GetDecision(ctx context.Context, symbol string) (domain.Decision, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT timestamp, date, strategy_id, strategy_name, parameters, evaluation_score, evaluation_metric
		FROM decisions WHERE symbol = ?`, symbol)

	var (
		d          domain.Decision
		paramsJSON sql.NullString
	)
	err := row.Scan(&d.Timestamp, &d.Date, &d.StrategyID, &d.StrategyName,
		&paramsJSON, &d.EvaluationScore, &d.EvaluationMetric)
	if err == sql.ErrNoRows {
		return domain.Decision{}, false, nil
	}
	if err != nil {
		return domain.Decision{}, false, err
	}
	if paramsJSON.Valid {
		if err := json.Unmarshal([]byte(paramsJSON.String), &d.Parameters); err != nil {
			return domain.Decision{}, false, fmt.Errorf("decoding parameters: %w", err)
		}
	}
	return d, true, nil
}
