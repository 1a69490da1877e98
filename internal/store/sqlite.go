package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "trade-advisor/internal/errors"
	"trade-advisor/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for historical OHLCV data
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- Analysis runs with the full report as JSON
	CREATE TABLE IF NOT EXISTS analyses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		composite REAL NOT NULL,
		rating TEXT NOT NULL,
		regime TEXT,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Strategies linked to the analysis run that produced them
	CREATE TABLE IF NOT EXISTS strategies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		analysis_id INTEGER REFERENCES analyses(id),
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_candles_lookup ON candles(symbol, timeframe, timestamp);
	CREATE INDEX IF NOT EXISTS idx_analyses_symbol ON analyses(symbol, created_at);
	CREATE INDEX IF NOT EXISTS idx_strategies_symbol ON strategies(symbol, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveCandles upserts a batch of candles inside a single transaction.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol, timeframe, timestamp) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare candle insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx, symbol, timeframe, c.Timestamp,
			c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("insert candle: %w", err)
		}
	}
	return tx.Commit()
}

// GetCandles returns candles for the window ordered oldest first.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`, symbol, timeframe, from, to)
	if err != nil {
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	var out []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no candles for %s/%s", apperrors.ErrNoData, symbol, timeframe)
	}
	return out, nil
}

// SaveAnalysis persists an analysis record and returns its row id.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, rec *AnalysisRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (symbol, composite, rating, regime, payload)
		VALUES (?, ?, ?, ?, ?)`,
		rec.Symbol, rec.Composite, rec.Rating, rec.Regime, string(rec.Payload))
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	return res.LastInsertId()
}

// GetAnalyses returns analysis records newest first.
func (s *SQLiteStore) GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error) {
	query := `SELECT id, symbol, composite, rating, regime, payload, created_at FROM analyses WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.EndDate)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var payload string
		var regime sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Composite, &rec.Rating,
			&regime, &payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		rec.Regime = regime.String
		rec.Payload = []byte(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveStrategy persists a strategy record and returns its row id.
func (s *SQLiteStore) SaveStrategy(ctx context.Context, rec *StrategyRecord) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO strategies (analysis_id, symbol, side, payload)
		VALUES (?, ?, ?, ?)`,
		rec.AnalysisID, rec.Symbol, rec.Side, string(rec.Payload))
	if err != nil {
		return 0, fmt.Errorf("insert strategy: %w", err)
	}
	return res.LastInsertId()
}

// GetStrategies returns the most recent strategies for a symbol.
func (s *SQLiteStore) GetStrategies(ctx context.Context, symbol string, limit int) ([]StrategyRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, analysis_id, symbol, side, payload, created_at
		FROM strategies WHERE symbol = ?
		ORDER BY created_at DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query strategies: %w", err)
	}
	defer rows.Close()

	var out []StrategyRecord
	for rows.Next() {
		var rec StrategyRecord
		var payload string
		var analysisID sql.NullInt64
		if err := rows.Scan(&rec.ID, &analysisID, &rec.Symbol, &rec.Side,
			&payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan strategy: %w", err)
		}
		rec.AnalysisID = analysisID.Int64
		rec.Payload = []byte(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}
