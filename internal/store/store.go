// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"encoding/json"
	"time"

	"trade-advisor/internal/models"
)

// AnalysisRecord is one persisted analysis run. Payload carries the full
// report as JSON so the schema does not chase every report field.
type AnalysisRecord struct {
	ID        int64
	Symbol    string
	Composite float64
	Rating    string
	Regime    string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// StrategyRecord is one persisted strategy, linked to the analysis run
// that produced it.
type StrategyRecord struct {
	ID         int64
	AnalysisID int64
	Symbol     string
	Side       string
	Payload    json.RawMessage
	CreatedAt  time.Time
}

// AnalysisFilter restricts analysis history queries.
type AnalysisFilter struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// DataStore defines the interface for advisor persistence.
type DataStore interface {
	// Candles
	SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error)

	// Analysis history
	SaveAnalysis(ctx context.Context, rec *AnalysisRecord) (int64, error)
	GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error)

	// Strategies
	SaveStrategy(ctx context.Context, rec *StrategyRecord) (int64, error)
	GetStrategies(ctx context.Context, symbol string, limit int) ([]StrategyRecord, error)

	// Lifecycle
	Close() error
}
