package advisor

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-advisor/internal/analysis/regime"
	"trade-advisor/internal/analysis/sentiment"
	"trade-advisor/internal/config"
	"trade-advisor/internal/models"
)

func trendingCandles(n int) []models.Candle {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	price := 100.0
	for i := 0; i < n; i++ {
		open := price
		close := price + 0.3 + 0.5*math.Sin(float64(i)/7)
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      open,
			High:      math.Max(open, close) + 1,
			Low:       math.Min(open, close) - 1,
			Close:     close,
			Volume:    1_000_000,
		}
		price = close
	}
	return candles
}

func TestAnalyzeFullPipeline(t *testing.T) {
	a := New(config.Default(), nil, nil)

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	report, err := a.Analyze(context.Background(), Inputs{
		Symbol:  "ACME",
		Candles: trendingCandles(250),
		Ratios: &models.FinancialRatios{
			ReturnOnEquity: models.Ratio(18),
			RevenueGrowth:  models.Ratio(12),
			PERatio:        models.Ratio(18),
			CurrentRatio:   models.Ratio(1.8),
		},
		Sentiment: sentiment.Inputs{
			News: []models.NewsArticle{
				{Headline: "ACME beats estimates", Sentiment: "positive", PublishedAt: now},
			},
		},
		Market: &models.MarketSnapshot{
			SPYChange: 1.0,
			VIX:       18,
			Advancers: 2100,
			Decliners: 900,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, "ACME", report.Symbol)
	assert.Greater(t, report.Price, 0.0)
	assert.Empty(t, report.Warnings)

	require.NotNil(t, report.Scores)
	assert.GreaterOrEqual(t, report.Scores.Composite, 0.0)
	assert.LessOrEqual(t, report.Scores.Composite, 100.0)

	require.NotNil(t, report.Technical)
	require.NotNil(t, report.Sentiment)
	require.NotNil(t, report.Fundamental)
	require.NotNil(t, report.Regime)
	assert.Equal(t, regime.TrendingBull, report.Regime.Regime)

	require.NotNil(t, report.Strategy)
	assert.Equal(t, "ACME", report.Strategy.Symbol)
	assert.NotEmpty(t, report.Strategy.Notes, "regime adjustment must leave a note")
}

func TestAnalyzeWithShortHistoryDegradesToWarnings(t *testing.T) {
	a := New(config.Default(), nil, nil)

	report, err := a.Analyze(context.Background(), Inputs{
		Symbol:  "ACME",
		Candles: trendingCandles(50),
	})
	require.NoError(t, err)

	assert.Nil(t, report.Technical)
	assert.Nil(t, report.Strategy)
	assert.NotEmpty(t, report.Warnings)

	// Factor scores still compose, with the technical factor neutral.
	require.NotNil(t, report.Scores)
	assert.Equal(t, 50.0, report.Scores.Technical.Score)
}

func TestAnalyzeWithoutMarketSkipsRegime(t *testing.T) {
	a := New(config.Default(), nil, nil)

	report, err := a.Analyze(context.Background(), Inputs{
		Symbol:  "ACME",
		Candles: trendingCandles(250),
	})
	require.NoError(t, err)

	assert.Nil(t, report.Regime)
	require.NotNil(t, report.Strategy)
	// No regime means no adjustment notes.
	assert.Empty(t, report.Strategy.Notes)
}
