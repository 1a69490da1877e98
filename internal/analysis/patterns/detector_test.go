package patterns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

func flatCandles(n int, price float64) []models.Candle {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := range candles {
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
			Volume:    1_000_000,
		}
	}
	return candles
}

func TestDetectAllWithTooFewCandles(t *testing.T) {
	d := NewDetector()

	assert.Empty(t, d.DetectAll(nil, 100))
	assert.Empty(t, d.DetectAll(flatCandles(2, 100), 100))
}

func TestDetectAllOnFlatSeries(t *testing.T) {
	d := NewDetector()

	patterns := d.DetectAll(flatCandles(60, 100), 100)

	// A perfectly flat tape has no chart structure; the only signal is the
	// degenerate doji on the final zero-range candle.
	for _, p := range patterns {
		assert.Equal(t, analysis.CategoryCandlestick, p.Category, "unexpected %s pattern", p.Type)
	}
	require.Len(t, patterns, 1)
	assert.Equal(t, "doji", patterns[0].Type)
	assert.Equal(t, analysis.PatternNeutral, patterns[0].Direction)
}

func TestDetectBullishEngulfing(t *testing.T) {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := []models.Candle{
		{Timestamp: base, Open: 100, High: 102, Low: 98, Close: 101, Volume: 1000},
		{Timestamp: base.AddDate(0, 0, 1), Open: 101, High: 102, Low: 99, Close: 100, Volume: 1000},
		{Timestamp: base.AddDate(0, 0, 2), Open: 99.5, High: 103, Low: 99, Close: 102, Volume: 1500},
	}

	d := NewCandlestickDetector()
	patterns := d.Detect(candles, 102)

	var found *analysis.Pattern
	for i := range patterns {
		if patterns[i].Type == "bullish_engulfing" {
			found = &patterns[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, analysis.ConfidenceHigh, found.Confidence)
	assert.Equal(t, analysis.PatternBullish, found.Direction)
	assert.InDelta(t, 102*1.05, found.Target, 1e-9)
	assert.Equal(t, 99.0, found.Invalidation)
}

func TestDetectAllSortsByConfidence(t *testing.T) {
	d := NewDetector()

	// Bearish close engulfing a prior bullish body, on a climactic volume
	// spike: yields HIGH (engulfing), HIGH (climax), and weaker signals.
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	var candles []models.Candle
	price := 100.0
	for i := 0; i < 30; i++ {
		candles = append(candles, models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      price,
			High:      price + 1.5,
			Low:       price - 1.5,
			Close:     price + 0.5,
			Volume:    1_000_000,
		})
		price += 0.5
	}
	// Final bar: bearish engulfing on 4x volume.
	last := candles[len(candles)-1]
	candles = append(candles, models.Candle{
		Timestamp: base.AddDate(0, 0, 30),
		Open:      last.Close + 0.5,
		High:      last.Close + 1,
		Low:       last.Open - 1,
		Close:     last.Open - 0.5,
		Volume:    4_000_000,
	})

	patterns := d.DetectAll(candles, 0)
	require.NotEmpty(t, patterns)

	for i := 1; i < len(patterns); i++ {
		assert.GreaterOrEqual(t,
			patterns[i-1].Confidence.Rank(), patterns[i].Confidence.Rank(),
			"patterns must be sorted by confidence descending")
	}
}

func TestScoreBaseAndBonuses(t *testing.T) {
	d := NewDetector()

	assert.Equal(t, 50.0, d.Score(nil))

	oneHighBullish := []analysis.Pattern{
		{Type: "bullish_engulfing", Confidence: analysis.ConfidenceHigh, Direction: analysis.PatternBullish},
	}
	assert.Equal(t, 75.0, d.Score(oneHighBullish))

	mixed := []analysis.Pattern{
		{Type: "shooting_star", Confidence: analysis.ConfidenceMedium, Direction: analysis.PatternBearish},
		{Type: "doji", Confidence: analysis.ConfidenceLow, Direction: analysis.PatternNeutral},
	}
	// 50 + 8 (medium) - 10 (bearish majority)
	assert.Equal(t, 48.0, d.Score(mixed))
}

func TestScoreClampsAtBounds(t *testing.T) {
	d := NewDetector()

	var many []analysis.Pattern
	for i := 0; i < 10; i++ {
		many = append(many, analysis.Pattern{
			Type:       "bullish_engulfing",
			Confidence: analysis.ConfidenceHigh,
			Direction:  analysis.PatternBullish,
		})
	}
	assert.Equal(t, 100.0, d.Score(many))
}
