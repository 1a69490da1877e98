package patterns

import (
	"sort"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

// ScoreConfig holds the pattern-score point values.
type ScoreConfig struct {
	HighPoints      float64 `mapstructure:"high_points"`
	MediumPoints    float64 `mapstructure:"medium_points"`
	DirectionPoints float64 `mapstructure:"direction_points"`
}

// DefaultScoreConfig returns the default pattern scoring configuration.
func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		HighPoints:      15,
		MediumPoints:    8,
		DirectionPoints: 10,
	}
}

// Detector runs the chart, candlestick, and volume sub-detectors over a
// candle series.
type Detector struct {
	chart       *ChartDetector
	candlestick *CandlestickDetector
	volume      *VolumeDetector
	scoreCfg    ScoreConfig
}

// NewDetector creates a pattern detector with default sub-detectors.
func NewDetector() *Detector {
	return &Detector{
		chart:       NewChartDetector(),
		candlestick: NewCandlestickDetector(),
		volume:      NewVolumeDetector(),
		scoreCfg:    DefaultScoreConfig(),
	}
}

// NewDetectorWithScoreConfig creates a pattern detector with explicit
// scoring points.
func NewDetectorWithScoreConfig(cfg ScoreConfig) *Detector {
	d := NewDetector()
	d.scoreCfg = cfg
	return d
}

// DetectAll runs all three sub-scans and returns the concatenated results
// sorted descending by confidence tier, stable within a tier. It never
// fails; insufficient data simply yields fewer or no patterns.
func (d *Detector) DetectAll(candles []models.Candle, currentPrice float64) []analysis.Pattern {
	if len(candles) == 0 {
		return nil
	}
	if currentPrice <= 0 {
		currentPrice = candles[len(candles)-1].Close
	}

	var out []analysis.Pattern
	out = append(out, d.chart.Detect(candles, currentPrice)...)
	out = append(out, d.candlestick.Detect(candles, currentPrice)...)
	out = append(out, d.volume.Detect(candles, currentPrice)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence.Rank() > out[j].Confidence.Rank()
	})

	return out
}

// Score derives the 0-100 pattern score: 50 base, points per high and
// medium confidence pattern, and a directional tilt from the explicit
// pattern directions.
func (d *Detector) Score(patterns []analysis.Pattern) float64 {
	score := 50.0
	bullish := 0
	bearish := 0

	for _, p := range patterns {
		switch p.Confidence {
		case analysis.ConfidenceHigh:
			score += d.scoreCfg.HighPoints
		case analysis.ConfidenceMedium:
			score += d.scoreCfg.MediumPoints
		}
		switch p.Direction {
		case analysis.PatternBullish:
			bullish++
		case analysis.PatternBearish:
			bearish++
		}
	}

	if bullish > bearish {
		score += d.scoreCfg.DirectionPoints
	} else if bearish > bullish {
		score -= d.scoreCfg.DirectionPoints
	}

	return analysis.Clamp(score)
}
