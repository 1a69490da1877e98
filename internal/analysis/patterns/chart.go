// Package patterns provides chart, candlestick, and volume pattern
// detection over candle series.
package patterns

import (
	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

// ChartDetector detects multi-bar chart patterns: double tops and bottoms,
// head-and-shoulders, and ascending/descending triangles.
type ChartDetector struct {
	minDoubleBars   int     // minimum bars for double top/bottom and triangles
	minHSBars       int     // minimum bars for head-and-shoulders
	extremeTol      float64 // relative tolerance for matching extremes
	shoulderTol     float64 // relative tolerance for matching shoulders
	headProminence  float64 // how far the head must exceed the shoulders
	touchTol        float64 // tolerance for counting boundary touches
	minTouches      int     // touches needed for a flat triangle boundary
	breakoutPercent float64 // target offset beyond the boundary
}

// NewChartDetector creates a chart pattern detector with default
// thresholds.
func NewChartDetector() *ChartDetector {
	return &ChartDetector{
		minDoubleBars:   30,
		minHSBars:       50,
		extremeTol:      0.03,
		shoulderTol:     0.05,
		headProminence:  0.03,
		touchTol:        0.01,
		minTouches:      3,
		breakoutPercent: 0.05,
	}
}

// Detect scans the series for chart patterns. Series shorter than the
// per-pattern minimums yield fewer or no patterns.
func (d *ChartDetector) Detect(candles []models.Candle, currentPrice float64) []analysis.Pattern {
	var out []analysis.Pattern

	if len(candles) >= d.minDoubleBars {
		if p := d.detectDoubleBottom(candles, currentPrice); p != nil {
			out = append(out, *p)
		}
		if p := d.detectDoubleTop(candles, currentPrice); p != nil {
			out = append(out, *p)
		}
		if p := d.detectTriangle(candles, currentPrice); p != nil {
			out = append(out, *p)
		}
	}
	if len(candles) >= d.minHSBars {
		if p := d.detectHeadAndShoulders(candles, currentPrice); p != nil {
			out = append(out, *p)
		}
	}

	return out
}

// detectDoubleBottom looks for two lows in the two halves of the window
// within tolerance of each other, with price having recovered above both.
func (d *ChartDetector) detectDoubleBottom(candles []models.Candle, price float64) *analysis.Pattern {
	window := tail(candles, d.minDoubleBars*2)
	half := len(window) / 2

	low1 := lowestLow(window[:half])
	low2 := lowestLow(window[half:])
	if low1 <= 0 || low2 <= 0 {
		return nil
	}

	if relDiff(low1, low2) > d.extremeTol {
		return nil
	}
	support := minf(low1, low2)
	if price <= support {
		return nil
	}

	return &analysis.Pattern{
		Type:              "double_bottom",
		Direction:         analysis.PatternBullish,
		Confidence:        analysis.ConfidenceMedium,
		Category:          analysis.CategoryChart,
		Target:            price * (1 + d.breakoutPercent),
		Invalidation:      support,
		Description:       "Two matched lows forming a support base",
		FormationProgress: 80,
	}
}

// detectDoubleTop is the mirror of detectDoubleBottom.
func (d *ChartDetector) detectDoubleTop(candles []models.Candle, price float64) *analysis.Pattern {
	window := tail(candles, d.minDoubleBars*2)
	half := len(window) / 2

	high1 := highestHigh(window[:half])
	high2 := highestHigh(window[half:])
	if high1 <= 0 || high2 <= 0 {
		return nil
	}

	if relDiff(high1, high2) > d.extremeTol {
		return nil
	}
	resistance := maxf(high1, high2)
	if price >= resistance {
		return nil
	}

	return &analysis.Pattern{
		Type:              "double_top",
		Direction:         analysis.PatternBearish,
		Confidence:        analysis.ConfidenceMedium,
		Category:          analysis.CategoryChart,
		Target:            price * (1 - d.breakoutPercent),
		Invalidation:      resistance,
		Description:       "Two matched highs forming a resistance ceiling",
		FormationProgress: 80,
	}
}

// detectHeadAndShoulders splits the window into thirds: the middle peak
// must exceed both outer peaks by the prominence threshold, and the outer
// peaks must match within tolerance.
func (d *ChartDetector) detectHeadAndShoulders(candles []models.Candle, price float64) *analysis.Pattern {
	window := tail(candles, d.minHSBars+10)
	third := len(window) / 3
	if third == 0 {
		return nil
	}

	left := highestHigh(window[:third])
	head := highestHigh(window[third : 2*third])
	right := highestHigh(window[2*third:])
	if left <= 0 || head <= 0 || right <= 0 {
		return nil
	}

	if head <= left*(1+d.headProminence) || head <= right*(1+d.headProminence) {
		return nil
	}
	if relDiff(left, right) > d.shoulderTol {
		return nil
	}

	return &analysis.Pattern{
		Type:              "head_and_shoulders",
		Direction:         analysis.PatternBearish,
		Confidence:        analysis.ConfidenceHigh,
		Category:          analysis.CategoryChart,
		Target:            price * (1 - d.breakoutPercent),
		Invalidation:      head,
		Description:       "Central peak flanked by two matched shoulders",
		FormationProgress: 85,
	}
}

// detectTriangle looks for a flat boundary with enough touches and the
// opposite boundary sloping toward it.
func (d *ChartDetector) detectTriangle(candles []models.Candle, price float64) *analysis.Pattern {
	window := tail(candles, d.minDoubleBars)
	half := len(window) / 2

	resistance := highestHigh(window)
	support := lowestLow(window)
	if resistance <= 0 || support <= 0 || resistance == support {
		return nil
	}

	highTouches := 0
	lowTouches := 0
	for _, c := range window {
		if relDiff(c.High, resistance) <= d.touchTol {
			highTouches++
		}
		if relDiff(c.Low, support) <= d.touchTol {
			lowTouches++
		}
	}

	firstHalfLow := lowestLow(window[:half])
	secondHalfLow := lowestLow(window[half:])
	firstHalfHigh := highestHigh(window[:half])
	secondHalfHigh := highestHigh(window[half:])

	// Ascending: flat resistance, rising lows.
	if highTouches >= d.minTouches && secondHalfLow > firstHalfLow {
		return &analysis.Pattern{
			Type:              "ascending_triangle",
			Direction:         analysis.PatternBullish,
			Confidence:        analysis.ConfidenceMedium,
			Category:          analysis.CategoryChart,
			Target:            resistance * (1 + d.breakoutPercent),
			Invalidation:      secondHalfLow,
			Description:       "Flat resistance with rising support",
			FormationProgress: 75,
		}
	}

	// Descending: flat support, falling highs.
	if lowTouches >= d.minTouches && secondHalfHigh < firstHalfHigh {
		return &analysis.Pattern{
			Type:              "descending_triangle",
			Direction:         analysis.PatternBearish,
			Confidence:        analysis.ConfidenceMedium,
			Category:          analysis.CategoryChart,
			Target:            support * (1 - d.breakoutPercent),
			Invalidation:      secondHalfHigh,
			Description:       "Flat support with falling resistance",
			FormationProgress: 75,
		}
	}

	return nil
}

func tail(candles []models.Candle, n int) []models.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}

func lowestLow(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	low := candles[0].Low
	for _, c := range candles[1:] {
		if c.Low < low {
			low = c.Low
		}
	}
	return low
}

func highestHigh(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}
	high := candles[0].High
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
	}
	return high
}

// relDiff returns |a-b| relative to the larger magnitude.
func relDiff(a, b float64) float64 {
	base := maxf(abs(a), abs(b))
	if base == 0 {
		return 0
	}
	return abs(a-b) / base
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
