package patterns

import (
	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

// VolumeDetector detects volume-driven patterns: climactic volume spikes
// and price/volume divergences.
type VolumeDetector struct {
	minBars       int     // minimum candles for volume analysis
	climaxRatio   float64 // last-bar volume vs window average for a climax
	divergenceLB  int     // lookback bars for divergence price trend
	volumeDropPct float64 // relative average-volume drop for divergence
}

// NewVolumeDetector creates a volume pattern detector with default
// thresholds.
func NewVolumeDetector() *VolumeDetector {
	return &VolumeDetector{
		minBars:       20,
		climaxRatio:   3.0,
		divergenceLB:  10,
		volumeDropPct: 0.20,
	}
}

// Detect scans the series for volume patterns. Fewer than minBars candles
// yields no patterns.
func (d *VolumeDetector) Detect(candles []models.Candle, currentPrice float64) []analysis.Pattern {
	if len(candles) < d.minBars {
		return nil
	}

	var out []analysis.Pattern

	if p := d.detectClimax(candles, currentPrice); p != nil {
		out = append(out, *p)
	}
	if p := d.detectDivergence(candles, currentPrice); p != nil {
		out = append(out, *p)
	}

	return out
}

// detectClimax flags the last bar when its volume exceeds the window
// average by the climax ratio; direction follows the bar's own close.
func (d *VolumeDetector) detectClimax(candles []models.Candle, price float64) *analysis.Pattern {
	window := tail(candles, d.minBars)
	n := len(window)

	var avg float64
	for _, c := range window[:n-1] {
		avg += float64(c.Volume)
	}
	avg /= float64(n - 1)
	if avg == 0 {
		return nil
	}

	last := window[n-1]
	if float64(last.Volume) < d.climaxRatio*avg {
		return nil
	}

	if last.IsBullish() {
		return &analysis.Pattern{
			Type:              "accumulation_climax",
			Direction:         analysis.PatternBullish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryVolume,
			Target:            price * 1.04,
			Invalidation:      last.Low,
			Description:       "Climactic volume on an advancing bar",
			FormationProgress: 100,
		}
	}
	return &analysis.Pattern{
		Type:              "distribution_climax",
		Direction:         analysis.PatternBearish,
		Confidence:        analysis.ConfidenceHigh,
		Category:          analysis.CategoryVolume,
		Target:            price * 0.96,
		Invalidation:      last.High,
		Description:       "Climactic volume on a declining bar",
		FormationProgress: 100,
	}
}

// detectDivergence compares the price trend over the lookback against the
// volume trend: a directional move on fading volume is suspect.
func (d *VolumeDetector) detectDivergence(candles []models.Candle, price float64) *analysis.Pattern {
	n := len(candles)
	if n < d.divergenceLB {
		return nil
	}

	window := candles[n-d.divergenceLB:]
	half := len(window) / 2

	var earlyVol, lateVol float64
	for _, c := range window[:half] {
		earlyVol += float64(c.Volume)
	}
	earlyVol /= float64(half)
	for _, c := range window[half:] {
		lateVol += float64(c.Volume)
	}
	lateVol /= float64(len(window) - half)

	if earlyVol == 0 || lateVol >= earlyVol*(1-d.volumeDropPct) {
		return nil
	}

	priceDelta := window[len(window)-1].Close - window[0].Close
	if priceDelta > 0 {
		return &analysis.Pattern{
			Type:              "bearish_volume_divergence",
			Direction:         analysis.PatternBearish,
			Confidence:        analysis.ConfidenceMedium,
			Category:          analysis.CategoryVolume,
			Target:            price * 0.97,
			Invalidation:      highestHigh(window),
			Description:       "Advance on declining volume",
			FormationProgress: 100,
		}
	}
	if priceDelta < 0 {
		return &analysis.Pattern{
			Type:              "bullish_volume_divergence",
			Direction:         analysis.PatternBullish,
			Confidence:        analysis.ConfidenceMedium,
			Category:          analysis.CategoryVolume,
			Target:            price * 1.03,
			Invalidation:      lowestLow(window),
			Description:       "Decline on fading volume; selling exhaustion",
			FormationProgress: 100,
		}
	}
	return nil
}
