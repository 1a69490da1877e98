package strategy

import (
	"fmt"

	"trade-advisor/internal/analysis/regime"
	"trade-advisor/internal/models"
)

// AdjusterConfig names every factor the regime adjuster applies. Values are
// multiplicative unless the name says otherwise.
type AdjusterConfig struct {
	HighVolStopWiden    float64 `mapstructure:"high_vol_stop_widen"`
	HighVolPositionCut  float64 `mapstructure:"high_vol_position_cut"`
	LowVolStopTighten   float64 `mapstructure:"low_vol_stop_tighten"`
	BullConfidenceBoost float64 `mapstructure:"bull_confidence_boost"`
	BearConfidenceCut   float64 `mapstructure:"bear_confidence_cut"`
	BearLongStopTighten float64 `mapstructure:"bear_long_stop_tighten"`
}

// DefaultAdjusterConfig returns the standard regime adjustment factors.
func DefaultAdjusterConfig() AdjusterConfig {
	return AdjusterConfig{
		HighVolStopWiden:    1.5,
		HighVolPositionCut:  0.6,
		LowVolStopTighten:   0.8,
		BullConfidenceBoost: 10,
		BearConfidenceCut:   15,
		BearLongStopTighten: 0.9,
	}
}

// Adjuster applies regime-specific modifications to a strategy.
type Adjuster struct {
	cfg AdjusterConfig
}

// NewAdjuster creates an adjuster with the default factors.
func NewAdjuster() *Adjuster {
	return &Adjuster{cfg: DefaultAdjusterConfig()}
}

// NewAdjusterWithConfig creates an adjuster with explicit factors.
func NewAdjusterWithConfig(cfg AdjusterConfig) *Adjuster {
	return &Adjuster{cfg: cfg}
}

// AdjustForRegime returns a new strategy adapted to the market regime. The
// input strategy is never modified, so applying the adjustment twice to the
// same input yields the same result.
//
// High volatility widens the stop and cuts position size. Low volatility
// tightens the stop. Bull regimes boost confidence for longs; bear regimes
// cut confidence and tighten long stops. Range-bound markets only get an
// advisory note. Every applied adjustment appends a note explaining it.
func (a *Adjuster) AdjustForRegime(s *models.TradingStrategy, r *regime.Result) *models.TradingStrategy {
	adjusted := s.Clone()
	if r == nil {
		return adjusted
	}

	switch r.Regime {
	case regime.HighVolatility:
		adjusted.StopLoss.Percentage *= a.cfg.HighVolStopWiden
		adjusted.Sizing.RecommendedPosition *= a.cfg.HighVolPositionCut
		adjusted.Notes = append(adjusted.Notes,
			fmt.Sprintf("High volatility regime: stop widened %.1fx, position reduced to %.1f%%",
				a.cfg.HighVolStopWiden, adjusted.Sizing.RecommendedPosition))

	case regime.LowVolatility:
		adjusted.StopLoss.Percentage *= a.cfg.LowVolStopTighten
		adjusted.Notes = append(adjusted.Notes,
			fmt.Sprintf("Low volatility regime: stop tightened to %.2f%%", adjusted.StopLoss.Percentage))

	case regime.TrendingBull:
		adjusted.Confidence = clampConfidence(adjusted.Confidence + a.cfg.BullConfidenceBoost)
		adjusted.Notes = append(adjusted.Notes,
			fmt.Sprintf("Bull trend regime: confidence raised to %.0f", adjusted.Confidence))

	case regime.TrendingBear:
		adjusted.Confidence = clampConfidence(adjusted.Confidence - a.cfg.BearConfidenceCut)
		note := fmt.Sprintf("Bear trend regime: confidence cut to %.0f", adjusted.Confidence)
		if adjusted.Side == models.SideLong {
			adjusted.StopLoss.Percentage *= a.cfg.BearLongStopTighten
			note = fmt.Sprintf("%s, long stop tightened to %.2f%%", note, adjusted.StopLoss.Percentage)
		}
		adjusted.Notes = append(adjusted.Notes, note)

	case regime.RangeBound:
		adjusted.Notes = append(adjusted.Notes,
			"Range-bound regime: favor mean reversion, take profits at range extremes")
	}

	// Keep the stop price consistent with the adjusted percentage.
	if adjusted.StopLoss.Percentage != s.StopLoss.Percentage && adjusted.Entry > 0 {
		distance := adjusted.Entry * adjusted.StopLoss.Percentage / 100
		if adjusted.Side == models.SideShort {
			adjusted.StopLoss.Price = adjusted.Entry + distance
		} else {
			adjusted.StopLoss.Price = adjusted.Entry - distance
		}
	}

	return adjusted
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
