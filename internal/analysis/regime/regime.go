// Package regime classifies broad market conditions into a discrete
// regime used to scale strategy risk parameters.
package regime

import (
	"trade-advisor/internal/models"
)

// Regime is a discrete classification of overall market conditions.
type Regime string

const (
	TrendingBull   Regime = "trending_bull"
	TrendingBear   Regime = "trending_bear"
	RangeBound     Regime = "range_bound"
	HighVolatility Regime = "high_volatility"
	LowVolatility  Regime = "low_volatility"
)

// VolatilityLevel is the VIX-tier volatility bucket, computed alongside
// but independently of the regime pick.
type VolatilityLevel string

const (
	VolLow    VolatilityLevel = "low"
	VolMedium VolatilityLevel = "medium"
	VolHigh   VolatilityLevel = "high"
)

// TrendStrength is the |SPY change| tier bucket.
type TrendStrength string

const (
	TrendWeak     TrendStrength = "weak"
	TrendModerate TrendStrength = "moderate"
	TrendStrong   TrendStrength = "strong"
)

// Thresholds holds the classification boundaries.
type Thresholds struct {
	VIXHigh          float64 `mapstructure:"vix_high"`           // above: high_volatility
	VIXLow           float64 `mapstructure:"vix_low"`            // below (with quiet tape): low_volatility
	QuietChange      float64 `mapstructure:"quiet_change"`       // |change| below: quiet tape
	TrendChange      float64 `mapstructure:"trend_change"`       // |change| above: trending
	BreadthBull      float64 `mapstructure:"breadth_bull"`       // breadth above: bull confirmation
	BreadthBear      float64 `mapstructure:"breadth_bear"`       // breadth below: bear confirmation
	VolMediumVIX     float64 `mapstructure:"vol_medium_vix"`     // VIX tier boundary low/medium
	VolHighVIX       float64 `mapstructure:"vol_high_vix"`       // VIX tier boundary medium/high
	StrongTrendAbs   float64 `mapstructure:"strong_trend_abs"`   // |change| for strong trend
	ModerateTrendAbs float64 `mapstructure:"moderate_trend_abs"` // |change| for moderate trend
}

// DefaultThresholds returns the default classification boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VIXHigh:          30,
		VIXLow:           20,
		QuietChange:      0.5,
		TrendChange:      0.8,
		BreadthBull:      0.6,
		BreadthBear:      0.4,
		VolMediumVIX:     15,
		VolHighVIX:       25,
		StrongTrendAbs:   1.5,
		ModerateTrendAbs: 0.8,
	}
}

// Result is a full regime classification. It is computed fresh from each
// snapshot; the classifier keeps no history.
type Result struct {
	Regime              Regime
	Confidence          float64 // 0-100
	Characteristics     []string
	StrategySuggestions []string
	VolatilityLevel     VolatilityLevel
	TrendStrength       TrendStrength
}

// Classifier classifies market snapshots. It is stateless and safe for
// concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a classifier with default thresholds.
func NewClassifier() *Classifier {
	return NewClassifierWithThresholds(DefaultThresholds())
}

// NewClassifierWithThresholds creates a classifier with custom thresholds.
func NewClassifierWithThresholds(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify determines the market regime from a snapshot. Precedence:
// extreme VIX first, then quiet tape, then confirmed trends, then
// range-bound as the default.
func (c *Classifier) Classify(m models.MarketSnapshot) *Result {
	t := c.thresholds
	breadth := m.BreadthRatio()
	absChange := m.SPYChange
	if absChange < 0 {
		absChange = -absChange
	}

	res := &Result{
		VolatilityLevel: c.volatilityLevel(m.VIX),
		TrendStrength:   c.trendStrength(absChange),
	}

	switch {
	case m.VIX > t.VIXHigh:
		res.Regime = HighVolatility
		res.Confidence = 75
		res.Characteristics = []string{
			"Elevated VIX",
			"Wide intraday ranges",
			"Correlations rising across sectors",
		}
		res.StrategySuggestions = []string{
			"Reduce position sizes",
			"Widen stops to survive noise",
			"Favor defined-risk structures",
		}
	case m.VIX < t.VIXLow && absChange < t.QuietChange:
		res.Regime = LowVolatility
		res.Confidence = 70
		res.Characteristics = []string{
			"Compressed VIX",
			"Narrow daily ranges",
			"Complacent positioning",
		}
		res.StrategySuggestions = []string{
			"Tighten stops",
			"Watch for volatility expansion",
			"Mean-reversion entries favored",
		}
	case m.SPYChange > t.TrendChange && breadth > t.BreadthBull:
		res.Regime = TrendingBull
		res.Confidence = 80
		res.Characteristics = []string{
			"Broad advance with strong breadth",
			"New highs outpacing new lows",
			"Dips are bought",
		}
		res.StrategySuggestions = []string{
			"Trade with the trend",
			"Buy pullbacks to support",
			"Let winners run",
		}
	case m.SPYChange < -t.TrendChange && breadth < t.BreadthBear:
		res.Regime = TrendingBear
		res.Confidence = 80
		res.Characteristics = []string{
			"Broad decline with weak breadth",
			"New lows expanding",
			"Rallies are sold",
		}
		res.StrategySuggestions = []string{
			"Reduce long exposure",
			"Sell strength rather than weakness",
			"Keep stops tight on longs",
		}
	default:
		res.Regime = RangeBound
		res.Confidence = 60
		res.Characteristics = []string{
			"No dominant direction",
			"Support and resistance respected",
			"Mixed breadth",
		}
		res.StrategySuggestions = []string{
			"Fade range extremes",
			"Take profits at resistance",
			"Avoid breakout chasing until confirmed",
		}
	}

	return res
}

func (c *Classifier) volatilityLevel(vix float64) VolatilityLevel {
	switch {
	case vix > c.thresholds.VolHighVIX:
		return VolHigh
	case vix >= c.thresholds.VolMediumVIX:
		return VolMedium
	default:
		return VolLow
	}
}

func (c *Classifier) trendStrength(absChange float64) TrendStrength {
	switch {
	case absChange >= c.thresholds.StrongTrendAbs:
		return TrendStrong
	case absChange >= c.thresholds.ModerateTrendAbs:
		return TrendModerate
	default:
		return TrendWeak
	}
}
