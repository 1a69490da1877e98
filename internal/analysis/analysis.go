// Package analysis provides shared types for the analytical pipeline:
// patterns, confidence tiers, and composite ratings.
package analysis

// ConfidenceTier is a pattern's qualitative strength label.
type ConfidenceTier string

const (
	ConfidenceHigh   ConfidenceTier = "HIGH"
	ConfidenceMedium ConfidenceTier = "MEDIUM"
	ConfidenceLow    ConfidenceTier = "LOW"
)

// Rank returns a sortable rank for the tier, higher is stronger.
func (t ConfidenceTier) Rank() int {
	switch t {
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	default:
		return 0
	}
}

// PatternDirection is the expected resolution direction of a pattern.
// Directionality is carried explicitly on the pattern rather than inferred
// from its name at scoring time.
type PatternDirection string

const (
	PatternBullish PatternDirection = "bullish"
	PatternBearish PatternDirection = "bearish"
	PatternNeutral PatternDirection = "neutral"
)

// PatternCategory is the family a pattern belongs to.
type PatternCategory string

const (
	CategoryChart       PatternCategory = "chart"
	CategoryCandlestick PatternCategory = "candlestick"
	CategoryHarmonic    PatternCategory = "harmonic"
	CategoryVolume      PatternCategory = "volume"
)

// Pattern is a detected chart, candlestick, or volume pattern. Patterns are
// recomputed on every analysis pass and never mutated after creation.
type Pattern struct {
	Type              string
	Direction         PatternDirection
	Confidence        ConfidenceTier
	Category          PatternCategory
	Target            float64
	Invalidation      float64
	Description       string
	FormationProgress float64 // 0-100
}

// Rating is the discrete bucketing of a composite score.
type Rating string

const (
	RatingStrongBuy  Rating = "strong_buy"
	RatingBuy        Rating = "buy"
	RatingHold       Rating = "hold"
	RatingSell       Rating = "sell"
	RatingStrongSell Rating = "strong_sell"
)

// Clamp restricts a score to the [0, 100] range.
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
