// Package scoring combines the four factor scores into a composite score
// and discrete rating.
package scoring

import (
	"trade-advisor/internal/analysis"
	"trade-advisor/internal/analysis/fundamentals"
	"trade-advisor/internal/analysis/indicators"
	"trade-advisor/internal/analysis/patterns"
	"trade-advisor/internal/analysis/sentiment"
)

// FactorWeights holds the weights of the composite blend. They must sum
// to 1.0.
type FactorWeights struct {
	Fundamental float64 `mapstructure:"fundamental"`
	Technical   float64 `mapstructure:"technical"`
	Sentiment   float64 `mapstructure:"sentiment"`
	Pattern     float64 `mapstructure:"pattern"`
}

// DefaultFactorWeights returns the default composite weights.
func DefaultFactorWeights() FactorWeights {
	return FactorWeights{
		Fundamental: 0.20,
		Technical:   0.35,
		Sentiment:   0.20,
		Pattern:     0.25,
	}
}

// Sum returns the total of all factor weights.
func (w FactorWeights) Sum() float64 {
	return w.Fundamental + w.Technical + w.Sentiment + w.Pattern
}

// RatingThresholds holds the composite boundaries for each rating bucket.
type RatingThresholds struct {
	StrongBuy float64 `mapstructure:"strong_buy"`
	Buy       float64 `mapstructure:"buy"`
	Hold      float64 `mapstructure:"hold"`
	Sell      float64 `mapstructure:"sell"`
}

// DefaultRatingThresholds returns the default rating boundaries.
func DefaultRatingThresholds() RatingThresholds {
	return RatingThresholds{
		StrongBuy: 75,
		Buy:       60,
		Hold:      40,
		Sell:      25,
	}
}

// FactorDetail is one factor's score with its component breakdown.
type FactorDetail struct {
	Score      float64
	Components map[string]float64
}

// FactorScores aggregates the four factor scores, the composite, and the
// rating. It is purely derived; nothing is persisted.
type FactorScores struct {
	Fundamental FactorDetail
	Technical   FactorDetail
	Sentiment   FactorDetail
	Pattern     FactorDetail
	Composite   float64
	Rating      analysis.Rating
}

// Inputs carries the already-computed sub-results for composition.
type Inputs struct {
	Fundamental *fundamentals.Score
	Technical   *indicators.Snapshot
	Sentiment   *sentiment.Score
	Patterns    []analysis.Pattern
}

// Scorer composes factor scores into a composite rating.
type Scorer struct {
	weights    FactorWeights
	thresholds RatingThresholds
	patterns   *patterns.Detector
}

// NewScorer creates a scorer with default weights and thresholds.
func NewScorer() *Scorer {
	return &Scorer{
		weights:    DefaultFactorWeights(),
		thresholds: DefaultRatingThresholds(),
		patterns:   patterns.NewDetector(),
	}
}

// NewScorerWithWeights creates a scorer with custom weights and
// thresholds.
func NewScorerWithWeights(w FactorWeights, t RatingThresholds) *Scorer {
	return &Scorer{
		weights:    w,
		thresholds: t,
		patterns:   patterns.NewDetector(),
	}
}

// Generate composes already-computed sub-results into factor scores. It
// never fails: nil sub-results contribute a neutral 50.
func (s *Scorer) Generate(in Inputs) *FactorScores {
	out := &FactorScores{
		Fundamental: FactorDetail{Score: 50},
		Technical:   FactorDetail{Score: 50},
		Sentiment:   FactorDetail{Score: 50},
		Pattern:     FactorDetail{Score: 50},
	}

	if in.Fundamental != nil {
		out.Fundamental = FactorDetail{
			Score: in.Fundamental.Score,
			Components: map[string]float64{
				"profitability": in.Fundamental.Components.Profitability,
				"growth":        in.Fundamental.Components.Growth,
				"valuation":     in.Fundamental.Components.Valuation,
				"health":        in.Fundamental.Components.Health,
			},
		}
	}
	if in.Technical != nil {
		out.Technical = FactorDetail{
			Score:      in.Technical.Score,
			Components: in.Technical.Components,
		}
	}
	if in.Sentiment != nil {
		out.Sentiment = FactorDetail{
			Score: in.Sentiment.Score,
			Components: map[string]float64{
				"news":    in.Sentiment.News.Score,
				"analyst": in.Sentiment.Analyst.Score,
				"insider": in.Sentiment.Insider.Score,
				"social":  in.Sentiment.Social.Score,
			},
		}
	}
	out.Pattern = FactorDetail{
		Score: s.patterns.Score(in.Patterns),
		Components: map[string]float64{
			"count": float64(len(in.Patterns)),
		},
	}

	out.Composite, out.Rating = s.Composite(
		out.Fundamental.Score, out.Technical.Score, out.Sentiment.Score, out.Pattern.Score)

	return out
}

// Composite blends the four factor scores and buckets the result into a
// rating.
func (s *Scorer) Composite(fundamental, technical, sentimentScore, pattern float64) (float64, analysis.Rating) {
	composite := analysis.Clamp(
		fundamental*s.weights.Fundamental +
			technical*s.weights.Technical +
			sentimentScore*s.weights.Sentiment +
			pattern*s.weights.Pattern)
	return composite, s.Rate(composite)
}

// Rate buckets a composite score into a discrete rating.
func (s *Scorer) Rate(composite float64) analysis.Rating {
	switch {
	case composite >= s.thresholds.StrongBuy:
		return analysis.RatingStrongBuy
	case composite >= s.thresholds.Buy:
		return analysis.RatingBuy
	case composite >= s.thresholds.Hold:
		return analysis.RatingHold
	case composite >= s.thresholds.Sell:
		return analysis.RatingSell
	default:
		return analysis.RatingStrongSell
	}
}
