package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/analysis/fundamentals"
	"trade-advisor/internal/analysis/sentiment"
)

func TestDefaultFactorWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultFactorWeights().Sum(), 1e-9)
}

func TestRatingBuckets(t *testing.T) {
	s := NewScorer()

	cases := []struct {
		composite float64
		rating    analysis.Rating
	}{
		{80, analysis.RatingStrongBuy},
		{75, analysis.RatingStrongBuy},
		{65, analysis.RatingBuy},
		{60, analysis.RatingBuy},
		{50, analysis.RatingHold},
		{40, analysis.RatingHold},
		{30, analysis.RatingSell},
		{25, analysis.RatingSell},
		{10, analysis.RatingStrongSell},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.rating, s.Rate(tc.composite), "composite %.0f", tc.composite)
	}
}

func TestCompositeBlendsWithFixedWeights(t *testing.T) {
	s := NewScorer()

	composite, rating := s.Composite(60, 80, 40, 70)
	// 60*0.20 + 80*0.35 + 40*0.20 + 70*0.25
	require.InDelta(t, 65.5, composite, 1e-9)
	assert.Equal(t, analysis.RatingBuy, rating)
}

func TestGenerateDefaultsMissingFactorsToNeutral(t *testing.T) {
	s := NewScorer()

	scores := s.Generate(Inputs{})

	assert.Equal(t, 50.0, scores.Fundamental.Score)
	assert.Equal(t, 50.0, scores.Technical.Score)
	assert.Equal(t, 50.0, scores.Sentiment.Score)
	assert.Equal(t, 50.0, scores.Pattern.Score)
	assert.Equal(t, 50.0, scores.Composite)
	assert.Equal(t, analysis.RatingHold, scores.Rating)
}

func TestGenerateCarriesSubScores(t *testing.T) {
	s := NewScorer()

	scores := s.Generate(Inputs{
		Fundamental: &fundamentals.Score{
			Score: 80,
			Components: fundamentals.Components{
				Profitability: 90, Growth: 80, Valuation: 70, Health: 80,
			},
		},
		Sentiment: &sentiment.Score{Score: 70},
		Patterns: []analysis.Pattern{
			{Type: "bullish_engulfing", Confidence: analysis.ConfidenceHigh, Direction: analysis.PatternBullish},
		},
	})

	assert.Equal(t, 80.0, scores.Fundamental.Score)
	assert.Equal(t, 70.0, scores.Sentiment.Score)
	assert.Equal(t, 75.0, scores.Pattern.Score)
	assert.Equal(t, 50.0, scores.Technical.Score)

	expected := 80*0.20 + 50*0.35 + 70*0.20 + 75*0.25
	assert.InDelta(t, expected, scores.Composite, 1e-9)
}

func TestCompositeClampStaysInRange(t *testing.T) {
	s := NewScorer()

	low, rating := s.Composite(0, 0, 0, 0)
	assert.Equal(t, 0.0, low)
	assert.Equal(t, analysis.RatingStrongSell, rating)

	high, rating := s.Composite(100, 100, 100, 100)
	assert.Equal(t, 100.0, high)
	assert.Equal(t, analysis.RatingStrongBuy, rating)
}
