package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trade-advisor/internal/models"
)

func TestHighVIXOverridesEverything(t *testing.T) {
	c := NewClassifier()

	// Strong bull tape, but VIX above 30 wins on precedence.
	result := c.Classify(models.MarketSnapshot{
		SPYChange: 2.0,
		VIX:       31,
		Advancers: 2500,
		Decliners: 500,
	})

	assert.Equal(t, HighVolatility, result.Regime)
	assert.Equal(t, 75.0, result.Confidence)
	assert.Equal(t, VolHigh, result.VolatilityLevel)
}

func TestQuietTapeIsLowVolatility(t *testing.T) {
	c := NewClassifier()

	result := c.Classify(models.MarketSnapshot{
		SPYChange: 0.3,
		VIX:       15,
	})

	assert.Equal(t, LowVolatility, result.Regime)
	assert.Equal(t, 70.0, result.Confidence)
	assert.Equal(t, VolMedium, result.VolatilityLevel)
	assert.Equal(t, TrendWeak, result.TrendStrength)
}

func TestConfirmedTrends(t *testing.T) {
	c := NewClassifier()

	bull := c.Classify(models.MarketSnapshot{
		SPYChange: 1.2,
		VIX:       22,
		Advancers: 2200,
		Decliners: 800,
	})
	assert.Equal(t, TrendingBull, bull.Regime)
	assert.Equal(t, 80.0, bull.Confidence)
	assert.Equal(t, TrendModerate, bull.TrendStrength)

	bear := c.Classify(models.MarketSnapshot{
		SPYChange: -1.6,
		VIX:       24,
		Advancers: 700,
		Decliners: 2300,
	})
	assert.Equal(t, TrendingBear, bear.Regime)
	assert.Equal(t, 80.0, bear.Confidence)
	assert.Equal(t, TrendStrong, bear.TrendStrength)
}

func TestUnconfirmedMoveIsRangeBound(t *testing.T) {
	c := NewClassifier()

	// Big up move without breadth confirmation falls through.
	result := c.Classify(models.MarketSnapshot{
		SPYChange: 1.2,
		VIX:       22,
		Advancers: 1500,
		Decliners: 1500,
	})

	assert.Equal(t, RangeBound, result.Regime)
	assert.Equal(t, 60.0, result.Confidence)
	assert.NotEmpty(t, result.Characteristics)
	assert.NotEmpty(t, result.StrategySuggestions)
}

func TestEmptyBreadthFeedIsNeutral(t *testing.T) {
	assert.Equal(t, 0.5, models.MarketSnapshot{}.BreadthRatio())
}

func TestClassifierIsStateless(t *testing.T) {
	c := NewClassifier()
	snap := models.MarketSnapshot{SPYChange: 0.1, VIX: 18}

	first := c.Classify(snap)
	second := c.Classify(snap)
	assert.Equal(t, first, second)
}
