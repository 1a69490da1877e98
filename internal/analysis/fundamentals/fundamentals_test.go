package fundamentals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-advisor/internal/models"
)

func TestNilRatiosYieldExactNeutral(t *testing.T) {
	c := NewCalculator()

	for _, ratios := range []*models.FinancialRatios{nil, {}} {
		score := c.Calculate(ratios)
		assert.Equal(t, 50.0, score.Score)
		assert.Equal(t, 50.0, score.Components.Profitability)
		assert.Equal(t, 50.0, score.Components.Growth)
		assert.Equal(t, 50.0, score.Components.Valuation)
		assert.Equal(t, 50.0, score.Components.Health)
	}
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-9)
}

func TestStrongRatiosClampEverySubScore(t *testing.T) {
	c := NewCalculator()

	score := c.Calculate(&models.FinancialRatios{
		ReturnOnEquity:  models.Ratio(25),
		NetProfitMargin: models.Ratio(22),
		RevenueGrowth:   models.Ratio(35),
		EPSGrowth:       models.Ratio(20),
		PERatio:         models.Ratio(8),
		PBRatio:         models.Ratio(1.2),
		CurrentRatio:    models.Ratio(2.5),
		DebtToEquity:    models.Ratio(0.2),
	})

	assert.Equal(t, 100.0, score.Components.Profitability)
	assert.Equal(t, 100.0, score.Components.Growth)
	assert.Equal(t, 100.0, score.Components.Valuation)
	assert.Equal(t, 100.0, score.Components.Health)
	assert.Equal(t, 100.0, score.Score)
}

func TestWeakRatiosScoreLow(t *testing.T) {
	c := NewCalculator()

	score := c.Calculate(&models.FinancialRatios{
		ReturnOnEquity:  models.Ratio(2),
		NetProfitMargin: models.Ratio(-5),
		RevenueGrowth:   models.Ratio(-10),
		EPSGrowth:       models.Ratio(-20),
		PERatio:         models.Ratio(45),
		CurrentRatio:    models.Ratio(0.8),
		DebtToEquity:    models.Ratio(3.0),
	})

	assert.Less(t, score.Components.Profitability, 50.0)
	assert.Less(t, score.Components.Growth, 50.0)
	assert.Less(t, score.Components.Valuation, 50.0)
	assert.Less(t, score.Components.Health, 50.0)
	assert.Less(t, score.Score, 50.0)
	assert.GreaterOrEqual(t, score.Score, 0.0)
}

func TestValuationLadder(t *testing.T) {
	c := NewCalculator()

	cases := []struct {
		pe    float64
		floor float64
		ceil  float64
	}{
		{-5, 40, 40},  // negative earnings
		{8, 90, 100},  // deep value
		{12, 75, 100}, // cheap
		{25, 45, 60},  // fair
		{50, 0, 40},   // expensive
	}
	for _, tc := range cases {
		score := c.Calculate(&models.FinancialRatios{PERatio: models.Ratio(tc.pe)})
		v := score.Components.Valuation
		require.GreaterOrEqual(t, v, tc.floor, "pe=%.0f", tc.pe)
		require.LessOrEqual(t, v, tc.ceil, "pe=%.0f", tc.pe)
	}
}

func TestPartialRatiosLeaveOtherComponentsNeutral(t *testing.T) {
	c := NewCalculator()

	score := c.Calculate(&models.FinancialRatios{
		ReturnOnEquity: models.Ratio(25),
	})

	assert.Greater(t, score.Components.Profitability, 50.0)
	assert.Equal(t, 50.0, score.Components.Growth)
	assert.Equal(t, 50.0, score.Components.Valuation)
	assert.Equal(t, 50.0, score.Components.Health)
}
