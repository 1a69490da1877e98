// Package fundamentals derives a 0-100 fundamental score from financial
// ratios.
package fundamentals

import (
	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

// Weights holds the sub-score weights of the fundamental composite.
type Weights struct {
	Profitability float64 `mapstructure:"profitability"`
	Growth        float64 `mapstructure:"growth"`
	Valuation     float64 `mapstructure:"valuation"`
	Health        float64 `mapstructure:"health"`
}

// DefaultWeights returns the default fundamental weights.
func DefaultWeights() Weights {
	return Weights{
		Profitability: 0.30,
		Growth:        0.35,
		Valuation:     0.20,
		Health:        0.15,
	}
}

// Sum returns the total of all sub-score weights.
func (w Weights) Sum() float64 {
	return w.Profitability + w.Growth + w.Valuation + w.Health
}

// Components breaks the fundamental score into its four sub-scores.
type Components struct {
	Profitability float64
	Growth        float64
	Valuation     float64
	Health        float64
}

// Score is the weighted fundamental composite with its breakdown.
type Score struct {
	Score      float64
	Components Components
}

// Calculator computes fundamental scores from sparse ratio records.
type Calculator struct {
	weights Weights
}

// NewCalculator creates a fundamental calculator with default weights.
func NewCalculator() *Calculator {
	return &Calculator{weights: DefaultWeights()}
}

// NewCalculatorWithWeights creates a fundamental calculator with custom
// weights.
func NewCalculatorWithWeights(w Weights) *Calculator {
	return &Calculator{weights: w}
}

const neutral = 50.0

// Calculate derives the fundamental score. A nil ratio record yields a
// fully neutral result; individual missing ratios leave their sub-score at
// the neutral seed. Missing data is never an error.
func (c *Calculator) Calculate(ratios *models.FinancialRatios) *Score {
	if ratios == nil {
		return &Score{
			Score: neutral,
			Components: Components{
				Profitability: neutral,
				Growth:        neutral,
				Valuation:     neutral,
				Health:        neutral,
			},
		}
	}

	comps := Components{
		Profitability: profitabilityScore(ratios),
		Growth:        growthScore(ratios),
		Valuation:     valuationScore(ratios),
		Health:        healthScore(ratios),
	}

	composite := analysis.Clamp(
		comps.Profitability*c.weights.Profitability +
			comps.Growth*c.weights.Growth +
			comps.Valuation*c.weights.Valuation +
			comps.Health*c.weights.Health)

	return &Score{Score: composite, Components: comps}
}

// profitabilityScore ladders ROE and adjusts for net margin.
func profitabilityScore(r *models.FinancialRatios) float64 {
	score := neutral

	if r.ReturnOnEquity != nil {
		roe := *r.ReturnOnEquity
		switch {
		case roe > 20:
			score = 90
		case roe > 15:
			score = 75
		case roe > 10:
			score = 60
		case roe > 5:
			score = 45
		default:
			score = 30
		}
	}

	if r.NetProfitMargin != nil {
		margin := *r.NetProfitMargin
		switch {
		case margin > 20:
			score += 10
		case margin > 10:
			score += 5
		case margin < 0:
			score -= 15
		}
	}

	return analysis.Clamp(score)
}

// growthScore ladders revenue growth and adjusts for EPS growth.
func growthScore(r *models.FinancialRatios) float64 {
	score := neutral

	if r.RevenueGrowth != nil {
		growth := *r.RevenueGrowth
		switch {
		case growth > 30:
			score = 90
		case growth > 15:
			score = 75
		case growth > 8:
			score = 60
		case growth > 0:
			score = 45
		default:
			score = 30
		}
	}

	if r.EPSGrowth != nil {
		eps := *r.EPSGrowth
		switch {
		case eps >= 20:
			score += 10
		case eps > 10:
			score += 5
		case eps < 0:
			score -= 10
		}
	}

	return analysis.Clamp(score)
}

// valuationScore ladders P/E as an inverse-valuation proxy and adjusts for
// P/B and PEG.
func valuationScore(r *models.FinancialRatios) float64 {
	score := neutral

	if r.PERatio != nil {
		pe := *r.PERatio
		switch {
		case pe <= 0:
			// Negative earnings; cheapness is unknowable.
			score = 40
		case pe < 10:
			score = 90
		case pe < 15:
			score = 75
		case pe < 20:
			score = 60
		case pe < 30:
			score = 45
		default:
			score = 30
		}
	}

	if r.PBRatio != nil {
		pb := *r.PBRatio
		switch {
		case pb < 1.5:
			score += 10
		case pb > 8:
			score -= 5
		}
	}

	if r.PEGRatio != nil {
		peg := *r.PEGRatio
		switch {
		case peg > 0 && peg < 1:
			score += 10
		case peg >= 1 && peg < 2:
			score += 5
		case peg > 3:
			score -= 5
		}
	}

	return analysis.Clamp(score)
}

// healthScore ladders current ratio and adjusts for leverage.
func healthScore(r *models.FinancialRatios) float64 {
	score := neutral

	if r.CurrentRatio != nil {
		cr := *r.CurrentRatio
		switch {
		case cr > 2:
			score = 85
		case cr > 1.5:
			score = 70
		case cr > 1:
			score = 55
		default:
			score = 35
		}
	}

	if r.DebtToEquity != nil {
		de := *r.DebtToEquity
		switch {
		case de < 0.3:
			score += 15
		case de < 1:
			score += 5
		case de > 2:
			score -= 15
		}
	}

	return analysis.Clamp(score)
}
