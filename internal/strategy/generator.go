// Package strategy generates candidate trading strategies and adjusts
// them for the prevailing market regime.
package strategy

import (
	"context"
	"fmt"
	"time"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/analysis/indicators"
	"trade-advisor/internal/analysis/scoring"
	"trade-advisor/internal/models"
)

// Request carries everything a strategy source needs to propose a trade.
type Request struct {
	Symbol    string
	Price     float64
	Technical *indicators.Snapshot
	Scores    *scoring.FactorScores
}

// Generator is a source of candidate trading strategies. Implementations
// include the LLM-backed generator and the deterministic template
// generator.
type Generator interface {
	Generate(ctx context.Context, req Request) (*models.TradingStrategy, error)
}

// TemplateConfig holds the deterministic generator's sizing and risk
// parameters.
type TemplateConfig struct {
	ATRStopMultiple float64 `mapstructure:"atr_stop_multiple"`
	BasePositionPct float64 `mapstructure:"base_position_pct"`
	MaxPositionPct  float64 `mapstructure:"max_position_pct"`
	FirstTargetR    float64 `mapstructure:"first_target_r"`
	SecondTargetR   float64 `mapstructure:"second_target_r"`
}

// DefaultTemplateConfig returns the default template parameters.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		ATRStopMultiple: 2.0,
		BasePositionPct: 2.0,
		MaxPositionPct:  10.0,
		FirstTargetR:    2.0,
		SecondTargetR:   3.0,
	}
}

// TemplateGenerator derives a strategy directly from the factor scores and
// technical snapshot, with no external dependencies. It serves as the
// fallback when no LLM is configured or the LLM response is unusable.
type TemplateGenerator struct {
	cfg TemplateConfig
}

// NewTemplateGenerator creates a template generator with default
// parameters.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{cfg: DefaultTemplateConfig()}
}

// Generate builds a deterministic strategy: entry at the current price, an
// ATR-scaled stop, R-multiple targets, and score-scaled sizing.
func (g *TemplateGenerator) Generate(_ context.Context, req Request) (*models.TradingStrategy, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("template generator: invalid price %.2f", req.Price)
	}
	if req.Technical == nil || req.Scores == nil {
		return nil, fmt.Errorf("template generator: technical snapshot and scores are required")
	}

	composite := req.Scores.Composite
	side := models.SideLong
	if composite < 50 {
		side = models.SideShort
	}

	atr := req.Technical.ATR
	if atr <= 0 {
		atr = req.Price * 0.02
	}
	stopDistance := g.cfg.ATRStopMultiple * atr

	var stopPrice float64
	var targets []float64
	if side == models.SideLong {
		stopPrice = req.Price - stopDistance
		targets = []float64{
			req.Price + g.cfg.FirstTargetR*stopDistance,
			req.Price + g.cfg.SecondTargetR*stopDistance,
		}
	} else {
		stopPrice = req.Price + stopDistance
		targets = []float64{
			req.Price - g.cfg.FirstTargetR*stopDistance,
			req.Price - g.cfg.SecondTargetR*stopDistance,
		}
	}

	// Conviction scales with distance from neutral.
	conviction := composite
	if side == models.SideShort {
		conviction = 100 - composite
	}
	position := g.cfg.BasePositionPct * (1 + conviction/100)
	if position > g.cfg.MaxPositionPct {
		position = g.cfg.MaxPositionPct
	}

	return &models.TradingStrategy{
		Symbol:  req.Symbol,
		Side:    side,
		Entry:   req.Price,
		Targets: targets,
		StopLoss: models.StopLoss{
			Price:      stopPrice,
			Percentage: stopDistance / req.Price * 100,
		},
		Sizing: models.PositionSizing{
			RecommendedPosition: position,
			MaxPosition:         g.cfg.MaxPositionPct,
		},
		RiskReward:       g.cfg.FirstTargetR,
		Confidence:       conviction,
		Thesis:           fmt.Sprintf("Composite score %.0f rates %s", composite, req.Scores.Rating),
		TechnicalBasis:   describeTechnical(req.Technical),
		FundamentalBasis: fmt.Sprintf("Fundamental factor %.0f", req.Scores.Fundamental.Score),
		SentimentBasis:   fmt.Sprintf("Sentiment factor %.0f", req.Scores.Sentiment.Score),
		GeneratedAt:      time.Now(),
	}, nil
}

func describeTechnical(s *indicators.Snapshot) string {
	trend := "mixed"
	if s.Alignment.Aligned {
		trend = string(s.Alignment.Daily)
	}
	return fmt.Sprintf("Technical score %.0f, %s alignment, RSI %.0f, ADX %s",
		s.Score, trend, s.RSI, s.ADX.Strength)
}

// ratingLabel is kept close to the rating buckets for prompt text.
func ratingLabel(r analysis.Rating) string {
	switch r {
	case analysis.RatingStrongBuy:
		return "strong buy"
	case analysis.RatingBuy:
		return "buy"
	case analysis.RatingHold:
		return "hold"
	case analysis.RatingSell:
		return "sell"
	default:
		return "strong sell"
	}
}
