// Package advisor orchestrates the full analysis pipeline: factor scoring,
// regime classification, strategy generation, and regime adjustment.
package advisor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/analysis/fundamentals"
	"trade-advisor/internal/analysis/indicators"
	"trade-advisor/internal/analysis/patterns"
	"trade-advisor/internal/analysis/regime"
	"trade-advisor/internal/analysis/scoring"
	"trade-advisor/internal/analysis/sentiment"
	"trade-advisor/internal/config"
	"trade-advisor/internal/logging"
	"trade-advisor/internal/models"
	"trade-advisor/internal/store"
	"trade-advisor/internal/strategy"
)

// Inputs is everything the advisor needs for one symbol. Candles are
// required for the technical and pattern factors; every other input is
// optional and degrades to a neutral factor.
type Inputs struct {
	Symbol       string
	CurrentPrice float64
	Candles      []models.Candle
	Ratios       *models.FinancialRatios
	Sentiment    sentiment.Inputs
	Market       *models.MarketSnapshot
}

// Report is the full result of one advisor run.
type Report struct {
	Symbol      string                  `json:"symbol"`
	Price       float64                 `json:"price"`
	Scores      *scoring.FactorScores   `json:"scores"`
	Technical   *indicators.Snapshot    `json:"technical,omitempty"`
	Patterns    []analysis.Pattern      `json:"patterns,omitempty"`
	Sentiment   *sentiment.Score        `json:"sentiment,omitempty"`
	Fundamental *fundamentals.Score     `json:"fundamental,omitempty"`
	Regime      *regime.Result          `json:"regime,omitempty"`
	Strategy    *models.TradingStrategy `json:"strategy,omitempty"`
	GeneratedAt time.Time               `json:"generated_at"`

	// Warnings carries non-fatal stage failures, e.g. too little candle
	// history for the technical factor.
	Warnings []string `json:"warnings,omitempty"`
}

// Advisor runs the analysis pipeline for one symbol at a time. The four
// factor computations are independent and run concurrently.
type Advisor struct {
	indicators *indicators.Calculator
	patterns   *patterns.Detector
	sentiments *sentiment.Aggregator
	funds      *fundamentals.Calculator
	regimes    *regime.Classifier
	scorer     *scoring.Scorer
	generator  strategy.Generator
	adjuster   *strategy.Adjuster
	store      store.DataStore
}

// New creates an advisor from configuration. llm may be nil, in which case
// the deterministic template generator is used. dataStore may be nil to
// skip persistence.
func New(cfg *config.Config, llm strategy.LLMClient, dataStore store.DataStore) *Advisor {
	var gen strategy.Generator = strategy.NewTemplateGenerator()
	if llm != nil {
		gen = strategy.NewLLMGenerator(llm)
	}

	return &Advisor{
		indicators: indicators.NewCalculator(cfg.Analysis.Indicators),
		patterns:   patterns.NewDetectorWithScoreConfig(cfg.Analysis.PatternScore),
		sentiments: sentiment.NewAggregatorWithWeights(cfg.Analysis.SentimentWeights),
		funds:      fundamentals.NewCalculatorWithWeights(cfg.Analysis.FundamentalWeights),
		regimes:    regime.NewClassifierWithThresholds(cfg.Analysis.RegimeThresholds),
		scorer:     scoring.NewScorerWithWeights(cfg.Analysis.FactorWeights, cfg.Analysis.RatingThresholds),
		generator:  gen,
		adjuster:   strategy.NewAdjusterWithConfig(cfg.Strategy.Adjuster),
		store:      dataStore,
	}
}

// Analyze runs the full pipeline for one symbol and returns the report.
// Factor failures are downgraded to warnings; only strategy generation
// errors are fatal.
func (a *Advisor) Analyze(ctx context.Context, in Inputs) (*Report, error) {
	logger := logging.WithSymbol(logging.FromContext(ctx), in.Symbol)
	start := time.Now()

	price := in.CurrentPrice
	if price <= 0 && len(in.Candles) > 0 {
		price = in.Candles[len(in.Candles)-1].Close
	}

	report := &Report{
		Symbol:      in.Symbol,
		Price:       price,
		GeneratedAt: start,
	}

	// The four factors are independent; compute them in parallel.
	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(4)
	go func() {
		defer wg.Done()
		snap, err := a.indicators.CalculateSnapshot(in.Candles, price)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			report.Warnings = append(report.Warnings, "technical: "+err.Error())
			return
		}
		report.Technical = snap
	}()
	go func() {
		defer wg.Done()
		found := a.patterns.DetectAll(in.Candles, price)
		mu.Lock()
		report.Patterns = found
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		score := a.sentiments.Calculate(in.Sentiment)
		mu.Lock()
		report.Sentiment = score
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		score := a.funds.Calculate(in.Ratios)
		mu.Lock()
		report.Fundamental = score
		mu.Unlock()
	}()
	wg.Wait()

	report.Scores = a.scorer.Generate(scoring.Inputs{
		Fundamental: report.Fundamental,
		Technical:   report.Technical,
		Sentiment:   report.Sentiment,
		Patterns:    report.Patterns,
	})
	logging.LogFactorScore(logger, in.Symbol, "composite", report.Scores.Composite, time.Since(start))

	if in.Market != nil {
		report.Regime = a.regimes.Classify(*in.Market)
		stageLogger := logging.WithStage(logger, "regime")
		stageLogger.Debug().
			Str("regime", string(report.Regime.Regime)).
			Float64("confidence", report.Regime.Confidence).
			Msg("market regime classified")
	}

	if report.Technical != nil {
		base, err := a.generator.Generate(ctx, strategy.Request{
			Symbol:    in.Symbol,
			Price:     price,
			Technical: report.Technical,
			Scores:    report.Scores,
		})
		if err != nil {
			return nil, err
		}
		report.Strategy = a.adjuster.AdjustForRegime(base, report.Regime)
		logging.LogStrategy(logger, in.Symbol, "advisor",
			string(report.Strategy.Side), report.Strategy.Entry, report.Strategy.Confidence)
	} else {
		report.Warnings = append(report.Warnings,
			"strategy: skipped, technical snapshot unavailable")
	}

	if a.store != nil {
		if err := a.persist(ctx, report); err != nil {
			report.Warnings = append(report.Warnings, "store: "+err.Error())
		}
	}

	return report, nil
}

// persist writes the report and its strategy to the store.
func (a *Advisor) persist(ctx context.Context, report *Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	rec := &store.AnalysisRecord{
		Symbol:    report.Symbol,
		Composite: report.Scores.Composite,
		Rating:    string(report.Scores.Rating),
		Payload:   payload,
	}
	if report.Regime != nil {
		rec.Regime = string(report.Regime.Regime)
	}

	analysisID, err := a.store.SaveAnalysis(ctx, rec)
	if err != nil {
		return err
	}

	if report.Strategy == nil {
		return nil
	}
	stratPayload, err := json.Marshal(report.Strategy)
	if err != nil {
		return err
	}
	_, err = a.store.SaveStrategy(ctx, &store.StrategyRecord{
		AnalysisID: analysisID,
		Symbol:     report.Symbol,
		Side:       string(report.Strategy.Side),
		Payload:    stratPayload,
	})
	return err
}
