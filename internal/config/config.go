// Package config provides configuration management for the advisor.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"trade-advisor/internal/analysis/fundamentals"
	"trade-advisor/internal/analysis/indicators"
	"trade-advisor/internal/analysis/patterns"
	"trade-advisor/internal/analysis/regime"
	"trade-advisor/internal/analysis/scoring"
	"trade-advisor/internal/analysis/sentiment"
	apperrors "trade-advisor/internal/errors"
	"trade-advisor/internal/logging"
	"trade-advisor/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Strategy    StrategyConfig    `mapstructure:"strategy"`
	Store       StoreConfig       `mapstructure:"store"`
	Logging     logging.LogConfig `mapstructure:"logging"`
	Credentials Credentials       `mapstructure:"-"` // Loaded separately
}

// AnalysisConfig groups the tunable thresholds of every analysis stage.
type AnalysisConfig struct {
	Indicators         indicators.Config        `mapstructure:"indicators"`
	PatternScore       patterns.ScoreConfig     `mapstructure:"pattern_score"`
	SentimentWeights   sentiment.Weights        `mapstructure:"sentiment_weights"`
	FundamentalWeights fundamentals.Weights     `mapstructure:"fundamental_weights"`
	RegimeThresholds   regime.Thresholds        `mapstructure:"regime_thresholds"`
	FactorWeights      scoring.FactorWeights    `mapstructure:"factor_weights"`
	RatingThresholds   scoring.RatingThresholds `mapstructure:"rating_thresholds"`
}

// StrategyConfig holds strategy generation and adjustment parameters.
type StrategyConfig struct {
	Model    string                  `mapstructure:"model"` // LLM model, empty disables the LLM generator
	Template strategy.TemplateConfig `mapstructure:"template"`
	Adjuster strategy.AdjusterConfig `mapstructure:"adjuster"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// Credentials holds API credentials.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trade-advisor"
	}
	return filepath.Join(home, ".config", "trade-advisor")
}

// Default returns a fully populated configuration with every threshold at
// its documented default.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Indicators:         indicators.DefaultConfig(),
			PatternScore:       patterns.DefaultScoreConfig(),
			SentimentWeights:   sentiment.DefaultWeights(),
			FundamentalWeights: fundamentals.DefaultWeights(),
			RegimeThresholds:   regime.DefaultThresholds(),
			FactorWeights:      scoring.DefaultFactorWeights(),
			RatingThresholds:   scoring.DefaultRatingThresholds(),
		},
		Strategy: StrategyConfig{
			Model:    "gpt-4o-mini",
			Template: strategy.DefaultTemplateConfig(),
			Adjuster: strategy.DefaultAdjusterConfig(),
		},
		Store: StoreConfig{
			Path: filepath.Join(DefaultConfigDir(), "advisor.db"),
		},
		Logging: logging.DefaultLogConfig(),
	}
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. Missing files fall back to
// defaults rather than failing.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	if err := loadConfigFile(configDir, "credentials", &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("TRADE_ADVISOR_DB"); v != "" {
		cfg.Store.Path = v
	}
}

// Validate checks configured weights and thresholds for consistency.
func (c *Config) Validate() error {
	const tol = 1e-9

	if d := c.Analysis.SentimentWeights.Sum() - 1.0; d > tol || d < -tol {
		return fmt.Errorf("%w: sentiment weights must sum to 1.0, got %.4f",
			apperrors.ErrConfigInvalid, c.Analysis.SentimentWeights.Sum())
	}
	if d := c.Analysis.FundamentalWeights.Sum() - 1.0; d > tol || d < -tol {
		return fmt.Errorf("%w: fundamental weights must sum to 1.0, got %.4f",
			apperrors.ErrConfigInvalid, c.Analysis.FundamentalWeights.Sum())
	}
	if d := c.Analysis.FactorWeights.Sum() - 1.0; d > tol || d < -tol {
		return fmt.Errorf("%w: factor weights must sum to 1.0, got %.4f",
			apperrors.ErrConfigInvalid, c.Analysis.FactorWeights.Sum())
	}

	rt := c.Analysis.RatingThresholds
	if !(rt.StrongBuy > rt.Buy && rt.Buy > rt.Hold && rt.Hold > rt.Sell) {
		return fmt.Errorf("%w: rating thresholds must be strictly descending",
			apperrors.ErrConfigInvalid)
	}

	if req := c.Analysis.Indicators.RequiredHistory(); c.Analysis.Indicators.MinHistory < req {
		return fmt.Errorf("%w: min_history %d below longest indicator window %d",
			apperrors.ErrConfigInvalid, c.Analysis.Indicators.MinHistory, req)
	}
	return nil
}

// HasLLM reports whether enough is configured to use the LLM generator.
func (c *Config) HasLLM() bool {
	return c.Credentials.OpenAI.APIKey != "" && c.Strategy.Model != ""
}
