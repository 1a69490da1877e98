package models

import "time"

// StrategySide is the direction of a trading strategy entry.
type StrategySide string

const (
	SideLong  StrategySide = "LONG"
	SideShort StrategySide = "SHORT"
)

// StopLoss holds the stop level both as a price and as a percent distance
// from entry.
type StopLoss struct {
	Price      float64
	Percentage float64
}

// PositionSizing holds recommended and maximum position sizes as a percent
// of account equity.
type PositionSizing struct {
	RecommendedPosition float64
	MaxPosition         float64
}

// TradingStrategy is a candidate trade proposed by a strategy source (LLM
// or template generator) and later adjusted for the market regime.
type TradingStrategy struct {
	Symbol           string
	Side             StrategySide
	Entry            float64
	Targets          []float64
	StopLoss         StopLoss
	Sizing           PositionSizing
	RiskReward       float64
	Confidence       float64 // 0-100
	Thesis           string
	TechnicalBasis   string
	FundamentalBasis string
	SentimentBasis   string
	Notes            []string
	GeneratedAt      time.Time
}

// Clone returns a deep copy of the strategy. Slice fields are copied so the
// clone can be modified without touching the original.
func (s *TradingStrategy) Clone() *TradingStrategy {
	c := *s
	c.Targets = append([]float64(nil), s.Targets...)
	c.Notes = append([]string(nil), s.Notes...)
	return &c
}
