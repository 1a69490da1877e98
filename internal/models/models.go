// Package models provides domain models for the trading advisor.
package models

import (
	"time"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time `csv:"timestamp"`
	Open      float64   `csv:"open"`
	High      float64   `csv:"high"`
	Low       float64   `csv:"low"`
	Close     float64   `csv:"close"`
	Volume    int64     `csv:"volume"`
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// Body returns the absolute size of the candle body.
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// Range returns the high-low range of the candle.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// FinancialRatios is a sparse record of fundamental ratios. Nil fields mean
// the ratio was not reported; scoring treats them as neutral.
type FinancialRatios struct {
	PERatio         *float64
	PBRatio         *float64
	PEGRatio        *float64
	ReturnOnEquity  *float64 // percent
	NetProfitMargin *float64 // percent
	RevenueGrowth   *float64 // percent, year over year
	EPSGrowth       *float64 // percent, year over year
	CurrentRatio    *float64
	DebtToEquity    *float64
}

// Ratio is a convenience constructor for optional ratio fields.
func Ratio(v float64) *float64 {
	return &v
}

// NewsArticle is a single headline with optional provider-tagged sentiment.
type NewsArticle struct {
	Headline    string
	Source      string
	Sentiment   string // "positive", "bullish", "neutral", "negative", "bearish" or empty
	PublishedAt time.Time
}

// AnalystRating is a single analyst rating action.
type AnalystRating struct {
	Firm  string
	Grade string // "strong buy" .. "strong sell"
	Date  time.Time
}

// InsiderTradeType is the direction of an insider transaction.
type InsiderTradeType string

const (
	InsiderBuy  InsiderTradeType = "BUY"
	InsiderSell InsiderTradeType = "SELL"
)

// InsiderTrade is a single insider transaction filing.
type InsiderTrade struct {
	Insider string
	Type    InsiderTradeType
	Value   float64 // transaction value in account currency
	FiledAt time.Time
}

// SocialMention is an aggregated bucket of social-media mentions.
type SocialMention struct {
	Sentiment string // same lexicon as NewsArticle.Sentiment
	Mentions  int64
}

// MarketSnapshot is a point-in-time view of broad market conditions.
type MarketSnapshot struct {
	SPYPrice  float64
	SPYChange float64 // day change, percent
	VIX       float64
	Advancers int
	Decliners int
	NewHighs  int
	NewLows   int
}

// BreadthRatio returns advancers/(advancers+decliners), or 0.5 when the
// breadth feed is empty.
func (m MarketSnapshot) BreadthRatio() float64 {
	total := m.Advancers + m.Decliners
	if total == 0 {
		return 0.5
	}
	return float64(m.Advancers) / float64(total)
}
