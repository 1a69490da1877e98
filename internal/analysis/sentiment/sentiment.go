// Package sentiment aggregates news, analyst, insider, and social signals
// into a weighted composite sentiment score.
package sentiment

import (
	"sort"
	"strings"
	"time"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

// Label is the fear/greed bucket for a sentiment score.
type Label string

const (
	ExtremeGreed Label = "extreme_greed"
	Greed        Label = "greed"
	Neutral      Label = "neutral"
	Fear         Label = "fear"
	ExtremeFear  Label = "extreme_fear"
)

// Momentum is the short-term direction of news sentiment.
type Momentum string

const (
	MomentumPositive Momentum = "positive"
	MomentumNeutral  Momentum = "neutral"
	MomentumNegative Momentum = "negative"
)

// Weights holds the component weights of the composite. They must sum
// to 1.0.
type Weights struct {
	News    float64 `mapstructure:"news"`
	Analyst float64 `mapstructure:"analyst"`
	Insider float64 `mapstructure:"insider"`
	Social  float64 `mapstructure:"social"`
}

// DefaultWeights returns the default component weights.
func DefaultWeights() Weights {
	return Weights{
		News:    0.25,
		Analyst: 0.35,
		Insider: 0.30,
		Social:  0.10,
	}
}

// Sum returns the total of all component weights.
func (w Weights) Sum() float64 {
	return w.News + w.Analyst + w.Insider + w.Social
}

// Component is one scored input with its weight in the composite.
type Component struct {
	Score  float64
	Weight float64
}

// Score is the aggregated sentiment result.
type Score struct {
	Score          float64
	Label          Label
	News           Component
	Analyst        Component
	Insider        Component
	Social         Component
	Interpretation string
	Momentum       Momentum
}

// Inputs carries the raw sentiment feeds for one symbol. Any field may be
// empty; missing inputs score neutral.
type Inputs struct {
	News          []models.NewsArticle
	Ratings       []models.AnalystRating
	InsiderTrades []models.InsiderTrade
	Social        []models.SocialMention
}

// Aggregator computes composite sentiment scores.
type Aggregator struct {
	weights Weights
	now     func() time.Time
}

// NewAggregator creates an aggregator with default weights.
func NewAggregator() *Aggregator {
	return NewAggregatorWithWeights(DefaultWeights())
}

// NewAggregatorWithWeights creates an aggregator with custom weights.
func NewAggregatorWithWeights(w Weights) *Aggregator {
	return &Aggregator{weights: w, now: time.Now}
}

const (
	neutralScore      = 50.0
	insiderWindowDays = 90
	momentumWindow    = 5
	momentumDelta     = 10.0
)

// Calculate aggregates all feeds into one sentiment score. It never fails;
// every missing feed contributes a neutral component.
func (a *Aggregator) Calculate(in Inputs) *Score {
	news := a.newsScore(in.News)
	analyst := a.analystScore(in.Ratings)
	insider := a.insiderScore(in.InsiderTrades)
	social := a.socialScore(in.Social)

	composite := analysis.Clamp(
		news*a.weights.News +
			analyst*a.weights.Analyst +
			insider*a.weights.Insider +
			social*a.weights.Social)

	return &Score{
		Score:          composite,
		Label:          bucketLabel(composite),
		News:           Component{Score: news, Weight: a.weights.News},
		Analyst:        Component{Score: analyst, Weight: a.weights.Analyst},
		Insider:        Component{Score: insider, Weight: a.weights.Insider},
		Social:         Component{Score: social, Weight: a.weights.Social},
		Interpretation: interpret(composite),
		Momentum:       a.momentum(in.News),
	}
}

// sentimentLexicon maps provider sentiment tags to scores.
func sentimentLexicon(tag string) (float64, bool) {
	switch strings.ToLower(tag) {
	case "bullish":
		return 85, true
	case "positive":
		return 80, true
	case "neutral":
		return 50, true
	case "negative":
		return 20, true
	case "bearish":
		return 15, true
	default:
		return 0, false
	}
}

var bullishKeywords = []string{"beat", "upgrade", "surge", "record", "growth", "rally", "strong"}
var bearishKeywords = []string{"miss", "downgrade", "plunge", "lawsuit", "decline", "selloff", "weak"}

// articleScore scores one article from its explicit sentiment tag, falling
// back to a headline keyword heuristic.
func articleScore(article models.NewsArticle) float64 {
	if s, ok := sentimentLexicon(article.Sentiment); ok {
		return s
	}

	headline := strings.ToLower(article.Headline)
	for _, kw := range bullishKeywords {
		if strings.Contains(headline, kw) {
			return 70
		}
	}
	for _, kw := range bearishKeywords {
		if strings.Contains(headline, kw) {
			return 30
		}
	}
	return neutralScore
}

func (a *Aggregator) newsScore(articles []models.NewsArticle) float64 {
	if len(articles) == 0 {
		return neutralScore
	}

	var total float64
	for _, art := range articles {
		total += articleScore(art)
	}
	return total / float64(len(articles))
}

// gradeLexicon maps analyst rating grades to scores.
func gradeLexicon(grade string) float64 {
	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "strong buy":
		return 95
	case "buy", "outperform", "overweight":
		return 75
	case "hold", "neutral", "market perform":
		return 50
	case "sell", "underperform", "underweight":
		return 25
	case "strong sell":
		return 5
	default:
		return neutralScore
	}
}

// analystScore weights rating grades by recency: the newest rating gets
// weight 1.0, decaying linearly to 0.3 for the oldest.
func (a *Aggregator) analystScore(ratings []models.AnalystRating) float64 {
	if len(ratings) == 0 {
		return neutralScore
	}

	sorted := append([]models.AnalystRating(nil), ratings...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	var weightedSum, totalWeight float64
	n := len(sorted)
	for i, r := range sorted {
		weight := 1.0
		if n > 1 {
			weight = 1.0 - 0.7*float64(i)/float64(n-1)
		}
		weightedSum += gradeLexicon(r.Grade) * weight
		totalWeight += weight
	}

	return weightedSum / totalWeight
}

// insiderScore maps the net buy ratio of recent insider activity onto
// [20, 80]; no recent activity is neutral.
func (a *Aggregator) insiderScore(trades []models.InsiderTrade) float64 {
	cutoff := a.now().AddDate(0, 0, -insiderWindowDays)

	var buyValue, totalValue float64
	for _, t := range trades {
		if t.FiledAt.Before(cutoff) {
			continue
		}
		totalValue += t.Value
		if t.Type == models.InsiderBuy {
			buyValue += t.Value
		}
	}

	if totalValue == 0 {
		return neutralScore
	}
	return 20 + (buyValue/totalValue)*60
}

// socialScore is the mention-volume-weighted average of bucket sentiments.
func (a *Aggregator) socialScore(mentions []models.SocialMention) float64 {
	if len(mentions) == 0 {
		return neutralScore
	}

	var weightedSum, totalMentions float64
	for _, m := range mentions {
		score, ok := sentimentLexicon(m.Sentiment)
		if !ok {
			score = neutralScore
		}
		weightedSum += score * float64(m.Mentions)
		totalMentions += float64(m.Mentions)
	}

	if totalMentions == 0 {
		return neutralScore
	}
	return weightedSum / totalMentions
}

// momentum compares news sentiment of the most recent articles against the
// next-older batch.
func (a *Aggregator) momentum(articles []models.NewsArticle) Momentum {
	if len(articles) <= momentumWindow {
		return MomentumNeutral
	}

	sorted := append([]models.NewsArticle(nil), articles...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	recent := sorted[:momentumWindow]
	olderEnd := momentumWindow * 2
	if olderEnd > len(sorted) {
		olderEnd = len(sorted)
	}
	older := sorted[momentumWindow:olderEnd]

	recentAvg := avgArticleScore(recent)
	olderAvg := avgArticleScore(older)

	switch {
	case recentAvg-olderAvg > momentumDelta:
		return MomentumPositive
	case olderAvg-recentAvg > momentumDelta:
		return MomentumNegative
	default:
		return MomentumNeutral
	}
}

func avgArticleScore(articles []models.NewsArticle) float64 {
	if len(articles) == 0 {
		return neutralScore
	}
	var total float64
	for _, a := range articles {
		total += articleScore(a)
	}
	return total / float64(len(articles))
}

func bucketLabel(score float64) Label {
	switch {
	case score >= 80:
		return ExtremeGreed
	case score >= 60:
		return Greed
	case score >= 40:
		return Neutral
	case score >= 20:
		return Fear
	default:
		return ExtremeFear
	}
}

func interpret(score float64) string {
	switch {
	case score >= 80:
		return "Sentiment is euphoric; crowded positioning raises reversal risk"
	case score >= 60:
		return "Sentiment is constructive with broad optimism"
	case score >= 40:
		return "Sentiment is mixed with no dominant bias"
	case score >= 20:
		return "Sentiment is pessimistic; selling pressure dominates"
	default:
		return "Sentiment is capitulatory; panic conditions"
	}
}
