package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trade-advisor/internal/models"
)

func fixedAggregator(now time.Time) *Aggregator {
	a := NewAggregator()
	a.now = func() time.Time { return now }
	return a
}

func TestEmptyInputsScoreNeutral(t *testing.T) {
	a := NewAggregator()

	score := a.Calculate(Inputs{})

	assert.Equal(t, 50.0, score.Score)
	assert.Equal(t, Neutral, score.Label)
	assert.Equal(t, 50.0, score.News.Score)
	assert.Equal(t, 50.0, score.Analyst.Score)
	assert.Equal(t, 50.0, score.Insider.Score)
	assert.Equal(t, 50.0, score.Social.Score)
	assert.Equal(t, MomentumNeutral, score.Momentum)
	assert.NotEmpty(t, score.Interpretation)
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), 1e-9)
}

func TestNewsScoreUsesProviderTagThenKeywords(t *testing.T) {
	a := NewAggregator()

	tagged := a.newsScore([]models.NewsArticle{{Sentiment: "bullish"}})
	assert.Equal(t, 85.0, tagged)

	keyword := a.newsScore([]models.NewsArticle{{Headline: "Acme beats estimates, shares surge"}})
	assert.Equal(t, 70.0, keyword)

	unknown := a.newsScore([]models.NewsArticle{{Headline: "Acme to present at conference"}})
	assert.Equal(t, 50.0, unknown)
}

func TestAnalystScoreWeightsRecentRatings(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	// Newest rating is a strong buy, oldest is a sell: the recency decay
	// must pull the blend above the plain average of 60.
	score := a.analystScore([]models.AnalystRating{
		{Firm: "A", Grade: "sell", Date: now.AddDate(0, -3, 0)},
		{Firm: "B", Grade: "strong buy", Date: now},
	})
	assert.Greater(t, score, 60.0)
	assert.LessOrEqual(t, score, 95.0)
}

func TestInsiderScoreIgnoresStaleFilings(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := fixedAggregator(now)

	// All-buy activity inside the window maps to the top of the range.
	allBuys := a.insiderScore([]models.InsiderTrade{
		{Type: models.InsiderBuy, Value: 100000, FiledAt: now.AddDate(0, 0, -10)},
	})
	assert.Equal(t, 80.0, allBuys)

	// Filings older than the 90-day window are ignored entirely.
	stale := a.insiderScore([]models.InsiderTrade{
		{Type: models.InsiderSell, Value: 500000, FiledAt: now.AddDate(0, 0, -120)},
	})
	assert.Equal(t, 50.0, stale)
}

func TestSocialScoreWeightsByMentions(t *testing.T) {
	a := NewAggregator()

	score := a.socialScore([]models.SocialMention{
		{Sentiment: "bullish", Mentions: 900},
		{Sentiment: "bearish", Mentions: 100},
	})
	// (85*900 + 15*100) / 1000
	assert.InDelta(t, 78.0, score, 1e-9)
}

func TestMomentumComparesRecentAgainstOlder(t *testing.T) {
	a := NewAggregator()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	var articles []models.NewsArticle
	for i := 0; i < 5; i++ {
		articles = append(articles, models.NewsArticle{
			Sentiment:   "bullish",
			PublishedAt: now.AddDate(0, 0, -i),
		})
	}
	for i := 5; i < 10; i++ {
		articles = append(articles, models.NewsArticle{
			Sentiment:   "bearish",
			PublishedAt: now.AddDate(0, 0, -i),
		})
	}

	score := a.Calculate(Inputs{News: articles})
	assert.Equal(t, MomentumPositive, score.Momentum)
}

func TestLabelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		label Label
	}{
		{85, ExtremeGreed},
		{80, ExtremeGreed},
		{65, Greed},
		{50, Neutral},
		{25, Fear},
		{10, ExtremeFear},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.label, bucketLabel(tc.score), "score %.0f", tc.score)
	}
}

func TestCompositeUsesFixedWeights(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := fixedAggregator(now)

	score := a.Calculate(Inputs{
		News: []models.NewsArticle{{Sentiment: "bullish", PublishedAt: now}},
		InsiderTrades: []models.InsiderTrade{
			{Type: models.InsiderBuy, Value: 100000, FiledAt: now.AddDate(0, 0, -5)},
		},
	})

	expected := 85*0.25 + 50*0.35 + 80*0.30 + 50*0.10
	require.InDelta(t, expected, score.Score, 1e-9)
	assert.Equal(t, Greed, score.Label)
}
