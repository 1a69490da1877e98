package patterns

import (
	"trade-advisor/internal/analysis"
	"trade-advisor/internal/models"
)

// CandlestickDetector detects candlestick patterns at the end of a candle
// series. Patterns are evaluated on the most recent one to three candles,
// since targets and invalidation levels are anchored to the current price.
type CandlestickDetector struct {
	dojiThreshold   float64 // body as fraction of range below which a candle is a doji
	shadowRatio     float64 // shadow-to-body ratio for hammer/shooting star
	targetPercent   float64 // target offset from current price for reversal patterns
	strongTargetPct float64 // target offset for high-confidence patterns
}

// NewCandlestickDetector creates a candlestick detector with default
// thresholds.
func NewCandlestickDetector() *CandlestickDetector {
	return &CandlestickDetector{
		dojiThreshold:   0.1,
		shadowRatio:     2.0,
		targetPercent:   0.03,
		strongTargetPct: 0.05,
	}
}

// Detect evaluates candlestick patterns on the latest candles. Fewer than
// three candles yields no patterns.
func (d *CandlestickDetector) Detect(candles []models.Candle, currentPrice float64) []analysis.Pattern {
	if len(candles) < 3 {
		return nil
	}

	var out []analysis.Pattern
	n := len(candles)
	last := candles[n-1]
	prev := candles[n-2]

	if p := d.detectHammer(last, currentPrice); p != nil {
		out = append(out, *p)
	}
	if p := d.detectShootingStar(last, currentPrice); p != nil {
		out = append(out, *p)
	}
	if p := d.detectDoji(last, currentPrice); p != nil {
		out = append(out, *p)
	}
	if p := d.detectEngulfing(prev, last, currentPrice); p != nil {
		out = append(out, *p)
	}
	if p := d.detectStar(candles[n-3], prev, last, currentPrice); p != nil {
		out = append(out, *p)
	}
	if p := d.detectThreeInARow(candles[n-3], prev, last, currentPrice); p != nil {
		out = append(out, *p)
	}

	return out
}

func upperShadow(c models.Candle) float64 {
	if c.Close > c.Open {
		return c.High - c.Close
	}
	return c.High - c.Open
}

func lowerShadow(c models.Candle) float64 {
	if c.Close > c.Open {
		return c.Open - c.Low
	}
	return c.Close - c.Low
}

func (d *CandlestickDetector) detectHammer(c models.Candle, price float64) *analysis.Pattern {
	body := c.Body()
	if body == 0 || c.Range() == 0 {
		return nil
	}
	if lowerShadow(c) < d.shadowRatio*body || upperShadow(c) > body*0.5 {
		return nil
	}
	return &analysis.Pattern{
		Type:              "hammer",
		Direction:         analysis.PatternBullish,
		Confidence:        analysis.ConfidenceMedium,
		Category:          analysis.CategoryCandlestick,
		Target:            price * (1 + d.targetPercent),
		Invalidation:      c.Low,
		Description:       "Long lower shadow after decline; buyers rejected lower prices",
		FormationProgress: 100,
	}
}

func (d *CandlestickDetector) detectShootingStar(c models.Candle, price float64) *analysis.Pattern {
	body := c.Body()
	if body == 0 || c.Range() == 0 {
		return nil
	}
	if upperShadow(c) < d.shadowRatio*body || lowerShadow(c) > body*0.5 {
		return nil
	}
	return &analysis.Pattern{
		Type:              "shooting_star",
		Direction:         analysis.PatternBearish,
		Confidence:        analysis.ConfidenceMedium,
		Category:          analysis.CategoryCandlestick,
		Target:            price * (1 - d.targetPercent),
		Invalidation:      c.High,
		Description:       "Long upper shadow after advance; sellers rejected higher prices",
		FormationProgress: 100,
	}
}

func (d *CandlestickDetector) detectDoji(c models.Candle, price float64) *analysis.Pattern {
	rng := c.Range()
	// A zero-range candle is a degenerate doji.
	if rng > 0 && c.Body() > d.dojiThreshold*rng {
		return nil
	}
	return &analysis.Pattern{
		Type:              "doji",
		Direction:         analysis.PatternNeutral,
		Confidence:        analysis.ConfidenceLow,
		Category:          analysis.CategoryCandlestick,
		Target:            price,
		Invalidation:      c.Low,
		Description:       "Open and close nearly equal; indecision",
		FormationProgress: 100,
	}
}

func (d *CandlestickDetector) detectEngulfing(prev, cur models.Candle, price float64) *analysis.Pattern {
	if !prev.IsBullish() && cur.IsBullish() &&
		cur.Open <= prev.Close && cur.Close >= prev.Open && cur.Body() > prev.Body() {
		return &analysis.Pattern{
			Type:              "bullish_engulfing",
			Direction:         analysis.PatternBullish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryCandlestick,
			Target:            price * (1 + d.strongTargetPct),
			Invalidation:      cur.Low,
			Description:       "Bullish body engulfs prior bearish body",
			FormationProgress: 100,
		}
	}
	if prev.IsBullish() && !cur.IsBullish() &&
		cur.Open >= prev.Close && cur.Close <= prev.Open && cur.Body() > prev.Body() {
		return &analysis.Pattern{
			Type:              "bearish_engulfing",
			Direction:         analysis.PatternBearish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryCandlestick,
			Target:            price * (1 - d.strongTargetPct),
			Invalidation:      cur.High,
			Description:       "Bearish body engulfs prior bullish body",
			FormationProgress: 100,
		}
	}
	return nil
}

// detectStar finds morning and evening star formations: a long body, a
// small-bodied middle candle, then a reversal body closing past the
// midpoint of the first.
func (d *CandlestickDetector) detectStar(c1, c2, c3 models.Candle, price float64) *analysis.Pattern {
	smallMiddle := c2.Body() < c1.Body()*0.3
	if !smallMiddle {
		return nil
	}
	mid1 := (c1.Open + c1.Close) / 2

	if !c1.IsBullish() && c3.IsBullish() && c3.Close > mid1 {
		return &analysis.Pattern{
			Type:              "morning_star",
			Direction:         analysis.PatternBullish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryCandlestick,
			Target:            price * (1 + d.strongTargetPct),
			Invalidation:      minCandleLow(c1, c2, c3),
			Description:       "Three-candle bottom reversal",
			FormationProgress: 100,
		}
	}
	if c1.IsBullish() && !c3.IsBullish() && c3.Close < mid1 {
		return &analysis.Pattern{
			Type:              "evening_star",
			Direction:         analysis.PatternBearish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryCandlestick,
			Target:            price * (1 - d.strongTargetPct),
			Invalidation:      maxCandleHigh(c1, c2, c3),
			Description:       "Three-candle top reversal",
			FormationProgress: 100,
		}
	}
	return nil
}

// detectThreeInARow finds three white soldiers and three black crows:
// three consecutive directional candles, each opening within the prior
// body and closing beyond the prior close.
func (d *CandlestickDetector) detectThreeInARow(c1, c2, c3 models.Candle, price float64) *analysis.Pattern {
	if c1.IsBullish() && c2.IsBullish() && c3.IsBullish() &&
		c2.Close > c1.Close && c3.Close > c2.Close &&
		c2.Open > c1.Open && c2.Open < c1.Close &&
		c3.Open > c2.Open && c3.Open < c2.Close {
		return &analysis.Pattern{
			Type:              "three_white_soldiers",
			Direction:         analysis.PatternBullish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryCandlestick,
			Target:            price * (1 + d.strongTargetPct),
			Invalidation:      c1.Low,
			Description:       "Three consecutive advancing candles",
			FormationProgress: 100,
		}
	}
	if !c1.IsBullish() && !c2.IsBullish() && !c3.IsBullish() &&
		c2.Close < c1.Close && c3.Close < c2.Close &&
		c2.Open < c1.Open && c2.Open > c1.Close &&
		c3.Open < c2.Open && c3.Open > c2.Close {
		return &analysis.Pattern{
			Type:              "three_black_crows",
			Direction:         analysis.PatternBearish,
			Confidence:        analysis.ConfidenceHigh,
			Category:          analysis.CategoryCandlestick,
			Target:            price * (1 - d.strongTargetPct),
			Invalidation:      c1.High,
			Description:       "Three consecutive declining candles",
			FormationProgress: 100,
		}
	}
	return nil
}

func minCandleLow(cs ...models.Candle) float64 {
	low := cs[0].Low
	for _, c := range cs[1:] {
		if c.Low < low {
			low = c.Low
		}
	}
	return low
}

func maxCandleHigh(cs ...models.Candle) float64 {
	high := cs[0].High
	for _, c := range cs[1:] {
		if c.High > high {
			high = c.High
		}
	}
	return high
}
