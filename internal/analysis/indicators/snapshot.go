// Package indicators provides technical indicator calculations and the
// composite technical snapshot used by factor scoring.
package indicators

import (
	"fmt"

	"trade-advisor/internal/analysis"
	"trade-advisor/internal/errors"
	"trade-advisor/internal/models"
)

// Trend is a directional trend label.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Crossover describes a MACD line/signal crossover on the latest bar.
type Crossover string

const (
	CrossoverBullish Crossover = "bullish"
	CrossoverBearish Crossover = "bearish"
	CrossoverNone    Crossover = "none"
)

// TrendStrength is the ADX-based trend strength bucket.
type TrendStrength string

const (
	StrongTrend TrendStrength = "strong_trend"
	WeakTrend   TrendStrength = "weak_trend"
	NoTrend     TrendStrength = "no_trend"
)

// Divergence is a price/RSI divergence label.
type Divergence string

const (
	DivergenceBullish Divergence = "bullish"
	DivergenceBearish Divergence = "bearish"
	DivergenceNone    Divergence = "none"
)

// OBVTrend is the OBV trend label over the configured lookback.
type OBVTrend string

const (
	OBVRising  OBVTrend = "rising"
	OBVFalling OBVTrend = "falling"
	OBVFlat    OBVTrend = "flat"
)

// Config holds every calibration threshold for the technical calculator.
// Defaults match the standard parameterisation (RSI 14, MACD 12/26/9, etc.).
type Config struct {
	MinHistory int `mapstructure:"min_history"`

	RSIPeriod     int     `mapstructure:"rsi_period"`
	RSIOverbought float64 `mapstructure:"rsi_overbought"`
	RSIOversold   float64 `mapstructure:"rsi_oversold"`

	StochasticK int `mapstructure:"stochastic_k"`
	StochasticD int `mapstructure:"stochastic_d"`

	WilliamsPeriod int `mapstructure:"williams_period"`
	CCIPeriod      int `mapstructure:"cci_period"`

	MACDFast   int `mapstructure:"macd_fast"`
	MACDSlow   int `mapstructure:"macd_slow"`
	MACDSignal int `mapstructure:"macd_signal"`

	ADXPeriod int     `mapstructure:"adx_period"`
	ADXStrong float64 `mapstructure:"adx_strong"`
	ADXWeak   float64 `mapstructure:"adx_weak"`

	BollingerPeriod int     `mapstructure:"bollinger_period"`
	BollingerMult   float64 `mapstructure:"bollinger_mult"`
	SqueezeWidth    float64 `mapstructure:"squeeze_width"` // relative width below which bands are squeezed

	ATRPeriod int `mapstructure:"atr_period"`

	OBVLookback  int     `mapstructure:"obv_lookback"`
	OBVThreshold float64 `mapstructure:"obv_threshold"` // relative change for rising/falling

	DivergenceLookback int `mapstructure:"divergence_lookback"`
}

// longestSMAPeriod is the largest moving-average window the snapshot
// computes; the SMA ladder is fixed at 20/50/100/200.
const longestSMAPeriod = 200

// RequiredHistory returns the minimum candle count CalculateSnapshot needs
// so that every indicator series it indexes is populated. MinHistory must
// be at least this large or the long moving averages come back empty.
func (c Config) RequiredHistory() int {
	req := longestSMAPeriod
	for _, w := range []int{
		c.RSIPeriod + 1,
		c.StochasticK + c.StochasticD,
		c.WilliamsPeriod,
		c.CCIPeriod,
		c.MACDSlow + c.MACDSignal,
		c.ADXPeriod * 2,
		c.BollingerPeriod,
		c.ATRPeriod + 1,
		c.OBVLookback,
		c.DivergenceLookback,
	} {
		if w > req {
			req = w
		}
	}
	return req
}

// DefaultConfig returns the default technical calculator configuration.
func DefaultConfig() Config {
	return Config{
		MinHistory:         200,
		RSIPeriod:          14,
		RSIOverbought:      70,
		RSIOversold:        30,
		StochasticK:        14,
		StochasticD:        3,
		WilliamsPeriod:     14,
		CCIPeriod:          20,
		MACDFast:           12,
		MACDSlow:           26,
		MACDSignal:         9,
		ADXPeriod:          14,
		ADXStrong:          25,
		ADXWeak:            15,
		BollingerPeriod:    20,
		BollingerMult:      2.0,
		SqueezeWidth:       0.04,
		ATRPeriod:          14,
		OBVLookback:        20,
		OBVThreshold:       0.05,
		DivergenceLookback: 20,
	}
}

// MACDState is the latest MACD reading with crossover detection.
type MACDState struct {
	Line      float64
	Signal    float64
	Histogram float64
	Crossover Crossover
}

// ADXState is the latest ADX reading with its strength bucket.
type ADXState struct {
	Value    float64
	PlusDI   float64
	MinusDI  float64
	Strength TrendStrength
}

// BollingerState is the latest Bollinger Band reading.
type BollingerState struct {
	Upper   float64
	Middle  float64
	Lower   float64
	Width   float64
	Squeeze bool
}

// TimeframeAlignment describes daily and approximated weekly trend
// agreement. The weekly trend is derived from SMA50/100/200 ordering
// rather than true weekly-resampled data; this is a known simplification.
type TimeframeAlignment struct {
	Daily   Trend
	Weekly  Trend
	Aligned bool
}

// Snapshot is the full technical picture of a symbol at the latest candle.
type Snapshot struct {
	Price float64

	SMA20  float64
	SMA50  float64
	SMA100 float64
	SMA200 float64
	EMA20  float64
	EMA50  float64

	RSI           float64
	RSIDivergence Divergence
	StochasticK   float64
	StochasticD   float64
	WilliamsR     float64
	CCI           float64

	MACD      MACDState
	ADX       ADXState
	Bollinger BollingerState

	ATR        float64
	ATRPercent float64

	OBV      float64
	OBVTrend OBVTrend
	VWAP     float64

	Alignment TimeframeAlignment

	// Score is the composite technical score in [0, 100].
	Score float64
	// Components breaks the score down by contribution group.
	Components map[string]float64
}

// Calculator derives technical snapshots from candle history.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a technical calculator with the given configuration.
// MinHistory is raised to the longest indicator window so a short window
// can never index an empty series.
func NewCalculator(cfg Config) *Calculator {
	if cfg.MinHistory <= 0 {
		cfg = DefaultConfig()
	}
	if req := cfg.RequiredHistory(); cfg.MinHistory < req {
		cfg.MinHistory = req
	}
	return &Calculator{cfg: cfg}
}

// Config returns the calculator's configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// CalculateSnapshot computes all indicators and the composite technical
// score for the given candle window. It fails when fewer than MinHistory
// candles are supplied; insufficient history is a hard precondition
// failure, not a soft default.
func (c *Calculator) CalculateSnapshot(candles []models.Candle, currentPrice float64) (*Snapshot, error) {
	if len(candles) < c.cfg.MinHistory {
		return nil, fmt.Errorf("%w: need %d candles, got %d",
			errors.ErrInsufficientHistory, c.cfg.MinHistory, len(candles))
	}
	if currentPrice <= 0 {
		currentPrice = candles[len(candles)-1].Close
	}

	n := len(candles)
	snap := &Snapshot{Price: currentPrice}

	sma20 := SMA(candles, 20)
	sma50 := SMA(candles, 50)
	sma100 := SMA(candles, 100)
	sma200 := SMA(candles, 200)
	snap.SMA20 = sma20[n-1]
	snap.SMA50 = sma50[n-1]
	snap.SMA100 = sma100[n-1]
	snap.SMA200 = sma200[n-1]

	snap.EMA20 = EMA(candles, 20)[n-1]
	snap.EMA50 = EMA(candles, 50)[n-1]

	rsi := RSI(candles, c.cfg.RSIPeriod)
	snap.RSI = rsi[n-1]
	snap.RSIDivergence = c.detectDivergence(candles, rsi)

	stoch := Stochastic(candles, c.cfg.StochasticK, c.cfg.StochasticD)
	snap.StochasticK = stoch.K[n-1]
	snap.StochasticD = stoch.D[n-1]

	snap.WilliamsR = WilliamsR(candles, c.cfg.WilliamsPeriod)[n-1]
	snap.CCI = CCI(candles, c.cfg.CCIPeriod)[n-1]

	macd := MACD(candles, c.cfg.MACDFast, c.cfg.MACDSlow, c.cfg.MACDSignal)
	snap.MACD = MACDState{
		Line:      macd.Line[n-1],
		Signal:    macd.Signal[n-1],
		Histogram: macd.Histogram[n-1],
		Crossover: detectCrossover(macd, n),
	}

	adx := ADX(candles, c.cfg.ADXPeriod)
	snap.ADX = ADXState{
		Value:    adx.ADX[n-1],
		PlusDI:   adx.PlusDI[n-1],
		MinusDI:  adx.MinusDI[n-1],
		Strength: c.bucketStrength(adx.ADX[n-1]),
	}

	bb := Bollinger(candles, c.cfg.BollingerPeriod, c.cfg.BollingerMult)
	snap.Bollinger = BollingerState{
		Upper:   bb.Upper[n-1],
		Middle:  bb.Middle[n-1],
		Lower:   bb.Lower[n-1],
		Width:   bb.Width[n-1],
		Squeeze: bb.Width[n-1] > 0 && bb.Width[n-1] < c.cfg.SqueezeWidth,
	}

	atr := ATR(candles, c.cfg.ATRPeriod)
	snap.ATR = atr[n-1]
	if currentPrice > 0 {
		snap.ATRPercent = snap.ATR / currentPrice * 100
	}

	obv := OBV(candles)
	snap.OBV = obv[n-1]
	snap.OBVTrend = c.obvTrend(obv)

	snap.VWAP = VWAP(candles)

	snap.Alignment = alignment(currentPrice, snap.SMA20, snap.SMA50, snap.SMA100, snap.SMA200)

	snap.Score, snap.Components = c.score(snap)

	return snap, nil
}

// detectCrossover compares the current MACD-vs-signal relationship against
// the previous bar.
func detectCrossover(m *MACDSeries, n int) Crossover {
	if n < 2 {
		return CrossoverNone
	}
	curAbove := m.Line[n-1] > m.Signal[n-1]
	prevAbove := m.Line[n-2] > m.Signal[n-2]
	switch {
	case curAbove && !prevAbove:
		return CrossoverBullish
	case !curAbove && prevAbove:
		return CrossoverBearish
	default:
		return CrossoverNone
	}
}

func (c *Calculator) bucketStrength(adx float64) TrendStrength {
	switch {
	case adx > c.cfg.ADXStrong:
		return StrongTrend
	case adx > c.cfg.ADXWeak:
		return WeakTrend
	default:
		return NoTrend
	}
}

// detectDivergence compares price and RSI direction over the lookback
// window using a coarse first-vs-last endpoint comparison. This is not a
// pivot-based divergence detector; it only catches divergences visible at
// the window endpoints.
func (c *Calculator) detectDivergence(candles []models.Candle, rsi []float64) Divergence {
	n := len(candles)
	lb := c.cfg.DivergenceLookback
	if n < lb || len(rsi) < lb {
		return DivergenceNone
	}

	priceDelta := candles[n-1].Close - candles[n-lb].Close
	rsiDelta := rsi[n-1] - rsi[n-lb]

	switch {
	case priceDelta < 0 && rsiDelta > 0:
		return DivergenceBullish
	case priceDelta > 0 && rsiDelta < 0:
		return DivergenceBearish
	default:
		return DivergenceNone
	}
}

// obvTrend compares the current OBV against the value one lookback period
// earlier, with a relative threshold for rising/falling.
func (c *Calculator) obvTrend(obv []float64) OBVTrend {
	n := len(obv)
	lb := c.cfg.OBVLookback
	if n <= lb {
		return OBVFlat
	}

	cur := obv[n-1]
	past := obv[n-1-lb]
	if past == 0 {
		if cur > 0 {
			return OBVRising
		}
		if cur < 0 {
			return OBVFalling
		}
		return OBVFlat
	}

	change := (cur - past) / abs(past)
	switch {
	case change > c.cfg.OBVThreshold:
		return OBVRising
	case change < -c.cfg.OBVThreshold:
		return OBVFalling
	default:
		return OBVFlat
	}
}

// alignment derives daily and approximated weekly trends from moving
// average ordering.
func alignment(price, sma20, sma50, sma100, sma200 float64) TimeframeAlignment {
	daily := TrendNeutral
	switch {
	case price > sma20 && sma20 > sma50:
		daily = TrendBullish
	case price < sma20 && sma20 < sma50:
		daily = TrendBearish
	}

	weekly := TrendNeutral
	switch {
	case sma50 > sma100 && sma100 > sma200:
		weekly = TrendBullish
	case sma50 < sma100 && sma100 < sma200:
		weekly = TrendBearish
	}

	return TimeframeAlignment{
		Daily:   daily,
		Weekly:  weekly,
		Aligned: daily != TrendNeutral && daily == weekly,
	}
}

// score accumulates the composite technical score from fixed point deltas:
// trend up to 25, momentum up to 25, trend strength and alignment up to 15,
// OBV up to 10, Bollinger position up to 10, on a base of 50.
func (c *Calculator) score(s *Snapshot) (float64, map[string]float64) {
	components := make(map[string]float64)

	var trend float64
	if s.Price > s.SMA20 {
		trend += 5
	}
	if s.Price > s.SMA50 {
		trend += 5
	}
	if s.Price > s.SMA200 {
		trend += 5
	}
	if s.SMA20 > s.SMA50 {
		trend += 5
	}
	if s.SMA50 > s.SMA200 {
		trend += 5
	}
	components["trend"] = trend

	var momentum float64
	switch {
	case s.RSI > c.cfg.RSIOverbought:
		momentum += 5
	case s.RSI >= 50:
		// Healthy momentum zone scores higher than overbought.
		momentum += 10
	case s.RSI >= c.cfg.RSIOversold:
		momentum += 4
	default:
		momentum += 5
	}
	switch {
	case s.MACD.Crossover == CrossoverBullish:
		momentum += 10
	case s.MACD.Histogram > 0:
		momentum += 6
	}
	if s.StochasticK > s.StochasticD && s.StochasticK < 80 {
		momentum += 5
	}
	components["momentum"] = momentum

	var strength float64
	switch s.ADX.Strength {
	case StrongTrend:
		strength += 10
	case WeakTrend:
		strength += 5
	}
	if s.Alignment.Aligned && s.Alignment.Daily == TrendBullish {
		strength += 5
	}
	components["strength"] = strength

	var volume float64
	switch s.OBVTrend {
	case OBVRising:
		volume += 10
	case OBVFlat:
		volume += 5
	}
	components["volume"] = volume

	var bollinger float64
	bandWidth := s.Bollinger.Upper - s.Bollinger.Lower
	if bandWidth > 0 {
		pos := (s.Price - s.Bollinger.Lower) / bandWidth
		switch {
		case pos >= 0.5 && pos <= 0.8:
			// Upper-middle band: constructive without being overextended.
			bollinger += 10
		case pos > 0.8 && pos <= 1.0:
			bollinger += 6
		case pos >= 0.2 && pos < 0.5:
			bollinger += 4
		default:
			bollinger += 2
		}
	}
	components["bollinger"] = bollinger

	score := analysis.Clamp(50 + trend + momentum + strength + volume + bollinger)
	return score, components
}
