package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trade-advisor/internal/errors"
	"trade-advisor/internal/models"
)

// trendingCandles builds a gently rising series with mild oscillation.
func trendingCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		drift := 0.3
		wave := 2.0 * math.Sin(float64(i)/7)
		open := price
		close := price + drift + wave/4
		high := math.Max(open, close) + 1.0
		low := math.Min(open, close) - 1.0
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, i),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1_000_000 + int64(i)*1000,
		}
		price = close
	}
	return candles
}

func TestCalculateSnapshotRequiresHistory(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	_, err := calc.CalculateSnapshot(trendingCandles(199), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientHistory)

	snap, err := calc.CalculateSnapshot(trendingCandles(200), 0)
	require.NoError(t, err)
	require.NotNil(t, snap)
}

func TestShortMinHistoryIsRaisedToLongestWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinHistory = 100
	calc := NewCalculator(cfg)

	// 150 candles clear the configured minimum but not the SMA200 window;
	// the calculator must refuse rather than index an empty series.
	_, err := calc.CalculateSnapshot(trendingCandles(150), 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientHistory)

	snap, err := calc.CalculateSnapshot(trendingCandles(200), 0)
	require.NoError(t, err)
	require.NotNil(t, snap)
}

func TestRequiredHistoryTracksLongestWindow(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 200, cfg.RequiredHistory())

	cfg.MACDSlow, cfg.MACDSignal = 200, 50
	assert.Equal(t, 250, cfg.RequiredHistory())
}

func TestCalculateSnapshotPopulatesAllFields(t *testing.T) {
	calc := NewCalculator(DefaultConfig())
	candles := trendingCandles(250)

	snap, err := calc.CalculateSnapshot(candles, 0)
	require.NoError(t, err)

	assert.Equal(t, candles[len(candles)-1].Close, snap.Price)
	assert.Greater(t, snap.SMA20, 0.0)
	assert.Greater(t, snap.SMA50, 0.0)
	assert.Greater(t, snap.SMA100, 0.0)
	assert.Greater(t, snap.SMA200, 0.0)
	assert.Greater(t, snap.EMA20, 0.0)
	assert.Greater(t, snap.EMA50, 0.0)

	assert.GreaterOrEqual(t, snap.RSI, 0.0)
	assert.LessOrEqual(t, snap.RSI, 100.0)
	assert.GreaterOrEqual(t, snap.StochasticK, 0.0)
	assert.LessOrEqual(t, snap.StochasticK, 100.0)
	assert.GreaterOrEqual(t, snap.WilliamsR, -100.0)
	assert.LessOrEqual(t, snap.WilliamsR, 0.0)

	assert.Greater(t, snap.ATR, 0.0)
	assert.Greater(t, snap.Bollinger.Upper, snap.Bollinger.Lower)
	assert.Greater(t, snap.Bollinger.Width, 0.0)
	assert.Greater(t, snap.VWAP, 0.0)

	assert.NotEmpty(t, snap.ADX.Strength)
	assert.NotEmpty(t, snap.OBVTrend)
	assert.NotEmpty(t, snap.Alignment.Daily)
	assert.NotEmpty(t, snap.Alignment.Weekly)

	assert.GreaterOrEqual(t, snap.Score, 0.0)
	assert.LessOrEqual(t, snap.Score, 100.0)
	assert.NotEmpty(t, snap.Components)
}

func TestUptrendScoresAboveNeutral(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	snap, err := calc.CalculateSnapshot(trendingCandles(250), 0)
	require.NoError(t, err)

	// A steady uptrend keeps price above its moving averages and momentum
	// constructive, so the additive bonuses land above the 50 base.
	assert.Greater(t, snap.Score, 50.0)
	assert.Equal(t, TrendBullish, snap.Alignment.Daily)
}

func TestSMAUsesTrailingWindow(t *testing.T) {
	candles := trendingCandles(30)
	values := SMA(candles, 5)
	require.Len(t, values, 30)

	var manual float64
	for _, c := range candles[25:] {
		manual += c.Close
	}
	manual /= 5

	assert.InDelta(t, manual, values[29], 1e-9)
}

func TestStochasticClampsAtWindowExtremes(t *testing.T) {
	// These levels make 100*(close-low)/(high-low) round to just above
	// 100 when the close sits exactly at the window high.
	const low, high = 830.0373929173943, 1165.1901761247595

	candles := trendingCandles(40)
	for i := range candles {
		candles[i].Low = low
		candles[i].High = high
		candles[i].Close = high
		candles[i].Open = low
	}

	stoch := Stochastic(candles, 14, 3)
	require.NotNil(t, stoch)
	for i := 13; i < len(candles); i++ {
		assert.LessOrEqual(t, stoch.K[i], 100.0, "K[%d]", i)
		assert.GreaterOrEqual(t, stoch.K[i], 0.0, "K[%d]", i)
	}
	for i := 15; i < len(candles); i++ {
		assert.LessOrEqual(t, stoch.D[i], 100.0, "D[%d]", i)
		assert.GreaterOrEqual(t, stoch.D[i], 0.0, "D[%d]", i)
	}
}

func TestMACDSeriesShape(t *testing.T) {
	candles := trendingCandles(120)
	macd := MACD(candles, 12, 26, 9)
	require.NotNil(t, macd)

	n := len(candles)
	require.Len(t, macd.Line, n)
	require.Len(t, macd.Signal, n)
	require.Len(t, macd.Histogram, n)
	assert.InDelta(t, macd.Line[n-1]-macd.Signal[n-1], macd.Histogram[n-1], 1e-9)
}

func TestOBVAccumulatesWithRisingCloses(t *testing.T) {
	candles := trendingCandles(40)
	obv := OBV(candles)
	require.Len(t, obv, 40)

	// The series trends up overall, so OBV should end net positive.
	assert.Greater(t, obv[len(obv)-1], 0.0)
}

func TestBollingerWidthIsRelative(t *testing.T) {
	candles := trendingCandles(60)
	bb := Bollinger(candles, 20, 2.0)
	require.NotNil(t, bb)

	n := len(candles) - 1
	expected := (bb.Upper[n] - bb.Lower[n]) / bb.Middle[n]
	assert.InDelta(t, expected, bb.Width[n], 1e-9)
}
