package indicators

import (
	"trade-advisor/internal/models"
)

// ATR calculates the Average True Range using Wilder smoothing.
func ATR(candles []models.Candle, period int) []float64 {
	if period <= 0 || len(candles) < period+1 {
		return nil
	}

	n := len(candles)
	result := make([]float64, n)
	tr := make([]float64, n)

	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < n; i++ {
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	result[period-1] = mean(tr[:period])

	for i := period; i < n; i++ {
		result[i] = (result[i-1]*float64(period-1) + tr[i]) / float64(period)
	}

	return result
}

// BollingerSeries holds the Bollinger Band output series.
type BollingerSeries struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	// Width is (upper-lower)/middle, the relative band width used for
	// squeeze detection.
	Width []float64
}

// Bollinger calculates Bollinger Bands over closes with the given period
// and standard-deviation multiplier.
func Bollinger(candles []models.Candle, period int, mult float64) *BollingerSeries {
	if period <= 0 || mult <= 0 || len(candles) < period {
		return nil
	}

	n := len(candles)
	closes := closePrices(candles)

	middle := make([]float64, n)
	upper := make([]float64, n)
	lower := make([]float64, n)
	width := make([]float64, n)

	for i := period - 1; i < n; i++ {
		slice := closes[i-period+1 : i+1]
		sma := mean(slice)
		sd := stdDev(slice)

		middle[i] = sma
		upper[i] = sma + mult*sd
		lower[i] = sma - mult*sd

		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i]
		}
	}

	return &BollingerSeries{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
		Width:  width,
	}
}
