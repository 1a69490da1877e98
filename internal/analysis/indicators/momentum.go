package indicators

import (
	"trade-advisor/internal/models"
)

// RSI calculates the Relative Strength Index using Wilder smoothing.
func RSI(candles []models.Candle, period int) []float64 {
	if period <= 0 || len(candles) < period+1 {
		return nil
	}

	n := len(candles)
	result := make([]float64, n)
	closes := closePrices(candles)

	gains := make([]float64, n)
	losses := make([]float64, n)

	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := mean(gains[1 : period+1])
	avgLoss := mean(losses[1 : period+1])

	if avgLoss == 0 {
		result[period] = 100
	} else {
		rs := avgGain / avgLoss
		result[period] = 100 - (100 / (1 + rs))
	}

	for i := period + 1; i < n; i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)

		if avgLoss == 0 {
			result[i] = 100
		} else {
			rs := avgGain / avgLoss
			result[i] = 100 - (100 / (1 + rs))
		}
	}

	return result
}

// StochasticSeries holds the %K and %D series.
type StochasticSeries struct {
	K []float64
	D []float64
}

// Stochastic calculates the Stochastic Oscillator with the given %K period
// and %D smoothing period.
func Stochastic(candles []models.Candle, kPeriod, dPeriod int) *StochasticSeries {
	if kPeriod <= 0 || dPeriod <= 0 || len(candles) < kPeriod+dPeriod {
		return nil
	}

	n := len(candles)
	highs := highPrices(candles)
	lows := lowPrices(candles)
	closes := closePrices(candles)

	percentK := make([]float64, n)
	percentD := make([]float64, n)

	for i := kPeriod - 1; i < n; i++ {
		highestHigh := highest(highs[i-kPeriod+1 : i+1])
		lowestLow := lowest(lows[i-kPeriod+1 : i+1])

		if highestHigh == lowestLow {
			percentK[i] = 50
		} else {
			// Rounding can push the ratio past 100 when the close sits
			// at the window extreme.
			k := 100 * (closes[i] - lowestLow) / (highestHigh - lowestLow)
			percentK[i] = maxf(0, minf(100, k))
		}
	}

	for i := kPeriod + dPeriod - 2; i < n; i++ {
		percentD[i] = maxf(0, minf(100, mean(percentK[i-dPeriod+1:i+1])))
	}

	return &StochasticSeries{K: percentK, D: percentD}
}

// WilliamsR calculates Williams %R. Values fall in [-100, 0].
func WilliamsR(candles []models.Candle, period int) []float64 {
	if period <= 0 || len(candles) < period {
		return nil
	}

	n := len(candles)
	result := make([]float64, n)
	highs := highPrices(candles)
	lows := lowPrices(candles)
	closes := closePrices(candles)

	for i := period - 1; i < n; i++ {
		highestHigh := highest(highs[i-period+1 : i+1])
		lowestLow := lowest(lows[i-period+1 : i+1])

		if highestHigh == lowestLow {
			result[i] = -50
		} else {
			wr := -100 * (highestHigh - closes[i]) / (highestHigh - lowestLow)
			result[i] = maxf(-100, minf(0, wr))
		}
	}

	return result
}

// CCI calculates the Commodity Channel Index.
func CCI(candles []models.Candle, period int) []float64 {
	if period <= 0 || len(candles) < period {
		return nil
	}

	n := len(candles)
	result := make([]float64, n)

	tp := make([]float64, n)
	for i := 0; i < n; i++ {
		tp[i] = (candles[i].High + candles[i].Low + candles[i].Close) / 3
	}

	for i := period - 1; i < n; i++ {
		tpSlice := tp[i-period+1 : i+1]
		sma := mean(tpSlice)

		var meanDev float64
		for _, v := range tpSlice {
			meanDev += abs(v - sma)
		}
		meanDev /= float64(period)

		if meanDev == 0 {
			result[i] = 0
		} else {
			result[i] = (tp[i] - sma) / (0.015 * meanDev)
		}
	}

	return result
}
