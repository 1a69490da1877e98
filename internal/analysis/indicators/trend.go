package indicators

import (
	"trade-advisor/internal/models"
)

// SMA calculates the Simple Moving Average of closes over the given period.
// The returned slice is aligned with the input; positions before the first
// full window are zero.
func SMA(candles []models.Candle, period int) []float64 {
	if period <= 0 || len(candles) < period {
		return nil
	}

	result := make([]float64, len(candles))
	closes := closePrices(candles)

	for i := period - 1; i < len(candles); i++ {
		result[i] = mean(closes[i-period+1 : i+1])
	}

	return result
}

// EMA calculates the Exponential Moving Average of closes over the given
// period. The first EMA value is the SMA of the first window.
func EMA(candles []models.Candle, period int) []float64 {
	return emaSeries(closePrices(candles), period)
}

// emaSeries calculates EMA on raw values (shared by MACD).
func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	result := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	result[period-1] = mean(values[:period])

	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}

	return result
}

// MACDSeries holds the three MACD output series.
type MACDSeries struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD calculates Moving Average Convergence Divergence with the given
// fast/slow/signal periods.
func MACD(candles []models.Candle, fast, slow, signal int) *MACDSeries {
	minLen := slow + signal - 1
	if fast <= 0 || slow <= 0 || signal <= 0 || len(candles) < minLen {
		return nil
	}

	n := len(candles)
	closes := closePrices(candles)
	fastEMA := emaSeries(closes, fast)
	slowEMA := emaSeries(closes, slow)

	line := make([]float64, n)
	for i := slow - 1; i < n; i++ {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal line is an EMA of the MACD line, starting where it is defined.
	signalLine := make([]float64, n)
	startIdx := slow - 1
	signalEMA := emaSeries(line[startIdx:], signal)
	for i := range signalEMA {
		signalLine[startIdx+i] = signalEMA[i]
	}

	histogram := make([]float64, n)
	for i := minLen - 1; i < n; i++ {
		histogram[i] = line[i] - signalLine[i]
	}

	return &MACDSeries{
		Line:      line,
		Signal:    signalLine,
		Histogram: histogram,
	}
}

// ADXSeries holds the ADX output series.
type ADXSeries struct {
	ADX     []float64
	PlusDI  []float64
	MinusDI []float64
}

// ADX calculates the Average Directional Index with +DI and -DI using
// Wilder smoothing.
func ADX(candles []models.Candle, period int) *ADXSeries {
	if period <= 0 || len(candles) < period*2 {
		return nil
	}

	n := len(candles)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)

	for i := 1; i < n; i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	smoothPlusDM := wilderSmooth(plusDM, period)
	smoothMinusDM := wilderSmooth(minusDM, period)
	smoothTR := wilderSmooth(tr, period)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	dx := make([]float64, n)

	for i := period; i < n; i++ {
		if smoothTR[i] != 0 {
			plusDI[i] = 100 * smoothPlusDM[i] / smoothTR[i]
			minusDI[i] = 100 * smoothMinusDM[i] / smoothTR[i]
		}
		diSum := plusDI[i] + minusDI[i]
		if diSum != 0 {
			dx[i] = 100 * abs(plusDI[i]-minusDI[i]) / diSum
		}
	}

	adx := wilderSmooth(dx[period:], period)
	adxResult := make([]float64, n)
	for i := range adx {
		adxResult[period+i] = adx[i]
	}

	return &ADXSeries{
		ADX:     adxResult,
		PlusDI:  plusDI,
		MinusDI: minusDI,
	}
}
