package indicators

import (
	"trade-advisor/internal/models"
)

// OBV calculates On-Balance Volume.
func OBV(candles []models.Candle) []float64 {
	if len(candles) == 0 {
		return nil
	}

	n := len(candles)
	result := make([]float64, n)
	result[0] = float64(candles[0].Volume)

	for i := 1; i < n; i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			result[i] = result[i-1] + float64(candles[i].Volume)
		case candles[i].Close < candles[i-1].Close:
			result[i] = result[i-1] - float64(candles[i].Volume)
		default:
			result[i] = result[i-1]
		}
	}

	return result
}

// VWAP calculates the volume-weighted average close over the full window.
// This is a session approximation, not a true intraday VWAP: every candle
// in the window contributes, weighted by its volume.
func VWAP(candles []models.Candle) float64 {
	if len(candles) == 0 {
		return 0
	}

	var weightedSum, totalVolume float64
	for _, c := range candles {
		weightedSum += c.Close * float64(c.Volume)
		totalVolume += float64(c.Volume)
	}

	if totalVolume == 0 {
		return candles[len(candles)-1].Close
	}
	return weightedSum / totalVolume
}
