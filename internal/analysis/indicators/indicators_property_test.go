package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trade-advisor/internal/models"
)

// candleGen generates valid candle data with realistic OHLCV values.
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Open":   gen.Float64Range(100.0, 1000.0),
		"High":   gen.Float64Range(100.0, 1000.0),
		"Low":    gen.Float64Range(100.0, 1000.0),
		"Close":  gen.Float64Range(100.0, 1000.0),
		"Volume": gen.Int64Range(1000, 10000000),
	}).Map(fixCandle)
}

// fixCandle enforces OHLC constraints on a generated candle.
func fixCandle(c models.Candle) models.Candle {
	if c.Open <= 0 {
		c.Open = 100.0
	}
	if c.Close <= 0 {
		c.Close = 100.0
	}
	c.High = math.Max(c.High, math.Max(c.Open, c.Close))
	c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
	if c.Low <= 0 {
		c.Low = math.Min(c.Open, c.Close)
	}
	if c.High <= c.Low {
		c.High = c.Low + 1.0
	}
	if c.Volume <= 0 {
		c.Volume = 1000
	}
	return c
}

// candleSliceGen generates a slice of valid candles with ordered timestamps.
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		if len(candles) == 0 {
			candles = []models.Candle{{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}}
		}
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		for i := range candles {
			candles[i] = fixCandle(candles[i])
			candles[i].Timestamp = base.Add(time.Duration(i) * 24 * time.Hour)
		}
		return candles
	})
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("RSI values are within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			values := RSI(candles, 14)
			if values == nil {
				return true
			}
			for i := 14; i < len(values); i++ {
				if values[i] < 0 || values[i] > 100 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_StochasticWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Stochastic %K and %D are within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			stoch := Stochastic(candles, 14, 3)
			if stoch == nil {
				return true
			}
			for i := 16; i < len(stoch.K); i++ {
				if stoch.K[i] < 0 || stoch.K[i] > 100 {
					return false
				}
				if stoch.D[i] < 0 || stoch.D[i] > 100 {
					return false
				}
			}
			return true
		},
		candleSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_WilliamsRWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("Williams %R values are within [-100, 0]", prop.ForAll(
		func(candles []models.Candle) bool {
			values := WilliamsR(candles, 14)
			if values == nil {
				return true
			}
			for i := 13; i < len(values); i++ {
				if values[i] < -100 || values[i] > 0 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_SnapshotScoreWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	calc := NewCalculator(DefaultConfig())

	properties.Property("technical score stays within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			snap, err := calc.CalculateSnapshot(candles, 0)
			if err != nil {
				return true
			}
			return snap.Score >= 0 && snap.Score <= 100
		},
		candleSliceGen(200, 250),
	))

	properties.TestingRun(t)
}
