package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
)

// DataGenerator generates synthetic bar series for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the duration between each bar
	Interval     time.Duration
	Count        int
	InitialPrice float64
	// Volatility is the stdev of the per-bar return (0.01 = 1%)
	Volatility float64
	// Drift is the mean per-bar return
	Drift          float64
	VolumeBase     float64
	VolumeVariance float64
}

// DefaultConfig returns a daily series of 120 bars.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          120,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Drift:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates bars following a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	price := config.InitialPrice
	current := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := price

		// Box-Muller
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Drift + config.Volatility*z)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		high := math.Max(open, closePrice) + math.Abs(g.rng.Float64()*config.Volatility*open*0.5)
		low := math.Min(open, closePrice) - math.Abs(g.rng.Float64()*config.Volatility*open*0.5)

		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Symbol: config.Symbol,
			Time:   current,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 2),
		}

		price = closePrice
		current = current.Add(config.Interval)
	}

	return bars
}

// LinearBars returns count daily bars whose close moves by step per bar from
// startPrice. High and low sit half a step around the close.
func LinearBars(symbol string, start time.Time, count int, startPrice float64, step float64) []types.Bar {
	bars := make([]types.Bar, count)
	spread := math.Abs(step) / 2

	for i := range bars {
		closePrice := startPrice + float64(i)*step
		bars[i] = types.Bar{
			Symbol: symbol,
			Time:   start.AddDate(0, 0, i),
			Open:   closePrice - step,
			High:   closePrice + spread,
			Low:    closePrice - spread,
			Close:  closePrice,
			Volume: 1000 + float64(i),
		}
	}

	return bars
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
