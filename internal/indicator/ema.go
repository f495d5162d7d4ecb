package indicator

// EMA returns the exponential moving average of the whole series, seeded
// with the first value.
func EMA(series []float64, period int) float64 {
	if len(series) == 0 {
		return 0
	}

	multiplier := emaMultiplier(period)
	ema := series[0]

	for _, price := range series[1:] {
		ema = (price-ema)*multiplier + ema
	}

	return ema
}

// EMASeries returns the running EMA for every prefix of series.
// EMASeries(s, p)[i] == EMA(s[:i+1], p).
func EMASeries(series []float64, period int) []float64 {
	if len(series) == 0 {
		return nil
	}

	multiplier := emaMultiplier(period)
	out := make([]float64, len(series))
	out[0] = series[0]

	for i := 1; i < len(series); i++ {
		out[i] = (series[i]-out[i-1])*multiplier + out[i-1]
	}

	return out
}

func emaMultiplier(period int) float64 {
	if period < 1 {
		period = 1
	}

	return 2.0 / float64(period+1)
}
