package indicator

// SMA returns the simple moving average of the last period values.
// With fewer than period samples the last value is returned; an empty
// series yields 0.
func SMA(series []float64, period int) float64 {
	if len(series) == 0 {
		return 0
	}

	if period <= 0 || len(series) < period {
		return series[len(series)-1]
	}

	return Mean(series[len(series)-period:])
}
