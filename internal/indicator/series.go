// Package indicator computes technical indicators over close-price series.
//
// Every function is pure: it never mutates its input and returns a neutral
// value instead of an error when the series is too short.
package indicator

import "math"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	variance := 0.0

	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	return math.Sqrt(variance / float64(len(values)))
}

// Returns converts a price series into fractional close-to-close returns.
// Pairs whose previous price is zero are skipped.
func Returns(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(series)-1)

	for i := 1; i < len(series); i++ {
		if series[i-1] == 0 {
			continue
		}

		returns = append(returns, (series[i]-series[i-1])/series[i-1])
	}

	return returns
}

func tail(series []float64, n int) []float64 {
	if n <= 0 || n >= len(series) {
		return series
	}

	return series[len(series)-n:]
}
