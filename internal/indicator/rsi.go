package indicator

// RSI returns the relative strength index of the series.
//
// Gains and losses are summed over every change in the series and divided
// by period. Fewer than period+1 samples yields the neutral 50; a series
// without losses yields 100.
func RSI(series []float64, period int) float64 {
	if period <= 0 || len(series) < period+1 {
		return 50
	}

	gains := 0.0
	losses := 0.0

	for i := 1; i < len(series); i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}
