package indicator

// MACDResult holds the three MACD lines at the end of a series.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD computes the simple 12/26 MACD where the signal line is
// approximated as 0.9 of the MACD line.
func MACD(series []float64) MACDResult {
	macd := EMA(series, 12) - EMA(series, 26)
	signal := macd * 0.9

	return MACDResult{
		MACD:      macd,
		Signal:    signal,
		Histogram: macd - signal,
	}
}

// MACDWithSignal computes MACD with configurable periods and a real signal
// line: the EMA(signal) of the MACD value at every prefix of the series.
func MACDWithSignal(series []float64, fast, slow, signal int) MACDResult {
	if len(series) == 0 {
		return MACDResult{}
	}

	fastSeries := EMASeries(series, fast)
	slowSeries := EMASeries(series, slow)

	history := make([]float64, len(series))
	for i := range series {
		history[i] = fastSeries[i] - slowSeries[i]
	}

	macd := history[len(history)-1]
	signalLine := EMA(history, signal)

	return MACDResult{
		MACD:      macd,
		Signal:    signalLine,
		Histogram: macd - signalLine,
	}
}
