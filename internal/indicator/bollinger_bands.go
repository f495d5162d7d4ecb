package indicator

// Bands is an upper/middle/lower band triple.
type Bands struct {
	Upper  float64
	Middle float64
	Lower  float64
}

// BollingerBands returns SMA(period) plus and minus two population standard
// deviations of the last period values.
func BollingerBands(series []float64, period int) Bands {
	middle := SMA(series, period)
	deviation := StdDev(tail(series, period))

	return Bands{
		Upper:  middle + 2*deviation,
		Middle: middle,
		Lower:  middle - 2*deviation,
	}
}
