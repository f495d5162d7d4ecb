package types

import "time"

// Bar is one OHLCV sample for a fixed time interval of one symbol.
type Bar struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// Closes returns the close prices of bars in order.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}

	return closes
}

// Volumes returns the volumes of bars in order.
func Volumes(bars []Bar) []float64 {
	volumes := make([]float64, len(bars))
	for i, bar := range bars {
		volumes[i] = bar.Volume
	}

	return volumes
}

// FilterRange returns the bars whose time lies in [start, end]. A zero start or end leaves that side open.
func FilterRange(bars []Bar, start time.Time, end time.Time) []Bar {
	filtered := make([]Bar, 0, len(bars))

	for _, bar := range bars {
		if !start.IsZero() && bar.Time.Before(start) {
			continue
		}

		if !end.IsZero() && bar.Time.After(end) {
			continue
		}

		filtered = append(filtered, bar)
	}

	return filtered
}
