package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-consensus/internal/types"
)

// ATR returns the mean true range over the last period ranges.
// It needs period+1 bars because every range looks at the previous close.
func ATR(bars []types.Bar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 0
	}

	sum := 0.0

	for i := len(bars) - period; i < len(bars); i++ {
		sum += trueRange(bars[i], bars[i-1].Close)
	}

	return sum / float64(period)
}

func trueRange(bar types.Bar, previousClose float64) float64 {
	highLow := bar.High - bar.Low
	highClose := math.Abs(bar.High - previousClose)
	lowClose := math.Abs(bar.Low - previousClose)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
