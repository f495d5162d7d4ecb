package optimizer

import (
	"math"

	"github.com/rxtech-lab/argo-consensus/internal/types"
)

// Fitness weights of the normalized metrics.
const (
	WeightReturn       = 0.30
	WeightWinRate      = 0.25
	WeightSharpe       = 0.20
	WeightDrawdown     = 0.15
	WeightProfitFactor = 0.10
)

// Fitness scores a run in [0, 1]. Non-finite inputs are clamped, NaN counts as 0.
func Fitness(summary types.SummaryMetrics, risk types.RiskMetrics) float64 {
	maxDrawdown := risk.MaxDrawdown
	if maxDrawdown == 0 {
		maxDrawdown = summary.MaxDrawdown
	}

	return WeightReturn*clamp(summary.TotalReturnPercent/100, 0, 1) +
		WeightWinRate*clamp(summary.WinRate/100, 0, 1) +
		WeightSharpe*clamp(summary.SharpeRatio/3, 0, 1) +
		WeightDrawdown*math.Max(1-clamp(maxDrawdown, 0, 100)/50, 0) +
		WeightProfitFactor*clamp(summary.ProfitFactor/3, 0, 1)
}

func clamp(value, lower, upper float64) float64 {
	if math.IsNaN(value) {
		return lower
	}

	return math.Max(lower, math.Min(upper, value))
}
