// Package metrics derives summary and risk statistics from a finished run.
package metrics

import (
	"math"
	"sort"

	"github.com/rxtech-lab/argo-consensus/internal/indicator"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/shopspring/decimal"
)

const hoursPerDay = 24.0

// Calculate computes summary and risk metrics for trades executed from
// initialCapital. equity is the per-bar capital curve; when it is empty the
// curve is rebuilt from the trades in order.
func Calculate(trades []types.BacktestTrade, initialCapital float64, equity []types.EquityPoint) types.Metrics {
	summary := summarize(trades, initialCapital)

	curve := equityValues(equity)
	if len(curve) == 0 {
		curve = capitalFromTrades(trades, initialCapital)
	}

	maxDrawdown, currentDrawdown := Drawdowns(initialCapital, curve)

	returns := make([]float64, len(trades))
	for i, trade := range trades {
		returns[i] = trade.ProfitLossPercent
	}

	sharpe := SharpeRatio(returns)
	summary.MaxDrawdown = maxDrawdown
	summary.SharpeRatio = sharpe

	risk := types.RiskMetrics{
		SharpeRatio:     sharpe,
		SortinoRatio:    SortinoRatio(returns),
		MaxDrawdown:     maxDrawdown,
		CurrentDrawdown: currentDrawdown,
		Volatility:      indicator.StdDev(returns),
		ValueAtRisk95:   ValueAtRisk(returns, 0.95),
	}

	if maxDrawdown > 0 {
		risk.CalmarRatio = math.Abs(summary.TotalReturnPercent) / maxDrawdown
		risk.RecoveryFactor = summary.TotalReturnPercent / maxDrawdown
		risk.RiskAdjustedReturn = risk.RecoveryFactor
	}

	return types.Metrics{
		Summary: summary,
		Risk:    risk,
	}
}

func summarize(trades []types.BacktestTrade, initialCapital float64) types.SummaryMetrics {
	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	fees := decimal.Zero
	holdHours := 0.0

	summary := types.SummaryMetrics{
		TotalTrades:    len(trades),
		InitialCapital: initialCapital,
	}

	for _, trade := range trades {
		pnl := decimal.NewFromFloat(trade.ProfitLoss)
		fees = fees.Add(decimal.NewFromFloat(trade.Fees))
		holdHours += trade.HoldTime().Hours()

		switch {
		case trade.ProfitLoss > 0:
			summary.WinningTrades++
			grossProfit = grossProfit.Add(pnl)

			if trade.ProfitLoss > summary.LargestWin {
				summary.LargestWin = trade.ProfitLoss
			}
		case trade.ProfitLoss < 0:
			summary.LosingTrades++
			grossLoss = grossLoss.Add(pnl)

			if trade.ProfitLoss < summary.LargestLoss {
				summary.LargestLoss = trade.ProfitLoss
			}
		}
	}

	net := grossProfit.Add(grossLoss)
	summary.GrossProfit = grossProfit.InexactFloat64()
	summary.GrossLoss = grossLoss.InexactFloat64()
	summary.NetProfit = net.InexactFloat64()
	summary.FinalCapital = decimal.NewFromFloat(initialCapital).Add(net).InexactFloat64()
	summary.TotalFees = fees.InexactFloat64()

	if initialCapital > 0 {
		summary.TotalReturnPercent = net.Div(decimal.NewFromFloat(initialCapital)).InexactFloat64() * 100
	}

	if len(trades) > 0 {
		summary.WinRate = float64(summary.WinningTrades) / float64(len(trades)) * 100
		summary.AverageHoldTimeDays = holdHours / float64(len(trades)) / hoursPerDay
	}

	if summary.WinningTrades > 0 {
		summary.AverageWin = grossProfit.Div(decimal.NewFromInt(int64(summary.WinningTrades))).InexactFloat64()
	}

	if summary.LosingTrades > 0 {
		summary.AverageLoss = grossLoss.Div(decimal.NewFromInt(int64(summary.LosingTrades))).InexactFloat64()
	}

	summary.ProfitFactor = ratio(summary.GrossProfit, math.Abs(summary.GrossLoss))
	summary.WinLossRatio = ratio(summary.AverageWin, math.Abs(summary.AverageLoss))

	return summary
}

// ratio divides gains by losses; no losses with positive gains is +Inf and no
// gains at all is 0.
func ratio(gains, losses float64) float64 {
	if losses == 0 {
		if gains > 0 {
			return math.Inf(1)
		}

		return 0
	}

	return gains / losses
}

// flatTolerance is the relative stdev below which a sample counts as constant.
const flatTolerance = 1e-12

// isFlat reports whether deviation is rounding noise around the mean of values.
func isFlat(values []float64, deviation float64) bool {
	return deviation <= flatTolerance*math.Max(1, math.Abs(indicator.Mean(values)))
}

// SharpeRatio returns mean(returns) / stdev(returns), or 0 when the returns are
// all equal.
func SharpeRatio(returns []float64) float64 {
	deviation := indicator.StdDev(returns)
	if isFlat(returns, deviation) {
		return 0
	}

	return indicator.Mean(returns) / deviation
}

// SortinoRatio is SharpeRatio with the stdev of negative returns as denominator.
// It is +Inf when there are returns but none negative.
func SortinoRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	negatives := make([]float64, 0, len(returns))

	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}

	if len(negatives) == 0 {
		return math.Inf(1)
	}

	downside := indicator.StdDev(negatives)
	if isFlat(negatives, downside) {
		return 0
	}

	return indicator.Mean(returns) / downside
}

// ValueAtRisk returns the historical loss not exceeded with the given confidence,
// as a positive percentage. Zero when the tail holds no loss.
func ValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	index := int(math.Floor((1 - confidence) * float64(len(sorted))))
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return math.Max(0, -sorted[index])
}

// Drawdowns walks a capital curve starting at initialCapital and returns the
// maximum and final drawdown in percent, both clamped to [0, 100].
func Drawdowns(initialCapital float64, curve []float64) (float64, float64) {
	peak := initialCapital
	maxDrawdown := 0.0
	current := 0.0

	for _, capital := range curve {
		if capital > peak {
			peak = capital
		}

		current = 0
		if peak > 0 {
			current = math.Max(0, math.Min(100, (peak-capital)/peak*100))
		}

		if current > maxDrawdown {
			maxDrawdown = current
		}
	}

	return maxDrawdown, current
}

func equityValues(equity []types.EquityPoint) []float64 {
	values := make([]float64, len(equity))
	for i, point := range equity {
		values[i] = point.Equity
	}

	return values
}

func capitalFromTrades(trades []types.BacktestTrade, initialCapital float64) []float64 {
	capital := decimal.NewFromFloat(initialCapital)
	values := make([]float64, len(trades))

	for i, trade := range trades {
		capital = capital.Add(decimal.NewFromFloat(trade.ProfitLoss))
		values[i] = capital.InexactFloat64()
	}

	return values
}
