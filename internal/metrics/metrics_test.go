package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
	start time.Time
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *MetricsTestSuite) trade(day int, pnl, pct float64) types.BacktestTrade {
	entry := suite.start.AddDate(0, 0, day)

	return types.BacktestTrade{
		ID:                "t",
		Action:            types.ActionBuy,
		Quantity:          1,
		EntryTime:         entry,
		ExitTime:          entry.AddDate(0, 0, 1),
		ProfitLoss:        pnl,
		ProfitLossPercent: pct,
		Fees:              1,
	}
}

func (suite *MetricsTestSuite) TestNoTrades() {
	metrics := Calculate(nil, 10000, nil)

	suite.Equal(0, metrics.Summary.TotalTrades)
	suite.Equal(10000.0, metrics.Summary.FinalCapital)
	suite.Equal(0.0, metrics.Summary.WinRate)
	suite.Equal(0.0, metrics.Summary.ProfitFactor)
	suite.Equal(0.0, metrics.Summary.WinLossRatio)
	suite.Equal(0.0, metrics.Risk.SharpeRatio)
	suite.Equal(0.0, metrics.Risk.SortinoRatio)
	suite.Equal(0.0, metrics.Risk.MaxDrawdown)
	suite.Equal(0.0, metrics.Risk.CalmarRatio)
}

func (suite *MetricsTestSuite) TestMixedTrades() {
	trades := []types.BacktestTrade{
		suite.trade(0, 200, 2),
		suite.trade(1, -100, -1),
		suite.trade(2, 100, 1),
	}

	metrics := Calculate(trades, 10000, nil)
	summary := metrics.Summary

	suite.Equal(3, summary.TotalTrades)
	suite.Equal(2, summary.WinningTrades)
	suite.Equal(1, summary.LosingTrades)
	suite.InDelta(66.6666, summary.WinRate, 1e-3)
	suite.InDelta(300.0, summary.GrossProfit, 1e-9)
	suite.InDelta(-100.0, summary.GrossLoss, 1e-9)
	suite.InDelta(3.0, summary.ProfitFactor, 1e-9)
	suite.InDelta(150.0, summary.AverageWin, 1e-9)
	suite.InDelta(-100.0, summary.AverageLoss, 1e-9)
	suite.InDelta(1.5, summary.WinLossRatio, 1e-9)
	suite.InDelta(200.0, summary.LargestWin, 1e-9)
	suite.InDelta(-100.0, summary.LargestLoss, 1e-9)
	suite.InDelta(200.0, summary.NetProfit, 1e-9)
	suite.InDelta(10200.0, summary.FinalCapital, 1e-9)
	suite.InDelta(2.0, summary.TotalReturnPercent, 1e-9)
	suite.InDelta(3.0, summary.TotalFees, 1e-9)
	suite.InDelta(1.0, summary.AverageHoldTimeDays, 1e-9)

	risk := metrics.Risk
	expectedDrawdown := 100.0 / 10200.0 * 100
	suite.InDelta(expectedDrawdown, risk.MaxDrawdown, 1e-9)
	suite.InDelta(0.0, risk.CurrentDrawdown, 1e-9)
	suite.InDelta(2.0/expectedDrawdown, risk.CalmarRatio, 1e-9)
	suite.InDelta(2.0/expectedDrawdown, risk.RecoveryFactor, 1e-9)
	suite.Equal(risk.RecoveryFactor, risk.RiskAdjustedReturn)
	suite.InDelta(0.5345, risk.SharpeRatio, 1e-3)
	suite.Equal(risk.SharpeRatio, summary.SharpeRatio)
	suite.Equal(risk.MaxDrawdown, summary.MaxDrawdown)
	suite.Equal(0.0, risk.SortinoRatio)
	suite.InDelta(1.0, risk.ValueAtRisk95, 1e-9)
	suite.Greater(risk.Volatility, 0.0)
}

func (suite *MetricsTestSuite) TestAllWinners() {
	trades := []types.BacktestTrade{
		suite.trade(0, 100, 1),
		suite.trade(1, 50, 0.5),
	}

	metrics := Calculate(trades, 10000, nil)
	suite.True(math.IsInf(metrics.Summary.ProfitFactor, 1))
	suite.True(math.IsInf(metrics.Summary.WinLossRatio, 1))
	suite.True(math.IsInf(metrics.Risk.SortinoRatio, 1))
	suite.Equal(0.0, metrics.Risk.ValueAtRisk95)
	suite.Equal(0.0, metrics.Risk.CalmarRatio)
}

func (suite *MetricsTestSuite) TestEqualReturnsGiveZeroSharpe() {
	trades := []types.BacktestTrade{
		suite.trade(0, 10, 0.1),
		suite.trade(1, 10, 0.1),
		suite.trade(2, 10, 0.1),
	}

	suite.Equal(0.0, Calculate(trades, 10000, nil).Risk.SharpeRatio)
}

func (suite *MetricsTestSuite) TestFlatReturnsIgnoreRoundingNoise() {
	repeat := func(value float64, n int) []float64 {
		values := make([]float64, n)
		for i := range values {
			values[i] = value
		}

		return values
	}

	tests := []struct {
		name    string
		returns []float64
		ratio   func([]float64) float64
	}{
		{name: "sharpe 0.1 x3", returns: repeat(0.1, 3), ratio: SharpeRatio},
		{name: "sharpe 0.7 x3", returns: repeat(0.7, 3), ratio: SharpeRatio},
		{name: "sharpe 1.1 x7", returns: repeat(1.1, 7), ratio: SharpeRatio},
		{name: "sharpe -0.3 x5", returns: repeat(-0.3, 5), ratio: SharpeRatio},
		{name: "sortino equal negatives", returns: []float64{1, -0.1, -0.1, -0.1}, ratio: SortinoRatio},
		{name: "sortino equal negatives 0.7", returns: []float64{2, -0.7, -0.7, -0.7}, ratio: SortinoRatio},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(0.0, tc.ratio(tc.returns))
		})
	}
}

func (suite *MetricsTestSuite) TestRatiosWithSpread() {
	suite.InDelta(1.0, SharpeRatio([]float64{0, 2}), 1e-9)
	suite.InDelta(4.0/3.0, SortinoRatio([]float64{5, -1, -2}), 1e-9)
}

func (suite *MetricsTestSuite) TestEquityCurveDrivesDrawdown() {
	equity := []types.EquityPoint{
		{Time: suite.start, Equity: 10000},
		{Time: suite.start.AddDate(0, 0, 1), Equity: 8000},
		{Time: suite.start.AddDate(0, 0, 2), Equity: 9000},
	}

	metrics := Calculate(nil, 10000, equity)
	suite.InDelta(20.0, metrics.Risk.MaxDrawdown, 1e-9)
	suite.InDelta(10.0, metrics.Risk.CurrentDrawdown, 1e-9)
}

func (suite *MetricsTestSuite) TestDrawdownsAreClamped() {
	tests := []struct {
		name    string
		curve   []float64
		maxDD   float64
		current float64
	}{
		{"empty", nil, 0, 0},
		{"only rising", []float64{10100, 10200}, 0, 0},
		{"ruin beyond zero", []float64{5000, -500}, 100, 100},
		{"recovery", []float64{9000, 11000}, 10, 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			maxDD, current := Drawdowns(10000, tc.curve)
			suite.InDelta(tc.maxDD, maxDD, 1e-9)
			suite.InDelta(tc.current, current, 1e-9)
			suite.GreaterOrEqual(maxDD, 0.0)
			suite.LessOrEqual(maxDD, 100.0)
		})
	}
}

func (suite *MetricsTestSuite) TestValueAtRisk() {
	returns := make([]float64, 20)
	for i := range returns {
		returns[i] = float64(i - 5)
	}

	// 5% of 20 samples is index 1 of the sorted returns
	suite.InDelta(4.0, ValueAtRisk(returns, 0.95), 1e-9)
	suite.Equal(0.0, ValueAtRisk(nil, 0.95))
}
