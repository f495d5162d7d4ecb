package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/mocks"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TechnicalAnalysisTestSuite struct {
	suite.Suite
	start    time.Time
	strategy Strategy
}

func TestTechnicalAnalysisSuite(t *testing.T) {
	suite.Run(t, new(TechnicalAnalysisTestSuite))
}

func (suite *TechnicalAnalysisTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.strategy = NewTechnicalAnalysis(types.DefaultStrategyParameters())
}

func (suite *TechnicalAnalysisTestSuite) TestName() {
	suite.Equal("technical_analysis", suite.strategy.Name())
}

func (suite *TechnicalAnalysisTestSuite) TestRisingSeriesBuys() {
	bars := mocks.LinearBars("X", suite.start, 60, 100, 1)

	signal, err := suite.strategy.Analyze(context.Background(), "X", bars)
	suite.NoError(err)
	suite.Equal(types.ActionBuy, signal.Action)
	suite.Equal(66.0, signal.Strength)
	suite.InDelta(66.666, signal.Confidence, 1e-2)
	suite.Equal(159.0, signal.EntryPrice)
	suite.Equal(bars[59].Time, signal.Time)
	suite.Equal("technical_analysis", signal.Strategy)

	// true range of every bar is 1.5
	suite.InDelta(159.0-3.0, signal.StopLoss.Unwrap(), 1e-9)
	suite.InDelta(159.0+4.5, signal.TakeProfit.Unwrap(), 1e-9)
	suite.NoError(signal.Validate())
}

func (suite *TechnicalAnalysisTestSuite) TestRisingSeriesNeverSells() {
	bars := mocks.LinearBars("X", suite.start, 60, 100, 1)

	for i := 20; i < len(bars); i++ {
		signal, err := suite.strategy.Analyze(context.Background(), "X", bars[:i+1])
		suite.NoError(err)
		suite.NotEqual(types.ActionSell, signal.Action, "window ending at %d", i)
	}
}

func (suite *TechnicalAnalysisTestSuite) TestFallingSeriesSells() {
	bars := mocks.LinearBars("X", suite.start, 60, 200, -1)

	signal, err := suite.strategy.Analyze(context.Background(), "X", bars)
	suite.NoError(err)
	suite.Equal(types.ActionSell, signal.Action)
	suite.Greater(signal.StopLoss.Unwrap(), signal.EntryPrice)
	suite.Less(signal.TakeProfit.Unwrap(), signal.EntryPrice)
}

func (suite *TechnicalAnalysisTestSuite) TestFlatSeriesHolds() {
	bars := mocks.LinearBars("X", suite.start, 40, 100, 0)

	signal, err := suite.strategy.Analyze(context.Background(), "X", bars)
	suite.NoError(err)
	suite.Equal(types.ActionHold, signal.Action)
	suite.True(signal.StopLoss.IsNone())
	suite.True(signal.TakeProfit.IsNone())
}

func (suite *TechnicalAnalysisTestSuite) TestEmptyWindow() {
	_, err := suite.strategy.Analyze(context.Background(), "X", nil)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *TechnicalAnalysisTestSuite) TestBacktest() {
	bars := mocks.LinearBars("X", suite.start, 60, 100, 1)

	summary, err := suite.strategy.Backtest(context.Background(), "X", bars)
	suite.NoError(err)
	suite.Equal(10000.0, summary.InitialCapital)
	suite.Greater(summary.TotalTrades, 0)
	suite.Greater(summary.NetProfit, 0.0)
	suite.Equal(summary.TotalTrades, summary.WinningTrades)
}

func (suite *TechnicalAnalysisTestSuite) TestBacktestInsufficientData() {
	bars := mocks.LinearBars("X", suite.start, 10, 100, 1)

	_, err := suite.strategy.Backtest(context.Background(), "X", bars)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *TechnicalAnalysisTestSuite) TestBacktestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.strategy.Backtest(ctx, "X", mocks.LinearBars("X", suite.start, 30, 100, 1))
	suite.ErrorIs(err, context.Canceled)
}
