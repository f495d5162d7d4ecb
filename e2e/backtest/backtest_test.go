package backtest_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/strategy"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/mocks"
	"github.com/rxtech-lab/argo-consensus/pkg/backtest"
	"github.com/rxtech-lab/argo-consensus/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
)

// BacktestE2ETestSuite writes generated bars to parquet and drives the
// service against the DuckDB source reading that file.
type BacktestE2ETestSuite struct {
	suite.Suite
	start   time.Time
	ds      *datasource.DuckDBDataSource
	service *backtest.Service
}

func TestBacktestE2ETestSuite(t *testing.T) {
	suite.Run(t, new(BacktestE2ETestSuite))
}

func (suite *BacktestE2ETestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var bars []types.Bar

	for i, symbol := range []string{"AAPL", "MSFT"} {
		config := mocks.DefaultConfig()
		config.Symbol = symbol
		config.StartTime = suite.start
		config.Count = 150
		config.Drift = 0.001

		bars = append(bars, mocks.NewDataGenerator(int64(i+1)).Generate(config)...)
	}

	path := filepath.Join(suite.T().TempDir(), "bars.parquet")
	_, err := writer.WriteAll(writer.NewDuckDBWriter(path), bars)
	suite.Require().NoError(err)

	log := logger.NewNopLogger()

	suite.ds, err = datasource.NewDataSource(":memory:", log)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.ds.Initialize(path))

	suite.service, err = backtest.NewService(backtest.Options{
		DataSource: datasource.NewCachedDataSource(suite.ds),
		Seed:       7,
		Workers:    2,
		Logger:     log,
	})
	suite.Require().NoError(err)
}

func (suite *BacktestE2ETestSuite) TearDownTest() {
	suite.NoError(suite.ds.Close())
}

func (suite *BacktestE2ETestSuite) config(symbol string) types.BacktestConfig {
	return types.BacktestConfig{
		Symbol:         symbol,
		Strategies:     suite.service.Strategies(),
		StartDate:      suite.start,
		EndDate:        suite.start.AddDate(1, 0, 0),
		InitialCapital: 10000,
	}
}

func (suite *BacktestE2ETestSuite) TestSymbols() {
	symbols, err := suite.ds.Symbols(context.Background())
	suite.Require().NoError(err)
	suite.Equal([]string{"AAPL", "MSFT"}, symbols)
}

func (suite *BacktestE2ETestSuite) TestRunBacktest() {
	tests := []struct {
		name   string
		symbol string
	}{
		{name: "AAPL", symbol: "AAPL"},
		{name: "MSFT", symbol: "MSFT"},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			result, err := suite.service.RunBacktest(context.Background(), suite.config(tc.symbol))
			suite.Require().NoError(err)

			suite.Equal(types.RunStatusCompleted, result.Status)
			suite.Equal(150-1-strategy.WarmupBars, result.BarsProcessed)
			suite.Len(result.EquityCurve, result.BarsProcessed)
			suite.Len(result.Trades, result.Summary.TotalTrades)

			pnl := 0.0
			for _, trade := range result.Trades {
				suite.Equal(tc.symbol, trade.Symbol)
				pnl += trade.ProfitLoss
			}

			suite.InDelta(10000+pnl, result.Summary.FinalCapital, 1e-6)
		})
	}
}

func (suite *BacktestE2ETestSuite) TestRunBacktestIsDeterministic() {
	first, err := suite.service.RunBacktest(context.Background(), suite.config("AAPL"))
	suite.Require().NoError(err)

	second, err := suite.service.RunBacktest(context.Background(), suite.config("AAPL"))
	suite.Require().NoError(err)

	suite.Equal(first.Summary, second.Summary)
	suite.Equal(first.Trades, second.Trades)
}

func (suite *BacktestE2ETestSuite) TestOptimizeParameters() {
	ranges := map[string][]float64{
		types.ParamSMAShort: {5, 10},
		types.ParamSMALong:  {20, 30},
	}

	config := suite.config("AAPL")
	config.Strategies = []string{strategy.NameTechnicalAnalysis}

	results, err := suite.service.OptimizeParameters(context.Background(), config, ranges)
	suite.Require().NoError(err)
	suite.Require().Len(results, 4)

	for i := 1; i < len(results); i++ {
		suite.GreaterOrEqual(results[i-1].Fitness, results[i].Fitness)
	}

	for _, result := range results {
		suite.Equal(result.Parameters[types.ParamSMAShort], float64(result.Result.Config.Parameters.SMAShort))
		suite.Equal(result.Parameters[types.ParamSMALong], float64(result.Result.Config.Parameters.SMALong))
	}
}

func (suite *BacktestE2ETestSuite) TestEvaluateSymbol() {
	_, err := suite.service.EvaluateSymbol(context.Background(), "AAPL", suite.start.AddDate(0, 3, 0), 60)
	suite.NoError(err)

	_, err = suite.service.EvaluateSymbol(context.Background(), "TSLA", suite.start.AddDate(0, 3, 0), 60)
	suite.Error(err)
}
