package types

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *StatisticsTestSuite) TestWriteBacktestResult() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := BacktestResult{
		Status: RunStatusCompleted,
		Summary: SummaryMetrics{
			TotalTrades:   2,
			WinningTrades: 2,
			ProfitFactor:  math.Inf(1),
		},
		Trades: []BacktestTrade{
			{ID: "t1", Symbol: "X", Action: ActionBuy, Quantity: 1, EntryTime: start, ExitTime: start.Add(time.Hour)},
		},
		EquityCurve: []EquityPoint{{Time: start, Equity: 10000}},
		Config:      BacktestConfig{Symbol: "X", StartDate: start, EndDate: start.AddDate(0, 1, 0), InitialCapital: 10000},
	}

	path := filepath.Join(suite.tempDir, "result.yaml")
	suite.NoError(WriteBacktestResult(path, result))

	data, err := os.ReadFile(path)
	suite.NoError(err)

	var decoded BacktestResult
	suite.NoError(yaml.Unmarshal(data, &decoded))
	suite.Equal(RunStatusCompleted, decoded.Status)
	suite.Equal(2, decoded.Summary.TotalTrades)
	suite.True(math.IsInf(decoded.Summary.ProfitFactor, 1))
	suite.Len(decoded.Trades, 1)
	suite.Equal("X", decoded.Config.Symbol)
}

func (suite *StatisticsTestSuite) TestWriteOptimizationResults() {
	results := []OptimizationResult{
		{Parameters: map[string]float64{"rsiPeriod": 14}, Fitness: 0.8},
		{Parameters: map[string]float64{"rsiPeriod": 21}, Fitness: 0.4},
	}

	path := filepath.Join(suite.tempDir, "optimization.yaml")
	suite.NoError(WriteOptimizationResults(path, results))

	data, err := os.ReadFile(path)
	suite.NoError(err)

	var rows []map[string]any
	suite.NoError(yaml.Unmarshal(data, &rows))
	suite.Len(rows, 2)
	suite.Equal(1, rows[0]["rank"])
	suite.Equal(0.8, rows[0]["fitness"])
}

func (suite *StatisticsTestSuite) TestWriteToMissingDirectory() {
	err := WriteBacktestResult(filepath.Join(suite.tempDir, "missing", "result.yaml"), BacktestResult{})
	suite.Error(err)
}
