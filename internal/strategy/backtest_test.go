package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/mocks"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type StandaloneBacktestTestSuite struct {
	suite.Suite
	ctrl  *gomock.Controller
	start time.Time
}

func TestStandaloneBacktestSuite(t *testing.T) {
	suite.Run(t, new(StandaloneBacktestTestSuite))
}

func (suite *StandaloneBacktestTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.start = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *StandaloneBacktestTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// buyStrategy buys on every window except those of length failAt.
func (suite *StandaloneBacktestTestSuite) buyStrategy(failAt int) *mocks.MockStrategy {
	s := mocks.NewMockStrategy(suite.ctrl)
	s.EXPECT().Name().Return("always_buy").AnyTimes()
	s.EXPECT().Analyze(gomock.Any(), "X", gomock.Any()).DoAndReturn(
		func(_ context.Context, symbol string, window []types.Bar) (types.Signal, error) {
			if len(window) == failAt {
				return types.Signal{}, errors.New(errors.ErrCodeStrategyEvaluation, "boom")
			}

			last := window[len(window)-1]

			return types.Signal{
				Symbol:     symbol,
				Action:     types.ActionBuy,
				Strength:   50,
				Confidence: 50,
				EntryPrice: last.Close,
				Time:       last.Time,
			}, nil
		}).AnyTimes()

	return s
}

func (suite *StandaloneBacktestTestSuite) TestSkippedBars() {
	tests := []struct {
		name          string
		failAt        int
		badExitAt     int
		expectSkipped int
		expectTrades  int
	}{
		{name: "clean run", failAt: -1, badExitAt: -1, expectSkipped: 0, expectTrades: 9},
		{name: "evaluation error", failAt: 23, badExitAt: -1, expectSkipped: 1, expectTrades: 8},
		{name: "settlement error", failAt: -1, badExitAt: 26, expectSkipped: 1, expectTrades: 8},
		{name: "both", failAt: 23, badExitAt: 26, expectSkipped: 2, expectTrades: 7},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			bars := mocks.LinearBars("X", suite.start, 30, 100, 1)
			if tc.badExitAt > 0 {
				bars[tc.badExitAt].Time = bars[tc.badExitAt-1].Time
			}

			summary, err := runStandalone(context.Background(), suite.buyStrategy(tc.failAt), "X", bars,
				types.DefaultStrategyParameters(), logger.NewNopLogger())
			suite.Require().NoError(err)

			suite.Equal(tc.expectSkipped, summary.SkippedBars)
			suite.Equal(tc.expectTrades, summary.TotalTrades)
		})
	}
}

func (suite *StandaloneBacktestTestSuite) TestNilLogger() {
	bars := mocks.LinearBars("X", suite.start, 30, 100, 1)

	summary, err := runStandalone(context.Background(), suite.buyStrategy(23), "X", bars,
		types.DefaultStrategyParameters(), nil)
	suite.Require().NoError(err)
	suite.Equal(1, summary.SkippedBars)
}
