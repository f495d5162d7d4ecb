package indicator

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func rising(n int, start float64) []float64 {
	series := make([]float64, n)
	for i := range series {
		series[i] = start + float64(i)
	}

	return series
}

func barsFromCloses(closes []float64) []types.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))

	for i, c := range closes {
		bars[i] = types.Bar{Symbol: "X", Time: start.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c}
	}

	return bars
}

func (suite *IndicatorTestSuite) TestSMA() {
	tests := []struct {
		name     string
		series   []float64
		period   int
		expected float64
	}{
		{"empty", nil, 3, 0},
		{"fewer samples than period", []float64{1, 2}, 5, 2},
		{"exact period", []float64{1, 2, 3}, 3, 2},
		{"last period only", []float64{100, 1, 2, 3}, 3, 2},
		{"period one", []float64{4, 7}, 1, 7},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, SMA(tc.series, tc.period), 1e-9)
		})
	}
}

func (suite *IndicatorTestSuite) TestEMA() {
	suite.Equal(0.0, EMA(nil, 10))
	suite.Equal(5.0, EMA([]float64{5}, 10))
	suite.InDelta(2.5555555, EMA([]float64{1, 2, 3}, 2), 1e-6)
	suite.InDelta(7.0, EMA([]float64{7, 7, 7, 7}, 3), 1e-9)
}

func (suite *IndicatorTestSuite) TestEMASeriesMatchesPrefixEMA() {
	series := []float64{10, 12, 11, 15, 14, 18, 17}
	running := EMASeries(series, 3)
	suite.Len(running, len(series))

	for i := range series {
		suite.InDelta(EMA(series[:i+1], 3), running[i], 1e-9)
	}

	suite.Nil(EMASeries(nil, 3))
}

func (suite *IndicatorTestSuite) TestRSI() {
	tests := []struct {
		name     string
		series   []float64
		period   int
		expected float64
	}{
		{"strictly rising", rising(20, 1), 14, 100},
		{"insufficient samples", rising(14, 1), 14, 50},
		{"strictly falling", []float64{5, 4, 3, 2, 1}, 4, 0},
		{"balanced", []float64{1, 2, 1, 2, 1}, 4, 50},
		{"flat", []float64{3, 3, 3}, 2, 100},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, RSI(tc.series, tc.period), 1e-9)
		})
	}
}

func (suite *IndicatorTestSuite) TestRSIBounds() {
	series := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.2, 45.6, 46.3, 46.3, 46.0}
	rsi := RSI(series, 14)
	suite.GreaterOrEqual(rsi, 0.0)
	suite.LessOrEqual(rsi, 100.0)
}

func (suite *IndicatorTestSuite) TestMACD() {
	result := MACD(rising(60, 100))
	suite.Greater(result.MACD, 0.0)
	suite.InDelta(result.MACD*0.9, result.Signal, 1e-9)
	suite.InDelta(result.MACD-result.Signal, result.Histogram, 1e-9)

	flat := MACD([]float64{5, 5, 5})
	suite.Equal(0.0, flat.MACD)
}

func (suite *IndicatorTestSuite) TestMACDWithSignal() {
	result := MACDWithSignal(rising(60, 100), 12, 26, 9)
	suite.Greater(result.MACD, 0.0)
	suite.Greater(result.MACD, result.Signal)
	suite.Greater(result.Histogram, 0.0)

	falling := make([]float64, 60)
	for i := range falling {
		falling[i] = 200 - float64(i)
	}

	down := MACDWithSignal(falling, 12, 26, 9)
	suite.Less(down.MACD, down.Signal)
	suite.Less(down.Histogram, 0.0)

	suite.Equal(MACDResult{}, MACDWithSignal(nil, 12, 26, 9))
}

func (suite *IndicatorTestSuite) TestATR() {
	bars := barsFromCloses(rising(20, 100))
	suite.InDelta(1.0, ATR(bars, 14), 1e-9)
	suite.Equal(0.0, ATR(bars[:14], 14))

	wide := barsFromCloses([]float64{10, 10, 10})
	wide[1].High = 14
	wide[1].Low = 8
	wide[2].High = 11
	wide[2].Low = 9
	suite.InDelta(4.0, ATR(wide, 2), 1e-9)
}

func (suite *IndicatorTestSuite) TestBollingerBands() {
	bands := BollingerBands([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 8)
	suite.InDelta(5.0, bands.Middle, 1e-9)
	suite.InDelta(9.0, bands.Upper, 1e-9)
	suite.InDelta(1.0, bands.Lower, 1e-9)

	flat := BollingerBands([]float64{3, 3, 3}, 3)
	suite.Equal(flat.Upper, flat.Lower)
}

func (suite *IndicatorTestSuite) TestReturnsAndStdDev() {
	suite.Nil(Returns([]float64{1}))
	suite.InDeltaSlice([]float64{0.1, -0.5}, Returns([]float64{10, 11, 5.5}), 1e-9)
	suite.Len(Returns([]float64{0, 1, 2}), 1)

	suite.Equal(0.0, StdDev(nil))
	suite.InDelta(2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-9)
	suite.Equal(0.0, Mean(nil))
}

func (suite *IndicatorTestSuite) TestInputsAreNotMutated() {
	series := []float64{3, 1, 2, 5, 4}
	copied := append([]float64(nil), series...)

	_ = SMA(series, 3)
	_ = EMA(series, 3)
	_ = RSI(series, 3)
	_ = MACDWithSignal(series, 2, 3, 2)
	_ = BollingerBands(series, 3)

	suite.Equal(copied, series)
}
