package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type DataGeneratorTestSuite struct {
	suite.Suite
}

func TestDataGeneratorSuite(t *testing.T) {
	suite.Run(t, new(DataGeneratorTestSuite))
}

func (suite *DataGeneratorTestSuite) TestGenerate() {
	config := DefaultConfig()
	config.Count = 100

	bars := NewDataGenerator(42).Generate(config)
	suite.Len(bars, 100)

	for i, bar := range bars {
		suite.Equal(config.Symbol, bar.Symbol)
		suite.Greater(bar.Close, 0.0)
		suite.Greater(bar.Low, 0.0)
		suite.GreaterOrEqual(bar.High, bar.Low)

		if i > 0 {
			suite.Equal(config.Interval, bar.Time.Sub(bars[i-1].Time))
		}
	}
}

func (suite *DataGeneratorTestSuite) TestReproducibility() {
	config := DefaultConfig()

	suite.Equal(NewDataGenerator(7).Generate(config), NewDataGenerator(7).Generate(config))
	suite.NotEqual(NewDataGenerator(7).Generate(config), NewDataGenerator(8).Generate(config))
}

func (suite *DataGeneratorTestSuite) TestLinearBars() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := LinearBars("X", start, 5, 100, 1)

	suite.Len(bars, 5)
	suite.Equal(100.0, bars[0].Close)
	suite.Equal(104.0, bars[4].Close)
	suite.Equal(start.AddDate(0, 0, 4), bars[4].Time)
	suite.Equal(104.5, bars[4].High)
	suite.Equal(103.5, bars[4].Low)
}
