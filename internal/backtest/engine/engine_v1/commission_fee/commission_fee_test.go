package commission_fee

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommissionFeeTestSuite struct {
	suite.Suite
}

func TestCommissionFeeSuite(t *testing.T) {
	suite.Run(t, new(CommissionFeeTestSuite))
}

func (suite *CommissionFeeTestSuite) TestZeroCommissionFee() {
	fee := NewZeroCommissionFee()
	suite.NotNil(fee)

	tests := []struct {
		name     string
		notional float64
		quantity float64
	}{
		{"zero quantity", 0, 0},
		{"small quantity", 1000, 10},
		{"large quantity", 1000000, 10000},
		{"negative quantity", -10000, -100},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(0.0, fee.Calculate(tc.notional, tc.quantity))
		})
	}
}

func (suite *CommissionFeeTestSuite) TestPercentageCommissionFee() {
	fee := NewPercentageCommissionFee(DefaultPercentageRate)

	tests := []struct {
		name     string
		notional float64
		expected float64
	}{
		{"zero notional", 0, 0},
		{"one thousand", 1000, 1},
		{"negative notional uses absolute value", -5000, 5},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, fee.Calculate(tc.notional, 1), 1e-12)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestInteractiveBrokerCommissionFee() {
	fee := NewInteractiveBrokerCommissionFee()
	suite.NotNil(fee)

	tests := []struct {
		name     string
		quantity float64
		expected float64
	}{
		{"zero quantity", 0, 1.0},             // minimum fee is 1.0
		{"small quantity - min fee", 10, 1.0}, // 0.005 * 10 = 0.05 < 1.0, so min fee applies
		{"quantity at threshold", 200, 1.0},
		{"large quantity", 1000, 5.0},
		{"short quantity", -1000, 5.0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, fee.Calculate(tc.quantity*100, tc.quantity))
		})
	}
}

func (suite *CommissionFeeTestSuite) TestGetCommissionFeeHandler() {
	tests := []struct {
		name           string
		broker         Broker
		expectedType   string
		expectedResult float64
	}{
		{
			name:           "percentage",
			broker:         BrokerPercentage,
			expectedType:   "*commission_fee.PercentageCommissionFee",
			expectedResult: 100.0,
		},
		{
			name:           "interactive broker",
			broker:         BrokerInteractiveBroker,
			expectedType:   "*commission_fee.InteractiveBrokerCommissionFee",
			expectedResult: 5.0,
		},
		{
			name:           "zero commission",
			broker:         BrokerZero,
			expectedType:   "*commission_fee.ZeroCommissionFee",
			expectedResult: 0.0,
		},
		{
			name:           "unknown broker defaults to percentage",
			broker:         Broker("unknown"),
			expectedType:   "*commission_fee.PercentageCommissionFee",
			expectedResult: 100.0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			handler := GetCommissionFeeHandler(tc.broker)
			suite.NotNil(handler)
			suite.Equal(tc.expectedType, fmt.Sprintf("%T", handler))
			suite.InDelta(tc.expectedResult, handler.Calculate(100000, 1000), 1e-9)
		})
	}
}

func (suite *CommissionFeeTestSuite) TestAllBrokers() {
	suite.Len(AllBrokers, 3)
	suite.Contains(AllBrokers, BrokerPercentage)
	suite.Contains(AllBrokers, BrokerInteractiveBroker)
	suite.Contains(AllBrokers, BrokerZero)
}
