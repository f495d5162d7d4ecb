package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type SignalTestSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalTestSuite))
}

func (suite *SignalTestSuite) TestActionConstants() {
	suite.Equal(Action("buy"), ActionBuy)
	suite.Equal(Action("sell"), ActionSell)
	suite.Equal(Action("hold"), ActionHold)
	suite.Equal([]Action{ActionBuy, ActionSell, ActionHold}, AllActions)
}

func (suite *SignalTestSuite) TestDirection() {
	suite.Equal(1.0, ActionBuy.Direction())
	suite.Equal(-1.0, ActionSell.Direction())
	suite.Equal(0.0, ActionHold.Direction())
	suite.Equal(0.0, Action("unknown").Direction())
}

func (suite *SignalTestSuite) TestRiskLevels() {
	tests := []struct {
		name       string
		action     Action
		stopLoss   float64
		takeProfit float64
		isSet      bool
	}{
		{"buy", ActionBuy, 96, 106, true},
		{"sell", ActionSell, 104, 94, true},
		{"hold", ActionHold, 0, 0, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			sl, tp := RiskLevels(tc.action, 100, 2)
			suite.Equal(tc.isSet, sl.IsSome())
			suite.Equal(tc.isSet, tp.IsSome())

			if tc.isSet {
				suite.InDelta(tc.stopLoss, sl.Unwrap(), 1e-9)
				suite.InDelta(tc.takeProfit, tp.Unwrap(), 1e-9)
			}
		})
	}
}

func (suite *SignalTestSuite) TestHoldSignal() {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	window := []Bar{
		{Symbol: "X", Time: now.Add(-time.Hour), Close: 10},
		{Symbol: "X", Time: now, Close: 11},
	}

	signal := HoldSignal("X", "machine_learning", window, 50, 50, "fallback")
	suite.Equal(ActionHold, signal.Action)
	suite.Equal(11.0, signal.EntryPrice)
	suite.Equal(now, signal.Time)
	suite.True(signal.StopLoss.IsNone())
	suite.True(signal.TakeProfit.IsNone())
	suite.NoError(signal.Validate())

	empty := HoldSignal("X", "machine_learning", nil, 50, 50, "fallback")
	suite.True(empty.Time.IsZero())
	suite.Equal(0.0, empty.EntryPrice)
}

func (suite *SignalTestSuite) TestValidate() {
	tests := []struct {
		name    string
		signal  Signal
		wantErr bool
	}{
		{"valid", Signal{Symbol: "X", Action: ActionBuy, Strength: 66, Confidence: 66}, false},
		{"strength above range", Signal{Symbol: "X", Action: ActionBuy, Strength: 101}, true},
		{"negative confidence", Signal{Symbol: "X", Action: ActionSell, Confidence: -1}, true},
		{"unknown action", Signal{Symbol: "X", Action: "short"}, true},
		{"missing symbol", Signal{Action: ActionHold}, true},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			err := tc.signal.Validate()
			if tc.wantErr {
				suite.Error(err)
			} else {
				suite.NoError(err)
			}
		})
	}
}
