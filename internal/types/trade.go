package types

import (
	"time"
)

// BacktestTrade is one simulated round trip: entered at the close of the signal bar and
// exited at the close of the next bar.
type BacktestTrade struct {
	ID         string    `yaml:"id" json:"id"`
	Symbol     string    `yaml:"symbol" json:"symbol"`
	Action     Action    `yaml:"action" json:"action"`
	Quantity   float64   `yaml:"quantity" json:"quantity"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price"`
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time"`
	// ProfitLoss is net of fees.
	ProfitLoss float64 `yaml:"profit_loss" json:"profit_loss"`
	// ProfitLossPercent is ProfitLoss relative to the capital held before the trade.
	ProfitLossPercent float64 `yaml:"profit_loss_percent" json:"profit_loss_percent"`
	Fees              float64 `yaml:"fees" json:"fees"`
	StrategyLabel     string  `yaml:"strategy_label" json:"strategy_label"`
	Reason            string  `yaml:"reason" json:"reason"`
}

// HoldTime returns the time between entry and exit.
func (t BacktestTrade) HoldTime() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// EquityPoint is the ledger value after one simulated bar.
type EquityPoint struct {
	Time            time.Time `yaml:"time" json:"time"`
	Equity          float64   `yaml:"equity" json:"equity"`
	DrawdownPercent float64   `yaml:"drawdown_percent" json:"drawdown_percent"`
}
