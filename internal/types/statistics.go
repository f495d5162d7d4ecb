package types

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SummaryMetrics are the trade-level statistics of a run.
type SummaryMetrics struct {
	TotalTrades   int     `yaml:"total_trades" json:"total_trades"`
	WinningTrades int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int     `yaml:"losing_trades" json:"losing_trades"`
	WinRate       float64 `yaml:"win_rate" json:"win_rate"`
	// InitialCapital and FinalCapital bound the ledger.
	InitialCapital     float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalCapital       float64 `yaml:"final_capital" json:"final_capital"`
	NetProfit          float64 `yaml:"net_profit" json:"net_profit"`
	TotalReturnPercent float64 `yaml:"total_return_percent" json:"total_return_percent"`
	GrossProfit        float64 `yaml:"gross_profit" json:"gross_profit"`
	// GrossLoss is negative or zero.
	GrossLoss    float64 `yaml:"gross_loss" json:"gross_loss"`
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	AverageWin   float64 `yaml:"average_win" json:"average_win"`
	// AverageLoss is negative or zero.
	AverageLoss         float64 `yaml:"average_loss" json:"average_loss"`
	LargestWin          float64 `yaml:"largest_win" json:"largest_win"`
	LargestLoss         float64 `yaml:"largest_loss" json:"largest_loss"`
	WinLossRatio        float64 `yaml:"win_loss_ratio" json:"win_loss_ratio"`
	AverageHoldTimeDays float64 `yaml:"average_hold_time_days" json:"average_hold_time_days"`
	TotalFees           float64 `yaml:"total_fees" json:"total_fees"`
	MaxDrawdown         float64 `yaml:"max_drawdown" json:"max_drawdown"`
	SharpeRatio         float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// SkippedBars counts bars whose evaluation or settlement failed.
	SkippedBars int `yaml:"skipped_bars" json:"skipped_bars"`
}

// RiskMetrics are the risk-adjusted statistics of a run. Drawdowns are percentages.
type RiskMetrics struct {
	SharpeRatio        float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio       float64 `yaml:"sortino_ratio" json:"sortino_ratio"`
	CalmarRatio        float64 `yaml:"calmar_ratio" json:"calmar_ratio"`
	MaxDrawdown        float64 `yaml:"max_drawdown" json:"max_drawdown"`
	CurrentDrawdown    float64 `yaml:"current_drawdown" json:"current_drawdown"`
	RecoveryFactor     float64 `yaml:"recovery_factor" json:"recovery_factor"`
	RiskAdjustedReturn float64 `yaml:"risk_adjusted_return" json:"risk_adjusted_return"`
	Volatility         float64 `yaml:"volatility" json:"volatility"`
	ValueAtRisk95      float64 `yaml:"value_at_risk_95" json:"value_at_risk_95"`
}

// Metrics bundles both metric groups.
type Metrics struct {
	Summary SummaryMetrics
	Risk    RiskMetrics
}

// RunStatus is the terminal or current state of a simulation run.
type RunStatus string

const (
	RunStatusInitialized RunStatus = "initialized"
	RunStatusRunning     RunStatus = "running"
	RunStatusCompleted   RunStatus = "completed"
	RunStatusFailed      RunStatus = "failed"
)

// BacktestResult is produced once per completed run and is read-only afterwards.
type BacktestResult struct {
	Status      RunStatus       `yaml:"status" json:"status"`
	Summary     SummaryMetrics  `yaml:"summary" json:"summary"`
	Trades      []BacktestTrade `yaml:"trades" json:"trades"`
	EquityCurve []EquityPoint   `yaml:"equity_curve" json:"equity_curve"`
	RiskMetrics RiskMetrics     `yaml:"risk_metrics" json:"risk_metrics"`
	Config      BacktestConfig  `yaml:"config" json:"config"`
	// BarsProcessed counts iterated bars after warm-up.
	BarsProcessed int `yaml:"bars_processed" json:"bars_processed"`
	// SkippedBars counts bars whose processing failed and was skipped.
	SkippedBars int `yaml:"skipped_bars" json:"skipped_bars"`
}

// OptimizationResult is the outcome of one parameter combination.
type OptimizationResult struct {
	Parameters map[string]float64 `yaml:"parameters" json:"parameters"`
	Result     BacktestResult     `yaml:"result" json:"result"`
	Fitness    float64            `yaml:"fitness" json:"fitness"`
}

// WriteBacktestResult writes result to path as YAML.
func WriteBacktestResult(path string, result BacktestResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}

// WriteOptimizationResults writes the ranked results to path as YAML. Trades and equity curves
// are left out to keep the file readable; rerun the best combination for the full result.
func WriteOptimizationResults(path string, results []OptimizationResult) error {
	type row struct {
		Rank       int                `yaml:"rank"`
		Fitness    float64            `yaml:"fitness"`
		Parameters map[string]float64 `yaml:"parameters"`
		Summary    SummaryMetrics     `yaml:"summary"`
		Risk       RiskMetrics        `yaml:"risk_metrics"`
	}

	rows := make([]row, len(results))
	for i, r := range results {
		rows[i] = row{
			Rank:       i + 1,
			Fitness:    r.Fitness,
			Parameters: r.Parameters,
			Summary:    r.Result.Summary,
			Risk:       r.Result.RiskMetrics,
		}
	}

	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal optimization results to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write optimization results to file: %w", err)
	}

	return nil
}
