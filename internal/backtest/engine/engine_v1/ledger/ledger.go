// Package ledger applies one-bar round trips to a capital account and keeps the
// trade list and equity curve of a simulation run.
package ledger

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// AdverseMoveEstimate is the assumed fractional move against a position used to size it.
const AdverseMoveEstimate = 0.02

// tradeNamespace scopes deterministic trade IDs.
var tradeNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("argo-consensus/trade"))

// Options configures a Ledger.
type Options struct {
	Symbol         string
	StrategyLabel  string
	InitialCapital float64
	// RiskPerTrade is the percentage of current capital risked on one trade.
	RiskPerTrade float64
	Commission   commission_fee.CommissionFee
}

// Ledger tracks capital, peak capital and drawdown across a run.
// It is not safe for concurrent use; one run owns one ledger.
type Ledger struct {
	options     Options
	capital     float64
	peak        float64
	maxDrawdown float64
	trades      []types.BacktestTrade
	equity      []types.EquityPoint
}

// New creates a ledger holding options.InitialCapital.
func New(options Options) *Ledger {
	if options.Commission == nil {
		options.Commission = commission_fee.GetCommissionFeeHandler(commission_fee.BrokerPercentage)
	}

	return &Ledger{
		options: options,
		capital: options.InitialCapital,
		peak:    options.InitialCapital,
	}
}

// PositionSize returns the quantity risked at entry with the current capital.
func (l *Ledger) PositionSize(entry float64) float64 {
	return l.capital * (l.options.RiskPerTrade / 100) / (entry * AdverseMoveEstimate)
}

// Settle opens a position at current.Close in the direction of signal and closes
// it at next.Close. Hold signals record nothing.
func (l *Ledger) Settle(signal types.Signal, current types.Bar, next types.Bar) (optional.Option[types.BacktestTrade], error) {
	direction := signal.Action.Direction()
	if direction == 0 {
		return optional.None[types.BacktestTrade](), nil
	}

	entry := current.Close
	if entry <= 0 || math.IsNaN(entry) {
		return optional.None[types.BacktestTrade](), errors.Newf(errors.ErrCodeBarProcessing, "invalid entry price %v at %s", entry, current.Time)
	}

	if !next.Time.After(current.Time) {
		return optional.None[types.BacktestTrade](), errors.Newf(errors.ErrCodeBarProcessing, "exit bar %s is not after entry bar %s", next.Time, current.Time)
	}

	size := l.PositionSize(entry)
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return optional.None[types.BacktestTrade](), errors.Newf(errors.ErrCodeBarProcessing, "invalid position size %v with capital %v", size, l.capital)
	}

	profit := (next.Close - entry) * size * direction
	fees := l.options.Commission.Calculate(math.Abs(entry*size), size)
	net := profit - fees
	before := l.capital

	trade := types.BacktestTrade{
		ID:                l.tradeID(current, len(l.trades)),
		Symbol:            l.options.Symbol,
		Action:            signal.Action,
		Quantity:          size,
		EntryPrice:        entry,
		ExitPrice:         next.Close,
		EntryTime:         current.Time,
		ExitTime:          next.Time,
		ProfitLoss:        net,
		ProfitLossPercent: net / before * 100,
		Fees:              fees,
		StrategyLabel:     l.options.StrategyLabel,
		Reason:            signal.Reason,
	}

	l.trades = append(l.trades, trade)
	l.capital += net

	if l.capital > l.peak {
		l.peak = l.capital
	}

	return optional.Some(trade), nil
}

// Mark appends an equity point at bar's time with the current capital.
func (l *Ledger) Mark(bar types.Bar) types.EquityPoint {
	drawdown := l.CurrentDrawdown()
	if drawdown > l.maxDrawdown {
		l.maxDrawdown = drawdown
	}

	point := types.EquityPoint{
		Time:            bar.Time,
		Equity:          l.capital,
		DrawdownPercent: drawdown,
	}
	l.equity = append(l.equity, point)

	return point
}

// CurrentDrawdown returns (peak - capital) / peak in percent, clamped to [0, 100].
func (l *Ledger) CurrentDrawdown() float64 {
	if l.peak <= 0 {
		return 0
	}

	return clamp((l.peak-l.capital)/l.peak*100, 0, 100)
}

func (l *Ledger) Capital() float64 {
	return l.capital
}

func (l *Ledger) InitialCapital() float64 {
	return l.options.InitialCapital
}

func (l *Ledger) MaxDrawdown() float64 {
	return l.maxDrawdown
}

func (l *Ledger) Trades() []types.BacktestTrade {
	return l.trades
}

func (l *Ledger) EquityCurve() []types.EquityPoint {
	return l.equity
}

func (l *Ledger) tradeID(bar types.Bar, index int) string {
	name := fmt.Sprintf("%s|%d|%d", l.options.Symbol, bar.Time.UnixNano(), index)

	return uuid.NewSHA1(tradeNamespace, []byte(name)).String()
}

func clamp(value, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, value))
}
