package strategy

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rxtech-lab/argo-consensus/internal/indicator"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// TechnicalAnalysis votes with RSI, MACD and an SMA crossover.
type TechnicalAnalysis struct {
	params types.StrategyParameters
}

// NewTechnicalAnalysis creates the strategy with params.
func NewTechnicalAnalysis(params types.StrategyParameters) Strategy {
	return &TechnicalAnalysis{params: params.Clone()}
}

func (t *TechnicalAnalysis) Name() string {
	return NameTechnicalAnalysis
}

// Analyze counts bullish and bearish indicator votes; two votes on one side decide.
func (t *TechnicalAnalysis) Analyze(ctx context.Context, symbol string, window []types.Bar) (types.Signal, error) {
	if len(window) == 0 {
		return types.Signal{}, errors.NewInsufficientDataError(1, 0, symbol, "technical analysis needs at least one bar")
	}

	closes := types.Closes(window)
	rsi := indicator.RSI(closes, t.params.RSIPeriod)
	macd := indicator.MACDWithSignal(closes, t.params.MACDFast, t.params.MACDSlow, t.params.MACDSignal)
	smaShort := indicator.SMA(closes, t.params.SMAShort)
	smaLong := indicator.SMA(closes, t.params.SMALong)
	atr := indicator.ATR(window, t.params.ATRPeriod)

	var bullish, bearish []string

	if rsi < t.params.RSIOversold {
		bullish = append(bullish, fmt.Sprintf("RSI oversold (%.2f)", rsi))
	}

	if rsi > t.params.RSIOverbought {
		bearish = append(bearish, fmt.Sprintf("RSI overbought (%.2f)", rsi))
	}

	if macd.MACD > macd.Signal && macd.Histogram > 0 {
		bullish = append(bullish, "MACD above signal")
	}

	if macd.MACD < macd.Signal && macd.Histogram < 0 {
		bearish = append(bearish, "MACD below signal")
	}

	if smaShort > smaLong {
		bullish = append(bullish, "short SMA above long SMA")
	}

	if smaShort < smaLong {
		bearish = append(bearish, "short SMA below long SMA")
	}

	action := types.ActionHold
	votes := max(len(bullish), len(bearish))
	reasons := append(append([]string{}, bullish...), bearish...)

	switch {
	case len(bullish) >= 2:
		action = types.ActionBuy
		votes = len(bullish)
		reasons = bullish
	case len(bearish) >= 2:
		action = types.ActionSell
		votes = len(bearish)
		reasons = bearish
	}

	last := window[len(window)-1]
	stopLoss, takeProfit := types.RiskLevels(action, last.Close, atr)

	reason := "no indicator agreement"
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	return types.Signal{
		Symbol:     symbol,
		Action:     action,
		Strength:   math.Min(float64(votes)*33, 100),
		Confidence: math.Min(float64(votes)/3*100, 100),
		EntryPrice: last.Close,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Reason:     reason,
		Time:       last.Time,
		Strategy:   t.Name(),
	}, nil
}

func (t *TechnicalAnalysis) Backtest(ctx context.Context, symbol string, history []types.Bar) (types.SummaryMetrics, error) {
	return runStandalone(ctx, t, symbol, history, t.params, nil)
}
