package strategy

import (
	"context"
	"math"

	"github.com/rxtech-lab/argo-consensus/internal/indicator"
	"github.com/rxtech-lab/argo-consensus/internal/inference"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"go.uber.org/zap"
)

// FeatureWindow is the number of most recent bars summarised for inference.
const FeatureWindow = 20

const fallbackScore = 50

// MachineLearning delegates the decision to an inference client.
type MachineLearning struct {
	params types.StrategyParameters
	client inference.Client
	log    *logger.Logger
}

// NewMachineLearning creates the strategy. A nil client makes every call fall back to hold.
func NewMachineLearning(params types.StrategyParameters, client inference.Client, log *logger.Logger) Strategy {
	return &MachineLearning{
		params: params.Clone(),
		client: client,
		log:    log.Named(NameMachineLearning),
	}
}

func (m *MachineLearning) Name() string {
	return NameMachineLearning
}

// Analyze never returns an error: any inference failure yields a neutral hold.
func (m *MachineLearning) Analyze(ctx context.Context, symbol string, window []types.Bar) (types.Signal, error) {
	if len(window) == 0 {
		return m.fallback(symbol, window, "empty window"), nil
	}

	if m.client == nil {
		return m.fallback(symbol, window, "no inference client"), nil
	}

	timeout := m.params.InferenceTimeout
	if timeout <= 0 {
		timeout = types.DefaultStrategyParameters().InferenceTimeout
	}

	inferCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	features := ExtractFeatures(window)

	prediction, err := m.client.Infer(inferCtx, features)
	if err == nil {
		err = prediction.Validate()
	}

	if err != nil {
		m.log.Warn("Inference failed, falling back to hold",
			zap.String("symbol", symbol),
			zap.Error(err),
		)

		return m.fallback(symbol, window, err.Error()), nil
	}

	last := window[len(window)-1]
	stopLoss, takeProfit := types.RiskLevels(prediction.Action, last.Close, indicator.ATR(window, m.params.ATRPeriod))

	return types.Signal{
		Symbol:     symbol,
		Action:     prediction.Action,
		Strength:   prediction.Strength,
		Confidence: prediction.Confidence,
		EntryPrice: last.Close,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Reason:     prediction.Reason,
		Time:       last.Time,
		Strategy:   m.Name(),
	}, nil
}

func (m *MachineLearning) Backtest(ctx context.Context, symbol string, history []types.Bar) (types.SummaryMetrics, error) {
	return runStandalone(ctx, m, symbol, history, m.params, m.log)
}

func (m *MachineLearning) fallback(symbol string, window []types.Bar, cause string) types.Signal {
	return types.HoldSignal(symbol, m.Name(), window, fallbackScore, fallbackScore, "inference fallback: "+cause)
}

// ExtractFeatures summarises the last FeatureWindow bars of window.
func ExtractFeatures(window []types.Bar) inference.Features {
	if len(window) == 0 {
		return inference.Features{}
	}

	recent := window
	if len(recent) > FeatureWindow {
		recent = recent[len(recent)-FeatureWindow:]
	}

	closes := types.Closes(recent)
	volumes := types.Volumes(recent)
	returns := indicator.Returns(closes)
	first := closes[0]
	last := closes[len(closes)-1]

	features := inference.Features{
		Volatility: indicator.StdDev(returns),
		Momentum:   indicator.Mean(returns),
		LastClose:  last,
	}

	if first != 0 {
		features.PriceTrend = (last - first) / first
	}

	half := len(volumes) / 2
	if half > 0 {
		earlier := indicator.Mean(volumes[:half])
		later := indicator.Mean(volumes[half:])

		if earlier != 0 {
			features.VolumeTrend = (later - earlier) / earlier
		}
	}

	high := math.Inf(-1)
	low := math.Inf(1)

	for _, bar := range recent {
		high = math.Max(high, bar.High)
		low = math.Min(low, bar.Low)
	}

	if last != 0 {
		features.Range = (high - low) / last
	}

	return features
}
