package strategy

import (
	"context"
	"fmt"
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

const (
	// DiscrepancyThreshold is the fractional gap above which arbitrage buys.
	DiscrepancyThreshold = 0.001
	arbitrageConfidence  = 95
	arbitrageStopLoss    = 0.999
	arbitrageTakeProfit  = 1.002
)

// Arbitrage buys when its discrepancy source reports a gap above DiscrepancyThreshold.
type Arbitrage struct {
	params types.StrategyParameters
	source DiscrepancySource
}

func NewArbitrage(params types.StrategyParameters, source DiscrepancySource) Strategy {
	return &Arbitrage{params: params.Clone(), source: source}
}

func (a *Arbitrage) Name() string {
	return NameArbitrage
}

func (a *Arbitrage) Analyze(ctx context.Context, symbol string, window []types.Bar) (types.Signal, error) {
	if len(window) == 0 {
		return types.Signal{}, errors.NewInsufficientDataError(1, 0, symbol, "arbitrage needs at least one bar")
	}

	if a.source == nil {
		return types.Signal{}, errors.New(errors.ErrCodeStrategyConfigError, "arbitrage has no discrepancy source")
	}

	discrepancy, err := a.source.Discrepancy(ctx, symbol, window)
	if err != nil {
		return types.Signal{}, err
	}

	if discrepancy <= DiscrepancyThreshold {
		return types.HoldSignal(symbol, a.Name(), window, 0, 0,
			fmt.Sprintf("discrepancy %.4f%% below threshold", discrepancy*100)), nil
	}

	last := window[len(window)-1]

	return types.Signal{
		Symbol:     symbol,
		Action:     types.ActionBuy,
		Strength:   math.Min(discrepancy/DiscrepancyThreshold*50, 100),
		Confidence: arbitrageConfidence,
		EntryPrice: last.Close,
		StopLoss:   optional.Some(last.Close * arbitrageStopLoss),
		TakeProfit: optional.Some(last.Close * arbitrageTakeProfit),
		Reason:     fmt.Sprintf("price discrepancy %.4f%%", discrepancy*100),
		Time:       last.Time,
		Strategy:   a.Name(),
	}, nil
}

func (a *Arbitrage) Backtest(ctx context.Context, symbol string, history []types.Bar) (types.SummaryMetrics, error) {
	return runStandalone(ctx, a, symbol, history, a.params, nil)
}
