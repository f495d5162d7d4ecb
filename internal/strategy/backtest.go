package strategy

import (
	"context"

	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/ledger"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/metrics"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"go.uber.org/zap"
)

const (
	// StandaloneCapital is the starting capital of a stand-alone strategy backtest.
	StandaloneCapital = 10000
	// WarmupBars are skipped before the first signal is evaluated.
	WarmupBars = 20
	// MinStandaloneBars is the shortest history that yields at least one round trip.
	MinStandaloneBars = WarmupBars + 2
)

// runStandalone evaluates s on every window bars[0..i] for i in [WarmupBars, len-2]
// and settles each non-hold signal as a one-bar round trip. A bar whose
// evaluation or settlement fails is logged and counted in SkippedBars.
func runStandalone(ctx context.Context, s Strategy, symbol string, history []types.Bar, params types.StrategyParameters, log *logger.Logger) (types.SummaryMetrics, error) {
	if len(history) < MinStandaloneBars {
		return types.SummaryMetrics{}, errors.NewInsufficientDataErrorf(MinStandaloneBars, len(history), symbol,
			"%s backtest needs at least %d bars", s.Name(), MinStandaloneBars)
	}

	log = log.Named("standalone")

	book := ledger.New(ledger.Options{
		Symbol:         symbol,
		StrategyLabel:  s.Name(),
		InitialCapital: StandaloneCapital,
		RiskPerTrade:   params.RiskPerTrade,
	})

	skipped := 0

	for i := WarmupBars; i <= len(history)-2; i++ {
		if err := ctx.Err(); err != nil {
			return types.SummaryMetrics{}, err
		}

		current := history[i]

		if err := settleStandalone(ctx, s, book, symbol, history, i); err != nil {
			skipped++

			log.Debug("Skipping bar",
				zap.String("strategy", s.Name()),
				zap.String("symbol", symbol),
				zap.Time("time", current.Time),
				zap.Error(err),
			)
		}

		book.Mark(current)
	}

	summary := metrics.Calculate(book.Trades(), StandaloneCapital, book.EquityCurve()).Summary
	summary.SkippedBars = skipped

	return summary, nil
}

func settleStandalone(ctx context.Context, s Strategy, book *ledger.Ledger, symbol string, history []types.Bar, i int) error {
	signal, err := s.Analyze(ctx, symbol, history[:i+1])
	if err != nil {
		return err
	}

	_, err = book.Settle(signal, history[i], history[i+1])

	return err
}
