package engine

import (
	"context"

	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine"
	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/ledger"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/manager"
	"github.com/rxtech-lab/argo-consensus/internal/metrics"
	"github.com/rxtech-lab/argo-consensus/internal/strategy"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"go.uber.org/zap"
)

const (
	// MinimumBars is the shortest series the engine will simulate.
	MinimumBars = 50
	// WarmupBars are never traded; the first simulated bar is bars[WarmupBars].
	WarmupBars = strategy.WarmupBars
)

// ManagerFactory builds the strategy manager for one run.
type ManagerFactory func(config types.BacktestConfig) (manager.Manager, error)

// NewManagerFactory returns a ManagerFactory that creates config.Strategies from
// registry with config.Parameters and registers them on a fresh manager.
func NewManagerFactory(registry strategy.StrategyRegistry, log *logger.Logger) ManagerFactory {
	return func(config types.BacktestConfig) (manager.Manager, error) {
		mgr := manager.NewManager(log)

		for _, name := range config.Strategies {
			s, err := registry.Create(name, config.Parameters)
			if err != nil {
				return nil, err
			}

			if err := mgr.Register(s); err != nil {
				return nil, err
			}
		}

		if len(mgr.ActiveStrategies()) == 0 {
			return nil, errors.New(errors.ErrCodeNoActiveStrategies, "no strategies configured for the run")
		}

		return mgr, nil
	}
}

type BacktestEngineV1 struct {
	datasource datasource.DataSource
	newManager ManagerFactory
	log        *logger.Logger
}

func NewBacktestEngineV1(ds datasource.DataSource, newManager ManagerFactory, log *logger.Logger) engine.Engine {
	return &BacktestEngineV1{
		datasource: ds,
		newManager: newManager,
		log:        log.Named("engine"),
	}
}

// run carries the mutable state of a single Run call.
type run struct {
	config    types.BacktestConfig
	callbacks engine.LifecycleCallbacks
	bars      []types.Bar
	manager   manager.Manager
	book      *ledger.Ledger
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, config types.BacktestConfig, callbacks engine.LifecycleCallbacks) (types.BacktestResult, error) {
	b.setState(callbacks, engine.RunStateInitialized, nil)

	r, err := b.prepare(ctx, config, callbacks)
	if err != nil {
		return b.fail(callbacks, err)
	}

	b.setState(callbacks, engine.RunStateRunning, nil)

	total := len(r.bars) - 1 - WarmupBars
	processed := 0
	skipped := 0

	for i := WarmupBars; i <= len(r.bars)-2; i++ {
		if err := ctx.Err(); err != nil {
			return b.fail(callbacks, err)
		}

		if err := b.processBar(ctx, r, i); err != nil {
			skipped++

			b.log.Warn("Skipping bar",
				zap.String("symbol", r.config.Symbol),
				zap.Time("time", r.bars[i].Time),
				zap.Error(err),
			)
		}

		r.book.Mark(r.bars[i])
		processed++

		if callbacks.OnProcessBar != nil {
			if err := (*callbacks.OnProcessBar)(processed, total); err != nil {
				return b.fail(callbacks, err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return b.fail(callbacks, err)
	}

	m := metrics.Calculate(r.book.Trades(), r.config.InitialCapital, r.book.EquityCurve())
	m.Summary.SkippedBars = skipped

	b.log.Info("Backtest completed",
		zap.String("symbol", r.config.Symbol),
		zap.Int("bars", processed),
		zap.Int("skipped", skipped),
		zap.Int("trades", len(r.book.Trades())),
		zap.Float64("final_capital", r.book.Capital()),
	)

	b.setState(callbacks, engine.RunStateCompleted, nil)

	return types.BacktestResult{
		Status:        engine.RunStateCompleted,
		Summary:       m.Summary,
		Trades:        r.book.Trades(),
		EquityCurve:   r.book.EquityCurve(),
		RiskMetrics:   m.Risk,
		Config:        r.config,
		BarsProcessed: processed,
		SkippedBars:   skipped,
	}, nil
}

// prepare validates config, loads the bar series and builds the manager and ledger.
func (b *BacktestEngineV1) prepare(ctx context.Context, config types.BacktestConfig, callbacks engine.LifecycleCallbacks) (*run, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if b.datasource == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoDatasource, "no data source configured")
	}

	if b.newManager == nil {
		return nil, errors.New(errors.ErrCodeBacktestConfigError, "no manager factory configured")
	}

	bars, err := b.datasource.GetBars(ctx, config.Symbol, config.StartDate, config.EndDate)
	if err != nil {
		if errors.IsSymbolNotFoundError(err) || ctx.Err() != nil {
			return nil, err
		}

		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to load bars for %s", config.Symbol)
	}

	if len(bars) < MinimumBars {
		return nil, errors.NewInsufficientDataErrorf(MinimumBars, len(bars), config.Symbol,
			"backtest needs at least %d bars between %s and %s", MinimumBars,
			config.StartDate.Format("2006-01-02"), config.EndDate.Format("2006-01-02"))
	}

	mgr, err := b.newManager(config)
	if err != nil {
		return nil, err
	}

	book := ledger.New(ledger.Options{
		Symbol:         config.Symbol,
		StrategyLabel:  config.StrategyLabel,
		InitialCapital: config.InitialCapital,
		RiskPerTrade:   config.Parameters.RiskPerTrade,
		Commission:     commission_fee.GetCommissionFeeHandler(commission_fee.Broker(config.Broker)),
	})

	b.log.Debug("Backtest prepared",
		zap.String("symbol", config.Symbol),
		zap.Strings("strategies", mgr.ActiveStrategies()),
		zap.Int("bars", len(bars)),
	)

	return &run{
		config:    config,
		callbacks: callbacks,
		bars:      bars,
		manager:   mgr,
		book:      book,
	}, nil
}

// processBar asks the manager for a consensus on bars[0..i] and settles it
// against bars[i+1]. Panics are returned as bar processing errors.
func (b *BacktestEngineV1) processBar(ctx context.Context, r *run, i int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.Newf(errors.ErrCodeBarProcessing, "panic while processing bar %d: %v", i, rec)
		}
	}()

	consensus := r.manager.Consensus(ctx, r.config.Symbol, r.bars[:i+1])
	if consensus.IsNone() {
		return nil
	}

	trade, err := r.book.Settle(consensus.Unwrap(), r.bars[i], r.bars[i+1])
	if err != nil {
		return err
	}

	if trade.IsSome() && r.callbacks.OnTrade != nil {
		(*r.callbacks.OnTrade)(trade.Unwrap())
	}

	return nil
}

func (b *BacktestEngineV1) fail(callbacks engine.LifecycleCallbacks, err error) (types.BacktestResult, error) {
	b.log.Error("Backtest failed", zap.Error(err))
	b.setState(callbacks, engine.RunStateFailed, err)

	return types.BacktestResult{}, err
}

func (b *BacktestEngineV1) setState(callbacks engine.LifecycleCallbacks, state engine.RunState, err error) {
	if callbacks.OnStateChange != nil {
		(*callbacks.OnStateChange)(state, err)
	}
}
