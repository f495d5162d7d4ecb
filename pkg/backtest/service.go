// Package backtest is the entry point for callers that run simulations,
// optimize strategy parameters or evaluate signals on a bar window.
package backtest

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine"
	engine_v1 "github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-consensus/internal/inference"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/manager"
	"github.com/rxtech-lab/argo-consensus/internal/optimizer"
	"github.com/rxtech-lab/argo-consensus/internal/strategy"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

type Options struct {
	// DataSource provides the bars of every run. Required.
	DataSource datasource.DataSource
	// Registry overrides the default strategy registry.
	Registry strategy.StrategyRegistry
	// Inference scores features for the machine-learning strategy. The seeded
	// simulated client is used when nil.
	Inference inference.Client
	// Discrepancy feeds the arbitrage strategy.
	Discrepancy strategy.DiscrepancySource
	Seed        int64
	// Strategies are the strategies EvaluateSignal and EvaluateConsensus use.
	// Every registered strategy is used when empty.
	Strategies []string
	// Parameters configure the strategies of EvaluateSignal and EvaluateConsensus.
	Parameters optional.Option[types.StrategyParameters]
	// Workers bounds concurrent optimizer runs.
	Workers int
	Logger  *logger.Logger
}

type Service struct {
	registry   strategy.StrategyRegistry
	datasource datasource.DataSource
	engine     engine.Engine
	optimizer  optimizer.Optimizer
	manager    manager.Manager
	log        *logger.Logger
}

func NewService(options Options) (*Service, error) {
	if options.DataSource == nil {
		return nil, errors.New(errors.ErrCodeBacktestNoDatasource, "data source is required")
	}

	registry := options.Registry
	if registry == nil {
		registry = strategy.NewDefaultRegistry(strategy.Dependencies{
			Inference:   options.Inference,
			Discrepancy: options.Discrepancy,
			Seed:        options.Seed,
			Logger:      options.Logger,
		})
	}

	backtestEngine := engine_v1.NewBacktestEngineV1(options.DataSource, engine_v1.NewManagerFactory(registry, options.Logger), options.Logger)

	names := options.Strategies
	if len(names) == 0 {
		names = registry.List()
	}

	params := types.DefaultStrategyParameters()
	if options.Parameters.IsSome() {
		params = options.Parameters.Unwrap()
	}

	mgr, err := engine_v1.NewManagerFactory(registry, options.Logger)(types.BacktestConfig{
		Strategies: names,
		Parameters: params,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		registry:   registry,
		datasource: options.DataSource,
		engine:     backtestEngine,
		optimizer: optimizer.NewOptimizer(optimizer.Options{
			Engine:  backtestEngine,
			Workers: options.Workers,
			Logger:  options.Logger,
		}),
		manager: mgr,
		log:     options.Logger.Named("service"),
	}, nil
}

// RunBacktest simulates config. It fails with an InsufficientDataError or a
// SymbolNotFoundError when the series cannot be simulated.
func (s *Service) RunBacktest(ctx context.Context, config types.BacktestConfig) (types.BacktestResult, error) {
	return s.RunBacktestWithCallbacks(ctx, config, engine.LifecycleCallbacks{})
}

func (s *Service) RunBacktestWithCallbacks(ctx context.Context, config types.BacktestConfig, callbacks engine.LifecycleCallbacks) (types.BacktestResult, error) {
	return s.engine.Run(ctx, config, callbacks)
}

// OptimizeParameters runs config for every combination of ranges and returns
// the results best first.
func (s *Service) OptimizeParameters(ctx context.Context, config types.BacktestConfig, ranges map[string][]float64) ([]types.OptimizationResult, error) {
	return s.OptimizeParametersWithCallbacks(ctx, config, ranges, optimizer.Callbacks{})
}

func (s *Service) OptimizeParametersWithCallbacks(ctx context.Context, config types.BacktestConfig, ranges map[string][]float64, callbacks optimizer.Callbacks) ([]types.OptimizationResult, error) {
	return s.optimizer.Optimize(ctx, config, ranges, callbacks)
}

// EvaluateSignal returns the signal of every active strategy for the last bar of window.
func (s *Service) EvaluateSignal(ctx context.Context, symbol string, window []types.Bar) ([]types.Signal, error) {
	if len(window) == 0 {
		return nil, errors.NewInsufficientDataError(1, 0, symbol, "window is empty")
	}

	return s.manager.EvaluateAll(ctx, symbol, window), nil
}

// EvaluateConsensus returns the majority signal for the last bar of window, if any.
func (s *Service) EvaluateConsensus(ctx context.Context, symbol string, window []types.Bar) (optional.Option[types.Signal], error) {
	if len(window) == 0 {
		return optional.None[types.Signal](), errors.NewInsufficientDataError(1, 0, symbol, "window is empty")
	}

	return s.manager.Consensus(ctx, symbol, window), nil
}

// EvaluateSymbol loads the bars of symbol up to at and evaluates the consensus
// on the last window bars.
func (s *Service) EvaluateSymbol(ctx context.Context, symbol string, at time.Time, window int) (optional.Option[types.Signal], error) {
	bars, err := s.datasource.GetBars(ctx, symbol, time.Time{}, at)
	if err != nil {
		return optional.None[types.Signal](), err
	}

	if len(bars) > window && window > 0 {
		bars = bars[len(bars)-window:]
	}

	return s.EvaluateConsensus(ctx, symbol, bars)
}

// BacktestStrategy runs one strategy alone over the bars of symbol in [start, end].
func (s *Service) BacktestStrategy(ctx context.Context, name string, params types.StrategyParameters, symbol string, start, end time.Time) (types.SummaryMetrics, error) {
	instance, err := s.registry.Create(name, params)
	if err != nil {
		return types.SummaryMetrics{}, err
	}

	bars, err := s.datasource.GetBars(ctx, symbol, start, end)
	if err != nil {
		return types.SummaryMetrics{}, err
	}

	return instance.Backtest(ctx, symbol, bars)
}

// Manager exposes the strategy manager of EvaluateSignal and EvaluateConsensus
// so callers can activate or deactivate strategies.
func (s *Service) Manager() manager.Manager {
	return s.manager
}

// Strategies lists the registered strategy names.
func (s *Service) Strategies() []string {
	return s.registry.List()
}
