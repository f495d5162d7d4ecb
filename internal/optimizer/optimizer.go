// Package optimizer searches a Cartesian grid of strategy parameters and ranks
// the simulated runs by fitness.
package optimizer

import (
	"context"
	"runtime"
	"sort"

	"github.com/rxtech-lab/argo-consensus/internal/backtest/engine"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OnCombinationStartCallback is called before a combination is simulated.
// Callbacks may be invoked from several workers at once.
type OnCombinationStartCallback func(index int, total int, params map[string]float64)

// OnCombinationEndCallback is called after a combination finished. err is set
// when the combination was omitted.
type OnCombinationEndCallback func(index int, total int, fitness float64, err error)

// Callbacks holds the optional progress callbacks. Nil fields are skipped.
type Callbacks struct {
	OnCombinationStart *OnCombinationStartCallback
	OnCombinationEnd   *OnCombinationEndCallback
}

type Optimizer interface {
	// Optimize runs template once per combination of ranges and returns the
	// successful runs sorted by fitness, best first. When ctx is cancelled the
	// completed runs are returned together with the context error.
	Optimize(ctx context.Context, template types.BacktestConfig, ranges map[string][]float64, callbacks Callbacks) ([]types.OptimizationResult, error)
}

type Options struct {
	Engine engine.Engine
	// Workers bounds the number of concurrent runs. Zero means runtime.NumCPU().
	Workers int
	Logger  *logger.Logger
}

type OptimizerV1 struct {
	engine  engine.Engine
	workers int
	log     *logger.Logger
}

func NewOptimizer(options Options) Optimizer {
	workers := options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &OptimizerV1{
		engine:  options.Engine,
		workers: workers,
		log:     options.Logger.Named("optimizer"),
	}
}

// Combinations expands ranges into every combination of values. Keys are
// visited in alphabetical order and the first key varies slowest. An empty
// map yields a single empty combination.
func Combinations(ranges map[string][]float64) ([]map[string]float64, error) {
	keys := make([]string, 0, len(ranges))

	for key, values := range ranges {
		if key == "" {
			return nil, errors.New(errors.ErrCodeInvalidParameterRange, "parameter name must not be empty")
		}

		if len(values) == 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidParameterRange, "parameter %s has no candidate values", key)
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	combinations := []map[string]float64{{}}

	for _, key := range keys {
		next := make([]map[string]float64, 0, len(combinations)*len(ranges[key]))

		for _, base := range combinations {
			for _, value := range ranges[key] {
				combination := make(map[string]float64, len(base)+1)
				for k, v := range base {
					combination[k] = v
				}

				combination[key] = value
				next = append(next, combination)
			}
		}

		combinations = next
	}

	return combinations, nil
}

// Optimize implements Optimizer.
func (o *OptimizerV1) Optimize(ctx context.Context, template types.BacktestConfig, ranges map[string][]float64, callbacks Callbacks) ([]types.OptimizationResult, error) {
	if o.engine == nil {
		return nil, errors.New(errors.ErrCodeBacktestConfigError, "optimizer has no engine")
	}

	combinations, err := Combinations(ranges)
	if err != nil {
		return nil, err
	}

	template = template.WithDefaults()
	total := len(combinations)
	slots := make([]*types.OptimizationResult, total)

	o.log.Info("Starting optimization",
		zap.String("symbol", template.Symbol),
		zap.Int("combinations", total),
		zap.Int("workers", o.workers),
	)

	var group errgroup.Group

	group.SetLimit(o.workers)

	for index, params := range combinations {
		if ctx.Err() != nil {
			break
		}

		group.Go(func() error {
			// the slot may have waited for a worker past cancellation
			if ctx.Err() != nil {
				return nil
			}

			if callbacks.OnCombinationStart != nil {
				(*callbacks.OnCombinationStart)(index, total, params)
			}

			result, err := o.evaluate(ctx, template, params)
			if err != nil {
				o.log.Warn("Combination failed",
					zap.Int("index", index),
					zap.Any("parameters", params),
					zap.Error(err),
				)
			} else {
				slots[index] = &result
			}

			if callbacks.OnCombinationEnd != nil {
				(*callbacks.OnCombinationEnd)(index, total, result.Fitness, err)
			}

			return nil
		})
	}

	_ = group.Wait()

	results := make([]types.OptimizationResult, 0, total)

	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Fitness > results[j].Fitness
	})

	o.log.Info("Optimization finished",
		zap.Int("completed", len(results)),
		zap.Int("combinations", total),
	)

	return results, ctx.Err()
}

// evaluate runs one combination. Every failure is reported as an optimization
// combination error.
func (o *OptimizerV1) evaluate(ctx context.Context, template types.BacktestConfig, params map[string]float64) (types.OptimizationResult, error) {
	config := template.Clone()

	for name, value := range params {
		if err := config.Parameters.Set(name, value); err != nil {
			return types.OptimizationResult{}, errors.Wrapf(errors.ErrCodeOptimizationCombination, err, "invalid value for %s", name)
		}
	}

	result, err := o.engine.Run(ctx, config, engine.LifecycleCallbacks{})
	if err != nil {
		return types.OptimizationResult{}, errors.Wrapf(errors.ErrCodeOptimizationCombination, err, "combination %v failed", params)
	}

	if result.Status != types.RunStatusCompleted {
		return types.OptimizationResult{}, errors.Newf(errors.ErrCodeOptimizationCombination, "combination %v ended in state %s", params, result.Status)
	}

	return types.OptimizationResult{
		Parameters: params,
		Result:     result,
		Fitness:    Fitness(result.Summary, result.RiskMetrics),
	}, nil
}
