package strategy

import (
	"sort"
	"sync"

	"github.com/rxtech-lab/argo-consensus/internal/inference"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// Factory builds a fresh strategy instance for one run.
type Factory func(params types.StrategyParameters) (Strategy, error)

// StrategyRegistry maps strategy names to factories.
type StrategyRegistry interface {
	Register(name string, factory Factory) error
	Create(name string, params types.StrategyParameters) (Strategy, error)
	List() []string
	Remove(name string) error
}

// StrategyRegistryV1 is a concurrency-safe StrategyRegistry.
type StrategyRegistryV1 struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewStrategyRegistry creates an empty registry.
func NewStrategyRegistry() StrategyRegistry {
	return &StrategyRegistryV1{
		factories: make(map[string]Factory),
		mu:        sync.RWMutex{},
	}
}

// NewDefaultRegistry registers the technical analysis, machine learning and
// arbitrage strategies.
func NewDefaultRegistry(deps Dependencies) StrategyRegistry {
	registry := NewStrategyRegistry()

	client := deps.Inference
	if client == nil {
		client = inference.NewSimulatedClient(deps.Seed)
	}

	_ = registry.Register(NameTechnicalAnalysis, func(params types.StrategyParameters) (Strategy, error) {
		return NewTechnicalAnalysis(params), nil
	})

	_ = registry.Register(NameMachineLearning, func(params types.StrategyParameters) (Strategy, error) {
		return NewMachineLearning(params, client, deps.Logger), nil
	})

	_ = registry.Register(NameArbitrage, func(params types.StrategyParameters) (Strategy, error) {
		source := deps.Discrepancy
		if source == nil {
			source = NewRandomDiscrepancy(deps.Seed)
		}

		return NewArbitrage(params, source), nil
	})

	return registry
}

// Register adds a factory. Names must be unique.
func (r *StrategyRegistryV1) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" || factory == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy name and factory are required")
	}

	if _, exists := r.factories[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", name)
	}

	r.factories[name] = factory

	return nil
}

// Create validates params and builds the named strategy.
func (r *StrategyRegistryV1) Create(name string, params types.StrategyParameters) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return factory(params)
}

// List returns the registered names in alphabetical order.
func (r *StrategyRegistryV1) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *StrategyRegistryV1) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not found", name)
	}

	delete(r.factories, name)

	return nil
}
