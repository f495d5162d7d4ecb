// Package manager keeps a set of strategies and merges their signals by majority vote.
package manager

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-consensus/internal/indicator"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/strategy"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
	"go.uber.org/zap"
)

// ConsensusATRPeriod is the ATR period used for consensus stop-loss and take-profit.
const ConsensusATRPeriod = 14

type Manager interface {
	// Register adds a strategy and activates it.
	Register(s strategy.Strategy) error
	Activate(name string) error
	Deactivate(name string) error
	// Strategies returns every registered strategy name, sorted.
	Strategies() []string
	// ActiveStrategies returns the active strategy names, sorted.
	ActiveStrategies() []string
	// EvaluateAll runs every active strategy on window in name order. Failing
	// strategies are logged and left out.
	EvaluateAll(ctx context.Context, symbol string, window []types.Bar) []types.Signal
	// Consensus merges the signals of EvaluateAll. It returns none unless one
	// action has a strict majority of the votes.
	Consensus(ctx context.Context, symbol string, window []types.Bar) optional.Option[types.Signal]
}

type ManagerV1 struct {
	strategies map[string]strategy.Strategy
	active     map[string]bool
	log        *logger.Logger
	mu         sync.RWMutex
}

func NewManager(log *logger.Logger) Manager {
	return &ManagerV1{
		strategies: make(map[string]strategy.Strategy),
		active:     make(map[string]bool),
		log:        log.Named("manager"),
	}
}

func (m *ManagerV1) Register(s strategy.Strategy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := s.Name()
	if _, exists := m.strategies[name]; exists {
		return errors.Newf(errors.ErrCodeStrategyAlreadyExists, "strategy %s already registered", name)
	}

	m.strategies[name] = s
	m.active[name] = true

	return nil
}

func (m *ManagerV1) Activate(name string) error {
	return m.setActive(name, true)
}

func (m *ManagerV1) Deactivate(name string) error {
	return m.setActive(name, false)
}

func (m *ManagerV1) setActive(name string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.strategies[name]; !exists {
		return errors.Newf(errors.ErrCodeStrategyNotFound, "strategy %s not registered", name)
	}

	m.active[name] = active

	return nil
}

func (m *ManagerV1) Strategies() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.strategies))
	for name := range m.strategies {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (m *ManagerV1) ActiveStrategies() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.active))

	for name, active := range m.active {
		if active {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

func (m *ManagerV1) EvaluateAll(ctx context.Context, symbol string, window []types.Bar) []types.Signal {
	names := m.ActiveStrategies()
	signals := make([]types.Signal, 0, len(names))

	for _, name := range names {
		m.mu.RLock()
		s := m.strategies[name]
		m.mu.RUnlock()

		signal, err := m.evaluate(ctx, s, symbol, window)
		if err != nil {
			m.log.Warn("Strategy evaluation failed",
				zap.String("strategy", name),
				zap.String("symbol", symbol),
				zap.Error(err),
			)

			continue
		}

		signals = append(signals, signal)
	}

	return signals
}

// evaluate runs one strategy and turns errors, invalid signals and panics into
// strategy evaluation errors.
func (m *ManagerV1) evaluate(ctx context.Context, s strategy.Strategy, symbol string, window []types.Bar) (signal types.Signal, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeStrategyEvaluation, "strategy %s panicked: %v", s.Name(), r)
		}
	}()

	signal, err = s.Analyze(ctx, symbol, window)
	if err != nil {
		return types.Signal{}, errors.Wrapf(errors.ErrCodeStrategyEvaluation, err, "strategy %s failed", s.Name())
	}

	if err = signal.Validate(); err != nil {
		return types.Signal{}, errors.Wrapf(errors.ErrCodeStrategyEvaluation, err, "strategy %s returned an invalid signal", s.Name())
	}

	if signal.Strategy == "" {
		signal.Strategy = s.Name()
	}

	return signal, nil
}

func (m *ManagerV1) Consensus(ctx context.Context, symbol string, window []types.Bar) optional.Option[types.Signal] {
	signals := m.EvaluateAll(ctx, symbol, window)
	if len(signals) == 0 || len(window) == 0 {
		return optional.None[types.Signal]()
	}

	votes := make(map[types.Action][]types.Signal, len(types.AllActions))
	for _, signal := range signals {
		votes[signal.Action] = append(votes[signal.Action], signal)
	}

	winner := types.AllActions[0]
	for _, action := range types.AllActions[1:] {
		if len(votes[action]) > len(votes[winner]) {
			winner = action
		}
	}

	voters := votes[winner]
	if len(voters)*2 <= len(signals) {
		return optional.None[types.Signal]()
	}

	confidence := 0.0
	strength := 0.0
	names := make([]string, 0, len(voters))

	for _, signal := range voters {
		confidence += signal.Confidence
		strength += signal.Strength
		names = append(names, signal.Strategy)
	}

	last := window[len(window)-1]
	stopLoss, takeProfit := types.RiskLevels(winner, last.Close, indicator.ATR(window, ConsensusATRPeriod))

	return optional.Some(types.Signal{
		Symbol:     symbol,
		Action:     winner,
		Strength:   strength / float64(len(voters)),
		Confidence: confidence / float64(len(voters)),
		EntryPrice: last.Close,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Reason:     fmt.Sprintf("%d/%d strategies voted %s (%s)", len(voters), len(signals), winner, strings.Join(names, ", ")),
		Time:       last.Time,
		Strategy:   types.StrategyConsensus,
	})
}
