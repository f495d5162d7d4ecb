// Package strategy holds the signal generators that vote in consensus.
package strategy

import (
	"context"

	"github.com/rxtech-lab/argo-consensus/internal/inference"
	"github.com/rxtech-lab/argo-consensus/internal/logger"
	"github.com/rxtech-lab/argo-consensus/internal/types"
)

const (
	NameTechnicalAnalysis = types.StrategyTechnicalAnalysis
	NameMachineLearning   = "machine_learning"
	NameArbitrage         = "arbitrage"
)

// Strategy turns a rolling window of bars into a recommendation.
type Strategy interface {
	// Name returns the registry name of the strategy.
	Name() string
	// Analyze evaluates window, oldest bar first, and returns a signal for its last bar.
	Analyze(ctx context.Context, symbol string, window []types.Bar) (types.Signal, error)
	// Backtest runs the strategy alone over history with one-bar round trips.
	// Used to compare strategies with each other, not by the simulation engine.
	Backtest(ctx context.Context, symbol string, history []types.Bar) (types.SummaryMetrics, error)
}

// Dependencies are the collaborators shared by strategies built from a registry.
type Dependencies struct {
	// Inference scores features for the machine-learning strategy. A seeded
	// simulated client is used when nil.
	Inference inference.Client
	// Discrepancy feeds the arbitrage strategy. A seeded random source is
	// created per strategy instance when nil.
	Discrepancy DiscrepancySource
	// Seed drives the simulated defaults above.
	Seed   int64
	Logger *logger.Logger
}
