package engine

import (
	"context"

	"github.com/rxtech-lab/argo-consensus/internal/types"
)

// RunState is the lifecycle state of one simulation run.
type RunState = types.RunStatus

const (
	RunStateInitialized RunState = types.RunStatusInitialized
	RunStateRunning     RunState = types.RunStatusRunning
	RunStateCompleted   RunState = types.RunStatusCompleted
	RunStateFailed      RunState = types.RunStatusFailed
)

// Lifecycle callback types for a simulation run.
// Callbacks with an error return abort the run if they return an error.

// OnStateChangeCallback is called on every state transition. err is set when the run failed.
type OnStateChangeCallback func(state RunState, err error)

// OnProcessBarCallback is called after each simulated bar.
type OnProcessBarCallback func(current int, total int) error

// OnTradeCallback is called for every recorded round trip.
type OnTradeCallback func(trade types.BacktestTrade)

// LifecycleCallbacks holds all lifecycle callback functions for the engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnStateChange *OnStateChangeCallback
	OnProcessBar  *OnProcessBarCallback
	OnTrade       *OnTradeCallback
}

type Engine interface {
	// Run simulates config bar by bar and returns the result of the run.
	// The context can be used to cancel the run, in which case no result is returned.
	Run(ctx context.Context, config types.BacktestConfig, callbacks LifecycleCallbacks) (types.BacktestResult, error)
}
