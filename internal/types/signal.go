package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// Action is the recommendation carried by a signal.
type Action string

const (
	// ActionBuy tells the engine to open a long one-bar trade.
	ActionBuy Action = "buy"
	// ActionSell tells the engine to open a short one-bar trade.
	ActionSell Action = "sell"
	// ActionHold tells the engine to stay flat.
	ActionHold Action = "hold"
)

// AllActions lists actions in the fixed tie-break order used by consensus.
var AllActions = []Action{ActionBuy, ActionSell, ActionHold}

// Direction returns +1 for buy, -1 for sell and 0 for hold.
func (a Action) Direction() float64 {
	switch a {
	case ActionBuy:
		return 1
	case ActionSell:
		return -1
	default:
		return 0
	}
}

// StrategyConsensus is the strategy name stamped on consensus signals.
const StrategyConsensus = "consensus"

type Signal struct {
	// Symbol is the symbol of the signal
	Symbol string `json:"symbol" validate:"required"`
	// Action is the recommended action
	Action Action `json:"action" validate:"required,oneof=buy sell hold"`
	// Strength of the signal in [0,100]
	Strength float64 `json:"strength" validate:"gte=0,lte=100"`
	// Confidence of the signal in [0,100]
	Confidence float64 `json:"confidence" validate:"gte=0,lte=100"`
	// EntryPrice is the close of the last bar in the evaluated window
	EntryPrice float64 `json:"entry_price" validate:"gte=0"`
	// StopLoss is unset for hold signals
	StopLoss optional.Option[float64] `json:"stop_loss"`
	// TakeProfit is unset for hold signals
	TakeProfit optional.Option[float64] `json:"take_profit"`
	// Reason is a human readable explanation
	Reason string `json:"reason"`
	// Time is the time of the last bar in the evaluated window
	Time time.Time `json:"time"`
	// Strategy is the name of the strategy that produced the signal
	Strategy string `json:"strategy"`
}

// Validate checks the ranges of the signal.
func (s *Signal) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSignal, "invalid signal", err)
	}

	return nil
}

// HoldSignal builds a neutral hold signal at the last bar of window.
func HoldSignal(symbol string, strategy string, window []Bar, strength, confidence float64, reason string) Signal {
	signal := Signal{
		Symbol:     symbol,
		Action:     ActionHold,
		Strength:   strength,
		Confidence: confidence,
		StopLoss:   optional.None[float64](),
		TakeProfit: optional.None[float64](),
		Reason:     reason,
		Strategy:   strategy,
	}

	if len(window) > 0 {
		last := window[len(window)-1]
		signal.EntryPrice = last.Close
		signal.Time = last.Time
	}

	return signal
}

// RiskLevels returns stop-loss and take-profit for action at entry using the
// 2x / 3x ATR rule. Hold returns none for both.
func RiskLevels(action Action, entry float64, atr float64) (optional.Option[float64], optional.Option[float64]) {
	switch action {
	case ActionBuy:
		return optional.Some(entry - 2*atr), optional.Some(entry + 3*atr)
	case ActionSell:
		return optional.Some(entry + 2*atr), optional.Some(entry - 3*atr)
	default:
		return optional.None[float64](), optional.None[float64]()
	}
}
