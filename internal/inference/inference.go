// Package inference is the boundary to the external model that scores market
// features for the machine-learning strategy.
package inference

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// Features summarises the recent bars sent to the model.
type Features struct {
	// PriceTrend is the fractional change from the first to the last close.
	PriceTrend float64 `json:"price_trend"`
	// Volatility is the population stdev of close-to-close returns.
	Volatility float64 `json:"volatility"`
	// VolumeTrend is the fractional change of the second-half mean volume over the first half.
	VolumeTrend float64 `json:"volume_trend"`
	// Momentum is the mean close-to-close return.
	Momentum float64 `json:"momentum"`
	// Range is (highest high - lowest low) / last close.
	Range float64 `json:"range"`
	// LastClose is the close of the newest bar.
	LastClose float64 `json:"last_close"`
}

// Prediction is the model's recommendation.
type Prediction struct {
	Action     types.Action `json:"action" validate:"required,oneof=buy sell hold"`
	Strength   float64      `json:"strength" validate:"gte=0,lte=100"`
	Confidence float64      `json:"confidence" validate:"gte=0,lte=100"`
	Reason     string       `json:"reason"`
}

// Validate checks that the prediction is usable as a signal.
func (p *Prediction) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInferenceResponse, "prediction out of range", err)
	}

	return nil
}

// Client performs one inference call.
type Client interface {
	// Infer returns the model's prediction for features. Implementations must
	// honour ctx cancellation and deadlines.
	Infer(ctx context.Context, features Features) (Prediction, error)
}
