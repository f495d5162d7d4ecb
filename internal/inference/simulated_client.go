package inference

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/rxtech-lab/argo-consensus/internal/types"
)

// SimulatedClient produces deterministic pseudo-random predictions without a
// remote service. The same seed and features always give the same prediction.
type SimulatedClient struct {
	seed int64
}

// NewSimulatedClient creates a simulated client.
func NewSimulatedClient(seed int64) *SimulatedClient {
	return &SimulatedClient{seed: seed}
}

// Infer derives a prediction from the feature trend, perturbed by a generator
// seeded with the client seed and the feature values.
func (c *SimulatedClient) Infer(ctx context.Context, features Features) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, contextError(ctx, err)
	}

	rng := rand.New(rand.NewSource(c.seed ^ featureHash(features)))

	score := features.PriceTrend*10 + features.Momentum*100 + (rng.Float64()-0.5)*0.2

	action := types.ActionHold

	switch {
	case score > 0.05:
		action = types.ActionBuy
	case score < -0.05:
		action = types.ActionSell
	}

	strength := math.Min(math.Abs(score)*100, 100)
	confidence := 50 + rng.Float64()*45

	return Prediction{
		Action:     action,
		Strength:   strength,
		Confidence: confidence,
		Reason:     fmt.Sprintf("simulated model score %.4f", score),
	}, nil
}

func featureHash(features Features) int64 {
	h := fnv.New64a()
	buf := make([]byte, 8)

	for _, v := range []float64{
		features.PriceTrend,
		features.Volatility,
		features.VolumeTrend,
		features.Momentum,
		features.Range,
		features.LastClose,
	} {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		_, _ = h.Write(buf)
	}

	return int64(h.Sum64())
}
