package strategy

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// DiscrepancySource measures the fractional price gap the arbitrage strategy trades on.
type DiscrepancySource interface {
	Discrepancy(ctx context.Context, symbol string, window []types.Bar) (float64, error)
}

// RandomDiscrepancy draws discrepancies uniformly from [0, MaxDiscrepancy)
// using a seeded generator, so a run with the same seed repeats exactly.
type RandomDiscrepancy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// MaxDiscrepancy bounds RandomDiscrepancy draws.
const MaxDiscrepancy = 0.002

func NewRandomDiscrepancy(seed int64) *RandomDiscrepancy {
	return &RandomDiscrepancy{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomDiscrepancy) Discrepancy(ctx context.Context, symbol string, window []types.Bar) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rng.Float64() * MaxDiscrepancy, nil
}

// Venue quotes a price for a symbol at a point in time.
type Venue interface {
	Name() string
	Quote(ctx context.Context, symbol string, at time.Time) (float64, error)
}

// CrossVenueDiscrepancy compares quotes from several venues at the time of the
// last bar and reports (max - min) / min.
type CrossVenueDiscrepancy struct {
	venues []Venue
}

func NewCrossVenueDiscrepancy(venues ...Venue) *CrossVenueDiscrepancy {
	return &CrossVenueDiscrepancy{venues: venues}
}

// Discrepancy returns 0 when fewer than two venues have a positive quote.
func (c *CrossVenueDiscrepancy) Discrepancy(ctx context.Context, symbol string, window []types.Bar) (float64, error) {
	if len(window) == 0 {
		return 0, nil
	}

	at := window[len(window)-1].Time
	low := math.Inf(1)
	high := math.Inf(-1)
	quotes := 0

	for _, venue := range c.venues {
		price, err := venue.Quote(ctx, symbol, at)
		if err != nil {
			if errors.IsSymbolNotFoundError(err) {
				continue
			}

			return 0, errors.Wrapf(errors.ErrCodeStrategyEvaluation, err, "quote from venue %s failed", venue.Name())
		}

		if price <= 0 {
			continue
		}

		quotes++
		low = math.Min(low, price)
		high = math.Max(high, price)
	}

	if quotes < 2 {
		return 0, nil
	}

	return (high - low) / low, nil
}

// BarVenue is an in-memory venue backed by bar series per symbol.
type BarVenue struct {
	name string
	bars map[string][]types.Bar
}

// NewBarVenue creates a venue. Each series is sorted by time.
func NewBarVenue(name string, bars map[string][]types.Bar) *BarVenue {
	sorted := make(map[string][]types.Bar, len(bars))

	for symbol, series := range bars {
		copied := append([]types.Bar(nil), series...)
		sort.SliceStable(copied, func(i, j int) bool { return copied[i].Time.Before(copied[j].Time) })
		sorted[symbol] = copied
	}

	return &BarVenue{name: name, bars: sorted}
}

func (v *BarVenue) Name() string {
	return v.name
}

// Quote returns the close of the newest bar at or before at, or 0 when the
// series starts later.
func (v *BarVenue) Quote(ctx context.Context, symbol string, at time.Time) (float64, error) {
	series, ok := v.bars[symbol]
	if !ok {
		return 0, errors.NewSymbolNotFoundError(symbol, nil)
	}

	index := sort.Search(len(series), func(i int) bool { return series[i].Time.After(at) })
	if index == 0 {
		return 0, nil
	}

	return series[index-1].Close, nil
}
