package datasource

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
	"github.com/rxtech-lab/argo-consensus/pkg/errors"
)

// InMemoryDataSource keeps bar series per symbol in memory, sorted by time.
type InMemoryDataSource struct {
	bars map[string][]types.Bar
	mu   sync.RWMutex
}

// NewInMemoryDataSource creates a source holding bars.
func NewInMemoryDataSource(bars []types.Bar) (*InMemoryDataSource, error) {
	ds := &InMemoryDataSource{bars: make(map[string][]types.Bar)}

	if err := ds.Add(bars); err != nil {
		return nil, err
	}

	return ds, nil
}

// Add inserts bars. A bar whose symbol and timestamp already exist, in the
// source or earlier in bars, rejects the whole batch.
func (ds *InMemoryDataSource) Add(bars []types.Bar) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	grouped := make(map[string][]types.Bar)
	seen := make(map[string]map[int64]struct{})

	for _, bar := range bars {
		if bar.Symbol == "" {
			return errors.Newf(errors.ErrCodeInvalidParameter, "bar at %s has no symbol", bar.Time)
		}

		if seen[bar.Symbol] == nil {
			seen[bar.Symbol] = make(map[int64]struct{})

			for _, existing := range ds.bars[bar.Symbol] {
				seen[bar.Symbol][existing.Time.UnixNano()] = struct{}{}
			}
		}

		key := bar.Time.UnixNano()
		if _, duplicate := seen[bar.Symbol][key]; duplicate {
			return errors.Newf(errors.ErrCodeDuplicateBar, "duplicate bar for %s at %s", bar.Symbol, bar.Time)
		}

		seen[bar.Symbol][key] = struct{}{}
		grouped[bar.Symbol] = append(grouped[bar.Symbol], bar)
	}

	for symbol, added := range grouped {
		series := append(ds.bars[symbol], added...)
		sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
		ds.bars[symbol] = series
	}

	return nil
}

// GetBars implements DataSource.
func (ds *InMemoryDataSource) GetBars(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds.mu.RLock()
	defer ds.mu.RUnlock()

	series, ok := ds.bars[symbol]
	if !ok {
		return nil, errors.NewSymbolNotFoundError(symbol, nil)
	}

	return types.FilterRange(series, start, end), nil
}

// Symbols implements DataSource.
func (ds *InMemoryDataSource) Symbols(ctx context.Context) ([]string, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	symbols := make([]string, 0, len(ds.bars))
	for symbol := range ds.bars {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	return symbols, nil
}

// Close implements DataSource.
func (ds *InMemoryDataSource) Close() error {
	return nil
}
