package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
	"golang.org/x/sync/singleflight"
)

// CachedDataSource wraps a DataSource and keeps the full series of every symbol
// it has loaded. Parallel runs over the same symbol hit the underlying source once;
// loads of different symbols run concurrently.
type CachedDataSource struct {
	underlying DataSource
	series     map[string][]types.Bar
	mu         sync.RWMutex
	loads      singleflight.Group
}

// NewCachedDataSource creates a new CachedDataSource wrapping the given DataSource.
func NewCachedDataSource(underlying DataSource) *CachedDataSource {
	return &CachedDataSource{
		underlying: underlying,
		series:     make(map[string][]types.Bar),
	}
}

// ClearCache drops every cached series.
func (c *CachedDataSource) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[string][]types.Bar)
}

// GetBars implements DataSource with caching. Failed loads are not cached.
func (c *CachedDataSource) GetBars(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error) {
	if bars, ok := c.cached(symbol); ok {
		return types.FilterRange(bars, start, end), nil
	}

	loaded, err, _ := c.loads.Do(symbol, func() (any, error) {
		// Another load may have finished between the cache miss and Do.
		if bars, ok := c.cached(symbol); ok {
			return bars, nil
		}

		bars, err := c.underlying.GetBars(ctx, symbol, time.Time{}, time.Time{})
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.series[symbol] = bars
		c.mu.Unlock()

		return bars, nil
	})
	if err != nil {
		return nil, err
	}

	return types.FilterRange(loaded.([]types.Bar), start, end), nil
}

func (c *CachedDataSource) cached(symbol string) ([]types.Bar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	bars, ok := c.series[symbol]

	return bars, ok
}

// Symbols implements DataSource.
func (c *CachedDataSource) Symbols(ctx context.Context) ([]string, error) {
	return c.underlying.Symbols(ctx)
}

// Close implements DataSource.
func (c *CachedDataSource) Close() error {
	return c.underlying.Close()
}
