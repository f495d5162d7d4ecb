package datasource

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-consensus/internal/types"
)

// DataSource is the historical data provider used by the simulation engine.
type DataSource interface {
	// GetBars returns the bars of symbol within [start, end], ascending by time.
	// A zero start or end leaves that side open. An unknown symbol yields a
	// SymbolNotFoundError; a known symbol without bars in range yields an empty slice.
	GetBars(ctx context.Context, symbol string, start time.Time, end time.Time) ([]types.Bar, error)
	// Symbols returns every symbol the source holds, sorted.
	Symbols(ctx context.Context) ([]string, error)
	// Close releases any resources held by the source.
	Close() error
}
