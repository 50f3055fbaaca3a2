package repository

import (
	"context"

	"VixPull/internal/domain/models"
)

// MarketDataProvider fetches the raw material for a run. History and
// the current snapshot are separate calls so decorators can cache the
// immutable history without ever serving a stale current quote.
type MarketDataProvider interface {
	FetchHistory(ctx context.Context, days int) (models.HistoricalSeries, error)
	FetchCurrent(ctx context.Context) (*models.MarketSnapshot, error)
	Close() error
}

// AlertPublisher delivers the machine-readable summary to downstream
// consumers when a run flags an alert.
type AlertPublisher interface {
	Publish(ctx context.Context, key []byte, summary []byte) error
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordRun(status string)
	RecordError(stage string)
	RecordLastSpot(value float64)
	RecordStageLatency(stage string, seconds float64)
}
