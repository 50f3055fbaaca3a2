package cached

import (
	"context"
	"testing"
	"time"

	"VixPull/internal/domain/models"
	"VixPull/pkg/cache"
)

type countingProvider struct {
	historyCalls int
	currentCalls int
	series       models.HistoricalSeries
}

func (c *countingProvider) FetchHistory(context.Context, int) (models.HistoricalSeries, error) {
	c.historyCalls++
	return c.series, nil
}

func (c *countingProvider) FetchCurrent(context.Context) (*models.MarketSnapshot, error) {
	c.currentCalls++
	return &models.MarketSnapshot{Timestamp: time.Now(), Spot: 15}, nil
}

func (c *countingProvider) Close() error { return nil }

func sampleSeries() models.HistoricalSeries {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return models.HistoricalSeries{
		{Timestamp: base, Spot: 14},
		{Timestamp: base.AddDate(0, 0, 1), Spot: 15},
	}
}

func TestFetchHistoryCachesWindow(t *testing.T) {
	inner := &countingProvider{series: sampleSeries()}
	p := New(inner, cache.NewMemoryCache(), time.Hour, nil)
	ctx := context.Background()

	first, err := p.FetchHistory(ctx, 252)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := p.FetchHistory(ctx, 252)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if inner.historyCalls != 1 {
		t.Fatalf("expected 1 inner call, got %d", inner.historyCalls)
	}
	if len(second) != len(first) || !second[0].Timestamp.Equal(first[0].Timestamp) {
		t.Fatalf("cached series differs from origin")
	}
}

func TestFetchHistoryKeyIncludesWindow(t *testing.T) {
	inner := &countingProvider{series: sampleSeries()}
	p := New(inner, cache.NewMemoryCache(), time.Hour, nil)
	ctx := context.Background()

	if _, err := p.FetchHistory(ctx, 252); err != nil {
		t.Fatalf("fetch 252: %v", err)
	}
	if _, err := p.FetchHistory(ctx, 90); err != nil {
		t.Fatalf("fetch 90: %v", err)
	}
	if inner.historyCalls != 2 {
		t.Fatalf("different windows must not share a cache entry, got %d calls", inner.historyCalls)
	}
}

func TestFetchCurrentNeverCached(t *testing.T) {
	inner := &countingProvider{series: sampleSeries()}
	p := New(inner, cache.NewMemoryCache(), time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := p.FetchCurrent(ctx); err != nil {
			t.Fatalf("fetch current: %v", err)
		}
	}
	if inner.currentCalls != 3 {
		t.Fatalf("expected 3 inner calls, got %d", inner.currentCalls)
	}
}
