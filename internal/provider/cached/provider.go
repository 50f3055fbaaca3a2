package cached

import (
	"context"
	"errors"
	"fmt"
	"time"

	"VixPull/internal/domain/models"
	"VixPull/internal/domain/repository"
	"VixPull/pkg/cache"
	applogger "VixPull/pkg/logger"
	"VixPull/pkg/util"
)

// Provider decorates a MarketDataProvider with a history cache. Closed
// daily bars are immutable, so serving them from cache is safe; the
// current quote is never cached and always hits the inner provider,
// keeping the staleness bound intact.
type Provider struct {
	inner repository.MarketDataProvider
	cache cache.Service
	l     *applogger.Logger
	ttl   time.Duration
}

// New wraps inner with the given cache service.
func New(inner repository.MarketDataProvider, c cache.Service, ttl time.Duration, l *applogger.Logger) *Provider {
	return &Provider{inner: inner, cache: c, l: l, ttl: ttl}
}

// FetchHistory serves the window from cache when present. Cache errors
// fall through to the inner provider: a cold or broken cache never
// fails a run.
func (p *Provider) FetchHistory(ctx context.Context, days int) (models.HistoricalSeries, error) {
	key := p.key(days)

	var series models.HistoricalSeries
	err := p.cache.Get(ctx, key, &series)
	if err == nil && len(series) > 0 {
		if p.l != nil {
			p.l.Debug("history cache hit", applogger.String("key", key), applogger.Int("points", len(series)))
		}
		return series, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCacheMiss) && p.l != nil {
		p.l.Warn("history cache read error", applogger.Error(err))
	}

	series, err = p.inner.FetchHistory(ctx, days)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, series, p.ttl); err != nil && p.l != nil {
		p.l.Warn("history cache write error", applogger.Error(err))
	}
	return series, nil
}

// FetchCurrent always delegates to the inner provider.
func (p *Provider) FetchCurrent(ctx context.Context) (*models.MarketSnapshot, error) {
	return p.inner.FetchCurrent(ctx)
}

// Close closes the cache and the inner provider.
func (p *Provider) Close() error {
	cerr := p.cache.Close()
	if err := p.inner.Close(); err != nil {
		return err
	}
	return cerr
}

// key includes the UTC date so a cached window from a prior trading
// day expires naturally even under a long TTL.
func (p *Provider) key(days int) string {
	return fmt.Sprintf("history:%s:%d", util.FormatDate(time.Now()), days)
}
