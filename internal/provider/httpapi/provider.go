package httpapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"VixPull/internal/domain/models"
	"VixPull/internal/service/ratelimit"
	"VixPull/pkg/config"
	xhttp "VixPull/pkg/http"
	applogger "VixPull/pkg/logger"
	"VixPull/pkg/util"
)

// Provider fetches VIX history and the current term structure from a
// REST market-data endpoint.
type Provider struct {
	client   *xhttp.Client
	limiter  *ratelimit.Limiter
	l        *applogger.Logger
	endpoint string
	apiKey   string
	symbol   string

	staleness   time.Duration
	maxAttempts int
	backoffMin  time.Duration
	backoffMax  time.Duration
}

// New creates an HTTP market-data provider from config.
func New(cfg *config.Config, l *applogger.Logger) *Provider {
	rate := cfg.Provider.RateLimit
	if rate <= 0 {
		rate = 5
	}
	return &Provider{
		client:      xhttp.NewClient(xhttp.WithTimeout(cfg.Provider.Timeout)),
		limiter:     ratelimit.New(rate, rate),
		l:           l,
		endpoint:    cfg.Provider.Endpoint,
		apiKey:      cfg.Provider.APIKey,
		symbol:      cfg.Provider.Symbol,
		staleness:   cfg.Provider.Staleness,
		maxAttempts: cfg.Provider.Retry.MaxAttempts,
		backoffMin:  cfg.Provider.Retry.BackoffMin,
		backoffMax:  cfg.Provider.Retry.BackoffMax,
	}
}

type historyResponse struct {
	Series []historyPoint `json:"series"`
}

type historyPoint struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type currentResponse struct {
	Timestamp string       `json:"timestamp"`
	Spot      float64      `json:"spot"`
	Curve     []curvePoint `json:"curve"`
}

type curvePoint struct {
	Months int     `json:"months"`
	Price  float64 `json:"price"`
}

// FetchHistory returns the trailing daily spot series, oldest first.
func (p *Provider) FetchHistory(ctx context.Context, days int) (models.HistoricalSeries, error) {
	if days <= 0 {
		return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("window days must be positive, got %d", days))
	}

	var resp historyResponse
	err := p.getWithRetry(ctx, "/v1/index/history", map[string]string{
		"symbol": p.symbol,
		"days":   fmt.Sprintf("%d", days),
	}, &resp)
	if err != nil {
		return nil, err
	}

	series := make(models.HistoricalSeries, 0, len(resp.Series))
	for i, pt := range resp.Series {
		ts, ok := util.ParseTime(pt.Date)
		if !ok {
			return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("history point %d: unparseable date %q", i, pt.Date))
		}
		series = append(series, models.MarketSnapshot{Timestamp: ts, Spot: pt.Close})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Timestamp.Before(series[j].Timestamp) })
	return series, nil
}

// FetchCurrent returns the latest spot and futures curve, rejecting
// quotes older than the staleness bound.
func (p *Provider) FetchCurrent(ctx context.Context) (*models.MarketSnapshot, error) {
	var resp currentResponse
	err := p.getWithRetry(ctx, "/v1/index/term-structure", map[string]string{
		"symbol": p.symbol,
	}, &resp)
	if err != nil {
		return nil, err
	}

	ts, ok := util.ParseTime(resp.Timestamp)
	if !ok {
		return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("unparseable quote timestamp %q", resp.Timestamp))
	}
	if p.staleness > 0 && time.Since(ts) > p.staleness {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("quote from %s exceeds staleness bound %s", ts.Format(time.RFC3339), p.staleness))
	}

	snap := &models.MarketSnapshot{Timestamp: ts, Spot: resp.Spot}
	for _, c := range resp.Curve {
		snap.Curve = append(snap.Curve, models.CurvePoint{Maturity: c.Months, Price: c.Price})
	}
	sort.Slice(snap.Curve, func(i, j int) bool { return snap.Curve[i].Maturity < snap.Curve[j].Maturity })

	if err := snap.Validate(); err != nil {
		return nil, models.DataInvalid(models.StageFetch, err)
	}
	return snap, nil
}

// Close is a no-op; the HTTP client holds no persistent connections worth tracking.
func (p *Provider) Close() error { return nil }

// getWithRetry retries transient failures with bounded exponential
// backoff. Provider-side rejections (4xx) and malformed payloads are
// permanent and surface immediately as DataInvalid.
func (p *Provider) getWithRetry(ctx context.Context, path string, params map[string]string, dest interface{}) error {
	var lastErr error
	backoff := p.backoffMin

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return models.DataUnavailable(models.StageFetch, err)
		}

		err := p.client.GetJSON(ctx, &xhttp.RequestOptions{
			URL:         p.endpoint + path,
			QueryParams: params,
			Headers:     p.headers(),
		}, dest)
		if err == nil {
			return nil
		}

		var de *xhttp.DecodeError
		if errors.As(err, &de) {
			return models.DataInvalid(models.StageFetch, de)
		}
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
			return models.DataInvalid(models.StageFetch, se)
		}

		lastErr = err
		if p.l != nil {
			p.l.Warn("provider request failed",
				applogger.String("path", path),
				applogger.Int("attempt", attempt),
				applogger.Error(err),
			)
		}

		if attempt == p.maxAttempts {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return models.DataUnavailable(models.StageFetch, ctx.Err())
		}
		backoff *= 2
		if p.backoffMax > 0 && backoff > p.backoffMax {
			backoff = p.backoffMax
		}
	}

	return models.DataUnavailable(models.StageFetch, fmt.Errorf("after %d attempts: %w", p.maxAttempts, lastErr))
}

func (p *Provider) headers() map[string]string {
	h := map[string]string{}
	if p.apiKey != "" {
		h["X-API-Key"] = p.apiKey
	}
	return h
}
