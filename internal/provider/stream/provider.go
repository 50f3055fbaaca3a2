package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"VixPull/internal/domain/models"
	"VixPull/internal/domain/repository"
	"VixPull/pkg/config"
	applogger "VixPull/pkg/logger"

	"github.com/gorilla/websocket"
)

// Provider reads the current spot and futures quotes from a provider
// WebSocket feed. History still comes over REST, so the provider
// composes an inner REST provider for FetchHistory.
type Provider struct {
	rest      repository.MarketDataProvider
	l         *applogger.Logger
	url       string
	apiKey    string
	symbol    string
	staleness time.Duration
	timeout   time.Duration

	required []int
	tol      int
}

// New creates a WebSocket quote provider. rest serves FetchHistory.
func New(cfg *config.Config, rest repository.MarketDataProvider, l *applogger.Logger) *Provider {
	return &Provider{
		rest:      rest,
		l:         l,
		url:       cfg.Provider.WebSocket.URL,
		apiKey:    cfg.Provider.APIKey,
		symbol:    cfg.Provider.Symbol,
		staleness: cfg.Provider.Staleness,
		timeout:   cfg.Provider.Timeout,
		required:  cfg.Curve.RequiredMaturities,
		tol:       cfg.Curve.MaturityTolerance,
	}
}

// FetchHistory delegates to the REST provider.
func (p *Provider) FetchHistory(ctx context.Context, days int) (models.HistoricalSeries, error) {
	return p.rest.FetchHistory(ctx, days)
}

type quoteMessage struct {
	Type      string  `json:"type"`
	Symbol    string  `json:"symbol"`
	Months    int     `json:"months"` // 0 for the spot index
	Price     float64 `json:"price"`
	Timestamp int64   `json:"ts"` // unix seconds
}

// FetchCurrent connects, subscribes, and reads quote messages until the
// spot and every required maturity have been observed, then closes.
func (p *Provider) FetchCurrent(ctx context.Context) (*models.MarketSnapshot, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, p.url, nil)
	if err != nil {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("dial %s: %w", p.url, err))
	}
	defer conn.Close()

	sub := map[string]interface{}{
		"type":   "subscribe",
		"symbol": p.symbol,
		"token":  p.apiKey,
	}
	if err := conn.WriteJSON(sub); err != nil {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("subscribe: %w", err))
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}

	var (
		spot   float64
		spotTS time.Time
		haveSp bool
		curve  = map[int]float64{}
	)
	for !haveSp || !p.curveComplete(curve) {
		select {
		case <-ctx.Done():
			return nil, models.DataUnavailable(models.StageFetch, ctx.Err())
		default:
		}

		_, raw, err := conn.ReadMessage()
		if err != nil {
			return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("read quote: %w", err))
		}
		var msg quoteMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("malformed quote message: %w", err))
		}
		if msg.Type != "quote" {
			continue
		}
		if msg.Months == 0 {
			spot = msg.Price
			spotTS = time.Unix(msg.Timestamp, 0)
			haveSp = true
			continue
		}
		curve[msg.Months] = msg.Price
	}

	if p.staleness > 0 && time.Since(spotTS) > p.staleness {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("quote from %s exceeds staleness bound %s", spotTS.Format(time.RFC3339), p.staleness))
	}

	snap := &models.MarketSnapshot{Timestamp: spotTS, Spot: spot}
	for m, price := range curve {
		snap.Curve = append(snap.Curve, models.CurvePoint{Maturity: m, Price: price})
	}
	sort.Slice(snap.Curve, func(i, j int) bool { return snap.Curve[i].Maturity < snap.Curve[j].Maturity })

	if err := snap.Validate(); err != nil {
		return nil, models.DataInvalid(models.StageFetch, err)
	}
	if p.l != nil {
		p.l.Debug("stream snapshot complete",
			applogger.Float64("spot", spot),
			applogger.Int("curve_points", len(snap.Curve)),
		)
	}
	return snap, nil
}

// Close closes the composed REST provider.
func (p *Provider) Close() error { return p.rest.Close() }

func (p *Provider) curveComplete(curve map[int]float64) bool {
	for _, want := range p.required {
		found := false
		for got := range curve {
			d := got - want
			if d < 0 {
				d = -d
			}
			if d <= p.tol {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
