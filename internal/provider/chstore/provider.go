package chstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"VixPull/internal/domain/models"
	pkgch "VixPull/pkg/clickhouse"
	"VixPull/pkg/config"
	applogger "VixPull/pkg/logger"
)

// Provider reads VIX history and the latest curve from an existing
// ClickHouse candle archive. Read-only: the pipeline never writes here.
type Provider struct {
	client    *pkgch.Client
	db        *sql.DB
	l         *applogger.Logger
	table     string
	curve     string
	staleness time.Duration
}

// New creates a ClickHouse-backed provider.
func New(client *pkgch.Client, cfg *config.Config, l *applogger.Logger) *Provider {
	return &Provider{
		client:    client,
		db:        client.DB(),
		l:         l,
		table:     cfg.ClickHouse.Table,
		curve:     cfg.ClickHouse.CurveTable,
		staleness: cfg.Provider.Staleness,
	}
}

// FetchHistory returns the most recent `days` daily closes, oldest first.
func (p *Provider) FetchHistory(ctx context.Context, days int) (models.HistoricalSeries, error) {
	if days <= 0 {
		return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("window days must be positive, got %d", days))
	}

	q := fmt.Sprintf(`
        SELECT day, close FROM
            (SELECT day, close FROM %s ORDER BY day DESC LIMIT ?)
        ORDER BY day ASC
    `, p.table)
	rows, err := p.db.QueryContext(ctx, q, days)
	if err != nil {
		p.logQueryError("history", err)
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("query history: %w", err))
	}
	defer rows.Close()

	series := make(models.HistoricalSeries, 0, days)
	for rows.Next() {
		var (
			day   time.Time
			close float64
		)
		if err := rows.Scan(&day, &close); err != nil {
			return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("scan history row: %w", err))
		}
		series = append(series, models.MarketSnapshot{Timestamp: day, Spot: close})
	}
	if err := rows.Err(); err != nil {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("history rows: %w", err))
	}
	return series, nil
}

// FetchCurrent reads the latest archived spot and its curve points.
func (p *Provider) FetchCurrent(ctx context.Context) (*models.MarketSnapshot, error) {
	var (
		ts   time.Time
		spot float64
	)
	q := fmt.Sprintf(`SELECT day, close FROM %s ORDER BY day DESC LIMIT 1`, p.table)
	if err := p.db.QueryRowContext(ctx, q).Scan(&ts, &spot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("archive table %s is empty", p.table))
		}
		p.logQueryError("current", err)
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("query current: %w", err))
	}

	if p.staleness > 0 && time.Since(ts) > p.staleness {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("archived quote from %s exceeds staleness bound %s", ts.Format(time.RFC3339), p.staleness))
	}

	snap := &models.MarketSnapshot{Timestamp: ts, Spot: spot}

	cq := fmt.Sprintf(`SELECT months, price FROM %s WHERE day = ? ORDER BY months ASC`, p.curve)
	rows, err := p.db.QueryContext(ctx, cq, ts)
	if err != nil {
		p.logQueryError("curve", err)
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("query curve: %w", err))
	}
	defer rows.Close()

	for rows.Next() {
		var cp models.CurvePoint
		if err := rows.Scan(&cp.Maturity, &cp.Price); err != nil {
			return nil, models.DataInvalid(models.StageFetch, fmt.Errorf("scan curve row: %w", err))
		}
		snap.Curve = append(snap.Curve, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, models.DataUnavailable(models.StageFetch, fmt.Errorf("curve rows: %w", err))
	}

	if err := snap.Validate(); err != nil {
		return nil, models.DataInvalid(models.StageFetch, err)
	}
	return snap, nil
}

// Close closes the ClickHouse pool.
func (p *Provider) Close() error { return p.client.Close() }

func (p *Provider) logQueryError(kind string, err error) {
	if p.l != nil {
		p.l.Error("clickhouse query error",
			applogger.String("query", kind),
			applogger.String("table", p.table),
			applogger.Error(err),
		)
	}
}
