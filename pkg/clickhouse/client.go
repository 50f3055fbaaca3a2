package clickhouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ClickHouse/clickhouse-go/v2"
)

// Client manages a ClickHouse connection pool.
type Client struct {
	db *sql.DB
}

// NewClient creates a ClickHouse client with connection pool.
func NewClient(opts ...ClientOption) (*Client, error) {
	cfg := &ClientConfig{
		Port:            9000,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     10 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Host == "" {
		return nil, fmt.Errorf("host is required")
	}

	db, err := sql.Open("clickhouse", buildDSN(*cfg))
	if err != nil {
		return nil, fmt.Errorf("clickhouse open: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}

	return &Client{db: db}, nil
}

// DB returns *sql.DB for direct use.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Health performs a liveness check.
func (c *Client) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the connection pool.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func buildDSN(cfg ClientConfig) string {
	dsn := fmt.Sprintf("clickhouse://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)

	first := true
	add := func(key string, val any) {
		sep := "&"
		if first {
			sep = "?"
			first = false
		}
		dsn += fmt.Sprintf("%s%s=%v", sep, key, val)
	}

	if cfg.DialTimeout > 0 {
		add("dial_timeout", cfg.DialTimeout)
	}
	if cfg.ReadTimeout > 0 {
		add("read_timeout", cfg.ReadTimeout)
	}
	return dsn
}
