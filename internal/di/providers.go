package di

import (
	"fmt"

	"VixPull/internal/domain/repository"
	"VixPull/internal/notify"
	"VixPull/internal/provider/cached"
	"VixPull/internal/provider/chstore"
	"VixPull/internal/provider/httpapi"
	"VixPull/internal/provider/stream"
	"VixPull/internal/publish"
	"VixPull/internal/render"
	"VixPull/internal/usecase"
	"VixPull/pkg/cache"
	pkgch "VixPull/pkg/clickhouse"
	"VixPull/pkg/config"
	pkgkafka "VixPull/pkg/kafka"
	applogger "VixPull/pkg/logger"
	"VixPull/pkg/metrics"
)

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideProvider selects the market-data provider from config and
// wraps it with the history cache when enabled.
func ProvideProvider(cfg *config.Config, l *applogger.Logger) (repository.MarketDataProvider, error) {
	var p repository.MarketDataProvider

	switch cfg.Provider.Type {
	case "http":
		p = httpapi.New(cfg, l)
	case "websocket":
		p = stream.New(cfg, httpapi.New(cfg, l), l)
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		p = chstore.New(client, cfg, l)
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}

	if cfg.Cache.Enabled {
		c, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Addr),
			cache.WithRedisAuth(cfg.Cache.Password, cfg.Cache.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		p = cached.New(p, c, cfg.Cache.TTL, l)
	}

	return p, nil
}

// ProvideNotifier creates the Kafka alert publisher, or nil when
// notifications are disabled.
func ProvideNotifier(cfg *config.Config) (repository.AlertPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return notify.NewKafkaNotifier(producer, cfg.Kafka.Topic), nil
}

// ProvideRenderer creates the dashboard renderer.
func ProvideRenderer(cfg *config.Config) (*render.Renderer, error) {
	return render.New(cfg.Report.Title)
}

// ProvideWriter creates the atomic artifact writer.
func ProvideWriter(cfg *config.Config, l *applogger.Logger) *publish.Writer {
	return publish.NewWriter(cfg.Output.Dir, l)
}

// ProvidePipeline assembles the run-once pipeline.
func ProvidePipeline(
	cfg *config.Config,
	provider repository.MarketDataProvider,
	notifier repository.AlertPublisher,
	renderer *render.Renderer,
	writer *publish.Writer,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Pipeline {
	return usecase.NewPipeline(cfg, provider, notifier, renderer, writer, m, l)
}
