package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

type Config struct {
	Environment string `yaml:"environment" default:"production" validate:"required"`

	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"` // json or console
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`

	Provider struct {
		Type      string        `yaml:"type" default:"http" validate:"oneof=http websocket clickhouse"`
		Endpoint  string        `yaml:"endpoint"`
		APIKey    string        `yaml:"api_key"`
		Symbol    string        `yaml:"symbol" default:"^VIX"`
		Timeout   time.Duration `yaml:"timeout" default:"10s"`
		Staleness time.Duration `yaml:"staleness" default:"30m"` // reject current quotes older than this
		RateLimit float64       `yaml:"rate_limit" default:"5"`  // requests per second
		WebSocket struct {
			URL          string        `yaml:"url"`
			PingInterval time.Duration `yaml:"ping_interval" default:"30s"`
		} `yaml:"websocket"`
		Retry struct {
			MaxAttempts int           `yaml:"max_attempts" default:"3" validate:"gte=1"`
			BackoffMin  time.Duration `yaml:"backoff_min" default:"250ms"`
			BackoffMax  time.Duration `yaml:"backoff_max" default:"5s"`
		} `yaml:"retry"`
	} `yaml:"provider"`

	Window struct {
		Days         int           `yaml:"days" default:"252" validate:"gt=0"`
		GapTolerance time.Duration `yaml:"gap_tolerance" default:"120h"` // long weekends and holiday runs
	} `yaml:"window"`

	Curve struct {
		RequiredMaturities []int `yaml:"required_maturities" default:"[1,3]" validate:"min=2"`
		MaturityTolerance  int   `yaml:"maturity_tolerance" default:"0" validate:"gte=0"` // months
	} `yaml:"curve"`

	Thresholds struct {
		SlopeEpsilon   float64 `yaml:"slope_epsilon" default:"0.25" validate:"gte=0"`
		PercentileLow  float64 `yaml:"percentile_low" default:"25" validate:"gte=0,lte=100"`
		PercentileHigh float64 `yaml:"percentile_high" default:"90" validate:"gte=0,lte=100"`
		WarnSpot       float64 `yaml:"warn_spot" default:"25"`
		WarnZScore     float64 `yaml:"warn_zscore" default:"2"`
		AlertScore     float64 `yaml:"alert_score" default:"60"`
	} `yaml:"thresholds"`

	Output struct {
		Dir string `yaml:"dir" default:"docs" validate:"required"`
	} `yaml:"output"`

	Report struct {
		Title string `yaml:"title" default:"Automated VIX Risk Analysis"`
	} `yaml:"report"`

	Run struct {
		Timeout time.Duration `yaml:"timeout" default:"2m"`
	} `yaml:"run"`

	Cache struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr" default:"localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl" default:"20h"`
	} `yaml:"cache"`

	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"vixpull.alerts"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		MaxAttempts  int      `yaml:"max_attempts" default:"3"`
	} `yaml:"kafka"`

	ClickHouse struct {
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"vixpull"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		Table       string        `yaml:"table" default:"vixpull.vix_daily"`
		CurveTable  string        `yaml:"curve_table" default:"vixpull.vix_curve"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`

	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
}

// Load reads and parses a YAML configuration file, applying defaults
// before validation.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PROVIDER_API_KEY"); v != "" {
		c.Provider.APIKey = v
	}
	if v := os.Getenv("PROVIDER_TYPE"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("PROVIDER_ENDPOINT"); v != "" {
		c.Provider.Endpoint = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv("WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Window.Days = n
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
		c.Cache.Enabled = true
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	switch c.Provider.Type {
	case "http":
		if c.Provider.Endpoint == "" {
			return fmt.Errorf("provider.endpoint is required for http provider")
		}
	case "websocket":
		if c.Provider.Endpoint == "" {
			return fmt.Errorf("provider.endpoint is required for websocket provider")
		}
		if c.Provider.WebSocket.URL == "" {
			return fmt.Errorf("provider.websocket.url is required for websocket provider")
		}
	case "clickhouse":
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required for clickhouse provider")
		}
	}
	if c.Thresholds.PercentileLow >= c.Thresholds.PercentileHigh {
		return fmt.Errorf("thresholds.percentile_low must be below percentile_high")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	prev := 0
	for _, m := range c.Curve.RequiredMaturities {
		if m <= prev {
			return fmt.Errorf("curve.required_maturities must be strictly increasing")
		}
		prev = m
	}
	return nil
}
