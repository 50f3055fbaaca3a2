package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
provider:
  endpoint: https://data.example.com
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Provider.Type != "http" {
		t.Errorf("provider.type = %q", cfg.Provider.Type)
	}
	if cfg.Provider.Symbol != "^VIX" {
		t.Errorf("provider.symbol = %q", cfg.Provider.Symbol)
	}
	if cfg.Window.Days != 252 {
		t.Errorf("window.days = %d", cfg.Window.Days)
	}
	if len(cfg.Curve.RequiredMaturities) != 2 || cfg.Curve.RequiredMaturities[0] != 1 || cfg.Curve.RequiredMaturities[1] != 3 {
		t.Errorf("curve.required_maturities = %v", cfg.Curve.RequiredMaturities)
	}
	if cfg.Thresholds.SlopeEpsilon != 0.25 {
		t.Errorf("thresholds.slope_epsilon = %v", cfg.Thresholds.SlopeEpsilon)
	}
	if cfg.Output.Dir != "docs" {
		t.Errorf("output.dir = %q", cfg.Output.Dir)
	}
	if cfg.Provider.Retry.MaxAttempts != 3 {
		t.Errorf("retry.max_attempts = %d", cfg.Provider.Retry.MaxAttempts)
	}
	if cfg.Run.Timeout != 2*time.Minute {
		t.Errorf("run.timeout = %v", cfg.Run.Timeout)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
provider:
  endpoint: https://data.example.com
  symbol: VIX
window:
  days: 90
thresholds:
  percentile_low: 10
  percentile_high: 95
output:
  dir: public
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Window.Days != 90 {
		t.Errorf("window.days = %d", cfg.Window.Days)
	}
	if cfg.Thresholds.PercentileLow != 10 || cfg.Thresholds.PercentileHigh != 95 {
		t.Errorf("percentiles = %v/%v", cfg.Thresholds.PercentileLow, cfg.Thresholds.PercentileHigh)
	}
	if cfg.Output.Dir != "public" {
		t.Errorf("output.dir = %q", cfg.Output.Dir)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider type", `
provider:
  type: carrier-pigeon
  endpoint: https://data.example.com
`},
		{"http without endpoint", `
provider:
  type: http
`},
		{"websocket without url", `
provider:
  type: websocket
  endpoint: https://data.example.com
`},
		{"inverted percentiles", `
provider:
  endpoint: https://data.example.com
thresholds:
  percentile_low: 95
  percentile_high: 50
`},
		{"unordered maturities", `
provider:
  endpoint: https://data.example.com
curve:
  required_maturities: [3, 1]
`},
		{"negative window", `
provider:
  endpoint: https://data.example.com
window:
  days: -5
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PROVIDER_API_KEY", "secret-token")
	t.Setenv("OUTPUT_DIR", "/srv/dashboard")
	t.Setenv("WINDOW_DAYS", "120")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := LoadWithEnv(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Provider.APIKey != "secret-token" {
		t.Errorf("api key not overridden")
	}
	if cfg.Output.Dir != "/srv/dashboard" {
		t.Errorf("output.dir = %q", cfg.Output.Dir)
	}
	if cfg.Window.Days != 120 {
		t.Errorf("window.days = %d", cfg.Window.Days)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("kafka brokers = %v enabled=%v", cfg.Kafka.Brokers, cfg.Kafka.Enabled)
	}
}
