package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"VixPull/internal/domain/models"
	"VixPull/internal/publish"
	"VixPull/internal/render"
	"VixPull/pkg/config"
	applogger "VixPull/pkg/logger"
)

type fakeProvider struct {
	history    models.HistoricalSeries
	current    *models.MarketSnapshot
	historyErr error
	currentErr error
}

func (f *fakeProvider) FetchHistory(context.Context, int) (models.HistoricalSeries, error) {
	return f.history, f.historyErr
}

func (f *fakeProvider) FetchCurrent(context.Context) (*models.MarketSnapshot, error) {
	return f.current, f.currentErr
}

func (f *fakeProvider) Close() error { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordRun(string)                   {}
func (nopMetrics) RecordError(string)                 {}
func (nopMetrics) RecordLastSpot(float64)             {}
func (nopMetrics) RecordStageLatency(string, float64) {}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Window.Days = 252
	cfg.Curve.RequiredMaturities = []int{1, 3}
	cfg.Thresholds.SlopeEpsilon = 0.25
	cfg.Thresholds.PercentileLow = 25
	cfg.Thresholds.PercentileHigh = 90
	cfg.Thresholds.WarnSpot = 25
	cfg.Thresholds.WarnZScore = 2
	cfg.Thresholds.AlertScore = 60
	cfg.Output.Dir = filepath.Join(t.TempDir(), "docs")
	cfg.Run.Timeout = 30 * time.Second
	return cfg
}

func testPipeline(t *testing.T, cfg *config.Config, p *fakeProvider) *Pipeline {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	renderer, err := render.New("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	writer := publish.NewWriter(cfg.Output.Dir, nil)
	return NewPipeline(cfg, p, nil, renderer, writer, nopMetrics{}, l)
}

func goodProvider() *fakeProvider {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	var history models.HistoricalSeries
	for i, s := range []float64{14, 15, 16, 15.5, 17} {
		history = append(history, models.MarketSnapshot{Timestamp: base.AddDate(0, 0, i), Spot: s})
	}
	return &fakeProvider{
		history: history,
		current: &models.MarketSnapshot{
			Timestamp: base.AddDate(0, 0, 6),
			Spot:      15,
			Curve: []models.CurvePoint{
				{Maturity: 1, Price: 16},
				{Maturity: 3, Price: 18},
			},
		},
	}
}

func TestRunOncePublishes(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(t, cfg, goodProvider())

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.State() != models.StateDone {
		t.Fatalf("expected done, got %s", p.State())
	}
	for _, rel := range []string{"index.html", "summary.json", "assets/series.json"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, rel)); err != nil {
			t.Fatalf("missing %s: %v", rel, err)
		}
	}
}

func TestRunOnceProviderUnavailable(t *testing.T) {
	cfg := testConfig(t)
	fake := &fakeProvider{
		historyErr: models.DataUnavailable(models.StageFetch, errors.New("connection refused")),
	}
	p := testPipeline(t, cfg, fake)

	err := p.RunOnce(context.Background())
	if models.KindOf(err) != models.KindDataUnavailable {
		t.Fatalf("expected data_unavailable, got %v", err)
	}
	if p.State() != models.StateFailed {
		t.Fatalf("expected failed, got %s", p.State())
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Output.Dir, "index.html")); !os.IsNotExist(statErr) {
		t.Fatalf("artifact written by failed run")
	}
}

func TestRunOnceMissingRequiredMaturity(t *testing.T) {
	cfg := testConfig(t)
	fake := goodProvider()
	fake.current.Curve = fake.current.Curve[:1] // drop the 3M point

	p := testPipeline(t, cfg, fake)
	err := p.RunOnce(context.Background())
	if models.KindOf(err) != models.KindDataInvalid {
		t.Fatalf("expected data_invalid, got %v", err)
	}
	if models.StageOf(err) != models.StageFetch {
		t.Fatalf("expected fetch stage, got %v", models.StageOf(err))
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Output.Dir, "index.html")); !os.IsNotExist(statErr) {
		t.Fatalf("artifact written by failed run")
	}
}

func TestRunOnceHistoryGapRejected(t *testing.T) {
	cfg := testConfig(t)
	cfg.Window.GapTolerance = 24 * time.Hour
	fake := goodProvider()
	fake.history[2].Timestamp = fake.history[1].Timestamp.AddDate(0, 0, 30)

	p := testPipeline(t, cfg, fake)
	err := p.RunOnce(context.Background())
	if models.KindOf(err) != models.KindDataInvalid {
		t.Fatalf("expected data_invalid, got %v", err)
	}
}

func TestRunOnceFailedRunKeepsPriorArtifact(t *testing.T) {
	cfg := testConfig(t)
	fake := goodProvider()
	p := testPipeline(t, cfg, fake)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	fake.currentErr = models.DataUnavailable(models.StageFetch, errors.New("timeout"))
	p2 := testPipeline(t, cfg, fake)
	if err := p2.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}

	after, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))
	if err != nil {
		t.Fatalf("read artifact after failure: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("failed run modified the published artifact")
	}
}

// Two runs over identical inputs publish byte-identical artifacts.
func TestRunOnceDeterministic(t *testing.T) {
	cfg := testConfig(t)
	p := testPipeline(t, cfg, goodProvider())
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, _ := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))

	p2 := testPipeline(t, cfg, goodProvider())
	if err := p2.RunOnce(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second, _ := os.ReadFile(filepath.Join(cfg.Output.Dir, "index.html"))

	if string(first) != string(second) {
		t.Fatalf("identical inputs produced different artifacts")
	}
}
