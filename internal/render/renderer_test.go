package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"VixPull/internal/domain/models"
)

func testInputs() (*models.MarketSnapshot, models.HistoricalSeries, models.DerivedMetrics, models.Regime, models.RiskScore) {
	current := &models.MarketSnapshot{
		Timestamp: time.Date(2025, 8, 1, 21, 0, 0, 0, time.UTC),
		Spot:      18.42,
		Curve: []models.CurvePoint{
			{Maturity: 1, Price: 19.1},
			{Maturity: 3, Price: 20.6},
		},
	}
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	var history models.HistoricalSeries
	for i, s := range []float64{15.2, 16.8, 14.9, 17.3, 18.42} {
		history = append(history, models.MarketSnapshot{Timestamp: base.AddDate(0, 0, i), Spot: s})
	}
	metrics := models.DerivedMetrics{PercentileRank: 90, Slope: 1.5, ZScore: 1.2}
	regime := models.Regime{Curve: models.Contango, Level: models.LevelElevated}
	risk := models.RiskScore{Total: 45.5, SpotScore: 46.05, ZScoreScore: 40, SlopeScore: 30, PercentileScore: 90, Level: "MEDIUM"}
	return current, history, metrics, regime, risk
}

func mustRender(t *testing.T) *models.ReportArtifact {
	t.Helper()
	r, err := New("Test Dashboard")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	current, history, metrics, regime, risk := testInputs()
	artifact, err := r.Render(current, history, metrics, regime, risk, 252)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return artifact
}

func TestRenderIdempotent(t *testing.T) {
	a := mustRender(t)
	b := mustRender(t)

	if !bytes.Equal(a.Report, b.Report) {
		t.Fatalf("report bytes differ between identical renders")
	}
	if !bytes.Equal(a.Summary, b.Summary) {
		t.Fatalf("summary bytes differ between identical renders")
	}
	for name := range a.Assets {
		if !bytes.Equal(a.Assets[name], b.Assets[name]) {
			t.Fatalf("asset %s differs between identical renders", name)
		}
	}
}

func TestRenderGeneratedAtIsSnapshotTime(t *testing.T) {
	a := mustRender(t)
	want := time.Date(2025, 8, 1, 21, 0, 0, 0, time.UTC)
	if !a.GeneratedAt.Equal(want) {
		t.Fatalf("expected snapshot timestamp %v, got %v", want, a.GeneratedAt)
	}
}

func TestRenderSummaryParses(t *testing.T) {
	a := mustRender(t)

	var summary models.ReportSummary
	if err := json.Unmarshal(a.Summary, &summary); err != nil {
		t.Fatalf("summary is not valid json: %v", err)
	}
	if summary.AnalysisDate != "2025-08-01" {
		t.Fatalf("unexpected analysis date %q", summary.AnalysisDate)
	}
	if summary.Regime.Curve != models.Contango {
		t.Fatalf("unexpected regime %+v", summary.Regime)
	}
	if summary.Spot != 18.42 {
		t.Fatalf("unexpected spot %v", summary.Spot)
	}
}

func TestRenderReportContents(t *testing.T) {
	a := mustRender(t)
	html := string(a.Report)

	for _, want := range []string{"Test Dashboard", "2025-08-01", "18.42", "contango", "elevated", "summary.json"} {
		if !strings.Contains(html, want) {
			t.Fatalf("report missing %q", want)
		}
	}

	if _, ok := a.Assets["series.json"]; !ok {
		t.Fatalf("missing series.json asset")
	}
	if _, ok := a.Assets["style.css"]; !ok {
		t.Fatalf("missing style.css asset")
	}

	var series struct {
		Dates []string  `json:"dates"`
		Spots []float64 `json:"spots"`
	}
	if err := json.Unmarshal(a.Assets["series.json"], &series); err != nil {
		t.Fatalf("series.json invalid: %v", err)
	}
	if len(series.Dates) != 5 || len(series.Spots) != 5 {
		t.Fatalf("unexpected series lengths %d/%d", len(series.Dates), len(series.Spots))
	}
}
