package analytics

import (
	"testing"

	"VixPull/internal/domain/models"
)

func TestScoreCalmMarket(t *testing.T) {
	snap := snapshot(13,
		models.CurvePoint{Maturity: 1, Price: 14},
		models.CurvePoint{Maturity: 3, Price: 16},
	)
	m := models.DerivedMetrics{PercentileRank: 20, Slope: 2, ZScore: -0.5}
	regime := Classify(m, testThresholds)

	r := Score(snap, m, regime, testThresholds)
	if r.Level != "LOW" && r.Level != "MEDIUM" {
		t.Fatalf("unexpected level %s for calm market (total %v)", r.Level, r.Total)
	}
	if r.Warning || r.Crash || r.AlertRequired {
		t.Fatalf("expected no signals, got %+v", r)
	}
}

func TestScoreStressedMarket(t *testing.T) {
	snap := snapshot(45,
		models.CurvePoint{Maturity: 1, Price: 40},
		models.CurvePoint{Maturity: 3, Price: 33},
	)
	m := models.DerivedMetrics{PercentileRank: 99, Slope: -7, ZScore: 3.5}
	regime := Classify(m, testThresholds)

	r := Score(snap, m, regime, testThresholds)
	if !r.Warning || !r.Crash {
		t.Fatalf("expected warning and crash signals, got %+v", r)
	}
	if !r.AlertRequired {
		t.Fatalf("expected alert, got %+v", r)
	}
	if r.Level != "HIGH" {
		t.Fatalf("expected HIGH level, got %s (total %v)", r.Level, r.Total)
	}
}

func TestScoreComponentsClamped(t *testing.T) {
	snap := snapshot(500,
		models.CurvePoint{Maturity: 1, Price: 400},
		models.CurvePoint{Maturity: 3, Price: 100},
	)
	m := models.DerivedMetrics{PercentileRank: 100, Slope: -300, ZScore: 50}
	r := Score(snap, m, Classify(m, testThresholds), testThresholds)

	for name, v := range map[string]float64{
		"spot":       r.SpotScore,
		"zscore":     r.ZScoreScore,
		"slope":      r.SlopeScore,
		"percentile": r.PercentileScore,
		"total":      r.Total,
	} {
		if v < 0 || v > 100 {
			t.Fatalf("%s score %v out of [0,100]", name, v)
		}
	}
}
