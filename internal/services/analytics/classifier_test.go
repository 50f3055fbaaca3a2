package analytics

import (
	"testing"

	"VixPull/internal/domain/models"
)

var testThresholds = Thresholds{
	SlopeEpsilon:   0.25,
	PercentileLow:  25,
	PercentileHigh: 90,
	WarnSpot:       25,
	WarnZScore:     2,
	AlertScore:     60,
}

func TestClassifyCurveShape(t *testing.T) {
	cases := []struct {
		name  string
		slope float64
		want  models.CurveShape
	}{
		{"contango", 2, models.Contango},
		{"backwardation", -3, models.Backwardation},
		{"flat zero", 0, models.FlatCurve},
		{"flat within epsilon", 0.2, models.FlatCurve},
		{"flat negative within epsilon", -0.2, models.FlatCurve},
		{"just above epsilon", 0.26, models.Contango},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Classify(models.DerivedMetrics{Slope: tc.slope, PercentileRank: 50}, testThresholds)
			if r.Curve != tc.want {
				t.Fatalf("slope %v: expected %s, got %s", tc.slope, tc.want, r.Curve)
			}
		})
	}
}

func TestClassifyVolLevel(t *testing.T) {
	cases := []struct {
		rank float64
		want models.VolLevel
	}{
		{0, models.LevelLow},
		{24.9, models.LevelLow},
		{25, models.LevelElevated},
		{50, models.LevelElevated},
		{90, models.LevelElevated},
		{90.1, models.LevelExtreme},
		{100, models.LevelExtreme},
	}
	for _, tc := range cases {
		r := Classify(models.DerivedMetrics{PercentileRank: tc.rank}, testThresholds)
		if r.Level != tc.want {
			t.Fatalf("rank %v: expected %s, got %s", tc.rank, tc.want, r.Level)
		}
	}
}

// Every metric combination must map to exactly one regime.
func TestClassifyTotality(t *testing.T) {
	slopes := []float64{-100, -1, -0.25, 0, 0.25, 1, 100}
	ranks := []float64{0, 10, 25, 50, 75, 90, 100}
	zs := []float64{-5, 0, 5}

	for _, s := range slopes {
		for _, r := range ranks {
			for _, z := range zs {
				regime := Classify(models.DerivedMetrics{Slope: s, PercentileRank: r, ZScore: z}, testThresholds)
				if regime.Curve == "" || regime.Level == "" {
					t.Fatalf("unmapped input slope=%v rank=%v z=%v -> %+v", s, r, z, regime)
				}
			}
		}
	}
}
