package analytics

import "VixPull/internal/domain/models"

// Thresholds are the operator-tunable classification bounds.
type Thresholds struct {
	SlopeEpsilon   float64 // |slope| below this is a flat curve
	PercentileLow  float64 // volatility level is Low below this rank
	PercentileHigh float64 // and Extreme above this rank
	WarnSpot       float64 // spot level counting toward the warning signal
	WarnZScore     float64 // |z| counting toward the warning signal
	AlertScore     float64 // composite score above which an alert fires
}

// Classify maps derived metrics to a regime. Total: every metric
// combination yields exactly one label pair.
func Classify(m models.DerivedMetrics, t Thresholds) models.Regime {
	var r models.Regime

	switch {
	case m.Slope > t.SlopeEpsilon:
		r.Curve = models.Contango
	case m.Slope < -t.SlopeEpsilon:
		r.Curve = models.Backwardation
	default:
		r.Curve = models.FlatCurve
	}

	switch {
	case m.PercentileRank < t.PercentileLow:
		r.Level = models.LevelLow
	case m.PercentileRank > t.PercentileHigh:
		r.Level = models.LevelExtreme
	default:
		r.Level = models.LevelElevated
	}

	return r
}
