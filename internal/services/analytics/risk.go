package analytics

import "VixPull/internal/domain/models"

// Component scales: a spot of 40, |z| of 3, or |slope| of 5 saturates
// its component at 100.
const (
	spotScale  = 40.0
	zScale     = 3.0
	slopeScale = 5.0
)

// Score folds the metrics into a composite 0-100 risk assessment with
// warning/crash signals counted from individual threshold breaches.
func Score(current *models.MarketSnapshot, m models.DerivedMetrics, regime models.Regime, t Thresholds) models.RiskScore {
	var r models.RiskScore

	r.SpotScore = clamp100(current.Spot / spotScale * 100)
	r.ZScoreScore = clamp100(abs(m.ZScore) / zScale * 100)
	r.SlopeScore = clamp100(abs(m.Slope) / slopeScale * 100)
	r.PercentileScore = m.PercentileRank
	r.Total = (r.SpotScore + r.ZScoreScore + r.SlopeScore + r.PercentileScore) / 4

	switch {
	case r.Total > 70:
		r.Level = "HIGH"
	case r.Total > 40:
		r.Level = "MEDIUM"
	default:
		r.Level = "LOW"
	}

	breaches := 0
	if current.Spot > t.WarnSpot {
		breaches++
	}
	if m.PercentileRank > t.PercentileHigh {
		breaches++
	}
	if regime.Curve == models.Backwardation {
		breaches++
	}
	if abs(m.ZScore) > t.WarnZScore {
		breaches++
	}
	r.Warning = breaches >= 2
	r.Crash = breaches >= 3
	r.AlertRequired = r.Total > t.AlertScore || r.Crash

	return r
}

func clamp100(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
