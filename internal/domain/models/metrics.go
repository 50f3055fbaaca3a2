package models

// DerivedMetrics are the pure numeric transforms of the current
// snapshot against its trailing window.
type DerivedMetrics struct {
	PercentileRank float64 `json:"percentile_rank"` // [0,100]
	Slope          float64 `json:"slope"`           // far price - near price
	ZScore         float64 `json:"zscore"`          // (spot - mean) / stddev, 0 for flat windows
}

// CurveShape classifies the sign of the term-structure slope.
type CurveShape string

const (
	Contango      CurveShape = "contango"
	Backwardation CurveShape = "backwardation"
	FlatCurve     CurveShape = "flat"
)

// VolLevel classifies where the current spot sits in its history.
type VolLevel string

const (
	LevelLow      VolLevel = "low"
	LevelElevated VolLevel = "elevated"
	LevelExtreme  VolLevel = "extreme"
)

// Regime is the discrete market state: curve shape and volatility
// level are orthogonal labels.
type Regime struct {
	Curve CurveShape `json:"curve"`
	Level VolLevel   `json:"level"`
}

// RiskScore is the composite 0-100 assessment with its components.
type RiskScore struct {
	Total           float64 `json:"total"`
	SpotScore       float64 `json:"spot_score"`
	ZScoreScore     float64 `json:"zscore_score"`
	SlopeScore      float64 `json:"slope_score"`
	PercentileScore float64 `json:"percentile_score"`
	Level           string  `json:"level"` // "LOW" | "MEDIUM" | "HIGH"
	Warning         bool    `json:"warning"`
	Crash           bool    `json:"crash"`
	AlertRequired   bool    `json:"alert_required"`
}
