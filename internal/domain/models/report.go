package models

import "time"

// ReportArtifact is the fully rendered dashboard bundle held in memory
// before any write. GeneratedAt equals the snapshot timestamp the run
// was derived from, never the wall clock, so identical inputs render
// byte-identical artifacts.
type ReportArtifact struct {
	GeneratedAt time.Time
	Report      []byte            // index.html
	Summary     []byte            // summary.json
	Assets      map[string][]byte // assets/<name>
}

// ReportSummary is the machine-readable companion written next to the
// report so downstream consumers never re-derive metrics.
type ReportSummary struct {
	AnalysisDate string         `json:"analysis_date"`
	Spot         float64        `json:"spot"`
	Curve        []CurvePoint   `json:"curve,omitempty"`
	Metrics      DerivedMetrics `json:"metrics"`
	Regime       Regime         `json:"regime"`
	Risk         RiskScore      `json:"risk"`
	WindowDays   int            `json:"window_days"`
}
