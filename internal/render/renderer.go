package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"VixPull/internal/domain/models"
	"VixPull/pkg/util"
)

// Renderer serializes a run into the static dashboard bundle. Output
// is a pure function of its inputs: the only timestamp embedded is the
// snapshot's own, and all numeric formatting is fixed-precision.
type Renderer struct {
	title string
	tmpl  *template.Template
}

// New creates a renderer. An empty title falls back to the default.
func New(title string) (*Renderer, error) {
	if title == "" {
		title = "VIX Risk Dashboard"
	}
	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, models.RenderFailure(fmt.Errorf("parse template: %w", err))
	}
	return &Renderer{title: title, tmpl: tmpl}, nil
}

type templateData struct {
	Title      string
	Date       string
	Spot       string
	Metrics    models.DerivedMetrics
	Percentile string
	Slope      string
	ZScore     string
	Regime     models.Regime
	Risk       models.RiskScore
	RiskTotal  string
	Curve      []curveRow
	Sparkline  template.HTML
	WindowDays int
}

type curveRow struct {
	Maturity string
	Price    string
}

// Render produces the full artifact in memory. Nothing is written here.
func (r *Renderer) Render(
	current *models.MarketSnapshot,
	history models.HistoricalSeries,
	metrics models.DerivedMetrics,
	regime models.Regime,
	risk models.RiskScore,
	windowDays int,
) (*models.ReportArtifact, error) {
	summary := models.ReportSummary{
		AnalysisDate: util.FormatDate(current.Timestamp),
		Spot:         round2(current.Spot),
		Curve:        current.Curve,
		Metrics: models.DerivedMetrics{
			PercentileRank: round2(metrics.PercentileRank),
			Slope:          round2(metrics.Slope),
			ZScore:         round2(metrics.ZScore),
		},
		Regime:     regime,
		Risk:       roundRisk(risk),
		WindowDays: windowDays,
	}

	summaryJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, models.RenderFailure(fmt.Errorf("marshal summary: %w", err))
	}

	seriesJSON, err := marshalSeries(history)
	if err != nil {
		return nil, models.RenderFailure(fmt.Errorf("marshal series: %w", err))
	}

	data := templateData{
		Title:      r.title,
		Date:       summary.AnalysisDate,
		Spot:       fmt.Sprintf("%.2f", current.Spot),
		Metrics:    metrics,
		Percentile: fmt.Sprintf("%.1f", metrics.PercentileRank),
		Slope:      fmt.Sprintf("%+.2f", metrics.Slope),
		ZScore:     fmt.Sprintf("%+.2f", metrics.ZScore),
		Regime:     regime,
		Risk:       risk,
		RiskTotal:  fmt.Sprintf("%.1f", risk.Total),
		Sparkline:  template.HTML(sparklineSVG(history.Spots())),
		WindowDays: windowDays,
	}
	for _, p := range current.Curve {
		data.Curve = append(data.Curve, curveRow{
			Maturity: fmt.Sprintf("%dM", p.Maturity),
			Price:    fmt.Sprintf("%.2f", p.Price),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return nil, models.RenderFailure(fmt.Errorf("execute template: %w", err))
	}

	return &models.ReportArtifact{
		GeneratedAt: current.Timestamp,
		Report:      buf.Bytes(),
		Summary:     summaryJSON,
		Assets: map[string][]byte{
			"series.json": seriesJSON,
			"style.css":   []byte(styleCSS),
		},
	}, nil
}

type chartSeries struct {
	Dates []string  `json:"dates"`
	Spots []float64 `json:"spots"`
}

func marshalSeries(history models.HistoricalSeries) ([]byte, error) {
	s := chartSeries{
		Dates: make([]string, 0, len(history)),
		Spots: make([]float64, 0, len(history)),
	}
	for i := range history {
		s.Dates = append(s.Dates, util.FormatDate(history[i].Timestamp))
		s.Spots = append(s.Spots, round2(history[i].Spot))
	}
	return json.MarshalIndent(&s, "", "  ")
}

// sparklineSVG draws the spot history as a fixed-viewport polyline.
// Coordinates are rounded to two decimals so re-renders are stable.
func sparklineSVG(values []float64) string {
	const w, h, pad = 640.0, 180.0, 8.0

	if len(values) < 2 {
		return `<svg viewBox="0 0 640 180" class="spark"></svg>`
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var pts strings.Builder
	step := (w - 2*pad) / float64(len(values)-1)
	for i, v := range values {
		x := pad + float64(i)*step
		y := h - pad - (v-lo)/span*(h-2*pad)
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.2f,%.2f", x, y)
	}

	return fmt.Sprintf(
		`<svg viewBox="0 0 640 180" class="spark" role="img"><polyline fill="none" stroke-width="2" points="%s"/></svg>`,
		pts.String(),
	)
}

func round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}

func roundRisk(r models.RiskScore) models.RiskScore {
	r.Total = round2(r.Total)
	r.SpotScore = round2(r.SpotScore)
	r.ZScoreScore = round2(r.ZScoreScore)
	r.SlopeScore = round2(r.SlopeScore)
	r.PercentileScore = round2(r.PercentileScore)
	return r
}
