package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal    *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastSpot     prometheus.Gauge
	stageLatency *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vixpull_runs_total",
				Help: "Total number of pipeline runs by terminal status",
			},
			[]string{"status"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vixpull_errors_total",
				Help: "Total number of stage errors",
			},
			[]string{"stage"},
		),
		lastSpot: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "vixpull_last_spot",
				Help: "Last observed volatility index spot level",
			},
		),
		stageLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vixpull_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordRun records a completed run with its terminal status.
func (r *Recorder) RecordRun(status string) {
	r.runsTotal.WithLabelValues(status).Inc()
}

// RecordError records a stage error occurrence.
func (r *Recorder) RecordError(stage string) {
	r.errorsTotal.WithLabelValues(stage).Inc()
}

// RecordLastSpot records the last observed spot level.
func (r *Recorder) RecordLastSpot(value float64) {
	r.lastSpot.Set(value)
}

// RecordStageLatency records stage latency in seconds.
func (r *Recorder) RecordStageLatency(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}
