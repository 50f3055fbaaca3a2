package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"VixPull/internal/domain/models"
	"VixPull/internal/domain/repository"
	"VixPull/internal/publish"
	"VixPull/internal/render"
	"VixPull/internal/services/analytics"
	"VixPull/pkg/config"
	applogger "VixPull/pkg/logger"
	"VixPull/pkg/util"
)

// Pipeline is the single-run orchestrator: fetch, compute, classify,
// render, publish. Stages run sequentially; the first error aborts the
// run before anything is written. The caller serializes invocations.
type Pipeline struct {
	cfg      *config.Config
	provider repository.MarketDataProvider
	notifier repository.AlertPublisher // optional
	renderer *render.Renderer
	writer   *publish.Writer
	metrics  repository.Metrics
	l        *applogger.Logger

	mu    sync.Mutex
	state models.RunState
}

// NewPipeline assembles a pipeline. notifier may be nil.
func NewPipeline(
	cfg *config.Config,
	provider repository.MarketDataProvider,
	notifier repository.AlertPublisher,
	renderer *render.Renderer,
	writer *publish.Writer,
	metrics repository.Metrics,
	l *applogger.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		provider: provider,
		notifier: notifier,
		renderer: renderer,
		writer:   writer,
		metrics:  metrics,
		l:        l,
		state:    models.StateIdle,
	}
}

// State returns the current run state.
func (p *Pipeline) State() models.RunState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// RunOnce executes one full pipeline run bounded by the configured
// overall timeout.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	if p.cfg.Run.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Run.Timeout)
		defer cancel()
	}

	p.setState(models.StateIdle)

	p.setState(models.StateFetching)
	current, history, err := p.fetch(ctx)
	if err != nil {
		return p.fail(err)
	}

	p.setState(models.StateComputing)
	metrics, err := p.compute(current, history)
	if err != nil {
		return p.fail(err)
	}

	p.setState(models.StateClassifying)
	regime, risk := p.classify(current, metrics)

	p.setState(models.StateRendering)
	artifact, err := p.render(current, history, metrics, regime, risk)
	if err != nil {
		return p.fail(err)
	}

	p.setState(models.StatePublishing)
	if err := p.publishArtifact(ctx, artifact, risk); err != nil {
		return p.fail(err)
	}

	p.setState(models.StateDone)
	p.metrics.RecordRun("success")
	p.l.Info("run complete",
		applogger.String("date", util.FormatDate(current.Timestamp)),
		applogger.Float64("spot", current.Spot),
		applogger.String("curve", string(regime.Curve)),
		applogger.String("level", string(regime.Level)),
		applogger.Float64("risk", risk.Total),
	)
	return nil
}

// Close releases provider and notifier resources.
func (p *Pipeline) Close() error {
	var first error
	if err := p.provider.Close(); err != nil {
		first = err
	}
	if p.notifier != nil {
		if err := p.notifier.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (p *Pipeline) fetch(ctx context.Context) (*models.MarketSnapshot, models.HistoricalSeries, error) {
	start := time.Now()
	defer p.observe(models.StageFetch, start)

	history, err := p.provider.FetchHistory(ctx, p.cfg.Window.Days)
	if err != nil {
		return nil, nil, err
	}
	current, err := p.provider.FetchCurrent(ctx)
	if err != nil {
		return nil, nil, err
	}

	if err := history.Validate(p.cfg.Window.GapTolerance); err != nil {
		return nil, nil, models.DataInvalid(models.StageFetch, fmt.Errorf("history: %w", err))
	}
	for _, m := range p.cfg.Curve.RequiredMaturities {
		if _, ok := current.PriceAt(m, p.cfg.Curve.MaturityTolerance); !ok {
			return nil, nil, models.DataInvalid(models.StageFetch, fmt.Errorf("curve missing required %dM maturity", m))
		}
	}

	p.metrics.RecordLastSpot(current.Spot)
	p.l.Info("snapshot fetched",
		applogger.Int("window", len(history)),
		applogger.Float64("spot", current.Spot),
		applogger.Int("curve_points", len(current.Curve)),
	)
	return current, history, nil
}

func (p *Pipeline) compute(current *models.MarketSnapshot, history models.HistoricalSeries) (models.DerivedMetrics, error) {
	start := time.Now()
	defer p.observe(models.StageCompute, start)

	return analytics.Compute(current, history, analytics.CurveSpec{
		Required:  p.cfg.Curve.RequiredMaturities,
		Tolerance: p.cfg.Curve.MaturityTolerance,
	})
}

func (p *Pipeline) classify(current *models.MarketSnapshot, metrics models.DerivedMetrics) (models.Regime, models.RiskScore) {
	start := time.Now()
	defer p.observe(models.StageClassify, start)

	t := p.thresholds()
	regime := analytics.Classify(metrics, t)
	risk := analytics.Score(current, metrics, regime, t)
	return regime, risk
}

func (p *Pipeline) render(
	current *models.MarketSnapshot,
	history models.HistoricalSeries,
	metrics models.DerivedMetrics,
	regime models.Regime,
	risk models.RiskScore,
) (*models.ReportArtifact, error) {
	start := time.Now()
	defer p.observe(models.StageRender, start)

	return p.renderer.Render(current, history, metrics, regime, risk, p.cfg.Window.Days)
}

func (p *Pipeline) publishArtifact(ctx context.Context, artifact *models.ReportArtifact, risk models.RiskScore) error {
	start := time.Now()
	defer p.observe(models.StagePublish, start)

	if err := p.writer.Publish(artifact); err != nil {
		return err
	}

	// Alert delivery is best-effort: the artifact is already live.
	if risk.AlertRequired && p.notifier != nil {
		key := []byte(util.FormatDate(artifact.GeneratedAt))
		if err := p.notifier.Publish(ctx, key, artifact.Summary); err != nil {
			p.l.Warn("alert publish failed", applogger.Error(err))
		} else {
			p.l.Info("alert published", applogger.String("date", string(key)))
		}
	}
	return nil
}

func (p *Pipeline) thresholds() analytics.Thresholds {
	return analytics.Thresholds{
		SlopeEpsilon:   p.cfg.Thresholds.SlopeEpsilon,
		PercentileLow:  p.cfg.Thresholds.PercentileLow,
		PercentileHigh: p.cfg.Thresholds.PercentileHigh,
		WarnSpot:       p.cfg.Thresholds.WarnSpot,
		WarnZScore:     p.cfg.Thresholds.WarnZScore,
		AlertScore:     p.cfg.Thresholds.AlertScore,
	}
}

func (p *Pipeline) setState(next models.RunState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if next == models.StateIdle || p.state.CanTransition(next) {
		p.state = next
	}
}

func (p *Pipeline) fail(err error) error {
	p.setState(models.StateFailed)
	stage := models.StageOf(err)
	p.metrics.RecordRun("failed")
	p.metrics.RecordError(string(stage))
	p.l.Error("run failed",
		applogger.String("stage", string(stage)),
		applogger.String("kind", string(models.KindOf(err))),
		applogger.Error(err),
	)
	return err
}

func (p *Pipeline) observe(stage models.Stage, start time.Time) {
	p.metrics.RecordStageLatency(string(stage), time.Since(start).Seconds())
}
