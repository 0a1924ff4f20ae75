package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsMinedTotal = "ripplemine.mine.commits.total"
	metricBinsSampledTotal  = "ripplemine.mine.bins.total"
	metricAnalysisDuration  = "ripplemine.analysis.duration.seconds"
	metricStageDuration     = "ripplemine.analysis.stage.duration.seconds"
	metricActiveAnalyses    = "ripplemine.analysis.active"

	attrStage = "stage"
)

// durationBucketBoundaries covers 10ms to 600s, from sub-second pure-matrix
// stages to multi-minute commit mining over large histories.
var durationBucketBoundaries = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600}

// PipelineMetrics holds the OTel instruments for one analysis pipeline.
type PipelineMetrics struct {
	commitsMinedTotal metric.Int64Counter
	binsSampledTotal  metric.Int64Counter
	analysisDuration  metric.Float64Histogram
	stageDuration     metric.Float64Histogram
	activeAnalyses    metric.Int64UpDownCounter
}

// NewPipelineMetrics creates pipeline metric instruments from the given meter.
func NewPipelineMetrics(mt metric.Meter) (*PipelineMetrics, error) {
	b := newMetricBuilder(mt)

	pm := &PipelineMetrics{
		commitsMinedTotal: b.counter(metricCommitsMinedTotal, "Total commits mined from history", "{commit}"),
		binsSampledTotal:  b.counter(metricBinsSampledTotal, "Total date bins sampled for diffing", "{bin}"),
		analysisDuration:  b.histogram(metricAnalysisDuration, "End-to-end analysis run duration", "s", durationBucketBoundaries...),
		stageDuration:     b.histogram(metricStageDuration, "Per-stage pipeline duration", "s", durationBucketBoundaries...),
		activeAnalyses:    b.upDownCounter(metricActiveAnalyses, "Number of in-flight analysis runs", "{run}"),
	}

	if b.err != nil {
		return nil, b.err
	}

	return pm, nil
}

// RecordMining records how many commits and bins a mining pass produced.
// Safe to call on a nil receiver (no-op).
func (pm *PipelineMetrics) RecordMining(ctx context.Context, commits, bins int64) {
	if pm == nil {
		return
	}

	pm.commitsMinedTotal.Add(ctx, commits)
	pm.binsSampledTotal.Add(ctx, bins)
}

// RecordStage records the wall-clock duration of a single pipeline stage
// (e.g. "mine", "build", "calculate", "predict", "emit").
func (pm *PipelineMetrics) RecordStage(ctx context.Context, stage string, d time.Duration) {
	if pm == nil {
		return
	}

	pm.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String(attrStage, stage)))
}

// RecordRun records the total duration of a completed analysis run.
func (pm *PipelineMetrics) RecordRun(ctx context.Context, d time.Duration) {
	if pm == nil {
		return
	}

	pm.analysisDuration.Record(ctx, d.Seconds())
}

// TrackActive increments the active-analyses gauge and returns a function
// to decrement it, meant to be deferred around a run.
func (pm *PipelineMetrics) TrackActive(ctx context.Context) func() {
	if pm == nil {
		return func() {}
	}

	pm.activeAnalyses.Add(ctx, 1)

	return func() {
		pm.activeAnalyses.Add(ctx, -1)
	}
}
