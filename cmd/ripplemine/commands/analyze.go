// Package commands provides CLI command implementations for ripplemine.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ripplemine/ripplemine/internal/observability"
	"github.com/ripplemine/ripplemine/internal/render"
	"github.com/ripplemine/ripplemine/pkg/analysis"
	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/sink"
)

const metricsReadHeaderTimeout = 10 * time.Second

// AnalyzeCommand holds the flags for the analyze command.
type AnalyzeCommand struct {
	repo         repoFlags
	algorithm    string
	changesMin   float64
	freqMin      float64
	skipPredict  bool
	predictFrom  string
	predictTo    string
	outputDir    string
	format       string
	noColor      bool
	html         string
	serveMetrics bool
	metricsAddr  string
}

// NewAnalyzeCommand creates and configures the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Mine file co-changes from a Git repository",
		Long:  "Mine commit history for file co-changes, build the co-change frequency and probability matrices, and optionally predict a ripple.",
		RunE:  ac.Run,
	}

	flags := cobraCmd.Flags()
	flags.StringVarP(&ac.repo.repository, "repository", "r", "", "The git repository")
	flags.StringVarP(&ac.repo.branch, "branch", "b", "", "The branch to mine commits from (default: HEAD)")
	flags.Float64VarP(&ac.changesMin, "changes-min", "c", 0, "Ignore files with fewer total changes than given")
	flags.Float64VarP(&ac.freqMin, "freq-min", "f", 0, "Remove file pairs with co-change frequency lower than given")
	flags.StringVar(&ac.repo.since, "since", "", "Select commits after given date (YYYY-MM-DD)")
	flags.StringVar(&ac.repo.until, "until", "", "Select commits until given date (YYYY-MM-DD)")
	flags.StringVarP(&ac.repo.binning, "date-binning", "d", "none", "Binning strategy for commits: none, daily, weekly, monthly")
	flags.StringVarP(&ac.algorithm, "algorithm", "a", "naive", "Impact probability algorithm: naive, bayes, mixed, nop")
	flags.StringVar(&ac.repo.includeRgx, "include-regex", ".*", "Regex to include matching files")
	flags.StringVar(&ac.repo.excludeRgx, "exclude-regex", `.*\.(lock|sum|md|txt)$`, "Regex to exclude matching files")
	flags.BoolVar(&ac.skipPredict, "skip-predict", false, "Do not perform a prediction using the co-change probability")
	flags.StringVar(&ac.predictFrom, "predict-since", "", "Predict changes based on files changed since the given date")
	flags.StringVar(&ac.predictTo, "predict-until", "", "Predict changes based on files changed until the given date")
	flags.StringVarP(&ac.outputDir, "output-dir", "o", "", "Directory to write output files to; empty prints tables to stdout")
	flags.StringVar(&ac.format, "format", "csv", "Artifact file format when --output-dir is set: csv, yaml")
	flags.BoolVar(&ac.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&ac.html, "html", "", "Write Φ as an interactive HTML heatmap to the given path")
	flags.BoolVar(&ac.serveMetrics, "serve-metrics", false, "Serve Prometheus metrics over HTTP until the run completes")
	flags.StringVar(&ac.metricsAddr, "metrics-addr", ":9090", "Address to serve Prometheus metrics on")
	flags.StringVar(&ac.repo.configPath, "config", "", "Path to a YAML config file (env: RIPPLEMINE_*)")

	_ = cobraCmd.MarkFlagRequired("repository")

	return cobraCmd
}

// Run executes the analyze command.
func (ac *AnalyzeCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	ctx := cobraCmd.Context()

	if ac.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := loadConfig(cobraCmd, &ac.repo, runSettings{
		algorithm:    &ac.algorithm,
		changesMin:   &ac.changesMin,
		freqMin:      &ac.freqMin,
		predictFrom:  &ac.predictFrom,
		predictTo:    &ac.predictTo,
		serveMetrics: &ac.serveMetrics,
		metricsAddr:  &ac.metricsAddr,
	})
	if err != nil {
		return err
	}

	if cfg.Analysis.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.Analysis.Timeout)
		defer cancel()
	}

	algorithm, err := cochange.ParseAlgorithm(ac.algorithm)
	if err != nil {
		return err
	}

	repo, provider, err := openProvider(ac.repo)
	if err != nil {
		return err
	}
	defer repo.Free()

	opts := analysis.Options{
		ChangesMin: ac.changesMin,
		FreqMin:    ac.freqMin,
		Algorithm:  algorithm,
		Window:     ac.predictionWindow(algorithm),
	}

	run := analysis.New(opts)

	out, closeSink, err := ac.buildSink()
	if err != nil {
		return err
	}
	defer closeSink()

	providers, err := observability.Init(observabilityConfig(cfg, observability.ModeAnalyze))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	metrics, err := observability.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init pipeline metrics: %w", err)
	}

	doneTracking := metrics.TrackActive(ctx)
	defer doneTracking()

	if ac.serveMetrics {
		stopServer := ac.startMetricsServer(providers)
		defer stopServer()
	}

	started := time.Now()

	if err := run.Run(ctx, provider, out); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	elapsed := time.Since(started)
	metrics.RecordRun(ctx, elapsed)

	artifacts := run.Artifacts()

	providers.Logger.InfoContext(ctx, "analysis complete",
		"files", artifacts.Changes.F.Rows(),
		"bins", artifacts.Changes.F.Cols(),
		"algorithm", algorithm.String(),
		"elapsed", elapsed)

	render.Summary(cobraCmd.OutOrStdout(), artifacts.Changes, elapsed)

	if ac.outputDir == "" {
		render.MatrixTable(cobraCmd.OutOrStdout(), "Phi (co-change frequency)", artifacts.CoChange.Freqs)
		render.MatrixTable(cobraCmd.OutOrStdout(), "Pi (co-change probability)", artifacts.CoChange.Probs)

		if !ac.skipPredict {
			render.RippleTable(cobraCmd.OutOrStdout(), artifacts.Ripple)
		}
	}

	if ac.html != "" {
		if err := ac.writeHeatmap(artifacts); err != nil {
			return err
		}
	}

	return nil
}

func (ac *AnalyzeCommand) writeHeatmap(artifacts analysis.Artifacts) error {
	f, err := os.Create(ac.html)
	if err != nil {
		return fmt.Errorf("create html heatmap: %w", err)
	}
	defer f.Close()

	if err := render.Heatmap(f, "Co-change frequency", "Phi", artifacts.CoChange.Freqs); err != nil {
		return fmt.Errorf("render html heatmap: %w", err)
	}

	return nil
}

// startMetricsServer serves /metrics on ac.metricsAddr for the duration
// of the run. The returned stop func shuts the server down; it is safe
// to call even if the server failed to start.
func (ac *AnalyzeCommand) startMetricsServer(providers observability.Providers) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.PrometheusHandler(providers.Registry))
	mux.Handle("/healthz", observability.HealthHandler())

	server := &http.Server{
		Addr:              ac.metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			providers.Logger.Error("metrics server stopped", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsReadHeaderTimeout)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}
}

func (ac *AnalyzeCommand) predictionWindow(algorithm cochange.Algorithm) cochange.PredictionWindow {
	if ac.skipPredict {
		return cochange.PredictionWindow{Skip: true}
	}

	since, _ := parseOptionalDate(ac.predictFrom)
	until, _ := parseOptionalDate(ac.predictTo)

	if until.IsZero() {
		until = time.Now()
	}

	if since.IsZero() {
		since = until.AddDate(0, 0, -30)
	}

	return cochange.PredictionWindow{
		Since:     cochange.Bin(since),
		Until:     cochange.Bin(until),
		Algorithm: algorithm,
	}
}

// buildSink constructs the artifact sink selected by --format, along with
// a close func that releases every file handle it opened. The close func
// is always safe to call, even when buildSink returned an error or a nil
// sink.
func (ac *AnalyzeCommand) buildSink() (analysis.ArtifactSink, func(), error) {
	noop := func() {}

	if ac.outputDir == "" {
		return nil, noop, nil //nolint:nilnil // absent sink means "render to stdout instead"
	}

	if err := os.MkdirAll(ac.outputDir, 0o755); err != nil {
		return nil, noop, fmt.Errorf("create output dir: %w", err)
	}

	switch ac.format {
	case "yaml":
		f, err := os.Create(ac.outputDir + "/artifacts.yaml")
		if err != nil {
			return nil, noop, fmt.Errorf("create artifacts.yaml: %w", err)
		}

		return sink.YAML{Writer: f}, closer(f), nil
	case "", "csv":
		freqs, err := os.Create(ac.outputDir + "/freqs.csv")
		if err != nil {
			return nil, noop, fmt.Errorf("create freqs.csv: %w", err)
		}

		probs, err := os.Create(ac.outputDir + "/probs.csv")
		if err != nil {
			return nil, closer(freqs), fmt.Errorf("create probs.csv: %w", err)
		}

		ripple, err := os.Create(ac.outputDir + "/ripple.csv")
		if err != nil {
			return nil, closer(freqs, probs), fmt.Errorf("create ripple.csv: %w", err)
		}

		return sink.CSV{Freqs: freqs, Probs: probs, Ripple: ripple}, closer(freqs, probs, ripple), nil
	default:
		return nil, noop, fmt.Errorf("%w: format: %q", cochange.ErrFilterConfigurationInvalid, ac.format)
	}
}

// closer returns a func that closes every given file, ignoring errors;
// the files are already flushed by their sink's Emit before Run defers
// this call.
func closer(files ...io.Closer) func() {
	return func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
}
