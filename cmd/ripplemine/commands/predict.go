package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ripplemine/ripplemine/internal/observability"
	"github.com/ripplemine/ripplemine/internal/render"
	"github.com/ripplemine/ripplemine/pkg/analysis"
	"github.com/ripplemine/ripplemine/pkg/cochange"
)

// PredictCommand holds the flags for the predict command.
type PredictCommand struct {
	repo        repoFlags
	algorithm   string
	changesMin  float64
	freqMin     float64
	predictFrom string
	predictTo   string
}

// NewPredictCommand creates and configures the predict command. It
// reuses the same mining flow as analyze but renders only the ripple
// prediction for the given window, skipping the Φ/Π tables.
func NewPredictCommand() *cobra.Command {
	pc := &PredictCommand{}

	cobraCmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the ripple of files likely to change next",
		Long:  "Mine commit history, compute co-change probability, and print the ripple prediction for a changed-files window.",
		RunE:  pc.Run,
	}

	flags := cobraCmd.Flags()
	flags.StringVarP(&pc.repo.repository, "repository", "r", "", "The git repository")
	flags.StringVarP(&pc.repo.branch, "branch", "b", "", "The branch to mine commits from (default: HEAD)")
	flags.Float64VarP(&pc.changesMin, "changes-min", "c", 0, "Ignore files with fewer total changes than given")
	flags.Float64VarP(&pc.freqMin, "freq-min", "f", 0, "Remove file pairs with co-change frequency lower than given")
	flags.StringVar(&pc.repo.since, "since", "", "Select commits after given date (YYYY-MM-DD)")
	flags.StringVar(&pc.repo.until, "until", "", "Select commits until given date (YYYY-MM-DD)")
	flags.StringVarP(&pc.repo.binning, "date-binning", "d", "none", "Binning strategy for commits: none, daily, weekly, monthly")
	flags.StringVarP(&pc.algorithm, "algorithm", "a", "naive", "Impact probability algorithm: naive, bayes, mixed, nop")
	flags.StringVar(&pc.repo.includeRgx, "include-regex", ".*", "Regex to include matching files")
	flags.StringVar(&pc.repo.excludeRgx, "exclude-regex", `.*\.(lock|sum|md|txt)$`, "Regex to exclude matching files")
	flags.StringVar(&pc.predictFrom, "predict-since", "", "Predict changes based on files changed since the given date")
	flags.StringVar(&pc.predictTo, "predict-until", "", "Predict changes based on files changed until the given date")
	flags.StringVar(&pc.repo.configPath, "config", "", "Path to a YAML config file (env: RIPPLEMINE_*)")

	_ = cobraCmd.MarkFlagRequired("repository")
	_ = cobraCmd.MarkFlagRequired("predict-since")
	_ = cobraCmd.MarkFlagRequired("predict-until")

	return cobraCmd
}

// Run executes the predict command.
func (pc *PredictCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	ctx := cobraCmd.Context()

	cfg, err := loadConfig(cobraCmd, &pc.repo, runSettings{
		algorithm:   &pc.algorithm,
		changesMin:  &pc.changesMin,
		freqMin:     &pc.freqMin,
		predictFrom: &pc.predictFrom,
		predictTo:   &pc.predictTo,
	})
	if err != nil {
		return err
	}

	if cfg.Analysis.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, cfg.Analysis.Timeout)
		defer cancel()
	}

	algorithm, err := cochange.ParseAlgorithm(pc.algorithm)
	if err != nil {
		return err
	}

	since, err := parseOptionalDate(pc.predictFrom)
	if err != nil {
		return err
	}

	until, err := parseOptionalDate(pc.predictTo)
	if err != nil {
		return err
	}

	repo, provider, err := openProvider(pc.repo)
	if err != nil {
		return err
	}
	defer repo.Free()

	opts := analysis.Options{
		ChangesMin: pc.changesMin,
		FreqMin:    pc.freqMin,
		Algorithm:  algorithm,
		Window: cochange.PredictionWindow{
			Since:     cochange.Bin(since),
			Until:     cochange.Bin(until),
			Algorithm: algorithm,
		},
	}

	run := analysis.New(opts)

	providers, err := observability.Init(observabilityConfig(cfg, observability.ModePredict))
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

	started := time.Now()

	if err := run.Run(ctx, provider, nil); err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	elapsed := time.Since(started)
	metrics.RecordRun(ctx, elapsed)

	artifacts := run.Artifacts()

	providers.Logger.InfoContext(ctx, "prediction complete",
		"changing_files", len(artifacts.Ripple.ChangingFiles),
		"algorithm", algorithm.String(),
		"elapsed", elapsed)

	render.RippleTable(cobraCmd.OutOrStdout(), artifacts.Ripple)

	return nil
}
