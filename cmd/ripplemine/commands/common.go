package commands

import (
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/ripplemine/ripplemine/internal/config"
	"github.com/ripplemine/ripplemine/internal/observability"
	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/gitdiff"
	"github.com/ripplemine/ripplemine/pkg/gitlib"
)

// repoFlags holds the repository-selection flags shared by the analyze
// and predict commands.
type repoFlags struct {
	repository string
	branch     string
	binning    string
	includeRgx string
	excludeRgx string
	since      string
	until      string
	configPath string
}

// runSettings bundles the flag-backed values that a loaded config.Config
// can supply defaults for. A nil field means the owning command has no
// such flag; loadConfig skips it.
type runSettings struct {
	algorithm    *string
	changesMin   *float64
	freqMin      *float64
	predictFrom  *string
	predictTo    *string
	serveMetrics *bool
	metricsAddr  *string
}

// loadConfig loads ripplemine's YAML/env configuration (config.Load) and
// overlays it onto rf and rs for every flag the caller did not explicitly
// set, so precedence runs defaults < YAML file < environment variables <
// CLI flags. An empty rf.configPath still loads environment variables and
// any ripplemine.yaml found in the working directory.
func loadConfig(cmd *cobra.Command, rf *repoFlags, rs runSettings) (*config.Config, error) {
	cfg, err := config.Load(rf.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()

	if !flags.Changed("branch") && cfg.Repository.Branch != "" {
		rf.branch = cfg.Repository.Branch
	}

	if !flags.Changed("date-binning") && cfg.Repository.Binning != "" {
		rf.binning = cfg.Repository.Binning
	}

	if !flags.Changed("include-regex") && cfg.Repository.Include != "" {
		rf.includeRgx = cfg.Repository.Include
	}

	if !flags.Changed("exclude-regex") && cfg.Repository.Exclude != "" {
		rf.excludeRgx = cfg.Repository.Exclude
	}

	if rs.algorithm != nil && !flags.Changed("algorithm") && cfg.Analysis.Algorithm != "" {
		*rs.algorithm = cfg.Analysis.Algorithm
	}

	if rs.changesMin != nil && !flags.Changed("changes-min") {
		*rs.changesMin = cfg.Analysis.ChangesMin
	}

	if rs.freqMin != nil && !flags.Changed("freq-min") {
		*rs.freqMin = cfg.Analysis.FreqMin
	}

	if rs.predictFrom != nil && !flags.Changed("predict-since") && !cfg.Analysis.WindowSince.IsZero() {
		*rs.predictFrom = cfg.Analysis.WindowSince.Format("2006-01-02")
	}

	if rs.predictTo != nil && !flags.Changed("predict-until") && !cfg.Analysis.WindowUntil.IsZero() {
		*rs.predictTo = cfg.Analysis.WindowUntil.Format("2006-01-02")
	}

	if rs.serveMetrics != nil && !flags.Changed("serve-metrics") && cfg.Server.Enabled {
		*rs.serveMetrics = true
	}

	if rs.metricsAddr != nil && !flags.Changed("metrics-addr") && cfg.Server.Port != 0 {
		*rs.metricsAddr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}

	return cfg, nil
}

// observabilityConfig builds an observability.Config for mode from cfg's
// logging section, falling back to observability.DefaultConfig() values
// for anything cfg leaves unset.
func observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = mode
	obsCfg.LogJSON = cfg.Logging.JSON

	if cfg.Logging.Level != "" {
		if lvl, err := parseLogLevel(cfg.Logging.Level); err == nil {
			obsCfg.LogLevel = lvl
		}
	}

	return obsCfg
}

func parseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("%w: log level %q", cochange.ErrFilterConfigurationInvalid, s)
	}

	return lvl, nil
}

// openProvider opens the repository at rf.repository and builds a
// gitdiff.Provider from the shared mining flags. The caller owns the
// returned Repository and must Free it.
func openProvider(rf repoFlags) (*gitlib.Repository, *gitdiff.Provider, error) {
	repo, err := gitlib.OpenRepository(rf.repository)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", cochange.ErrRepositoryUnavailable, err)
	}

	binning, err := parseBinning(rf.binning)
	if err != nil {
		repo.Free()

		return nil, nil, err
	}

	include, err := regexp.Compile(rf.includeRgx)
	if err != nil {
		repo.Free()

		return nil, nil, fmt.Errorf("%w: include-regex: %w", cochange.ErrFilterConfigurationInvalid, err)
	}

	exclude, err := regexp.Compile(rf.excludeRgx)
	if err != nil {
		repo.Free()

		return nil, nil, fmt.Errorf("%w: exclude-regex: %w", cochange.ErrFilterConfigurationInvalid, err)
	}

	since, err := parseOptionalDate(rf.since)
	if err != nil {
		repo.Free()

		return nil, nil, err
	}

	until, err := parseOptionalDate(rf.until)
	if err != nil {
		repo.Free()

		return nil, nil, err
	}

	provider := gitdiff.New(repo, gitdiff.Options{
		Branch:  rf.branch,
		Since:   since,
		Until:   until,
		Binning: binning,
		Files:   gitdiff.FileFilter{Include: include, Exclude: exclude},
	})

	return repo, provider, nil
}

func parseBinning(s string) (gitdiff.DateGrouping, error) {
	switch s {
	case "", "none":
		return gitdiff.None, nil
	case "daily":
		return gitdiff.Daily, nil
	case "weekly":
		return gitdiff.Weekly, nil
	case "monthly":
		return gitdiff.Monthly, nil
	default:
		return 0, fmt.Errorf("%w: date-binning: %q", cochange.ErrFilterConfigurationInvalid, s)
	}
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", cochange.ErrFilterConfigurationInvalid, s)
	}

	return t, nil
}
