// Package config provides configuration loading and validation for the
// ripplemine CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidPort      = errors.New("invalid metrics server port")
	ErrInvalidAlgorithm = errors.New("invalid co-change algorithm")
	ErrInvalidThreshold = errors.New("threshold must be non-negative")
	ErrInvalidBinning   = errors.New("invalid date grouping")
)

// Default configuration values.
const (
	defaultPort      = 9090
	defaultHost      = "0.0.0.0"
	defaultAlgorithm = "mixed"
	defaultBinning   = "daily"
	maxPort          = 65535
)

// Config holds all configuration for a ripplemine run.
type Config struct {
	Repository RepositoryConfig `mapstructure:"repository"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
}

// RepositoryConfig identifies which history to mine.
type RepositoryConfig struct {
	Path    string `mapstructure:"path"`
	Branch  string `mapstructure:"branch"`
	Binning string `mapstructure:"binning"`
	Include string `mapstructure:"include"`
	Exclude string `mapstructure:"exclude"`
}

// AnalysisConfig holds co-change pipeline thresholds and algorithm choice.
type AnalysisConfig struct {
	Algorithm   string        `mapstructure:"algorithm"`
	ChangesMin  float64       `mapstructure:"changes_min"`
	FreqMin     float64       `mapstructure:"freq_min"`
	WindowSince time.Time     `mapstructure:"window_since"`
	WindowUntil time.Time     `mapstructure:"window_until"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig holds the metrics/health HTTP server configuration.
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Enabled bool   `mapstructure:"enabled"`
}

// Load loads configuration from a file (if configPath is non-empty) and
// environment variables prefixed RIPPLEMINE_.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("ripplemine")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	viperCfg.SetEnvPrefix("RIPPLEMINE")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viperCfg.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config

	if err := viperCfg.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("repository.branch", "")
	viperCfg.SetDefault("repository.binning", defaultBinning)
	viperCfg.SetDefault("repository.include", ".*")

	viperCfg.SetDefault("analysis.algorithm", defaultAlgorithm)
	viperCfg.SetDefault("analysis.changes_min", 0.0)
	viperCfg.SetDefault("analysis.freq_min", 0.0)
	viperCfg.SetDefault("analysis.timeout", "30m")

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("server.enabled", false)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.host", defaultHost)
}

func validate(cfg *Config) error {
	if cfg.Server.Enabled && (cfg.Server.Port <= 0 || cfg.Server.Port > maxPort) {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	switch strings.ToLower(cfg.Analysis.Algorithm) {
	case "naive", "bayes", "mixed", "nop":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, cfg.Analysis.Algorithm)
	}

	if cfg.Analysis.ChangesMin < 0 {
		return fmt.Errorf("%w: changes_min=%v", ErrInvalidThreshold, cfg.Analysis.ChangesMin)
	}

	if cfg.Analysis.FreqMin < 0 {
		return fmt.Errorf("%w: freq_min=%v", ErrInvalidThreshold, cfg.Analysis.FreqMin)
	}

	switch strings.ToLower(cfg.Repository.Binning) {
	case "none", "daily", "weekly", "monthly":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBinning, cfg.Repository.Binning)
	}

	return nil
}
