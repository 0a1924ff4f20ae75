package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplemine/ripplemine/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "mixed", cfg.Analysis.Algorithm)
	assert.Equal(t, "daily", cfg.Repository.Binning)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Server.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	content := `
repository:
  branch: "main"
  binning: "weekly"

analysis:
  algorithm: "bayes"
  changes_min: 2

server:
  enabled: true
  port: 9191
`

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "test-config-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(content)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	cfg, loadErr := config.Load(tmpFile.Name())
	require.NoError(t, loadErr)

	assert.Equal(t, "main", cfg.Repository.Branch)
	assert.Equal(t, "weekly", cfg.Repository.Binning)
	assert.Equal(t, "bayes", cfg.Analysis.Algorithm)
	assert.InEpsilon(t, 2.0, cfg.Analysis.ChangesMin, 1e-9)
	assert.True(t, cfg.Server.Enabled)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RIPPLEMINE_ANALYSIS_ALGORITHM", "naive")
	t.Setenv("RIPPLEMINE_SERVER_PORT", "9292")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "naive", cfg.Analysis.Algorithm)
	assert.Equal(t, 9292, cfg.Server.Port)
}

func TestLoad_RejectsUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	content := "analysis:\n  algorithm: bogus\n"

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "test-config-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(content)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	_, loadErr := config.Load(tmpFile.Name())
	require.ErrorIs(t, loadErr, config.ErrInvalidAlgorithm)
}

func TestLoad_RejectsInvalidPortWhenServerEnabled(t *testing.T) {
	t.Parallel()

	content := "server:\n  enabled: true\n  port: 0\n"

	tmpDir := t.TempDir()

	tmpFile, err := os.CreateTemp(tmpDir, "test-config-*.yaml")
	require.NoError(t, err)

	_, writeErr := tmpFile.WriteString(content)
	require.NoError(t, writeErr)
	require.NoError(t, tmpFile.Close())

	_, loadErr := config.Load(tmpFile.Name())
	require.ErrorIs(t, loadErr, config.ErrInvalidPort)
}
