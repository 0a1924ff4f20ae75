package commands

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplemine/ripplemine/pkg/analysis"
	"github.com/ripplemine/ripplemine/pkg/cochange"
)

func TestAnalyzeCommand_RejectsUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--repository", ".", "--algorithm", "quantum"})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestAnalyzeCommand_RequiresRepository(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestAnalyzeCommand_RejectsInvalidExcludeRegex(t *testing.T) {
	t.Parallel()

	cmd := NewAnalyzeCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--repository", ".", "--exclude-regex", "("})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestAnalyzeCommand_WriteHeatmap_CreatesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := dir + "/heatmap.html"

	ac := &AnalyzeCommand{html: path}

	changes := buildSampleChangesForHeatmapTest()
	cc := cochange.Calculate(changes, cochange.Options{Algorithm: cochange.Naive})

	err := ac.writeHeatmap(analysis.Artifacts{Changes: changes, CoChange: cc})
	require.NoError(t, err)

	info, statErr := os.Stat(path)
	require.NoError(t, statErr)
	require.Positive(t, info.Size())
}

func TestBuildSink_CSVFormat_CreatesThreeFilesAndCloses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ac := &AnalyzeCommand{outputDir: dir, format: "csv"}

	out, closeSink, err := ac.buildSink()
	require.NoError(t, err)
	require.NotNil(t, out)

	for _, name := range []string{"freqs.csv", "probs.csv", "ripple.csv"} {
		_, statErr := os.Stat(dir + "/" + name)
		require.NoError(t, statErr)
	}

	closeSink()
}

func TestBuildSink_YAMLFormat_CreatesSingleFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ac := &AnalyzeCommand{outputDir: dir, format: "yaml"}

	out, closeSink, err := ac.buildSink()
	require.NoError(t, err)
	require.NotNil(t, out)

	_, statErr := os.Stat(dir + "/artifacts.yaml")
	require.NoError(t, statErr)

	closeSink()
}

func TestBuildSink_RejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ac := &AnalyzeCommand{outputDir: dir, format: "xml"}

	_, closeSink, err := ac.buildSink()
	require.Error(t, err)

	closeSink()
}

func TestBuildSink_EmptyOutputDir_ReturnsNilSink(t *testing.T) {
	t.Parallel()

	ac := &AnalyzeCommand{}

	out, closeSink, err := ac.buildSink()
	require.NoError(t, err)
	assert.Nil(t, out)

	closeSink()
}

func buildSampleChangesForHeatmapTest() *cochange.Changes {
	now := time.Now()

	diffs := map[cochange.Bin]cochange.DiffRecord{
		cochange.Bin(now):                   {NewFiles: []string{"a.go", "b.go"}},
		cochange.Bin(now.AddDate(0, 0, -1)): {NewFiles: []string{"b.go", "c.go"}},
	}

	return cochange.BuildChanges(diffs)
}
