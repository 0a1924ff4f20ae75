package commands

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredictCommand_RequiresWindowFlags(t *testing.T) {
	t.Parallel()

	cmd := NewPredictCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--repository", "."})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestPredictCommand_RejectsUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	cmd := NewPredictCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--repository", ".",
		"--predict-since", "2026-01-01",
		"--predict-until", "2026-07-31",
		"--algorithm", "quantum",
	})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestPredictCommand_RejectsInvalidPredictSinceDate(t *testing.T) {
	t.Parallel()

	cmd := NewPredictCommand()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{
		"--repository", ".",
		"--predict-since", "not-a-date",
		"--predict-until", "2026-07-31",
	})

	err := cmd.Execute()
	require.Error(t, err)
}
