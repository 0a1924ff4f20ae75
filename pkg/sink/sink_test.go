package sink_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripplemine/ripplemine/pkg/analysis"
	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/sink"
)

func sampleArtifacts() analysis.Artifacts {
	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	t1 := cochange.Bin(now.AddDate(0, 0, -3))
	t2 := cochange.Bin(now.AddDate(0, 0, -2))

	diffs := map[cochange.Bin]cochange.DiffRecord{
		t1: {NewFiles: []string{"A", "B", "C"}},
		t2: {NewFiles: []string{"A", "C"}},
	}

	changes := cochange.BuildChanges(diffs)
	cc := cochange.Calculate(changes, cochange.Options{Algorithm: cochange.Naive})
	ripple := cochange.Predict(changes, cc, cochange.PredictionWindow{})

	return analysis.Artifacts{Changes: changes, CoChange: cc, Ripple: ripple}
}

func TestCSV_Emit(t *testing.T) {
	t.Parallel()

	var freqs, probs, ripple bytes.Buffer

	s := sink.CSV{Freqs: &freqs, Probs: &probs, Ripple: &ripple}
	err := s.Emit(context.Background(), sampleArtifacts())
	require.NoError(t, err)

	assert.Contains(t, freqs.String(), "A,B,C")
	assert.Contains(t, probs.String(), "A,B,C")
	assert.Contains(t, ripple.String(), "file,probability")
}

func TestYAML_Emit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	s := sink.YAML{Writer: &buf}
	err := s.Emit(context.Background(), sampleArtifacts())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "freqs:")
	assert.Contains(t, buf.String(), "probs:")
	assert.Contains(t, buf.String(), "ripple:")
}
