package render_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ripplemine/ripplemine/internal/render"
	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

func sampleMatrix() *labelmatrix.Matrix[string, string] {
	m := labelmatrix.New([]string{"A", "B"}, []string{"A", "B"}, "files", "files")
	m.Set(0, 1, 2.5)
	m.Set(1, 0, 1.5)

	return m
}

func TestMatrixTable_RendersLabelsAndValues(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	render.MatrixTable(&buf, "Phi", sampleMatrix())

	out := buf.String()
	assert.Contains(t, out, "Phi")
	assert.Contains(t, out, "2.5000")
	assert.Contains(t, out, "1.5000")
}

func TestFilterAndSort_DropsBelowThresholdAndSortsDescending(t *testing.T) {
	t.Parallel()

	ripple := cochange.Ripple{
		Values: map[string]float64{
			"low":  0.001,
			"high": 0.9,
			"mid":  0.3,
		},
	}

	pairs := render.FilterAndSort(ripple)

	assert.Len(t, pairs, 2)
	assert.Equal(t, "high", pairs[0].File)
	assert.Equal(t, "mid", pairs[1].File)
}

func TestFilterAndSort_DropsNaN(t *testing.T) {
	t.Parallel()

	ripple := cochange.Ripple{Values: map[string]float64{"nan": 0.0 / zero()}}

	pairs := render.FilterAndSort(ripple)

	assert.Empty(t, pairs)
}

func zero() float64 { return 0 }

func TestRippleTable_RendersFooterCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ripple := cochange.Ripple{
		ChangingFiles: []string{"A", "B"},
		Values:        map[string]float64{"C": 0.75},
	}

	render.RippleTable(&buf, ripple)

	assert.Contains(t, buf.String(), "CHANGING FILES")
}

func TestHeatmap_EmptyMatrixRendersWithoutError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	m := labelmatrix.New[string, string](nil, nil, "files", "files")

	err := render.Heatmap(&buf, "Phi", "co-change", m)

	assert.NoError(t, err)
	assert.Positive(t, buf.Len())
}

func TestSummary_WritesFileAndBinCounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	now := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	diffs := map[cochange.Bin]cochange.DiffRecord{
		cochange.Bin(now): {NewFiles: []string{"A", "B"}},
	}

	changes := cochange.BuildChanges(diffs)

	render.Summary(&buf, changes, 2*time.Second)

	out := buf.String()
	assert.Contains(t, out, "2 files")
	assert.Contains(t, out, "1 commit bins")
}
