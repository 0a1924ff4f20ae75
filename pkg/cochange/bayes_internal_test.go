package cochange

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

// TestBayesianProbability_ScenarioC reproduces §8 Scenario C exactly:
// c_prob = [0.5, 0.25, 0.5], n_vers = 4, Φ = [[0,1,2],[1,0,1],[2,1,0]].
// Π[0,2] = (2/4)·(0.5/0.5) = 0.5.
func TestBayesianProbability_ScenarioC(t *testing.T) {
	t.Parallel()

	f := labelmatrix.New([]string{"0", "1", "2"}, make([]Bin, 4), "files", "dates")
	changes := &Changes{F: f, CFreq: []float64{2, 1, 2}, CProb: []float64{0.5, 0.25, 0.5}}

	freqs := newCCMatrix([]string{"0", "1", "2"}, []string{"0", "1", "2"}, "impacted", "changed")
	freqs.Set(0, 1, 1)
	freqs.Set(0, 2, 2)
	freqs.Set(1, 0, 1)
	freqs.Set(1, 2, 1)
	freqs.Set(2, 0, 2)
	freqs.Set(2, 1, 1)

	probs := bayesianModel{}.calculateProbs(changes, freqs, Options{})

	i0, _ := probs.IndexOfRow("0")
	j2, _ := probs.IndexOfCol("2")
	assert.InDelta(t, 0.5, probs.At(i0, j2), 1e-12)
}

// TestBayesianProbability_SmallPriorSkipped verifies the <1e-6 guard: a
// row or column whose prior is effectively zero is left at zero in Π
// rather than dividing by a near-zero denominator.
func TestBayesianProbability_SmallPriorSkipped(t *testing.T) {
	t.Parallel()

	f := labelmatrix.New([]string{"0", "1"}, make([]Bin, 2), "files", "dates")
	changes := &Changes{F: f, CFreq: []float64{0, 2}, CProb: []float64{0, 1}}

	freqs := newCCMatrix([]string{"0", "1"}, []string{"0", "1"}, "impacted", "changed")
	freqs.Set(0, 1, 1)
	freqs.Set(1, 0, 1)

	probs := bayesianModel{}.calculateProbs(changes, freqs, Options{})

	assert.InDelta(t, 0, probs.At(0, 1), 1e-12)
	assert.InDelta(t, 0, probs.At(1, 0), 1e-12)
}
