package cochange

import "github.com/ripplemine/ripplemine/pkg/labelmatrix"

// CCMatrix is a square matrix of file labels: Φ (co-change frequency) or
// Π (co-change probability).
type CCMatrix = labelmatrix.Matrix[string, string]

// CoChanges holds the co-change frequency matrix Φ and co-change
// probability matrix Π produced by the engine for one algorithm.
type CoChanges struct {
	Freqs *CCMatrix
	Probs *CCMatrix
}

// freqsCalculator computes Φ from the changes matrix.
type freqsCalculator interface {
	calculateFreqs(changes *Changes, opts Options) *CCMatrix
}

// probsCalculator computes Π from Φ.
type probsCalculator interface {
	calculateProbs(changes *Changes, freqs *CCMatrix, opts Options) *CCMatrix
}

// ripplePredictor produces the ripple vector for a set of already-changed files.
type ripplePredictor interface {
	predict(cc *CoChanges, changedFiles []string) map[string]float64
}

type model interface {
	freqsCalculator
	probsCalculator
	ripplePredictor
}

func modelFor(a Algorithm) model {
	switch a {
	case Naive:
		return naiveModel{}
	case Bayes:
		return bayesianModel{}
	case Mixed:
		return mixedModel{}
	case Nop:
		return nopModel{}
	default:
		return nopModel{}
	}
}

// Calculate runs the configured algorithm's frequency then probability
// calculation over changes, producing Φ and Π.
func Calculate(changes *Changes, opts Options) *CoChanges {
	m := modelFor(opts.Algorithm)

	freqs := m.calculateFreqs(changes, opts)
	probs := m.calculateProbs(changes, freqs, opts)

	return &CoChanges{Freqs: freqs, Probs: probs}
}

// filteredRowNames returns the file labels whose total change frequency
// meets opts.ChangesMin, in the changes matrix's existing row order.
// Shared by the Naive and Bayes frequency calculators (§4.4.1).
func filteredRowNames(changes *Changes, opts Options) []string {
	filt := make([]string, 0, changes.F.Rows())

	for i, name := range changes.F.RowNames {
		if changes.CFreq[i] >= opts.ChangesMin {
			filt = append(filt, name)
		}
	}

	return filt
}

// filterFreqs zeroes every entry at or below minFreq, in place.
func filterFreqs(freqs *CCMatrix, minFreq float64) {
	freqs.MapInPlace(func(v float64) float64 {
		if v <= minFreq {
			return 0
		}

		return v
	})
}
