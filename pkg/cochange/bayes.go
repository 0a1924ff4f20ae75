package cochange

const bayesSmallPriorGuard = 1e-6

type bayesianModel struct{}

func coChangeCount(f1, f2 []float64) float64 {
	count := 0.0

	for i := range f1 {
		if f1[i] > 0 && f2[i] > 0 {
			count++
		}
	}

	return count
}

func (bayesianModel) calculateFreqs(changes *Changes, opts Options) *CCMatrix {
	filtRows := filteredRowNames(changes, opts)

	cc := newCCMatrix(filtRows, filtRows, "impacted", "changed")

	n := len(filtRows)
	parallelRows(n, func(i int) {
		rowI := changesRow(changes, filtRows[i])

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			rowJ := changesRow(changes, filtRows[j])
			cc.Set(i, j, coChangeCount(rowI, rowJ))
		}
	})

	filterFreqs(cc, opts.FreqMin)

	return cc
}

// calculateProbs implements Π[u,v] = (Φ[u,v]/n_vers) · c_prob[u]/c_prob[v].
// Rows and columns whose change-probability prior is below the guard are
// left at zero rather than dividing by a near-zero denominator. The
// result is not clamped to [0,1] — a co-change count spread over very
// few bins can legitimately exceed that range under this formula.
func (bayesianModel) calculateProbs(changes *Changes, freqs *CCMatrix, _ Options) *CCMatrix {
	cc := newCCMatrix(freqs.RowNames, freqs.RowNames, "impacted", "changing")

	nVers := float64(changes.F.Cols())

	cProbOf := func(label string) float64 {
		idx, ok := changes.F.IndexOfRow(label)
		if !ok {
			return 0
		}

		return changes.CProb[idx]
	}

	for i, u := range freqs.RowNames {
		cpu := cProbOf(u)
		if cpu < bayesSmallPriorGuard {
			continue
		}

		for j, v := range freqs.ColNames {
			cpv := cProbOf(v)
			if cpv < bayesSmallPriorGuard {
				continue
			}

			cc.Set(i, j, (freqs.At(i, j)/nVers)*(cpu/cpv))
		}
	}

	return cc
}

// predict sums Π's columns for the changed files without dividing by
// the count — unlike Naive, Bayes/Mixed report the raw accumulated mass.
func (bayesianModel) predict(cc *CoChanges, changedFiles []string) map[string]float64 {
	return sumColumnsUndivided(cc, changedFiles)
}

func sumColumnsUndivided(cc *CoChanges, changedFiles []string) map[string]float64 {
	sum := make([]float64, cc.Probs.Rows())

	for _, c := range changedFiles {
		idx, ok := cc.Probs.IndexOfCol(c)
		if !ok {
			continue
		}

		col := cc.Probs.Column(idx)
		for i, v := range col {
			sum[i] += v
		}
	}

	result := make(map[string]float64, len(sum))
	for i, v := range sum {
		result[cc.Probs.RowNames[i]] = v
	}

	return result
}

// mixedModel computes frequency the Naive way (date-distance-weighted
// coefficient) and probability the Bayesian way, per the original's
// "Mixed delegates freq to Naive, probs/predict to Bayes" design note.
type mixedModel struct{}

func (mixedModel) calculateFreqs(changes *Changes, opts Options) *CCMatrix {
	return naiveModel{}.calculateFreqs(changes, opts)
}

func (mixedModel) calculateProbs(changes *Changes, freqs *CCMatrix, opts Options) *CCMatrix {
	return bayesianModel{}.calculateProbs(changes, freqs, opts)
}

func (mixedModel) predict(cc *CoChanges, changedFiles []string) map[string]float64 {
	return sumColumnsUndivided(cc, changedFiles)
}
