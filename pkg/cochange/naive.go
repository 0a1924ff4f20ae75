package cochange

import (
	"math"
	"time"

	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

const naiveZeroTolerance = 1e-5

// datesDistanceSmoother reshapes a raw day-gap before it is inverted into
// a weight. The default is √x; injectable so experiments with alternate
// decay curves don't require touching the coefficient math.
type datesDistanceSmoother func(float64) float64

func sqrtSmoother(x float64) float64 {
	return math.Sqrt(x)
}

func newCCMatrix(rowNames, colNames []string, rowDimName, colDimName string) *CCMatrix {
	return labelmatrix.New(rowNames, colNames, rowDimName, colDimName)
}

// datesDistance builds the dates-distance matrix D. For i > j, D[i,j] =
// 1 / smooth(daysBetween(dates[i], dates[j]) + 1): the further apart two
// bins are, the smaller the weight. For i <= j the raw gap is defined as
// zero, which still passes through the same +1/smooth/reciprocal
// transform and so settles at 1/smooth(1) = 1 — every cell is live, the
// coefficient sum below just never reads the j > i half.
func datesDistance(dates []Bin, smooth datesDistanceSmoother) [][]float64 {
	n := len(dates)
	d := make([][]float64, n)

	for i := range d {
		d[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		d1 := time.Time(dates[i])

		for j := 0; j < n; j++ {
			days := 0.0

			if i > j {
				d2 := time.Time(dates[j])
				days = d1.Sub(d2).Hours() / 24
			}

			d[i][j] = 1 / smooth(days+1)
		}
	}

	return d
}

type naiveModel struct{}

// ccCoefficient sums the dates-distance weight for every bin pair where
// f1 recorded a change and f2 changed exactly once in some bin at or
// before it — the inner loop is intentionally inclusive of j == i.
func ccCoefficient(f1, f2 []float64, datesDist [][]float64) float64 {
	coeff := 0.0
	n := len(f1)

	for i := n - 1; i >= 0; i-- {
		if f1[i] < naiveZeroTolerance {
			continue
		}

		for j := i; j >= 0; j-- {
			if math.Abs(f2[j]-1) < naiveZeroTolerance {
				coeff += datesDist[i][j]
			}
		}
	}

	return coeff
}

func (naiveModel) calculateFreqs(changes *Changes, opts Options) *CCMatrix {
	filtRows := filteredRowNames(changes, opts)

	cc := newCCMatrix(filtRows, filtRows, "impacted", "changed")

	datesDist := datesDistance(changes.F.ColNames, sqrtSmoother)

	n := len(filtRows)
	parallelRows(n, func(i int) {
		rowI := changesRow(changes, filtRows[i])

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			rowJ := changesRow(changes, filtRows[j])
			cc.Set(i, j, ccCoefficient(rowI, rowJ, datesDist))
		}
	})

	filterFreqs(cc, opts.FreqMin)

	return cc
}

func (naiveModel) calculateProbs(_ *Changes, freqs *CCMatrix, _ Options) *CCMatrix {
	cc := newCCMatrix(freqs.RowNames, freqs.RowNames, "impacted", "changing")

	for j := 0; j < freqs.Cols(); j++ {
		col := freqs.Column(j)

		sum := 0.0
		for _, v := range col {
			sum += v
		}

		for i, v := range col {
			cc.Set(i, j, v/sum)
		}
	}

	return cc
}

func (naiveModel) predict(cc *CoChanges, changedFiles []string) map[string]float64 {
	indices := make([]int, 0, len(changedFiles))

	for _, c := range changedFiles {
		if idx, ok := cc.Probs.IndexOfCol(c); ok {
			indices = append(indices, idx)
		}
	}

	sum := make([]float64, cc.Probs.Rows())

	for _, idx := range indices {
		col := cc.Probs.Column(idx)
		for i, v := range col {
			sum[i] += v
		}
	}

	n := float64(len(indices))

	result := make(map[string]float64, len(sum))

	for i, v := range sum {
		if n > 0 {
			v /= n
		} else {
			v = 0
		}

		result[cc.Probs.RowNames[i]] = v
	}

	return result
}

// changesRow returns the changes matrix row for a file label, which is
// guaranteed present because filteredRowNames only returns labels that
// already exist in changes.F.
func changesRow(changes *Changes, file string) []float64 {
	idx, ok := changes.F.IndexOfRow(file)
	if !ok {
		return make([]float64, changes.F.Cols())
	}

	return changes.F.Row(idx)
}
