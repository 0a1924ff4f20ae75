package cochange

import (
	"sort"
	"time"

	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

// Changes holds the changes matrix F (files × bins) together with the
// per-file change frequency and change probability vectors derived from
// it. It is the sole input the co-change engine and ripple predictor
// consume.
type Changes struct {
	F     *labelmatrix.Matrix[string, Bin]
	CFreq []float64
	CProb []float64
}

// BuildChanges runs commit-diff intake and changes-matrix construction
// over diffs. An empty map yields an empty (0×0) Changes, not an error.
func BuildChanges(diffs map[Bin]DiffRecord) *Changes {
	intern := newInterner()

	fileSet := make(map[string]struct{})

	for _, rec := range diffs {
		for _, f := range rec.NewFiles {
			fileSet[intern.intern(f)] = struct{}{}
		}
	}

	files := make([]string, 0, len(fileSet))
	for f := range fileSet {
		files = append(files, f)
	}

	sort.Strings(files)

	bins := make([]Bin, 0, len(diffs))
	for b := range diffs {
		bins = append(bins, b)
	}

	sort.Slice(bins, func(i, j int) bool { return time.Time(bins[i]).Before(time.Time(bins[j])) })

	matrix := labelmatrix.New(files, bins, "files", "dates")

	for bin, rec := range diffs {
		col, ok := matrix.IndexOfCol(bin)
		if !ok {
			continue
		}

		for _, f := range rec.NewFiles {
			row, ok := matrix.IndexOfRow(f)
			if !ok {
				continue
			}

			matrix.Add(row, col, 1)
		}
	}

	n := matrix.Rows()
	cFreq := make([]float64, n)
	cProb := make([]float64, n)

	for i := range n {
		sum := 0.0
		for _, v := range matrix.Row(i) {
			sum += v
		}

		cFreq[i] = sum
		if n > 0 {
			cProb[i] = sum / float64(n)
		}
	}

	return &Changes{F: matrix, CFreq: cFreq, CProb: cProb}
}
