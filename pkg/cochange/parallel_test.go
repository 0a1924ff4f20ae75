package cochange

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

func TestParallelRows_VisitsEveryIndexExactlyOnce(t *testing.T) {
	t.Parallel()

	const n = 37

	var mu sync.Mutex

	seen := make(map[int]int, n)

	parallelRows(n, func(i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})

	assert.Len(t, seen, n)

	for i := 0; i < n; i++ {
		assert.Equal(t, 1, seen[i], "index %d visited %d times", i, seen[i])
	}
}

func TestParallelRows_EmptyIsNoop(t *testing.T) {
	t.Parallel()

	called := false

	parallelRows(0, func(int) { called = true })

	assert.False(t, called)
}

func TestFreqWorkers_NeverExceedsRowCount(t *testing.T) {
	t.Parallel()

	assert.LessOrEqual(t, freqWorkers(1), 1)
	assert.GreaterOrEqual(t, freqWorkers(1000), 1)
}

func TestNaiveModel_CalculateFreqs_MatchesSequentialReduction(t *testing.T) {
	t.Parallel()

	changes := buildSampleChangesForParallelTest()

	cc := naiveModel{}.calculateFreqs(changes, Options{})

	filtRows := filteredRowNames(changes, Options{})
	datesDist := datesDistance(changes.F.ColNames, sqrtSmoother)

	for i, ri := range filtRows {
		rowI := changesRow(changes, ri)

		for j, rj := range filtRows {
			if i == j {
				continue
			}

			rowJ := changesRow(changes, rj)
			want := ccCoefficient(rowI, rowJ, datesDist)
			assert.InDelta(t, want, cc.At(i, j), 1e-12)
		}
	}
}

func buildSampleChangesForParallelTest() *Changes {
	now := time.Now()

	bins := make([]Bin, 6)
	for i := range bins {
		bins[i] = Bin(now.AddDate(0, 0, i))
	}

	rows := []string{"a.go", "b.go", "c.go", "d.go", "e.go"}

	f := labelmatrix.New(rows, bins, "files", "dates")
	for i := range rows {
		for j := range bins {
			if (i+j)%2 == 0 {
				f.Set(i, j, 1)
			}
		}
	}

	return &Changes{F: f, CFreq: make([]float64, len(rows)), CProb: make([]float64, len(rows))}
}
