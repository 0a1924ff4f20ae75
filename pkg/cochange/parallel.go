package cochange

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// freqWorkers bounds the row-band worker pool used by calculateFreqs:
// never more goroutines than there are rows to fill, never more than
// the host has cores for.
func freqWorkers(n int) int {
	workers := runtime.GOMAXPROCS(0)

	if workers > n {
		workers = n
	}

	if workers < 1 {
		workers = 1
	}

	return workers
}

// parallelRows farms row index i in [0, n) out to a bounded worker
// pool. Each row is handled by exactly one goroutine, so concurrent
// fn(i) calls only ever write into their own row of the destination
// matrix and never race each other. The reduction within a row stays
// single-threaded and bit-for-bit deterministic.
func parallelRows(n int, fn func(i int)) {
	if n == 0 {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(freqWorkers(n))

	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)

			return nil
		})
	}

	_ = g.Wait()
}
