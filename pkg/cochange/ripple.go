package cochange

import "time"

// PredictionWindow selects the slice of bins a ripple prediction is based
// on. Skip short-circuits to an empty ripple regardless of since/until.
type PredictionWindow struct {
	Skip      bool
	Since     Bin
	Until     Bin
	Algorithm Algorithm
}

// Ripple is the outcome of §4.5: the ordered set of files considered
// "changing" within the window, and the resulting per-file impact vector
// keyed by row label of Π. An empty Values map is a valid result (skip,
// empty window, or Nop algorithm all produce one).
type Ripple struct {
	ChangingFiles []string
	Values        map[string]float64
}

// Predict runs the Ripple Predictor. It selects the window, determines
// which files changed within it, and dispatches to the configured
// algorithm's predictor over the already-computed co-change bundle cc.
func Predict(changes *Changes, cc *CoChanges, window PredictionWindow) Ripple {
	if window.Skip {
		return Ripple{Values: map[string]float64{}}
	}

	start, end, ok := windowRange(changes.F.ColNames, window.Since, window.Until)
	if !ok {
		return Ripple{Values: map[string]float64{}}
	}

	changing := changingFiles(changes, start, end)

	m := modelFor(window.Algorithm)
	values := m.predict(cc, changing)

	return Ripple{ChangingFiles: changing, Values: values}
}

// windowRange scans the (already sorted ascending) bin axis for indices
// within [since, until], then returns the half-open span [start, end)
// spanning the minimum to the maximum matched index. This deliberately
// excludes the rightmost matching bin — see §9, reproduced verbatim from
// the original source's observable test behavior.
func windowRange(bins []Bin, since, until Bin) (start, end int, ok bool) {
	matched := -1
	first := -1

	for i, b := range bins {
		t := time.Time(b)
		if t.Before(time.Time(since)) || t.After(time.Time(until)) {
			continue
		}

		if first == -1 {
			first = i
		}

		matched = i
	}

	if first == -1 {
		return 0, 0, false
	}

	return first, matched, true
}

// changingFiles returns the file labels with at least one change in
// columns [start, end) of the changes matrix, in row order.
func changingFiles(changes *Changes, start, end int) []string {
	var out []string

	for i, name := range changes.F.RowNames {
		row := changes.F.Row(i)

		sum := 0.0
		for j := start; j < end && j < len(row); j++ {
			sum += row[j]
		}

		if sum > 0 {
			out = append(out, name)
		}
	}

	return out
}
