// Package render formats co-change artifacts (Φ, Π, and the ripple
// prediction) for terminal and browser display. It is a presentation
// layer only: it never mutates the values it renders, it filters and
// sorts a copy for display. The display filter (probabilities below
// 1e-2 suppressed, the rest sorted descending) lives here, not in
// pkg/cochange, since it is a presentation concern rather than part of
// the matrices themselves.
package render

const displayThreshold = 1e-2

// RipplePair is one (file, probability) entry from a ripple prediction,
// ready for display.
type RipplePair struct {
	File        string
	Probability float64
}
