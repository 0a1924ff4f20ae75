// Package sink provides analysis.ArtifactSink implementations that
// persist Φ, Π, and the ripple vector; the changes matrix F is not
// written by either sink. The core pipeline never
// constructs one of these; file layout and format are entirely out of
// the core's scope (see spec §1, external collaborators).
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ripplemine/ripplemine/pkg/analysis"
	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

// CSV writes Φ, Π, and the ripple vector as three separate CSV tables
// to the given writers. Any writer left nil skips that artifact.
type CSV struct {
	Freqs  io.Writer
	Probs  io.Writer
	Ripple io.Writer
}

// Emit implements analysis.ArtifactSink.
func (s CSV) Emit(_ context.Context, a analysis.Artifacts) error {
	if s.Freqs != nil {
		if err := writeMatrixCSV(s.Freqs, a.CoChange.Freqs); err != nil {
			return fmt.Errorf("write freqs csv: %w", err)
		}
	}

	if s.Probs != nil {
		if err := writeMatrixCSV(s.Probs, a.CoChange.Probs); err != nil {
			return fmt.Errorf("write probs csv: %w", err)
		}
	}

	if s.Ripple != nil {
		if err := writeRippleCSV(s.Ripple, a.Ripple); err != nil {
			return fmt.Errorf("write ripple csv: %w", err)
		}
	}

	return nil
}

func writeMatrixCSV(w io.Writer, m *labelmatrix.Matrix[string, string]) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := append([]string{""}, m.ColNames...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, row := range m.RowNames {
		record := make([]string, 0, len(m.ColNames)+1)
		record = append(record, row)

		for j := range m.ColNames {
			record = append(record, strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	return cw.Error()
}

func writeRippleCSV(w io.Writer, r cochange.Ripple) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"file", "probability"}); err != nil {
		return err
	}

	for file, prob := range r.Values {
		if err := cw.Write([]string{file, strconv.FormatFloat(prob, 'g', -1, 64)}); err != nil {
			return err
		}
	}

	return cw.Error()
}
