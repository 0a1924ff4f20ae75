package sink

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ripplemine/ripplemine/pkg/analysis"
)

// yamlMatrix is the serializable form of a labeled matrix: row/column
// labels alongside the dense grid, since yaml.v3 has no notion of our
// generic labelmatrix.Matrix type.
type yamlMatrix struct {
	Rows   []string    `yaml:"rows"`
	Cols   []string    `yaml:"cols"`
	Values [][]float64 `yaml:"values"`
}

type yamlArtifacts struct {
	Freqs  yamlMatrix         `yaml:"freqs"`
	Probs  yamlMatrix         `yaml:"probs"`
	Ripple map[string]float64 `yaml:"ripple"`
}

// YAML writes Φ, Π, and the ripple vector as a single YAML document.
type YAML struct {
	Writer io.Writer
}

// Emit implements analysis.ArtifactSink.
func (s YAML) Emit(_ context.Context, a analysis.Artifacts) error {
	doc := yamlArtifacts{
		Freqs:  toYAMLMatrix(a.CoChange.Freqs.RowNames, a.CoChange.Freqs.ColNames, a.CoChange.Freqs.Values),
		Probs:  toYAMLMatrix(a.CoChange.Probs.RowNames, a.CoChange.Probs.ColNames, a.CoChange.Probs.Values),
		Ripple: a.Ripple.Values,
	}

	enc := yaml.NewEncoder(s.Writer)
	defer enc.Close()

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode yaml artifacts: %w", err)
	}

	return nil
}

func toYAMLMatrix(rows, cols []string, values [][]float64) yamlMatrix {
	return yamlMatrix{Rows: rows, Cols: cols, Values: values}
}
