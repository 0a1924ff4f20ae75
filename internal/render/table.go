package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ripplemine/ripplemine/pkg/cochange"
	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

// MatrixTable renders a labeled float64 matrix (Φ or Π) as a go-pretty
// table, one row per RowNames entry, one column per ColNames entry.
func MatrixTable(w io.Writer, title string, m *labelmatrix.Matrix[string, string]) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)

	header := make(table.Row, 0, len(m.ColNames)+1)
	header = append(header, "")

	for _, col := range m.ColNames {
		header = append(header, col)
	}

	tbl.AppendHeader(header)

	for i, row := range m.RowNames {
		record := make(table.Row, 0, len(m.ColNames)+1)
		record = append(record, row)

		for j := range m.ColNames {
			record = append(record, fmt.Sprintf("%.4f", m.At(i, j)))
		}

		tbl.AppendRow(record)
	}

	tbl.Render()
}

// RippleTable renders a ripple prediction, suppressing probabilities
// below the display threshold and sorting the rest descending.
func RippleTable(w io.Writer, ripple cochange.Ripple) {
	pairs := FilterAndSort(ripple)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle("Ripple prediction")
	tbl.AppendHeader(table.Row{"File", "Probability"})

	highlight := color.New(color.FgRed, color.Bold)
	ok := color.New(color.FgGreen)

	for _, p := range pairs {
		label := fmt.Sprintf("%.4f", p.Probability)
		if p.Probability >= 0.5 {
			label = highlight.Sprint(label)
		} else {
			label = ok.Sprint(label)
		}

		tbl.AppendRow(table.Row{p.File, label})
	}

	tbl.AppendFooter(table.Row{"Changing files", len(ripple.ChangingFiles)})
	tbl.Render()
}

// FilterAndSort applies the display guarantee from the ripple output
// contract: entries with probability < 1e-2 are dropped (this also
// discards NaN entries, since every comparison against NaN is false),
// and the rest are sorted by probability descending.
func FilterAndSort(ripple cochange.Ripple) []RipplePair {
	pairs := make([]RipplePair, 0, len(ripple.Values))

	for file, prob := range ripple.Values {
		if prob < displayThreshold {
			continue
		}

		pairs = append(pairs, RipplePair{File: file, Probability: prob})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Probability != pairs[j].Probability {
			return pairs[i].Probability > pairs[j].Probability
		}

		return pairs[i].File < pairs[j].File
	})

	return pairs
}
