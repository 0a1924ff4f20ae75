package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ripplemine/ripplemine/pkg/labelmatrix"
)

const fullZoomPct = 100

// Heatmap renders a labeled matrix (Φ or Π) as an interactive HTML
// heatmap and writes the standalone page to w.
func Heatmap(w io.Writer, title, subtitle string, m *labelmatrix.Matrix[string, string]) error {
	chart := buildHeatmapChart(title, subtitle, m)

	if err := chart.Render(w); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}

	return nil
}

func buildHeatmapChart(title, subtitle string, m *labelmatrix.Matrix[string, string]) *charts.HeatMap {
	hm := charts.NewHeatMap()

	if m.Rows() == 0 || m.Cols() == 0 {
		hm.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data"}))

		return hm
	}

	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: fullZoomPct}, opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      m.ColNames,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      m.RowNames,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        findMax(m),
			InRange:    &opts.VisualMapInRange{Color: []string{"#f6efa6", "#d88273", "#bf444c"}},
		}),
	)

	data := make([]opts.HeatMapData, 0, m.Rows()*m.Cols())

	for i := range m.RowNames {
		for j := range m.ColNames {
			v := m.At(i, j)
			if v != v { // NaN never renders as a heat value
				continue
			}

			data = append(data, opts.HeatMapData{Value: []any{j, i, v}})
		}
	}

	hm.AddSeries(title, data)

	return hm
}

func findMax(m *labelmatrix.Matrix[string, string]) float64 {
	var maxVal float64

	for i := range m.RowNames {
		for j := range m.ColNames {
			v := m.At(i, j)
			if v == v && v > maxVal {
				maxVal = v
			}
		}
	}

	return maxVal
}
