// Package report renders crossover run results for review: an interactive
// HTML chart of the field differences and a PNG map of the crossing locations.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/crossover.report/internal/xover"
)

// WriteHTML renders a scatter of per-field crossover differences against mean
// along-track distance, one series per field.
func WriteHTML(w io.Writer, runID string, fieldNames []string, records []xover.Record) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Crossover Differences", Theme: "dark", Width: "1200px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Crossover Differences", Subtitle: fmt.Sprintf("run=%s crossovers=%d", runID, len(records))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Mean along-track distance", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Difference", NameLocation: "middle", NameGap: 40}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for j, name := range fieldNames {
		data := make([]opts.ScatterData, 0, len(records))
		for _, rec := range records {
			if j >= len(rec.Fields) {
				continue
			}
			diff := rec.Fields[j].V1
			if math.IsNaN(diff) {
				continue
			}
			dist := 0.5 * (rec.Dist[0] + rec.Dist[1])
			data = append(data, opts.ScatterData{Value: []interface{}{dist, diff}})
		}
		scatter.AddSeries(name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %v", err)
	}
	return nil
}
