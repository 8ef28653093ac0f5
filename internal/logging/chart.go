package logging

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"walkerga/internal/ga"
)

// WriteChart renders the fitness history as an HTML line chart
func WriteChart(path string, history []ga.GenerationRecord) error {
	if len(history) == 0 {
		return fmt.Errorf("empty history")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Fitness history",
			Subtitle: "lower is better",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "generation"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "score",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	gens := make([]int, len(history))
	best := make([]opts.LineData, len(history))
	mean := make([]opts.LineData, len(history))
	global := make([]opts.LineData, len(history))
	for i, r := range history {
		gens[i] = r.Generation
		best[i] = opts.LineData{Value: r.Best}
		mean[i] = opts.LineData{Value: r.Mean}
		global[i] = opts.LineData{Value: r.GlobalBest}
	}

	line.SetXAxis(gens).
		AddSeries("generation best", best).
		AddSeries("generation mean", mean).
		AddSeries("global best", global)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}
