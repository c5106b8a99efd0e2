package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/hawkes/internal/hawkes"
)

// intensitySamples controls the resolution of the fitted intensity
// curve in the HTML report.
const intensitySamples = 600

// HTMLReport writes a standalone HTML page with the fitted conditional
// intensity over the event sequence, the observed events, and the
// surrogate objective trajectory.
func HTMLReport(t []float64, params hawkes.Params, trace []hawkes.TracePoint, path string) error {
	if len(t) < 2 {
		return fmt.Errorf("need at least 2 events, got %d", len(t))
	}

	page := components.NewPage()
	page.AddCharts(intensityChart(t, params), surrogateChart(trace))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

func intensityChart(t []float64, params hawkes.Params) components.Charter {
	start, end := t[0], t[len(t)-1]
	step := (end - start) / float64(intensitySamples-1)

	xs := make([]string, intensitySamples)
	ys := make([]opts.LineData, intensitySamples)
	for i := 0; i < intensitySamples; i++ {
		x := start + float64(i)*step
		xs[i] = fmt.Sprintf("%.3f", x)
		ys[i] = opts.LineData{Value: hawkes.Intensity(params, t, x)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Fitted Conditional Intensity",
			Subtitle: fmt.Sprintf("n=%d %s branching=%.3f", len(t), params, params.BranchingRatio()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "t"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "lambda(t)"}),
	)
	line.SetXAxis(xs).AddSeries("intensity", ys,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}))

	return line
}

func surrogateChart(trace []hawkes.TracePoint) components.Charter {
	xs := make([]string, len(trace))
	ys := make([]opts.LineData, len(trace))
	for i, tp := range trace {
		xs[i] = fmt.Sprintf("%d", tp.Iteration)
		ys[i] = opts.LineData{Value: tp.Q}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Surrogate Objective", Subtitle: "per EM iteration"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Q"}),
	)
	line.SetXAxis(xs).AddSeries("Q", ys,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))

	return line
}
