// Package report renders fit diagnostics: PNG convergence plots via
// gonum/plot and a standalone HTML report via go-echarts.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/hawkes/internal/hawkes"
)

var paramColors = map[string]color.RGBA{
	"mu": {R: 31, G: 119, B: 180, A: 255},
	"a":  {R: 255, G: 127, B: 14, A: 255},
	"b":  {R: 44, G: 160, B: 44, A: 255},
}

// ConvergencePlots writes two PNGs into dir: the surrogate objective
// per iteration and the three parameter traces.
func ConvergencePlots(trace []hawkes.TracePoint, dir string) error {
	if len(trace) == 0 {
		return fmt.Errorf("empty trace")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create plot dir: %w", err)
	}

	if err := plotSurrogate(trace, filepath.Join(dir, "q_convergence.png")); err != nil {
		return err
	}
	return plotParams(trace, filepath.Join(dir, "parameter_trace.png"))
}

func plotSurrogate(trace []hawkes.TracePoint, path string) error {
	p := plot.New()
	p.Title.Text = "EM Surrogate Objective"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Q"

	pts := make(plotter.XYs, len(trace))
	for i, tp := range trace {
		pts[i].X = float64(tp.Iteration)
		pts[i].Y = tp.Q
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("surrogate line: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func plotParams(trace []hawkes.TracePoint, path string) error {
	p := plot.New()
	p.Title.Text = "Parameter Trace"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Value"
	p.Legend.Top = true

	series := []struct {
		name  string
		value func(hawkes.Params) float64
	}{
		{"mu", func(p hawkes.Params) float64 { return p.Mu }},
		{"a", func(p hawkes.Params) float64 { return p.A }},
		{"b", func(p hawkes.Params) float64 { return p.B }},
	}

	for _, s := range series {
		pts := make(plotter.XYs, len(trace))
		for i, tp := range trace {
			pts[i].X = float64(tp.Iteration)
			pts[i].Y = s.value(tp.Params)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("%s line: %w", s.name, err)
		}
		line.Width = vg.Points(1)
		line.Color = paramColors[s.name]
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
