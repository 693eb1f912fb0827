package main

import (
	"fmt"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/edp1096/toy-mie/pkg/scene"
)

func series(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// plotResults draws coefficient norms against k for sweeps and wall times
// against chain length for scaling runs.
func plotResults(data *scene.SceneData, results map[string][]float64, filename string) error {
	p := plot.New()
	var lines []any

	switch data.Analysis {
	case scene.AnalysisSweep:
		p.Title.Text = data.Title
		p.X.Label.Text = "k"
		p.Y.Label.Text = "norm"
		if data.SweepParam.Sweep != "LIN" {
			p.X.Scale = plot.LogScale{}
			p.X.Tick.Marker = plot.LogTicks{Prec: -1}
		}
		for _, name := range getKeys(results) {
			if strings.HasPrefix(name, "|") {
				lines = append(lines, name, series(results["K"], results[name]))
			}
		}

	case scene.AnalysisScaling:
		p.Title.Text = data.Title + " scaling"
		p.X.Label.Text = "particles"
		p.Y.Label.Text = "seconds"
		for _, name := range []string{"BUILD", "SOLVE", "SCATTER"} {
			lines = append(lines, strings.ToLower(name), series(results["N"], results[name]))
		}

	default:
		return fmt.Errorf("nothing to plot for a single point")
	}

	if err := plotutil.AddLinePoints(p, lines...); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filename)
}
