// Package export renders stored filter results as PNG charts.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/padsim/internal/filter"
)

var ErrNoData = errors.New("export: nothing to plot")

const (
	plotWidth  = 10 * vg.Inch
	plotHeight = 5 * vg.Inch
)

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

func placeLegend(p *plot.Plot) {
	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
}

// TracePNG plots the corrected probability of each pad against the step
// angle. traces maps pad id to one value per angle.
func TracePNG(path, title string, angles []float64, traces map[int][]float64) error {
	if len(angles) == 0 || len(traces) == 0 {
		return ErrNoData
	}

	ids := make([]int, 0, len(traces))
	for id, ys := range traces {
		if len(ys) != len(angles) {
			return fmt.Errorf("export: pad %d has %d points for %d angles", id, len(ys), len(angles))
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Step"
	p.Y.Label.Text = "Corrected probability"
	p.Y.Min = 0

	for i, id := range ids {
		pts := make(plotter.XYs, len(angles))
		for k := range angles {
			pts[k] = plotter.XY{X: float64(k), Y: traces[id][k]}
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("pad %d", id), line, points)
	}

	ticks := make([]plot.Tick, len(angles))
	for k, a := range angles {
		ticks[k] = plot.Tick{Value: float64(k), Label: fmt.Sprintf("%g°", a)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	placeLegend(p)

	if err := ensureDir(path); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}

// StepBarsPNG draws predicted and corrected probability side by side for
// every pad of one step.
func StepBarsPNG(path string, r *filter.SimulationResult) error {
	if r == nil || len(r.Steps) == 0 {
		return ErrNoData
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s at %.1f°", r.Subject, r.Angle)
	p.X.Label.Text = "Pad"
	p.Y.Label.Text = "Probability"

	w := vg.Points(8)
	series := []struct {
		name   string
		values []float64
	}{
		{"predicted", r.Predicted()},
		{"corrected", r.Corrected()},
	}
	for i, s := range series {
		bars, err := plotter.NewBarChart(plotter.Values(s.values), w)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = w * vg.Length(2*i-1) / 2
		p.Add(bars)
		p.Legend.Add(s.name, bars)
	}

	labels := make([]string, len(r.Steps))
	for i, s := range r.Steps {
		labels[i] = fmt.Sprintf("%d", s.PadID)
	}
	p.NominalX(labels...)
	placeLegend(p)

	if err := ensureDir(path); err != nil {
		return err
	}
	return p.Save(plotWidth, plotHeight, path)
}
