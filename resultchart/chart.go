// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resultchart draws per-category solver comparisons.
package resultchart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/eli-b/mapf/resultproc"
	"github.com/eli-b/mapf/resultstat"
)

// A Chart is a plot with the file name it is saved under, without
// extension.
type Chart struct {
	Name string
	Plot *plot.Plot
}

// Size of a saved chart.
const (
	Width  = 16 * vg.Centimeter
	Height = 10 * vg.Centimeter
	DPI    = 150
)

const pointRad = 2

var nan = math.NaN()

// A series is one solver's values, with NaN for categories where the
// value is absent.
type series struct {
	solver string
	ys     []float64
}

// SuccessRate plots the success rate of each solver, in percent,
// against category.
func SuccessRate(s *resultstat.Summary) (*plot.Plot, error) {
	var ss []series
	for _, solver := range s.Solvers {
		ys := make([]float64, len(s.Categories))
		for i, c := range s.Categories {
			ys[i] = nan
			if r, ok := s.SuccessRate(c, solver); ok {
				ys[i] = 100 * r
			}
		}
		ss = append(ss, series{solver, ys})
	}
	p, err := newPlot(s, ss, false)
	if err != nil {
		return nil, err
	}
	p.Title.Text = "Success rate"
	p.Y.Label.Text = "Success rate (%)"
	p.Y.Min, p.Y.Max = 0, 100
	return p, nil
}

// Average plots the average of family for each solver against
// category, over instances all relevant solvers solved. The Y axis is
// logarithmic when every plotted value is positive and not all values
// are equal.
func Average(s *resultstat.Summary, family resultproc.Family) (*plot.Plot, error) {
	var ss []series
	for _, solver := range s.Solvers {
		ys := make([]float64, len(s.Categories))
		for i, c := range s.Categories {
			ys[i] = nan
			if v, ok := s.Average(c, solver, family); ok {
				ys[i] = v
			}
		}
		ss = append(ss, series{solver, ys})
	}
	p, err := newPlot(s, ss, true)
	if err != nil {
		return nil, err
	}
	p.Title.Text = "Average " + family.String()
	p.Y.Label.Text = family.String()
	return p, nil
}

// All returns the success rate chart and one average chart per family
// in s.
func All(s *resultstat.Summary) ([]Chart, error) {
	p, err := SuccessRate(s)
	if err != nil {
		return nil, err
	}
	charts := []Chart{{"success-rate", p}}
	for _, f := range s.Families {
		p, err := Average(s, f)
		if err != nil {
			return nil, fmt.Errorf("charting %s: %w", f, err)
		}
		charts = append(charts, Chart{"average-" + fileName(f.String()), p})
	}
	return charts, nil
}

// fileName turns a family name such as "Generated (HL)" into
// "generated-hl".
func fileName(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("(", "", ")", "", "/", "-").Replace(s)
	return strings.Join(strings.Fields(s), "-")
}

func newPlot(s *resultstat.Summary, ss []series, allowLog bool) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = s.GroupBy
	p.Legend.Top = true
	p.Legend.Left = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	// Categories are plotted at their own value so uneven steps
	// keep their spacing.
	ticks := make([]plot.Tick, len(s.Categories))
	for i, c := range s.Categories {
		ticks[i] = plot.Tick{Value: float64(c), Label: strconv.Itoa(c)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	// A log axis needs a positive, non-degenerate range; a
	// degenerate range is widened by 1 on each side, which may cross
	// zero.
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, sr := range ss {
		for _, y := range sr.ys {
			if !math.IsNaN(y) {
				lo, hi = math.Min(lo, y), math.Max(hi, y)
			}
		}
	}
	if allowLog && lo > 0 && hi > lo {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}

	for i, sr := range ss {
		var all plotter.XYs
		var thumbs []plot.Thumbnailer
		for _, seg := range segments(s.Categories, sr.ys) {
			all = append(all, seg...)
			if len(seg) < 2 {
				continue
			}
			l, err := plotter.NewLine(seg)
			if err != nil {
				return nil, err
			}
			l.LineStyle.Color = plotutil.Color(i)
			l.LineStyle.Width = vg.Points(1)
			p.Add(l)
			if len(thumbs) == 0 {
				thumbs = append(thumbs, l)
			}
		}
		if len(all) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(all)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = plotutil.Shape(i)
		sc.GlyphStyle.Radius = vg.Points(pointRad)
		p.Add(sc)
		p.Legend.Add(sr.solver, append(thumbs, sc)...)
	}
	return p, nil
}

// segments splits a series at absent values, so lines are not drawn
// across categories where the value is undefined.
func segments(categories []int, ys []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, y := range ys {
		if math.IsNaN(y) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(categories[i]), Y: y})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Write draws p in the given format, which is one of "png", "svg", or
// "pdf", and writes it to w.
func Write(w io.Writer, p *plot.Plot, format string) error {
	var c vg.CanvasWriterTo
	switch format {
	case "png":
		c = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(Width, Height),
			vgimg.UseDPI(DPI), vgimg.UseBackgroundColor(color.White))}
	case "svg":
		c = vgsvg.New(Width, Height)
	case "pdf":
		c = vgpdf.New(Width, Height)
	default:
		return fmt.Errorf("unsupported chart format %q", format)
	}
	p.Draw(draw.New(c))
	_, err := c.WriteTo(w)
	return err
}

// Save writes each chart to dir/<name>.<format>. If create is nil,
// charts are written to the local disk and dir is created if needed;
// otherwise create opens each output, which lets dir name remote
// storage.
func Save(dir, format string, charts []Chart, create func(path string) (io.WriteCloser, error)) error {
	join := func(name string) string { return strings.TrimSuffix(dir, "/") + "/" + name }
	if create == nil {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return err
		}
		join = func(name string) string { return filepath.Join(dir, name) }
		create = func(path string) (io.WriteCloser, error) { return os.Create(path) }
	}
	for _, c := range charts {
		path := join(c.Name + "." + format)
		f, err := create(path)
		if err != nil {
			return err
		}
		err = Write(f, c.Plot, format)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
