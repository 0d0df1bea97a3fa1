// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/plot"
	svg "github.com/ajstarks/svgo"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	svgFont        = "font-family:sans-serif"
	svgLegendWidth = 150
)

func writeSVG(w io.Writer, pg *Page, opts Options) error {
	width, height := opts.Pixels()
	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	if pg.Title != "" {
		canvas.Text(width/2, titleHeight-8, pg.Title, "text-anchor:middle;font-size:18px;"+svgFont)
	}
	colors := pg.traceColors()
	for i, r := range pg.cells(width, height) {
		if err := svgPanel(canvas, r, pg.Panels[i].Instance, colors, opts); err != nil {
			return err
		}
	}
	canvas.End()
	return nil
}

// svgPanel draws in into r of canvas. The plot itself is drawn by gg
// and nested as its own svg element.
func svgPanel(canvas *svg.SVG, r rect, in *plot.Instance, colors map[string]drawing.Color, opts Options) error {
	if !drawable(in) {
		canvas.Rect(r.x+4, r.y+4, r.w-8, r.h-8, "fill:none;stroke:#ccc")
		canvas.Text(r.x+r.w/2, r.y+24, in.Title, "text-anchor:middle;font-size:14px;"+svgFont)
		canvas.Text(r.x+r.w/2, r.y+r.h/2, "No data", "text-anchor:middle;font-size:14px;fill:#888;"+svgFont)
		return nil
	}

	xr, yr := extent(in)
	markers := in.Markers(xr, yr, opts.Config)
	type entry struct {
		label  string
		color  drawing.Color
		marker bool
	}
	var entries []entry
	for _, i := range legend(in.Traces) {
		entries = append(entries, entry{in.Traces[i].Label, colors[in.Traces[i].Label], false})
	}
	for _, m := range markers {
		if m.Label != "" {
			entries = append(entries, entry{m.Label, markerColor(m.Color), true})
		}
	}
	lw := 0
	if len(entries) > 0 {
		lw = svgLegendWidth
	}

	var buf bytes.Buffer
	if err := ggPanel(in, xr, yr, markers, colors, opts).WriteSVG(&buf, r.w-lw, r.h); err != nil {
		return fmt.Errorf("%s: %w", in.Title, err)
	}
	out := buf.String()
	i := strings.Index(out, "<svg")
	if i < 0 {
		return fmt.Errorf("%s: plot produced no svg element", in.Title)
	}
	fmt.Fprintf(canvas.Writer, "<svg x=\"%d\" y=\"%d\"%s\n", r.x, r.y, out[i+len("<svg"):])

	x0 := r.x + r.w - lw + 8
	for k, e := range entries {
		y := r.y + 40 + 18*k
		if e.marker {
			canvas.Circle(x0+10, y-4, 4, "fill:"+cssColor(e.color))
		} else {
			canvas.Line(x0, y-4, x0+20, y-4, "stroke-width:2;stroke:"+cssColor(e.color))
		}
		canvas.Text(x0+26, y, e.label, "font-size:12px;"+svgFont)
	}
	return nil
}

func cssColor(c drawing.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ggPanel builds the gg plot of in.
func ggPanel(in *plot.Instance, xr, yr limits.Range, markers []plot.PlacedMarker, colors map[string]drawing.Color, opts Options) *gg.Plot {
	req := in.Request

	var xs, ys []float64
	var ids []int
	var strokes []color.Color
	for i, tr := range in.Traces {
		for j := range tr.X {
			xs, ys = append(xs, tr.X[j]), append(ys, tr.Y[j])
			ids, strokes = append(ids, i), append(strokes, colors[tr.Label])
		}
	}
	p := gg.NewPlot(new(table.Builder).
		Add("x", xs).Add("y", ys).Add("trace", ids).Add("color", strokes).
		Done())

	p.SetScale("stroke", gg.NewIdentityScale())
	p.SetScale("fill", gg.NewIdentityScale())
	xscale, yscale := gg.NewLinearScaler(), gg.NewLinearScaler()
	if in.XLim != nil {
		xscale.SetMin(in.XLim.Min).SetMax(in.XLim.Max)
	}
	if in.YLim != nil {
		yscale.SetMin(in.YLim.Min).SetMax(in.YLim.Max)
	}
	if f := xFormatter(in); f != nil {
		xscale.SetFormatter(f)
	}
	p.SetScale("x", xscale)
	p.SetScale("y", yscale)

	// Bands go under the lines.
	var bx, lower, upper []float64
	var bids []int
	var fills []color.Color
	for i, tr := range in.Traces {
		if !tr.HasBand() {
			continue
		}
		fill := withAlpha(colors[tr.Label], opts.BandOpacity)
		for j := range tr.X {
			bx, lower, upper = append(bx, tr.X[j]), append(lower, tr.Lower[j]), append(upper, tr.Upper[j])
			bids, fills = append(bids, i), append(fills, fill)
		}
	}
	if len(bx) > 0 {
		p.Save()
		p.SetData(new(table.Builder).
			Add("x", bx).Add("lower", lower).Add("upper", upper).Add("trace", bids).Add("fill", fills).
			Done())
		p.GroupBy("trace")
		p.Add(gg.LayerArea{X: "x", Upper: "upper", Lower: "lower", Fill: "fill"})
		p.Restore()
	}

	p.Save()
	p.GroupBy("trace")
	if req.StyleLine {
		p.Add(gg.LayerLines{X: "x", Y: "y", Color: "color"})
	}
	if req.StyleMarker || !req.StyleLine {
		p.Add(gg.LayerPoints{X: "x", Y: "y", Color: "color"})
	}
	p.Restore()

	var segs segments
	for _, h := range req.HLines {
		segs.add(xr.Min, h, xr.Max, h, refLineColor)
	}
	for _, v := range req.VLines {
		segs.add(v, yr.Min, v, yr.Max, refLineColor)
	}
	var mx, my []float64
	var mcolors []color.Color
	for _, m := range markers {
		c := markerColor(m.Color)
		if m.XErr > 0 {
			segs.add(m.X-m.XErr, m.Y, m.X+m.XErr, m.Y, c)
		}
		if m.YErr > 0 {
			segs.add(m.X, m.Y-m.YErr, m.X, m.Y+m.YErr, c)
		}
		mx, my, mcolors = append(mx, m.X), append(my, m.Y), append(mcolors, c)
	}
	if len(segs.x) > 0 {
		p.Save()
		p.SetData(segs.table())
		p.GroupBy("seg")
		p.Add(gg.LayerPaths{X: "x", Y: "y", Color: "color"})
		p.Restore()
	}
	if len(mx) > 0 {
		p.Save()
		p.SetData(new(table.Builder).Add("x", mx).Add("y", my).Add("color", mcolors).Done())
		p.Add(gg.LayerPoints{X: "x", Y: "y", Color: "color"})
		p.Restore()
	}

	p.Add(gg.Title(in.Title), gg.AxisLabel("x", req.X), gg.AxisLabel("y", req.Y))
	return p
}

// segments accumulates two-point paths.
type segments struct {
	x, y   []float64
	seg    []int
	colors []color.Color
}

func (s *segments) add(x1, y1, x2, y2 float64, c color.Color) {
	id := len(s.x) / 2
	s.x, s.y = append(s.x, x1, x2), append(s.y, y1, y2)
	s.seg, s.colors = append(s.seg, id, id), append(s.colors, c, c)
}

func (s *segments) table() *table.Table {
	return new(table.Builder).Add("x", s.x).Add("y", s.y).Add("seg", s.seg).Add("color", s.colors).Done()
}
