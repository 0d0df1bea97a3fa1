// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/plot"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// noStroke is a transparent color go-chart does not replace with its
// default.
var noStroke = drawing.Color{R: 255, G: 255, B: 255, A: 0}

func writePNG(w io.Writer, pg *Page, opts Options) error {
	width, height := opts.Pixels()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	if pg.Title != "" {
		drawText(img, width/2, titleHeight-10, pg.Title, color.Black, true)
	}
	colors := pg.traceColors()
	for i, r := range pg.cells(width, height) {
		if err := pngPanel(img, r, pg.Panels[i].Instance, colors, opts); err != nil {
			return err
		}
	}
	return png.Encode(w, img)
}

func pngPanel(dst *image.RGBA, r rect, in *plot.Instance, colors map[string]drawing.Color, opts Options) error {
	dr := image.Rect(r.x, r.y, r.x+r.w, r.y+r.h)
	if !drawable(in) {
		border := image.NewUniform(color.Gray{Y: 204})
		inner := dr.Inset(4)
		for _, edge := range []image.Rectangle{
			image.Rect(inner.Min.X, inner.Min.Y, inner.Max.X, inner.Min.Y+1),
			image.Rect(inner.Min.X, inner.Max.Y-1, inner.Max.X, inner.Max.Y),
			image.Rect(inner.Min.X, inner.Min.Y, inner.Min.X+1, inner.Max.Y),
			image.Rect(inner.Max.X-1, inner.Min.Y, inner.Max.X, inner.Max.Y),
		} {
			draw.Draw(dst, edge, border, image.Point{}, draw.Src)
		}
		drawText(dst, r.x+r.w/2, r.y+24, in.Title, color.Black, true)
		drawText(dst, r.x+r.w/2, r.y+r.h/2, "No data", color.Gray{Y: 136}, true)
		return nil
	}

	ch := chartPanel(in, r.w, r.h, colors, opts)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("%s: %w", in.Title, err)
	}
	src, err := png.Decode(&buf)
	if err != nil {
		return fmt.Errorf("%s: %w", in.Title, err)
	}
	if src.Bounds().Size() == dr.Size() {
		draw.Draw(dst, dr, src, src.Bounds().Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dr, src, src.Bounds(), draw.Src, nil)
	}
	return nil
}

// chartPanel builds the go-chart chart of in at w by h pixels.
func chartPanel(in *plot.Instance, w, h int, colors map[string]drawing.Color, opts Options) *chart.Chart {
	req := in.Request
	xr, yr := extent(in)

	var ss []chart.Series
	for _, tr := range in.Traces {
		if len(tr.X) == 0 {
			continue
		}
		c := colors[tr.Label]
		st := chart.Style{StrokeWidth: 2, StrokeColor: c}
		if !req.StyleLine {
			st.StrokeWidth, st.StrokeColor = 0, noStroke
		}
		if req.StyleMarker || !req.StyleLine || len(tr.X) == 1 {
			st.DotWidth, st.DotColor = 3, c
		}
		ss = append(ss, chart.ContinuousSeries{Name: tr.Label, XValues: tr.X, YValues: tr.Y, Style: st})
	}

	ch := &chart.Chart{
		Title:      in.Title,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 16}},
		Width:      w,
		Height:     h,
		XAxis: chart.XAxis{
			Name:  req.X,
			Range: &chart.ContinuousRange{Min: xr.Min, Max: xr.Max},
			Ticks: chartTicks(xr, xFormatter(in)),
		},
		YAxis: chart.YAxis{
			Name:  req.Y,
			Range: &chart.ContinuousRange{Min: yr.Min, Max: yr.Max},
			Ticks: chartTicks(yr, nil),
		},
		Series: ss,
	}
	ch.Elements = []chart.Renderable{
		bandElement(in, xr, yr, colors, opts.BandOpacity),
		refLineElement(req, xr, yr),
		markerElement(in.Markers(xr, yr, opts.Config), xr, yr),
	}
	if len(legend(in.Traces)) > 0 {
		ch.Elements = append(ch.Elements, chart.Legend(ch))
	}
	return ch
}

func chartTicks(r limits.Range, format func(float64) string) []chart.Tick {
	vs, labels := ticks(r, 6, format)
	out := make([]chart.Tick, 0, len(vs))
	for i, v := range vs {
		if v < r.Min || v > r.Max {
			continue
		}
		out = append(out, chart.Tick{Value: v, Label: labels[i]})
	}
	return out
}

// pixel maps data coordinates to pixels in a chart's canvas box.
type pixel struct {
	box    chart.Box
	xr, yr limits.Range
}

func (p pixel) at(x, y float64) (int, int) {
	px := float64(p.box.Left) + (x-p.xr.Min)/(p.xr.Max-p.xr.Min)*float64(p.box.Width())
	py := float64(p.box.Bottom) - (y-p.yr.Min)/(p.yr.Max-p.yr.Min)*float64(p.box.Height())
	return int(math.Round(px)), int(math.Round(py))
}

func bandElement(in *plot.Instance, xr, yr limits.Range, colors map[string]drawing.Color, opacity float64) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		p := pixel{box, xr, yr}
		for _, tr := range in.Traces {
			if !tr.HasBand() || len(tr.X) == 0 {
				continue
			}
			r.SetFillColor(withAlpha(colors[tr.Label], opacity))
			r.SetStrokeColor(noStroke)
			r.MoveTo(p.at(tr.X[0], tr.Upper[0]))
			for j := 1; j < len(tr.X); j++ {
				r.LineTo(p.at(tr.X[j], tr.Upper[j]))
			}
			for j := len(tr.X) - 1; j >= 0; j-- {
				r.LineTo(p.at(tr.X[j], tr.Lower[j]))
			}
			r.Close()
			r.Fill()
		}
	}
}

func refLineElement(req *plot.Request, xr, yr limits.Range) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, _ chart.Style) {
		p := pixel{box, xr, yr}
		r.SetStrokeColor(refLineColor)
		r.SetStrokeWidth(1)
		r.SetStrokeDashArray([]float64{5, 5})
		for _, h := range req.HLines {
			if !yr.Contains(h) {
				continue
			}
			r.MoveTo(p.at(xr.Min, h))
			r.LineTo(p.at(xr.Max, h))
			r.Stroke()
		}
		for _, v := range req.VLines {
			if !xr.Contains(v) {
				continue
			}
			r.MoveTo(p.at(v, yr.Min))
			r.LineTo(p.at(v, yr.Max))
			r.Stroke()
		}
		r.SetStrokeDashArray(nil)
	}
}

// markerSize is the radius of error marker shapes in pixels.
const markerSize = 5

func markerElement(ms []plot.PlacedMarker, xr, yr limits.Range) chart.Renderable {
	return func(r chart.Renderer, box chart.Box, defaults chart.Style) {
		p := pixel{box, xr, yr}
		for _, m := range ms {
			c := markerColor(m.Color)
			r.SetStrokeColor(c)
			r.SetFillColor(c)
			r.SetStrokeWidth(1.5)
			x, y := p.at(m.X, m.Y)
			if m.XErr > 0 {
				errorBar(r, p, m.X-m.XErr, m.Y, m.X+m.XErr, m.Y, false)
			}
			if m.YErr > 0 {
				errorBar(r, p, m.X, m.Y-m.YErr, m.X, m.Y+m.YErr, true)
			}
			shape(r, m.Marker, x, y)
			if m.Label != "" && defaults.Font != nil {
				r.SetFont(defaults.Font)
				r.SetFontSize(9)
				r.SetFontColor(c)
				r.Text(m.Label, x+markerSize+3, y-markerSize-3)
			}
		}
	}
}

func errorBar(r chart.Renderer, p pixel, x1, y1, x2, y2 float64, vertical bool) {
	ax, ay := p.at(x1, y1)
	bx, by := p.at(x2, y2)
	r.MoveTo(ax, ay)
	r.LineTo(bx, by)
	const tick = 4
	if vertical {
		r.MoveTo(ax-tick, ay)
		r.LineTo(ax+tick, ay)
		r.MoveTo(bx-tick, by)
		r.LineTo(bx+tick, by)
	} else {
		r.MoveTo(ax, ay-tick)
		r.LineTo(ax, ay+tick)
		r.MoveTo(bx, by-tick)
		r.LineTo(bx, by+tick)
	}
	r.Stroke()
}

// shape draws a marker shape centered at (x, y).
func shape(r chart.Renderer, marker string, x, y int) {
	const s = markerSize
	poly := func(pts ...int) {
		r.MoveTo(x+pts[0], y+pts[1])
		for i := 2; i < len(pts); i += 2 {
			r.LineTo(x+pts[i], y+pts[i+1])
		}
		r.Close()
		r.FillStroke()
	}
	switch marker {
	case "s":
		poly(-s, -s, s, -s, s, s, -s, s)
	case "^":
		poly(0, -s, s, s, -s, s)
	case "v":
		poly(-s, -s, s, -s, 0, s)
	case "D":
		poly(0, -s, s, 0, 0, s, -s, 0)
	case "*":
		for k := 0; k < 4; k++ {
			a := float64(k) * math.Pi / 4
			dx, dy := int(math.Round(s*math.Cos(a))), int(math.Round(s*math.Sin(a)))
			r.MoveTo(x-dx, y-dy)
			r.LineTo(x+dx, y+dy)
		}
		r.Stroke()
	default:
		r.Circle(s, x, y)
		r.FillStroke()
	}
}

// drawText draws s with its baseline at y, starting at x or centered
// on x.
func drawText(dst draw.Image, x, y int, s string, c color.Color, center bool) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13}
	if center {
		x -= d.MeasureString(s).Ceil() / 2
	}
	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	d.DrawString(s)
}
