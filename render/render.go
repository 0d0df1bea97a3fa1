// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render draws pages of assembled plot instances.
//
// A Page arranges panels on a grid. Each panel draws one
// plot.Instance using the limits and traces the instance carries.
// Pages can be written as SVG or PNG.
package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/aclements/go-plotgrid/series"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/colornames"
)

// A Panel places an instance on a page grid.
type Panel struct {
	Row, Col         int
	RowSpan, ColSpan int
	Instance         *plot.Instance
}

// A Page is a grid of panels.
type Page struct {
	Title      string
	Rows, Cols int
	Panels     []Panel
}

// Wrap lays out instances in row-major order on a grid with cols
// columns. If cols <= 0, the grid is as close to square as possible.
func Wrap(instances []*plot.Instance, cols int) *Page {
	n := len(instances)
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
	}
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}
	pg := &Page{Rows: rows, Cols: cols}
	for i, in := range instances {
		pg.Panels = append(pg.Panels, Panel{Row: i / cols, Col: i % cols, RowSpan: 1, ColSpan: 1, Instance: in})
	}
	return pg
}

// Format is an output format.
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat returns the format named by s, which may also be a file
// name whose extension names the format.
func ParseFormat(s string) (Format, error) {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	switch f := Format(strings.ToLower(s)); f {
	case SVG, PNG:
		return f, nil
	case "pdf", "eps", "ps":
		return "", fmt.Errorf("format %q is not supported; use svg or png", f)
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Options control page rendering.
type Options struct {
	// Width and Height are the page size in inches.
	Width, Height float64

	// DPI is the number of pixels per inch.
	DPI int

	// BandOpacity is the opacity of SEM bands.
	BandOpacity float64

	// Config places error markers.
	Config plot.Config
}

// DefaultOptions returns a landscape US letter page at 150 DPI.
func DefaultOptions() Options {
	return Options{
		Width:       11,
		Height:      8.5,
		DPI:         150,
		BandOpacity: 0.3,
		Config:      plot.DefaultConfig(),
	}
}

// Pixels returns the page size in pixels.
func (o Options) Pixels() (w, h int) {
	return int(o.Width * float64(o.DPI)), int(o.Height * float64(o.DPI))
}

// Write renders pg to w in format f.
func Write(w io.Writer, pg *Page, f Format, opts Options) error {
	if err := pg.check(); err != nil {
		return err
	}
	if opts.DPI <= 0 || opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("page size %gx%g in at %d DPI is empty", opts.Width, opts.Height, opts.DPI)
	}
	switch f {
	case SVG:
		return writeSVG(w, pg, opts)
	case PNG:
		return writePNG(w, pg, opts)
	}
	_, err := ParseFormat(string(f))
	return err
}

func (pg *Page) check() error {
	if pg.Rows < 1 || pg.Cols < 1 {
		return fmt.Errorf("page grid %dx%d is empty", pg.Rows, pg.Cols)
	}
	for _, p := range pg.Panels {
		if p.Instance == nil {
			return fmt.Errorf("panel at row %d, col %d has no plot", p.Row, p.Col)
		}
		if p.Row < 0 || p.Col < 0 || p.Row+span(p.RowSpan) > pg.Rows || p.Col+span(p.ColSpan) > pg.Cols {
			return fmt.Errorf("panel at row %d, col %d is outside the %dx%d page grid", p.Row, p.Col, pg.Rows, pg.Cols)
		}
	}
	return nil
}

func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// rect is a pixel rectangle.
type rect struct {
	x, y, w, h int
}

// titleHeight is the height in pixels reserved for the page title.
const titleHeight = 30

// cells returns the pixel rectangle of each panel on a w by h page.
func (pg *Page) cells(w, h int) []rect {
	top := 0
	if pg.Title != "" {
		top = titleHeight
	}
	cw, ch := float64(w)/float64(pg.Cols), float64(h-top)/float64(pg.Rows)
	out := make([]rect, len(pg.Panels))
	for i, p := range pg.Panels {
		x0, y0 := int(float64(p.Col)*cw), top+int(float64(p.Row)*ch)
		x1, y1 := int(float64(p.Col+span(p.ColSpan))*cw), top+int(float64(p.Row+span(p.RowSpan))*ch)
		out[i] = rect{x0, y0, x1 - x0, y1 - y0}
	}
	return out
}

// traceColors assigns a color to each trace label on pg, so a hue
// value has the same color in every panel.
func (pg *Page) traceColors() map[string]drawing.Color {
	colors := make(map[string]drawing.Color)
	for _, p := range pg.Panels {
		for _, tr := range p.Instance.Traces {
			if _, ok := colors[tr.Label]; !ok {
				colors[tr.Label] = chart.GetDefaultColor(len(colors))
			}
		}
	}
	return colors
}

// parseColor parses a CSS color name or #rgb/#rrggbb hex color.
func parseColor(s string) (drawing.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := colornames.Map[s]; ok {
		return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("bad color %q", s)
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func markerColor(s string) drawing.Color {
	c, err := parseColor(s)
	if err != nil {
		return drawing.ColorBlack
	}
	return c
}

func withAlpha(c drawing.Color, opacity float64) drawing.Color {
	return c.WithAlpha(uint8(math.Round(255 * math.Max(0, math.Min(1, opacity)))))
}

var refLineColor = drawing.Color{R: 128, G: 128, B: 128, A: 255}

// extent returns the ranges the panel of in spans. Manual or shared
// limits win; otherwise the ranges cover the traces and reference
// lines. Degenerate ranges are widened so they can be drawn.
func extent(in *plot.Instance) (xr, yr limits.Range) {
	xr, yr = limits.Range{Min: math.Inf(1), Max: math.Inf(-1)}, limits.Range{Min: math.Inf(1), Max: math.Inf(-1)}
	grow := func(r *limits.Range, vs ...float64) {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			r.Min, r.Max = math.Min(r.Min, v), math.Max(r.Max, v)
		}
	}
	for _, tr := range in.Traces {
		grow(&xr, tr.X...)
		if tr.HasBand() {
			grow(&yr, tr.Lower...)
			grow(&yr, tr.Upper...)
		} else {
			grow(&yr, tr.Y...)
		}
	}
	grow(&xr, in.Request.VLines...)
	grow(&yr, in.Request.HLines...)
	if in.XLim != nil {
		xr = *in.XLim
	}
	if in.YLim != nil {
		yr = *in.YLim
	}
	return widen(xr), widen(yr)
}

func widen(r limits.Range) limits.Range {
	switch {
	case math.IsInf(r.Min, 1):
		return limits.Range{Min: 0, Max: 1}
	case r.Min == r.Max:
		d := math.Abs(r.Min) * 0.05
		if d == 0 {
			d = 0.5
		}
		return limits.Range{Min: r.Min - d, Max: r.Max + d}
	}
	return r
}

// drawable reports whether in has anything to plot.
func drawable(in *plot.Instance) bool {
	if in.Empty {
		return false
	}
	for _, tr := range in.Traces {
		if len(tr.X) > 0 {
			return true
		}
	}
	return false
}

// xFormatter returns a tick label formatter for the x axis of in, or
// nil for plain numbers.
func xFormatter(in *plot.Instance) func(float64) string {
	if in.Data == nil || !in.Data.Has(in.Request.X) || in.Data.Kind(in.Request.X) != dataset.Time {
		return nil
	}
	return func(v float64) string {
		sec, frac := math.Modf(v)
		return dataset.FormatValue(time.Unix(int64(sec), int64(frac*1e9)).UTC())
	}
}

// ticks returns up to n tick positions and labels in r.
func ticks(r limits.Range, n int, format func(float64) string) ([]float64, []string) {
	s := gg.NewLinearScaler().SetMin(r.Min).SetMax(r.Max)
	s.ExpandDomain([]float64{r.Min, r.Max})
	if format != nil {
		s.SetFormatter(format)
	}
	major, _, labels := s.Ticks(n, nil)
	return major.([]float64), labels
}

// legend returns the labeled traces of in.
func legend(traces []series.Trace) []int {
	var idx []int
	for i, tr := range traces {
		if tr.Label != "" {
			idx = append(idx, i)
		}
	}
	return idx
}
