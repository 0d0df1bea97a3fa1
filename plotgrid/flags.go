// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/aclements/go-plotgrid/render"
	"golang.org/x/term"
)

// listFlag is a comma-separated list of column names.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(s string) error {
	for _, col := range strings.Split(s, ",") {
		if col = strings.TrimSpace(col); col != "" {
			*l = append(*l, col)
		}
	}
	return nil
}

// floatsFlag is a repeatable or comma-separated list of numbers.
type floatsFlag []float64

func (l *floatsFlag) String() string { return fmt.Sprint([]float64(*l)) }

func (l *floatsFlag) Set(s string) error {
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return err
		}
		*l = append(*l, v)
	}
	return nil
}

// rangeFlag is an axis range written "min,max".
type rangeFlag struct {
	r *limits.Range
}

func (f *rangeFlag) String() string {
	if f.r == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g", f.r.Min, f.r.Max)
}

func (f *rangeFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return fmt.Errorf("want min,max")
	}
	var r limits.Range
	var err error
	if r.Min, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err != nil {
		return err
	}
	if r.Max, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err != nil {
		return err
	}
	f.r = &r
	return nil
}

// filterFlag is a repeatable col=value filter term.
type filterFlag struct {
	cols []string
	vals []interface{}
}

func (f *filterFlag) String() string {
	var terms []string
	for i, col := range f.cols {
		terms = append(terms, fmt.Sprintf("%s=%v", col, f.vals[i]))
	}
	return strings.Join(terms, ",")
}

func (f *filterFlag) Set(s string) error {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return fmt.Errorf("want col=value")
	}
	f.cols = append(f.cols, s[:i])
	f.vals = append(f.vals, s[i+1:])
	return nil
}

// requestFlags registers the flags that describe a plot request on f.
// The returned function builds the request after f is parsed.
func requestFlags(f *flag.FlagSet) func() (*plot.Request, error) {
	var (
		hue, groups    listFlag
		filter         filterFlag
		xlim, ylim     rangeFlag
		hlines, vlines floatsFlag
	)
	reqFile := f.String("request", "", "read the plot request from JSON `file`; other request flags override it")
	x := f.String("x", "", "x axis `column`")
	y := f.String("y", "", "y axis `column`")
	semCol := f.String("sem", "", "draw mean ± SEM bands grouped by `column`")
	semPre := f.Bool("sem-precomputed", false, "the -sem column holds precomputed SEM values")
	markers := f.Bool("markers", false, "draw a marker at each point")
	noLines := f.Bool("no-lines", false, "do not connect points")
	title := f.String("title", "", "plot `title`")
	errorMarkersFile := f.String("error-markers", "", "read error markers from JSON `file`")
	f.Var(&hue, "hue", "split traces by `columns` (comma-separated)")
	f.Var(&groups, "groups", "one plot per combination of `columns` (comma-separated)")
	f.Var(&filter, "filter", "keep rows where `col=value` (repeatable)")
	f.Var(&xlim, "xlim", "fix the x axis to `min,max`")
	f.Var(&ylim, "ylim", "fix the y axis to `min,max`")
	f.Var(&hlines, "hline", "draw a horizontal line at `y` (repeatable)")
	f.Var(&vlines, "vline", "draw a vertical line at `x` (repeatable)")

	return func() (*plot.Request, error) {
		req := plot.NewRequest("", "")
		if *reqFile != "" {
			if err := readJSON(*reqFile, req); err != nil {
				return nil, err
			}
		}
		set := make(map[string]bool)
		f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
		if set["x"] {
			req.X = *x
		}
		if set["y"] {
			req.Y = *y
		}
		if set["hue"] {
			req.Hue = plot.Columns(hue)
		}
		if set["groups"] {
			req.Groups = plot.Columns(groups)
		}
		if set["filter"] {
			req.Filter.Cols = append(req.Filter.Cols, filter.cols...)
			req.Filter.Vals = append(req.Filter.Vals, filter.vals...)
		}
		if set["sem"] {
			req.SEMColumn = *semCol
		}
		if set["sem-precomputed"] {
			req.SEMPrecomputed = *semPre
		}
		if xlim.r != nil {
			req.XLim = xlim.r
		}
		if ylim.r != nil {
			req.YLim = ylim.r
		}
		req.HLines = append(req.HLines, hlines...)
		req.VLines = append(req.VLines, vlines...)
		if set["markers"] {
			req.StyleMarker = *markers
		}
		if set["no-lines"] {
			req.StyleLine = !*noLines
		}
		if set["title"] {
			req.Title = *title
		}
		if *errorMarkersFile != "" {
			var ms []plot.ErrorMarker
			if err := readJSON(*errorMarkersFile, &ms); err != nil {
				return nil, err
			}
			req.ErrorMarkers = append(req.ErrorMarkers, ms...)
		}
		return req, nil
	}
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// configFlags registers assembly flags on f.
func configFlags(f *flag.FlagSet) *plot.Config {
	cfg := plot.DefaultConfig()
	f.IntVar(&cfg.MaxCombinations, "max-plots", cfg.MaxCombinations, "refuse requests that expand to more than `n` plots")
	return &cfg
}

// outputFlags registers page and output flags on f.
type outputFlags struct {
	out    *string
	format *string
	title  *string
	opts   render.Options
}

func newOutputFlags(f *flag.FlagSet) *outputFlags {
	o := &outputFlags{opts: render.DefaultOptions()}
	o.out = f.String("o", "", "write output to `file` (default stdout)")
	o.format = f.String("format", "", "output `format`, svg or png (default from -o, else svg)")
	o.title = f.String("page-title", "", "page `title`")
	f.Float64Var(&o.opts.Width, "width", o.opts.Width, "page width in `inches`")
	f.Float64Var(&o.opts.Height, "height", o.opts.Height, "page height in `inches`")
	f.IntVar(&o.opts.DPI, "dpi", o.opts.DPI, "`pixels` per inch")
	f.Float64Var(&o.opts.BandOpacity, "band-opacity", o.opts.BandOpacity, "`opacity` of SEM bands")
	return o
}

// resolveFormat returns the output format named by -format or -o.
func (o *outputFlags) resolveFormat() (render.Format, error) {
	switch {
	case *o.format != "":
		return render.ParseFormat(*o.format)
	case *o.out != "" && *o.out != "-":
		return render.ParseFormat(*o.out)
	}
	return render.SVG, nil
}

// write renders pg as the flags direct.
func (o *outputFlags) write(pg *render.Page, cfg plot.Config) error {
	format, err := o.resolveFormat()
	if err != nil {
		return err
	}
	if *o.title != "" {
		pg.Title = *o.title
	}
	opts := o.opts
	opts.Config = cfg
	w, err := createOutput(*o.out, format)
	if err != nil {
		return err
	}
	if err := render.Write(w, pg, format, opts); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// createOutput opens path for writing, or stdout if path is "" or "-".
// It refuses to write binary formats to a terminal.
func createOutput(path string, format render.Format) (io.WriteCloser, error) {
	if path != "" && path != "-" {
		return os.Create(path)
	}
	if format == render.PNG && term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, fmt.Errorf("refusing to write PNG to a terminal; use -o")
	}
	return nopCloser{os.Stdout}, nil
}
