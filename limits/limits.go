// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package limits computes axis ranges shared by a family of plots.
package limits

import (
	"errors"
	"fmt"
	"math"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/sem"
	"github.com/aclements/go-plotgrid/series"
)

// ErrEmptyDataSet is returned when there are no data points to
// compute limits from.
var ErrEmptyDataSet = errors.New("no data to compute limits from")

// Range is a closed interval of an axis.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Valid reports whether r is finite and non-empty.
func (r Range) Valid() bool {
	return !math.IsNaN(r.Min) && !math.IsInf(r.Min, 0) &&
		!math.IsNaN(r.Max) && !math.IsInf(r.Max, 0) && r.Min < r.Max
}

// Contains reports whether v is in r.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Limits are the x and y ranges of a plot.
type Limits struct {
	X, Y Range
}

type folder struct {
	x, y Range
	any  bool
}

func (f *folder) add(r *Range, vs []float64) {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
}

func (f *folder) trace(tr series.Trace) {
	if !f.any {
		inf := math.Inf(1)
		f.x = Range{inf, -inf}
		f.y = Range{inf, -inf}
		f.any = true
	}
	f.add(&f.x, tr.X)
	if tr.HasBand() {
		f.add(&f.y, tr.Lower)
		f.add(&f.y, tr.Upper)
	} else {
		f.add(&f.y, tr.Y)
	}
}

// Fold returns the smallest ranges that contain every point of every
// trace in traceSets. For traces with an error band, the y range
// covers the band rather than the center line. Non-finite values are
// ignored. If there are no finite points, Fold returns
// ErrEmptyDataSet.
func Fold(traceSets [][]series.Trace) (Limits, error) {
	var f folder
	for _, traces := range traceSets {
		for _, tr := range traces {
			f.trace(tr)
		}
	}
	if !f.any || f.x.Min > f.x.Max || f.y.Min > f.y.Max {
		return Limits{}, ErrEmptyDataSet
	}
	return Limits{f.x, f.y}, nil
}

// Shared returns the ranges that contain the traces of every subset
// under spec. Empty subsets are skipped and never affect the result.
// All hue keys of all subsets fold into a single range.
func Shared(subsets []*dataset.Table, spec series.Spec) (Limits, []sem.Warning, error) {
	traceSets, warningSets, err := series.BuildEach(subsets, spec)
	if err != nil {
		return Limits{}, nil, err
	}
	var warnings []sem.Warning
	for _, ws := range warningSets {
		warnings = append(warnings, ws...)
	}
	lim, err := Fold(traceSets)
	if err != nil {
		return Limits{}, warnings, err
	}
	return lim, warnings, nil
}
