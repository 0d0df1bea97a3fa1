// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sem computes mean ± standard error of the mean (SEM) bands.
//
// Bands are computed in one of two regimes. In the computed regime,
// each value of an SEM column identifies an independent group (for
// example, a subject or a replicate), observations are first averaged
// within each (group, x) cell, and the SEM is taken across the cell
// means at each x. In the precomputed regime, the SEM column already
// holds an SEM for each row.
package sem

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-plotgrid/dataset"
)

// Spec configures SEM bands.
type Spec struct {
	// Column is the SEM group column in the computed regime, or
	// the SEM value column in the precomputed regime. If Column
	// is "", no bands are computed.
	Column string

	// Precomputed selects the precomputed regime.
	Precomputed bool
}

// Enabled reports whether s requests SEM bands.
func (s Spec) Enabled() bool {
	return s.Column != ""
}

// Bands is a mean trace with a symmetric error band. All slices have
// the same length and X is strictly increasing.
type Bands struct {
	X, Center, Margin []float64
	Lower, Upper      []float64
}

// Len returns the number of points in b.
func (b Bands) Len() int {
	return len(b.X)
}

func newBands(n int) Bands {
	return Bands{
		X:      make([]float64, n),
		Center: make([]float64, n),
		Margin: make([]float64, n),
		Lower:  make([]float64, n),
		Upper:  make([]float64, n),
	}
}

func (b Bands) set(i int, x, center, margin float64) {
	b.X[i], b.Center[i], b.Margin[i] = x, center, margin
	b.Lower[i], b.Upper[i] = center-margin, center+margin
}

// A Warning reports a data quality problem that did not prevent
// computing bands.
type Warning struct {
	// X is the x value at which the problem occurred.
	X float64
	// Rows is the number of rows that shared X.
	Rows int
	// Hue is the display label of the trace, if any.
	Hue string
}

func (w Warning) String() string {
	where := fmt.Sprintf("x=%g", w.X)
	if w.Hue != "" {
		where += " (" + w.Hue + ")"
	}
	return fmt.Sprintf("%d rows with precomputed SEM at %s were averaged; the SEM may not be meaningful", w.Rows, where)
}

// Compute computes bands of column y over column x in t according to
// spec. It returns an error if spec is not enabled.
func Compute(t *dataset.Table, x, y string, spec Spec) (Bands, []Warning, error) {
	if !spec.Enabled() {
		return Bands{}, nil, fmt.Errorf("no SEM column")
	}
	if spec.Precomputed {
		return Precomputed(t, x, y, spec.Column)
	}
	b, err := Computed(t, x, y, spec.Column)
	return b, nil, err
}

// Computed returns, at each x, the mean and SEM of the per-group means
// of y, where groups are the distinct values of column group.
//
// Rows where x, y, or group is null are ignored. The SEM at an x with
// only one group is 0.
func Computed(t *dataset.Table, x, y, group string) (Bands, error) {
	xs, ys, rows, err := validRows(t, x, y)
	if err != nil {
		return Bands{}, err
	}
	if !t.Has(group) {
		return Bands{}, fmt.Errorf("unknown SEM group column %q", group)
	}
	var keep []int
	for i, row := range rows {
		if !t.IsNull(group, row) {
			keep = append(keep, i)
		}
	}
	if len(keep) == 0 {
		return newBands(0), nil
	}

	tab := new(table.Builder).
		Add("x", slice.Select(xs, keep)).
		Add("group", slice.Select(slice.Select(t.Raw().MustColumn(group), rows), keep)).
		Add("y", slice.Select(ys, keep)).
		Done()

	// Mean of each (x, group) cell.
	cells := make(map[float64][]float64)
	var order []float64
	g := table.GroupBy(tab, "x", "group")
	for _, gid := range g.Tables() {
		xv := gid.Parent().Label().(float64)
		if _, ok := cells[xv]; !ok {
			order = append(order, xv)
		}
		cells[xv] = append(cells[xv], stats.Mean(g.Table(gid).MustColumn("y").([]float64)))
	}

	sort.Float64s(order)
	b := newBands(len(order))
	for i, xv := range order {
		means := cells[xv]
		margin := 0.0
		if len(means) > 1 {
			margin = stats.StdDev(means) / math.Sqrt(float64(len(means)))
		}
		b.set(i, xv, stats.Mean(means), margin)
	}
	return b, nil
}

// Precomputed returns, at each x, the mean of y and the mean of the
// SEM values in column semCol. A null SEM counts as 0 and negative SEM
// values are taken as their magnitude.
//
// Precomputed SEMs are expected to be unique per x. Where several rows
// share an x, they are averaged and a Warning is returned for that x.
// Magnitudes are taken before averaging, so SEMs of -1 and 3 at one x
// give a margin of 2, not 1.
func Precomputed(t *dataset.Table, x, y, semCol string) (Bands, []Warning, error) {
	xs, ys, rows, err := validRows(t, x, y)
	if err != nil {
		return Bands{}, nil, err
	}
	allSEM, err := t.Floats(semCol)
	if err != nil {
		return Bands{}, nil, err
	}
	if len(rows) == 0 {
		return newBands(0), nil, nil
	}
	sems := make([]float64, len(rows))
	for i, row := range rows {
		v := allSEM[row]
		if math.IsNaN(v) {
			v = 0
		}
		sems[i] = math.Abs(v)
	}

	tab := new(table.Builder).Add("x", xs).Add("y", ys).Add("sem", sems).Done()
	g := table.GroupBy(tab, "x")
	gids := g.Tables()
	sort.Slice(gids, func(i, j int) bool {
		return gids[i].Label().(float64) < gids[j].Label().(float64)
	})

	b := newBands(len(gids))
	var warnings []Warning
	for i, gid := range gids {
		sub := g.Table(gid)
		xv := gid.Label().(float64)
		if sub.Len() > 1 {
			warnings = append(warnings, Warning{X: xv, Rows: sub.Len()})
		}
		b.set(i, xv, stats.Mean(sub.MustColumn("y").([]float64)), stats.Mean(sub.MustColumn("sem").([]float64)))
	}
	return b, warnings, nil
}

// validRows returns the x and y values of the rows of t where neither
// is null, along with those rows' indexes.
func validRows(t *dataset.Table, x, y string) (xs, ys []float64, rows []int, err error) {
	allX, err := t.Floats(x)
	if err != nil {
		return nil, nil, nil, err
	}
	allY, err := t.Floats(y)
	if err != nil {
		return nil, nil, nil, err
	}
	xs, ys, rows = []float64{}, []float64{}, []int{}
	for i := range allX {
		if math.IsNaN(allX[i]) || math.IsNaN(allY[i]) {
			continue
		}
		xs = append(xs, allX[i])
		ys = append(ys, allY[i])
		rows = append(rows, i)
	}
	return xs, ys, rows, nil
}
