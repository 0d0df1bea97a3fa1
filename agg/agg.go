// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package agg reduces repeated observations to one value per x.
package agg

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/facet"
)

// Series is a sequence of points with strictly increasing X.
type Series struct {
	X, Y []float64
}

// Len returns the number of points in s.
func (s Series) Len() int {
	return len(s.X)
}

// A HueKey identifies one trace within a plot by the values of the
// hue columns. Keys compare by value and type, never by their
// display string.
type HueKey struct {
	Cols []string      `json:"cols,omitempty"`
	Vals []interface{} `json:"vals,omitempty"`
}

// String returns k's display label, "col1=val1, col2=val2".
func (k HueKey) String() string {
	return facet.Label(k.Cols, k.Vals)
}

// Equal reports whether k and o name the same columns and values.
func (k HueKey) Equal(o HueKey) bool {
	if len(k.Cols) != len(o.Cols) || len(k.Vals) != len(o.Vals) {
		return false
	}
	for i := range k.Cols {
		if k.Cols[i] != o.Cols[i] || !dataset.Equal(k.Vals[i], o.Vals[i]) {
			return false
		}
	}
	return true
}

func (k HueKey) less(o HueKey) bool {
	for i := range k.Vals {
		if i >= len(o.Vals) {
			return false
		}
		if c := dataset.Compare(k.Vals[i], o.Vals[i]); c != 0 {
			return c < 0
		}
	}
	return len(k.Vals) < len(o.Vals)
}

// A HueSubset is the rows of a table that share one HueKey.
type HueSubset struct {
	Key  HueKey
	Data *dataset.Table
}

// SplitByHue partitions t by the values of the hue columns. Rows with
// a null value in any hue column belong to no subset. Subsets are
// ordered by key. If hue is empty, SplitByHue returns t as a single
// subset with an empty key.
func SplitByHue(t *dataset.Table, hue []string) ([]HueSubset, error) {
	for _, col := range hue {
		if !t.Has(col) {
			return nil, fmt.Errorf("unknown hue column %q", col)
		}
	}
	if len(hue) == 0 {
		return []HueSubset{{Data: t}}, nil
	}
	if t.Len() == 0 {
		return nil, nil
	}

	g := table.GroupBy(t.Raw(), hue...)
	var out []HueSubset
groups:
	for _, gid := range g.Tables() {
		// Each group ID is a path of hue values from the root.
		vals := make([]interface{}, len(hue))
		for i, p := len(hue)-1, gid; i >= 0; i, p = i-1, p.Parent() {
			vals[i] = p.Label()
			if dataset.IsNull(vals[i]) {
				continue groups
			}
		}
		sub, err := dataset.New(g.Table(gid))
		if err != nil {
			return nil, err
		}
		out = append(out, HueSubset{HueKey{append([]string(nil), hue...), vals}, sub})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Key.less(out[j].Key)
	})
	return out, nil
}

// Aggregate returns the mean of column y at each distinct value of
// column x in t, in ascending order of x. Rows where x or y is null
// are ignored, and an x with no valid y values does not appear.
//
// Aggregate is idempotent: aggregating a table with one row per x
// returns that table's values unchanged.
func Aggregate(t *dataset.Table, x, y string) (Series, error) {
	xs, err := t.Floats(x)
	if err != nil {
		return Series{}, err
	}
	ys, err := t.Floats(y)
	if err != nil {
		return Series{}, err
	}

	var vx, vy []float64
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		vx = append(vx, xs[i])
		vy = append(vy, ys[i])
	}
	if len(vx) == 0 {
		return Series{X: []float64{}, Y: []float64{}}, nil
	}

	g := table.GroupBy(new(table.Builder).Add("x", vx).Add("y", vy).Done(), "x")
	gids := g.Tables()
	out := Series{make([]float64, len(gids)), make([]float64, len(gids))}
	for i, gid := range gids {
		out.X[i] = gid.Label().(float64)
		out.Y[i] = stats.Mean(g.Table(gid).MustColumn("y").([]float64))
	}
	sort.Sort(byX(out))
	return out, nil
}

type byX Series

func (s byX) Len() int           { return len(s.X) }
func (s byX) Less(i, j int) bool { return s.X[i] < s.X[j] }
func (s byX) Swap(i, j int) {
	s.X[i], s.X[j] = s.X[j], s.X[i]
	s.Y[i], s.Y[j] = s.Y[j], s.Y[i]
}

// HueSeries is the aggregated series for one hue key.
type HueSeries struct {
	Key HueKey
	Series
}

// AggregateByHue splits t by hue and aggregates each subset. Keys
// with no valid observations are omitted. If hue is empty, the result
// has at most one series, with an empty key.
func AggregateByHue(t *dataset.Table, x, y string, hue []string) ([]HueSeries, error) {
	subs, err := SplitByHue(t, hue)
	if err != nil {
		return nil, err
	}
	var out []HueSeries
	for _, sub := range subs {
		s, err := Aggregate(sub.Data, x, y)
		if err != nil {
			return nil, err
		}
		if s.Len() == 0 {
			continue
		}
		out = append(out, HueSeries{sub.Key, s})
	}
	return out, nil
}
