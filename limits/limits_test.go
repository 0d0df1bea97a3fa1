// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package limits

import (
	"errors"
	"math"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/sem"
	"github.com/aclements/go-plotgrid/series"
)

func tab(x, y []float64, h []string) *dataset.Table {
	b := new(table.Builder).Add("x", x).Add("y", y)
	if h != nil {
		b.Add("h", h)
	}
	return dataset.MustNew(b.Done())
}

func TestSharedAggregated(t *testing.T) {
	subsets := []*dataset.Table{
		tab([]float64{1, 1, 2}, []float64{10, 20, 30}, nil),
		tab([]float64{0, 5}, []float64{-4, 8}, nil),
	}
	lim, _, err := Shared(subsets, series.Spec{X: "x", Y: "y"})
	if err != nil {
		t.Fatal(err)
	}
	// Aggregated means are 15, 30, -4, 8; raw 10 is not a point.
	if want := (Range{0, 5}); lim.X != want {
		t.Errorf("want x %v, got %v", want, lim.X)
	}
	if want := (Range{-4, 30}); lim.Y != want {
		t.Errorf("want y %v, got %v", want, lim.Y)
	}
}

func TestSharedBoundsAndTight(t *testing.T) {
	subsets := []*dataset.Table{
		tab([]float64{1, 2, 3}, []float64{3, 1, 4}, []string{"a", "b", "a"}),
		tab([]float64{1, 5, 9}, []float64{2, 6, 5}, []string{"b", "b", "c"}),
		tab([]float64{3, 5}, []float64{8, 9}, []string{"a", "a"}),
	}
	spec := series.Spec{X: "x", Y: "y", Hue: []string{"h"}}
	lim, _, err := Shared(subsets, spec)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range subsets {
		traces, _, err := series.Build(s, spec)
		if err != nil {
			t.Fatal(err)
		}
		for _, tr := range traces {
			for _, y := range tr.Y {
				if !lim.Y.Contains(y) {
					t.Errorf("y %v outside shared range %v", y, lim.Y)
				}
				lo, hi = math.Min(lo, y), math.Max(hi, y)
			}
		}
	}
	if lim.Y.Min != lo || lim.Y.Max != hi {
		t.Errorf("range %v not tight; want [%v, %v]", lim.Y, lo, hi)
	}
}

func TestSharedSkipsEmpty(t *testing.T) {
	a := tab([]float64{1, 2}, []float64{5, 6}, nil)
	empty := a.Select([]int{})
	spec := series.Spec{X: "x", Y: "y"}
	want, _, err := Shared([]*dataset.Table{a}, spec)
	if err != nil {
		t.Fatal(err)
	}
	got, _, err := Shared([]*dataset.Table{empty, a, empty}, spec)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("empty subsets changed limits: want %v, got %v", want, got)
	}

	_, _, err = Shared([]*dataset.Table{empty, empty}, spec)
	if !errors.Is(err, ErrEmptyDataSet) {
		t.Errorf("want ErrEmptyDataSet, got %v", err)
	}

	// A subset with rows but only null values is also empty.
	nulls := tab([]float64{math.NaN()}, []float64{1}, nil)
	_, _, err = Shared([]*dataset.Table{nulls}, spec)
	if !errors.Is(err, ErrEmptyDataSet) {
		t.Errorf("want ErrEmptyDataSet for null-only data, got %v", err)
	}
}

func TestSharedSEM(t *testing.T) {
	s := dataset.MustNew(new(table.Builder).
		Add("x", []float64{1, 1, 2}).
		Add("y", []float64{10, 12, 20}).
		Add("sem", []float64{1.0, 1.5, 3}).
		Done())
	lim, warnings, err := Shared([]*dataset.Table{s}, series.Spec{X: "x", Y: "y", SEM: sem.Spec{Column: "sem", Precomputed: true}})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Range{9.75, 23}); lim.Y != want {
		t.Errorf("want y %v, got %v", want, lim.Y)
	}
	if len(warnings) != 1 {
		t.Errorf("want one warning, got %v", warnings)
	}
}

func TestRangeValid(t *testing.T) {
	for _, test := range []struct {
		r    Range
		want bool
	}{
		{Range{0, 1}, true},
		{Range{1, 1}, false},
		{Range{2, 1}, false},
		{Range{math.NaN(), 1}, false},
		{Range{0, math.Inf(1)}, false},
	} {
		if got := test.r.Valid(); got != test.want {
			t.Errorf("%v.Valid() = %v, want %v", test.r, got, test.want)
		}
	}
}
