// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agg

import (
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/dataset"
)

var nan = math.NaN()

func TestAggregate(t *testing.T) {
	for _, test := range []struct {
		x, y  []float64
		want  Series
		descr string
	}{
		{[]float64{1, 1, 2}, []float64{10, 20, 30},
			Series{[]float64{1, 2}, []float64{15, 30}}, "duplicates"},
		{[]float64{3, 1, 2}, []float64{30, 10, 20},
			Series{[]float64{1, 2, 3}, []float64{10, 20, 30}}, "unsorted"},
		{[]float64{1, nan, 2, 2, 3}, []float64{5, 100, nan, 7, nan},
			Series{[]float64{1, 2}, []float64{5, 7}}, "nulls"},
		{[]float64{}, []float64{},
			Series{[]float64{}, []float64{}}, "empty"},
	} {
		tab := dataset.MustNew(new(table.Builder).Add("x", test.x).Add("y", test.y).Done())
		got, err := Aggregate(tab, "x", "y")
		if err != nil {
			t.Fatalf("%s: %v", test.descr, err)
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: want %v, got %v", test.descr, test.want, got)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	tab := dataset.MustNew(new(table.Builder).
		Add("x", []float64{4, 1, 1, 3, 3, 3}).
		Add("y", []float64{1, 2, 4, 8, 16, 32}).
		Done())
	once, err := Aggregate(tab, "x", "y")
	if err != nil {
		t.Fatal(err)
	}
	tab2 := dataset.MustNew(new(table.Builder).Add("x", once.X).Add("y", once.Y).Done())
	twice, err := Aggregate(tab2, "x", "y")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("aggregation not idempotent: %v then %v", once, twice)
	}
}

func TestAggregateByHue(t *testing.T) {
	tab := dataset.MustNew(new(table.Builder).
		Add("x", []float64{1, 1, 2, 1, 2, 1}).
		Add("y", []float64{10, 20, 30, 5, 6, 99}).
		Add("species", []string{"B", "B", "B", "A", "A", ""}).
		Add("treatment", []string{"X", "X", "X", "X", "Y", "X"}).
		Done())

	got, err := AggregateByHue(tab, "x", "y", []string{"species", "treatment"})
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, s := range got {
		keys = append(keys, s.Key.String())
	}
	want := []string{"species=A, treatment=X", "species=A, treatment=Y", "species=B, treatment=X"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("want keys %q, got %q", want, keys)
	}
	if want := (Series{[]float64{1, 2}, []float64{15, 30}}); !reflect.DeepEqual(got[2].Series, want) {
		t.Errorf("B/X: want %v, got %v", want, got[2].Series)
	}

	got, err = AggregateByHue(tab, "x", "y", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Key.String() != "" {
		t.Fatalf("want one unkeyed series, got %v", got)
	}
}

func TestHueKeyTyped(t *testing.T) {
	// A numeric 1 and a string "1" render the same but are
	// different keys.
	a := HueKey{[]string{"k"}, []interface{}{1.0}}
	b := HueKey{[]string{"k"}, []interface{}{"1"}}
	if a.String() != b.String() {
		t.Fatalf("labels differ: %q vs %q", a, b)
	}
	if a.Equal(b) {
		t.Fatalf("keys with different value types compared equal")
	}
	if !a.Equal(HueKey{[]string{"k"}, []interface{}{1.0}}) {
		t.Fatalf("equal keys compared unequal")
	}
}

func TestSplitByHueNoRows(t *testing.T) {
	tab := dataset.MustNew(new(table.Builder).
		Add("x", []float64{}).Add("h", []string{}).Done())
	got, err := SplitByHue(tab, []string{"h"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("want no subsets, got %d", len(got))
	}
	if _, err := SplitByHue(tab, []string{"nope"}); err == nil {
		t.Fatalf("unknown hue column accepted")
	}
}
