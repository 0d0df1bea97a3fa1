// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package series

import (
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/sem"
)

func testTable() *dataset.Table {
	return dataset.MustNew(new(table.Builder).
		Add("x", []float64{1, 1, 2, 1, 2}).
		Add("y", []float64{10, 12, 20, 5, 7}).
		Add("sem", []float64{1, 1.5, 2, 0.5, 0.5}).
		Add("h", []string{"b", "b", "b", "a", "a"}).
		Done())
}

func TestBuildAggregated(t *testing.T) {
	traces, warnings, err := Build(testTable(), Spec{X: "x", Y: "y", Hue: []string{"h"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings %v", warnings)
	}
	if len(traces) != 2 {
		t.Fatalf("want 2 traces, got %d", len(traces))
	}
	if traces[0].Label != "h=a" || traces[1].Label != "h=b" {
		t.Errorf("want labels h=a, h=b; got %s, %s", traces[0].Label, traces[1].Label)
	}
	if want := []float64{11, 20}; !reflect.DeepEqual(traces[1].Y, want) {
		t.Errorf("h=b: want y %v, got %v", want, traces[1].Y)
	}
	if traces[0].HasBand() {
		t.Errorf("aggregated trace has a band")
	}
}

func TestBuildPrecomputed(t *testing.T) {
	spec := Spec{X: "x", Y: "y", Hue: []string{"h"}, SEM: sem.Spec{Column: "sem", Precomputed: true}}
	traces, warnings, err := Build(testTable(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 || warnings[0].Hue != "h=b" || warnings[0].X != 1 {
		t.Fatalf("want one warning for h=b at x=1, got %v", warnings)
	}
	b := traces[1]
	if !b.HasBand() || b.Lower[0] != 9.75 || b.Upper[0] != 12.25 {
		t.Errorf("h=b: want band [9.75,12.25] at x=1, got %v", b)
	}
}

func TestBuildEach(t *testing.T) {
	full := testTable()
	empty := full.Select([]int{})
	tables := []*dataset.Table{full, empty, full}
	traces, _, err := BuildEach(tables, Spec{X: "x", Y: "y"})
	if err != nil {
		t.Fatal(err)
	}
	if len(traces) != 3 {
		t.Fatalf("want 3 results, got %d", len(traces))
	}
	if traces[1] != nil {
		t.Errorf("empty table produced traces %v", traces[1])
	}
	if !reflect.DeepEqual(traces[0], traces[2]) {
		t.Errorf("identical tables produced different traces")
	}

	if _, _, err := BuildEach(tables, Spec{X: "x", Y: "h"}); err == nil {
		t.Errorf("categorical y accepted")
	}
}
