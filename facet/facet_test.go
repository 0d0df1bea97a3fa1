// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package facet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/dataset"
)

func grid(t *testing.T, na, nb int) *dataset.Table {
	var as, bs []string
	for i := 0; i < na; i++ {
		for j := 0; j < nb; j++ {
			as = append(as, fmt.Sprintf("a%03d", i))
			bs = append(bs, fmt.Sprintf("b%03d", j))
		}
	}
	tab, err := dataset.New(new(table.Builder).Add("a", as).Add("b", bs).Done())
	if err != nil {
		t.Fatal(err)
	}
	return tab
}

func TestExpandOrder(t *testing.T) {
	tab := dataset.MustNew(new(table.Builder).
		Add("species", []string{"B", "A", "B", "C", ""}).
		Add("dose", []float64{2, 1, 1, 2, math.NaN()}).
		Done())
	got, err := Expand(tab, []string{"species", "dose"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	for _, f := range got {
		labels = append(labels, f.Label())
	}
	want := []string{
		"species=A, dose=1", "species=A, dose=2",
		"species=B, dose=1", "species=B, dose=2",
		"species=C, dose=1", "species=C, dose=2",
	}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("want %q, got %q", want, labels)
	}
}

func TestExpandEmptyGroups(t *testing.T) {
	tab := grid(t, 2, 2)
	got, err := Expand(tab, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Empty() || got[0].Label() != "" {
		t.Fatalf("want one empty filter, got %v", got)
	}
}

func TestExpandProduct(t *testing.T) {
	for _, test := range []struct{ na, nb int }{{1, 1}, {3, 4}, {4, 3}, {10, 10}} {
		got, err := Expand(grid(t, test.na, test.nb), []string{"a", "b"}, 0)
		if err != nil {
			t.Fatalf("%dx%d: %v", test.na, test.nb, err)
		}
		if len(got) != test.na*test.nb {
			t.Fatalf("%dx%d: want %d filters, got %d", test.na, test.nb, test.na*test.nb, len(got))
		}
		seen := map[string]bool{}
		for _, f := range got {
			if seen[f.Label()] {
				t.Fatalf("%dx%d: duplicate filter %s", test.na, test.nb, f.Label())
			}
			seen[f.Label()] = true
		}
		// First column varies slowest.
		if got[0].Vals[0] != got[test.nb-1].Vals[0] {
			t.Errorf("%dx%d: first column changed within first block", test.na, test.nb)
		}
	}
}

func TestExpandLimit(t *testing.T) {
	// Exactly at the limit succeeds.
	if got, err := Expand(grid(t, 10, 10), []string{"a", "b"}, 0); err != nil || len(got) != 100 {
		t.Fatalf("10x10: got %d filters, %v", len(got), err)
	}

	// One past the limit fails.
	tab := dataset.MustNew(new(table.Builder).
		Add("a", []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 64, 65, 66, 67, 68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 93, 94, 95, 96, 97, 98, 99, 100}).
		Done())
	_, err := Expand(tab, []string{"a"}, 0)
	var lerr *CombinationLimitError
	if !errors.As(err, &lerr) {
		t.Fatalf("want CombinationLimitError, got %v", err)
	}
	if lerr.Size != 101 || lerr.Limit != DefaultMaxCombinations {
		t.Errorf("want size 101 limit 100, got %+v", lerr)
	}

	// The reported size is the full product.
	_, err = Expand(grid(t, 20, 30), []string{"a", "b"}, 50)
	if !errors.As(err, &lerr) || lerr.Size != 600 || lerr.Limit != 50 {
		t.Errorf("want size 600 limit 50, got %v", err)
	}
}

func TestExpandNoValues(t *testing.T) {
	tab := dataset.MustNew(new(table.Builder).
		Add("a", []string{"x", "y"}).
		Add("b", []string{"", ""}).
		Done())
	got, err := Expand(tab, []string{"a", "b"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("want no filters, got %v", got)
	}
	if _, err := Expand(tab, []string{"missing"}, 0); err == nil {
		t.Fatalf("unknown column accepted")
	}
}

func TestExpandNoValuesOverLimit(t *testing.T) {
	// An empty column makes the product 0 wherever it appears.
	var as []float64
	var bs []float64
	for i := 0; i <= 100; i++ {
		as = append(as, float64(i))
		bs = append(bs, math.NaN())
	}
	tab := dataset.MustNew(new(table.Builder).Add("a", as).Add("b", bs).Done())
	for _, cols := range [][]string{{"a", "b"}, {"b", "a"}} {
		got, err := Expand(tab, cols, 0)
		if err != nil || len(got) != 0 {
			t.Errorf("Expand(%v) = %d filters, %v; want none and no error", cols, len(got), err)
		}
	}
}

func TestMulSat(t *testing.T) {
	for _, test := range []struct {
		a, b, want int
	}{
		{0, 5, 0},
		{5, 0, 0},
		{1000, 1000, 1000000},
		{math.MaxInt / 2, 2, math.MaxInt - 1},
		{math.MaxInt / 2, 3, math.MaxInt},
		{math.MaxInt, math.MaxInt, math.MaxInt},
	} {
		if got := mulSat(test.a, test.b); got != test.want {
			t.Errorf("mulSat(%d, %d) = %d, want %d", test.a, test.b, got, test.want)
		}
	}

	size := 1
	for i := 0; i < 7; i++ {
		size = mulSat(size, 1000)
	}
	if size != math.MaxInt {
		t.Errorf("1000^7 = %d, want saturation at MaxInt", size)
	}
	err := &CombinationLimitError{size, 100}
	if want := fmt.Sprintf("too many group combinations (at least %d > 100); reduce group columns or categories", math.MaxInt); err.Error() != want {
		t.Errorf("error %q, want %q", err, want)
	}
}

func TestExpandScenario(t *testing.T) {
	// 3 species x 4 treatments gives 12 filters, species slowest.
	var sp, tr []string
	for _, s := range []string{"C", "A", "B"} {
		for _, x := range []string{"W", "X", "Y", "Z"} {
			sp = append(sp, s)
			tr = append(tr, x)
		}
	}
	tab := dataset.MustNew(new(table.Builder).Add("species", sp).Add("treatment", tr).Done())
	got, err := Expand(tab, []string{"species", "treatment"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 12 {
		t.Fatalf("want 12 filters, got %d", len(got))
	}
	if l := got[0].Label(); l != "species=A, treatment=W" {
		t.Errorf("first filter %q", l)
	}
	if l := got[4].Label(); l != "species=B, treatment=W" {
		t.Errorf("fifth filter %q", l)
	}
	sub, err := got[5].Apply(tab)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Len() != 1 {
		t.Errorf("want 1 row for %s, got %d", got[5].Label(), sub.Len())
	}
}

func TestFilterJSON(t *testing.T) {
	f := Filter{[]string{"z", "a", "m"}, []interface{}{"x", 2.0, true}}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"z":"x","a":2,"m":true}`; string(data) != want {
		t.Fatalf("want %s, got %s", want, data)
	}
	var f2 Filter
	if err := json.Unmarshal(data, &f2); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, f2) {
		t.Fatalf("want %#v, got %#v", f, f2)
	}
	if err := json.Unmarshal([]byte(`{"a":[1]}`), &f2); err == nil {
		t.Errorf("non-scalar value accepted")
	}
	if err := json.Unmarshal([]byte(`null`), &f2); err != nil || !f2.Empty() {
		t.Errorf("null: got %v, %v", f2, err)
	}
}
