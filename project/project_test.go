// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/plot"
)

const testCSV = `x,y,g
1,1,A
2,10,A
1,100,B
2,200,B
`

func testTable() *dataset.Table {
	return dataset.MustNew(new(table.Builder).
		Add("x", []float64{1, 2, 1, 2}).
		Add("y", []float64{1, 10, 100, 200}).
		Add("g", []string{"A", "A", "B", "B"}).
		Done())
}

func TestGroupedPlots(t *testing.T) {
	req := plot.NewRequest("x", "y")
	req.Groups = plot.Columns{"g"}
	for _, test := range []struct {
		layout string
		pos    []Position
	}{
		{LayoutRow, []Position{{1, 2, 1, 1}, {1, 3, 1, 1}}},
		{LayoutCol, []Position{{1, 2, 1, 1}, {2, 2, 1, 1}}},
	} {
		plots, _, err := GroupedPlots(testTable(), "ds", req, 1, 2, test.layout, plot.DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		if len(plots) != 2 {
			t.Fatalf("%s: want 2 plots, got %d", test.layout, len(plots))
		}
		for i, pl := range plots {
			if pl.Position != test.pos[i] {
				t.Errorf("%s: plot %d at %+v, want %+v", test.layout, i, pl.Position, test.pos[i])
			}
			if pl.DataSourceID != "ds" || pl.ID == "" || pl.Request.ID != pl.ID {
				t.Errorf("%s: plot %d has bad IDs %q %q %q", test.layout, i, pl.ID, pl.DataSourceID, pl.Request.ID)
			}
			r := pl.Request
			if r.Groups != nil {
				t.Errorf("%s: plot %d still grouped by %v", test.layout, i, r.Groups)
			}
			want := []string{"A", "B"}[i]
			if !reflect.DeepEqual(r.Filter.Cols, []string{"g"}) || !reflect.DeepEqual(r.Filter.Vals, []interface{}{want}) {
				t.Errorf("%s: plot %d filter %v, want g=%s", test.layout, i, r.Filter.Map(), want)
			}
			if r.Title != "g="+want {
				t.Errorf("%s: plot %d title %q", test.layout, i, r.Title)
			}
			if r.YLim == nil || *r.YLim != (limits.Range{Min: 1, Max: 200}) {
				t.Errorf("%s: plot %d ylim %v, want [1, 200]", test.layout, i, r.YLim)
			}
			if r.XLim != nil {
				t.Errorf("%s: plot %d has frozen xlim %v", test.layout, i, r.XLim)
			}
		}
	}
	if req.Groups == nil || req.YLim != nil {
		t.Errorf("GroupedPlots modified its request: %+v", req)
	}

	if _, _, err := GroupedPlots(testTable(), "ds", req, 0, 0, "diagonal", plot.DefaultConfig()); err == nil {
		t.Errorf("bad layout accepted")
	}
}

func TestGroupedPlotsManualYLim(t *testing.T) {
	req := plot.NewRequest("x", "y")
	req.Groups = plot.Columns{"g"}
	req.YLim = &limits.Range{Min: 0, Max: 1000}
	plots, _, err := GroupedPlots(testTable(), "ds", req, 0, 0, LayoutRow, plot.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, pl := range plots {
		if *pl.Request.YLim != *req.YLim {
			t.Errorf("ylim %v, want %v", pl.Request.YLim, req.YLim)
		}
	}
}

func TestFit(t *testing.T) {
	if g := Fit(nil); g != DefaultGrid {
		t.Errorf("Fit(nil) = %+v, want %+v", g, DefaultGrid)
	}
	plots := []*Plot{
		{Position: Position{0, 0, 1, 1}},
		{Position: Position{1, 2, 2, 1}},
	}
	if g, want := Fit(plots), (Grid{Rows: 3, Cols: 3}); g != want {
		t.Errorf("Fit = %+v, want %+v", g, want)
	}
}

func TestValidate(t *testing.T) {
	ds := &DataSource{ID: "ds"}
	req := plot.NewRequest("x", "y")
	mk := func(pos ...Position) *Project {
		p := New(Grid{Rows: 2, Cols: 2}, []*DataSource{ds}, nil)
		for i, pos := range pos {
			p.Plots = append(p.Plots, &Plot{ID: string(rune('a' + i)), DataSourceID: "ds", Position: pos, Request: req})
		}
		return p
	}
	for _, test := range []struct {
		p    *Project
		want string
	}{
		{mk(Position{0, 0, 1, 1}, Position{1, 1, 1, 1}), ""},
		{mk(Position{0, 0, 2, 2}), ""},
		{mk(Position{0, 0, 1, 2}, Position{0, 1, 1, 1}), "overlap"},
		{mk(Position{1, 1, 1, 2}), "does not fit"},
		{mk(Position{-1, 0, 1, 1}), "does not fit"},
		{New(Grid{}, nil, nil), "at least one row"},
	} {
		err := test.p.Validate()
		if test.want == "" {
			if err != nil {
				t.Errorf("unexpected error %v", err)
			}
		} else if err == nil || !strings.Contains(err.Error(), test.want) {
			t.Errorf("want error containing %q, got %v", test.want, err)
		}
	}

	p := mk(Position{0, 0, 1, 1})
	p.Plots[0].DataSourceID = "other"
	if err := p.Validate(); err == nil {
		t.Errorf("unknown data source accepted")
	}
}

func TestMove(t *testing.T) {
	p := New(Grid{Rows: 2, Cols: 2}, nil, []*Plot{
		{ID: "a", Position: Position{0, 0, 1, 1}},
		{ID: "b", Position: Position{1, 1, 1, 1}},
	})
	if err := p.Move([2]int{0, 0}, [2]int{0, 1}); err != nil {
		t.Fatal(err)
	}
	if pl := p.At(0, 1); pl == nil || pl.ID != "a" {
		t.Errorf("after move, (0,1) holds %v", pl)
	}
	if err := p.Move([2]int{0, 1}, [2]int{1, 1}); err != nil {
		t.Fatal(err)
	}
	if a, b := p.At(1, 1), p.At(0, 1); a.ID != "a" || b.ID != "b" {
		t.Errorf("swap failed: (1,1)=%s (0,1)=%s", a.ID, b.ID)
	}
	if err := p.Move([2]int{0, 0}, [2]int{1, 0}); err == nil {
		t.Errorf("moving an empty cell succeeded")
	}
	p.AddRow()
	p.AddCol()
	if p.Grid != (Grid{Rows: 3, Cols: 3}) {
		t.Errorf("grid %+v after AddRow/AddCol", p.Grid)
	}
}

func TestSaveLoadResolve(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0666); err != nil {
		t.Fatal(err)
	}

	req := plot.NewRequest("x", "y")
	req.Groups = plot.Columns{"g"}
	p, _, err := QuickGrouped("results", csvPath, req, LayoutRow, plot.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if p.Grid != (Grid{Rows: 1, Cols: 2}) {
		t.Errorf("grid %+v, want 1x2", p.Grid)
	}
	if len(p.DataSources[0].Schema) != 3 {
		t.Errorf("schema %+v", p.DataSources[0].Schema)
	}

	ppo := filepath.Join(dir, "exp.ppo")
	if err := Save(p, ppo); err != nil {
		t.Fatal(err)
	}
	if p.DataSources[0].Path != csvPath {
		t.Errorf("Save modified the project's paths: %s", p.DataSources[0].Path)
	}
	raw, err := os.ReadFile(ppo)
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Version     string
		DataSources []struct{ Path string } `json:"data_sources"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Version != Version || doc.DataSources[0].Path != "data.csv" {
		t.Errorf("saved version %q path %q", doc.Version, doc.DataSources[0].Path)
	}

	q, err := Load(ppo)
	if err != nil {
		t.Fatal(err)
	}
	if q.DataSources[0].Path != csvPath {
		t.Errorf("loaded path %q, want %q", q.DataSources[0].Path, csvPath)
	}
	if !q.Plots[1].Request.StyleLine || q.Plots[1].Position != (Position{0, 1, 1, 1}) {
		t.Errorf("loaded plot %+v", q.Plots[1])
	}

	cells, _, err := Resolve(q, LoadFile, plot.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 2 {
		t.Fatalf("want 2 cells, got %d", len(cells))
	}
	for _, c := range cells {
		in := c.Instance
		if in.YLim == nil || *in.YLim != (limits.Range{Min: 1, Max: 200}) {
			t.Errorf("%s: ylim %v", in.Title, in.YLim)
		}
		if in.Data.Len() != 2 {
			t.Errorf("%s: %d rows, want 2", in.Title, in.Data.Len())
		}
	}
}

func TestResolveGrouped(t *testing.T) {
	req := plot.NewRequest("x", "y")
	req.Groups = plot.Columns{"g"}
	ds := &DataSource{ID: "ds", Name: "mem"}
	p := New(Grid{Rows: 1, Cols: 1}, []*DataSource{ds}, []*Plot{NewPlot("ds", req, 0, 0)})
	load := func(*DataSource) (*dataset.Table, error) { return testTable(), nil }
	if _, _, err := Resolve(p, load, plot.DefaultConfig()); err == nil || !strings.Contains(err.Error(), "expands to 2") {
		t.Errorf("want expansion error, got %v", err)
	}
}
