// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package project reads and writes plot grid projects.
//
// A project is a grid of plots, each of which plots one data source
// according to a plot.Request. Projects are stored as indented JSON,
// conventionally with a .ppo extension.
package project

import (
	"fmt"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/google/uuid"
)

// Version is the project format version written by this package.
const Version = "0.9.0"

// Project is a grid of plots.
type Project struct {
	Version     string        `json:"version"`
	Grid        Grid          `json:"grid"`
	DataSources []*DataSource `json:"data_sources"`
	Plots       []*Plot       `json:"plots"`
}

// Grid is the size of a project's plot grid.
type Grid struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// A DataSource is a table stored in a file.
type DataSource struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Path   string               `json:"path"`
	Schema []dataset.ColumnInfo `json:"schema,omitempty"`
}

// Position is the cell range a plot occupies in the grid.
type Position struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"rowspan"`
	ColSpan int `json:"colspan"`
}

// A Plot places one plot request in the grid.
type Plot struct {
	ID           string        `json:"id"`
	DataSourceID string        `json:"datasource_id"`
	Position     Position      `json:"grid_position"`
	Request      *plot.Request `json:"request"`
}

// New returns a project with the given grid, data sources, and plots.
func New(grid Grid, sources []*DataSource, plots []*Plot) *Project {
	return &Project{Version: Version, Grid: grid, DataSources: sources, Plots: plots}
}

// NewDataSource returns a data source with a fresh ID.
func NewDataSource(name, path string) *DataSource {
	return &DataSource{ID: uuid.NewString(), Name: name, Path: path}
}

// NewPlot returns a single-cell plot at (row, col) with a fresh ID.
func NewPlot(sourceID string, req *plot.Request, row, col int) *Plot {
	return &Plot{
		ID:           uuid.NewString(),
		DataSourceID: sourceID,
		Position:     Position{Row: row, Col: col, RowSpan: 1, ColSpan: 1},
		Request:      req,
	}
}

// DataSource returns the data source with the given ID, or nil.
func (p *Project) DataSource(id string) *DataSource {
	for _, ds := range p.DataSources {
		if ds.ID == id {
			return ds
		}
	}
	return nil
}

// AddRow appends a row to the grid.
func (p *Project) AddRow() {
	p.Grid.Rows++
}

// AddCol appends a column to the grid.
func (p *Project) AddCol() {
	p.Grid.Cols++
}

// Fit returns the smallest grid that contains every plot, or
// DefaultGrid if there are no plots.
func Fit(plots []*Plot) Grid {
	if len(plots) == 0 {
		return DefaultGrid
	}
	var g Grid
	for _, pl := range plots {
		pos := pl.Position
		if r := pos.Row + span(pos.RowSpan); r > g.Rows {
			g.Rows = r
		}
		if c := pos.Col + span(pos.ColSpan); c > g.Cols {
			g.Cols = c
		}
	}
	return g
}

// DefaultGrid is the grid of a project without plots.
var DefaultGrid = Grid{Rows: 2, Cols: 3}

func span(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// At returns the plot occupying cell (row, col), or nil.
func (p *Project) At(row, col int) *Plot {
	for _, pl := range p.Plots {
		pos := pl.Position
		if row >= pos.Row && row < pos.Row+span(pos.RowSpan) &&
			col >= pos.Col && col < pos.Col+span(pos.ColSpan) {
			return pl
		}
	}
	return nil
}

// Move moves the plot at cell src to cell dst, swapping it with any
// plot whose position starts at dst.
func (p *Project) Move(src, dst [2]int) error {
	a := p.At(src[0], src[1])
	if a == nil {
		return fmt.Errorf("no plot at row %d, col %d", src[0], src[1])
	}
	b := p.At(dst[0], dst[1])
	if b != nil && (b.Position.Row != dst[0] || b.Position.Col != dst[1]) {
		return fmt.Errorf("row %d, col %d is inside a spanning plot", dst[0], dst[1])
	}
	if b != nil {
		b.Position.Row, b.Position.Col = a.Position.Row, a.Position.Col
	}
	a.Position.Row, a.Position.Col = dst[0], dst[1]
	return nil
}

// Validate checks that every plot has a data source and lies inside
// the grid, and that no two plots overlap.
func (p *Project) Validate() error {
	if p.Grid.Rows < 1 || p.Grid.Cols < 1 {
		return fmt.Errorf("grid must have at least one row and column, got %dx%d", p.Grid.Rows, p.Grid.Cols)
	}
	ids := make(map[string]bool)
	for _, ds := range p.DataSources {
		if ids[ds.ID] {
			return fmt.Errorf("duplicate data source ID %s", ds.ID)
		}
		ids[ds.ID] = true
	}

	owner := make(map[[2]int]string)
	for _, pl := range p.Plots {
		if p.DataSource(pl.DataSourceID) == nil {
			return fmt.Errorf("plot %s: unknown data source %q", pl.ID, pl.DataSourceID)
		}
		if pl.Request == nil {
			return fmt.Errorf("plot %s: missing request", pl.ID)
		}
		pos := pl.Position
		if pos.Row < 0 || pos.Col < 0 || pos.Row+span(pos.RowSpan) > p.Grid.Rows || pos.Col+span(pos.ColSpan) > p.Grid.Cols {
			return fmt.Errorf("plot %s at row %d, col %d does not fit in %dx%d grid", pl.ID, pos.Row, pos.Col, p.Grid.Rows, p.Grid.Cols)
		}
		for r := pos.Row; r < pos.Row+span(pos.RowSpan); r++ {
			for c := pos.Col; c < pos.Col+span(pos.ColSpan); c++ {
				if other, ok := owner[[2]int{r, c}]; ok {
					return fmt.Errorf("plots %s and %s overlap at row %d, col %d", other, pl.ID, r, c)
				}
				owner[[2]int{r, c}] = pl.ID
			}
		}
	}
	return nil
}
