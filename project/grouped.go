// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"fmt"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/facet"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/aclements/go-plotgrid/sem"
)

// Layout directions for GroupedPlots.
const (
	LayoutRow = "row" // Left to right.
	LayoutCol = "col" // Top to bottom.
)

// GroupedPlots assembles req over t and returns one single-cell plot
// per instance, laid out from (row, col) in the given direction.
//
// Each returned plot's request is ungrouped: the instance's group
// values are appended to its filter. Shared y limits are frozen into
// the requests so the plots still agree when rendered separately. The
// x limits are left to each plot.
func GroupedPlots(t *dataset.Table, sourceID string, req *plot.Request, row, col int, layout string, cfg plot.Config) ([]*Plot, []sem.Warning, error) {
	if layout != LayoutRow && layout != LayoutCol {
		return nil, nil, fmt.Errorf("layout must be %q or %q, got %q", LayoutRow, LayoutCol, layout)
	}
	asm, err := plot.Assemble(t, req, cfg)
	if err != nil {
		return nil, nil, err
	}

	var plots []*Plot
	for i, in := range asm.Instances {
		sub := *req
		sub.ID = ""
		sub.Groups = nil
		sub.Filter = facet.Filter{
			Cols: append(append([]string(nil), req.Filter.Cols...), in.Filter.Cols...),
			Vals: append(append([]interface{}(nil), req.Filter.Vals...), in.Filter.Vals...),
		}
		if req.YLim == nil && in.YLim != nil {
			ylim := *in.YLim
			sub.YLim = &ylim
		}
		sub.Title = in.Title

		r, c := row, col+i
		if layout == LayoutCol {
			r, c = row+i, col
		}
		pl := NewPlot(sourceID, &sub, r, c)
		pl.Request.ID = pl.ID
		plots = append(plots, pl)
	}
	return plots, asm.Warnings, nil
}

// QuickGrouped loads the table at path and returns a project holding
// that data source and the grouped plots of req, laid out from the
// top-left corner. The grid is sized to fit the plots.
func QuickGrouped(name, path string, req *plot.Request, layout string, cfg plot.Config) (*Project, []sem.Warning, error) {
	t, err := dataset.Load(path)
	if err != nil {
		return nil, nil, err
	}
	ds := NewDataSource(name, path)
	ds.Schema = t.Schema()
	plots, warnings, err := GroupedPlots(t, ds.ID, req, 0, 0, layout, cfg)
	if err != nil {
		return nil, nil, err
	}
	return New(Fit(plots), []*DataSource{ds}, plots), warnings, nil
}
