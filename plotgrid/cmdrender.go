// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/aclements/go-plotgrid/project"
	"github.com/aclements/go-plotgrid/render"
)

func init() {
	registerSubcommand("render", "[flags] project-file -- render a project file", cmdRender)
}

func cmdRender(args []string) error {
	f := newFlagSet("render", "project-file")
	cfg := configFlags(f)
	out := newOutputFlags(f)
	if err := parseFlags(f, args, 1, 1); err != nil {
		return err
	}
	if _, err := out.resolveFormat(); err != nil {
		return err
	}

	p, err := project.Load(f.Arg(0))
	if err != nil {
		return err
	}
	cells, warnings, err := project.Resolve(p, project.LoadFile, *cfg)
	if err != nil {
		return err
	}
	logWarnings(warnings)
	return out.write(projectPage(p, cells), *cfg)
}

// projectPage lays out resolved cells on p's grid.
func projectPage(p *project.Project, cells []project.Cell) *render.Page {
	pg := &render.Page{Rows: p.Grid.Rows, Cols: p.Grid.Cols}
	for _, c := range cells {
		pos := c.Plot.Position
		pg.Panels = append(pg.Panels, render.Panel{
			Row:      pos.Row,
			Col:      pos.Col,
			RowSpan:  pos.RowSpan,
			ColSpan:  pos.ColSpan,
			Instance: c.Instance,
		})
	}
	return pg
}
