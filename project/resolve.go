// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/aclements/go-plotgrid/sem"
	"golang.org/x/sync/errgroup"
)

// A Loader reads the table of a data source.
type Loader func(ds *DataSource) (*dataset.Table, error)

// LoadFile loads ds from its path.
func LoadFile(ds *DataSource) (*dataset.Table, error) {
	return dataset.Load(ds.Path)
}

// A Cell is an assembled plot at its grid position.
type Cell struct {
	Plot     *Plot
	Instance *plot.Instance
}

// Resolve loads every data source p refers to and assembles each plot.
// Each plot must assemble to exactly one instance.
func Resolve(p *Project, load Loader, cfg plot.Config) ([]Cell, []sem.Warning, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		mu     sync.Mutex
		tables = make(map[string]*dataset.Table)
		g      errgroup.Group
	)
	g.SetLimit(runtime.GOMAXPROCS(0))
	used := make(map[string]bool)
	for _, pl := range p.Plots {
		if used[pl.DataSourceID] {
			continue
		}
		used[pl.DataSourceID] = true
		ds := p.DataSource(pl.DataSourceID)
		g.Go(func() error {
			t, err := load(ds)
			if err != nil {
				return fmt.Errorf("data source %s: %w", ds.Name, err)
			}
			mu.Lock()
			defer mu.Unlock()
			tables[ds.ID] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var cells []Cell
	var warnings []sem.Warning
	for _, pl := range p.Plots {
		asm, err := plot.Assemble(tables[pl.DataSourceID], pl.Request, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("plot %s: %w", pl.ID, err)
		}
		if len(asm.Instances) != 1 {
			return nil, nil, fmt.Errorf("plot %s: expands to %d plots; use grouped plots to place them", pl.ID, len(asm.Instances))
		}
		cells = append(cells, Cell{pl, asm.Instances[0]})
		warnings = append(warnings, asm.Warnings...)
	}
	return cells, warnings, nil
}
