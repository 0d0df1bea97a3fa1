// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series turns a table into the traces drawn in one plot.
//
// Each trace is either the per-x mean of the observations for one hue
// key, or, when SEM is configured, the mean ± SEM band for that key.
// Both the limits computation and the renderer consume these traces,
// so the values used to scale an axis are exactly the values drawn.
package series

import (
	"runtime"

	"github.com/aclements/go-plotgrid/agg"
	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/sem"
	"golang.org/x/sync/errgroup"
)

// Spec says which columns form the traces of a plot.
type Spec struct {
	X, Y string
	Hue  []string
	SEM  sem.Spec
}

// A Trace is one line of a plot. Lower and Upper are nil unless the
// trace has an error band.
type Trace struct {
	Key   agg.HueKey `json:"key"`
	Label string     `json:"label,omitempty"`
	X     []float64  `json:"x"`
	Y     []float64  `json:"y"`
	Lower []float64  `json:"lower,omitempty"`
	Upper []float64  `json:"upper,omitempty"`
}

// HasBand reports whether tr has an error band.
func (tr Trace) HasBand() bool {
	return tr.Lower != nil
}

// Build computes the traces of t under spec, in hue key order. Keys
// with no valid observations produce no trace. Warnings from the
// precomputed SEM regime are labeled with their trace.
func Build(t *dataset.Table, spec Spec) ([]Trace, []sem.Warning, error) {
	subs, err := agg.SplitByHue(t, spec.Hue)
	if err != nil {
		return nil, nil, err
	}
	var traces []Trace
	var warnings []sem.Warning
	for _, sub := range subs {
		label := sub.Key.String()
		if !spec.SEM.Enabled() {
			s, err := agg.Aggregate(sub.Data, spec.X, spec.Y)
			if err != nil {
				return nil, nil, err
			}
			if s.Len() > 0 {
				traces = append(traces, Trace{Key: sub.Key, Label: label, X: s.X, Y: s.Y})
			}
			continue
		}

		b, ws, err := sem.Compute(sub.Data, spec.X, spec.Y, spec.SEM)
		if err != nil {
			return nil, nil, err
		}
		for _, w := range ws {
			w.Hue = label
			warnings = append(warnings, w)
		}
		if b.Len() > 0 {
			traces = append(traces, Trace{Key: sub.Key, Label: label, X: b.X, Y: b.Center, Lower: b.Lower, Upper: b.Upper})
		}
	}
	return traces, warnings, nil
}

// BuildEach builds the traces of each table in parallel. The results
// are indexed like tables. Empty tables have no traces.
func BuildEach(tables []*dataset.Table, spec Spec) ([][]Trace, [][]sem.Warning, error) {
	traces := make([][]Trace, len(tables))
	warnings := make([][]sem.Warning, len(tables))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, t := range tables {
		if t == nil || t.Len() == 0 {
			continue
		}
		i, t := i, t
		g.Go(func() error {
			var err error
			traces[i], warnings[i], err = Build(t, spec)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return traces, warnings, nil
}
