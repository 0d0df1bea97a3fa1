// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot assembles plot requests into concrete plot instances.
//
// Assemble expands a Request's group columns into one Instance per
// combination of values, computes each instance's traces, and
// resolves the axis limits the instances share. Instances carry
// everything a renderer needs; renderers never recompute
// aggregations or limits.
package plot

import (
	"fmt"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/facet"
	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/sem"
	"github.com/aclements/go-plotgrid/series"
)

// Config holds assembly parameters.
type Config struct {
	// MaxCombinations limits the number of instances a request
	// may expand to.
	MaxCombinations int

	// MarkerStackOffset is the fraction of an axis span between
	// automatically placed error markers.
	MarkerStackOffset float64
}

// DefaultConfig returns the default assembly parameters.
func DefaultConfig() Config {
	return Config{
		MaxCombinations:   facet.DefaultMaxCombinations,
		MarkerStackOffset: 0.05,
	}
}

// An Instance is one plot of a request's family.
type Instance struct {
	Index int `json:"index"`

	Request *Request     `json:"-"`
	Filter  facet.Filter `json:"filter"`

	// Label identifies the instance within its family. It is ""
	// for an ungrouped request.
	Label string `json:"label,omitempty"`

	// Title is the request title followed by the label.
	Title string `json:"title,omitempty"`

	// Data is the subset of the table this instance plots.
	Data *dataset.Table `json:"-"`

	// Empty is true if Data has no rows.
	Empty bool `json:"empty"`

	// XLim and YLim are the axis ranges. A nil range is scaled to
	// the data by the renderer.
	XLim *limits.Range `json:"xlim,omitempty"`
	YLim *limits.Range `json:"ylim,omitempty"`

	Traces []series.Trace `json:"traces"`
}

// Markers places the request's error markers within the ranges xr and
// yr.
func (in *Instance) Markers(xr, yr limits.Range, cfg Config) []PlacedMarker {
	return PlaceMarkers(in.Request.ErrorMarkers, xr, yr, cfg.MarkerStackOffset)
}

// An Assembly is the result of assembling a request.
type Assembly struct {
	Instances []*Instance   `json:"instances"`
	Warnings  []sem.Warning `json:"warnings,omitempty"`
}

// Assemble expands req over t into plot instances.
//
// The request is validated before any data is read. If the request
// sets manual limits, every instance uses them. Otherwise, if there
// is more than one instance, all instances share the smallest limits
// that contain every trace of every non-empty instance; if every
// instance is empty this fails with limits.ErrEmptyDataSet. A single
// instance has no limits.
//
// Any error aborts the whole assembly.
func Assemble(t *dataset.Table, req *Request, cfg Config) (*Assembly, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := req.Check(t); err != nil {
		return nil, err
	}

	base, err := req.Filter.Apply(t)
	if err != nil {
		return nil, err
	}
	filters, err := facet.Expand(base, req.Groups, cfg.MaxCombinations)
	if err != nil {
		return nil, err
	}

	subsets := make([]*dataset.Table, len(filters))
	for i, f := range filters {
		if subsets[i], err = f.Apply(base); err != nil {
			return nil, err
		}
	}
	traceSets, warningSets, err := series.BuildEach(subsets, req.Series())
	if err != nil {
		return nil, err
	}
	asm := new(Assembly)
	for _, ws := range warningSets {
		asm.Warnings = append(asm.Warnings, ws...)
	}

	var xlim, ylim *limits.Range
	if req.XLim != nil || req.YLim != nil {
		xlim, ylim = req.XLim, req.YLim
	} else if len(filters) > 1 {
		lim, err := limits.Fold(traceSets)
		if err != nil {
			return nil, fmt.Errorf("computing shared limits: %w", err)
		}
		xlim, ylim = &lim.X, &lim.Y
	}

	for i, f := range filters {
		in := &Instance{
			Index:   i,
			Request: req,
			Filter:  f,
			Label:   f.Label(),
			Data:    subsets[i],
			Empty:   subsets[i].Len() == 0,
			XLim:    xlim,
			YLim:    ylim,
			Traces:  traceSets[i],
		}
		in.Title = in.Label
		if req.Title != "" {
			in.Title = req.Title
			if in.Label != "" {
				in.Title += ": " + in.Label
			}
		}
		asm.Instances = append(asm.Instances, in)
	}
	return asm, nil
}
