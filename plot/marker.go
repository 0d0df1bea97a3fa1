// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"fmt"
	"math"

	"github.com/aclements/go-plotgrid/limits"
)

// MarkerShapes are the valid ErrorMarker shapes: circle, square,
// triangle up, triangle down, diamond, and star.
var MarkerShapes = []string{"o", "s", "^", "v", "D", "*"}

// An ErrorMarker annotates a plot with a point and an error bar, such
// as the timing of an event with its uncertainty. A nil X or Y is
// placed automatically.
type ErrorMarker struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	XErr   *float64 `json:"xerr"`
	YErr   *float64 `json:"yerr"`
	Color  string   `json:"color"`
	Label  string   `json:"label,omitempty"`
	Marker string   `json:"marker,omitempty"`
}

// Validate checks that m has an error bar and a color.
func (m ErrorMarker) Validate() error {
	if m.XErr == nil && m.YErr == nil {
		return fmt.Errorf("marker needs xerr or yerr")
	}
	if m.Color == "" {
		return fmt.Errorf("marker needs a color")
	}
	for _, p := range []*float64{m.X, m.Y} {
		if p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0)) {
			return fmt.Errorf("marker position must be finite")
		}
	}
	for _, p := range []*float64{m.XErr, m.YErr} {
		if p != nil && !(*p >= 0 && !math.IsInf(*p, 0)) {
			return fmt.Errorf("marker error must be finite and non-negative")
		}
	}
	if m.Marker != "" {
		ok := false
		for _, s := range MarkerShapes {
			ok = ok || s == m.Marker
		}
		if !ok {
			return fmt.Errorf("unknown marker shape %q", m.Marker)
		}
	}
	return nil
}

// A PlacedMarker is an ErrorMarker with a concrete position.
type PlacedMarker struct {
	X, Y       float64
	XErr, YErr float64
	Color      string
	Label      string
	Marker     string
}

// PlaceMarkers resolves the positions of ms within the axis ranges xr
// and yr. Markers without an X are stacked rightward from the left
// edge, and markers without a Y are stacked downward from the top
// edge, each step being offset of the axis span.
func PlaceMarkers(ms []ErrorMarker, xr, yr limits.Range, offset float64) []PlacedMarker {
	out := make([]PlacedMarker, 0, len(ms))
	autoX, autoY := 0, 0
	for _, m := range ms {
		p := PlacedMarker{Color: m.Color, Label: m.Label, Marker: m.Marker}
		if p.Marker == "" {
			p.Marker = "o"
		}
		if m.X != nil {
			p.X = *m.X
		} else {
			autoX++
			p.X = xr.Min + float64(autoX)*offset*(xr.Max-xr.Min)
		}
		if m.Y != nil {
			p.Y = *m.Y
		} else {
			autoY++
			p.Y = yr.Max - float64(autoY)*offset*(yr.Max-yr.Min)
		}
		if m.XErr != nil {
			p.XErr = *m.XErr
		}
		if m.YErr != nil {
			p.YErr = *m.YErr
		}
		out = append(out, p)
	}
	return out
}
