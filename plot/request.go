// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/facet"
	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/sem"
	"github.com/aclements/go-plotgrid/series"
)

// Columns is an ordered list of column names. In JSON it may be
// written as null, a single string, or a list of strings.
type Columns []string

func (c *Columns) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
		*c = nil
	case string:
		if v == "" {
			*c = nil
		} else {
			*c = Columns{v}
		}
	case []interface{}:
		cols := make(Columns, len(v))
		for i, e := range v {
			s, ok := e.(string)
			if !ok {
				return fmt.Errorf("column list element %v is not a string", e)
			}
			cols[i] = s
		}
		*c = cols
	default:
		return fmt.Errorf("columns must be a string or list of strings")
	}
	return nil
}

// A Request describes a family of line plots of one table. It is
// plain data and can be stored independently of any table.
type Request struct {
	ID string `json:"id,omitempty"`

	X string `json:"x"`
	Y string `json:"y"`

	// Hue columns split each plot into one trace per combination
	// of their values.
	Hue Columns `json:"hue,omitempty"`

	// Groups columns split the family into one plot per
	// combination of their values.
	Groups Columns `json:"groups,omitempty"`

	// Filter restricts the table before grouping.
	Filter facet.Filter `json:"filter"`

	// SEMColumn enables mean ± SEM bands. See sem.Spec.
	SEMColumn      string `json:"sem_column,omitempty"`
	SEMPrecomputed bool   `json:"sem_precomputed,omitempty"`

	// XLim and YLim, if set, fix the axis ranges of every plot.
	XLim *limits.Range `json:"xlim,omitempty"`
	YLim *limits.Range `json:"ylim,omitempty"`

	StyleLine   bool `json:"style_line"`
	StyleMarker bool `json:"style_marker"`

	// HLines and VLines are y and x values of reference lines.
	HLines []float64 `json:"hlines,omitempty"`
	VLines []float64 `json:"vlines,omitempty"`

	ErrorMarkers []ErrorMarker `json:"error_markers,omitempty"`

	Title string `json:"title,omitempty"`
}

// NewRequest returns a Request plotting y against x with lines.
func NewRequest(x, y string) *Request {
	return &Request{X: x, Y: y, StyleLine: true}
}

// UnmarshalJSON decodes r, defaulting StyleLine to true.
func (r *Request) UnmarshalJSON(data []byte) error {
	type plain Request
	p := plain(*NewRequest("", ""))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Request(p)
	return nil
}

// SEM returns r's SEM configuration.
func (r *Request) SEM() sem.Spec {
	return sem.Spec{Column: r.SEMColumn, Precomputed: r.SEMPrecomputed}
}

// Series returns the trace configuration of r.
func (r *Request) Series() series.Spec {
	return series.Spec{X: r.X, Y: r.Y, Hue: r.Hue, SEM: r.SEM()}
}

// A ValidationError reports a malformed Request.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid plot request: " + e.Msg
	}
	return "invalid plot request: " + e.Field + ": " + e.Msg
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{field, fmt.Sprintf(format, args...)}
}

// Validate checks that r is self-consistent without reference to any
// table. Each column may fill only one role among x, y, hue, groups,
// and SEM column.
func (r *Request) Validate() error {
	if r.X == "" {
		return invalid("x", "missing x column")
	}
	if r.Y == "" {
		return invalid("y", "missing y column")
	}

	roles := make(map[string]string)
	claim := func(role, col string) error {
		if col == "" {
			return invalid(role, "empty column name")
		}
		if prev, ok := roles[col]; ok {
			if prev == role {
				return invalid(role, "column %q listed twice", col)
			}
			return invalid(role, "column %q is already used as %s", col, prev)
		}
		roles[col] = role
		return nil
	}
	if err := claim("x", r.X); err != nil {
		return err
	}
	if err := claim("y", r.Y); err != nil {
		return err
	}
	for _, col := range r.Hue {
		if err := claim("hue", col); err != nil {
			return err
		}
	}
	for _, col := range r.Groups {
		if err := claim("groups", col); err != nil {
			return err
		}
	}
	if r.SEMColumn != "" {
		if err := claim("sem_column", r.SEMColumn); err != nil {
			return err
		}
	}

	seen := make(map[string]bool)
	for _, col := range r.Filter.Cols {
		if seen[col] {
			return invalid("filter", "column %q listed twice", col)
		}
		seen[col] = true
		if roles[col] == "groups" {
			return invalid("filter", "column %q is also a group column", col)
		}
	}

	if r.XLim != nil && !r.XLim.Valid() {
		return invalid("xlim", "limits %v must be finite with min < max", *r.XLim)
	}
	if r.YLim != nil && !r.YLim.Valid() {
		return invalid("ylim", "limits %v must be finite with min < max", *r.YLim)
	}

	for i, m := range r.ErrorMarkers {
		if err := m.Validate(); err != nil {
			return invalid(fmt.Sprintf("error_markers[%d]", i), "%v", err)
		}
	}
	return nil
}

// Check validates r against the columns of t.
func (r *Request) Check(t *dataset.Table) error {
	if err := r.Validate(); err != nil {
		return err
	}
	need := func(role, col string) error {
		if !t.Has(col) {
			return invalid(role, "no column %q (have %s)", col, strings.Join(t.Columns(), ", "))
		}
		return nil
	}
	if err := need("x", r.X); err != nil {
		return err
	}
	if k := t.Kind(r.X); k == dataset.Categorical {
		return invalid("x", "column %q is %s; x must be numeric or time", r.X, k)
	}
	if err := need("y", r.Y); err != nil {
		return err
	}
	if k := t.Kind(r.Y); k != dataset.Numeric {
		return invalid("y", "column %q is %s; y must be numeric", r.Y, k)
	}
	for _, col := range r.Hue {
		if err := need("hue", col); err != nil {
			return err
		}
	}
	for _, col := range r.Groups {
		if err := need("groups", col); err != nil {
			return err
		}
	}
	if r.SEMColumn != "" {
		if err := need("sem_column", r.SEMColumn); err != nil {
			return err
		}
		if k := t.Kind(r.SEMColumn); r.SEMPrecomputed && k != dataset.Numeric {
			return invalid("sem_column", "precomputed SEM column %q is %s, not numeric", r.SEMColumn, k)
		}
	}
	for i, col := range r.Filter.Cols {
		if err := need("filter", col); err != nil {
			return err
		}
		if _, err := dataset.Coerce(t.Kind(col), r.Filter.Vals[i]); err != nil {
			return invalid("filter", "column %q: %v", col, err)
		}
	}
	return nil
}
