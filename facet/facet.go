// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package facet expands group columns into the combinations of
// values that each get their own plot.
package facet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/aclements/go-plotgrid/dataset"
)

// DefaultMaxCombinations is the default limit on the number of
// filters Expand will produce.
const DefaultMaxCombinations = 100

// A Filter selects the rows of a table whose Cols equal the
// corresponding Vals.
type Filter struct {
	Cols []string
	Vals []interface{}
}

// Empty reports whether f selects every row.
func (f Filter) Empty() bool {
	return len(f.Cols) == 0
}

// Label returns f as "col1=val1, col2=val2".
func (f Filter) Label() string {
	return Label(f.Cols, f.Vals)
}

// Label formats column/value pairs as "col1=val1, col2=val2".
func Label(cols []string, vals []interface{}) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = col + "=" + dataset.FormatValue(vals[i])
	}
	return strings.Join(parts, ", ")
}

// Map returns f as a map from column to value.
func (f Filter) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(f.Cols))
	for i, col := range f.Cols {
		m[col] = f.Vals[i]
	}
	return m
}

// Apply returns the rows of t selected by f.
func (f Filter) Apply(t *dataset.Table) (*dataset.Table, error) {
	if f.Empty() {
		return t, nil
	}
	return t.Filter(f.Cols, f.Vals)
}

// MarshalJSON encodes f as a JSON object whose keys appear in column
// order.
func (f Filter) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range f.Cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into f, preserving key order.
// Numbers decode as float64.
func (f *Filter) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = Filter{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("filter must be a JSON object")
	}
	var nf Filter
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		col := tok.(string)
		var val interface{}
		if err := dec.Decode(&val); err != nil {
			return err
		}
		switch val.(type) {
		case string, float64, bool:
		default:
			return fmt.Errorf("filter value for %q must be a scalar", col)
		}
		nf.Cols = append(nf.Cols, col)
		nf.Vals = append(nf.Vals, val)
	}
	*f = nf
	return nil
}

// CombinationLimitError is returned by Expand when the group columns
// have more value combinations than allowed. Size saturates at
// math.MaxInt.
type CombinationLimitError struct {
	Size, Limit int
}

func (e *CombinationLimitError) Error() string {
	if e.Size == math.MaxInt {
		return fmt.Sprintf("too many group combinations (at least %d > %d); reduce group columns or categories", math.MaxInt, e.Limit)
	}
	return fmt.Sprintf("too many group combinations (%d > %d); reduce group columns or categories", e.Size, e.Limit)
}

// Expand returns one Filter for every combination of the distinct
// non-null values of cols in t.
//
// The values of each column are sorted in ascending order and
// combinations are produced in lexicographic order with the first
// column varying slowest. If cols is empty, Expand returns a single
// empty Filter. If any column has no non-null values, there are no
// combinations.
//
// If the number of combinations exceeds limit, Expand returns a
// *CombinationLimitError without enumerating them. If limit <= 0,
// DefaultMaxCombinations is used.
func Expand(t *dataset.Table, cols []string, limit int) ([]Filter, error) {
	if limit <= 0 {
		limit = DefaultMaxCombinations
	}
	if len(cols) == 0 {
		return []Filter{{}}, nil
	}

	levels := make([][]interface{}, len(cols))
	for i, col := range cols {
		if !t.Has(col) {
			return nil, fmt.Errorf("unknown group column %q", col)
		}
		levels[i] = t.Distinct(col)
	}
	for _, l := range levels {
		if len(l) == 0 {
			return []Filter{}, nil
		}
	}
	size := 1
	for _, l := range levels {
		size = mulSat(size, len(l))
	}
	if size > limit {
		return nil, &CombinationLimitError{size, limit}
	}

	out := make([]Filter, 0, size)
	idx := make([]int, len(cols))
	for {
		vals := make([]interface{}, len(cols))
		for i, j := range idx {
			vals[i] = levels[i][j]
		}
		out = append(out, Filter{append([]string(nil), cols...), vals})

		// Advance the odometer. The last column varies fastest.
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(levels[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return out, nil
		}
	}
}

// mulSat returns a*b for non-negative a and b, saturating at
// math.MaxInt.
func mulSat(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}
