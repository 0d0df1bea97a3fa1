// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import "math"

// Maximum number of distinct values, and maximum ratio of distinct
// values to rows, for a numeric column to be treated as categorical.
const (
	CategoricalMaxDistinct = 20
	CategoricalMaxRatio    = 0.05
)

// ColumnInfo describes how a column is likely to be used in a plot.
type ColumnInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	// Role is "categorical" or "continuous".
	Role string `json:"role"`
	// Categories lists the distinct values of categorical
	// columns.
	Categories []string `json:"categories,omitempty"`
}

// Schema infers the role of each of t's columns. Categorical and time
// columns are categorical. A numeric column is categorical if it has
// few distinct values, both absolutely and relative to the number of
// rows; otherwise it is continuous.
func (t *Table) Schema() []ColumnInfo {
	var out []ColumnInfo
	for _, col := range t.Columns() {
		info := ColumnInfo{Name: col, Kind: t.Kind(col).String(), Role: "categorical"}
		vals := t.Distinct(col)
		if t.Kind(col) == Numeric {
			limit := math.Max(1, math.Floor(CategoricalMaxRatio*float64(t.Len())))
			if len(vals) > CategoricalMaxDistinct || float64(len(vals)) > limit {
				info.Role = "continuous"
			}
		}
		if info.Role == "categorical" {
			for _, v := range vals {
				info.Categories = append(info.Categories, FormatValue(v))
			}
		}
		out = append(out, info)
	}
	return out
}
