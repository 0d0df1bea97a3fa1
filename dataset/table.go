// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dataset provides typed, immutable tables of observations.
//
// A Table wraps a go-gg table whose columns are each one of three
// kinds: numeric ([]float64), categorical ([]string), or time
// ([]time.Time). Missing cells are represented in-band: NaN for
// numeric columns, "" for categorical columns, and the zero time for
// time columns. Every operation in this package treats such cells as
// null and never returns them as values.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/aclements/go-gg/generic"
	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
)

// Kind is the type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
	Time
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Time:
		return "time"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Table is an immutable table of observations.
type Table struct {
	t     *table.Table
	kinds map[string]Kind
}

// New returns a Table backed by t. Integer and float32 columns are
// converted to float64. Columns of any other element type are an
// error.
func New(t *table.Table) (*Table, error) {
	b := table.NewBuilder(t)
	kinds := make(map[string]Kind)
	for _, col := range t.Columns() {
		switch seq := t.Column(col).(type) {
		case []float64:
			kinds[col] = Numeric
		case []string:
			kinds[col] = Categorical
		case []time.Time:
			kinds[col] = Time
		default:
			k := reflect.TypeOf(seq).Elem().Kind()
			switch k {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
				reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
				reflect.Float32, reflect.Float64:
				var fs []float64
				slice.Convert(&fs, seq)
				b.Add(col, fs)
				kinds[col] = Numeric
			case reflect.String:
				var ss []string
				slice.Convert(&ss, seq)
				b.Add(col, ss)
				kinds[col] = Categorical
			default:
				return nil, fmt.Errorf("column %q has unsupported type %T", col, seq)
			}
		}
	}
	return &Table{b.Done(), kinds}, nil
}

// MustNew is like New, but panics on error.
func MustNew(t *table.Table) *Table {
	tab, err := New(t)
	if err != nil {
		panic(err)
	}
	return tab
}

// Len returns the number of rows in t.
func (t *Table) Len() int {
	return t.t.Len()
}

// Columns returns the names of t's columns in order.
func (t *Table) Columns() []string {
	return t.t.Columns()
}

// Has reports whether t has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.kinds[col]
	return ok
}

// Kind returns the kind of column col. It panics if col does not
// exist.
func (t *Table) Kind(col string) Kind {
	k, ok := t.kinds[col]
	if !ok {
		panic(fmt.Sprintf("unknown column %q", col))
	}
	return k
}

// Raw returns the underlying go-gg table. The caller must not modify
// it.
func (t *Table) Raw() *table.Table {
	return t.t
}

// Floats returns column col as float64s. Time columns are converted
// to seconds since the Unix epoch. Null cells are NaN. The caller
// must not modify the returned slice.
func (t *Table) Floats(col string) ([]float64, error) {
	if !t.Has(col) {
		return nil, fmt.Errorf("unknown column %q", col)
	}
	switch seq := t.t.Column(col).(type) {
	case []float64:
		return seq, nil
	case []time.Time:
		fs := make([]float64, len(seq))
		for i, v := range seq {
			fs[i] = TimeToFloat(v)
		}
		return fs, nil
	}
	return nil, fmt.Errorf("column %q is %s, not numeric", col, t.kinds[col])
}

// TimeToFloat converts v to seconds since the Unix epoch, or NaN if v
// is the zero time.
func TimeToFloat(v time.Time) float64 {
	if v.IsZero() {
		return math.NaN()
	}
	return float64(v.UnixNano()) / 1e9
}

// Value returns the cell of column col at row i. The result is a
// float64, string, or time.Time depending on the column kind.
func (t *Table) Value(col string, i int) interface{} {
	return reflect.ValueOf(t.t.MustColumn(col)).Index(i).Interface()
}

// IsNull reports whether the cell of column col at row i is missing.
func (t *Table) IsNull(col string, i int) bool {
	return IsNull(t.Value(col, i))
}

// IsNull reports whether v is a null cell value.
func IsNull(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	case string:
		return v == ""
	case time.Time:
		return v.IsZero()
	}
	return false
}

// Distinct returns the distinct non-null values of column col in
// ascending order.
func (t *Table) Distinct(col string) []interface{} {
	seq := t.t.MustColumn(col)
	rv := reflect.ValueOf(seq)
	seen := make(map[interface{}]bool)
	elemType := rv.Type().Elem()
	vals := reflect.MakeSlice(reflect.SliceOf(elemType), 0, 0)
	for i := 0; i < rv.Len(); i++ {
		v := rv.Index(i).Interface()
		if IsNull(v) {
			continue
		}
		if tv, ok := v.(time.Time); ok {
			// Normalize so equal instants share a key.
			v = tv.UTC()
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		vals = reflect.Append(vals, reflect.ValueOf(v))
	}

	if generic.CanOrderR(elemType.Kind()) {
		slice.Sort(vals.Interface())
	} else if ts, ok := vals.Interface().([]time.Time); ok {
		sort.Sort(byTime(ts))
	}

	out := make([]interface{}, vals.Len())
	for i := range out {
		out[i] = vals.Index(i).Interface()
	}
	return out
}

type byTime []time.Time

func (s byTime) Len() int           { return len(s) }
func (s byTime) Less(i, j int) bool { return s[i].Before(s[j]) }
func (s byTime) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Select returns a new Table consisting of the given rows of t, in
// the order given.
func (t *Table) Select(rows []int) *Table {
	var b table.Builder
	for _, col := range t.t.Columns() {
		b.Add(col, slice.Select(t.t.Column(col), rows))
	}
	return &Table{b.Done(), t.kinds}
}

// Filter returns the rows of t where every column cols[i] equals
// vals[i]. Each value is first coerced to its column's kind, so a
// string such as "2024-01-02" matches a time column. A null value
// matches no rows.
func (t *Table) Filter(cols []string, vals []interface{}) (*Table, error) {
	if len(cols) != len(vals) {
		return nil, fmt.Errorf("%d filter columns but %d values", len(cols), len(vals))
	}
	want := make([]interface{}, len(vals))
	for i, col := range cols {
		if !t.Has(col) {
			return nil, fmt.Errorf("unknown column %q", col)
		}
		v, err := Coerce(t.kinds[col], vals[i])
		if err != nil {
			return nil, fmt.Errorf("column %q: %v", col, err)
		}
		want[i] = v
	}

	var rows []int
	for i := 0; i < t.Len(); i++ {
		match := true
		for j, col := range cols {
			if IsNull(want[j]) || !Equal(t.Value(col, i), want[j]) {
				match = false
				break
			}
		}
		if match {
			rows = append(rows, i)
		}
	}
	if rows == nil {
		rows = []int{}
	}
	return t.Select(rows), nil
}

// Coerce converts v to the Go type used for cells of kind k.
func Coerce(k Kind, v interface{}) (interface{}, error) {
	if n, ok := v.(json.Number); ok {
		v = string(n)
	}
	switch k {
	case Numeric:
		switch v := v.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%q is not a number", v)
			}
			return f, nil
		}
	case Categorical:
		switch v := v.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'g', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	case Time:
		switch v := v.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range TimeLayouts {
				if tv, err := time.Parse(layout, v); err == nil {
					return tv, nil
				}
			}
			return nil, fmt.Errorf("%q is not a time", v)
		}
	}
	return nil, fmt.Errorf("cannot use %v (%T) as %s value", v, v, k)
}

// Equal reports whether cell values a and b are equal. Times are
// compared as instants.
func Equal(a, b interface{}) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return a == b
}

// Compare returns -1, 0, or 1 depending on whether a sorts before,
// equal to, or after b. Values of the same type are compared
// naturally. Values of different types are ordered numbers, then
// times, then strings.
func Compare(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch a := a.(type) {
	case float64:
		b := b.(float64)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	case time.Time:
		b := b.(time.Time)
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		}
	case string:
		b := b.(string)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

func typeRank(v interface{}) int {
	switch v.(type) {
	case float64:
		return 0
	case time.Time:
		return 1
	case string:
		return 2
	}
	return 3
}

// FormatValue formats a cell value for display.
func FormatValue(v interface{}) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02")
		}
		return v.Format(time.RFC3339)
	case string:
		return v
	}
	return fmt.Sprint(v)
}
