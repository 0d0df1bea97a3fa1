// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
)

// TimeLayouts are the layouts tried, in order, when parsing time
// values.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ValueParser is a function that parses a string value into a
// float64 or time.Time, or returns an error if the string cannot be
// parsed.
type ValueParser func(string) (interface{}, error)

// DefaultValueParsers is the default sequence of value parsers used
// by FromStrings if no parsers are specified.
var DefaultValueParsers = []ValueParser{
	func(s string) (interface{}, error) { return strconv.ParseFloat(s, 64) },
	func(s string) (interface{}, error) {
		for _, layout := range TimeLayouts {
			if v, err := time.Parse(layout, s); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("bad time %q", s)
	},
}

// FromStrings returns a Table with the given column names and rows
// of raw string cells.
//
// Each column's kind is inferred with best-effort pattern-based
// parsing. If every non-empty cell of a column can be parsed by one
// of the valueParsers, the column takes the type of that parser's
// results. If multiple ValueParsers can parse all of the cells, it
// uses the earliest such parser in the valueParsers list. Otherwise
// the column is categorical. Empty cells are null and never affect
// the inferred kind.
//
// If valueParsers is nil, it uses DefaultValueParsers.
func FromStrings(header []string, rows [][]string, valueParsers []ValueParser) (*Table, error) {
	if valueParsers == nil {
		valueParsers = DefaultValueParsers
	}

	seen := make(map[string]bool)
	for _, col := range header {
		if col == "" {
			return nil, fmt.Errorf("empty column name")
		}
		if seen[col] {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		seen[col] = true
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, but there are only %d columns", i+1, len(row), len(header))
		}
	}
	cell := func(row []string, j int) string {
		if j < len(row) {
			return strings.TrimSpace(row[j])
		}
		return ""
	}

	var b table.Builder
	for j, col := range header {
		raw := make([]string, len(rows))
		nonEmpty := 0
		for i, row := range rows {
			raw[i] = cell(row, j)
			if raw[i] != "" {
				nonEmpty++
			}
		}
		if nonEmpty == 0 {
			b.Add(col, raw)
			continue
		}
		if seq := parseColumn(raw, valueParsers); seq != nil {
			b.Add(col, seq)
		} else {
			// All of the value parsers failed. Fall back
			// to strings.
			b.Add(col, raw)
		}
	}
	return New(b.Done())
}

// parseColumn tries valueParsers in priority order on raw and returns
// the first complete conversion, or nil if none succeeded.
func parseColumn(raw []string, valueParsers []ValueParser) interface{} {
tryParsers:
	for _, vp := range valueParsers {
		var fs []float64
		var ts []time.Time
		for i, s := range raw {
			if s == "" {
				continue
			}
			res, err := vp(s)
			if err != nil {
				continue tryParsers
			}
			switch res := res.(type) {
			case float64:
				if ts != nil {
					continue tryParsers
				}
				if fs == nil {
					fs = make([]float64, len(raw))
					for k := range fs {
						fs[k] = math.NaN()
					}
				}
				fs[i] = res
			case time.Time:
				if fs != nil {
					continue tryParsers
				}
				if ts == nil {
					ts = make([]time.Time, len(raw))
				}
				ts[i] = res.UTC()
			default:
				continue tryParsers
			}
		}
		if fs != nil {
			return fs
		}
		if ts != nil {
			return ts
		}
	}
	return nil
}

// ReadCSV reads a delimited table from r. The first record is the
// header.
func ReadCSV(r io.Reader, comma rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	header := recs[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return FromStrings(header, recs[1:], nil)
}

// Load reads the table stored at path. The format is chosen by file
// extension: .csv, .tsv (or .tab), and .xlsx (first sheet).
func Load(path string) (*Table, error) {
	var t *Table
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".tab", ".txt":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		comma := ','
		if ext != ".csv" {
			comma = '\t'
		}
		t, err = ReadCSV(f, comma)
	case ".xlsx", ".xlsm":
		t, err = ReadXLSX(path, "")
	default:
		return nil, fmt.Errorf("%s: unknown data file format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return t, nil
}
