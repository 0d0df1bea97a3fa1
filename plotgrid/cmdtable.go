// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-plotgrid/dataset"
)

func init() {
	registerSubcommand("table", "[flags] data-file -- print a data file or its inferred schema", cmdTable)
}

func cmdTable(args []string) error {
	f := newFlagSet("table", "data-file")
	schema := f.Bool("schema", false, "print the inferred column schema instead of the rows")
	if err := parseFlags(f, args, 1, 1); err != nil {
		return err
	}
	t, err := dataset.Load(f.Arg(0))
	if err != nil {
		return err
	}
	if *schema {
		return printSchema(os.Stdout, t.Schema())
	}
	return table.Fprint(os.Stdout, t.Raw())
}

func printSchema(w io.Writer, schema []dataset.ColumnInfo) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "column\tkind\trole\tcategories\n")
	for _, c := range schema {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Kind, c.Role, strings.Join(c.Categories, ", "))
	}
	return tw.Flush()
}
