// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aclements/go-plotgrid/project"
)

func init() {
	registerSubcommand("new", "[flags] data-file -- write a project file with one plot per group", cmdNew)
}

func cmdNew(args []string) error {
	f := newFlagSet("new", "data-file")
	request := requestFlags(f)
	cfg := configFlags(f)
	out := f.String("o", "", "write the project to `file` (required)")
	name := f.String("name", "", "data source `name` (default the data file's base name)")
	layout := f.String("layout", project.LayoutRow, "place grouped plots in a `row` or col")
	if err := parseFlags(f, args, 1, 1); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("missing -o project file")
	}
	req, err := request()
	if err != nil {
		return err
	}
	path := f.Arg(0)
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	p, warnings, err := project.QuickGrouped(*name, path, req, *layout, *cfg)
	if err != nil {
		return err
	}
	logWarnings(warnings)
	return project.Save(p, *out)
}
