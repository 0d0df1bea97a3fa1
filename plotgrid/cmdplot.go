// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/aclements/go-plotgrid/render"
	"github.com/aclements/go-plotgrid/sem"
)

func init() {
	registerSubcommand("plot", "[flags] data-file -- plot a data file, one panel per group", cmdPlot)
}

func cmdPlot(args []string) error {
	f := newFlagSet("plot", "data-file")
	request := requestFlags(f)
	cfg := configFlags(f)
	out := newOutputFlags(f)
	cols := f.Int("cols", 0, "wrap panels into `n` columns (default near square)")
	if err := parseFlags(f, args, 1, 1); err != nil {
		return err
	}
	req, err := request()
	if err != nil {
		return err
	}
	// Check the output format before doing any work.
	if _, err := out.resolveFormat(); err != nil {
		return err
	}

	t, err := dataset.Load(f.Arg(0))
	if err != nil {
		return err
	}
	asm, err := plot.Assemble(t, req, *cfg)
	if err != nil {
		return err
	}
	logWarnings(asm.Warnings)
	return out.write(render.Wrap(asm.Instances, *cols), *cfg)
}

func logWarnings(ws []sem.Warning) {
	for _, w := range ws {
		log.Printf("warning: %s", w)
	}
}
