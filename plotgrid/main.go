// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Plotgrid draws grids of line plots from tabular data.
//
// Usage:
//
//	plotgrid <command> [flags] [args]
//
// The commands are:
//
//	plot    plot a data file, one panel per group
//	new     write a project file with one plot per group
//	render  render a project file
//	table   print a data file or its inferred schema
//	batch   run plotgrid commands from a script
//	serve   serve an HTTP API for assembling and rendering plots
//
// Data files may be CSV, TSV, or Excel workbooks. A plot request names
// an x column, a y column, optional hue columns that split each panel
// into traces, and optional group columns that split the data into one
// panel per combination of values. Grouped panels share their axis
// limits unless limits are given explicitly.
//
// Run "plotgrid <command> -h" for a command's flags.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
)

type subcommand struct {
	name  string
	usage string
	run   func(args []string) error
}

var subcommands = make(map[string]*subcommand)

// registerSubcommand adds a command. run is called with the arguments
// following the command name and must parse them with a fresh
// flag.FlagSet so commands can run more than once per process.
func registerSubcommand(name, usage string, run func(args []string) error) {
	subcommands[name] = &subcommand{name, usage, run}
}

// errUsage reports a command line error whose usage message has
// already been printed.
var errUsage = errors.New("usage error")

func main() {
	log.SetPrefix("plotgrid: ")
	log.SetFlags(0)

	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args]\n\nCommands:\n", os.Args[0])
	var names []string
	for name := range subcommands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s %s\n", name, subcommands[name].usage)
	}
}

// run runs the command named by args[0].
func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}
	sc := subcommands[args[0]]
	if sc == nil {
		usage()
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
	return sc.run(args[1:])
}

// newFlagSet returns a flag set for command name whose usage message
// shows argsUsage after the flags.
func newFlagSet(name, argsUsage string) *flag.FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [flags] %s\n", os.Args[0], name, argsUsage)
		f.PrintDefaults()
	}
	return f
}

// parseFlags parses args with f and checks that between min and max
// positional arguments remain. max < 0 means no limit.
func parseFlags(f *flag.FlagSet, args []string, min, max int) error {
	if err := f.Parse(args); err != nil {
		return errUsage
	}
	if f.NArg() < min || (max >= 0 && f.NArg() > max) {
		f.Usage()
		return errUsage
	}
	return nil
}
