// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
)

func init() {
	registerSubcommand("batch", "[flags] [script] -- run plotgrid commands from a script (default stdin)", cmdBatch)
}

func cmdBatch(args []string) error {
	f := newFlagSet("batch", "[script]")
	keepGoing := f.Bool("k", false, "keep going after a command fails")
	if err := parseFlags(f, args, 0, 1); err != nil {
		return err
	}
	name, r := "<stdin>", io.Reader(os.Stdin)
	if f.NArg() == 1 && f.Arg(0) != "-" {
		name = f.Arg(0)
		file, err := os.Open(name)
		if err != nil {
			return err
		}
		defer file.Close()
		r = file
	}

	cmds, err := splitScript(r)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	failed := 0
	for _, cmd := range cmds {
		err := runScriptCommand(cmd.args)
		if err == nil {
			continue
		}
		err = fmt.Errorf("%s:%d: %w", name, cmd.line, err)
		if !*keepGoing {
			return err
		}
		fmt.Fprintln(os.Stderr, err)
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d commands failed", failed, len(cmds))
	}
	return nil
}

type scriptCommand struct {
	line int
	args []string
}

// splitScript reads one command per line from r. Blank lines and
// lines starting with # are skipped. Words are split as by a POSIX
// shell, without expansion.
func splitScript(r io.Reader) ([]scriptCommand, error) {
	var cmds []scriptCommand
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		words, err := shellquote.Split(text)
		if err != nil {
			return nil, fmt.Errorf("%d: %w", line, err)
		}
		if len(words) > 0 && words[0] == "plotgrid" {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		cmds = append(cmds, scriptCommand{line, words})
	}
	return cmds, sc.Err()
}

func runScriptCommand(args []string) error {
	switch args[0] {
	case "batch", "serve":
		return fmt.Errorf("%s cannot run from a script", args[0])
	}
	return run(args)
}
