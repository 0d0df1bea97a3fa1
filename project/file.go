// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Save writes p to path as indented JSON. Data source paths inside
// the directory containing path are stored relative to it.
func Save(p *Project, path string) error {
	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return err
	}

	out := *p
	if out.Version == "" {
		out.Version = Version
	}
	out.DataSources = make([]*DataSource, len(p.DataSources))
	for i, ds := range p.DataSources {
		c := *ds
		c.Path = relTo(root, ds.Path)
		out.DataSources[i] = &c
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0666)
}

func relTo(root, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return rel
}

// Load reads a project from path. Relative data source paths are
// resolved against the directory containing path.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := new(Project)
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Version == "" {
		return nil, fmt.Errorf("%s: not a project file (no version)", path)
	}

	root := filepath.Dir(path)
	for _, ds := range p.DataSources {
		if ds.Path != "" && !filepath.IsAbs(ds.Path) {
			ds.Path = filepath.Join(root, ds.Path)
		}
	}
	for _, pl := range p.Plots {
		if pl.Position.RowSpan < 1 {
			pl.Position.RowSpan = 1
		}
		if pl.Position.ColSpan < 1 {
			pl.Position.ColSpan = 1
		}
	}
	return p, nil
}
