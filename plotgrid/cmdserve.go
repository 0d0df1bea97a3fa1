// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-plotgrid/dataset"
	"github.com/aclements/go-plotgrid/facet"
	"github.com/aclements/go-plotgrid/limits"
	"github.com/aclements/go-plotgrid/plot"
	"github.com/aclements/go-plotgrid/render"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func init() {
	registerSubcommand("serve", "[flags] data-file... -- serve an HTTP API for assembling and rendering plots", cmdServe)
}

func cmdServe(args []string) error {
	f := newFlagSet("serve", "data-file...")
	addr := f.String("http", "localhost:8080", "listen on `address`")
	cfg := configFlags(f)
	opts := render.DefaultOptions()
	f.Float64Var(&opts.Width, "width", opts.Width, "default page width in `inches`")
	f.Float64Var(&opts.Height, "height", opts.Height, "default page height in `inches`")
	f.IntVar(&opts.DPI, "dpi", opts.DPI, "`pixels` per inch")
	if err := parseFlags(f, args, 1, -1); err != nil {
		return err
	}
	opts.Config = *cfg

	tables := make(map[string]*dataset.Table)
	for _, path := range f.Args() {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if tables[name] != nil {
			return fmt.Errorf("two data files named %q", name)
		}
		t, err := dataset.Load(path)
		if err != nil {
			return err
		}
		tables[name] = t
	}

	e := newServer(tables, opts)
	log.Printf("serving %d data sets on http://%s", len(tables), *addr)
	return e.Start(*addr)
}

type server struct {
	tables map[string]*dataset.Table
	opts   render.Options
}

// newServer returns the HTTP API over tables.
//
//	GET  /api/datasets                  list data sets and their schemas
//	POST /api/datasets/:name/assemble   assemble a JSON plot request
//	POST /api/datasets/:name/render     render a JSON plot request
//
// The render endpoint takes format (svg or png), cols, width, and
// height query parameters.
func newServer(tables map[string]*dataset.Table, opts render.Options) *echo.Echo {
	s := &server{tables, opts}
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	api := e.Group("/api")
	api.GET("/datasets", s.listDatasets)
	api.POST("/datasets/:name/assemble", s.assemble)
	api.POST("/datasets/:name/render", s.renderPlot)
	return e
}

type datasetInfo struct {
	Name   string               `json:"name"`
	Rows   int                  `json:"rows"`
	Schema []dataset.ColumnInfo `json:"schema"`
}

func (s *server) listDatasets(c echo.Context) error {
	out := []datasetInfo{}
	for name, t := range s.tables {
		out = append(out, datasetInfo{name, t.Len(), t.Schema()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return c.JSON(http.StatusOK, out)
}

// assembly decodes the request in c's body and assembles it over the
// named table.
func (s *server) assembly(c echo.Context) (*plot.Assembly, error) {
	name := c.Param("name")
	t := s.tables[name]
	if t == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("unknown data set %q", name))
	}
	req := new(plot.Request)
	if err := json.NewDecoder(c.Request().Body).Decode(req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "bad plot request: "+err.Error())
	}
	asm, err := plot.Assemble(t, req, s.opts.Config)
	if err != nil {
		return nil, httpError(err)
	}
	return asm, nil
}

// httpError maps assembly errors to HTTP errors.
func httpError(err error) error {
	var verr *plot.ValidationError
	var cerr *facet.CombinationLimitError
	switch {
	case errors.As(err, &verr), errors.As(err, &cerr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, limits.ErrEmptyDataSet):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return err
}

func (s *server) assemble(c echo.Context) error {
	asm, err := s.assembly(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, asm)
}

func (s *server) renderPlot(c echo.Context) error {
	format := render.SVG
	if q := c.QueryParam("format"); q != "" {
		var err error
		if format, err = render.ParseFormat(q); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	opts := s.opts
	for _, p := range []struct {
		name string
		v    *float64
	}{{"width", &opts.Width}, {"height", &opts.Height}} {
		if q := c.QueryParam(p.name); q != "" {
			v, err := strconv.ParseFloat(q, 64)
			if err != nil || v <= 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "bad "+p.name)
			}
			*p.v = v
		}
	}
	cols, _ := strconv.Atoi(c.QueryParam("cols"))

	asm, err := s.assembly(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, render.Wrap(asm.Instances, cols), format, opts); err != nil {
		return err
	}
	ctype := "image/svg+xml"
	if format == render.PNG {
		ctype = "image/png"
	}
	return c.Blob(http.StatusOK, ctype, buf.Bytes())
}
